package models

import "gorm.io/gorm"

// Mentorship request statuses. PENDING is the only state a request can be
// accepted, rejected or cancelled from.
const (
	MentorshipPending   = "PENDING"
	MentorshipAccepted  = "ACCEPTED"
	MentorshipRejected  = "REJECTED"
	MentorshipCancelled = "CANCELLED"
)

// MentorshipRequest pairs a student with a mentor. A student may hold at
// most one PENDING request at a time and may not request while a mentor is
// already assigned.
type MentorshipRequest struct {
	gorm.Model
	StudentID uint   `gorm:"index;not null"`
	MentorID  uint   `gorm:"index;not null"`
	Status    string `gorm:"default:PENDING"`
}
