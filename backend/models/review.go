package models

import "gorm.io/gorm"

// MentorReview is one mentor's feedback entry for a team. A mentor may hold
// many reviews per team (a history, not a single current value); only the
// authoring mentor may update their own review.
type MentorReview struct {
	gorm.Model
	TeamID   uint   `gorm:"index;not null"`
	MentorID uint   `gorm:"index;not null"`
	Feedback string `gorm:"type:text"`
	Status   string
}
