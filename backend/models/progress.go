package models

import "gorm.io/gorm"

// Node progress statuses. Progress moves forward only, and is mutated only
// by the student's assigned mentor.
const (
	ProgressLocked     = "LOCKED"
	ProgressAvailable  = "AVAILABLE"
	ProgressInProgress = "IN_PROGRESS"
	ProgressCompleted  = "COMPLETED"
)

// UserNodeProgress tracks one student's status on one course node.
type UserNodeProgress struct {
	gorm.Model
	UserID uint   `gorm:"uniqueIndex:idx_user_node;not null"`
	NodeID uint   `gorm:"uniqueIndex:idx_user_node;not null"`
	Status string `gorm:"default:LOCKED"`
}
