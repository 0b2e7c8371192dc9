package models

import "gorm.io/gorm"

// CourseNode is a fixed stage in the course sequence. Nodes are seeded once
// and read-only to students and mentors; Order defines the sequence.
type CourseNode struct {
	gorm.Model
	Order           int    `gorm:"uniqueIndex;not null"`
	Title           string `gorm:"not null"`
	WeekRange       string
	RequiredActions string `gorm:"type:text"`
}
