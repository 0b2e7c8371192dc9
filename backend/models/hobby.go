package models

import "gorm.io/gorm"

// Hobby belongs to exactly one user and is deletable only by its owner.
type Hobby struct {
	gorm.Model
	UserID uint   `gorm:"index;not null"`
	Name   string `gorm:"not null"`
}
