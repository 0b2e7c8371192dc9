package models

import "gorm.io/gorm"

type Team struct {
	gorm.Model
	Name        string `gorm:"not null"`
	MentorID    *uint
	Members     []User `gorm:"many2many:team_members"`
	ProjectCase string
	Status      string
}
