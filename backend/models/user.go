package models

import "gorm.io/gorm"

// Roles a user can hold. Role is mutable only through the admin endpoints.
const (
	RoleStudent = "STUDENT"
	RoleMentor  = "MENTOR"
	RoleAdmin   = "ADMIN"
)

type User struct {
	gorm.Model
	Email        string `gorm:"unique;not null"`
	Name         string `gorm:"not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:STUDENT"`
	// BranchID is set by an admin when the user is attached to a branch.
	BranchID *uint
	// MentorID, if set, must reference a user with RoleMentor.
	MentorID *uint
	Hobbies  []Hobby
}
