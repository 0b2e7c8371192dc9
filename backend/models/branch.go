package models

import "gorm.io/gorm"

// Branch is a physical location users belong to. Branches are toggled
// active/inactive by admins and never hard-deleted.
type Branch struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Location string
	Active   bool `gorm:"default:true"`
}
