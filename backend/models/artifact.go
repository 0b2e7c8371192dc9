package models

import "gorm.io/gorm"

// Artifact review statuses.
const (
	ArtifactDraft            = "DRAFT"
	ArtifactInProgress       = "IN_PROGRESS"
	ArtifactNeedsImprovement = "NEEDS_IMPROVEMENT"
	ArtifactSubmitted        = "SUBMITTED"
	ArtifactValidated        = "VALIDATED"
)

// Artifact is a student work product tracked through the review lifecycle.
// Submission actions belong to the owner; review belongs to the owner's
// assigned mentor.
type Artifact struct {
	gorm.Model
	OwnerID uint   `gorm:"index;not null"`
	Status  string `gorm:"default:DRAFT"`
	Title   string `gorm:"not null"`
	Content string `gorm:"type:text"`
	NodeID  *uint
}

// Comment is an append-only audit record attached to an artifact, written
// as a side effect of a review.
type Comment struct {
	gorm.Model
	ArtifactID uint `gorm:"index;not null"`
	AuthorID   uint `gorm:"not null"`
	Content    string
	// Status tags the comment with the artifact status that the review produced.
	Status string
}
