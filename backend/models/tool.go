package models

import "gorm.io/gorm"

// Tool usage statuses driven by the moderation workflow.
const (
	// ToolPendingReview marks a community submission awaiting moderation.
	ToolPendingReview = "PENDING_REVIEW"
	// ToolAIDiscovered marks a tool found by the discovery automation.
	ToolAIDiscovered = "AI_DISCOVERED"
	// ToolCommunityApproved marks a submission approved by an admin.
	ToolCommunityApproved = "COMMUNITY_APPROVED"
	// ToolRejected marks a submission turned down by an admin.
	ToolRejected = "REJECTED"
	// ToolCourseOfficial marks a tool that is part of the course material.
	ToolCourseOfficial = "COURSE_OFFICIAL"
)

// Tool name uniqueness is case-insensitive and enforced by the duplicate
// guard on submission, not by a column constraint.
type Tool struct {
	gorm.Model
	Name          string `gorm:"not null"`
	URL           string `gorm:"unique;not null"`
	UsageStatus   string `gorm:"default:PENDING_REVIEW"`
	SubmittedByID *uint
}
