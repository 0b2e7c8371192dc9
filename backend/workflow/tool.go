package workflow

import (
	"strings"

	"project/backend/apperrors"
	"project/backend/models"
)

var moderationSources = map[string]bool{
	models.ToolPendingReview: true,
	models.ToolAIDiscovered:  true,
}

// ApproveTool moves a tool out of the moderation queue. Approving a tool
// that already left the queue is an error, not a silent no-op, so the
// moderator learns the item was already handled.
func ApproveTool(current string) (string, error) {
	if !moderationSources[current] {
		return "", apperrors.Newf(apperrors.KindInvalidTransition,
			"cannot approve tool in status %s", current)
	}
	return models.ToolCommunityApproved, nil
}

func RejectTool(current string) (string, error) {
	if !moderationSources[current] {
		return "", apperrors.Newf(apperrors.KindInvalidTransition,
			"cannot reject tool in status %s", current)
	}
	return models.ToolRejected, nil
}

// ToolConflictDetail is returned to the caller on a duplicate submission so
// the existing entry can be pointed at instead of silently merged.
type ToolConflictDetail struct {
	ToolID      uint   `json:"tool_id"`
	Name        string `json:"name"`
	UsageStatus string `json:"usage_status"`
}

// ToolConflict checks a new submission against existing tools. A match on
// exact URL or case-insensitive name is a conflict.
func ToolConflict(existing []models.Tool, name, url string) *apperrors.Error {
	lower := strings.ToLower(name)
	for _, t := range existing {
		if t.URL == url || strings.ToLower(t.Name) == lower {
			return apperrors.Conflict("tool already exists", ToolConflictDetail{
				ToolID:      t.ID,
				Name:        t.Name,
				UsageStatus: t.UsageStatus,
			})
		}
	}
	return nil
}
