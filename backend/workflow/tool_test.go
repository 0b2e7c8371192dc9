package workflow

import (
	"testing"

	"project/backend/apperrors"
	"project/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApproveToolFromModerationQueue(t *testing.T) {
	for _, status := range []string{models.ToolPendingReview, models.ToolAIDiscovered} {
		next, err := ApproveTool(status)
		assert.NoError(t, err)
		assert.Equal(t, models.ToolCommunityApproved, next)

		next, err = RejectTool(status)
		assert.NoError(t, err)
		assert.Equal(t, models.ToolRejected, next)
	}
}

func TestApproveToolAlreadyModerated(t *testing.T) {
	for _, status := range []string{
		models.ToolCommunityApproved,
		models.ToolRejected,
		models.ToolCourseOfficial,
	} {
		_, err := ApproveTool(status)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))

		_, err = RejectTool(status)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	}
}

func TestToolConflictCaseInsensitiveName(t *testing.T) {
	existing := []models.Tool{{
		Model:       gorm.Model{ID: 7},
		Name:        "cursor",
		URL:         "https://cursor.sh",
		UsageStatus: models.ToolCommunityApproved,
	}}

	conflict := ToolConflict(existing, "Cursor", "https://example.com/other")
	require.NotNil(t, conflict)
	assert.Equal(t, apperrors.KindConflict, conflict.Kind)

	detail, ok := conflict.Detail.(ToolConflictDetail)
	require.True(t, ok)
	assert.Equal(t, uint(7), detail.ToolID)
	assert.Equal(t, models.ToolCommunityApproved, detail.UsageStatus)
}

func TestToolConflictExactURL(t *testing.T) {
	existing := []models.Tool{{
		Model:       gorm.Model{ID: 3},
		Name:        "Recorder",
		URL:         "https://rec.example.com",
		UsageStatus: models.ToolPendingReview,
	}}

	conflict := ToolConflict(existing, "Totally Different", "https://rec.example.com")
	require.NotNil(t, conflict)

	detail := conflict.Detail.(ToolConflictDetail)
	assert.Equal(t, uint(3), detail.ToolID)
}

func TestToolConflictNoMatch(t *testing.T) {
	existing := []models.Tool{{Name: "Cursor", URL: "https://cursor.sh"}}
	assert.Nil(t, ToolConflict(existing, "Zed", "https://zed.dev"))
	assert.Nil(t, ToolConflict(nil, "Zed", "https://zed.dev"))
}
