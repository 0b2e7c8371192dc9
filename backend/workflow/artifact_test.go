package workflow

import (
	"testing"

	"project/backend/apperrors"
	"project/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestSubmitArtifactFromLegalStates(t *testing.T) {
	for _, status := range []string{
		models.ArtifactDraft,
		models.ArtifactInProgress,
		models.ArtifactNeedsImprovement,
	} {
		next, err := SubmitArtifact(status, ArtifactRules{})
		assert.NoError(t, err)
		assert.Equal(t, models.ArtifactSubmitted, next)
	}
}

func TestSubmitArtifactAlreadySubmitted(t *testing.T) {
	_, err := SubmitArtifact(models.ArtifactSubmitted, ArtifactRules{})
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	// The failure must report the current status.
	assert.Contains(t, err.Error(), "SUBMITTED")
}

func TestSubmitValidatedArtifactIsStrictByDefault(t *testing.T) {
	_, err := SubmitArtifact(models.ArtifactValidated, ArtifactRules{})
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
}

func TestSubmitValidatedArtifactWithResubmission(t *testing.T) {
	next, err := SubmitArtifact(models.ArtifactValidated, ArtifactRules{AllowResubmission: true})
	assert.NoError(t, err)
	assert.Equal(t, models.ArtifactSubmitted, next)
}

func TestReviewArtifactOutcomes(t *testing.T) {
	next, err := ReviewArtifact(models.ArtifactSubmitted, OutcomeValidate)
	assert.NoError(t, err)
	assert.Equal(t, models.ArtifactValidated, next)

	next, err = ReviewArtifact(models.ArtifactSubmitted, OutcomeNeedsImprovement)
	assert.NoError(t, err)
	assert.Equal(t, models.ArtifactNeedsImprovement, next)
}

func TestReviewArtifactRequiresSubmitted(t *testing.T) {
	for _, status := range []string{
		models.ArtifactDraft,
		models.ArtifactInProgress,
		models.ArtifactNeedsImprovement,
		models.ArtifactValidated,
	} {
		_, err := ReviewArtifact(status, OutcomeValidate)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
		assert.Contains(t, err.Error(), status)
	}
}

func TestReviewArtifactUnknownOutcome(t *testing.T) {
	_, err := ReviewArtifact(models.ArtifactSubmitted, "SHRUG")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
