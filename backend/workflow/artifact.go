// Package workflow defines the legal status transitions for artifact
// review, tool moderation, mentorship requests and node progress. Guards
// are pure; they look at the current status and report InvalidTransition
// with the offending status when the change is illegal.
package workflow

import (
	"project/backend/apperrors"
	"project/backend/models"
)

// ArtifactRules tunes the lenient corners of the review lifecycle.
type ArtifactRules struct {
	// AllowResubmission permits submit on a VALIDATED artifact. Off by
	// default: a validated artifact stays validated unless the rule is
	// relaxed deliberately.
	AllowResubmission bool
}

var submitSources = map[string]bool{
	models.ArtifactDraft:            true,
	models.ArtifactInProgress:       true,
	models.ArtifactNeedsImprovement: true,
}

// SubmitArtifact returns the status after a submit, or InvalidTransition.
func SubmitArtifact(current string, rules ArtifactRules) (string, error) {
	if submitSources[current] {
		return models.ArtifactSubmitted, nil
	}
	if current == models.ArtifactValidated && rules.AllowResubmission {
		return models.ArtifactSubmitted, nil
	}
	return "", apperrors.Newf(apperrors.KindInvalidTransition,
		"cannot submit artifact in status %s", current)
}

// Review outcomes a mentor can choose.
const (
	OutcomeValidate         = "VALIDATE"
	OutcomeNeedsImprovement = "NEEDS_IMPROVEMENT"
)

// ReviewArtifact returns the status after a review with the given outcome.
// Only SUBMITTED artifacts can be reviewed.
func ReviewArtifact(current, outcome string) (string, error) {
	if current != models.ArtifactSubmitted {
		return "", apperrors.Newf(apperrors.KindInvalidTransition,
			"cannot review artifact in status %s", current)
	}
	switch outcome {
	case OutcomeValidate:
		return models.ArtifactValidated, nil
	case OutcomeNeedsImprovement:
		return models.ArtifactNeedsImprovement, nil
	}
	return "", apperrors.Newf(apperrors.KindValidation,
		"unknown review outcome %q", outcome)
}
