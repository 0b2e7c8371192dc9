package workflow

import (
	"testing"

	"project/backend/apperrors"
	"project/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateMentorshipRequest(t *testing.T) {
	assert.NoError(t, ValidateMentorshipRequest(false, false))
}

func TestValidateMentorshipRequestPendingExists(t *testing.T) {
	err := ValidateMentorshipRequest(true, false)
	assert.Error(t, err)
	assert.EqualError(t, err, MsgPendingRequestExists)
}

func TestValidateMentorshipRequestMentorAssigned(t *testing.T) {
	err := ValidateMentorshipRequest(false, true)
	assert.Error(t, err)
	assert.EqualError(t, err, MsgMentorAlreadySet)
}

func TestValidateMentorshipRequestBothViolated(t *testing.T) {
	// When both preconditions fail, the pending-request one is reported.
	err := ValidateMentorshipRequest(true, true)
	assert.Error(t, err)
	assert.EqualError(t, err, MsgPendingRequestExists)
}

func TestResolveMentorshipFromPending(t *testing.T) {
	for _, next := range []string{
		models.MentorshipAccepted,
		models.MentorshipRejected,
		models.MentorshipCancelled,
	} {
		got, err := ResolveMentorship(models.MentorshipPending, next)
		assert.NoError(t, err)
		assert.Equal(t, next, got)
	}
}

func TestResolveMentorshipRequiresPending(t *testing.T) {
	for _, current := range []string{
		models.MentorshipAccepted,
		models.MentorshipRejected,
		models.MentorshipCancelled,
	} {
		_, err := ResolveMentorship(current, models.MentorshipAccepted)
		assert.Error(t, err)
		assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
		assert.Contains(t, err.Error(), current)
	}
}

func TestResolveMentorshipUnknownResolution(t *testing.T) {
	_, err := ResolveMentorship(models.MentorshipPending, "GHOSTED")
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
