package workflow

import (
	"project/backend/apperrors"
	"project/backend/models"
)

// Request-creation failures. The two preconditions are independent and
// reported separately.
const (
	MsgPendingRequestExists = "you already have a pending mentorship request"
	MsgMentorAlreadySet     = "you already have an assigned mentor"
)

// ValidateMentorshipRequest checks the preconditions for creating a new
// request. Both checks are required; neither subsumes the other.
func ValidateMentorshipRequest(hasPendingRequest, hasMentor bool) error {
	if hasPendingRequest {
		return apperrors.Validation(MsgPendingRequestExists)
	}
	if hasMentor {
		return apperrors.Validation(MsgMentorAlreadySet)
	}
	return nil
}

// ResolveMentorship moves a PENDING request to one of its terminal states.
// Accept, reject and cancel all require the PENDING source state.
func ResolveMentorship(current, next string) (string, error) {
	if current != models.MentorshipPending {
		return "", apperrors.Newf(apperrors.KindInvalidTransition,
			"cannot resolve mentorship request in status %s", current)
	}
	switch next {
	case models.MentorshipAccepted, models.MentorshipRejected, models.MentorshipCancelled:
		return next, nil
	}
	return "", apperrors.Newf(apperrors.KindValidation,
		"unknown mentorship resolution %q", next)
}
