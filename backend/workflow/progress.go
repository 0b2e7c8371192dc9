package workflow

import (
	"project/backend/apperrors"
	"project/backend/models"
)

// progressOrder fixes the forward-only sequence for node progress.
var progressOrder = map[string]int{
	models.ProgressLocked:     0,
	models.ProgressAvailable:  1,
	models.ProgressInProgress: 2,
	models.ProgressCompleted:  3,
}

// AdvanceProgress validates a node-progress change. Moves go forward one
// step at a time; skipping or rewinding is rejected.
func AdvanceProgress(current, next string) (string, error) {
	from, ok := progressOrder[current]
	if !ok {
		return "", apperrors.Newf(apperrors.KindValidation, "unknown progress status %q", current)
	}
	to, ok := progressOrder[next]
	if !ok {
		return "", apperrors.Newf(apperrors.KindValidation, "unknown progress status %q", next)
	}
	if to != from+1 {
		return "", apperrors.Newf(apperrors.KindInvalidTransition,
			"cannot move progress from %s to %s", current, next)
	}
	return next, nil
}
