package workflow

import (
	"testing"

	"project/backend/apperrors"
	"project/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceProgressForwardSteps(t *testing.T) {
	steps := [][2]string{
		{models.ProgressLocked, models.ProgressAvailable},
		{models.ProgressAvailable, models.ProgressInProgress},
		{models.ProgressInProgress, models.ProgressCompleted},
	}
	for _, step := range steps {
		next, err := AdvanceProgress(step[0], step[1])
		assert.NoError(t, err)
		assert.Equal(t, step[1], next)
	}
}

func TestAdvanceProgressNoSkipsOrRewinds(t *testing.T) {
	_, err := AdvanceProgress(models.ProgressLocked, models.ProgressCompleted)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))

	_, err = AdvanceProgress(models.ProgressCompleted, models.ProgressAvailable)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))

	_, err = AdvanceProgress(models.ProgressInProgress, models.ProgressInProgress)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
}

func TestAdvanceProgressUnknownStatus(t *testing.T) {
	_, err := AdvanceProgress("FLOATING", models.ProgressAvailable)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
