package controllers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsPendingConflict(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "idx_one_pending_request"}
	assert.True(t, isPendingConflict(dup))
	assert.True(t, isPendingConflict(fmt.Errorf("create request: %w", dup)))

	// Unique violations on other constraints are not this conflict.
	other := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	assert.False(t, isPendingConflict(other))

	assert.False(t, isPendingConflict(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isPendingConflict(errors.New("connection reset")))
	assert.False(t, isPendingConflict(nil))
}
