package dispatch

import (
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"project/backend/apperrors"
	"project/backend/models"
	"project/backend/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInvalidator struct {
	mu   sync.Mutex
	keys []string
}

func (r *recordingInvalidator) Invalidate(keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, keys...)
}

func testDispatcher() (*Dispatcher, *recordingInvalidator) {
	inv := &recordingInvalidator{}
	return New(log.New(io.Discard, "", 0), inv), inv
}

func student(id uint) *policy.Identity {
	return &policy.Identity{UserID: id, Role: models.RoleStudent}
}

func TestRunHappyPath(t *testing.T) {
	d, inv := testDispatcher()

	res := Run(d, student(5), Action[string]{
		Load: func() (string, error) { return "target", nil },
		Authorize: func(string) (policy.Action, policy.Target) {
			return policy.ActionDeleteHobby, policy.Target{OwnerID: 5}
		},
		Transition: func(string) error { return nil },
		Mutate:     func(s string) (any, error) { return s + "-mutated", nil },
		StaleViews: func(string) []string { return []string{"students/5"} },
	})

	assert.True(t, res.Success)
	assert.Equal(t, "target-mutated", res.Data)
	assert.Equal(t, []string{"students/5"}, inv.keys)
}

func TestRunNilIdentity(t *testing.T) {
	d, _ := testDispatcher()

	res := Run(d, nil, Action[string]{
		Load:   func() (string, error) { t.Fatal("load must not run"); return "", nil },
		Mutate: func(string) (any, error) { return nil, nil },
	})

	assert.False(t, res.Success)
	assert.Equal(t, "Unauthorized", res.Error)
}

func TestRunLoadNotFoundStopsChain(t *testing.T) {
	d, inv := testDispatcher()

	res := Run(d, student(5), Action[string]{
		Load: func() (string, error) { return "", apperrors.NotFound("Tool not found") },
		Authorize: func(string) (policy.Action, policy.Target) {
			t.Fatal("authorize must not run")
			return 0, policy.Target{}
		},
		Mutate: func(string) (any, error) { return nil, nil },
	})

	assert.False(t, res.Success)
	assert.Equal(t, "NotFound", res.Error)
	assert.Equal(t, "Tool not found", res.Message)
	assert.Empty(t, inv.keys)
}

func TestRunDenialStopsBeforeTransition(t *testing.T) {
	d, _ := testDispatcher()

	res := Run(d, student(6), Action[string]{
		Load: func() (string, error) { return "target", nil },
		Authorize: func(string) (policy.Action, policy.Target) {
			return policy.ActionDeleteHobby, policy.Target{OwnerID: 5}
		},
		Transition: func(string) error { t.Fatal("transition must not run"); return nil },
		Mutate:     func(string) (any, error) { t.Fatal("mutate must not run"); return nil, nil },
	})

	assert.False(t, res.Success)
	// Owner-scope denials hide existence.
	assert.Equal(t, "NotFound", res.Error)
	assert.Equal(t, policy.ReasonOwnerOrNotFound, res.Message)
}

func TestRunRoleDenialIsForbidden(t *testing.T) {
	d, _ := testDispatcher()

	res := Run(d, student(6), Action[string]{
		Load: func() (string, error) { return "target", nil },
		Authorize: func(string) (policy.Action, policy.Target) {
			return policy.ActionModerateTool, policy.Target{}
		},
		Mutate: func(string) (any, error) { return nil, nil },
	})

	assert.False(t, res.Success)
	assert.Equal(t, "Forbidden", res.Error)
	assert.Equal(t, policy.ReasonAdminsOnly, res.Message)
}

func TestRunInvalidTransition(t *testing.T) {
	d, inv := testDispatcher()

	res := Run(d, student(5), Action[string]{
		Load: func() (string, error) { return "target", nil },
		Transition: func(string) error {
			return apperrors.Newf(apperrors.KindInvalidTransition, "cannot submit artifact in status %s", "SUBMITTED")
		},
		Mutate: func(string) (any, error) { t.Fatal("mutate must not run"); return nil, nil },
	})

	assert.False(t, res.Success)
	assert.Equal(t, "InvalidTransition", res.Error)
	assert.Contains(t, res.Message, "SUBMITTED")
	assert.Empty(t, inv.keys)
}

func TestRunConflictCarriesDetail(t *testing.T) {
	d, _ := testDispatcher()

	res := Run(d, student(5), Action[string]{
		Load: func() (string, error) { return "target", nil },
		Transition: func(string) error {
			return apperrors.Conflict("tool already exists", map[string]any{"tool_id": 7})
		},
		Mutate: func(string) (any, error) { return nil, nil },
	})

	assert.False(t, res.Success)
	assert.Equal(t, "Conflict", res.Error)
	require.NotNil(t, res.Detail)
}

func TestRunStoreErrorIsGeneric(t *testing.T) {
	d, _ := testDispatcher()

	res := Run(d, student(5), Action[string]{
		Load:   func() (string, error) { return "target", nil },
		Mutate: func(string) (any, error) { return nil, errors.New("pq: connection refused") },
	})

	assert.False(t, res.Success)
	assert.Equal(t, "StoreError", res.Error)
	// Internal detail never crosses the boundary.
	assert.Equal(t, "operation failed", res.Message)
	assert.NotContains(t, res.Message, "connection refused")
}

func TestRunLoadStoreErrorIsGeneric(t *testing.T) {
	d, _ := testDispatcher()

	// Resolving ownership facts can itself hit the store; a failure there
	// must surface as a store error, not pass for "no such record".
	res := Run(d, student(5), Action[string]{
		Load: func() (string, error) {
			return "", apperrors.Store(errors.New("pq: read timeout"))
		},
		Mutate: func(string) (any, error) { return "unreachable", nil },
	})

	assert.False(t, res.Success)
	assert.Equal(t, "StoreError", res.Error)
	assert.Equal(t, "operation failed", res.Message)
	assert.NotContains(t, res.Message, "read timeout")
}

// casRequest mimics the store's guarded status flip: only the first caller
// to move the request out of PENDING wins.
type casRequest struct {
	mu       sync.Mutex
	status   string
	mentorID uint
	// assigned mirrors student.mentorId.
	assigned *uint
}

func (r *casRequest) resolve(resolution string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != models.MentorshipPending {
		return apperrors.Newf(apperrors.KindInvalidTransition, "request is no longer PENDING")
	}
	r.status = resolution
	if resolution == models.MentorshipAccepted {
		id := r.mentorID
		r.assigned = &id
	}
	return nil
}

func TestConcurrentAcceptAndCancelHaveOneWinner(t *testing.T) {
	for i := 0; i < 50; i++ {
		req := &casRequest{status: models.MentorshipPending, mentorID: 10}
		d, _ := testDispatcher()

		mentor := &policy.Identity{UserID: 10, Role: models.RoleMentor}
		run := func(id *policy.Identity, act policy.Action, owner uint, resolution string, out *Result, wg *sync.WaitGroup) {
			defer wg.Done()
			*out = Run(d, id, Action[*casRequest]{
				Load: func() (*casRequest, error) { return req, nil },
				Authorize: func(*casRequest) (policy.Action, policy.Target) {
					return act, policy.Target{OwnerID: owner}
				},
				Mutate: func(r *casRequest) (any, error) {
					if err := r.resolve(resolution); err != nil {
						return nil, err
					}
					return r.status, nil
				},
			})
		}

		var wg sync.WaitGroup
		var acceptRes, cancelRes Result
		wg.Add(2)
		go run(mentor, policy.ActionRespondMentorship, 10, models.MentorshipAccepted, &acceptRes, &wg)
		go run(student(5), policy.ActionCancelMentorship, 5, models.MentorshipCancelled, &cancelRes, &wg)
		wg.Wait()

		// Exactly one of the two effects applied.
		assert.NotEqual(t, acceptRes.Success, cancelRes.Success)
		if acceptRes.Success {
			assert.Equal(t, models.MentorshipAccepted, req.status)
			require.NotNil(t, req.assigned)
			assert.Equal(t, uint(10), *req.assigned)
		} else {
			assert.Equal(t, models.MentorshipCancelled, req.status)
			// mentorId is set iff the result is ACCEPTED.
			assert.Nil(t, req.assigned)
		}
	}
}
