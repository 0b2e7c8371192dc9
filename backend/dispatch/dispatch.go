// Package dispatch is the one orchestration path every mutation entry
// point goes through: resolve identity, load the target, authorize,
// validate the workflow transition, mutate, signal stale views. All
// failures come back as the uniform Result; nothing escapes as a fault.
package dispatch

import (
	"log"

	"project/backend/apperrors"
	"project/backend/cache"
	"project/backend/policy"
)

// Result is the discriminated outcome every action returns.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	// Detail carries structured failure data, e.g. the conflicting tool on
	// a duplicate submission.
	Detail any `json:"detail,omitempty"`
}

func ok(data any) Result { return Result{Success: true, Data: data} }

// Action describes one dispatched mutation over a target of type T.
// Steps left nil are skipped; Load and Mutate are mandatory.
type Action[T any] struct {
	// Load fetches the target. Return apperrors.NotFound when absent and
	// apperrors.Store for repository failures.
	Load func() (T, error)
	// Authorize builds the policy target from the loaded entity.
	Authorize func(T) (policy.Action, policy.Target)
	// Transition validates the workflow status change.
	Transition func(T) error
	// Mutate applies the change (plus side-effect records) atomically and
	// returns the response payload.
	Mutate func(T) (any, error)
	// StaleViews names the views invalidated by a successful mutation.
	StaleViews func(T) []string
}

// Dispatcher runs actions against a fixed policy identity source, logger
// and invalidator.
type Dispatcher struct {
	Logger      *log.Logger
	Invalidator cache.Invalidator
}

func New(logger *log.Logger, inv cache.Invalidator) *Dispatcher {
	return &Dispatcher{Logger: logger, Invalidator: inv}
}

// Run executes the five-step contract for one action.
func Run[T any](d *Dispatcher, id *policy.Identity, action Action[T]) Result {
	if id == nil {
		return fail(d, apperrors.Unauthorized(policy.ReasonUnauthorized))
	}

	target, err := action.Load()
	if err != nil {
		return fail(d, err)
	}

	if action.Authorize != nil {
		act, polTarget := action.Authorize(target)
		if decision := policy.Authorize(id, act, polTarget); !decision.Allowed {
			return fail(d, denialError(decision))
		}
	}

	if action.Transition != nil {
		if err := action.Transition(target); err != nil {
			return fail(d, err)
		}
	}

	data, err := action.Mutate(target)
	if err != nil {
		return fail(d, err)
	}

	if action.StaleViews != nil && d.Invalidator != nil {
		d.Invalidator.Invalidate(action.StaleViews(target)...)
	}

	return ok(data)
}

// denialError maps a policy denial onto the taxonomy. Owner-scope denials
// become NotFound so existence is not leaked; everything else is Forbidden
// or Unauthorized by reason.
func denialError(d policy.Decision) *apperrors.Error {
	switch d.Reason {
	case policy.ReasonUnauthorized:
		return apperrors.Unauthorized(d.Reason)
	case policy.ReasonOwnerOrNotFound:
		return apperrors.NotFound(d.Reason)
	default:
		return apperrors.Forbidden(d.Reason)
	}
}

func fail(d *Dispatcher, err error) Result {
	e, ok := apperrors.As(err)
	if !ok {
		e = apperrors.Store(err)
	}
	if e.Kind == apperrors.KindStore {
		// Internal detail stays in the log; the caller gets a generic message.
		if d != nil && d.Logger != nil {
			d.Logger.Printf("store error: %v", e.Unwrap())
		}
		return Result{Success: false, Message: "operation failed", Error: kindName(e.Kind)}
	}
	return Result{Success: false, Message: e.Message, Error: kindName(e.Kind), Detail: e.Detail}
}

func kindName(k apperrors.Kind) string {
	switch k {
	case apperrors.KindUnauthorized:
		return "Unauthorized"
	case apperrors.KindForbidden:
		return "Forbidden"
	case apperrors.KindNotFound:
		return "NotFound"
	case apperrors.KindInvalidTransition:
		return "InvalidTransition"
	case apperrors.KindConflict:
		return "Conflict"
	case apperrors.KindValidation:
		return "ValidationError"
	default:
		return "StoreError"
	}
}
