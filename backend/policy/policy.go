// Package policy is the single place access rules live. Every mutation
// entry point builds a Target and asks Authorize for a decision instead of
// re-deriving role and ownership checks at the call site. Evaluation is
// pure: no I/O, no mutation.
package policy

import "project/backend/models"

// Identity is the verified user resolved by the auth middleware. Handlers
// receive it as an explicit argument, never from ambient state.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

// Action names an intent on a target entity.
type Action int

const (
	// Admin-only actions.
	ActionManageBranches Action = iota
	ActionManageUsers
	ActionManageTeams
	// ActionModerateTool is admin-only. One legacy entry point also let
	// mentors moderate; that was an inconsistency, resolved here in favor
	// of the stricter rule.
	ActionModerateTool

	// Mentor actions scoped to an assigned student or team.
	ActionReviewArtifact
	ActionUpdateProgress
	ActionViewStudent
	ActionReviewTeam

	// Mentor actions scoped to the mentor's own records.
	ActionRespondMentorship
	ActionUpdateMentorReview

	// Owner actions on the identity's own resources.
	ActionSubmitArtifact
	ActionEditArtifact
	ActionDeleteHobby
	ActionCancelMentorship
	ActionEditProfile
)

// Target carries the ownership facts needed to evaluate a rule. The caller
// resolves them before evaluation; zero means "not set".
type Target struct {
	// OwnerID is the user owning the resource (the student for artifacts
	// and progress, the author for reviews, the counterparty for requests).
	OwnerID uint
	// OwnerMentorID is the mentor directly assigned to the owner.
	OwnerMentorID uint
	// TeamMentorID is the mentor of the owner's team, when the owner is on
	// a mentor-mediated team.
	TeamMentorID uint
}

type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Reason: reason} }

// Denial reasons. Owner-scope denials deliberately do not distinguish
// "not found" from "not yours".
const (
	ReasonUnauthorized    = "Unauthorized"
	ReasonAdminsOnly      = "Forbidden: Admins only"
	ReasonMentorsOnly     = "Forbidden: Mentors only"
	ReasonNotYourStudent  = "Forbidden: not this student's mentor"
	ReasonOwnerOrNotFound = "Unauthorized or not found"
	ReasonForbidden       = "Forbidden"
)

type requirement struct {
	admin        bool
	mentor       bool
	mentorScoped bool
	ownerScoped  bool
}

var requirements = map[Action]requirement{
	ActionManageBranches: {admin: true},
	ActionManageUsers:    {admin: true},
	ActionManageTeams:    {admin: true},
	ActionModerateTool:   {admin: true},

	ActionReviewArtifact: {mentor: true, mentorScoped: true},
	ActionUpdateProgress: {mentor: true, mentorScoped: true},
	ActionViewStudent:    {mentor: true, mentorScoped: true},
	ActionReviewTeam:     {mentor: true, mentorScoped: true},

	ActionRespondMentorship:  {mentor: true, ownerScoped: true},
	ActionUpdateMentorReview: {mentor: true, ownerScoped: true},

	ActionSubmitArtifact:   {ownerScoped: true},
	ActionEditArtifact:     {ownerScoped: true},
	ActionDeleteHobby:      {ownerScoped: true},
	ActionCancelMentorship: {ownerScoped: true},
	ActionEditProfile:      {ownerScoped: true},
}

// Authorize evaluates the rule chain in priority order; the first matching
// rule decides. Unknown actions are denied.
func Authorize(id *Identity, action Action, target Target) Decision {
	if id == nil {
		return Deny(ReasonUnauthorized)
	}

	req, known := requirements[action]
	if !known {
		return Deny(ReasonForbidden)
	}

	if req.admin && id.Role != models.RoleAdmin {
		return Deny(ReasonAdminsOnly)
	}
	if req.mentor && id.Role != models.RoleMentor {
		return Deny(ReasonMentorsOnly)
	}

	if req.mentorScoped {
		// Direct assignment or team-mediated assignment both suffice.
		if target.OwnerMentorID != 0 && target.OwnerMentorID == id.UserID {
			return Allow()
		}
		if target.TeamMentorID != 0 && target.TeamMentorID == id.UserID {
			return Allow()
		}
		return Deny(ReasonNotYourStudent)
	}

	if req.ownerScoped {
		if target.OwnerID != 0 && target.OwnerID == id.UserID {
			return Allow()
		}
		return Deny(ReasonOwnerOrNotFound)
	}

	if req.admin || req.mentor {
		return Allow()
	}

	// Fail closed: no rule granted access.
	return Deny(ReasonForbidden)
}

// CanViewArtifact decides read access to an artifact and its comments:
// the owner, an admin, or the student's mentor (direct or via team).
// Anyone else is denied, and callers answer with the owner-scope reason
// so denial and absence look the same.
func CanViewArtifact(id *Identity, target Target) bool {
	if id == nil {
		return false
	}
	if id.UserID != 0 && id.UserID == target.OwnerID {
		return true
	}
	if id.Role == models.RoleAdmin {
		return true
	}
	if id.Role == models.RoleMentor {
		return Authorize(id, ActionViewStudent, target).Allowed
	}
	return false
}
