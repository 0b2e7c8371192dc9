package policy

import (
	"testing"

	"project/backend/models"

	"github.com/stretchr/testify/assert"
)

func identity(id uint, role string) *Identity {
	return &Identity{UserID: id, Email: "user@example.com", Role: role}
}

func TestAuthorizeNoIdentity(t *testing.T) {
	decision := Authorize(nil, ActionManageBranches, Target{})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonUnauthorized, decision.Reason)
}

func TestAuthorizeAdminOnly(t *testing.T) {
	adminActions := []Action{ActionManageBranches, ActionManageUsers, ActionManageTeams, ActionModerateTool}

	for _, action := range adminActions {
		decision := Authorize(identity(1, models.RoleAdmin), action, Target{})
		assert.True(t, decision.Allowed)

		for _, role := range []string{models.RoleStudent, models.RoleMentor} {
			decision := Authorize(identity(2, role), action, Target{})
			assert.False(t, decision.Allowed)
			assert.Equal(t, ReasonAdminsOnly, decision.Reason)
		}
	}
}

func TestAuthorizeMentorOnlyRejectsStudentsAndAdmins(t *testing.T) {
	target := Target{OwnerID: 5, OwnerMentorID: 10}

	for _, role := range []string{models.RoleStudent, models.RoleAdmin} {
		decision := Authorize(identity(10, role), ActionReviewArtifact, target)
		assert.False(t, decision.Allowed)
		assert.Equal(t, ReasonMentorsOnly, decision.Reason)
	}
}

func TestAuthorizeDirectMentorAssignment(t *testing.T) {
	// Direct assignment only; no team in play.
	target := Target{OwnerID: 5, OwnerMentorID: 10}

	decision := Authorize(identity(10, models.RoleMentor), ActionReviewArtifact, target)
	assert.True(t, decision.Allowed)

	// Another mentor is not this student's mentor.
	decision = Authorize(identity(11, models.RoleMentor), ActionReviewArtifact, target)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNotYourStudent, decision.Reason)
}

func TestAuthorizeTeamMediatedAssignment(t *testing.T) {
	// Team mediation only; no direct mentor assigned.
	target := Target{OwnerID: 5, TeamMentorID: 10}

	decision := Authorize(identity(10, models.RoleMentor), ActionUpdateProgress, target)
	assert.True(t, decision.Allowed)

	decision = Authorize(identity(11, models.RoleMentor), ActionUpdateProgress, target)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNotYourStudent, decision.Reason)
}

func TestAuthorizeMentorScopeWithNoAssignment(t *testing.T) {
	decision := Authorize(identity(10, models.RoleMentor), ActionViewStudent, Target{OwnerID: 5})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNotYourStudent, decision.Reason)
}

func TestAuthorizeOwnerScope(t *testing.T) {
	decision := Authorize(identity(5, models.RoleStudent), ActionDeleteHobby, Target{OwnerID: 5})
	assert.True(t, decision.Allowed)

	// Foreign resource: same message as if it did not exist.
	decision = Authorize(identity(6, models.RoleStudent), ActionDeleteHobby, Target{OwnerID: 5})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonOwnerOrNotFound, decision.Reason)

	// Zero owner never matches anyone.
	decision = Authorize(identity(0, models.RoleStudent), ActionDeleteHobby, Target{})
	assert.False(t, decision.Allowed)
}

func TestAuthorizeAdminCannotTouchMentorExclusives(t *testing.T) {
	// Admin authority does not extend to artifact review or review edits.
	decision := Authorize(identity(1, models.RoleAdmin), ActionReviewArtifact, Target{OwnerID: 5, OwnerMentorID: 10})
	assert.False(t, decision.Allowed)

	decision = Authorize(identity(1, models.RoleAdmin), ActionUpdateMentorReview, Target{OwnerID: 10})
	assert.False(t, decision.Allowed)
}

func TestAuthorizeMentorRespondsOwnRequestsOnly(t *testing.T) {
	decision := Authorize(identity(10, models.RoleMentor), ActionRespondMentorship, Target{OwnerID: 10})
	assert.True(t, decision.Allowed)

	decision = Authorize(identity(11, models.RoleMentor), ActionRespondMentorship, Target{OwnerID: 10})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonOwnerOrNotFound, decision.Reason)
}

func TestCanViewArtifactCircle(t *testing.T) {
	target := Target{OwnerID: 5, OwnerMentorID: 10}

	assert.False(t, CanViewArtifact(nil, target))

	// The owner, an admin, and the assigned mentor may read.
	assert.True(t, CanViewArtifact(identity(5, models.RoleStudent), target))
	assert.True(t, CanViewArtifact(identity(1, models.RoleAdmin), target))
	assert.True(t, CanViewArtifact(identity(10, models.RoleMentor), target))

	// Team mediation counts the same as direct assignment.
	assert.True(t, CanViewArtifact(identity(12, models.RoleMentor), Target{OwnerID: 5, TeamMentorID: 12}))

	// Any other authenticated user does not.
	assert.False(t, CanViewArtifact(identity(6, models.RoleStudent), target))
	assert.False(t, CanViewArtifact(identity(11, models.RoleMentor), target))
}

func TestAuthorizeUnknownActionFailsClosed(t *testing.T) {
	decision := Authorize(identity(1, models.RoleAdmin), Action(999), Target{})
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonForbidden, decision.Reason)
}
