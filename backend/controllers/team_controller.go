package controllers

import (
	"project/backend/apperrors"
	"project/backend/cache"
	"project/backend/config"
	"project/backend/dispatch"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/policy"
	"project/backend/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TeamController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Dsp *dispatch.Dispatcher
}

func NewTeamController(db *gorm.DB, cfg *config.Config, dsp *dispatch.Dispatcher) *TeamController {
	return &TeamController{DB: db, Cfg: cfg, Dsp: dsp}
}

// ListTeams godoc
// @Summary List teams
// @Tags teams
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/teams [get]
func (tc *TeamController) ListTeams(c *fiber.Ctx) error {
	var teams []models.Team
	if err := tc.DB.Preload("Members").Order("id ASC").Find(&teams).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, teams)
}

type CreateTeamRequest struct {
	Name        string `json:"name" example:"Team Atlas"`
	ProjectCase string `json:"project_case"`
	MentorID    *uint  `json:"mentor_id"`
}

// CreateTeam godoc
// @Summary Create a team
// @Tags teams
// @Accept json
// @Produce json
// @Param input body CreateTeamRequest true "Team data"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/teams [post]
func (tc *TeamController) CreateTeam(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	var input CreateTeamRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(tc.Dsp, id, dispatch.Action[struct{}]{
		Load: func() (struct{}, error) { return struct{}{}, nil },
		Authorize: func(struct{}) (policy.Action, policy.Target) {
			return policy.ActionManageTeams, policy.Target{}
		},
		Transition: func(struct{}) error {
			if len(input.Name) < 2 {
				return apperrors.Validation("team name is too short")
			}
			if input.MentorID != nil {
				mentor, err := loadByID[models.User](tc.DB, *input.MentorID, "Mentor not found")
				if err != nil {
					return err
				}
				if mentor.Role != models.RoleMentor {
					return apperrors.Validation("target user is not a mentor")
				}
			}
			return nil
		},
		Mutate: func(struct{}) (any, error) {
			team := models.Team{
				Name:        input.Name,
				ProjectCase: input.ProjectCase,
				MentorID:    input.MentorID,
				Status:      "ACTIVE",
			}
			if err := tc.DB.Create(&team).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return team, nil
		},
		StaleViews: func(struct{}) []string {
			return []string{cache.ViewAdminTeams}
		},
	})
	return utils.SendResult(c, res)
}

type SetTeamMentorRequest struct {
	MentorID *uint `json:"mentor_id"`
}

// SetTeamMentor godoc
// @Summary Assign a mentor to a team
// @Tags teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param input body SetTeamMentorRequest true "Mentor (null unassigns)"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/teams/{id}/mentor [put]
func (tc *TeamController) SetTeamMentor(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	teamID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid team ID")
	}

	var input SetTeamMentorRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(tc.Dsp, id, dispatch.Action[*models.Team]{
		Load: func() (*models.Team, error) {
			return loadByID[models.Team](tc.DB, uint(teamID), "Team not found")
		},
		Authorize: func(*models.Team) (policy.Action, policy.Target) {
			return policy.ActionManageTeams, policy.Target{}
		},
		Transition: func(*models.Team) error {
			if input.MentorID == nil {
				return nil
			}
			mentor, err := loadByID[models.User](tc.DB, *input.MentorID, "Mentor not found")
			if err != nil {
				return err
			}
			if mentor.Role != models.RoleMentor {
				return apperrors.Validation("target user is not a mentor")
			}
			return nil
		},
		Mutate: func(t *models.Team) (any, error) {
			if err := tc.DB.Model(t).Update("mentor_id", input.MentorID).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return t, nil
		},
		StaleViews: func(t *models.Team) []string {
			return []string{cache.ViewAdminTeams, cache.ViewTeam(t.ID)}
		},
	})
	return utils.SendResult(c, res)
}

type TeamMemberRequest struct {
	UserID uint `json:"user_id"`
}

// AddMember godoc
// @Summary Add a member to a team
// @Tags teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param input body TeamMemberRequest true "User"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/teams/{id}/members [post]
func (tc *TeamController) AddMember(c *fiber.Ctx) error {
	return tc.changeMember(c, true)
}

// RemoveMember godoc
// @Summary Remove a member from a team
// @Tags teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param input body TeamMemberRequest true "User"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/teams/{id}/members [delete]
func (tc *TeamController) RemoveMember(c *fiber.Ctx) error {
	return tc.changeMember(c, false)
}

func (tc *TeamController) changeMember(c *fiber.Ctx, add bool) error {
	id := middleware.Identity(c)

	teamID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid team ID")
	}

	var input TeamMemberRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(tc.Dsp, id, dispatch.Action[*models.Team]{
		Load: func() (*models.Team, error) {
			return loadByID[models.Team](tc.DB, uint(teamID), "Team not found")
		},
		Authorize: func(*models.Team) (policy.Action, policy.Target) {
			return policy.ActionManageTeams, policy.Target{}
		},
		Transition: func(*models.Team) error {
			_, err := loadByID[models.User](tc.DB, input.UserID, "User not found")
			return err
		},
		Mutate: func(t *models.Team) (any, error) {
			user := models.User{Model: gorm.Model{ID: input.UserID}}
			assoc := tc.DB.Model(t).Association("Members")
			var assocErr error
			if add {
				assocErr = assoc.Append(&user)
			} else {
				assocErr = assoc.Delete(&user)
			}
			if assocErr != nil {
				return nil, apperrors.Store(assocErr)
			}
			return t, nil
		},
		StaleViews: func(t *models.Team) []string {
			return []string{cache.ViewAdminTeams, cache.ViewTeam(t.ID), cache.ViewStudent(input.UserID)}
		},
	})
	return utils.SendResult(c, res)
}

type MentorReviewRequest struct {
	Feedback string `json:"feedback"`
	Status   string `json:"status" example:"ON_TRACK"`
}

// CreateReview godoc
// @Summary Add a mentor review for a team
// @Description Mentor-only; the mentor must be assigned to the team. Each
// @Description call appends to the review history.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param input body MentorReviewRequest true "Review data"
// @Success 200 {object} dispatch.Result
// @Failure 403 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /teams/{id}/reviews [post]
func (tc *TeamController) CreateReview(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	teamID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid team ID")
	}

	var input MentorReviewRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(tc.Dsp, id, dispatch.Action[*models.Team]{
		Load: func() (*models.Team, error) {
			return loadByID[models.Team](tc.DB, uint(teamID), "Team not found")
		},
		Authorize: func(t *models.Team) (policy.Action, policy.Target) {
			// Only the team's assigned mentor may write its reviews.
			target := policy.Target{}
			if t.MentorID != nil {
				target.TeamMentorID = *t.MentorID
			}
			return policy.ActionReviewTeam, target
		},
		Transition: func(*models.Team) error {
			if input.Feedback == "" {
				return apperrors.Validation("feedback is required")
			}
			return nil
		},
		Mutate: func(t *models.Team) (any, error) {
			review := models.MentorReview{
				TeamID:   t.ID,
				MentorID: id.UserID,
				Feedback: input.Feedback,
				Status:   input.Status,
			}
			if err := tc.DB.Create(&review).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return review, nil
		},
		StaleViews: func(t *models.Team) []string {
			return []string{cache.ViewTeam(t.ID)}
		},
	})
	return utils.SendResult(c, res)
}

// UpdateReview godoc
// @Summary Update own mentor review
// @Description Only the authoring mentor may update a review; admins may not.
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Review ID"
// @Param input body MentorReviewRequest true "Review data"
// @Success 200 {object} dispatch.Result
// @Failure 404 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /reviews/{id} [put]
func (tc *TeamController) UpdateReview(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	reviewID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid review ID")
	}

	var input MentorReviewRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(tc.Dsp, id, dispatch.Action[*models.MentorReview]{
		Load: func() (*models.MentorReview, error) {
			return loadByID[models.MentorReview](tc.DB, uint(reviewID), policy.ReasonOwnerOrNotFound)
		},
		Authorize: func(r *models.MentorReview) (policy.Action, policy.Target) {
			return policy.ActionUpdateMentorReview, policy.Target{OwnerID: r.MentorID}
		},
		Transition: func(*models.MentorReview) error {
			if input.Feedback == "" {
				return apperrors.Validation("feedback is required")
			}
			return nil
		},
		Mutate: func(r *models.MentorReview) (any, error) {
			updates := map[string]any{"feedback": input.Feedback}
			if input.Status != "" {
				updates["status"] = input.Status
			}
			if err := tc.DB.Model(r).Updates(updates).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return r, nil
		},
		StaleViews: func(r *models.MentorReview) []string {
			return []string{cache.ViewTeam(r.TeamID)}
		},
	})
	return utils.SendResult(c, res)
}

// ListReviews godoc
// @Summary List a team's mentor reviews
// @Tags reviews
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /teams/{id}/reviews [get]
func (tc *TeamController) ListReviews(c *fiber.Ctx) error {
	id := middleware.Identity(c)
	if id == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	teamID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid team ID")
	}

	var reviews []models.MentorReview
	if err := tc.DB.Where("team_id = ?", teamID).Order("created_at DESC").Find(&reviews).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, reviews)
}
