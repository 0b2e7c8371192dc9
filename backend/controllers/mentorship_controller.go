package controllers

import (
	"errors"
	"project/backend/apperrors"
	"project/backend/cache"
	"project/backend/config"
	"project/backend/dispatch"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/policy"
	"project/backend/utils"
	"project/backend/workflow"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type MentorshipController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Dsp *dispatch.Dispatcher
}

func NewMentorshipController(db *gorm.DB, cfg *config.Config, dsp *dispatch.Dispatcher) *MentorshipController {
	return &MentorshipController{DB: db, Cfg: cfg, Dsp: dsp}
}

type MentorshipRequestInput struct {
	MentorID uint `json:"mentor_id"`
}

// Request godoc
// @Summary Request a mentor
// @Description Creates a PENDING mentorship request. Fails when the student
// @Description already holds a pending request or already has a mentor.
// @Tags mentorship
// @Accept json
// @Produce json
// @Param input body MentorshipRequestInput true "Target mentor"
// @Success 200 {object} dispatch.Result
// @Failure 422 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /mentorship/requests [post]
func (mc *MentorshipController) Request(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	var input MentorshipRequestInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(mc.Dsp, id, dispatch.Action[*models.User]{
		Load: func() (*models.User, error) {
			return loadByID[models.User](mc.DB, id.UserID, "User not found")
		},
		Transition: func(student *models.User) error {
			var pending int64
			err := mc.DB.Model(&models.MentorshipRequest{}).
				Where("student_id = ? AND status = ?", student.ID, models.MentorshipPending).
				Count(&pending).Error
			if err != nil {
				return apperrors.Store(err)
			}
			// Both preconditions hold independently; report the first that fails.
			if err := workflow.ValidateMentorshipRequest(pending > 0, student.MentorID != nil); err != nil {
				return err
			}

			mentor, err := loadByID[models.User](mc.DB, input.MentorID, "Mentor not found")
			if err != nil {
				return err
			}
			if mentor.Role != models.RoleMentor {
				return apperrors.Validation("target user is not a mentor")
			}
			return nil
		},
		Mutate: func(student *models.User) (any, error) {
			request := models.MentorshipRequest{
				StudentID: student.ID,
				MentorID:  input.MentorID,
				Status:    models.MentorshipPending,
			}
			if err := mc.DB.Create(&request).Error; err != nil {
				// The partial unique index backstops the precondition
				// check against two requests racing past it.
				if isPendingConflict(err) {
					return nil, apperrors.Validation(workflow.MsgPendingRequestExists)
				}
				return nil, apperrors.Store(err)
			}
			return request, nil
		},
		StaleViews: func(student *models.User) []string {
			return []string{cache.ViewStudent(student.ID)}
		},
	})
	return utils.SendResult(c, res)
}

// Accept godoc
// @Summary Accept a mentorship request
// @Description Mentor-only. Updates the request to ACCEPTED and assigns the
// @Description mentor to the student as one atomic unit.
// @Tags mentorship
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dispatch.Result
// @Failure 403 {object} dispatch.Result
// @Failure 409 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /mentorship/requests/{id}/accept [post]
func (mc *MentorshipController) Accept(c *fiber.Ctx) error {
	return mc.respond(c, models.MentorshipAccepted)
}

// Reject godoc
// @Summary Reject a mentorship request
// @Tags mentorship
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /mentorship/requests/{id}/reject [post]
func (mc *MentorshipController) Reject(c *fiber.Ctx) error {
	return mc.respond(c, models.MentorshipRejected)
}

// respond handles the mentor half of the lifecycle (accept/reject).
func (mc *MentorshipController) respond(c *fiber.Ctx, resolution string) error {
	id := middleware.Identity(c)

	requestID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid request ID")
	}

	res := dispatch.Run(mc.Dsp, id, dispatch.Action[*models.MentorshipRequest]{
		Load: func() (*models.MentorshipRequest, error) {
			return loadByID[models.MentorshipRequest](mc.DB, uint(requestID), policy.ReasonOwnerOrNotFound)
		},
		Authorize: func(r *models.MentorshipRequest) (policy.Action, policy.Target) {
			// The target mentor owns the response.
			return policy.ActionRespondMentorship, policy.Target{OwnerID: r.MentorID}
		},
		Transition: func(r *models.MentorshipRequest) error {
			_, err := workflow.ResolveMentorship(r.Status, resolution)
			return err
		},
		Mutate: func(r *models.MentorshipRequest) (any, error) {
			return mc.resolve(r, resolution)
		},
		StaleViews: func(r *models.MentorshipRequest) []string {
			return []string{cache.ViewStudent(r.StudentID)}
		},
	})
	return utils.SendResult(c, res)
}

// Cancel godoc
// @Summary Cancel own mentorship request
// @Description Student-only; cancels a PENDING request
// @Tags mentorship
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /mentorship/requests/{id}/cancel [post]
func (mc *MentorshipController) Cancel(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	requestID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid request ID")
	}

	res := dispatch.Run(mc.Dsp, id, dispatch.Action[*models.MentorshipRequest]{
		Load: func() (*models.MentorshipRequest, error) {
			return loadByID[models.MentorshipRequest](mc.DB, uint(requestID), policy.ReasonOwnerOrNotFound)
		},
		Authorize: func(r *models.MentorshipRequest) (policy.Action, policy.Target) {
			return policy.ActionCancelMentorship, policy.Target{OwnerID: r.StudentID}
		},
		Transition: func(r *models.MentorshipRequest) error {
			_, err := workflow.ResolveMentorship(r.Status, models.MentorshipCancelled)
			return err
		},
		Mutate: func(r *models.MentorshipRequest) (any, error) {
			return mc.resolve(r, models.MentorshipCancelled)
		},
		StaleViews: func(r *models.MentorshipRequest) []string {
			return []string{cache.ViewStudent(r.StudentID)}
		},
	})
	return utils.SendResult(c, res)
}

// isPendingConflict reports whether err is the unique violation raised by
// idx_one_pending_request when a second PENDING request lands for the same
// student.
func isPendingConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == "23505" &&
		pgErr.ConstraintName == "idx_one_pending_request"
}

// resolve applies a terminal state to a PENDING request. The status flip is
// guarded by the store (UPDATE ... WHERE status = PENDING) so a concurrent
// accept/cancel pair resolves to exactly one winner; accepting additionally
// assigns the mentor inside the same transaction.
func (mc *MentorshipController) resolve(r *models.MentorshipRequest, resolution string) (any, error) {
	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		flip := tx.Model(&models.MentorshipRequest{}).
			Where("id = ? AND status = ?", r.ID, models.MentorshipPending).
			Update("status", resolution)
		if flip.Error != nil {
			return flip.Error
		}
		if flip.RowsAffected == 0 {
			return apperrors.Newf(apperrors.KindInvalidTransition,
				"request is no longer %s", models.MentorshipPending)
		}

		if resolution == models.MentorshipAccepted {
			if err := tx.Model(&models.User{}).
				Where("id = ?", r.StudentID).
				Update("mentor_id", r.MentorID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if e, ok := apperrors.As(err); ok {
			return nil, e
		}
		return nil, apperrors.Store(err)
	}

	r.Status = resolution
	return r, nil
}

// ListMine godoc
// @Summary List own mentorship requests
// @Description Students see requests they made; mentors see requests aimed at them
// @Tags mentorship
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /mentorship/requests [get]
func (mc *MentorshipController) ListMine(c *fiber.Ctx) error {
	id := middleware.Identity(c)
	if id == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var requests []models.MentorshipRequest
	query := mc.DB.Order("created_at DESC")
	if id.Role == models.RoleMentor {
		query = query.Where("mentor_id = ?", id.UserID)
	} else {
		query = query.Where("student_id = ?", id.UserID)
	}
	if err := query.Find(&requests).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, requests)
}

// ListMentors godoc
// @Summary List available mentors
// @Tags mentorship
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /mentorship/mentors [get]
func (mc *MentorshipController) ListMentors(c *fiber.Ctx) error {
	var mentors []models.User
	if err := mc.DB.Where("role = ?", models.RoleMentor).Find(&mentors).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	out := make([]fiber.Map, 0, len(mentors))
	for _, m := range mentors {
		out = append(out, fiber.Map{"id": m.ID, "name": m.Name, "email": m.Email})
	}
	return utils.Success(c, fiber.StatusOK, out)
}
