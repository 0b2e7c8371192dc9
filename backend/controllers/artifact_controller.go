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
	"project/backend/workflow"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ArtifactController struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Dsp   *dispatch.Dispatcher
	Rules workflow.ArtifactRules
}

func NewArtifactController(db *gorm.DB, cfg *config.Config, dsp *dispatch.Dispatcher) *ArtifactController {
	return &ArtifactController{DB: db, Cfg: cfg, Dsp: dsp}
}

// artifactWithOwner bundles the artifact with the resolved ownership facts
// so authorize and mutate see the same snapshot.
type artifactWithOwner struct {
	Artifact *models.Artifact
	Owner    *models.User
	Target   policy.Target
}

func (ac *ArtifactController) loadArtifact(id uint) (*artifactWithOwner, error) {
	artifact, err := loadByID[models.Artifact](ac.DB, id, policy.ReasonOwnerOrNotFound)
	if err != nil {
		return nil, err
	}
	owner, err := loadByID[models.User](ac.DB, artifact.OwnerID, policy.ReasonOwnerOrNotFound)
	if err != nil {
		return nil, err
	}
	target, err := studentTarget(ac.DB, owner)
	if err != nil {
		return nil, err
	}
	return &artifactWithOwner{
		Artifact: artifact,
		Owner:    owner,
		Target:   target,
	}, nil
}

// ListMine godoc
// @Summary List own artifacts
// @Tags artifacts
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /artifacts [get]
func (ac *ArtifactController) ListMine(c *fiber.Ctx) error {
	id := middleware.Identity(c)
	if id == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var artifacts []models.Artifact
	if err := ac.DB.Where("owner_id = ?", id.UserID).Order("updated_at DESC").Find(&artifacts).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, artifacts)
}

type CreateArtifactRequest struct {
	Title   string `json:"title" example:"First project"`
	Content string `json:"content"`
	NodeID  *uint  `json:"node_id"`
}

// Create godoc
// @Summary Create an artifact draft
// @Tags artifacts
// @Accept json
// @Produce json
// @Param input body CreateArtifactRequest true "Artifact data"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /artifacts [post]
func (ac *ArtifactController) Create(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	var input CreateArtifactRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(ac.Dsp, id, dispatch.Action[*models.User]{
		Load: func() (*models.User, error) {
			return loadByID[models.User](ac.DB, id.UserID, "User not found")
		},
		Transition: func(*models.User) error {
			if len(input.Title) < 3 {
				return apperrors.Validation("title is too short")
			}
			return nil
		},
		Mutate: func(u *models.User) (any, error) {
			artifact := models.Artifact{
				OwnerID: u.ID,
				Status:  models.ArtifactDraft,
				Title:   input.Title,
				Content: input.Content,
				NodeID:  input.NodeID,
			}
			if err := ac.DB.Create(&artifact).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return artifact, nil
		},
		StaleViews: func(u *models.User) []string {
			return []string{cache.ViewStudent(u.ID)}
		},
	})
	return utils.SendResult(c, res)
}

type UpdateArtifactRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Update godoc
// @Summary Update own artifact
// @Description Edits title/content; only the owner may edit
// @Tags artifacts
// @Accept json
// @Produce json
// @Param id path int true "Artifact ID"
// @Param input body UpdateArtifactRequest true "Artifact data"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /artifacts/{id} [put]
func (ac *ArtifactController) Update(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	artifactID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid artifact ID")
	}

	var input UpdateArtifactRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(ac.Dsp, id, dispatch.Action[*models.Artifact]{
		Load: func() (*models.Artifact, error) {
			return loadByID[models.Artifact](ac.DB, uint(artifactID), policy.ReasonOwnerOrNotFound)
		},
		Authorize: func(a *models.Artifact) (policy.Action, policy.Target) {
			return policy.ActionEditArtifact, policy.Target{OwnerID: a.OwnerID}
		},
		Mutate: func(a *models.Artifact) (any, error) {
			updates := map[string]any{}
			if input.Title != "" {
				updates["title"] = input.Title
			}
			if input.Content != "" {
				updates["content"] = input.Content
			}
			if len(updates) > 0 {
				if err := ac.DB.Model(a).Updates(updates).Error; err != nil {
					return nil, apperrors.Store(err)
				}
			}
			return a, nil
		},
		StaleViews: func(a *models.Artifact) []string {
			return []string{cache.ViewStudent(a.OwnerID)}
		},
	})
	return utils.SendResult(c, res)
}

// Submit godoc
// @Summary Submit an artifact for review
// @Description Moves DRAFT/IN_PROGRESS/NEEDS_IMPROVEMENT artifacts to SUBMITTED
// @Tags artifacts
// @Produce json
// @Param id path int true "Artifact ID"
// @Success 200 {object} dispatch.Result
// @Failure 409 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /artifacts/{id}/submit [post]
func (ac *ArtifactController) Submit(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	artifactID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid artifact ID")
	}

	res := dispatch.Run(ac.Dsp, id, dispatch.Action[*models.Artifact]{
		Load: func() (*models.Artifact, error) {
			return loadByID[models.Artifact](ac.DB, uint(artifactID), policy.ReasonOwnerOrNotFound)
		},
		Authorize: func(a *models.Artifact) (policy.Action, policy.Target) {
			return policy.ActionSubmitArtifact, policy.Target{OwnerID: a.OwnerID}
		},
		Transition: func(a *models.Artifact) error {
			_, err := workflow.SubmitArtifact(a.Status, ac.Rules)
			return err
		},
		Mutate: func(a *models.Artifact) (any, error) {
			next, err := workflow.SubmitArtifact(a.Status, ac.Rules)
			if err != nil {
				return nil, err
			}
			if err := ac.DB.Model(a).Update("status", next).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return a, nil
		},
		StaleViews: func(a *models.Artifact) []string {
			return []string{cache.ViewStudent(a.OwnerID)}
		},
	})
	return utils.SendResult(c, res)
}

type ReviewArtifactRequest struct {
	Outcome  string `json:"outcome" enums:"VALIDATE,NEEDS_IMPROVEMENT"`
	Feedback string `json:"feedback"`
}

// Review godoc
// @Summary Review a submitted artifact
// @Description Mentor-only; validates or sends back a SUBMITTED artifact.
// @Description Non-empty feedback is recorded as a comment tagged with the
// @Description resulting status.
// @Tags artifacts
// @Accept json
// @Produce json
// @Param id path int true "Artifact ID"
// @Param input body ReviewArtifactRequest true "Review outcome"
// @Success 200 {object} dispatch.Result
// @Failure 403 {object} dispatch.Result
// @Failure 409 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /artifacts/{id}/review [post]
func (ac *ArtifactController) Review(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	artifactID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid artifact ID")
	}

	var input ReviewArtifactRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(ac.Dsp, id, dispatch.Action[*artifactWithOwner]{
		Load: func() (*artifactWithOwner, error) {
			return ac.loadArtifact(uint(artifactID))
		},
		Authorize: func(a *artifactWithOwner) (policy.Action, policy.Target) {
			return policy.ActionReviewArtifact, a.Target
		},
		Transition: func(a *artifactWithOwner) error {
			_, err := workflow.ReviewArtifact(a.Artifact.Status, input.Outcome)
			return err
		},
		Mutate: func(a *artifactWithOwner) (any, error) {
			next, err := workflow.ReviewArtifact(a.Artifact.Status, input.Outcome)
			if err != nil {
				return nil, err
			}
			// Status change and audit comment land in one transaction.
			err = ac.DB.Transaction(func(tx *gorm.DB) error {
				if err := tx.Model(a.Artifact).Update("status", next).Error; err != nil {
					return err
				}
				if input.Feedback != "" {
					comment := models.Comment{
						ArtifactID: a.Artifact.ID,
						AuthorID:   id.UserID,
						Content:    input.Feedback,
						Status:     next,
					}
					if err := tx.Create(&comment).Error; err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return nil, apperrors.Store(err)
			}
			return a.Artifact, nil
		},
		StaleViews: func(a *artifactWithOwner) []string {
			return []string{cache.ViewStudent(a.Artifact.OwnerID)}
		},
	})
	return utils.SendResult(c, res)
}

// ListComments godoc
// @Summary List artifact comments
// @Tags artifacts
// @Produce json
// @Param id path int true "Artifact ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /artifacts/{id}/comments [get]
func (ac *ArtifactController) ListComments(c *fiber.Ctx) error {
	id := middleware.Identity(c)
	if id == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	artifactID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid artifact ID")
	}

	// Comments are visible to the same circle as the artifact itself:
	// the owner, the student's mentor, or an admin. Outsiders get the
	// same "not found" the owner-scope rule gives them, so artifact IDs
	// stay unguessable.
	aw, err := ac.loadArtifact(uint(artifactID))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return utils.NotFound(c, policy.ReasonOwnerOrNotFound)
		}
		return utils.InternalServerError(c, "Could not query database")
	}
	if !policy.CanViewArtifact(id, aw.Target) {
		return utils.NotFound(c, policy.ReasonOwnerOrNotFound)
	}

	var comments []models.Comment
	if err := ac.DB.Where("artifact_id = ?", artifactID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, comments)
}
