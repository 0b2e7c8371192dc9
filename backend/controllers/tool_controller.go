package controllers

import (
	"project/backend/apperrors"
	"project/backend/cache"
	"project/backend/config"
	"project/backend/dispatch"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/policy"
	"project/backend/services"
	"project/backend/utils"
	"project/backend/workflow"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ToolController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Dsp    *dispatch.Dispatcher
	Search *services.ToolSearchClient
}

func NewToolController(db *gorm.DB, cfg *config.Config, dsp *dispatch.Dispatcher, search *services.ToolSearchClient) *ToolController {
	return &ToolController{DB: db, Cfg: cfg, Dsp: dsp, Search: search}
}

// List godoc
// @Summary List tools
// @Description Lists tools, optionally filtered by usage status
// @Tags tools
// @Produce json
// @Param status query string false "Usage status filter"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /tools [get]
func (tc *ToolController) List(c *fiber.Ctx) error {
	query := tc.DB.Order("name ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("usage_status = ?", status)
	}

	var tools []models.Tool
	if err := query.Find(&tools).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, tools)
}

type SubmitToolRequest struct {
	Name string `json:"name" example:"Cursor"`
	URL  string `json:"url" example:"https://cursor.sh"`
}

// Submit godoc
// @Summary Submit a tool for moderation
// @Description Creates a PENDING_REVIEW tool. A match on exact URL or
// @Description case-insensitive name conflicts with the existing entry,
// @Description which is returned with its id and current status.
// @Tags tools
// @Accept json
// @Produce json
// @Param input body SubmitToolRequest true "Tool data"
// @Success 200 {object} dispatch.Result
// @Failure 409 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /tools [post]
func (tc *ToolController) Submit(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	var input SubmitToolRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(tc.Dsp, id, dispatch.Action[*models.User]{
		Load: func() (*models.User, error) {
			return loadByID[models.User](tc.DB, id.UserID, "User not found")
		},
		Transition: func(*models.User) error {
			if len(input.Name) < 2 {
				return apperrors.Validation("tool name is too short")
			}
			if !strings.HasPrefix(input.URL, "http") {
				return apperrors.Validation("tool url must be absolute")
			}

			var existing []models.Tool
			err := tc.DB.Where("url = ? OR LOWER(name) = ?", input.URL, strings.ToLower(input.Name)).
				Find(&existing).Error
			if err != nil {
				return apperrors.Store(err)
			}
			if conflict := workflow.ToolConflict(existing, input.Name, input.URL); conflict != nil {
				return conflict
			}
			return nil
		},
		Mutate: func(u *models.User) (any, error) {
			tool := models.Tool{
				Name:          input.Name,
				URL:           input.URL,
				UsageStatus:   models.ToolPendingReview,
				SubmittedByID: &u.ID,
			}
			if err := tc.DB.Create(&tool).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return tool, nil
		},
		StaleViews: func(*models.User) []string {
			return []string{cache.ViewTools, cache.ViewAdminTools}
		},
	})
	return utils.SendResult(c, res)
}

// Approve godoc
// @Summary Approve a tool
// @Description Admin-only; moves PENDING_REVIEW/AI_DISCOVERED to COMMUNITY_APPROVED
// @Tags tools
// @Produce json
// @Param id path int true "Tool ID"
// @Success 200 {object} dispatch.Result
// @Failure 403 {object} dispatch.Result
// @Failure 409 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/tools/{id}/approve [post]
func (tc *ToolController) Approve(c *fiber.Ctx) error {
	return tc.moderate(c, workflow.ApproveTool)
}

// Reject godoc
// @Summary Reject a tool
// @Description Admin-only; moves PENDING_REVIEW/AI_DISCOVERED to REJECTED
// @Tags tools
// @Produce json
// @Param id path int true "Tool ID"
// @Success 200 {object} dispatch.Result
// @Failure 403 {object} dispatch.Result
// @Failure 409 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/tools/{id}/reject [post]
func (tc *ToolController) Reject(c *fiber.Ctx) error {
	return tc.moderate(c, workflow.RejectTool)
}

func (tc *ToolController) moderate(c *fiber.Ctx, transition func(string) (string, error)) error {
	id := middleware.Identity(c)

	toolID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid tool ID")
	}

	res := dispatch.Run(tc.Dsp, id, dispatch.Action[*models.Tool]{
		Load: func() (*models.Tool, error) {
			return loadByID[models.Tool](tc.DB, uint(toolID), "Tool not found")
		},
		Authorize: func(t *models.Tool) (policy.Action, policy.Target) {
			return policy.ActionModerateTool, policy.Target{}
		},
		Transition: func(t *models.Tool) error {
			_, err := transition(t.UsageStatus)
			return err
		},
		Mutate: func(t *models.Tool) (any, error) {
			next, err := transition(t.UsageStatus)
			if err != nil {
				return nil, err
			}
			if err := tc.DB.Model(t).Update("usage_status", next).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return t, nil
		},
		StaleViews: func(*models.Tool) []string {
			return []string{cache.ViewTools, cache.ViewAdminTools}
		},
	})
	return utils.SendResult(c, res)
}

type SearchToolsRequest struct {
	Query string `json:"query" example:"something to record terminal sessions"`
}

// SmartSearch godoc
// @Summary Smart tool search
// @Description Ranks approved tools against a free-text query using the
// @Description external text-generation service. Degrades to an empty list
// @Description when that service misbehaves.
// @Tags tools
// @Accept json
// @Produce json
// @Param input body SearchToolsRequest true "Search query"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /tools/search [post]
func (tc *ToolController) SmartSearch(c *fiber.Ctx) error {
	id := middleware.Identity(c)
	if id == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input SearchToolsRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Query == "" {
		return utils.BadRequest(c, "Query is required")
	}

	var catalog []models.Tool
	err := tc.DB.Where("usage_status IN ?", []string{
		models.ToolCommunityApproved,
		models.ToolCourseOfficial,
		models.ToolAIDiscovered,
	}).Find(&catalog).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	matches := tc.Search.Search(c.Context(), input.Query, catalog)
	return utils.Success(c, fiber.StatusOK, matches)
}
