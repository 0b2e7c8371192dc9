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

type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Dsp *dispatch.Dispatcher
}

func NewAdminController(db *gorm.DB, cfg *config.Config, dsp *dispatch.Dispatcher) *AdminController {
	return &AdminController{DB: db, Cfg: cfg, Dsp: dsp}
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Param role query string false "Role filter"
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/users [get]
func (ac *AdminController) ListUsers(c *fiber.Ctx) error {
	query := ac.DB.Order("id ASC")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, users)
}

type SetRoleRequest struct {
	Role string `json:"role" enums:"STUDENT,MENTOR,ADMIN"`
}

// SetRole godoc
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param input body SetRoleRequest true "New role"
// @Success 200 {object} dispatch.Result
// @Failure 403 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/users/{id}/role [put]
func (ac *AdminController) SetRole(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input SetRoleRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(ac.Dsp, id, dispatch.Action[*models.User]{
		Load: func() (*models.User, error) {
			return loadByID[models.User](ac.DB, uint(userID), "User not found")
		},
		Authorize: func(*models.User) (policy.Action, policy.Target) {
			return policy.ActionManageUsers, policy.Target{}
		},
		Transition: func(*models.User) error {
			switch input.Role {
			case models.RoleStudent, models.RoleMentor, models.RoleAdmin:
				return nil
			}
			return apperrors.Validation("unknown role")
		},
		Mutate: func(u *models.User) (any, error) {
			if err := ac.DB.Model(u).Update("role", input.Role).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return u, nil
		},
		StaleViews: func(u *models.User) []string {
			return []string{cache.ViewAdminUsers, cache.ViewStudent(u.ID)}
		},
	})
	return utils.SendResult(c, res)
}

type SetBranchRequest struct {
	BranchID *uint `json:"branch_id"`
}

// SetBranch godoc
// @Summary Attach a user to a branch
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param input body SetBranchRequest true "Branch (null detaches)"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/users/{id}/branch [put]
func (ac *AdminController) SetBranch(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input SetBranchRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(ac.Dsp, id, dispatch.Action[*models.User]{
		Load: func() (*models.User, error) {
			return loadByID[models.User](ac.DB, uint(userID), "User not found")
		},
		Authorize: func(*models.User) (policy.Action, policy.Target) {
			return policy.ActionManageUsers, policy.Target{}
		},
		Transition: func(*models.User) error {
			if input.BranchID == nil {
				return nil
			}
			_, err := loadByID[models.Branch](ac.DB, *input.BranchID, "Branch not found")
			return err
		},
		Mutate: func(u *models.User) (any, error) {
			if err := ac.DB.Model(u).Update("branch_id", input.BranchID).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return u, nil
		},
		StaleViews: func(u *models.User) []string {
			return []string{cache.ViewAdminUsers, cache.ViewStudent(u.ID)}
		},
	})
	return utils.SendResult(c, res)
}

type AssignMentorRequest struct {
	MentorID *uint `json:"mentor_id"`
}

// AssignMentor godoc
// @Summary Assign a mentor to a student
// @Description Admin-only direct assignment; the target must hold the
// @Description MENTOR role.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param input body AssignMentorRequest true "Mentor (null unassigns)"
// @Success 200 {object} dispatch.Result
// @Failure 422 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/users/{id}/mentor [put]
func (ac *AdminController) AssignMentor(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var input AssignMentorRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(ac.Dsp, id, dispatch.Action[*models.User]{
		Load: func() (*models.User, error) {
			return loadByID[models.User](ac.DB, uint(userID), "User not found")
		},
		Authorize: func(*models.User) (policy.Action, policy.Target) {
			return policy.ActionManageUsers, policy.Target{}
		},
		Transition: func(*models.User) error {
			if input.MentorID == nil {
				return nil
			}
			mentor, err := loadByID[models.User](ac.DB, *input.MentorID, "Mentor not found")
			if err != nil {
				return err
			}
			if mentor.Role != models.RoleMentor {
				return apperrors.Validation("target user is not a mentor")
			}
			return nil
		},
		Mutate: func(u *models.User) (any, error) {
			if err := ac.DB.Model(u).Update("mentor_id", input.MentorID).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return u, nil
		},
		StaleViews: func(u *models.User) []string {
			return []string{cache.ViewAdminUsers, cache.ViewStudent(u.ID)}
		},
	})
	return utils.SendResult(c, res)
}

// ListBranches godoc
// @Summary List branches
// @Tags admin
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /admin/branches [get]
func (ac *AdminController) ListBranches(c *fiber.Ctx) error {
	var branches []models.Branch
	if err := ac.DB.Order("name ASC").Find(&branches).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, branches)
}

type CreateBranchRequest struct {
	Name     string `json:"name" example:"Downtown"`
	Location string `json:"location" example:"5th Avenue 12"`
}

// CreateBranch godoc
// @Summary Create a branch
// @Tags admin
// @Accept json
// @Produce json
// @Param input body CreateBranchRequest true "Branch data"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/branches [post]
func (ac *AdminController) CreateBranch(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	var input CreateBranchRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(ac.Dsp, id, dispatch.Action[struct{}]{
		Load: func() (struct{}, error) { return struct{}{}, nil },
		Authorize: func(struct{}) (policy.Action, policy.Target) {
			return policy.ActionManageBranches, policy.Target{}
		},
		Transition: func(struct{}) error {
			if len(input.Name) < 2 {
				return apperrors.Validation("branch name is too short")
			}
			return nil
		},
		Mutate: func(struct{}) (any, error) {
			branch := models.Branch{Name: input.Name, Location: input.Location, Active: true}
			if err := ac.DB.Create(&branch).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return branch, nil
		},
		StaleViews: func(struct{}) []string {
			return []string{cache.ViewAdminBranches}
		},
	})
	return utils.SendResult(c, res)
}

// ToggleBranch godoc
// @Summary Toggle a branch active/inactive
// @Description Branches are never hard-deleted; deactivation is the off switch
// @Tags admin
// @Produce json
// @Param id path int true "Branch ID"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /admin/branches/{id}/toggle [post]
func (ac *AdminController) ToggleBranch(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	branchID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid branch ID")
	}

	res := dispatch.Run(ac.Dsp, id, dispatch.Action[*models.Branch]{
		Load: func() (*models.Branch, error) {
			return loadByID[models.Branch](ac.DB, uint(branchID), "Branch not found")
		},
		Authorize: func(*models.Branch) (policy.Action, policy.Target) {
			return policy.ActionManageBranches, policy.Target{}
		},
		Mutate: func(b *models.Branch) (any, error) {
			if err := ac.DB.Model(b).Update("active", !b.Active).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return b, nil
		},
		StaleViews: func(*models.Branch) []string {
			return []string{cache.ViewAdminBranches}
		},
	})
	return utils.SendResult(c, res)
}
