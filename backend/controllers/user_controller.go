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

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
	Dsp *dispatch.Dispatcher
}

func NewUserController(db *gorm.DB, cfg *config.Config, dsp *dispatch.Dispatcher) *UserController {
	return &UserController{DB: db, Cfg: cfg, Dsp: dsp}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the authenticated user's profile with hobbies
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	id := middleware.Identity(c)
	if id == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.Preload("Hobbies").First(&user, id.UserID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"role":      user.Role,
		"branch_id": user.BranchID,
		"mentor_id": user.MentorID,
		"hobbies":   user.Hobbies,
	})
}

type UpdateProfileRequest struct {
	Name string `json:"name" example:"Jane Doe" minLength:"2"`
}

// UpdateProfile godoc
// @Summary Update user profile
// @Tags users
// @Accept json
// @Produce json
// @Param input body UpdateProfileRequest true "Profile data"
// @Success 200 {object} dispatch.Result
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	var input UpdateProfileRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(uc.Dsp, id, dispatch.Action[*models.User]{
		Load: func() (*models.User, error) {
			return loadByID[models.User](uc.DB, id.UserID, "User not found")
		},
		Authorize: func(u *models.User) (policy.Action, policy.Target) {
			return policy.ActionEditProfile, policy.Target{OwnerID: u.ID}
		},
		Transition: func(u *models.User) error {
			if len(input.Name) < 2 {
				return apperrors.Validation("name is too short")
			}
			return nil
		},
		Mutate: func(u *models.User) (any, error) {
			if err := uc.DB.Model(u).Update("name", input.Name).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return u, nil
		},
		StaleViews: func(u *models.User) []string {
			return []string{cache.ViewStudent(u.ID)}
		},
	})
	return utils.SendResult(c, res)
}

type AddHobbyRequest struct {
	Name string `json:"name" example:"Chess"`
}

// ListHobbies godoc
// @Summary List own hobbies
// @Tags users
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security ApiKeyAuth
// @Router /user/hobbies [get]
func (uc *UserController) ListHobbies(c *fiber.Ctx) error {
	id := middleware.Identity(c)
	if id == nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var hobbies []models.Hobby
	if err := uc.DB.Where("user_id = ?", id.UserID).Find(&hobbies).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	return utils.Success(c, fiber.StatusOK, hobbies)
}

// AddHobby godoc
// @Summary Add a hobby
// @Tags users
// @Accept json
// @Produce json
// @Param input body AddHobbyRequest true "Hobby data"
// @Success 200 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /user/hobbies [post]
func (uc *UserController) AddHobby(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	var input AddHobbyRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	res := dispatch.Run(uc.Dsp, id, dispatch.Action[*models.User]{
		Load: func() (*models.User, error) {
			return loadByID[models.User](uc.DB, id.UserID, "User not found")
		},
		Transition: func(*models.User) error {
			if input.Name == "" {
				return apperrors.Validation("hobby name is required")
			}
			return nil
		},
		Mutate: func(u *models.User) (any, error) {
			hobby := models.Hobby{UserID: u.ID, Name: input.Name}
			if err := uc.DB.Create(&hobby).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return hobby, nil
		},
		StaleViews: func(u *models.User) []string {
			return []string{cache.ViewStudent(u.ID)}
		},
	})
	return utils.SendResult(c, res)
}

// DeleteHobby godoc
// @Summary Delete own hobby
// @Description Deletes a hobby; only the owner may delete it
// @Tags users
// @Produce json
// @Param id path int true "Hobby ID"
// @Success 200 {object} dispatch.Result
// @Failure 404 {object} dispatch.Result
// @Security ApiKeyAuth
// @Router /user/hobbies/{id} [delete]
func (uc *UserController) DeleteHobby(c *fiber.Ctx) error {
	id := middleware.Identity(c)

	hobbyID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid hobby ID")
	}

	res := dispatch.Run(uc.Dsp, id, dispatch.Action[*models.Hobby]{
		Load: func() (*models.Hobby, error) {
			// Missing and foreign hobbies produce the same answer.
			return loadByID[models.Hobby](uc.DB, uint(hobbyID), policy.ReasonOwnerOrNotFound)
		},
		Authorize: func(h *models.Hobby) (policy.Action, policy.Target) {
			return policy.ActionDeleteHobby, policy.Target{OwnerID: h.UserID}
		},
		Mutate: func(h *models.Hobby) (any, error) {
			if err := uc.DB.Delete(h).Error; err != nil {
				return nil, apperrors.Store(err)
			}
			return fiber.Map{"deleted": h.ID}, nil
		},
		StaleViews: func(h *models.Hobby) []string {
			return []string{cache.ViewStudent(h.UserID)}
		},
	})
	return utils.SendResult(c, res)
}
