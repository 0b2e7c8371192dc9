package middleware

import (
	"project/backend/config"
	"project/backend/models"
	"project/backend/policy"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const identityKey = "identity"

// AuthMiddleware resolves the request to a verified identity and stores it
// in locals. The user row is re-read on every request so role changes take
// effect immediately instead of living out the token's lifetime.
func AuthMiddleware(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}

		c.Locals(identityKey, &policy.Identity{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		})
		return c.Next()
	}
}

// Identity returns the verified identity set by AuthMiddleware, or nil when
// the request carried none.
func Identity(c *fiber.Ctx) *policy.Identity {
	id, _ := c.Locals(identityKey).(*policy.Identity)
	return id
}

// AdminMiddleware rejects requests whose identity is not an admin. It is a
// routing convenience; the policy re-checks the role on every action.
func AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := Identity(c)
		if id == nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if id.Role != models.RoleAdmin {
			return utils.Forbidden(c, policy.ReasonAdminsOnly)
		}
		return c.Next()
	}
}

// MentorMiddleware rejects requests whose identity is not a mentor.
func MentorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := Identity(c)
		if id == nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		if id.Role != models.RoleMentor {
			return utils.Forbidden(c, policy.ReasonMentorsOnly)
		}
		return c.Next()
	}
}
