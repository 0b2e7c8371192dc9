package routes

import (
	"project/backend/cache"
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/dispatch"
	"project/backend/middleware"
	"project/backend/services"
	"project/backend/utils"

	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) *cache.Memory {
	invalidator := cache.NewMemory()
	dsp := dispatch.New(logger, invalidator)
	search := services.NewToolSearchClient(cfg.AIEndpoint, cfg.AIAPIKey, logger)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(db, cfg)
	adminMiddleware := middleware.AdminMiddleware()
	mentorMiddleware := middleware.MentorMiddleware()

	// User routes
	userController := controllers.NewUserController(db, cfg, dsp)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)
	app.Get("/api/user/hobbies", authMiddleware, userController.ListHobbies)
	app.Post("/api/user/hobbies", authMiddleware, userController.AddHobby)
	app.Delete("/api/user/hobbies/:id", authMiddleware, userController.DeleteHobby)

	// Course and progress routes
	progressController := controllers.NewProgressController(db, cfg, dsp)
	app.Get("/api/course/nodes", authMiddleware, progressController.ListNodes)
	app.Get("/api/progress", authMiddleware, progressController.GetMyProgress)
	students := app.Group("/api/students", authMiddleware, mentorMiddleware)
	students.Get("/:id/progress", progressController.GetStudentProgress)
	students.Put("/:id/progress/:nodeId", progressController.UpdateNodeProgress)

	// Artifact routes
	artifactController := controllers.NewArtifactController(db, cfg, dsp)
	artifacts := app.Group("/api/artifacts", authMiddleware)
	artifacts.Get("/", artifactController.ListMine)
	artifacts.Post("/", artifactController.Create)
	artifacts.Put("/:id", artifactController.Update)
	artifacts.Post("/:id/submit", artifactController.Submit)
	artifacts.Post("/:id/review", mentorMiddleware, artifactController.Review)
	artifacts.Get("/:id/comments", artifactController.ListComments)

	// Mentorship routes
	mentorshipController := controllers.NewMentorshipController(db, cfg, dsp)
	mentorship := app.Group("/api/mentorship", authMiddleware)
	mentorship.Get("/mentors", mentorshipController.ListMentors)
	mentorship.Get("/requests", mentorshipController.ListMine)
	mentorship.Post("/requests", mentorshipController.Request)
	mentorship.Post("/requests/:id/accept", mentorMiddleware, mentorshipController.Accept)
	mentorship.Post("/requests/:id/reject", mentorMiddleware, mentorshipController.Reject)
	mentorship.Post("/requests/:id/cancel", mentorshipController.Cancel)

	// Tool routes
	toolController := controllers.NewToolController(db, cfg, dsp, search)
	tools := app.Group("/api/tools", authMiddleware)
	tools.Get("/", toolController.List)
	tools.Post("/", toolController.Submit)
	tools.Post("/search", toolController.SmartSearch)

	// Team and review routes
	teamController := controllers.NewTeamController(db, cfg, dsp)
	app.Get("/api/teams/:id/reviews", authMiddleware, teamController.ListReviews)
	app.Post("/api/teams/:id/reviews", authMiddleware, mentorMiddleware, teamController.CreateReview)
	app.Put("/api/reviews/:id", authMiddleware, mentorMiddleware, teamController.UpdateReview)

	// Admin routes
	adminController := controllers.NewAdminController(db, cfg, dsp)
	admin := app.Group("/api/admin", authMiddleware, adminMiddleware)
	admin.Get("/users", adminController.ListUsers)
	admin.Put("/users/:id/role", adminController.SetRole)
	admin.Put("/users/:id/branch", adminController.SetBranch)
	admin.Put("/users/:id/mentor", adminController.AssignMentor)
	admin.Get("/branches", adminController.ListBranches)
	admin.Post("/branches", adminController.CreateBranch)
	admin.Post("/branches/:id/toggle", adminController.ToggleBranch)
	admin.Get("/teams", teamController.ListTeams)
	admin.Post("/teams", teamController.CreateTeam)
	admin.Put("/teams/:id/mentor", teamController.SetTeamMentor)
	admin.Post("/teams/:id/members", teamController.AddMember)
	admin.Delete("/teams/:id/members", teamController.RemoveMember)
	admin.Post("/tools/:id/approve", toolController.Approve)
	admin.Post("/tools/:id/reject", toolController.Reject)

	// Stale views accumulated by the dispatcher, for the rendering layer.
	app.Get("/api/cache/stale", authMiddleware, func(c *fiber.Ctx) error {
		return utils.Success(c, fiber.StatusOK, invalidator.Flush())
	})

	return invalidator
}
