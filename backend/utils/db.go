package utils

import (
	"fmt"

	"project/backend/config"
	"project/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the Postgres connection and migrates the schema.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Hobby{},
		&models.Branch{},
		&models.Team{},
		&models.CourseNode{},
		&models.UserNodeProgress{},
		&models.Artifact{},
		&models.Comment{},
		&models.MentorReview{},
		&models.Tool{},
		&models.MentorshipRequest{},
	); err != nil {
		return nil, err
	}

	// One live PENDING request per student, enforced by the store so the
	// precondition check in the request handler cannot be raced.
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_pending_request
		 ON mentorship_requests (student_id)
		 WHERE status = 'PENDING' AND deleted_at IS NULL`,
	).Error; err != nil {
		return nil, err
	}

	if err := SeedCourse(db); err != nil {
		return nil, err
	}

	return db, nil
}

// SeedCourse inserts the fixed course sequence when the table is empty.
// Nodes are immutable once seeded.
func SeedCourse(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.CourseNode{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	nodes := []models.CourseNode{
		{Order: 1, Title: "Orientation", WeekRange: "1", RequiredActions: "Meet your mentor and set goals"},
		{Order: 2, Title: "Foundations", WeekRange: "2-4", RequiredActions: "Complete the foundations track and submit notes"},
		{Order: 3, Title: "First Project", WeekRange: "5-8", RequiredActions: "Build and submit the first project artifact"},
		{Order: 4, Title: "Team Case", WeekRange: "9-12", RequiredActions: "Work the team project case with your team"},
		{Order: 5, Title: "Capstone", WeekRange: "13-16", RequiredActions: "Submit the capstone artifact for validation"},
	}
	return db.Create(&nodes).Error
}
