package controllers

import (
	"errors"

	"project/backend/apperrors"
	"project/backend/models"
	"project/backend/policy"

	"gorm.io/gorm"
)

// studentTarget resolves the ownership facts for a student: the directly
// assigned mentor and, when the student sits on a mentor-mediated team,
// that team's mentor. Both paths feed the disjunctive mentor-scope rule.
// A store failure surfaces as such; it must not read as "no team mentor".
func studentTarget(db *gorm.DB, student *models.User) (policy.Target, error) {
	target := policy.Target{OwnerID: student.ID}
	if student.MentorID != nil {
		target.OwnerMentorID = *student.MentorID
	}

	var team models.Team
	err := db.Joins("JOIN team_members tm ON tm.team_id = teams.id").
		Where("tm.user_id = ? AND teams.mentor_id IS NOT NULL", student.ID).
		First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return target, nil
		}
		return policy.Target{}, apperrors.Store(err)
	}
	if team.MentorID != nil {
		target.TeamMentorID = *team.MentorID
	}
	return target, nil
}

// loadByID fetches an entity by primary key, translating gorm's not-found
// into the taxonomy.
func loadByID[T any](db *gorm.DB, id uint, missing string) (*T, error) {
	var entity T
	if err := db.First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(missing)
		}
		return nil, apperrors.Store(err)
	}
	return &entity, nil
}
