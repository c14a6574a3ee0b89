package controller

import (
	"errors"

	"gorm.io/gorm"

	"teamboard/models"
)

// teamScope bundles what the authorization resolver needs for a request:
// the owning team of the target entity and the acting user's membership
// row in it (nil when the user has none). Every handler resolves its
// ancestor chain through one of the scopeFor* helpers instead of
// repeating the joins.
type teamScope struct {
	Team       *models.Team
	Membership *models.TeamMember
}

// scopeForTeam loads a team and the acting user's membership row.
// Returns gorm.ErrRecordNotFound when the team does not exist; a missing
// membership is not an error, ownership is checked independently.
func scopeForTeam(db *gorm.DB, teamID, userID uint) (*teamScope, error) {
	var team models.Team
	if err := db.First(&team, teamID).Error; err != nil {
		return nil, err
	}

	scope := &teamScope{Team: &team}

	var membership models.TeamMember
	err := db.Where("team_id = ? AND user_id = ?", team.ID, userID).First(&membership).Error
	switch {
	case err == nil:
		scope.Membership = &membership
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}

	return scope, nil
}

// scopeForProject resolves Project -> Team
func scopeForProject(db *gorm.DB, projectID, userID uint) (*teamScope, *models.Project, error) {
	var project models.Project
	if err := db.First(&project, projectID).Error; err != nil {
		return nil, nil, err
	}

	scope, err := scopeForTeam(db, project.TeamID, userID)
	if err != nil {
		return nil, nil, err
	}
	return scope, &project, nil
}

// scopeForBoard resolves Board -> Project -> Team
func scopeForBoard(db *gorm.DB, boardID, userID uint) (*teamScope, *models.Board, error) {
	var board models.Board
	if err := db.First(&board, boardID).Error; err != nil {
		return nil, nil, err
	}

	scope, _, err := scopeForProject(db, board.ProjectID, userID)
	if err != nil {
		return nil, nil, err
	}
	return scope, &board, nil
}

// scopeForTask resolves Task -> Board -> Project -> Team
func scopeForTask(db *gorm.DB, taskID, userID uint) (*teamScope, *models.Task, error) {
	var task models.Task
	if err := db.First(&task, taskID).Error; err != nil {
		return nil, nil, err
	}

	scope, _, err := scopeForBoard(db, task.BoardID, userID)
	if err != nil {
		return nil, nil, err
	}
	return scope, &task, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// recordActivity appends an audit-feed entry. Activity recording never
// fails the surrounding request; errors are swallowed by the caller.
func recordActivity(db *gorm.DB, teamID, userID uint, action, entityType string, entityID uint) error {
	return db.Create(&models.Activity{
		TeamID:     teamID,
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}).Error
}
