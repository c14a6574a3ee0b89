package models

import "gorm.io/gorm"

// Activity is an audit-feed entry recorded on team-scoped mutations
type Activity struct {
	gorm.Model
	TeamID     uint   `gorm:"not null;index" json:"team_id"`
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	Action     string `gorm:"not null" json:"action"`      // created, deleted, updated, member_added, ...
	EntityType string `gorm:"not null" json:"entity_type"` // team, project, board, task, comment, member
	EntityID   uint   `json:"entity_id"`

	// Relations
	Team Team `json:"-"`
	User User `json:"-"`
}
