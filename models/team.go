package models

import (
	"time"

	"gorm.io/gorm"
)

// Team is the top-level tenant boundary. Every team has exactly one owner;
// the owner is a full member even without a TeamMember row.
type Team struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`

	// Relations
	Owner    User         `json:"-"`
	Members  []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
	Projects []Project    `gorm:"foreignKey:TeamID" json:"projects,omitempty"`
}

// TeamMember grants a user a role within a team. One row per (team, user).
type TeamMember struct {
	gorm.Model
	TeamID uint `gorm:"not null;index:idx_team_user,unique" json:"team_id"`
	UserID uint `gorm:"not null;index:idx_team_user,unique" json:"user_id"`

	Role     string    `gorm:"not null;default:'viewer'" json:"role"` // owner, admin, editor, viewer
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	// Relations
	Team Team `json:"-"`
	User User `json:"-"`
}
