package models

import "gorm.io/gorm"

// Project belongs to exactly one team and holds kanban boards
type Project struct {
	gorm.Model
	TeamID      uint   `gorm:"not null;index" json:"team_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	CreatedBy   uint   `gorm:"not null" json:"created_by"`
	Archived    bool   `gorm:"default:false" json:"archived"`

	// Relations
	Team    Team    `json:"-"`
	Creator User    `gorm:"foreignKey:CreatedBy" json:"-"`
	Boards  []Board `gorm:"foreignKey:ProjectID" json:"boards,omitempty"`
}

// Board is a kanban column group inside a project. OrderIndex is assigned
// max(existing)+1 at creation and never reused, so gaps are normal.
type Board struct {
	gorm.Model
	ProjectID  uint   `gorm:"not null;index" json:"project_id"`
	Name       string `gorm:"not null" json:"name"`
	OrderIndex int    `gorm:"default:0" json:"order_index"`

	// Relations
	Project Project `json:"-"`
	Tasks   []Task  `gorm:"foreignKey:BoardID" json:"tasks,omitempty"`
}
