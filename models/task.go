package models

import (
	"time"

	"gorm.io/gorm"
)

// Task statuses
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

// Task priorities
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task is a work item on a board
type Task struct {
	gorm.Model
	BoardID     uint       `gorm:"not null;index" json:"board_id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Status      string     `gorm:"default:'todo'" json:"status"`     // todo, in_progress, done
	Priority    string     `gorm:"default:'medium'" json:"priority"` // low, medium, high
	AssigneeID  *uint      `gorm:"index" json:"assignee_id,omitempty"`
	CreatedBy   uint       `gorm:"not null" json:"created_by"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	OrderIndex  int        `gorm:"default:0" json:"order_index"`

	// Relations
	Board    Board     `json:"-"`
	Assignee *User     `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Creator  User      `gorm:"foreignKey:CreatedBy" json:"-"`
	Comments []Comment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}

// ValidTaskStatus reports whether s is a known task status
func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// ValidTaskPriority reports whether p is a known task priority
func ValidTaskPriority(p string) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Comment is a discussion entry attached to a task
type Comment struct {
	gorm.Model
	TaskID  uint   `gorm:"not null;index" json:"task_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Content string `gorm:"not null" json:"content"`

	// Relations
	Task Task `json:"-"`
	User User `json:"-"`
}
