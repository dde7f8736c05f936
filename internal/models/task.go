package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusIteration  TaskStatus = "iteration"
	TaskStatusInProgress TaskStatus = "in progress"
	// TaskStatusDone is the canonical completion value; the progress
	// aggregator counts exactly this status.
	TaskStatusDone TaskStatus = "done"
)

type Task struct {
	ID         uint64         `gorm:"primarykey" json:"id"`
	Title      string         `gorm:"not null" json:"title"`
	Status     TaskStatus     `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	AssigneeID *uint64        `gorm:"index" json:"assignee_id"`
	ProjectID  uint64         `gorm:"not null;index" json:"project_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignee *User   `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Project  Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
