package models

import (
	"time"

	"gorm.io/gorm"
)

type ProjectType string

const (
	ProjectTypePersonal ProjectType = "personal"
	ProjectTypeTeam     ProjectType = "team"
	ProjectTypeBig      ProjectType = "big"
)

type ProjectStatus string

const (
	ProjectStatusNotStarted   ProjectStatus = "not started"
	ProjectStatusInProgress   ProjectStatus = "in progress"
	ProjectStatusNeedsTesting ProjectStatus = "needs testing"
	ProjectStatusFailed       ProjectStatus = "failed"
	ProjectStatusDeployed     ProjectStatus = "deployed"
)

type Project struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	Name             string         `gorm:"type:varchar(255);not null" json:"name"`
	Description      string         `gorm:"type:text" json:"description"`
	Type             ProjectType    `gorm:"type:varchar(20);not null" json:"type"`
	Status           ProjectStatus  `gorm:"type:varchar(20);not null;default:'not started'" json:"status"`
	GithubLink       string         `gorm:"type:varchar(512)" json:"github_link"`
	DeploymentURL    string         `gorm:"type:varchar(512)" json:"deployment_url"`
	EnvironmentNotes string         `gorm:"type:text" json:"environment_notes"`
	OwnerID          uint64         `gorm:"not null;index" json:"owner_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner   User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
