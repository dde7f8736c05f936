package models

import "time"

// ProjectMember is a row in the project's member set. The owner is never
// inserted here; ownership is carried on the project itself. Rows are hard
// deleted so the (project_id, user_id) key stays usable for idempotent
// re-adds.
type ProjectMember struct {
	ProjectID uint64    `gorm:"primarykey" json:"project_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	JoinedAt  time.Time `json:"joined_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
