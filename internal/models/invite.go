package models

import "time"

// Invite is a single-use, time-limited grant of membership in one project.
// The unique index on code only has to hold among live invites, and rows are
// hard deleted on redemption or expiry, so no DeletedAt column: a soft delete
// would keep a dead row occupying the code.
type Invite struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Code      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
