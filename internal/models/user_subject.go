package models

import "time"

// UserSubject links an external identity-provider subject to a user.
// A user may sign in through several provider sessions, so the subjects
// form a set owned by the user.
type UserSubject struct {
	Subject   string    `gorm:"type:varchar(255);primarykey" json:"subject"`
	UserID    uint64    `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
