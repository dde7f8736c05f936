package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID            uint64         `gorm:"primarykey" json:"id"`
	Name          string         `gorm:"type:varchar(255)" json:"name"`
	Email         string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Picture       string         `gorm:"type:varchar(512)" json:"picture"`
	EmailVerified bool           `json:"email_verified"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Subjects      []UserSubject `gorm:"foreignKey:UserID" json:"-"`
	OwnedProjects []Project     `gorm:"foreignKey:OwnerID" json:"-"`
	Tasks         []Task        `gorm:"foreignKey:AssigneeID" json:"-"`
}
