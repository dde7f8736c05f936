package repository

import (
	"github.com/hiromasa-t/project-collab-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update updates a user's profile fields
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindBySubject finds a user by external identity-provider subject
func (r *GormUserRepository) FindBySubject(subject string) (*models.User, error) {
	var sub models.UserSubject
	if err := r.db.Preload("User").Where("subject = ?", subject).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub.User, nil
}

// AddSubject links an additional external subject to a user. Inserting an
// already-linked subject is a no-op.
func (r *GormUserRepository) AddSubject(userID uint64, subject string) error {
	sub := models.UserSubject{
		Subject: subject,
		UserID:  userID,
	}
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sub).Error
}
