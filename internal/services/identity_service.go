package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hiromasa-t/project-collab-api/internal/models"
	"github.com/hiromasa-t/project-collab-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMissingSubject = errors.New("subject is required")
	ErrMissingEmail   = errors.New("email is required")
	ErrUserNotFound   = errors.New("user not found")
)

// IdentityService resolves external identity-provider subjects to user
// records. Authentication itself happens upstream; this service only keeps
// the subject-to-user mapping current.
type IdentityService struct {
	userRepo repository.UserRepository
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(userRepo repository.UserRepository) *IdentityService {
	return &IdentityService{
		userRepo: userRepo,
	}
}

// IdentityProfile represents the profile fields supplied by the identity
// provider on sign-in.
type IdentityProfile struct {
	Subject       string
	Name          string
	Email         string
	Picture       string
	EmailVerified bool
}

// FindOrCreate resolves a subject to a user, creating the user on first
// sign-in. A known email with a new subject links the subject to the
// existing user rather than creating a duplicate.
func (s *IdentityService) FindOrCreate(profile IdentityProfile) (*models.User, error) {
	subject := strings.TrimSpace(profile.Subject)
	if subject == "" {
		return nil, ErrMissingSubject
	}
	if strings.TrimSpace(profile.Email) == "" {
		return nil, ErrMissingEmail
	}

	user, err := s.userRepo.FindBySubject(subject)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve subject: %w", err)
	}

	user, err = s.userRepo.FindByEmail(profile.Email)
	if err == nil {
		if err := s.userRepo.AddSubject(user.ID, subject); err != nil {
			return nil, fmt.Errorf("failed to link subject: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to resolve email: %w", err)
	}

	user = &models.User{
		Name:          profile.Name,
		Email:         profile.Email,
		Picture:       profile.Picture,
		EmailVerified: profile.EmailVerified,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.userRepo.AddSubject(user.ID, subject); err != nil {
		return nil, fmt.Errorf("failed to link subject: %w", err)
	}

	return user, nil
}

// UpdateProfile overwrites a user's profile fields from the identity
// provider. The user is resolved by subject, falling back to email with
// subject linking, matching the find-or-create flow.
func (s *IdentityService) UpdateProfile(profile IdentityProfile) (*models.User, error) {
	subject := strings.TrimSpace(profile.Subject)
	if subject == "" {
		return nil, ErrMissingSubject
	}

	user, err := s.userRepo.FindBySubject(subject)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to resolve subject: %w", err)
		}
		if profile.Email == "" {
			return nil, ErrUserNotFound
		}
		user, err = s.userRepo.FindByEmail(profile.Email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to resolve email: %w", err)
		}
		if err := s.userRepo.AddSubject(user.ID, subject); err != nil {
			return nil, fmt.Errorf("failed to link subject: %w", err)
		}
	}

	user.Name = profile.Name
	if profile.Email != "" {
		user.Email = profile.Email
	}
	user.Picture = profile.Picture
	user.EmailVerified = profile.EmailVerified

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
