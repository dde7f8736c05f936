package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/hiromasa-t/project-collab-api/internal/models"
	"github.com/hiromasa-t/project-collab-api/internal/repository"
	"gorm.io/gorm"
)

// MembershipService manages project member sets and the cascading effects
// of membership changes on task assignment.
type MembershipService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *MembershipService {
	return &MembershipService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// AddMember resolves a user by email and adds them to the project's member
// set. Adding an existing member is a no-op; the owner is never added.
func (s *MembershipService) AddMember(projectID uint64, email string) ([]models.ProjectMember, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if user.ID != project.OwnerID {
		member := &models.ProjectMember{
			ProjectID: projectID,
			UserID:    user.ID,
			JoinedAt:  time.Now(),
		}
		if err := s.projectRepo.AddMember(member); err != nil {
			return nil, fmt.Errorf("failed to add member: %w", err)
		}
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// RemoveMember resolves a user by email and removes them from the project's
// member set. With cascadeTasks, the member's assigned tasks in the project
// are deleted in the same transaction as the membership removal. Removing a
// non-member is a no-op.
func (s *MembershipService) RemoveMember(projectID uint64, email string, cascadeTasks bool) ([]models.ProjectMember, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if cascadeTasks {
		err = s.projectRepo.RemoveMemberCascade(projectID, user.ID)
	} else {
		err = s.projectRepo.RemoveMember(projectID, user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to remove member: %w", err)
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}
