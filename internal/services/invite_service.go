package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/hiromasa-t/project-collab-api/internal/constants"
	"github.com/hiromasa-t/project-collab-api/internal/models"
	"github.com/hiromasa-t/project-collab-api/internal/repository"
	"github.com/hiromasa-t/project-collab-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInviteNotFound             = errors.New("invalid invite code")
	ErrInviteExpired              = errors.New("invite code expired")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invite code")
)

// InviteService issues and redeems single-use, time-limited join codes.
type InviteService struct {
	inviteRepo  repository.InviteRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	ttl         time.Duration
	now         func() time.Time
}

// NewInviteService creates a new InviteService. A non-positive ttl falls
// back to the default invite lifetime.
func NewInviteService(
	inviteRepo repository.InviteRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	ttl time.Duration,
) *InviteService {
	if ttl <= 0 {
		ttl = constants.DefaultInviteTTL
	}
	return &InviteService{
		inviteRepo:  inviteRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Issue creates an invite for a project. The code is random; the store's
// unique index is the collision check, and a duplicate-key failure triggers
// regeneration. Collisions are never surfaced to the caller.
func (s *InviteService) Issue(projectID uint64) (*models.Invite, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	for attempt := 0; attempt < constants.MaxInviteCodeAttempts; attempt++ {
		code, err := utils.GenerateInviteCode()
		if err != nil {
			return nil, ErrInviteCodeGenerationFailed
		}

		issuedAt := s.now()
		invite := &models.Invite{
			Code:      code,
			ProjectID: projectID,
			CreatedAt: issuedAt,
			ExpiresAt: issuedAt.Add(s.ttl),
		}

		err = s.inviteRepo.Create(invite)
		if err == nil {
			return invite, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	return nil, ErrInviteCodeGenerationFailed
}

// Redeem consumes an invite and grants the requester membership in the
// invite's project, returning the project ID. The invite is deleted whether
// or not the requester was already a member; deletion doubles as single-use
// enforcement. The owner redeeming their own invite consumes it without
// touching the member set.
func (s *InviteService) Redeem(code, subject string) (uint64, error) {
	invite, err := s.inviteRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInviteNotFound
		}
		return 0, fmt.Errorf("failed to find invite: %w", err)
	}

	now := s.now()
	if now.After(invite.ExpiresAt) {
		if err := s.inviteRepo.Delete(invite.ID); err != nil {
			return 0, fmt.Errorf("failed to delete expired invite: %w", err)
		}
		return 0, ErrInviteExpired
	}

	user, err := s.userRepo.FindBySubject(subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("failed to resolve requester: %w", err)
	}

	project, err := s.projectRepo.FindByID(invite.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrProjectNotFound
		}
		return 0, fmt.Errorf("failed to find project: %w", err)
	}

	// The owner is never placed in the member set.
	var granteeID *uint64
	if user.ID != project.OwnerID {
		granteeID = &user.ID
	}

	claimed, err := s.inviteRepo.ClaimAndGrant(invite, granteeID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to redeem invite: %w", err)
	}
	if !claimed {
		// A concurrent redeemer consumed the invite first.
		return 0, ErrInviteNotFound
	}

	return invite.ProjectID, nil
}
