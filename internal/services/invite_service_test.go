package services

import (
	"testing"
	"time"

	"github.com/hiromasa-t/project-collab-api/internal/models"
	"github.com/hiromasa-t/project-collab-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type inviteTestEnv struct {
	db          *gorm.DB
	inviteRepo  repository.InviteRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	service     *InviteService
}

func setupInviteTestEnv(t *testing.T) inviteTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.UserSubject{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.Invite{},
	)
	require.NoError(t, err)

	inviteRepo := repository.NewInviteRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	userRepo := repository.NewUserRepository(db)
	service := NewInviteService(inviteRepo, projectRepo, userRepo, 0)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return inviteTestEnv{
		db:          db,
		inviteRepo:  inviteRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		service:     service,
	}
}

func createInviteTestUser(t *testing.T, db *gorm.DB, name, email, subject string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.UserSubject{Subject: subject, UserID: user.ID}).Error)
	return user
}

func createInviteTestProject(t *testing.T, db *gorm.DB, ownerID uint64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:    "Tracker",
		Type:    models.ProjectTypeTeam,
		OwnerID: ownerID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func TestInviteService_Issue_DistinctLiveCodes(t *testing.T) {
	env := setupInviteTestEnv(t)

	owner := createInviteTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	project := createInviteTestProject(t, env.db, owner.ID)

	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		invite, err := env.service.Issue(project.ID)
		require.NoError(t, err)
		require.Len(t, invite.Code, 10)

		_, dup := seen[invite.Code]
		require.False(t, dup, "issued a duplicate live code: %s", invite.Code)
		seen[invite.Code] = struct{}{}
	}
}

func TestInviteService_Issue_ProjectMissing(t *testing.T) {
	env := setupInviteTestEnv(t)

	_, err := env.service.Issue(9999)
	require.ErrorIs(t, err, ErrProjectNotFound)
}

func TestInviteService_Issue_SetsExpiry(t *testing.T) {
	env := setupInviteTestEnv(t)

	owner := createInviteTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	project := createInviteTestProject(t, env.db, owner.ID)

	before := time.Now()
	invite, err := env.service.Issue(project.ID)
	require.NoError(t, err)

	ttl := invite.ExpiresAt.Sub(invite.CreatedAt)
	require.Equal(t, 24*time.Hour, ttl)
	require.False(t, invite.ExpiresAt.Before(before.Add(24*time.Hour)))
}

func TestInviteService_Redeem_GrantsMembership(t *testing.T) {
	env := setupInviteTestEnv(t)

	owner := createInviteTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	joiner := createInviteTestUser(t, env.db, "joiner", "joiner@example.com", "auth0|joiner")
	project := createInviteTestProject(t, env.db, owner.ID)

	invite, err := env.service.Issue(project.ID)
	require.NoError(t, err)

	projectID, err := env.service.Redeem(invite.Code, "auth0|joiner")
	require.NoError(t, err)
	require.Equal(t, project.ID, projectID)

	_, err = env.projectRepo.FindMember(project.ID, joiner.ID)
	require.NoError(t, err)

	// Single use
	_, err = env.service.Redeem(invite.Code, "auth0|joiner")
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestInviteService_Redeem_OwnerConsumesWithoutGrant(t *testing.T) {
	env := setupInviteTestEnv(t)

	owner := createInviteTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	project := createInviteTestProject(t, env.db, owner.ID)

	invite, err := env.service.Issue(project.ID)
	require.NoError(t, err)

	projectID, err := env.service.Redeem(invite.Code, "auth0|owner")
	require.NoError(t, err)
	require.Equal(t, project.ID, projectID)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)

	// Consumed all the same.
	_, err = env.service.Redeem(invite.Code, "auth0|owner")
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestInviteService_Redeem_Expired(t *testing.T) {
	env := setupInviteTestEnv(t)

	owner := createInviteTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	createInviteTestUser(t, env.db, "joiner", "joiner@example.com", "auth0|joiner")
	project := createInviteTestProject(t, env.db, owner.ID)

	invite := &models.Invite{
		Code:      "STALECODE1",
		ProjectID: project.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, env.db.Create(invite).Error)

	_, err := env.service.Redeem("STALECODE1", "auth0|joiner")
	require.ErrorIs(t, err, ErrInviteExpired)

	// Deleted as a side effect of the expiry check.
	_, err = env.service.Redeem("STALECODE1", "auth0|joiner")
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestInviteRepository_ClaimAndGrant_SingleWinner(t *testing.T) {
	env := setupInviteTestEnv(t)

	owner := createInviteTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	alice := createInviteTestUser(t, env.db, "alice", "alice@example.com", "auth0|alice")
	bob := createInviteTestUser(t, env.db, "bob", "bob@example.com", "auth0|bob")
	project := createInviteTestProject(t, env.db, owner.ID)

	invite, err := env.service.Issue(project.ID)
	require.NoError(t, err)

	now := time.Now()

	// Two redeemers race past the lookup; the conditional delete picks
	// exactly one winner.
	claimed, err := env.inviteRepo.ClaimAndGrant(invite, &alice.ID, now)
	require.NoError(t, err)
	require.True(t, claimed)

	claimed, err = env.inviteRepo.ClaimAndGrant(invite, &bob.ID, now)
	require.NoError(t, err)
	require.False(t, claimed)

	var members []models.ProjectMember
	require.NoError(t, env.db.Where("project_id = ?", project.ID).Find(&members).Error)
	require.Len(t, members, 1)
	require.Equal(t, alice.ID, members[0].UserID)
}

func TestInviteReaper_SweepDeletesOnlyExpired(t *testing.T) {
	env := setupInviteTestEnv(t)

	owner := createInviteTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	project := createInviteTestProject(t, env.db, owner.ID)

	stale := &models.Invite{Code: "STALECODE1", ProjectID: project.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	live := &models.Invite{Code: "FRESHCODE1", ProjectID: project.ID, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, env.db.Create(stale).Error)
	require.NoError(t, env.db.Create(live).Error)

	reaper := NewInviteReaper(env.inviteRepo, time.Hour)
	reaper.sweep()

	var codes []string
	require.NoError(t, env.db.Model(&models.Invite{}).Pluck("code", &codes).Error)
	require.Equal(t, []string{"FRESHCODE1"}, codes)
}
