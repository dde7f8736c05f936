package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hiromasa-t/project-collab-api/internal/database"
	"github.com/hiromasa-t/project-collab-api/internal/middleware"
	"github.com/hiromasa-t/project-collab-api/internal/models"
	"github.com/hiromasa-t/project-collab-api/internal/repository"
	"github.com/hiromasa-t/project-collab-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type projectTestEnv struct {
	db     *gorm.DB
	router *gin.Engine
}

func setupProjectTestEnv(t *testing.T) projectTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

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

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	projectService := services.NewProjectService(projectRepo, userRepo)
	inviteService := services.NewInviteService(inviteRepo, projectRepo, userRepo, 0)
	membershipService := services.NewMembershipService(projectRepo, userRepo)
	progressService := services.NewProgressService(taskRepo)

	handler := NewProjectHandler(projectService, inviteService, membershipService, progressService)

	r := gin.New()
	projects := r.Group("/api/projects")
	{
		projects.POST("/join", handler.JoinProject)
		projects.POST("/progress-batch", handler.BatchProgress)
		projects.POST("/:id/invites", middleware.RequireProject(), handler.CreateInvite)
		projects.POST("/:id/add-member", middleware.RequireProject(), handler.AddMember)
		projects.POST("/:id/remove-member", middleware.RequireProject(), handler.RemoveMember)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return projectTestEnv{
		db:     db,
		router: r,
	}
}

func (env projectTestEnv) request(t *testing.T, method, url string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func createProjectTestUser(t *testing.T, db *gorm.DB, name, email, subject string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.UserSubject{Subject: subject, UserID: user.ID}).Error)
	return user
}

func createTestProject(t *testing.T, db *gorm.DB, name string, ownerID uint64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:    name,
		Type:    models.ProjectTypeTeam,
		Status:  models.ProjectStatusInProgress,
		OwnerID: ownerID,
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func TestProjectHandler_CreateInvite(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	project := createTestProject(t, env.db, "Tracker", owner.ID)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/invites", project.ID), nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	code, ok := response["code"].(string)
	require.True(t, ok)
	require.Len(t, code, 10)
}

func TestProjectHandler_CreateInvite_ProjectMissing(t *testing.T) {
	env := setupProjectTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/projects/9999/invites", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_JoinProject(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	joiner := createProjectTestUser(t, env.db, "joiner", "joiner@example.com", "auth0|joiner")
	project := createTestProject(t, env.db, "Tracker", owner.ID)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/invites", project.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var invite map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invite))
	code := invite["code"].(string)

	w = env.request(t, http.MethodPost, "/api/projects/join", map[string]string{
		"code":         code,
		"requester_id": "auth0|joiner",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var member models.ProjectMember
	require.NoError(t, env.db.Where("project_id = ? AND user_id = ?", project.ID, joiner.ID).First(&member).Error)

	// Single use: the same code cannot be redeemed again.
	w = env.request(t, http.MethodPost, "/api/projects/join", map[string]string{
		"code":         code,
		"requester_id": "auth0|joiner",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_JoinProject_InvalidCode(t *testing.T) {
	env := setupProjectTestEnv(t)

	createProjectTestUser(t, env.db, "joiner", "joiner@example.com", "auth0|joiner")

	w := env.request(t, http.MethodPost, "/api/projects/join", map[string]string{
		"code":         "NOSUCHCODE",
		"requester_id": "auth0|joiner",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_JoinProject_ExpiredCode(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	createProjectTestUser(t, env.db, "joiner", "joiner@example.com", "auth0|joiner")
	project := createTestProject(t, env.db, "Tracker", owner.ID)

	invite := &models.Invite{
		Code:      "STALECODE1",
		ProjectID: project.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, env.db.Create(invite).Error)

	w := env.request(t, http.MethodPost, "/api/projects/join", map[string]string{
		"code":         "STALECODE1",
		"requester_id": "auth0|joiner",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "EXPIRED")

	// The expired invite is deleted on access; later attempts see not-found.
	w = env.request(t, http.MethodPost, "/api/projects/join", map[string]string{
		"code":         "STALECODE1",
		"requester_id": "auth0|joiner",
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_JoinProject_UnknownRequester(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	project := createTestProject(t, env.db, "Tracker", owner.ID)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/invites", project.ID), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var invite map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invite))

	w = env.request(t, http.MethodPost, "/api/projects/join", map[string]string{
		"code":         invite["code"].(string),
		"requester_id": "auth0|stranger",
	})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_AddMember(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	createProjectTestUser(t, env.db, "alice", "alice@example.com", "auth0|alice")
	project := createTestProject(t, env.db, "Tracker", owner.ID)

	url := fmt.Sprintf("/api/projects/%d/add-member", project.ID)

	w := env.request(t, http.MethodPost, url, map[string]string{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	// Idempotent: adding an existing member changes nothing.
	w = env.request(t, http.MethodPost, url, map[string]string{"email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestProjectHandler_AddMember_OwnerNeverInMemberSet(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	project := createTestProject(t, env.db, "Tracker", owner.ID)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/add-member", project.ID),
		map[string]string{"email": "owner@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestProjectHandler_AddMember_UnknownEmail(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	project := createTestProject(t, env.db, "Tracker", owner.ID)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/add-member", project.ID),
		map[string]string{"email": "nobody@example.com"})

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_RemoveMember_CascadeDeletesAssignedTasks(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	alice := createProjectTestUser(t, env.db, "alice", "alice@example.com", "auth0|alice")
	bob := createProjectTestUser(t, env.db, "bob", "bob@example.com", "auth0|bob")
	project := createTestProject(t, env.db, "Tracker", owner.ID)

	for _, m := range []*models.User{alice, bob} {
		require.NoError(t, env.db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: m.ID}).Error)
	}

	taskA := &models.Task{Title: "A", ProjectID: project.ID, AssigneeID: &alice.ID}
	taskB := &models.Task{Title: "B", ProjectID: project.ID, AssigneeID: &bob.ID}
	taskC := &models.Task{Title: "C", ProjectID: project.ID, AssigneeID: &alice.ID}
	for _, task := range []*models.Task{taskA, taskB, taskC} {
		require.NoError(t, env.db.Create(task).Error)
	}

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/remove-member", project.ID),
		map[string]any{"email": "alice@example.com", "remove_tasks": true})

	require.Equal(t, http.StatusOK, w.Code)

	var members []models.ProjectMember
	require.NoError(t, env.db.Where("project_id = ?", project.ID).Find(&members).Error)
	require.Len(t, members, 1)
	require.Equal(t, bob.ID, members[0].UserID)

	var tasks []models.Task
	require.NoError(t, env.db.Where("project_id = ?", project.ID).Find(&tasks).Error)
	require.Len(t, tasks, 1)
	require.Equal(t, "B", tasks[0].Title)
}

func TestProjectHandler_RemoveMember_WithoutCascadeKeepsTasks(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	alice := createProjectTestUser(t, env.db, "alice", "alice@example.com", "auth0|alice")
	project := createTestProject(t, env.db, "Tracker", owner.ID)

	require.NoError(t, env.db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: alice.ID}).Error)
	require.NoError(t, env.db.Create(&models.Task{Title: "A", ProjectID: project.ID, AssigneeID: &alice.ID}).Error)

	w := env.request(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/remove-member", project.ID),
		map[string]any{"email": "alice@example.com", "remove_tasks": false})

	require.Equal(t, http.StatusOK, w.Code)

	var taskCount int64
	require.NoError(t, env.db.Model(&models.Task{}).
		Where("project_id = ?", project.ID).Count(&taskCount).Error)
	require.EqualValues(t, 1, taskCount)
}

func TestProjectHandler_BatchProgress(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner", "owner@example.com", "auth0|owner")
	withTasks := createTestProject(t, env.db, "With Tasks", owner.ID)
	empty := createTestProject(t, env.db, "Empty", owner.ID)

	statuses := []models.TaskStatus{models.TaskStatusDone, models.TaskStatusTodo, models.TaskStatusInProgress}
	for i, status := range statuses {
		require.NoError(t, env.db.Create(&models.Task{
			Title:     fmt.Sprintf("task-%d", i),
			Status:    status,
			ProjectID: withTasks.ID,
		}).Error)
	}

	w := env.request(t, http.MethodPost, "/api/projects/progress-batch", map[string]any{
		"project_ids": []uint64{withTasks.ID, empty.ID, 9999},
	})

	require.Equal(t, http.StatusOK, w.Code)

	var results []services.ProjectProgress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 3)

	// Output order matches input order.
	require.Equal(t, withTasks.ID, results[0].ProjectID)
	require.EqualValues(t, 1, results[0].Completed)
	require.EqualValues(t, 3, results[0].Total)
	require.Equal(t, 33, results[0].Percentage)

	require.Equal(t, empty.ID, results[1].ProjectID)
	require.Equal(t, services.ProjectProgress{ProjectID: empty.ID}, results[1])

	require.Equal(t, services.ProjectProgress{ProjectID: 9999}, results[2])
}

func TestProjectHandler_BatchProgress_EmptyInput(t *testing.T) {
	env := setupProjectTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/projects/progress-batch", map[string]any{
		"project_ids": []uint64{},
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, "[]", w.Body.String())
}

func TestProjectHandler_BatchProgress_MissingIDs(t *testing.T) {
	env := setupProjectTestEnv(t)

	// An empty array is valid input; an absent field is not.
	w := env.request(t, http.MethodPost, "/api/projects/progress-batch", map[string]any{})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "project_ids must be an array")
}
