package services

import (
	"errors"
	"fmt"

	"github.com/hiromasa-t/project-collab-api/internal/models"
	"github.com/hiromasa-t/project-collab-api/internal/repository"
	"github.com/hiromasa-t/project-collab-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
)

// TaskService handles task business logic.
//
// Assignee resolution is deliberately best-effort: an email with no matching
// user leaves the task unassigned instead of failing, and membership is not
// checked at assignment time. This preserves the permissive legacy contract;
// the cascade on member removal is what keeps assignments from outliving
// membership.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	ProjectID     uint64
	Title         string
	AssigneeEmail string
}

// CreateTask creates a task under a project. The assignee email, when
// present, is resolved best-effort.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if _, err := s.projectRepo.FindByID(input.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	task := &models.Task{
		Title:     input.Title,
		Status:    models.TaskStatusTodo,
		ProjectID: input.ProjectID,
	}

	if input.AssigneeEmail != "" {
		if assignee, err := s.userRepo.FindByEmail(input.AssigneeEmail); err == nil {
			task.AssigneeID = &assignee.ID
		}
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Project")
}

// ReassignTask changes a task's assignee. An empty email clears the
// assignment; an unresolvable email also leaves the task unassigned.
func (s *TaskService) ReassignTask(taskID uint64, email string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.AssigneeID = nil
	if email != "" {
		if assignee, err := s.userRepo.FindByEmail(email); err == nil {
			task.AssigneeID = &assignee.ID
		}
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to reassign task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee")
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListProjectTasks returns a page of a project's tasks and the total count.
func (s *TaskService) ListProjectTasks(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	if _, err := s.projectRepo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrProjectNotFound
		}
		return nil, 0, fmt.Errorf("failed to find project: %w", err)
	}

	tasks, total, err := s.taskRepo.ListByProject(projectID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListAssignedTasks returns the tasks assigned to the user behind a subject.
func (s *TaskService) ListAssignedTasks(subject string) ([]models.Task, error) {
	user, err := s.userRepo.FindBySubject(subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	tasks, err := s.taskRepo.ListByAssignee(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}

	return tasks, nil
}
