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
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidProjectName = errors.New("project name cannot be empty")
	ErrInvalidProjectType = errors.New("invalid project type")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	OwnerSubject     string
	Name             string
	Description      string
	Type             models.ProjectType
	Status           models.ProjectStatus
	GithubLink       string
	DeploymentURL    string
	EnvironmentNotes string
	MemberEmails     []string
}

// CreateProject creates a project owned by the resolved user. Initial member
// emails are resolved best-effort; unknown emails are skipped and the owner
// is never added to the member set.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidProjectName
	}
	switch input.Type {
	case models.ProjectTypePersonal, models.ProjectTypeTeam, models.ProjectTypeBig:
	default:
		return nil, ErrInvalidProjectType
	}

	owner, err := s.userRepo.FindBySubject(input.OwnerSubject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusNotStarted
	}

	project := &models.Project{
		Name:             input.Name,
		Description:      input.Description,
		Type:             input.Type,
		Status:           status,
		GithubLink:       input.GithubLink,
		DeploymentURL:    input.DeploymentURL,
		EnvironmentNotes: input.EnvironmentNotes,
		OwnerID:          owner.ID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	for _, email := range input.MemberEmails {
		member, err := s.userRepo.FindByEmail(email)
		if err != nil {
			continue
		}
		if member.ID == owner.ID {
			continue
		}
		if err := s.projectRepo.AddMember(&models.ProjectMember{
			ProjectID: project.ID,
			UserID:    member.ID,
		}); err != nil {
			return nil, fmt.Errorf("failed to add initial member: %w", err)
		}
	}

	return project, nil
}

// GetProjectWithMembers returns a project with its owner and member set.
func (s *ProjectService) GetProjectWithMembers(projectID uint64) (*models.Project, []models.ProjectMember, error) {
	project, err := s.projectRepo.FindByID(projectID, "Owner")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list project members: %w", err)
	}

	return project, members, nil
}

// ListOwnedProjects returns the projects owned by the user behind a subject.
func (s *ProjectService) ListOwnedProjects(subject string) ([]models.Project, error) {
	owner, err := s.userRepo.FindBySubject(subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	projects, err := s.projectRepo.ListByOwner(owner.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}
