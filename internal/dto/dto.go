package dto

import (
	"time"

	"github.com/hiromasa-t/project-collab-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Picture       string `json:"picture,omitempty"`
	EmailVerified bool   `json:"email_verified"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID               uint64               `json:"id"`
	Name             string               `json:"name"`
	Description      string               `json:"description,omitempty"`
	Type             models.ProjectType   `json:"type"`
	Status           models.ProjectStatus `json:"status"`
	GithubLink       string               `json:"github_link,omitempty"`
	DeploymentURL    string               `json:"deployment_url,omitempty"`
	EnvironmentNotes string               `json:"environment_notes,omitempty"`
	OwnerID          uint64               `json:"owner_id"`
	Owner            *UserDTO             `json:"owner,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// ProjectMemberDTO represents a member in a project's member set
type ProjectMemberDTO struct {
	User     UserDTO   `json:"user"`
	JoinedAt time.Time `json:"joined_at"`
}

// ProjectDetailDTO represents a project with its member set
type ProjectDetailDTO struct {
	ProjectDTO
	Members []ProjectMemberDTO `json:"members"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID         uint64            `json:"id"`
	Title      string            `json:"title"`
	Status     models.TaskStatus `json:"status"`
	AssigneeID *uint64           `json:"assignee_id"`
	Assignee   *UserDTO          `json:"assignee,omitempty"`
	ProjectID  uint64            `json:"project_id"`
	Project    *ProjectDTO       `json:"project,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Picture:       user.Picture,
		EmailVerified: user.EmailVerified,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:               project.ID,
		Name:             project.Name,
		Description:      project.Description,
		Type:             project.Type,
		Status:           project.Status,
		GithubLink:       project.GithubLink,
		DeploymentURL:    project.DeploymentURL,
		EnvironmentNotes: project.EnvironmentNotes,
		OwnerID:          project.OwnerID,
		CreatedAt:        project.CreatedAt,
		UpdatedAt:        project.UpdatedAt,
	}

	// Include owner if preloaded
	if project.Owner.ID != 0 {
		owner := ToUserDTO(project.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToProjectMemberDTO converts a member to DTO
func ToProjectMemberDTO(member models.ProjectMember) ProjectMemberDTO {
	return ProjectMemberDTO{
		User:     ToUserDTO(member.User),
		JoinedAt: member.JoinedAt,
	}
}

// ToProjectMemberDTOs converts a member set to DTOs
func ToProjectMemberDTOs(members []models.ProjectMember) []ProjectMemberDTO {
	dtos := make([]ProjectMemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToProjectMemberDTO(member)
	}
	return dtos
}

// ToProjectDetailDTO converts a project with members to a detailed DTO
func ToProjectDetailDTO(project models.Project, members []models.ProjectMember) ProjectDetailDTO {
	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Members:    ToProjectMemberDTOs(members),
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:         task.ID,
		Title:      task.Title,
		Status:     task.Status,
		AssigneeID: task.AssigneeID,
		ProjectID:  task.ProjectID,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.Assignee != nil && task.Assignee.ID != 0 {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}

	// Include project if preloaded
	if task.Project.ID != 0 {
		project := ToProjectDTO(task.Project)
		dto.Project = &project
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks to DTOs
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
