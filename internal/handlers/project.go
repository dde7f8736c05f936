package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hiromasa-t/project-collab-api/internal/dto"
	apierrors "github.com/hiromasa-t/project-collab-api/internal/errors"
	"github.com/hiromasa-t/project-collab-api/internal/middleware"
	"github.com/hiromasa-t/project-collab-api/internal/models"
	"github.com/hiromasa-t/project-collab-api/internal/services"
)

type ProjectHandler struct {
	projectService    *services.ProjectService
	inviteService     *services.InviteService
	membershipService *services.MembershipService
	progressService   *services.ProgressService
}

func NewProjectHandler(
	projectService *services.ProjectService,
	inviteService *services.InviteService,
	membershipService *services.MembershipService,
	progressService *services.ProgressService,
) *ProjectHandler {
	return &ProjectHandler{
		projectService:    projectService,
		inviteService:     inviteService,
		membershipService: membershipService,
		progressService:   progressService,
	}
}

// CreateProject creates a new project owned by the requesting user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	type CreateProjectRequest struct {
		Sub              string   `json:"sub" binding:"required"`
		Name             string   `json:"name" binding:"required"`
		Description      string   `json:"description"`
		Type             string   `json:"type" binding:"required"`
		Status           string   `json:"status"`
		GithubLink       string   `json:"github_link"`
		DeploymentURL    string   `json:"deployment_url"`
		EnvironmentNotes string   `json:"environment_notes"`
		Members          []string `json:"members"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		OwnerSubject:     req.Sub,
		Name:             req.Name,
		Description:      req.Description,
		Type:             models.ProjectType(req.Type),
		Status:           models.ProjectStatus(req.Status),
		GithubLink:       req.GithubLink,
		DeploymentURL:    req.DeploymentURL,
		EnvironmentNotes: req.EnvironmentNotes,
		MemberEmails:     req.Members,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrInvalidProjectName), errors.Is(err, services.ErrInvalidProjectType):
			apierrors.BadRequest(c, err.Error())
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns a project with its owner and member set
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	detail, members, err := h.projectService.GetProjectWithMembers(project.ID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(*detail, members))
}

// ListMyProjects returns projects owned by the requesting user
func (h *ProjectHandler) ListMyProjects(c *gin.Context) {
	type ListRequest struct {
		Sub string `json:"sub" binding:"required"`
	}

	var req ListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	projects, err := h.projectService.ListOwnedProjects(req.Sub)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	projectDTOs := make([]dto.ProjectDTO, len(projects))
	for i, project := range projects {
		projectDTOs[i] = dto.ToProjectDTO(project)
	}

	c.JSON(http.StatusOK, gin.H{"projects": projectDTOs})
}

// CreateInvite issues a new invite code for the project
func (h *ProjectHandler) CreateInvite(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	invite, err := h.inviteService.Issue(project.ID)
	if err != nil {
		if errors.Is(err, services.ErrProjectNotFound) {
			apierrors.NotFound(c, "Project not found")
			return
		}
		apierrors.InternalError(c, "Failed to generate invite code")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"code":       invite.Code,
		"expires_at": invite.ExpiresAt,
	})
}

// JoinProject redeems an invite code for the requesting user
func (h *ProjectHandler) JoinProject(c *gin.Context) {
	type JoinRequest struct {
		Code        string `json:"code" binding:"required"`
		RequesterID string `json:"requester_id" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	projectID, err := h.inviteService.Redeem(req.Code, req.RequesterID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInviteNotFound):
			apierrors.NotFound(c, "Invalid invite code")
		case errors.Is(err, services.ErrInviteExpired):
			apierrors.Expired(c, "Invite code expired")
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, "Project not found")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Joined project",
		"project_id": projectID,
	})
}

// AddMember adds a user to the project's member set by email
func (h *ProjectHandler) AddMember(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type AddMemberRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	members, err := h.membershipService.AddMember(project.ID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToProjectMemberDTOs(members)})
}

// RemoveMember removes a user from the project's member set by email,
// optionally deleting the tasks assigned to them
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type RemoveMemberRequest struct {
		Email       string `json:"email" binding:"required,email"`
		RemoveTasks bool   `json:"remove_tasks"`
	}

	var req RemoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	members, err := h.membershipService.RemoveMember(project.ID, req.Email, req.RemoveTasks)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProjectNotFound):
			apierrors.NotFound(c, "Project not found")
		case errors.Is(err, services.ErrUserNotFound):
			apierrors.NotFound(c, "User not found")
		default:
			apierrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToProjectMemberDTOs(members)})
}

// BatchProgress returns completion summaries for the requested projects
func (h *ProjectHandler) BatchProgress(c *gin.Context) {
	type BatchProgressRequest struct {
		ProjectIDs []uint64 `json:"project_ids"`
	}

	var req BatchProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "project_ids must be an array")
		return
	}
	// An absent field binds to nil; only an explicit array (even empty) is valid.
	if req.ProjectIDs == nil {
		apierrors.BadRequest(c, "project_ids must be an array")
		return
	}

	results := h.progressService.BatchProgress(req.ProjectIDs)
	c.JSON(http.StatusOK, results)
}
