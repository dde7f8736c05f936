package repository

import (
	"time"

	"github.com/hiromasa-t/project-collab-api/internal/models"
	"github.com/hiromasa-t/project-collab-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// Update updates a user's profile fields
	Update(user *models.User) error

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindBySubject finds a user by external identity-provider subject
	FindBySubject(subject string) (*models.User, error)

	// AddSubject links an additional external subject to a user
	AddSubject(userID uint64, subject string) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// ListByOwner lists projects owned by a user
	ListByOwner(ownerID uint64) ([]models.Project, error)

	// AddMember inserts into the member set; a no-op if already present
	AddMember(member *models.ProjectMember) error

	// RemoveMember deletes from the member set; a no-op if absent
	RemoveMember(projectID, userID uint64) error

	// RemoveMemberCascade removes a member and deletes the tasks assigned
	// to them in the project, atomically
	RemoveMemberCascade(projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembers lists all members of a project
	ListMembers(projectID uint64) ([]models.ProjectMember, error)
}

// InviteRepository defines the interface for invite data access
type InviteRepository interface {
	// Create inserts an invite; returns gorm.ErrDuplicatedKey when the code
	// collides with a live invite
	Create(invite *models.Invite) error

	// FindByCode finds a live invite by code
	FindByCode(code string) (*models.Invite, error)

	// Delete removes an invite unconditionally
	Delete(id uint64) error

	// ClaimAndGrant atomically consumes an unexpired invite and, when
	// granteeID is non-nil, adds the grantee to the project's member set.
	// Returns false when the invite was already consumed or has expired.
	ClaimAndGrant(invite *models.Invite, granteeID *uint64, now time.Time) (bool, error)

	// DeleteExpired removes all invites whose expiry is at or before now,
	// returning the number deleted
	DeleteExpired(now time.Time) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// ListByProject retrieves a page of a project's tasks and the total count
	ListByProject(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error)

	// ListByAssignee lists tasks assigned to a user across projects
	ListByAssignee(userID uint64) ([]models.Task, error)

	// ProgressCounts returns the total task count and the count of tasks in
	// the done status for a project
	ProgressCounts(projectID uint64) (total int64, done int64, err error)
}
