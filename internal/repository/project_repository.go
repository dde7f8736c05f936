package repository

import (
	"github.com/hiromasa-t/project-collab-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListByOwner lists projects owned by a user
func (r *GormProjectRepository) ListByOwner(ownerID uint64) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Where("owner_id = ?", ownerID).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// AddMember inserts into the member set. The (project_id, user_id) primary
// key plus ON CONFLICT DO NOTHING make this an atomic add-to-set: concurrent
// adds converge without a read-modify-write of the member list.
func (r *GormProjectRepository) AddMember(member *models.ProjectMember) error {
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member).Error
}

// RemoveMember deletes from the member set; a no-op if absent
func (r *GormProjectRepository) RemoveMember(projectID, userID uint64) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{}).Error
}

// RemoveMemberCascade removes a member and deletes the tasks assigned to
// them in the project within a single transaction, so the membership change
// and its cascade either both apply or neither does.
func (r *GormProjectRepository) RemoveMemberCascade(projectID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Where("project_id = ? AND assignee_id = ?", projectID, userID).
			Delete(&models.Task{}).Error
	})
}

// FindMember finds a specific project member
func (r *GormProjectRepository) FindMember(projectID, userID uint64) (*models.ProjectMember, error) {
	var member models.ProjectMember
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// ListMembers lists all members of a project
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectMember, error) {
	var members []models.ProjectMember
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
