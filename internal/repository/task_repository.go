package repository

import (
	"github.com/hiromasa-t/project-collab-api/internal/database"
	"github.com/hiromasa-t/project-collab-api/internal/models"
	"github.com/hiromasa-t/project-collab-api/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// ListByProject retrieves a page of a project's tasks and the total count
func (r *GormTaskRepository) ListByProject(projectID uint64, params utils.PaginationParams) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).Where("project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	if err := query.
		Order("created_at DESC").
		Scopes(database.Paginate(params)).
		Preload("Assignee").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// ListByAssignee lists tasks assigned to a user across projects
func (r *GormTaskRepository) ListByAssignee(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("assignee_id = ?", userID).
		Preload("Project").
		Preload("Project.Owner").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ProgressCounts returns the total task count and the count of tasks in the
// done status for a project
func (r *GormTaskRepository) ProgressCounts(projectID uint64) (int64, int64, error) {
	var total int64
	if err := r.db.Model(&models.Task{}).
		Where("project_id = ?", projectID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	var done int64
	if err := r.db.Model(&models.Task{}).
		Where("project_id = ? AND status = ?", projectID, models.TaskStatusDone).
		Count(&done).Error; err != nil {
		return 0, 0, err
	}

	return total, done, nil
}
