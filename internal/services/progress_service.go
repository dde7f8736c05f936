package services

import (
	"math"

	"github.com/hiromasa-t/project-collab-api/internal/repository"
)

// ProjectProgress is one project's completion summary.
type ProjectProgress struct {
	ProjectID  uint64 `json:"project_id"`
	Completed  int64  `json:"completed"`
	Total      int64  `json:"total"`
	Percentage int    `json:"percentage"`
}

// ProgressService computes per-project completion from task status counts.
// It is read-only against the task store.
type ProgressService struct {
	taskRepo repository.TaskRepository
}

// NewProgressService creates a new ProgressService
func NewProgressService(taskRepo repository.TaskRepository) *ProgressService {
	return &ProgressService{
		taskRepo: taskRepo,
	}
}

// BatchProgress computes completion for each project id independently. A
// project that fails to load, does not exist, or has no tasks yields a
// zero-valued entry; one project never aborts the rest. Output order matches
// input order.
func (s *ProgressService) BatchProgress(projectIDs []uint64) []ProjectProgress {
	results := make([]ProjectProgress, 0, len(projectIDs))

	for _, projectID := range projectIDs {
		entry := ProjectProgress{ProjectID: projectID}

		total, done, err := s.taskRepo.ProgressCounts(projectID)
		if err == nil && total > 0 {
			entry.Total = total
			entry.Completed = done
			entry.Percentage = int(math.Round(float64(done) / float64(total) * 100))
		}

		results = append(results, entry)
	}

	return results
}
