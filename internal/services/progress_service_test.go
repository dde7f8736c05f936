package services

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hiromasa-t/project-collab-api/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestProgressService_BatchProgress_IsolatesStoreFailures drives the
// aggregator against a mocked store: the first project's count query fails,
// and the second must still be computed. A failing project yields a
// zero-valued entry instead of aborting the batch.
func TestProgressService_BatchProgress_IsolatesStoreFailures(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	countQuery := `SELECT count\(\*\) FROM "tasks"`

	// Project 1: total count fails.
	mock.ExpectQuery(countQuery).
		WithArgs(uint64(1)).
		WillReturnError(errors.New("connection reset"))

	// Project 2: 4 tasks, 2 done.
	mock.ExpectQuery(countQuery).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(countQuery).
		WithArgs(uint64(2), "done").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	service := NewProgressService(repository.NewTaskRepository(db))

	results := service.BatchProgress([]uint64{1, 2})
	require.Len(t, results, 2)

	require.Equal(t, ProjectProgress{ProjectID: 1}, results[0])
	require.Equal(t, ProjectProgress{
		ProjectID:  2,
		Completed:  2,
		Total:      4,
		Percentage: 50,
	}, results[1])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProgressService_BatchProgress_Rounding(t *testing.T) {
	cases := []struct {
		name     string
		total    int64
		done     int64
		expected int
	}{
		{"one of three", 3, 1, 33},
		{"two of three", 3, 2, 67},
		{"all done", 5, 5, 100},
		{"none done", 4, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
			require.NoError(t, err)
			defer sqlDB.Close()

			db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Silent),
			})
			require.NoError(t, err)

			countQuery := `SELECT count\(\*\) FROM "tasks"`
			mock.ExpectQuery(countQuery).
				WithArgs(uint64(7)).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tc.total))
			mock.ExpectQuery(countQuery).
				WithArgs(uint64(7), "done").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(tc.done))

			service := NewProgressService(repository.NewTaskRepository(db))

			results := service.BatchProgress([]uint64{7})
			require.Len(t, results, 1)
			require.Equal(t, tc.expected, results[0].Percentage)
		})
	}
}

func TestProgressService_BatchProgress_EmptyInput(t *testing.T) {
	service := NewProgressService(nil)

	results := service.BatchProgress(nil)
	require.NotNil(t, results)
	require.Empty(t, results)
}
