package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/courseware-api/internal/models"
	appErrors "github.com/noah-isme/courseware-api/pkg/errors"
)

func moduleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "description", "sort_order", "course_id", "created_at", "updated_at"})
}

func TestModuleRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewModuleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, sort_order, course_id, created_at, updated_at FROM modules WHERE course_id = $1 ORDER BY id LIMIT 10 OFFSET 0")).
		WithArgs(int64(1)).
		WillReturnRows(moduleRows().
			AddRow(1, "Week 1", "", 2, 1, time.Now(), time.Now()).
			AddRow(2, "Week 2", "", 1, 1, time.Now(), time.Now()))

	modules, err := repo.ListByCourse(context.Background(), 1, 0, 10)
	require.NoError(t, err)
	assert.Len(t, modules, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleRepositoryListByCourseOrdered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewModuleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, sort_order, course_id, created_at, updated_at FROM modules WHERE course_id = $1 ORDER BY sort_order ASC, id ASC LIMIT 10 OFFSET 0")).
		WithArgs(int64(1)).
		WillReturnRows(moduleRows().
			AddRow(2, "Week 1", "", 1, 1, time.Now(), time.Now()).
			AddRow(1, "Week 2", "", 2, 1, time.Now(), time.Now()))

	modules, err := repo.ListByCourseOrdered(context.Background(), 1, 0, 10)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, 1, modules[0].Order)
	assert.Equal(t, 2, modules[1].Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewModuleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO modules (title, description, sort_order, course_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id")).
		WithArgs("Week 1", "", 1, int64(5), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	module := &models.Module{Title: "Week 1", Order: 1, CourseID: 5}
	require.NoError(t, repo.Create(context.Background(), module))
	assert.Equal(t, int64(11), module.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleRepositoryCreateOrphaned(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewModuleRepository(db)

	mock.ExpectQuery("INSERT INTO modules").
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Create(context.Background(), &models.Module{Title: "Week 1", CourseID: 404})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModuleRepositoryUpdateKeepsCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewModuleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE modules SET title = $2, description = $3, sort_order = $4, updated_at = $5 WHERE id = $1")).
		WithArgs(int64(2), "Renamed", "desc", 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	module := &models.Module{ID: 2, Title: "Renamed", Description: "desc", Order: 3, CourseID: 1}
	require.NoError(t, repo.Update(context.Background(), module))
	assert.NoError(t, mock.ExpectationsWereMet())
}
