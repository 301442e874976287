package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/courseware-api/internal/models"
)

func lessonRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "content", "type", "sort_order", "module_id", "created_at", "updated_at"})
}

func TestLessonRepositoryListByModuleOrdered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, type, sort_order, module_id, created_at, updated_at FROM lessons WHERE module_id = $1 ORDER BY sort_order ASC, id ASC LIMIT 10 OFFSET 0")).
		WithArgs(int64(3)).
		WillReturnRows(lessonRows().
			AddRow(5, "Intro", "", "video", 1, 3, time.Now(), time.Now()).
			AddRow(6, "Recap", "", "quiz", 2, 3, time.Now(), time.Now()))

	lessons, err := repo.ListByModuleOrdered(context.Background(), 3, 0, 10)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, models.LessonVideo, lessons[0].Type)
	assert.Equal(t, 1, lessons[0].Order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryListByType(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, content, type, sort_order, module_id, created_at, updated_at FROM lessons WHERE type = $1 ORDER BY id LIMIT 10 OFFSET 0")).
		WithArgs(models.LessonQuiz).
		WillReturnRows(lessonRows().AddRow(6, "Recap", "", "quiz", 2, 3, time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lessons WHERE type = $1")).
		WithArgs(models.LessonQuiz).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	lessons, err := repo.ListByType(context.Background(), models.LessonQuiz, 0, 10)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, models.LessonQuiz, lessons[0].Type)

	total, err := repo.CountByType(context.Background(), models.LessonQuiz)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO lessons (title, content, type, sort_order, module_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id")).
		WithArgs("Intro", "hello", models.LessonText, 0, int64(3), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))

	lesson := &models.Lesson{Title: "Intro", Content: "hello", Type: models.LessonText, ModuleID: 3}
	require.NoError(t, repo.Create(context.Background(), lesson))
	assert.Equal(t, int64(9), lesson.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryDeleteReturnsSnapshot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM lessons WHERE id = $1 RETURNING id, title, content, type, sort_order, module_id, created_at, updated_at")).
		WithArgs(int64(9)).
		WillReturnRows(lessonRows().AddRow(9, "Intro", "hello", "text", 0, 3, time.Now(), time.Now()))

	lesson, err := repo.Delete(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "Intro", lesson.Title)
	assert.Equal(t, int64(3), lesson.ModuleID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
