package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/courseware-api/internal/models"
)

const lessonColumns = "id, title, content, type, sort_order, module_id, created_at, updated_at"

// LessonRepository handles persistence for lessons.
type LessonRepository struct {
	crudRepository[models.Lesson]
}

// NewLessonRepository creates a new repository instance.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{newCRUDRepository[models.Lesson](db, "lessons", lessonColumns)}
}

// ListByModule returns a module's lessons in insertion order.
func (r *LessonRepository) ListByModule(ctx context.Context, moduleID int64, skip, limit int) ([]models.Lesson, error) {
	skip, limit = clampWindow(skip, limit)
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE module_id = $1 ORDER BY id LIMIT %d OFFSET %d", lessonColumns, limit, skip)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, moduleID); err != nil {
		return nil, fmt.Errorf("list lessons by module: %w", err)
	}
	return lessons, nil
}

// ListByModuleOrdered returns a module's lessons in author-defined sequence
// with identity as the deterministic tie-break.
func (r *LessonRepository) ListByModuleOrdered(ctx context.Context, moduleID int64, skip, limit int) ([]models.Lesson, error) {
	skip, limit = clampWindow(skip, limit)
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE module_id = $1 ORDER BY sort_order ASC, id ASC LIMIT %d OFFSET %d", lessonColumns, limit, skip)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, moduleID); err != nil {
		return nil, fmt.Errorf("list ordered lessons by module: %w", err)
	}
	return lessons, nil
}

// ListByType returns lessons of the given content type in insertion order.
func (r *LessonRepository) ListByType(ctx context.Context, lessonType models.LessonType, skip, limit int) ([]models.Lesson, error) {
	skip, limit = clampWindow(skip, limit)
	query := fmt.Sprintf("SELECT %s FROM lessons WHERE type = $1 ORDER BY id LIMIT %d OFFSET %d", lessonColumns, limit, skip)
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, lessonType); err != nil {
		return nil, fmt.Errorf("list lessons by type: %w", err)
	}
	return lessons, nil
}

// CountByModule returns the number of lessons owned by a module.
func (r *LessonRepository) CountByModule(ctx context.Context, moduleID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM lessons WHERE module_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, moduleID); err != nil {
		return 0, fmt.Errorf("count lessons by module: %w", err)
	}
	return total, nil
}

// CountByType returns the number of lessons of the given content type.
func (r *LessonRepository) CountByType(ctx context.Context, lessonType models.LessonType) (int, error) {
	const query = `SELECT COUNT(*) FROM lessons WHERE type = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, lessonType); err != nil {
		return 0, fmt.Errorf("count lessons by type: %w", err)
	}
	return total, nil
}

// Create persists a new lesson, assigning identity and timestamps.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	now := time.Now().UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	const query = `INSERT INTO lessons (title, content, type, sort_order, module_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &lesson.ID, query, lesson.Title, lesson.Content, lesson.Type, lesson.Order, lesson.ModuleID, lesson.CreatedAt, lesson.UpdatedAt); err != nil {
		return fmt.Errorf("create lesson: %w", translateConstraint(err))
	}
	return nil
}

// Update persists the mutable fields of a lesson and advances updated_at.
// The owning module is fixed at creation time.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	lesson.UpdatedAt = time.Now().UTC()
	const query = `UPDATE lessons SET title = $2, content = $3, type = $4, sort_order = $5, updated_at = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, lesson.ID, lesson.Title, lesson.Content, lesson.Type, lesson.Order, lesson.UpdatedAt); err != nil {
		return fmt.Errorf("update lesson: %w", translateConstraint(err))
	}
	return nil
}
