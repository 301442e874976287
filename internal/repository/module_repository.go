package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/courseware-api/internal/models"
)

const moduleColumns = "id, title, description, sort_order, course_id, created_at, updated_at"

// ModuleRepository handles persistence for course modules.
type ModuleRepository struct {
	crudRepository[models.Module]
}

// NewModuleRepository creates a new repository instance.
func NewModuleRepository(db *sqlx.DB) *ModuleRepository {
	return &ModuleRepository{newCRUDRepository[models.Module](db, "modules", moduleColumns)}
}

// ListByCourse returns a course's modules in insertion order.
func (r *ModuleRepository) ListByCourse(ctx context.Context, courseID int64, skip, limit int) ([]models.Module, error) {
	skip, limit = clampWindow(skip, limit)
	query := fmt.Sprintf("SELECT %s FROM modules WHERE course_id = $1 ORDER BY id LIMIT %d OFFSET %d", moduleColumns, limit, skip)
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, query, courseID); err != nil {
		return nil, fmt.Errorf("list modules by course: %w", err)
	}
	return modules, nil
}

// ListByCourseOrdered returns a course's modules in author-defined sequence.
// Ties on sort_order fall back to identity so the order is deterministic.
func (r *ModuleRepository) ListByCourseOrdered(ctx context.Context, courseID int64, skip, limit int) ([]models.Module, error) {
	skip, limit = clampWindow(skip, limit)
	query := fmt.Sprintf("SELECT %s FROM modules WHERE course_id = $1 ORDER BY sort_order ASC, id ASC LIMIT %d OFFSET %d", moduleColumns, limit, skip)
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, query, courseID); err != nil {
		return nil, fmt.Errorf("list ordered modules by course: %w", err)
	}
	return modules, nil
}

// CountByCourse returns the number of modules owned by a course.
func (r *ModuleRepository) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM modules WHERE course_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, courseID); err != nil {
		return 0, fmt.Errorf("count modules by course: %w", err)
	}
	return total, nil
}

// Create persists a new module, assigning identity and timestamps.
func (r *ModuleRepository) Create(ctx context.Context, module *models.Module) error {
	now := time.Now().UTC()
	module.CreatedAt = now
	module.UpdatedAt = now

	const query = `INSERT INTO modules (title, description, sort_order, course_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.GetContext(ctx, &module.ID, query, module.Title, module.Description, module.Order, module.CourseID, module.CreatedAt, module.UpdatedAt); err != nil {
		return fmt.Errorf("create module: %w", translateConstraint(err))
	}
	return nil
}

// Update persists the mutable fields of a module and advances updated_at.
// The owning course is fixed at creation time.
func (r *ModuleRepository) Update(ctx context.Context, module *models.Module) error {
	module.UpdatedAt = time.Now().UTC()
	const query = `UPDATE modules SET title = $2, description = $3, sort_order = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, module.ID, module.Title, module.Description, module.Order, module.UpdatedAt); err != nil {
		return fmt.Errorf("update module: %w", translateConstraint(err))
	}
	return nil
}
