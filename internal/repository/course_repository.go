package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/courseware-api/internal/models"
)

const courseColumns = "id, title, description, active, created_at, updated_at"

// CourseRepository handles persistence for courses.
type CourseRepository struct {
	crudRepository[models.Course]
}

// NewCourseRepository creates a new repository instance.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{newCRUDRepository[models.Course](db, "courses", courseColumns)}
}

// FindByTitle returns the course with an exactly matching title.
func (r *CourseRepository) FindByTitle(ctx context.Context, title string) (*models.Course, error) {
	const query = `SELECT id, title, description, active, created_at, updated_at FROM courses WHERE title = $1 LIMIT 1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find course by title: %w", err)
	}
	return &course, nil
}

// ListActive returns courses with the active flag set, in insertion order.
func (r *CourseRepository) ListActive(ctx context.Context, skip, limit int) ([]models.Course, error) {
	skip, limit = clampWindow(skip, limit)
	query := fmt.Sprintf("SELECT %s FROM courses WHERE active = TRUE ORDER BY id LIMIT %d OFFSET %d", courseColumns, limit, skip)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}
	return courses, nil
}

// CountActive returns the number of active courses.
func (r *CourseRepository) CountActive(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM courses WHERE active = TRUE`
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count active courses: %w", err)
	}
	return total, nil
}

// Create persists a new course, assigning identity and timestamps.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO courses (title, description, active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.GetContext(ctx, &course.ID, query, course.Title, course.Description, course.Active, course.CreatedAt, course.UpdatedAt); err != nil {
		return fmt.Errorf("create course: %w", translateConstraint(err))
	}
	return nil
}

// Update persists the mutable fields of a course and advances updated_at.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET title = $2, description = $3, active = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, course.ID, course.Title, course.Description, course.Active, course.UpdatedAt); err != nil {
		return fmt.Errorf("update course: %w", translateConstraint(err))
	}
	return nil
}
