package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	appErrors "github.com/noah-isme/courseware-api/pkg/errors"
)

const (
	defaultListLimit = 100

	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// crudRepository provides the uniform data-access contract shared by every
// entity: lookup by id, insertion-ordered listing over a skip/limit window,
// row counting and delete-returning-snapshot. Entity-specific SQL (inserts,
// updates, filtered listings) lives in the embedding repository.
type crudRepository[T any] struct {
	db      *sqlx.DB
	table   string
	columns string
}

func newCRUDRepository[T any](db *sqlx.DB, table, columns string) crudRepository[T] {
	return crudRepository[T]{db: db, table: table, columns: columns}
}

// FindByID returns the record with the given identity. Absence is reported
// as sql.ErrNoRows so callers can distinguish it from store failures.
func (r *crudRepository[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 LIMIT 1", r.columns, r.table)
	var record T
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find %s by id: %w", r.table, err)
	}
	return &record, nil
}

// List returns records in insertion order, skipping skip rows and returning
// at most limit rows. Out-of-range window values fall back to safe defaults.
func (r *crudRepository[T]) List(ctx context.Context, skip, limit int) ([]T, error) {
	skip, limit = clampWindow(skip, limit)
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id LIMIT %d OFFSET %d", r.columns, r.table, limit, skip)
	var records []T
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	return records, nil
}

// Count returns the total number of rows in the table.
func (r *crudRepository[T]) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", r.table)
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count %s: %w", r.table, err)
	}
	return total, nil
}

// Delete removes the record with the given identity and returns the deleted
// snapshot. Absence is reported as sql.ErrNoRows.
func (r *crudRepository[T]) Delete(ctx context.Context, id int64) (*T, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 RETURNING %s", r.table, r.columns)
	var record T
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("delete %s: %w", r.table, err)
	}
	return &record, nil
}

func clampWindow(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return skip, limit
}

// translateConstraint maps Postgres integrity violations onto domain errors
// so write-path integrity never depends on caller pre-checks alone.
func translateConstraint(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pqUniqueViolation:
			return appErrors.Clone(appErrors.ErrConflict, "duplicate value for unique field")
		case pqForeignKeyViolation:
			return appErrors.Clone(appErrors.ErrNotFound, "referenced record does not exist")
		}
	}
	return err
}
