package models

import "time"

// Module is a unit of a course. The order field drives author-defined
// rendering sequence; it is independent of insertion order.
type Module struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Order       int       `db:"sort_order" json:"order"`
	CourseID    int64     `db:"course_id" json:"course_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
