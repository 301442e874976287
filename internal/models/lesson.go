package models

import "time"

// LessonType is the closed set of lesson content kinds.
type LessonType string

const (
	LessonVideo      LessonType = "video"
	LessonText       LessonType = "text"
	LessonQuiz       LessonType = "quiz"
	LessonAssignment LessonType = "assignment"
)

// Valid reports whether the lesson type is one of the known values.
func (t LessonType) Valid() bool {
	switch t {
	case LessonVideo, LessonText, LessonQuiz, LessonAssignment:
		return true
	}
	return false
}

// Lesson is a unit of a module.
type Lesson struct {
	ID        int64      `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Content   string     `db:"content" json:"content"`
	Type      LessonType `db:"type" json:"type"`
	Order     int        `db:"sort_order" json:"order"`
	ModuleID  int64      `db:"module_id" json:"module_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
