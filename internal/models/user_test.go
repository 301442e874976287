package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleInstructor.Valid())
	assert.True(t, RoleStudent.Valid())
	assert.False(t, UserRole("superuser").Valid())
	assert.False(t, UserRole("").Valid())
}

func TestUserRolePredicates(t *testing.T) {
	admin := User{Role: RoleAdmin, Active: true}
	instructor := User{Role: RoleInstructor, Active: true}
	student := User{Role: RoleStudent, Active: false}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsInstructor(), "admins can manage content")
	assert.True(t, instructor.IsInstructor())
	assert.False(t, instructor.IsAdmin())
	assert.False(t, student.IsAdmin())
	assert.False(t, student.IsInstructor())
	assert.False(t, student.IsActive())
	assert.True(t, admin.IsActive())
}

func TestLessonTypeValid(t *testing.T) {
	assert.True(t, LessonVideo.Valid())
	assert.True(t, LessonText.Valid())
	assert.True(t, LessonQuiz.Valid())
	assert.True(t, LessonAssignment.Valid())
	assert.False(t, LessonType("webinar").Valid())
}
