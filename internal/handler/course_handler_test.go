package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/courseware-api/internal/models"
	"github.com/noah-isme/courseware-api/internal/service"
	"github.com/noah-isme/courseware-api/pkg/response"
)

type courseRepoStub struct {
	courses map[int64]*models.Course
	nextID  int64
}

func newCourseRepoStub(seed ...models.Course) *courseRepoStub {
	s := &courseRepoStub{courses: make(map[int64]*models.Course), nextID: 1}
	for i := range seed {
		course := seed[i]
		s.courses[course.ID] = &course
		if course.ID >= s.nextID {
			s.nextID = course.ID + 1
		}
	}
	return s
}

func (s *courseRepoStub) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	if course, ok := s.courses[id]; ok {
		copy := *course
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) FindByTitle(ctx context.Context, title string) (*models.Course, error) {
	for _, course := range s.courses {
		if course.Title == title {
			copy := *course
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *courseRepoStub) List(ctx context.Context, skip, limit int) ([]models.Course, error) {
	var all []models.Course
	for id := int64(1); id < s.nextID; id++ {
		if course, ok := s.courses[id]; ok {
			all = append(all, *course)
		}
	}
	return all, nil
}

func (s *courseRepoStub) Count(ctx context.Context) (int, error) { return len(s.courses), nil }

func (s *courseRepoStub) ListActive(ctx context.Context, skip, limit int) ([]models.Course, error) {
	var active []models.Course
	for id := int64(1); id < s.nextID; id++ {
		if course, ok := s.courses[id]; ok && course.Active {
			active = append(active, *course)
		}
	}
	return active, nil
}

func (s *courseRepoStub) CountActive(ctx context.Context) (int, error) {
	total := 0
	for _, course := range s.courses {
		if course.Active {
			total++
		}
	}
	return total, nil
}

func (s *courseRepoStub) Create(ctx context.Context, course *models.Course) error {
	course.ID = s.nextID
	s.nextID++
	copy := *course
	s.courses[course.ID] = &copy
	return nil
}

func (s *courseRepoStub) Update(ctx context.Context, course *models.Course) error {
	copy := *course
	s.courses[course.ID] = &copy
	return nil
}

func (s *courseRepoStub) Delete(ctx context.Context, id int64) (*models.Course, error) {
	course, ok := s.courses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(s.courses, id)
	return course, nil
}

func newCourseHandler(repo *courseRepoStub) *CourseHandler {
	svc := service.NewCourseService(repo, nil, nil, nil)
	return NewCourseHandler(svc, nil)
}

func testContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestCourseHandlerList(t *testing.T) {
	handler := newCourseHandler(newCourseRepoStub(
		models.Course{ID: 1, Title: "A", Active: true},
		models.Course{ID: 2, Title: "B", Active: false},
	))
	c, w := testContext(t, http.MethodGet, "/courses?page=1&limit=10", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 2, envelope.Pagination.TotalCount)
}

func TestCourseHandlerListActiveOnly(t *testing.T) {
	handler := newCourseHandler(newCourseRepoStub(
		models.Course{ID: 1, Title: "A", Active: true},
		models.Course{ID: 2, Title: "B", Active: false},
	))
	c, w := testContext(t, http.MethodGet, "/courses?active_only=true", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestCourseHandlerGetInvalidID(t *testing.T) {
	handler := newCourseHandler(newCourseRepoStub())
	c, w := testContext(t, http.MethodGet, "/courses/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	handler.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerGetMissing(t *testing.T) {
	handler := newCourseHandler(newCourseRepoStub())
	c, w := testContext(t, http.MethodGet, "/courses/42", nil)
	c.Params = gin.Params{{Key: "id", Value: "42"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseHandlerCreate(t *testing.T) {
	handler := newCourseHandler(newCourseRepoStub())
	body, _ := json.Marshal(service.CreateCourseRequest{Title: "Go Basics"})
	c, w := testContext(t, http.MethodPost, "/courses", body)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, int64(1), envelope.Data.ID)
	assert.True(t, envelope.Data.Active)
}

func TestCourseHandlerCreateInvalidBody(t *testing.T) {
	handler := newCourseHandler(newCourseRepoStub())
	c, w := testContext(t, http.MethodPost, "/courses", []byte(`not json`))

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseHandlerCreateDuplicate(t *testing.T) {
	handler := newCourseHandler(newCourseRepoStub(models.Course{ID: 1, Title: "Go Basics", Active: true}))
	body, _ := json.Marshal(service.CreateCourseRequest{Title: "Go Basics"})
	c, w := testContext(t, http.MethodPost, "/courses", body)

	handler.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCourseHandlerDeleteReturnsSnapshot(t *testing.T) {
	handler := newCourseHandler(newCourseRepoStub(models.Course{ID: 1, Title: "Go Basics", Active: true}))
	c, w := testContext(t, http.MethodDelete, "/courses/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	handler.Delete(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.Course `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Go Basics", envelope.Data.Title)
}
