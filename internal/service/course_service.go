package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/courseware-api/internal/models"
	appErrors "github.com/noah-isme/courseware-api/pkg/errors"
)

type courseRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindByTitle(ctx context.Context, title string) (*models.Course, error)
	List(ctx context.Context, skip, limit int) ([]models.Course, error)
	Count(ctx context.Context) (int, error)
	ListActive(ctx context.Context, skip, limit int) ([]models.Course, error)
	CountActive(ctx context.Context) (int, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) (*models.Course, error)
}

// CreateCourseRequest captures fields for creating a course.
type CreateCourseRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// UpdateCourseRequest modifies course fields. Only fields present in the
// payload are applied; absent fields keep their stored values.
type UpdateCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// CourseService handles course domain workflows.
type CourseService struct {
	repo      courseRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a new course service.
func NewCourseService(repo courseRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns a page of courses, optionally restricted to active ones.
func (s *CourseService) List(ctx context.Context, page, size int, activeOnly bool) ([]models.Course, *models.Pagination, error) {
	page, size = models.NormalizePage(page, size)
	skip := (page - 1) * size

	var (
		courses []models.Course
		total   int
		err     error
	)
	if activeOnly {
		courses, err = s.repo.ListActive(ctx, skip, size)
		if err == nil {
			total, err = s.repo.CountActive(ctx)
		}
	} else {
		courses, err = s.repo.List(ctx, skip, size)
		if err == nil {
			total, err = s.repo.Count(ctx)
		}
	}
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	return courses, models.NewPagination(page, size, total), nil
}

// Get returns a course by identifier, consulting the cache first.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	cacheKey := courseCacheKey(id)
	var cached models.Course
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if err := s.cache.Set(ctx, cacheKey, course, 0); err != nil {
		s.logger.Warn("failed to cache course", zap.Int64("course_id", id), zap.Error(err))
	}
	return course, nil
}

// Create adds a new course ensuring title uniqueness.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	req.Title = strings.TrimSpace(req.Title)

	if _, err := s.repo.FindByTitle(ctx, req.Title); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course with this title already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course title")
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Active:      active,
	}

	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.invalidate(ctx)
	return course, nil
}

// Update applies the set fields of the payload onto an existing course.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
		}
		if title != course.Title {
			if _, err := s.repo.FindByTitle(ctx, title); err == nil {
				return nil, appErrors.Clone(appErrors.ErrConflict, "course with this title already exists")
			} else if !errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course title")
			}
		}
		course.Title = title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Active != nil {
		course.Active = *req.Active
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.invalidate(ctx)
	return course, nil
}

// Delete removes a course and returns the deleted snapshot. Owned modules
// and their lessons are removed by the store's cascade rule.
func (s *CourseService) Delete(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}

	s.invalidate(ctx)
	return course, nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "courses:*"); err != nil {
		s.logger.Warn("failed to invalidate course cache", zap.Error(err))
	}
}

func courseCacheKey(id int64) string {
	return fmt.Sprintf("courses:id:%d", id)
}
