package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/courseware-api/internal/models"
	appErrors "github.com/noah-isme/courseware-api/pkg/errors"
)

type lessonRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Lesson, error)
	List(ctx context.Context, skip, limit int) ([]models.Lesson, error)
	Count(ctx context.Context) (int, error)
	ListByModule(ctx context.Context, moduleID int64, skip, limit int) ([]models.Lesson, error)
	ListByModuleOrdered(ctx context.Context, moduleID int64, skip, limit int) ([]models.Lesson, error)
	ListByType(ctx context.Context, lessonType models.LessonType, skip, limit int) ([]models.Lesson, error)
	CountByModule(ctx context.Context, moduleID int64) (int, error)
	CountByType(ctx context.Context, lessonType models.LessonType) (int, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id int64) (*models.Lesson, error)
}

type moduleFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Module, error)
}

// CreateLessonRequest captures fields for creating a lesson.
type CreateLessonRequest struct {
	Title    string            `json:"title" validate:"required"`
	Content  string            `json:"content"`
	Type     models.LessonType `json:"type" validate:"required"`
	Order    int               `json:"order" validate:"gte=0"`
	ModuleID int64             `json:"module_id" validate:"required,gt=0"`
}

// UpdateLessonRequest modifies lesson fields. The owning module of a lesson
// never changes after creation.
type UpdateLessonRequest struct {
	Title   *string            `json:"title"`
	Content *string            `json:"content"`
	Type    *models.LessonType `json:"type"`
	Order   *int               `json:"order"`
}

// LessonService handles lesson domain workflows.
type LessonService struct {
	repo      lessonRepository
	modules   moduleFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService creates a new lesson service.
func NewLessonService(repo lessonRepository, modules moduleFinder, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{repo: repo, modules: modules, validator: validate, logger: logger}
}

// List returns a page of lessons. ModuleID scopes to a module (optionally in
// authored order); lessonType filters by content type. The two filters are
// mutually exclusive, module scope winning when both are given.
func (s *LessonService) List(ctx context.Context, page, size int, moduleID int64, lessonType models.LessonType, ordered bool) ([]models.Lesson, *models.Pagination, error) {
	page, size = models.NormalizePage(page, size)
	skip := (page - 1) * size

	var (
		lessons []models.Lesson
		total   int
		err     error
	)
	switch {
	case moduleID > 0 && ordered:
		lessons, err = s.repo.ListByModuleOrdered(ctx, moduleID, skip, size)
		if err == nil {
			total, err = s.repo.CountByModule(ctx, moduleID)
		}
	case moduleID > 0:
		lessons, err = s.repo.ListByModule(ctx, moduleID, skip, size)
		if err == nil {
			total, err = s.repo.CountByModule(ctx, moduleID)
		}
	case lessonType != "":
		if !lessonType.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown lesson type")
		}
		lessons, err = s.repo.ListByType(ctx, lessonType, skip, size)
		if err == nil {
			total, err = s.repo.CountByType(ctx, lessonType)
		}
	default:
		lessons, err = s.repo.List(ctx, skip, size)
		if err == nil {
			total, err = s.repo.Count(ctx)
		}
	}
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}

	return lessons, models.NewPagination(page, size, total), nil
}

// Get returns a lesson by identifier.
func (s *LessonService) Get(ctx context.Context, id int64) (*models.Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return lesson, nil
}

// Create adds a new lesson after verifying the owning module exists.
func (s *LessonService) Create(ctx context.Context, req CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown lesson type")
	}

	if _, err := s.modules.FindByID(ctx, req.ModuleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check module")
	}

	lesson := &models.Lesson{
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		Order:    req.Order,
		ModuleID: req.ModuleID,
	}

	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, appErrors.FromError(err)
	}
	return lesson, nil
}

// Update applies the set fields of the payload onto an existing lesson.
func (s *LessonService) Update(ctx context.Context, id int64, req UpdateLessonRequest) (*models.Lesson, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
		}
		lesson.Title = *req.Title
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown lesson type")
		}
		lesson.Type = *req.Type
	}
	if req.Order != nil {
		if *req.Order < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "order must not be negative")
		}
		lesson.Order = *req.Order
	}

	if err := s.repo.Update(ctx, lesson); err != nil {
		return nil, appErrors.FromError(err)
	}
	return lesson, nil
}

// Delete removes a lesson and returns the deleted snapshot.
func (s *LessonService) Delete(ctx context.Context, id int64) (*models.Lesson, error) {
	lesson, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete lesson")
	}
	return lesson, nil
}
