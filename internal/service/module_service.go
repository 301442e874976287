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

type moduleRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Module, error)
	List(ctx context.Context, skip, limit int) ([]models.Module, error)
	Count(ctx context.Context) (int, error)
	ListByCourse(ctx context.Context, courseID int64, skip, limit int) ([]models.Module, error)
	ListByCourseOrdered(ctx context.Context, courseID int64, skip, limit int) ([]models.Module, error)
	CountByCourse(ctx context.Context, courseID int64) (int, error)
	Create(ctx context.Context, module *models.Module) error
	Update(ctx context.Context, module *models.Module) error
	Delete(ctx context.Context, id int64) (*models.Module, error)
}

type courseFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// CreateModuleRequest captures fields for creating a module.
type CreateModuleRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"gte=0"`
	CourseID    int64  `json:"course_id" validate:"required,gt=0"`
}

// UpdateModuleRequest modifies module fields. The owning course of a module
// never changes after creation.
type UpdateModuleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
}

// ModuleService handles module domain workflows.
type ModuleService struct {
	repo      moduleRepository
	courses   courseFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewModuleService creates a new module service.
func NewModuleService(repo moduleRepository, courses courseFinder, validate *validator.Validate, logger *zap.Logger) *ModuleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModuleService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// List returns a page of modules. When courseID is set the result is scoped
// to that course; ordered additionally sorts by the authored position.
func (s *ModuleService) List(ctx context.Context, page, size int, courseID int64, ordered bool) ([]models.Module, *models.Pagination, error) {
	page, size = models.NormalizePage(page, size)
	skip := (page - 1) * size

	var (
		modules []models.Module
		total   int
		err     error
	)
	switch {
	case courseID > 0 && ordered:
		modules, err = s.repo.ListByCourseOrdered(ctx, courseID, skip, size)
		if err == nil {
			total, err = s.repo.CountByCourse(ctx, courseID)
		}
	case courseID > 0:
		modules, err = s.repo.ListByCourse(ctx, courseID, skip, size)
		if err == nil {
			total, err = s.repo.CountByCourse(ctx, courseID)
		}
	default:
		modules, err = s.repo.List(ctx, skip, size)
		if err == nil {
			total, err = s.repo.Count(ctx)
		}
	}
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}

	return modules, models.NewPagination(page, size, total), nil
}

// Get returns a module by identifier.
func (s *ModuleService) Get(ctx context.Context, id int64) (*models.Module, error) {
	module, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}
	return module, nil
}

// Create adds a new module after verifying the owning course exists.
func (s *ModuleService) Create(ctx context.Context, req CreateModuleRequest) (*models.Module, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course")
	}

	module := &models.Module{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		CourseID:    req.CourseID,
	}

	if err := s.repo.Create(ctx, module); err != nil {
		return nil, appErrors.FromError(err)
	}
	return module, nil
}

// Update applies the set fields of the payload onto an existing module.
func (s *ModuleService) Update(ctx context.Context, id int64, req UpdateModuleRequest) (*models.Module, error) {
	module, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
		}
		module.Title = *req.Title
	}
	if req.Description != nil {
		module.Description = *req.Description
	}
	if req.Order != nil {
		if *req.Order < 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "order must not be negative")
		}
		module.Order = *req.Order
	}

	if err := s.repo.Update(ctx, module); err != nil {
		return nil, appErrors.FromError(err)
	}
	return module, nil
}

// Delete removes a module and returns the deleted snapshot.
func (s *ModuleService) Delete(ctx context.Context, id int64) (*models.Module, error) {
	module, err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete module")
	}
	return module, nil
}
