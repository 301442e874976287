package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/courseware-api/internal/models"
	appErrors "github.com/noah-isme/courseware-api/pkg/errors"
	"github.com/noah-isme/courseware-api/pkg/export"
)

type outlineModuleLister interface {
	ListByCourseOrdered(ctx context.Context, courseID int64, skip, limit int) ([]models.Module, error)
}

type outlineLessonLister interface {
	ListByModuleOrdered(ctx context.Context, moduleID int64, skip, limit int) ([]models.Lesson, error)
}

// ExportService renders course outlines as downloadable documents.
type ExportService struct {
	courses courseFinder
	modules outlineModuleLister
	lessons outlineLessonLister
	logger  *zap.Logger
}

// NewExportService creates a new export service.
func NewExportService(courses courseFinder, modules outlineModuleLister, lessons outlineLessonLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{courses: courses, modules: modules, lessons: lessons, logger: logger}
}

// outlineWindow caps how many modules or lessons a single outline includes.
const outlineWindow = 1000

// CourseOutline renders the full module and lesson listing of a course in
// the requested format. It returns the document bytes, content type and a
// suggested file name.
func (s *ExportService) CourseOutline(ctx context.Context, courseID int64, format string) ([]byte, string, string, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	table, err := s.buildOutline(ctx, course)
	if err != nil {
		return nil, "", "", err
	}

	switch format {
	case "csv":
		data, err := export.CSV(*table)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return data, "text/csv", fmt.Sprintf("course-%d-outline.csv", courseID), nil
	case "pdf":
		data, err := export.PDF(*table)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return data, "application/pdf", fmt.Sprintf("course-%d-outline.pdf", courseID), nil
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *ExportService) buildOutline(ctx context.Context, course *models.Course) (*export.Table, error) {
	table := &export.Table{
		Title:   fmt.Sprintf("Course Outline: %s", course.Title),
		Columns: []string{"Module", "Module Title", "Lesson", "Lesson Title", "Type"},
	}

	modules, err := s.modules.ListByCourseOrdered(ctx, course.ID, 0, outlineWindow)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}

	for _, module := range modules {
		lessons, err := s.lessons.ListByModuleOrdered(ctx, module.ID, 0, outlineWindow)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
		}
		if len(lessons) == 0 {
			table.Rows = append(table.Rows, []string{
				strconv.Itoa(module.Order), module.Title, "", "", "",
			})
			continue
		}
		for _, lesson := range lessons {
			table.Rows = append(table.Rows, []string{
				strconv.Itoa(module.Order), module.Title,
				strconv.Itoa(lesson.Order), lesson.Title, string(lesson.Type),
			})
		}
	}

	return table, nil
}
