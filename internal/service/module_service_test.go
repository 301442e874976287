package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/courseware-api/internal/models"
	appErrors "github.com/noah-isme/courseware-api/pkg/errors"
)

type mockModuleRepo struct {
	modules map[int64]*models.Module
	nextID  int64
}

func newMockModuleRepo(seed ...models.Module) *mockModuleRepo {
	m := &mockModuleRepo{modules: make(map[int64]*models.Module), nextID: 1}
	for i := range seed {
		module := seed[i]
		m.modules[module.ID] = &module
		if module.ID >= m.nextID {
			m.nextID = module.ID + 1
		}
	}
	return m
}

func (m *mockModuleRepo) FindByID(ctx context.Context, id int64) (*models.Module, error) {
	if module, ok := m.modules[id]; ok {
		copy := *module
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockModuleRepo) List(ctx context.Context, skip, limit int) ([]models.Module, error) {
	return m.window(skip, limit, 0, false), nil
}

func (m *mockModuleRepo) Count(ctx context.Context) (int, error) {
	return len(m.modules), nil
}

func (m *mockModuleRepo) ListByCourse(ctx context.Context, courseID int64, skip, limit int) ([]models.Module, error) {
	return m.window(skip, limit, courseID, false), nil
}

func (m *mockModuleRepo) ListByCourseOrdered(ctx context.Context, courseID int64, skip, limit int) ([]models.Module, error) {
	return m.window(skip, limit, courseID, true), nil
}

func (m *mockModuleRepo) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	total := 0
	for _, module := range m.modules {
		if module.CourseID == courseID {
			total++
		}
	}
	return total, nil
}

func (m *mockModuleRepo) Create(ctx context.Context, module *models.Module) error {
	module.ID = m.nextID
	m.nextID++
	copy := *module
	m.modules[module.ID] = &copy
	return nil
}

func (m *mockModuleRepo) Update(ctx context.Context, module *models.Module) error {
	copy := *module
	m.modules[module.ID] = &copy
	return nil
}

func (m *mockModuleRepo) Delete(ctx context.Context, id int64) (*models.Module, error) {
	module, ok := m.modules[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(m.modules, id)
	return module, nil
}

func (m *mockModuleRepo) window(skip, limit int, courseID int64, ordered bool) []models.Module {
	var all []models.Module
	for _, module := range m.modules {
		if courseID == 0 || module.CourseID == courseID {
			all = append(all, *module)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if ordered && all[i].Order != all[j].Order {
			return all[i].Order < all[j].Order
		}
		return all[i].ID < all[j].ID
	})
	if skip >= len(all) {
		return nil
	}
	all = all[skip:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all
}

func newModuleService(repo *mockModuleRepo, courses *mockCourseRepo) *ModuleService {
	if courses == nil {
		courses = newMockCourseRepo()
	}
	return NewModuleService(repo, courses, validator.New(), zap.NewNop())
}

func TestModuleServiceCreate(t *testing.T) {
	courses := newMockCourseRepo(models.Course{ID: 1, Title: "Go Basics", Active: true})
	svc := newModuleService(newMockModuleRepo(), courses)

	module, err := svc.Create(context.Background(), CreateModuleRequest{Title: "Week 1", Order: 1, CourseID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), module.ID)
	assert.Equal(t, int64(1), module.CourseID)
}

func TestModuleServiceCreateOrphaned(t *testing.T) {
	svc := newModuleService(newMockModuleRepo(), newMockCourseRepo())

	_, err := svc.Create(context.Background(), CreateModuleRequest{Title: "Week 1", CourseID: 404})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestModuleServiceListOrdered(t *testing.T) {
	repo := newMockModuleRepo(
		models.Module{ID: 1, Title: "Second", Order: 2, CourseID: 1},
		models.Module{ID: 2, Title: "First", Order: 1, CourseID: 1},
		models.Module{ID: 3, Title: "Other course", Order: 1, CourseID: 2},
	)
	svc := newModuleService(repo, nil)

	modules, pagination, err := svc.List(context.Background(), 1, 10, 1, true)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "First", modules[0].Title)
	assert.Equal(t, "Second", modules[1].Title)
	assert.Equal(t, 2, pagination.TotalCount)
}

func TestModuleServiceListUnscoped(t *testing.T) {
	repo := newMockModuleRepo(
		models.Module{ID: 1, Title: "A", CourseID: 1},
		models.Module{ID: 2, Title: "B", CourseID: 2},
	)
	svc := newModuleService(repo, nil)

	modules, pagination, err := svc.List(context.Background(), 1, 10, 0, false)
	require.NoError(t, err)
	assert.Len(t, modules, 2)
	assert.Equal(t, 2, pagination.TotalCount)
}

func TestModuleServiceUpdatePartialKeepsCourse(t *testing.T) {
	repo := newMockModuleRepo(models.Module{ID: 1, Title: "Week 1", Order: 1, CourseID: 5})
	svc := newModuleService(repo, nil)

	order := 9
	module, err := svc.Update(context.Background(), 1, UpdateModuleRequest{Order: &order})
	require.NoError(t, err)
	assert.Equal(t, "Week 1", module.Title)
	assert.Equal(t, 9, module.Order)
	assert.Equal(t, int64(5), module.CourseID)
}

func TestModuleServiceDeleteReturnsSnapshot(t *testing.T) {
	repo := newMockModuleRepo(models.Module{ID: 1, Title: "Week 1", CourseID: 1})
	svc := newModuleService(repo, nil)

	module, err := svc.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Week 1", module.Title)

	_, err = svc.Get(context.Background(), 1)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
