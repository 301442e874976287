package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/courseware-api/internal/handler"
	"github.com/noah-isme/courseware-api/internal/models"
	"github.com/noah-isme/courseware-api/internal/service"
)

func TestRequireRolesAllows(t *testing.T) {
	w := runMiddleware(t, RequireRoles(models.RoleAdmin, models.RoleInstructor), func(c *gin.Context) {
		c.Set(handler.ContextKeyClaims, &models.JWTClaims{UserID: 1, Role: models.RoleInstructor})
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesRejects(t *testing.T) {
	w := runMiddleware(t, RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Set(handler.ContextKeyClaims, &models.JWTClaims{UserID: 1, Role: models.RoleStudent})
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	w := runMiddleware(t, RequireRoles(models.RoleAdmin), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type userRepoStub struct {
	users map[int64]*models.User
}

func (s *userRepoStub) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		copy := *user
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			copy := *user
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			copy := *user
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	return nil, nil
}

func (s *userRepoStub) Count(ctx context.Context) (int, error) { return len(s.users), nil }

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	copy := *user
	s.users[user.ID] = &copy
	return nil
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	copy := *user
	s.users[user.ID] = &copy
	return nil
}

func (s *userRepoStub) Delete(ctx context.Context, id int64) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(s.users, id)
	return user, nil
}

// newUserRouter mirrors the user route wiring of the server: the id-addressed
// endpoints require the admin role.
func newUserRouter(claims *models.JWTClaims, repo *userRepoStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	userHandler := handler.NewUserHandler(service.NewUserService(repo, nil, nil))
	authenticated := JWT(&staticValidator{claims: claims})
	adminOnly := RequireRoles(models.RoleAdmin)

	r := gin.New()
	users := r.Group("/users", authenticated)
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateMe)
	users.GET("/:id", adminOnly, userHandler.Get)
	users.PUT("/:id", adminOnly, userHandler.Update)
	users.DELETE("/:id", adminOnly, userHandler.Delete)
	return r
}

func serveJSON(t *testing.T, r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req, err := http.NewRequest(method, target, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer token")
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUserUpdateRouteRejectsSelfPromotion(t *testing.T) {
	repo := &userRepoStub{users: map[int64]*models.User{
		7: {ID: 7, Email: "student@example.com", Username: "student7", Role: models.RoleStudent, Active: true},
	}}
	r := newUserRouter(&models.JWTClaims{UserID: 7, Role: models.RoleStudent}, repo)

	w := serveJSON(t, r, http.MethodPut, "/users/7", `{"role":"admin"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.RoleStudent, repo.users[7].Role)
}

func TestUserGetRouteRejectsNonAdmin(t *testing.T) {
	repo := &userRepoStub{users: map[int64]*models.User{
		7: {ID: 7, Email: "student@example.com", Username: "student7", Role: models.RoleStudent, Active: true},
	}}
	r := newUserRouter(&models.JWTClaims{UserID: 7, Role: models.RoleStudent}, repo)

	w := serveJSON(t, r, http.MethodGet, "/users/7", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserUpdateRouteAllowsAdmin(t *testing.T) {
	repo := &userRepoStub{users: map[int64]*models.User{
		7: {ID: 7, Email: "student@example.com", Username: "student7", Role: models.RoleStudent, Active: true},
	}}
	r := newUserRouter(&models.JWTClaims{UserID: 1, Role: models.RoleAdmin}, repo)

	w := serveJSON(t, r, http.MethodPut, "/users/7", `{"role":"instructor"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.RoleInstructor, repo.users[7].Role)
}
