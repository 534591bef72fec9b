package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akshat/notestack/internal/app/models"
	"github.com/akshat/notestack/internal/pkg/apperrors"
	"github.com/akshat/notestack/internal/pkg/auth"
)

type fakeUserResolver struct {
	users map[int64]*models.User
}

func (f *fakeUserResolver) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func setupAuthTest(t *testing.T) (*gin.Engine, *auth.JWTService, *fakeUserResolver) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "test",
	})
	resolver := &fakeUserResolver{users: map[int64]*models.User{}}
	mw := NewAuthMiddleware(jwtService, resolver)

	router := gin.New()
	router.GET("/protected", mw.JWTAuth(), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"name": user.Name})
	})
	router.GET("/admin", mw.JWTAuth(), mw.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, jwtService, resolver
}

func doGet(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	router, _, _ := setupAuthTest(t)
	w := doGet(router, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_MalformedHeader(t *testing.T) {
	router, _, _ := setupAuthTest(t)
	w := doGet(router, "/protected", "Token abc")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_InvalidToken(t *testing.T) {
	router, _, _ := setupAuthTest(t)
	w := doGet(router, "/protected", "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_UnknownUser(t *testing.T) {
	router, jwtService, _ := setupAuthTest(t)

	token, _, err := jwtService.GenerateToken(404)
	require.NoError(t, err)

	w := doGet(router, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_ValidToken(t *testing.T) {
	router, jwtService, resolver := setupAuthTest(t)
	resolver.users[7] = &models.User{ID: 7, Name: "Asha", Role: models.RoleStudent}

	token, _, err := jwtService.GenerateToken(7)
	require.NoError(t, err)

	w := doGet(router, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asha")
}

func TestAdminRequired(t *testing.T) {
	router, jwtService, resolver := setupAuthTest(t)
	resolver.users[7] = &models.User{ID: 7, Role: models.RoleStudent}
	resolver.users[1] = &models.User{ID: 1, Role: models.RoleAdmin}

	studentToken, _, err := jwtService.GenerateToken(7)
	require.NoError(t, err)
	adminToken, _, err := jwtService.GenerateToken(1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, doGet(router, "/admin", "Bearer "+studentToken).Code)
	assert.Equal(t, http.StatusOK, doGet(router, "/admin", "Bearer "+adminToken).Code)
}
