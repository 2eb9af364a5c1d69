package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kantah-go/arsip-vital-api/internal/middleware"
	"github.com/kantah-go/arsip-vital-api/internal/models"
	"github.com/kantah-go/arsip-vital-api/internal/service"
)

type fakeAuthRepo struct {
	user    *models.User
	refresh map[string]*models.RefreshToken
	revoked int
}

func (f *fakeAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if f.user != nil && f.user.Username == username {
		u := *f.user
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.user != nil && f.user.ID == id {
		u := *f.user
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	return nil
}

func (f *fakeAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	f.user.PasswordHash = passwordHash
	return nil
}

func (f *fakeAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	f.revoked++
	return nil
}

func (f *fakeAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if f.refresh == nil {
		f.refresh = make(map[string]*models.RefreshToken)
	}
	f.refresh[token.Token] = token
	return nil
}

func (f *fakeAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.refresh[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	for _, t := range f.refresh {
		if t.ID == id {
			t.Revoked = true
			t.RevokedAt = &revokedAt
		}
	}
	return nil
}

func handlerTestUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		Username:     "petugas",
		PasswordHash: string(hash),
		FullName:     "Petugas Arsip",
		Role:         models.RoleStaff,
		Active:       true,
	}
}

func newAuthRouter(repo *fakeAuthRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewAuthService(repo, nil, nil, service.AuthConfig{
		AccessTokenSecret:  "unit-test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "arsip-vital-api",
	})
	h := NewAuthHandler(svc)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.GET("/auth/me", middleware.JWT(svc), h.Me)
	return r
}

func TestAuthLoginReturnsTokenPair(t *testing.T) {
	repo := &fakeAuthRepo{user: handlerTestUser(t, "rahasia123")}
	router := newAuthRouter(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"petugas","password":"rahasia123"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "petugas", resp.User.Username)
}

func TestAuthLoginWrongPassword(t *testing.T) {
	repo := &fakeAuthRepo{user: handlerTestUser(t, "rahasia123")}
	router := newAuthRouter(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"petugas","password":"salah"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "invalid username or password", env.Error.Message)
}

func TestAuthMeRequiresBearerToken(t *testing.T) {
	router := newAuthRouter(&fakeAuthRepo{user: handlerTestUser(t, "rahasia123")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMeWithValidToken(t *testing.T) {
	repo := &fakeAuthRepo{user: handlerTestUser(t, "rahasia123")}
	router := newAuthRouter(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"petugas","password":"rahasia123"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var meEnv envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meEnv))
	var info models.UserInfo
	require.NoError(t, json.Unmarshal(meEnv.Data, &info))
	assert.Equal(t, "user-1", info.ID)
	assert.Equal(t, models.RoleStaff, info.Role)
}

func TestAuthRefreshRotatesToken(t *testing.T) {
	repo := &fakeAuthRepo{user: handlerTestUser(t, "rahasia123")}
	router := newAuthRouter(repo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"username":"petugas","password":"rahasia123"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var login models.LoginResponse
	require.NoError(t, json.Unmarshal(env.Data, &login))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"`+login.RefreshToken+`"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var refreshEnv envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshEnv))
	var refreshed models.RefreshTokenResponse
	require.NoError(t, json.Unmarshal(refreshEnv.Data, &refreshed))
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// Replaying the consumed token must fail.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", strings.NewReader(`{"refresh_token":"`+login.RefreshToken+`"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
