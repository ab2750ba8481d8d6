package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/domain/service"
	"fleamarkt/pkg/errors"
)

// stubUserRepo implements just the lookup the middleware needs; the rest
// of the interface is unused here.
type stubUserRepo struct {
	user *entity.User
	err  error
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user != nil && s.user.Username == username {
		return s.user, nil
	}
	return nil, errors.NotFound("User", nil)
}

func (s *stubUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return nil, errors.NotFound("User", nil)
}
func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, errors.NotFound("User", nil)
}
func (s *stubUserRepo) List(ctx context.Context, skip, limit int) ([]*entity.User, int64, error) {
	return nil, 0, nil
}
func (s *stubUserRepo) Update(ctx context.Context, id string, fields map[string]interface{}) (*entity.User, error) {
	return nil, errors.NotFound("User", nil)
}
func (s *stubUserRepo) Delete(ctx context.Context, id string) (bool, error) { return false, nil }
func (s *stubUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) AdjustProductCount(ctx context.Context, id string, delta int) error {
	return nil
}
func (s *stubUserRepo) AddFavorite(ctx context.Context, userID, productID string) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) RemoveFavorite(ctx context.Context, userID, productID string) (bool, error) {
	return false, nil
}

func invoke(t *testing.T, m *AuthMiddleware, token string) (*service.Principal, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var captured *service.Principal
	handler := m.Authenticate(func(c echo.Context) error {
		captured = CurrentPrincipal(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return captured, rec
}

func TestAuthenticateMissingHeader(t *testing.T) {
	auth := service.NewAuthService("secret", 3600)
	m := NewAuthMiddleware(auth, &stubUserRepo{})

	_, rec := invoke(t, m, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateBadToken(t *testing.T) {
	auth := service.NewAuthService("secret", 3600)
	m := NewAuthMiddleware(auth, &stubUserRepo{})

	_, rec := invoke(t, m, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateEnrichesFromStore(t *testing.T) {
	auth := service.NewAuthService("secret", 3600)
	repo := &stubUserRepo{user: &entity.User{Username: "alice", IsActive: true, IsAdmin: true}}
	m := NewAuthMiddleware(auth, repo)

	token, err := auth.CreateAccessToken("alice")
	require.NoError(t, err)

	principal, rec := invoke(t, m, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, "alice", principal.Username)
	assert.True(t, principal.IsAdmin)
}

// A valid token must keep working when the enrichment store is down; the
// request proceeds with a minimal non-admin principal.
func TestAuthenticateFallsBackWhenStoreFails(t *testing.T) {
	auth := service.NewAuthService("secret", 3600)
	repo := &stubUserRepo{err: errors.Internal("store down", nil)}
	m := NewAuthMiddleware(auth, repo)

	token, err := auth.CreateAccessToken("alice")
	require.NoError(t, err)

	principal, rec := invoke(t, m, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, "alice", principal.Username)
	assert.True(t, principal.IsActive)
	assert.False(t, principal.IsAdmin)
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	auth := service.NewAuthService("secret", 3600)
	repo := &stubUserRepo{user: &entity.User{Username: "alice", IsActive: false}}
	m := NewAuthMiddleware(auth, repo)

	token, err := auth.CreateAccessToken("alice")
	require.NoError(t, err)

	_, rec := invoke(t, m, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	auth := service.NewAuthService("secret", 3600)
	m := NewAuthMiddleware(auth, &stubUserRepo{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/users/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("principal", &service.Principal{Username: "bob", IsActive: true})

	handler := m.RequireAdmin(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("principal", &service.Principal{Username: "root", IsActive: true, IsAdmin: true})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
