package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"fleamarkt/internal/domain/repository"
	"fleamarkt/internal/domain/service"
	"fleamarkt/pkg/errors"
	"fleamarkt/pkg/logger"
	"fleamarkt/pkg/response"
)

const principalKey = "principal"

type AuthMiddleware struct {
	auth     *service.AuthService
	userRepo repository.UserRepository
}

func NewAuthMiddleware(auth *service.AuthService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		auth:     auth,
		userRepo: userRepo,
	}
}

// Authenticate requires a valid bearer token and attaches the resolved
// principal to the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}

		principal, err := m.resolvePrincipal(c, token)
		if err != nil {
			return response.Error(c, err)
		}
		if !principal.IsActive {
			return response.Error(c, errors.BadRequest("Inactive user account", nil))
		}

		c.Set(principalKey, principal)
		return next(c)
	}
}

// OptionalAuthenticate attaches a principal when a valid bearer token is
// present and lets the request through anonymously otherwise.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := bearerToken(c)
		if err != nil {
			return next(c)
		}
		principal, err := m.resolvePrincipal(c, token)
		if err == nil && principal.IsActive {
			c.Set(principalKey, principal)
		}
		return next(c)
	}
}

// RequireAdmin must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal := CurrentPrincipal(c)
		if principal == nil || !principal.IsAdmin {
			return response.Error(c, errors.Forbidden("Admin access required", nil))
		}
		return next(c)
	}
}

// resolvePrincipal verifies the token and enriches the subject from the
// document store. When the store is unreachable or the record is missing,
// the request proceeds with a minimal principal derived from the token
// alone rather than failing authentication.
func (m *AuthMiddleware) resolvePrincipal(c echo.Context, token string) (*service.Principal, error) {
	username, err := m.auth.VerifyToken(token)
	if err != nil {
		return nil, err
	}

	user, err := m.userRepo.GetByUsername(c.Request().Context(), username)
	if err != nil {
		if !errors.Is(err, "NOT_FOUND") {
			logger.Warn("Principal enrichment failed for %s: %v", username, err)
		}
		return &service.Principal{
			Username: username,
			IsActive: true,
			IsAdmin:  false,
		}, nil
	}

	return &service.Principal{
		Username: user.Username,
		IsActive: user.IsActive,
		IsAdmin:  user.IsAdmin,
	}, nil
}

// CurrentPrincipal returns the authenticated principal, or nil for
// anonymous requests.
func CurrentPrincipal(c echo.Context) *service.Principal {
	principal, _ := c.Get(principalKey).(*service.Principal)
	return principal
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", errors.Unauthorized("Authorization header is required", nil)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}
	return parts[1], nil
}
