package handler

import (
	"github.com/labstack/echo/v4"

	"fleamarkt/internal/adapter/api/middleware"
	"fleamarkt/internal/usecase"
	"fleamarkt/pkg/response"
	"fleamarkt/pkg/utils"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
	authUseCase *usecase.AuthUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase, authUseCase *usecase.AuthUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		authUseCase: authUseCase,
	}
}

func (h *UserHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	users, total, err := h.userUseCase.List(c.Request().Context(), pagination.Skip, pagination.Limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, users, total, pagination.Skip, pagination.Limit)
}

// Create registers a user through the same path as auth/register but
// returns only the created record, no token.
func (h *UserHandler) Create(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result.User)
}

func (h *UserHandler) GetByID(c echo.Context) error {
	user, err := h.userUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) GetByUsername(c echo.Context) error {
	user, err := h.userUseCase.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) Me(c echo.Context) error {
	principal := middleware.CurrentPrincipal(c)
	user, err := h.userUseCase.GetByUsername(c.Request().Context(), principal.Username)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.userUseCase.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}
