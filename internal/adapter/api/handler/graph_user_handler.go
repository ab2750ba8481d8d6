package handler

import (
	"github.com/labstack/echo/v4"

	"fleamarkt/internal/domain/entity"
	"fleamarkt/internal/usecase"
	"fleamarkt/pkg/response"
	"fleamarkt/pkg/utils"
)

type GraphUserHandler struct {
	userUseCase *usecase.GraphUserUseCase
}

func NewGraphUserHandler(userUseCase *usecase.GraphUserUseCase) *GraphUserHandler {
	return &GraphUserHandler{
		userUseCase: userUseCase,
	}
}

type upsertGraphUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	FullName string `json:"full_name"`
	IsActive *bool  `json:"is_active"`
}

// Upsert merges on username; re-posting the same username overwrites the
// profile fields.
func (h *GraphUserHandler) Upsert(c echo.Context) error {
	var req upsertGraphUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	user, err := h.userUseCase.Upsert(c.Request().Context(), &entity.GraphUser{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		IsActive: isActive,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, user)
}

func (h *GraphUserHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	users, err := h.userUseCase.List(c.Request().Context(), pagination.Skip, pagination.Limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}

func (h *GraphUserHandler) GetByUsername(c echo.Context) error {
	user, err := h.userUseCase.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
