package handler

import (
	"github.com/labstack/echo/v4"

	"fleamarkt/internal/usecase"
	"fleamarkt/pkg/response"
)

type GraphAuthHandler struct {
	authUseCase *usecase.GraphAuthUseCase
}

func NewGraphAuthHandler(authUseCase *usecase.GraphAuthUseCase) *GraphAuthHandler {
	return &GraphAuthHandler{
		authUseCase: authUseCase,
	}
}

func (h *GraphAuthHandler) Register(c echo.Context) error {
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
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, result)
}

func (h *GraphAuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}
