package handler

import (
	"github.com/labstack/echo/v4"

	"fleamarkt/internal/adapter/api/middleware"
	"fleamarkt/internal/usecase"
	"fleamarkt/pkg/response"
	"fleamarkt/pkg/utils"
)

type GraphProductHandler struct {
	productUseCase *usecase.GraphProductUseCase
}

func NewGraphProductHandler(productUseCase *usecase.GraphProductUseCase) *GraphProductHandler {
	return &GraphProductHandler{
		productUseCase: productUseCase,
	}
}

type createGraphProductRequest struct {
	Title       string  `json:"title" validate:"required,min=3,max=200"`
	Description string  `json:"description"`
	PriceAmount float64 `json:"price_amount" validate:"required,gt=0"`
}

type updateGraphProductRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string  `json:"description"`
	PriceAmount *float64 `json:"price_amount" validate:"omitempty,gt=0"`
}

func (h *GraphProductHandler) Create(c echo.Context) error {
	var req createGraphProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	principal := middleware.CurrentPrincipal(c)
	product, err := h.productUseCase.Create(c.Request().Context(), principal.Username, usecase.GraphProductCreate{
		Title:       req.Title,
		Description: req.Description,
		PriceAmount: req.PriceAmount,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, product)
}

func (h *GraphProductHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	products, err := h.productUseCase.List(c.Request().Context(), pagination.Skip, pagination.Limit, c.QueryParam("status"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, products)
}

func (h *GraphProductHandler) Popular(c echo.Context) error {
	limit := queryLimit(c, 10)
	products, err := h.productUseCase.Popular(c.Request().Context(), limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, products)
}

// Get returns the product and records the view. Authenticated callers
// leave a VIEWED edge; anonymous ones only move the counter.
func (h *GraphProductHandler) Get(c echo.Context) error {
	viewer := ""
	if principal := middleware.CurrentPrincipal(c); principal != nil {
		viewer = principal.Username
	}

	product, err := h.productUseCase.GetByID(c.Request().Context(), c.Param("id"), viewer)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

func (h *GraphProductHandler) Update(c echo.Context) error {
	var req updateGraphProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.PriceAmount != nil {
		fields["price_amount"] = *req.PriceAmount
	}

	principal := middleware.CurrentPrincipal(c)
	product, err := h.productUseCase.Update(c.Request().Context(), c.Param("id"), principal.Username, fields)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

func (h *GraphProductHandler) Delete(c echo.Context) error {
	principal := middleware.CurrentPrincipal(c)
	if err := h.productUseCase.Delete(c.Request().Context(), c.Param("id"), principal.Username); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

func (h *GraphProductHandler) Favorite(c echo.Context) error {
	principal := middleware.CurrentPrincipal(c)
	if err := h.productUseCase.Favorite(c.Request().Context(), c.Param("id"), principal.Username); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

// TrackView records an explicit view event without returning the product.
func (h *GraphProductHandler) TrackView(c echo.Context) error {
	viewer := ""
	if principal := middleware.CurrentPrincipal(c); principal != nil {
		viewer = principal.Username
	}
	if err := h.productUseCase.TrackView(c.Request().Context(), c.Param("id"), viewer); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

func (h *GraphProductHandler) MarkAsSold(c echo.Context) error {
	principal := middleware.CurrentPrincipal(c)
	if _, err := h.productUseCase.MarkAsSold(c.Request().Context(), c.Param("id"), principal.Username); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

func (h *GraphProductHandler) ToggleStatus(c echo.Context) error {
	principal := middleware.CurrentPrincipal(c)
	product, err := h.productUseCase.ToggleStatus(c.Request().Context(), c.Param("id"), principal.Username)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

func (h *GraphProductHandler) Recommendations(c echo.Context) error {
	limit := queryLimit(c, 10)
	recommendations, err := h.productUseCase.Recommendations(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, recommendations)
}
