package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"fleamarkt/internal/adapter/api/middleware"
	"fleamarkt/internal/domain/repository"
	"fleamarkt/internal/usecase"
	"fleamarkt/pkg/response"
	"fleamarkt/pkg/utils"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type createProductRequest struct {
	Title         string   `json:"title" validate:"required,min=3,max=200"`
	Description   string   `json:"description"`
	PriceAmount   float64  `json:"price_amount" validate:"required,gt=0"`
	PriceCurrency string   `json:"price_currency"`
	Condition     string   `json:"product_condition" validate:"omitempty,oneof=new like_new good fair poor"`
	CategoryID    string   `json:"category_id"`
	Colors        []string `json:"colors"`
	Materials     []string `json:"materials"`
	Tags          []string `json:"tags"`
}

type updateProductRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string  `json:"description"`
	PriceAmount *float64 `json:"price_amount" validate:"omitempty,gt=0"`
	Status      *string  `json:"status" validate:"omitempty,oneof=active paused sold"`
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	principal := middleware.CurrentPrincipal(c)
	product, err := h.productUseCase.Create(c.Request().Context(), principal.Username, repository.ProductCreate{
		Title:         req.Title,
		Description:   req.Description,
		PriceAmount:   req.PriceAmount,
		PriceCurrency: req.PriceCurrency,
		Condition:     req.Condition,
		CategoryID:    req.CategoryID,
		Colors:        req.Colors,
		Materials:     req.Materials,
		Tags:          req.Tags,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, product)
}

func (h *ProductHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	filter := repository.ProductFilter{
		Status:     c.QueryParam("status"),
		SellerID:   c.QueryParam("seller_id"),
		CategoryID: c.QueryParam("category_id"),
	}

	products, err := h.productUseCase.List(c.Request().Context(), filter, pagination.Skip, pagination.Limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, products)
}

func (h *ProductHandler) Search(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	products, err := h.productUseCase.Search(c.Request().Context(), c.QueryParam("q"), pagination.Skip, pagination.Limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, products)
}

func (h *ProductHandler) Filter(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	filter := repository.SearchFilter{
		Text:           c.QueryParam("title"),
		Status:         c.QueryParam("status"),
		SellerUsername: c.QueryParam("seller_username"),
		Tag:            c.QueryParam("tag"),
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}

	products, err := h.productUseCase.Filter(c.Request().Context(), filter, pagination.Skip, pagination.Limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, products)
}

func (h *ProductHandler) Popular(c echo.Context) error {
	limit := queryLimit(c, 10)
	products, err := h.productUseCase.Popular(c.Request().Context(), limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, products)
}

func (h *ProductHandler) TopCategories(c echo.Context) error {
	limit := queryLimit(c, 10)
	categories, err := h.productUseCase.TopCategories(c.Request().Context(), limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, categories)
}

func (h *ProductHandler) Get(c echo.Context) error {
	product, err := h.productUseCase.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	var req updateProductRequest
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
	if req.Status != nil {
		fields["status"] = *req.Status
	}

	principal := middleware.CurrentPrincipal(c)
	product, err := h.productUseCase.Update(c.Request().Context(), c.Param("id"), principal.Username, fields)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, product)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	principal := middleware.CurrentPrincipal(c)
	if err := h.productUseCase.Delete(c.Request().Context(), c.Param("id"), principal.Username); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

func (h *ProductHandler) Favorite(c echo.Context) error {
	principal := middleware.CurrentPrincipal(c)
	if err := h.productUseCase.Favorite(c.Request().Context(), c.Param("id"), principal.Username); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

func (h *ProductHandler) Unfavorite(c echo.Context) error {
	principal := middleware.CurrentPrincipal(c)
	if err := h.productUseCase.Unfavorite(c.Request().Context(), c.Param("id"), principal.Username); err != nil {
		return response.Error(c, err)
	}
	return response.NoContent(c)
}

func queryLimit(c echo.Context, fallback int) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		return fallback
	}
	return limit
}
