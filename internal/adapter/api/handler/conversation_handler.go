package handler

import (
	"github.com/labstack/echo/v4"

	"fleamarkt/internal/adapter/api/middleware"
	"fleamarkt/internal/usecase"
	"fleamarkt/pkg/response"
	"fleamarkt/pkg/utils"
)

type ConversationHandler struct {
	conversationUseCase *usecase.ConversationUseCase
}

func NewConversationHandler(conversationUseCase *usecase.ConversationUseCase) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
	}
}

type sendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

func (h *ConversationHandler) List(c echo.Context) error {
	principal := middleware.CurrentPrincipal(c)
	pagination := utils.GetPaginationParams(c)

	conversations, err := h.conversationUseCase.ListForUser(c.Request().Context(), principal.Username, pagination.Skip, pagination.Limit)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

func (h *ConversationHandler) Get(c echo.Context) error {
	principal := middleware.CurrentPrincipal(c)
	conversation, err := h.conversationUseCase.GetByID(c.Request().Context(), c.Param("id"), principal.Username)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversation)
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	principal := middleware.CurrentPrincipal(c)
	conversation, err := h.conversationUseCase.SendMessage(c.Request().Context(), c.Param("id"), principal.Username, req.Body)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, conversation)
}
