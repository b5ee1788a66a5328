package handler

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/usecase"
	"tradepost/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type startChatRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}

// StartChat looks up or creates the thread between the caller and the
// listing's seller.
func (h *ChatHandler) StartChat(c echo.Context) error {
	var req startChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	buyerID := c.Get("uid").(string)

	thread, err := h.chatUseCase.StartThread(c.Request().Context(), buyerID, req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, thread)
}

func (h *ChatHandler) GetUserThreads(c echo.Context) error {
	userID := c.Get("uid").(string)

	threads, err := h.chatUseCase.ListThreads(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, threads)
}

func (h *ChatHandler) GetThreadMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	threadID := c.Param("id")

	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), userID, threadID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	userID := c.Get("uid").(string)
	threadID := c.Param("id")

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, threadID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}
