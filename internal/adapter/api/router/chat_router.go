package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.StartChat)
	chats.GET("", chatHandler.GetUserThreads)
	chats.GET("/:id/messages", chatHandler.GetThreadMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
}
