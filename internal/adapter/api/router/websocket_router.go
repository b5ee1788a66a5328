package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
)

// SetupWebSocketRouter registers the realtime endpoint. Authentication
// happens inside the handler because the token may arrive as a query
// parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/v1/ws", wsHandler.HandleWebSocket)
}
