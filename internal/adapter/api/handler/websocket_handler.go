package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/middleware"
	"tradepost/internal/infrastructure/ratelimit"
	ws "tradepost/internal/infrastructure/websocket"
	"tradepost/internal/usecase"
	"tradepost/pkg/logger"
)

type WebSocketHandler struct {
	hub         *ws.Hub
	verifier    middleware.TokenVerifier
	chatUseCase *usecase.ChatUseCase
	rateLimiter *ratelimit.RateLimiter
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(hub *ws.Hub, verifier middleware.TokenVerifier, chatUseCase *usecase.ChatUseCase, rateLimiter *ratelimit.RateLimiter) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		verifier:    verifier,
		chatUseCase: chatUseCase,
		rateLimiter: rateLimiter,
	}
}

// HandleWebSocket authenticates and upgrades the connection. Browsers
// cannot set headers on WebSocket requests, so the token is also
// accepted as a query parameter.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		authHeader := c.Request().Header.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
	}
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}

	userID, err := h.verifier.VerifyToken(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	}

	if allowed, retryAfter := h.rateLimiter.Allow(userID, "ws_connect"); !allowed {
		logger.Warn("WebSocket connect rate limited for user %s, retry after %v", userID, retryAfter)
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many connection attempts")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("Failed to upgrade WebSocket connection for user %s: %v", userID, err)
		return err
	}

	client := ws.NewClient(userID, conn, h.hub)
	client.Authorize = h.chatUseCase.AuthorizeThreadAccess
	client.Start()

	logger.Info("WebSocket client connected: %s", userID)

	return nil
}
