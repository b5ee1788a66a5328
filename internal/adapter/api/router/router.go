package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

// Handlers bundles everything the routers need so Setup stays a single
// call from main.
type Handlers struct {
	Auth      *handler.AuthHandler
	Listing   *handler.ListingHandler
	Chat      *handler.ChatHandler
	Admin     *handler.AdminHandler
	WebSocket *handler.WebSocketHandler
	Health    *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupAuthRouter(e, h.Auth, authMiddleware)
	SetupListingRouter(e, h.Listing, authMiddleware)
	SetupChatRouter(e, h.Chat, authMiddleware)
	SetupAdminRouter(e, h.Admin, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
	SetupHealthRouter(e, h.Health)
}
