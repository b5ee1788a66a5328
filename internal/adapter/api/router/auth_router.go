package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware *middleware.AuthMiddleware) {
	auth := e.Group("/v1/auth")

	// Public endpoints
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.POST("/forgot-password", authHandler.ForgotPassword)

	// Authenticated endpoints
	authed := auth.Group("")
	authed.Use(authMiddleware.Authenticate)
	authed.GET("/session", authHandler.GetSession)
	authed.POST("/logout", authHandler.Logout)
	authed.PUT("/password", authHandler.UpdatePassword)
}
