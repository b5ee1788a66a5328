package router

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/adapter/api/handler"
	"tradepost/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, listingHandler *handler.ListingHandler, authMiddleware *middleware.AuthMiddleware) {
	// Browsing is public
	e.GET("/v1/listings", listingHandler.ListListings)
	e.GET("/v1/listings/:id", listingHandler.GetListing)

	// Creating and owning listings requires authentication
	authed := e.Group("/v1", authMiddleware.Authenticate)
	authed.POST("/listings", listingHandler.CreateListing)
	authed.GET("/my-listings", listingHandler.ListMyListings)
}
