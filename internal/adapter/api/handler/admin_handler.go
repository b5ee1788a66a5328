package handler

import (
	"github.com/labstack/echo/v4"

	"tradepost/internal/usecase"
	"tradepost/pkg/response"
)

type AdminHandler struct {
	adminUseCase *usecase.AdminUseCase
}

func NewAdminHandler(adminUseCase *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

func (h *AdminHandler) GetDashboardStats(c echo.Context) error {
	stats, err := h.adminUseCase.Stats(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, stats)
}

func (h *AdminHandler) ListProfiles(c echo.Context) error {
	profiles, err := h.adminUseCase.ListProfiles(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profiles)
}

func (h *AdminHandler) ListListings(c echo.Context) error {
	listings, err := h.adminUseCase.ListListings(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

func (h *AdminHandler) DeleteListing(c echo.Context) error {
	id := c.Param("id")

	if err := h.adminUseCase.DeleteListing(c.Request().Context(), id); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"id": id, "status": "deleted"})
}
