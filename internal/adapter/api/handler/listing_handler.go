package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"tradepost/internal/domain/entity"
	"tradepost/internal/usecase"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
	"tradepost/pkg/response"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

// ListListings returns the full filtered result set. Query errors are
// logged and degraded to an empty list.
func (h *ListingHandler) ListListings(c echo.Context) error {
	category := c.QueryParam("category")

	listings, err := h.listingUseCase.ListListings(c.Request().Context(), category)
	if err != nil {
		if errors.Is(err, "BAD_REQUEST") {
			return response.Error(c, err)
		}
		logger.Error("Failed to fetch listings (category=%q): %v", category, err)
		listings = nil
	}

	if listings == nil {
		listings = []*entity.Listing{}
	}

	return response.Success(c, listings)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	id := c.Param("id")

	detail, err := h.listingUseCase.GetListing(c.Request().Context(), id)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

// CreateListing handles the composer submission: multipart form fields
// plus image files, uploaded in form order.
func (h *ListingHandler) CreateListing(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	title := c.FormValue("title")
	description := c.FormValue("description")
	category := c.FormValue("category")

	if title == "" || description == "" || category == "" {
		return response.Error(c, errors.BadRequest("Title, description and category are required", nil))
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return response.Error(c, errors.BadRequest("Price must be a number", err))
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Invalid multipart form", err))
	}

	var images []usecase.ImageUpload
	for _, fileHeader := range form.File["images"] {
		src, err := fileHeader.Open()
		if err != nil {
			return response.Error(c, errors.Internal("Unable to read uploaded file", err))
		}
		defer src.Close()

		images = append(images, usecase.ImageUpload{
			Reader:      src,
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
		})
	}

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), sellerID, usecase.CreateListingInput{
		Title:       title,
		Description: description,
		Price:       price,
		Category:    category,
	}, images)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) ListMyListings(c echo.Context) error {
	sellerID := c.Get("uid").(string)

	listings, err := h.listingUseCase.ListBySeller(c.Request().Context(), sellerID)
	if err != nil {
		return response.Error(c, err)
	}

	if listings == nil {
		listings = []*entity.Listing{}
	}

	return response.Success(c, listings)
}
