package server

import (
	"pawhaven/internal/models"
	"pawhaven/internal/repository"
	"pawhaven/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetListings handles GET /api/listings
// @Summary Browse adoption listings
// @Tags listings
// @Produce json
// @Param species query string false "Filter by species"
// @Param status query string false "Filter by status (available, pending, adopted)"
// @Param city query string false "Filter by city"
// @Success 200 {array} models.Listing
// @Router /listings [get]
func (s *Server) GetListings(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	listings, err := s.listingService.ListListings(c.UserContext(), repository.ListingFilter{
		Species: c.Query("species"),
		Status:  c.Query("status"),
		City:    c.Query("city"),
	}, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listings)
}

// GetListing handles GET /api/listings/:id
func (s *Server) GetListing(c *fiber.Ctx) error {
	listing, err := s.listingService.GetListing(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listing)
}

// CreateListing handles POST /api/listings
func (s *Server) CreateListing(c *fiber.Ctx) error {
	var req struct {
		PetName     string `json:"pet_name"`
		Species     string `json:"species"`
		Breed       string `json:"breed,omitempty"`
		AgeMonths   int    `json:"age_months"`
		Description string `json:"description,omitempty"`
		City        string `json:"city,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	listing, err := s.listingService.CreateListing(c.UserContext(), service.CreateListingInput{
		ViewerID:    s.viewerID(c),
		PetName:     req.PetName,
		Species:     req.Species,
		Breed:       req.Breed,
		AgeMonths:   req.AgeMonths,
		Description: req.Description,
		City:        req.City,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// UpdateListingStatus handles PATCH /api/listings/:id/status
func (s *Server) UpdateListingStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	listing, err := s.listingService.UpdateStatus(c.UserContext(), c.Params("id"), s.viewerID(c), req.Status)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(listing)
}
