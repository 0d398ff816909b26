package server

import (
	"time"

	"pawhaven/internal/models"
	"pawhaven/internal/repository"
	"pawhaven/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetSightings handles GET /api/sightings
// @Summary Browse stray sightings
// @Tags sightings
// @Produce json
// @Param species query string false "Filter by species"
// @Param since query string false "Only sightings at or after this RFC 3339 time"
// @Param min_lat query number false "Bounding box south edge"
// @Param max_lat query number false "Bounding box north edge"
// @Param min_lng query number false "Bounding box west edge"
// @Param max_lng query number false "Bounding box east edge"
// @Success 200 {array} models.Sighting
// @Router /sightings [get]
func (s *Server) GetSightings(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	filter := repository.SightingFilter{
		Species: c.Query("species"),
	}
	if since := c.Query("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("since must be an RFC 3339 timestamp"))
		}
		filter.Since = t
	}
	// All four edges or none.
	hasAny := c.Query("min_lat") != "" || c.Query("max_lat") != "" ||
		c.Query("min_lng") != "" || c.Query("max_lng") != ""
	hasAll := c.Query("min_lat") != "" && c.Query("max_lat") != "" &&
		c.Query("min_lng") != "" && c.Query("max_lng") != ""
	if hasAny && !hasAll {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Bounding box requires min_lat, max_lat, min_lng and max_lng"))
	}
	if hasAll {
		filter.HasBounds = true
		filter.MinLat = c.QueryFloat("min_lat")
		filter.MaxLat = c.QueryFloat("max_lat")
		filter.MinLng = c.QueryFloat("min_lng")
		filter.MaxLng = c.QueryFloat("max_lng")
	}

	sightings, err := s.sightingService.ListSightings(c.UserContext(), filter, page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(sightings)
}

// GetSighting handles GET /api/sightings/:id
func (s *Server) GetSighting(c *fiber.Ctx) error {
	sighting, err := s.sightingService.GetSighting(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(sighting)
}

// CreateSighting handles POST /api/sightings
func (s *Server) CreateSighting(c *fiber.Ctx) error {
	var req struct {
		Species     string    `json:"species"`
		Description string    `json:"description,omitempty"`
		Latitude    float64   `json:"latitude"`
		Longitude   float64   `json:"longitude"`
		SightedAt   time.Time `json:"sighted_at,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	sighting, err := s.sightingService.CreateSighting(c.UserContext(), service.CreateSightingInput{
		ViewerID:    s.viewerID(c),
		Species:     req.Species,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		SightedAt:   req.SightedAt,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sighting)
}
