package server

import (
	"errors"

	"pawhaven/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// viewerID returns the authenticated viewer's id, or "" for anonymous requests.
func (s *Server) viewerID(c *fiber.Ctx) string {
	if vid, ok := c.Locals("viewerID").(string); ok {
		return vid
	}
	return ""
}

// flagDisabled reports whether a feature flag is configured and evaluates to
// off for this viewer. Unconfigured flags leave the surface enabled.
func (s *Server) flagDisabled(c *fiber.Ctx, name string) bool {
	if s.featureFlags == nil {
		return false
	}
	if _, configured := s.featureFlags.Raw()[name]; !configured {
		return false
	}
	return !s.featureFlags.Enabled(name, s.viewerID(c))
}

// respondServiceError maps a service error to the right HTTP status.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	status := fiber.StatusInternalServerError
	switch appErr.Code {
	case models.CodeNotFound:
		status = fiber.StatusNotFound
	case models.CodeValidation:
		status = fiber.StatusBadRequest
	case models.CodeUnauthorized:
		status = fiber.StatusUnauthorized
	case models.CodeConflict:
		status = fiber.StatusConflict
	case models.CodeFeatureUnavailable:
		status = fiber.StatusServiceUnavailable
	}
	return models.RespondWithError(c, status, appErr)
}
