package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawhaven/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedLimit  int
		expectedOffset int
	}{
		{"defaults", "", 20, 0},
		{"explicit", "limit=5&offset=10", 5, 10},
		{"capped limit", "limit=5000", maxPaginationLimit, 0},
		{"zero limit falls back", "limit=0", 20, 0},
		{"negative values", "limit=-3&offset=-7", 20, 0},
		{"non-numeric", "limit=abc&offset=xyz", 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			var got Pagination
			app.Get("/", func(c *fiber.Ctx) error {
				got = parsePagination(c, 20)
				return c.SendStatus(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			resp, err := app.Test(req, 5000)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedLimit, got.Limit)
			assert.Equal(t, tt.expectedOffset, got.Offset)
		})
	}
}

func TestRespondServiceError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"not found", models.NewNotFoundError("Post", "p1"), http.StatusNotFound},
		{"validation", models.NewValidationError("bad input"), http.StatusBadRequest},
		{"unauthorized", models.NewUnauthorizedError("no token"), http.StatusUnauthorized},
		{"conflict", models.NewConflictError("taken"), http.StatusConflict},
		{"feature unavailable", models.NewFeatureUnavailableError("degraded"), http.StatusServiceUnavailable},
		{"unknown error wrapped as internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return respondServiceError(c, tt.err)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			resp, err := app.Test(req, 5000)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expected, resp.StatusCode)

			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}
