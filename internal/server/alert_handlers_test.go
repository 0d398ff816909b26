package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawhaven/internal/featureflags"
	"pawhaven/internal/models"
	"pawhaven/internal/notifications"
	"pawhaven/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAlertTestServer(stats *serverStatsRepo, flags string) *Server {
	s := newTestServer(noopServerPostRepo(), stats, noopServerReactionRepo())
	s.featureFlags = featureflags.NewManager(flags)
	s.alertService = service.NewAlertService(s.postService, notifications.NewNotifier(nil))
	return s
}

func TestGetAlerts_ReturnsUrgentPosts(t *testing.T) {
	stats := noopServerStatsRepo()
	stats.listByCategoryFn = func(_ context.Context, category string, _, _ int) ([]*models.Post, error) {
		assert.Equal(t, models.CategoryUrgent, category)
		return []*models.Post{{ID: testPostID, Title: "Injured stray", Category: models.CategoryUrgent}}, nil
	}
	s := newAlertTestServer(stats, "alerts=on")

	app := fiber.New()
	app.Get("/api/alerts", s.GetAlerts)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Injured stray", posts[0].Title)
}

func TestGetAlerts_FlagOffMapsTo503(t *testing.T) {
	s := newAlertTestServer(noopServerStatsRepo(), "alerts=off")

	app := fiber.New()
	app.Get("/api/alerts", s.GetAlerts)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body models.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, models.CodeFeatureUnavailable, body.Code)
}

func TestGetAlerts_UnconfiguredFlagStaysOn(t *testing.T) {
	s := newAlertTestServer(noopServerStatsRepo(), "trending=on")

	app := fiber.New()
	app.Get("/api/alerts", s.GetAlerts)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
