package server

import (
	"log"

	"pawhaven/internal/models"
	"pawhaven/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GetAlerts handles GET /api/alerts
// @Summary Recent urgent alerts
// @Tags alerts
// @Produce json
// @Param limit query int false "Page size"
// @Success 200 {array} models.Post
// @Router /alerts [get]
func (s *Server) GetAlerts(c *fiber.Ctx) error {
	if s.flagDisabled(c, "alerts") {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewFeatureUnavailableError("Alerts are turned off"))
	}
	limit := c.QueryInt("limit", 20)

	alerts, err := s.alertService.ListAlerts(c.UserContext(), limit, s.viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(alerts)
}

// RaiseAlert handles POST /api/alerts
// @Summary Raise an urgent alert
// @Description Creates an urgent forum post and pushes it to everyone listening on the alert socket
// @Tags alerts
// @Accept json
// @Produce json
// @Param request body object{title=string,content=string} true "Alert content"
// @Success 201 {object} models.Post
// @Failure 401 {object} models.ErrorResponse
// @Router /alerts [post]
func (s *Server) RaiseAlert(c *fiber.Ctx) error {
	if s.flagDisabled(c, "alerts") {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewFeatureUnavailableError("Alerts are turned off"))
	}
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.alertService.RaiseAlert(c.UserContext(), service.RaiseAlertInput{
		ViewerID: s.viewerID(c),
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// AlertSocketHandler handles GET /api/ws/alerts. Anonymous listeners are
// allowed; a valid bearer token attributes the connection to a viewer.
func (s *Server) AlertSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		viewerID, _ := conn.Locals("viewerID").(string)

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(viewerID, conn)
		if err != nil {
			log.Printf("alert socket: failed to register viewer %q: %v", viewerID, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
