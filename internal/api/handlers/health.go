package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// SessionState reports whether the kiosk holds a live session
type SessionState interface {
	IsAuthenticated() bool
}

// HealthHandler handles health check requests
type HealthHandler struct {
	session SessionState
	logger  zerolog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(session SessionState, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{session: session, logger: logger}
}

// HealthResponse represents the health response
type HealthResponse struct {
	Status        string `json:"status"`
	Authenticated bool   `json:"authenticated"`
}

// Handle serves the health check endpoint
func (h *HealthHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:        "healthy",
		Authenticated: h.session.IsAuthenticated(),
	})
}
