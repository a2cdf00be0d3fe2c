package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/amaumene/kioskarr/internal/models"
	"github.com/amaumene/kioskarr/internal/stores"
)

// RequestSource is the request list the status endpoint summarises
type RequestSource interface {
	Requests() []models.MediaRequest
	Error() string
	LastRefresh() time.Time
}

// StatusHandler handles status requests
type StatusHandler struct {
	requests RequestSource
	logger   zerolog.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(requests RequestSource, logger zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		requests: requests,
		logger:   logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalRequests int            `json:"total_requests"`
	ByStatus      map[string]int `json:"by_status"`
	ByView        map[string]int `json:"by_view"`
	ByMediaType   map[string]int `json:"by_media_type"`
	LastError     string         `json:"last_error,omitempty"`
	LastRefresh   *time.Time     `json:"last_refresh,omitempty"`
}

// Handle serves the status endpoint
func (h *StatusHandler) Handle(c *fiber.Ctx) error {
	requests := h.requests.Requests()

	response := StatusResponse{
		TotalRequests: len(requests),
		ByStatus:      make(map[string]int),
		ByView: map[string]int{
			string(stores.ViewPending):   len(stores.Pending(requests)),
			string(stores.ViewCompleted): len(stores.Completed(requests)),
			string(stores.ViewFailed):    len(stores.Failed(requests)),
		},
		ByMediaType: make(map[string]int),
		LastError:   h.requests.Error(),
	}

	for _, s := range models.Statuses {
		response.ByStatus[string(s)] = 0
	}
	for _, r := range requests {
		// Count by status
		if r.Status.Known() {
			response.ByStatus[string(r.Status)]++
		} else {
			response.ByStatus["unknown"]++
		}

		// Count by type
		response.ByMediaType[string(r.MediaType)]++
	}

	if last := h.requests.LastRefresh(); !last.IsZero() {
		response.LastRefresh = &last
	}

	return c.JSON(response)
}
