package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"electionwatch/config"
	"electionwatch/database"
	"electionwatch/models"
	"electionwatch/notify"
	"electionwatch/rabbitmq"
	"electionwatch/websocket"
)

// Handlers handles HTTP requests for the election monitoring service.
type Handlers struct {
	cfg      *config.Config
	users    *database.UserService
	stations *database.StationService
	reports  *database.ReportService
	auth     *database.AuthService
	hub      *websocket.Hub
	notifier notify.Notifier
	events   rabbitmq.Publisher
}

// New creates a new handlers instance.
func New(cfg *config.Config, users *database.UserService, stations *database.StationService,
	reports *database.ReportService, auth *database.AuthService, hub *websocket.Hub,
	notifier notify.Notifier, events rabbitmq.Publisher) *Handlers {
	return &Handlers{
		cfg:      cfg,
		users:    users,
		stations: stations,
		reports:  reports,
		auth:     auth,
		hub:      hub,
		notifier: notifier,
		events:   events,
	}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Index lists the top-level API surface.
func (h *Handlers) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Election Monitoring System API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"users":     "/api/users",
			"stations":  "/api/stations",
			"reports":   "/api/reports",
			"dashboard": "/api/dashboard",
			"map":       "/api/map",
			"health":    "/api/health",
		},
	})
}

// NotFound is the catch-all for unmatched routes.
func (h *Handlers) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.Fail("Endpoint not found"))
}

// storeError maps store-layer failures onto the envelope. Unexpected error
// text is only surfaced in development mode.
func (h *Handlers) storeError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, models.Fail(notFoundMessage))
	case errors.Is(err, database.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, models.Fail(err.Error()))
	default:
		message := "Internal server error"
		if h.cfg.IsDevelopment() {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, models.Fail(message))
	}
}
