package handlers

import (
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"electionwatch/metrics"
	"electionwatch/models"
)

// ListStations returns all polling stations.
func (h *Handlers) ListStations(c *gin.Context) {
	stations, err := h.stations.List(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to list stations: %v", err)
		h.storeError(c, err, "Polling station not found")
		return
	}
	c.JSON(http.StatusOK, models.OKList(stations, len(stations)))
}

// GetStation returns a station by id.
func (h *Handlers) GetStation(c *gin.Context) {
	station, err := h.stations.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, err, "Polling station not found")
		return
	}
	c.JSON(http.StatusOK, models.OK(station))
}

// CreateStation persists a new polling station.
func (h *Handlers) CreateStation(c *gin.Context) {
	var req models.CreateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}
	if req.Location.Address == "" {
		c.JSON(http.StatusBadRequest, models.Fail("location.address is required"))
		return
	}

	station, err := h.stations.Create(c.Request.Context(), req)
	if err != nil {
		log.Errorf("Failed to create station: %v", err)
		h.storeError(c, err, "Polling station not found")
		return
	}
	c.JSON(http.StatusCreated, models.OKMessage("Polling station created successfully", station))
}

// UpdateStation applies a partial update to a station. A crowd level inside
// the payload goes through the same enum validation as the narrow PATCH.
func (h *Handlers) UpdateStation(c *gin.Context) {
	var req models.UpdateStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}

	station, err := h.stations.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.storeError(c, err, "Polling station not found")
		return
	}
	if req.CurrentCrowdLevel != nil {
		metrics.CrowdLevelUpdates.WithLabelValues(*req.CurrentCrowdLevel).Inc()
		h.broadcastStation(station)
	}
	c.JSON(http.StatusOK, models.OKMessage("Polling station updated successfully", station))
}

// DeleteStation removes a station by id.
func (h *Handlers) DeleteStation(c *gin.Context) {
	if err := h.stations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.storeError(c, err, "Polling station not found")
		return
	}
	c.JSON(http.StatusOK, models.Response{Success: true, Message: "Polling station deleted successfully"})
}

// UpdateCrowdLevel is the narrow crowd-level-only PATCH. The new value must
// be one of the three enumerated levels; anything else is rejected with no
// state change.
func (h *Handlers) UpdateCrowdLevel(c *gin.Context) {
	var req models.CrowdLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}
	if !models.ValidCrowdLevel(req.CurrentCrowdLevel) {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid crowd level. Must be: low, medium, or high"))
		return
	}

	station, err := h.stations.UpdateCrowdLevel(c.Request.Context(), c.Param("id"), req.CurrentCrowdLevel)
	if err != nil {
		h.storeError(c, err, "Polling station not found")
		return
	}

	metrics.CrowdLevelUpdates.WithLabelValues(req.CurrentCrowdLevel).Inc()
	h.broadcastStation(station)

	c.JSON(http.StatusOK, models.OKMessage("Crowd level updated successfully", station))
}

// FilterStationsByCrowdLevel returns exactly the stations at the given level.
func (h *Handlers) FilterStationsByCrowdLevel(c *gin.Context) {
	level := c.Param("level")
	if !models.ValidCrowdLevel(level) {
		c.JSON(http.StatusBadRequest, models.Fail("Invalid crowd level. Must be: low, medium, or high"))
		return
	}

	stations, err := h.stations.FilterByCrowdLevel(c.Request.Context(), level)
	if err != nil {
		log.Errorf("Failed to filter stations: %v", err)
		h.storeError(c, err, "Polling station not found")
		return
	}
	c.JSON(http.StatusOK, models.OKList(stations, len(stations)))
}

func (h *Handlers) broadcastStation(station *models.PollingStation) {
	if h.hub == nil || station == nil {
		return
	}
	h.hub.BroadcastStations([]models.PollingStation{*station})
}
