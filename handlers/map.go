package handlers

import (
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"electionwatch/livemap"
	"electionwatch/websocket"
)

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The REST API is open to all origins; so is the feed.
		return true
	},
}

// MapStations returns all stations as a GeoJSON FeatureCollection with
// marker colors derived from the crowd level.
func (h *Handlers) MapStations(c *gin.Context) {
	stations, err := h.stations.List(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to load stations for map: %v", err)
		h.storeError(c, err, "Polling station not found")
		return
	}
	c.JSON(http.StatusOK, livemap.FeatureCollection(stations))
}

// MapLive upgrades the connection to a WebSocket and streams station
// snapshots as crowd levels change.
func (h *Handlers) MapLive(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("Failed to upgrade connection to WebSocket: %v", err)
		return
	}
	client := websocket.NewClient(h.hub, conn)

	// Send an initial snapshot to the new client only, so it renders
	// without waiting for the next poll and without re-broadcasting to
	// everyone already connected.
	stations, err := h.stations.List(c.Request.Context())
	if err != nil {
		log.Warnf("Failed to load initial map snapshot: %v", err)
		return
	}
	data, err := websocket.SnapshotMessage(stations)
	if err != nil {
		log.Errorf("Failed to encode initial map snapshot: %v", err)
		return
	}
	client.Send(data)
}

// MapHealth reports live feed statistics.
func (h *Handlers) MapHealth(c *gin.Context) {
	clients, broadcasts := h.hub.GetStats()
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"connectedClients": clients,
		"broadcasts":       broadcasts,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}
