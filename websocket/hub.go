// Package websocket carries the live map feed: a hub fans station
// snapshots out to every connected dashboard.
package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/apex/log"

	"electionwatch/metrics"
	"electionwatch/models"
)

// BroadcastMessage is the wire format pushed to map clients.
type BroadcastMessage struct {
	Type      string                  `json:"type"`
	Stations  []models.PollingStation `json:"stations"`
	Count     int                     `json:"count"`
	Timestamp time.Time               `json:"timestamp"`
}

// Hub manages WebSocket connections and broadcasting.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	mutex sync.RWMutex

	connectedClients int
	broadcastCount   int
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.connectedClients = len(h.clients)
			h.mutex.Unlock()
			metrics.ConnectedClients.Set(float64(h.connectedClients))
			log.Infof("Map client connected. Total clients: %d", h.connectedClients)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.connectedClients = len(h.clients)
			}
			h.mutex.Unlock()
			metrics.ConnectedClients.Set(float64(h.connectedClients))
			log.Infof("Map client disconnected. Total clients: %d", h.connectedClients)

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.connectedClients = len(h.clients)
			h.broadcastCount++
			h.mutex.Unlock()
			metrics.MapBroadcasts.Inc()
		}
	}
}

// SnapshotMessage encodes a station snapshot in the feed's wire format.
func SnapshotMessage(stations []models.PollingStation) ([]byte, error) {
	return json.Marshal(BroadcastMessage{
		Type:      "stations",
		Stations:  stations,
		Count:     len(stations),
		Timestamp: time.Now().UTC(),
	})
}

// BroadcastStations pushes a station snapshot to all connected clients.
func (h *Hub) BroadcastStations(stations []models.PollingStation) {
	if len(stations) == 0 {
		return
	}

	data, err := SnapshotMessage(stations)
	if err != nil {
		log.Errorf("Failed to marshal broadcast message: %v", err)
		return
	}

	h.broadcast <- data
}

// GetStats returns the current client and broadcast counters.
func (h *Hub) GetStats() (int, int) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.connectedClients, h.broadcastCount
}
