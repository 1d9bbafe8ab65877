package livemap

import (
	"context"
	"time"

	"github.com/apex/log"

	"electionwatch/database"
	"electionwatch/websocket"
)

// Poller re-reads all stations on a fixed interval and broadcasts the
// snapshot over the hub. It is an explicit owned handle: Start launches
// the loop, Stop (or cancelling the context) ends it. A tick that fires
// while the previous refresh is still running is skipped instead of
// overlapping it.
type Poller struct {
	stations *database.StationService
	hub      *websocket.Hub
	interval time.Duration
	cancel   context.CancelFunc
}

// NewPoller creates a poller over the given station service and hub.
func NewPoller(stations *database.StationService, hub *websocket.Hub, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{stations: stations, hub: hub, interval: interval}
}

// Start launches the refresh loop. Calling Start twice is a no-op until
// Stop is called.
func (p *Poller) Start(ctx context.Context) {
	if p.cancel != nil {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		busy := make(chan struct{}, 1)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				select {
				case busy <- struct{}{}:
				default:
					log.Warn("Map refresh still running, skipping tick")
					continue
				}
				go func() {
					defer func() { <-busy }()
					p.refresh(ctx)
				}()
			}
		}
	}()

	log.Infof("Live map poller started, interval %v", p.interval)
}

// Stop ends the refresh loop.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

func (p *Poller) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	stations, err := p.stations.List(ctx)
	if err != nil {
		log.Errorf("Map refresh failed: %v", err)
		return
	}
	p.hub.BroadcastStations(stations)
}
