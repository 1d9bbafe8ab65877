package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReportsCreated counts submitted reports by type.
	ReportsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "electionwatch",
		Name:      "reports_created_total",
		Help:      "Total number of reports created, labeled by report type.",
	}, []string{"type"})

	// CrowdLevelUpdates counts crowd-level writes by resulting level.
	CrowdLevelUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "electionwatch",
		Name:      "crowd_level_updates_total",
		Help:      "Total number of station crowd-level updates, labeled by level.",
	}, []string{"level"})

	// ConnectedClients tracks live map WebSocket connections.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "electionwatch",
		Name:      "map_connected_clients",
		Help:      "Current number of connected live map WebSocket clients.",
	})

	// MapBroadcasts counts station snapshots pushed to map clients.
	MapBroadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "electionwatch",
		Name:      "map_broadcasts_total",
		Help:      "Total number of station snapshots broadcast to map clients.",
	})
)
