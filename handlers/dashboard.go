package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"electionwatch/models"
	"electionwatch/stats"
)

// AdminDashboard aggregates deployment-wide counts for the admin view.
func (h *Handlers) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	stations, err := h.stations.List(ctx)
	if err != nil {
		log.Errorf("Failed to load stations for admin dashboard: %v", err)
		h.storeError(c, err, "Polling station not found")
		return
	}
	openIssues, err := h.reports.CountOpenIssues(ctx)
	if err != nil {
		log.Errorf("Failed to count open issues: %v", err)
		h.storeError(c, err, "Report not found")
		return
	}

	c.JSON(http.StatusOK, models.OK(stats.ComputeAdminStats(stations, openIssues)))
}

// CitizenDashboard returns the requesting user's own reports plus the
// station nearest to the supplied coordinates.
func (h *Handlers) CitizenDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString("user_id")

	own, err := h.reports.ByReporter(ctx, userID)
	if err != nil {
		log.Errorf("Failed to load citizen reports: %v", err)
		h.storeError(c, err, "Report not found")
		return
	}

	stations, err := h.stations.List(ctx)
	if err != nil {
		h.storeError(c, err, "Polling station not found")
		return
	}

	var nearest *models.PollingStation
	latStr, hasLat := c.GetQuery("lat")
	lngStr, hasLng := c.GetQuery("lng")
	if hasLat && hasLng {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			c.JSON(http.StatusBadRequest, models.Fail("lat and lng must be numbers"))
			return
		}
		nearest = stats.NearestStation(lat, lng, stations)
	} else if len(stations) > 0 {
		nearest = &stations[0]
	}

	openIssues := 0
	for _, r := range own {
		if r.Status == models.StatusReported || r.Status == models.StatusUnderReview {
			openIssues++
		}
	}

	electionStatus := "active"
	if len(stations) > 0 {
		electionStatus = "inactive"
		for _, s := range stations {
			if s.IsOpen {
				electionStatus = "active"
				break
			}
		}
	}

	c.JSON(http.StatusOK, models.OK(gin.H{
		"issueCount":     len(own),
		"openIssues":     openIssues,
		"nearestStation": nearest,
		"electionStatus": electionStatus,
		"reports":        own,
	}))
}

// ObserverDashboard derives the compliance statistics from observation and
// irregularity reports. A low severity counts as routine, not an incident.
func (h *Handlers) ObserverDashboard(c *gin.Context) {
	reports, err := h.reports.List(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to load reports for observer dashboard: %v", err)
		h.storeError(c, err, "Report not found")
		return
	}

	observations := make([]stats.Observation, 0, len(reports))
	for _, r := range reports {
		if r.Type != models.ReportTypeObservation && r.Type != models.ReportTypeIrregularity {
			continue
		}
		severity := r.Severity
		if severity == "low" {
			severity = "none"
		}
		observations = append(observations, stats.Observation{
			Station:   r.PollingStation.Name,
			Severity:  severity,
			Timestamp: r.Timestamp,
		})
	}

	c.JSON(http.StatusOK, models.OK(gin.H{
		"stats":      stats.ComputeObserverStats(observations),
		"compliance": stats.ComplianceByStation(observations),
	}))
}

// AnalystDashboard returns the simulated vote analytics plus the real
// anomaly count. The simulation is reseeded per request.
func (h *Handlers) AnalystDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	stations, err := h.stations.List(ctx)
	if err != nil {
		h.storeError(c, err, "Polling station not found")
		return
	}
	anomalies, err := h.reports.CountIssuesBySeverity(ctx, "high")
	if err != nil {
		h.storeError(c, err, "Report not found")
		return
	}
	reports, err := h.reports.List(ctx)
	if err != nil {
		h.storeError(c, err, "Report not found")
		return
	}

	issuesByStation := map[string]int{}
	for _, r := range reports {
		if r.Type == models.ReportTypeIssue {
			issuesByStation[r.PollingStation.ID]++
		}
	}

	totalVoters := 0
	for _, s := range stations {
		totalVoters += s.TotalVoters
	}

	sim := stats.NewSimulator(time.Now().UnixNano())
	c.JSON(http.StatusOK, models.OK(gin.H{
		"stats":    sim.HeadlineStats(totalVoters, anomalies),
		"stations": sim.StationTable(stations, issuesByStation),
	}))
}
