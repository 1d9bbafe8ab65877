package handlers

import (
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"electionwatch/metrics"
	"electionwatch/models"
)

// ListReports returns all reports with references populated.
func (h *Handlers) ListReports(c *gin.Context) {
	reports, err := h.reports.List(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to list reports: %v", err)
		h.storeError(c, err, "Report not found")
		return
	}
	c.JSON(http.StatusOK, models.OKList(reports, len(reports)))
}

// GetReport returns a report by id.
func (h *Handlers) GetReport(c *gin.Context) {
	report, err := h.reports.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.storeError(c, err, "Report not found")
		return
	}
	c.JSON(http.StatusOK, models.OK(report))
}

// CreateReport submits a new report. The referenced reporter and station
// must exist; a dangling reference surfaces as a validation failure.
func (h *Handlers) CreateReport(c *gin.Context) {
	var req models.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, models.Fail("Please provide a description"))
		return
	}

	report, err := h.reports.Create(c.Request.Context(), req)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
			return
		}
		log.Errorf("Failed to create report: %v", err)
		h.storeError(c, err, "Report not found")
		return
	}

	metrics.ReportsCreated.WithLabelValues(report.Type).Inc()

	if report.Severity == "critical" && h.notifier != nil {
		// Best-effort: a failed notification never fails the request.
		go h.notifier.NotifyCriticalReport(report)
	}
	if h.events != nil {
		if err := h.events.PublishReportCreated(report); err != nil {
			log.Warnf("Failed to publish report event: %v", err)
		}
	}

	c.JSON(http.StatusCreated, models.OKMessage("Report created successfully", report))
}

// UpdateReport mutates a report's review fields.
func (h *Handlers) UpdateReport(c *gin.Context) {
	var req models.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Fail(err.Error()))
		return
	}

	report, err := h.reports.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.storeError(c, err, "Report not found")
		return
	}
	c.JSON(http.StatusOK, models.OKMessage("Report updated successfully", report))
}

// ReportsByStation returns all reports filed against a station.
func (h *Handlers) ReportsByStation(c *gin.Context) {
	reports, err := h.reports.ByStation(c.Request.Context(), c.Param("stationId"))
	if err != nil {
		log.Errorf("Failed to list reports by station: %v", err)
		h.storeError(c, err, "Report not found")
		return
	}
	c.JSON(http.StatusOK, models.OKList(reports, len(reports)))
}

// ReportsByUser returns all reports filed by a user.
func (h *Handlers) ReportsByUser(c *gin.Context) {
	reports, err := h.reports.ByReporter(c.Request.Context(), c.Param("userId"))
	if err != nil {
		log.Errorf("Failed to list reports by user: %v", err)
		h.storeError(c, err, "Report not found")
		return
	}
	c.JSON(http.StatusOK, models.OKList(reports, len(reports)))
}
