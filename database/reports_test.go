package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"electionwatch/models"
)

var reportColumns = []string{
	"id", "type", "description", "severity", "status", "crowd_level",
	"attachments", "is_verified", "timestamp", "created_at", "updated_at",
	"u_id", "u_name", "u_email",
	"s_id", "s_name", "s_address", "s_latitude", "s_longitude",
	"v_id", "v_name", "v_email",
}

func reportRow(rows *sqlmock.Rows, id, reportType string, attachments interface{}) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, reportType, "Queue spilling onto the street", "medium", models.StatusReported, "high",
		attachments, false, now, now, now,
		"u1", "Ada Observer", "ada@example.org",
		"s1", "Central School", "12 Main St", 6.5244, 3.3792,
		nil, nil, nil)
}

func TestReportList(t *testing.T) {
	it(func() {
		service := NewReportService(db)

		rows := sqlmock.NewRows(reportColumns)
		reportRow(rows, "r1", models.ReportTypeCrowdLevel, `["https://cdn.example.org/a.jpg"]`)
		reportRow(rows, "r2", models.ReportTypeIssue, nil)

		mock.ExpectQuery("SELECT (.+) FROM reports r JOIN users u (.+) JOIN polling_stations s").
			WillReturnRows(rows)

		reports, err := service.List(context.Background())
		if err != nil {
			t.Fatalf("List: unexpected error: %v", err)
		}
		if len(reports) != 2 {
			t.Fatalf("List: expected 2 reports, got %d", len(reports))
		}

		first := reports[0]
		if first.Reporter == nil || first.Reporter.Name != "Ada Observer" {
			t.Errorf("List: expected populated reporter, got %+v", first.Reporter)
		}
		if first.PollingStation == nil || first.PollingStation.Name != "Central School" {
			t.Errorf("List: expected populated station, got %+v", first.PollingStation)
		}
		if len(first.Attachments) != 1 {
			t.Errorf("List: expected 1 attachment, got %v", first.Attachments)
		}
		if first.VerifiedBy != nil {
			t.Errorf("List: expected nil verifier, got %+v", first.VerifiedBy)
		}
	})
}

func TestReportCreateDefaultsSeverity(t *testing.T) {
	it(func() {
		service := NewReportService(db)

		mock.ExpectExec("INSERT INTO reports").
			WithArgs(sqlmock.AnyArg(), "u1", "s1", models.ReportTypeCrowdLevel,
				"Long queue", models.CrowdLow, models.CrowdHigh, nil).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectQuery("SELECT (.+) FROM reports r JOIN users u").
			WillReturnRows(reportRow(sqlmock.NewRows(reportColumns), "r1", models.ReportTypeCrowdLevel, nil))

		report, err := service.Create(context.Background(), models.CreateReportRequest{
			Reporter:       "u1",
			PollingStation: "s1",
			Type:           models.ReportTypeCrowdLevel,
			Description:    "Long queue",
			CrowdLevel:     models.CrowdHigh,
		})
		if err != nil {
			t.Fatalf("Create: unexpected error: %v", err)
		}
		if report.ID != "r1" {
			t.Errorf("Create: expected re-read report, got %s", report.ID)
		}
	})
}

func TestReportCreateDanglingReference(t *testing.T) {
	it(func() {
		service := NewReportService(db)

		mock.ExpectExec("INSERT INTO reports").
			WillReturnError(errors.New("Error 1452: Cannot add or update a child row: a foreign key constraint fails"))

		_, err := service.Create(context.Background(), models.CreateReportRequest{
			Reporter:       "ghost",
			PollingStation: "s1",
			Type:           models.ReportTypeIssue,
			Description:    "Broken ballot box",
		})
		if err == nil || !strings.Contains(err.Error(), "does not exist") {
			t.Errorf("Create: expected dangling reference error, got %v", err)
		}
	})
}

func TestReportByStation(t *testing.T) {
	it(func() {
		service := NewReportService(db)

		mock.ExpectQuery("SELECT (.+) FROM reports r JOIN users u (.+) WHERE r.polling_station = ?").
			WithArgs("s1").
			WillReturnRows(reportRow(sqlmock.NewRows(reportColumns), "r1", models.ReportTypeObservation, nil))

		reports, err := service.ByStation(context.Background(), "s1")
		if err != nil {
			t.Fatalf("ByStation: unexpected error: %v", err)
		}
		if len(reports) != 1 || reports[0].PollingStation.ID != "s1" {
			t.Errorf("ByStation: unexpected result %+v", reports)
		}
	})
}

func TestReportCounts(t *testing.T) {
	it(func() {
		service := NewReportService(db)

		// Both counts are scoped to issue reports: high-severity crowd or
		// observation records must not leak into the admin/analyst figures.
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM reports WHERE type = 'issue' AND status IN").
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(3))

		open, err := service.CountOpenIssues(context.Background())
		if err != nil {
			t.Fatalf("CountOpenIssues: unexpected error: %v", err)
		}
		if open != 3 {
			t.Errorf("CountOpenIssues: expected 3, got %d", open)
		}

		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM reports WHERE type = 'issue' AND severity = ?").
			WithArgs("high").
			WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))

		anomalies, err := service.CountIssuesBySeverity(context.Background(), "high")
		if err != nil {
			t.Fatalf("CountIssuesBySeverity: unexpected error: %v", err)
		}
		if anomalies != 2 {
			t.Errorf("CountIssuesBySeverity: expected 2, got %d", anomalies)
		}

		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("count queries missing the issue type filter: %v", err)
		}
	})
}
