package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"electionwatch/models"
)

// ReportService handles report document operations.
type ReportService struct {
	db *sql.DB
}

// NewReportService creates a new report service instance.
func NewReportService(db *sql.DB) *ReportService {
	return &ReportService{db: db}
}

const reportSelect = `
	SELECT r.id, r.type, r.description, r.severity, r.status, r.crowd_level,
	       r.attachments, r.is_verified, r.timestamp, r.created_at, r.updated_at,
	       u.id, u.name, u.email,
	       s.id, s.name, s.address, s.latitude, s.longitude,
	       v.id, v.name, v.email
	FROM reports r
	JOIN users u ON u.id = r.reporter
	JOIN polling_stations s ON s.id = r.polling_station
	LEFT JOIN users v ON v.id = r.verified_by`

func scanReport(row interface{ Scan(...interface{}) error }) (*models.Report, error) {
	var rp models.Report
	var crowdLevel sql.NullString
	var attachments sql.NullString
	var reporter models.UserRef
	var stationID, stationName, stationAddr string
	var lat, lng sql.NullFloat64
	var verifierID, verifierName, verifierEmail sql.NullString

	err := row.Scan(&rp.ID, &rp.Type, &rp.Description, &rp.Severity, &rp.Status, &crowdLevel,
		&attachments, &rp.IsVerified, &rp.Timestamp, &rp.CreatedAt, &rp.UpdatedAt,
		&reporter.ID, &reporter.Name, &reporter.Email,
		&stationID, &stationName, &stationAddr, &lat, &lng,
		&verifierID, &verifierName, &verifierEmail)
	if err != nil {
		return nil, err
	}

	rp.CrowdLevel = crowdLevel.String
	rp.Reporter = &reporter
	station := models.StationRef{ID: stationID, Name: stationName}
	station.Location.Address = stationAddr
	if lat.Valid {
		station.Location.Latitude = &lat.Float64
	}
	if lng.Valid {
		station.Location.Longitude = &lng.Float64
	}
	rp.PollingStation = &station
	if verifierID.Valid {
		rp.VerifiedBy = &models.UserRef{
			ID:    verifierID.String,
			Name:  verifierName.String,
			Email: verifierEmail.String,
		}
	}
	if attachments.Valid && attachments.String != "" {
		if err := json.Unmarshal([]byte(attachments.String), &rp.Attachments); err != nil {
			return nil, fmt.Errorf("failed to decode attachments: %w", err)
		}
	}
	return &rp, nil
}

func (s *ReportService) queryReports(ctx context.Context, where string, args ...interface{}) ([]models.Report, error) {
	q := reportSelect
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY r.timestamp DESC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *rp)
	}
	return reports, rows.Err()
}

// List returns all reports with reporter, station and verifier populated.
func (s *ReportService) List(ctx context.Context) ([]models.Report, error) {
	return s.queryReports(ctx, "")
}

// GetByID returns a single report or ErrNotFound.
func (s *ReportService) GetByID(ctx context.Context, id string) (*models.Report, error) {
	rp, err := scanReport(s.db.QueryRowContext(ctx, reportSelect+" WHERE r.id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	return rp, nil
}

// ByStation returns all reports filed against a station.
func (s *ReportService) ByStation(ctx context.Context, stationID string) ([]models.Report, error) {
	return s.queryReports(ctx, "r.polling_station = ?", stationID)
}

// ByReporter returns all reports filed by a user.
func (s *ReportService) ByReporter(ctx context.Context, userID string) ([]models.Report, error) {
	return s.queryReports(ctx, "r.reporter = ?", userID)
}

// Create persists a new report. Status defaults to reported and the report
// starts unverified. The referenced reporter and station must exist; the
// store's foreign keys reject dangling references.
func (s *ReportService) Create(ctx context.Context, req models.CreateReportRequest) (*models.Report, error) {
	id := uuid.NewString()

	severity := req.Severity
	if severity == "" {
		severity = models.CrowdLow
	}
	var crowdLevel interface{}
	if req.CrowdLevel != "" {
		crowdLevel = req.CrowdLevel
	}
	var attachments interface{}
	if len(req.Attachments) > 0 {
		b, err := json.Marshal(req.Attachments)
		if err != nil {
			return nil, fmt.Errorf("failed to encode attachments: %w", err)
		}
		attachments = string(b)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reports
		 (id, reporter, polling_station, type, description, severity, crowd_level, attachments)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.Reporter, req.PollingStation, req.Type, req.Description,
		severity, crowdLevel, attachments)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("reporter or polling station does not exist: %w", err)
		}
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Update mutates a report's review fields (status, severity, verification).
func (s *ReportService) Update(ctx context.Context, id string, req models.UpdateReportRequest) (*models.Report, error) {
	updates := []string{}
	args := []interface{}{}

	if req.Status != nil {
		updates = append(updates, "status = ?")
		args = append(args, *req.Status)
	}
	if req.Severity != nil {
		updates = append(updates, "severity = ?")
		args = append(args, *req.Severity)
	}
	if req.IsVerified != nil {
		updates = append(updates, "is_verified = ?")
		args = append(args, *req.IsVerified)
	}
	if req.VerifiedBy != nil {
		updates = append(updates, "verified_by = ?")
		args = append(args, *req.VerifiedBy)
	}

	if len(updates) > 0 {
		args = append(args, id)
		_, err := s.db.ExecContext(ctx,
			"UPDATE reports SET "+strings.Join(updates, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update report: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

// CountOpenIssues counts issue reports still awaiting resolution (reported
// or under_review), used by the admin dashboard. Crowd-level updates and
// observations are not issues and never count as open.
func (s *ReportService) CountOpenIssues(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE type = 'issue' AND status IN ('reported', 'under_review')").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count open issues: %w", err)
	}
	return n, nil
}

// CountIssuesBySeverity counts issue reports of a given severity, used by
// the analyst dashboard anomaly figure. Other report types carry a severity
// too but are not anomalies.
func (s *ReportService) CountIssuesBySeverity(ctx context.Context, severity string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE type = 'issue' AND severity = ?", severity).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count issues by severity: %w", err)
	}
	return n, nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "foreign key constraint")
}
