package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"electionwatch/models"
)

// StationService handles polling station document operations.
type StationService struct {
	db *sql.DB
}

// NewStationService creates a new station service instance.
func NewStationService(db *sql.DB) *StationService {
	return &StationService{db: db}
}

// Station queries join the referenced official so list/get responses come
// back populated, mirroring the document-store populate behavior.
const stationSelect = `
	SELECT s.id, s.name, s.address, s.latitude, s.longitude, s.capacity,
	       s.current_crowd_level, s.voting_start, s.voting_end,
	       s.total_voters, s.voters_turnout, s.is_open,
	       s.last_crowd_level_update, s.created_at, s.updated_at,
	       o.id, o.name, o.email
	FROM polling_stations s
	LEFT JOIN users o ON o.id = s.official_in_charge`

func scanStation(row interface{ Scan(...interface{}) error }) (*models.PollingStation, error) {
	var st models.PollingStation
	var lat, lng sql.NullFloat64
	var votingStart, votingEnd sql.NullString
	var lastUpdate sql.NullTime
	var officialID, officialName, officialEmail sql.NullString

	err := row.Scan(&st.ID, &st.Name, &st.Location.Address, &lat, &lng, &st.Capacity,
		&st.CurrentCrowdLevel, &votingStart, &votingEnd,
		&st.TotalVoters, &st.VotersTurnout, &st.IsOpen,
		&lastUpdate, &st.CreatedAt, &st.UpdatedAt,
		&officialID, &officialName, &officialEmail)
	if err != nil {
		return nil, err
	}

	if lat.Valid {
		st.Location.Latitude = &lat.Float64
	}
	if lng.Valid {
		st.Location.Longitude = &lng.Float64
	}
	st.VotingHours.StartTime = votingStart.String
	st.VotingHours.EndTime = votingEnd.String
	if lastUpdate.Valid {
		st.LastCrowdLevelUpdate = &lastUpdate.Time
	}
	if officialID.Valid {
		st.OfficialInCharge = &models.UserRef{
			ID:    officialID.String,
			Name:  officialName.String,
			Email: officialEmail.String,
		}
	}
	return &st, nil
}

func (s *StationService) queryStations(ctx context.Context, where string, args ...interface{}) ([]models.PollingStation, error) {
	q := stationSelect
	if where != "" {
		q += " WHERE " + where
	}
	q += " ORDER BY s.created_at"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	stations := []models.PollingStation{}
	for rows.Next() {
		st, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, *st)
	}
	return stations, rows.Err()
}

// List returns all polling stations with the official populated.
func (s *StationService) List(ctx context.Context) ([]models.PollingStation, error) {
	return s.queryStations(ctx, "")
}

// GetByID returns a single station or ErrNotFound.
func (s *StationService) GetByID(ctx context.Context, id string) (*models.PollingStation, error) {
	st, err := scanStation(s.db.QueryRowContext(ctx, stationSelect+" WHERE s.id = ?", id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query station: %w", err)
	}
	return st, nil
}

// FilterByCrowdLevel returns exactly the stations whose level matches.
func (s *StationService) FilterByCrowdLevel(ctx context.Context, level string) ([]models.PollingStation, error) {
	return s.queryStations(ctx, "s.current_crowd_level = ?", level)
}

// Create persists a new station. The crowd level always starts at low and
// the station opens by default.
func (s *StationService) Create(ctx context.Context, req models.CreateStationRequest) (*models.PollingStation, error) {
	id := uuid.NewString()
	var official interface{}
	if req.OfficialInCharge != "" {
		official = req.OfficialInCharge
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO polling_stations
		 (id, name, address, latitude, longitude, capacity, voting_start, voting_end,
		  official_in_charge, total_voters)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, req.Name, req.Location.Address, req.Location.Latitude, req.Location.Longitude,
		req.Capacity, req.VotingHours.StartTime, req.VotingHours.EndTime,
		official, req.TotalVoters)
	if err != nil {
		return nil, fmt.Errorf("failed to insert station: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Update applies a partial station update and returns the updated document.
func (s *StationService) Update(ctx context.Context, id string, req models.UpdateStationRequest) (*models.PollingStation, error) {
	updates := []string{}
	args := []interface{}{}

	if req.Name != nil {
		updates = append(updates, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Location != nil {
		updates = append(updates, "address = ?", "latitude = ?", "longitude = ?")
		args = append(args, req.Location.Address, req.Location.Latitude, req.Location.Longitude)
	}
	if req.Capacity != nil {
		updates = append(updates, "capacity = ?")
		args = append(args, *req.Capacity)
	}
	if req.CurrentCrowdLevel != nil {
		updates = append(updates, "current_crowd_level = ?", "last_crowd_level_update = NOW()")
		args = append(args, *req.CurrentCrowdLevel)
	}
	if req.VotingHours != nil {
		updates = append(updates, "voting_start = ?", "voting_end = ?")
		args = append(args, req.VotingHours.StartTime, req.VotingHours.EndTime)
	}
	if req.IsOpen != nil {
		updates = append(updates, "is_open = ?")
		args = append(args, *req.IsOpen)
	}
	if req.VotersTurnout != nil {
		updates = append(updates, "voters_turnout = ?")
		args = append(args, *req.VotersTurnout)
	}

	if len(updates) > 0 {
		args = append(args, id)
		_, err := s.db.ExecContext(ctx,
			"UPDATE polling_stations SET "+strings.Join(updates, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return nil, fmt.Errorf("failed to update station: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

// Delete removes a station by id.
func (s *StationService) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM polling_stations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete station: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get delete status: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// OfficialEmail returns the email of the official in charge of a station,
// or ErrNotFound when the station has no official assigned.
func (s *StationService) OfficialEmail(stationID string) (string, error) {
	var email sql.NullString
	err := s.db.QueryRow(
		`SELECT o.email FROM polling_stations s
		 LEFT JOIN users o ON o.id = s.official_in_charge
		 WHERE s.id = ?`, stationID).Scan(&email)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to query official: %w", err)
	}
	if !email.Valid || email.String == "" {
		return "", ErrNotFound
	}
	return email.String, nil
}

// UpdateCrowdLevel overwrites the station's crowd level and stamps the
// update time. Repeating the same level is a no-op on the level itself but
// still moves the timestamp.
func (s *StationService) UpdateCrowdLevel(ctx context.Context, id, level string) (*models.PollingStation, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE polling_stations
		 SET current_crowd_level = ?, last_crowd_level_update = NOW()
		 WHERE id = ?`, level, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update crowd level: %w", err)
	}
	// MySQL reports 0 affected rows both for a missing id and for an
	// identical value with CLIENT_FOUND_ROWS off, so re-read to decide.
	if rows, _ := result.RowsAffected(); rows == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return s.GetByID(ctx, id)
}
