package client

import (
	"context"
	"fmt"
	"net/http"

	"electionwatch/models"
)

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	var tokens models.TokenResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		models.LoginRequest{Email: email, Password: password}, &tokens)
	if err != nil {
		return nil, err
	}
	c.SetToken(tokens.Token)
	return &tokens, nil
}

// Register creates a user and installs the returned token on the client.
func (c *Client) Register(ctx context.Context, req models.CreateUserRequest) (*models.TokenResponse, error) {
	var tokens models.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &tokens); err != nil {
		return nil, err
	}
	c.SetToken(tokens.Token)
	return &tokens, nil
}

// ListUsers returns all users.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &users)
	return users, err
}

// GetUser returns a user by id.
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update to a user.
func (c *Client) UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/api/users/"+id, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+id, nil, nil)
}

// ListStations returns all polling stations.
func (c *Client) ListStations(ctx context.Context) ([]models.PollingStation, error) {
	var stations []models.PollingStation
	err := c.do(ctx, http.MethodGet, "/api/stations", nil, &stations)
	return stations, err
}

// GetStation returns a station by id.
func (c *Client) GetStation(ctx context.Context, id string) (*models.PollingStation, error) {
	var station models.PollingStation
	if err := c.do(ctx, http.MethodGet, "/api/stations/"+id, nil, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// CreateStation persists a new station.
func (c *Client) CreateStation(ctx context.Context, req models.CreateStationRequest) (*models.PollingStation, error) {
	var station models.PollingStation
	if err := c.do(ctx, http.MethodPost, "/api/stations", req, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// UpdateStation applies a partial update to a station.
func (c *Client) UpdateStation(ctx context.Context, id string, req models.UpdateStationRequest) (*models.PollingStation, error) {
	var station models.PollingStation
	if err := c.do(ctx, http.MethodPut, "/api/stations/"+id, req, &station); err != nil {
		return nil, err
	}
	return &station, nil
}

// DeleteStation removes a station.
func (c *Client) DeleteStation(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/stations/"+id, nil, nil)
}

// UpdateCrowdLevel sets a station's crowd level through the narrow PATCH.
func (c *Client) UpdateCrowdLevel(ctx context.Context, id, level string) (*models.PollingStation, error) {
	var station models.PollingStation
	err := c.do(ctx, http.MethodPatch, "/api/stations/"+id+"/crowd-level",
		models.CrowdLevelRequest{CurrentCrowdLevel: level}, &station)
	if err != nil {
		return nil, err
	}
	return &station, nil
}

// StationsByCrowdLevel returns the stations at the given level.
func (c *Client) StationsByCrowdLevel(ctx context.Context, level string) ([]models.PollingStation, error) {
	var stations []models.PollingStation
	err := c.do(ctx, http.MethodGet, "/api/stations/filter/crowd-level/"+level, nil, &stations)
	return stations, err
}

// ListReports returns all reports.
func (c *Client) ListReports(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := c.do(ctx, http.MethodGet, "/api/reports", nil, &reports)
	return reports, err
}

// GetReport returns a report by id.
func (c *Client) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodGet, "/api/reports/"+id, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// CreateReport submits a new report.
func (c *Client) CreateReport(ctx context.Context, req models.CreateReportRequest) (*models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodPost, "/api/reports", req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateReport mutates a report's review fields.
func (c *Client) UpdateReport(ctx context.Context, id string, req models.UpdateReportRequest) (*models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodPut, "/api/reports/"+id, req, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ReportsByStation returns all reports filed against a station.
func (c *Client) ReportsByStation(ctx context.Context, stationID string) ([]models.Report, error) {
	var reports []models.Report
	err := c.do(ctx, http.MethodGet, "/api/reports/station/"+stationID, nil, &reports)
	return reports, err
}

// ReportsByUser returns all reports filed by a user.
func (c *Client) ReportsByUser(ctx context.Context, userID string) ([]models.Report, error) {
	var reports []models.Report
	err := c.do(ctx, http.MethodGet, "/api/reports/user/"+userID, nil, &reports)
	return reports, err
}

// SubmitCrowdReport files a crowd_level report and then updates the
// station's level, mirroring the dashboard flow. The two writes are not
// atomic: a failed PATCH leaves the report in place.
func (c *Client) SubmitCrowdReport(ctx context.Context, reporterID, stationID, level, description string) (*models.Report, error) {
	report, err := c.CreateReport(ctx, models.CreateReportRequest{
		Reporter:       reporterID,
		PollingStation: stationID,
		Type:           models.ReportTypeCrowdLevel,
		Description:    description,
		CrowdLevel:     level,
	})
	if err != nil {
		return nil, err
	}

	if _, err := c.UpdateCrowdLevel(ctx, stationID, level); err != nil {
		return report, fmt.Errorf("report created but crowd level update failed: %w", err)
	}
	return report, nil
}
