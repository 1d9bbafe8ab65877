package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"electionwatch/models"
)

func TestClientStationsRoundTrip(t *testing.T) {
	var gotAuth, gotPath, gotMethod string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method

		count := 1
		json.NewEncoder(w).Encode(models.Response{
			Success: true,
			Count:   &count,
			Data: []models.PollingStation{
				{ID: "s1", Name: "Central School", CurrentCrowdLevel: models.CrowdHigh},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("tok123")

	stations, err := c.StationsByCrowdLevel(context.Background(), models.CrowdHigh)
	assert.NoError(t, err)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "/api/stations/filter/crowd-level/high", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)
	if assert.Len(t, stations, 1) {
		assert.Equal(t, "s1", stations[0].ID)
	}
}

func TestClientSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(models.Fail("Polling station not found"))
	}))
	defer server.Close()

	_, err := New(server.URL).GetStation(context.Background(), "nope")

	var apiErr *APIError
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "Polling station not found", apiErr.Message)
	}
}

func TestClientRejectsFalseEnvelope(t *testing.T) {
	// 200 with success=false still surfaces as an error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Fail("nope"))
	}))
	defer server.Close()

	err := New(server.URL).Health(context.Background())
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestLoginInstallsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(models.OK(models.TokenResponse{
				Token: "issued-token", RefreshToken: "refresh", TokenType: "Bearer",
			}))
		case "/api/users/u1":
			if r.Header.Get("Authorization") != "Bearer issued-token" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(models.Fail("missing authorization header"))
				return
			}
			json.NewEncoder(w).Encode(models.OK(models.User{ID: "u1"}))
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(models.Fail("Endpoint not found"))
		}
	}))
	defer server.Close()

	c := New(server.URL)
	tokens, err := c.Login(context.Background(), "ada@example.org", "correct horse")
	assert.NoError(t, err)
	assert.Equal(t, "issued-token", tokens.Token)

	user, err := c.GetUser(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestSubmitCrowdReport(t *testing.T) {
	var patched bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/reports":
			var req models.CreateReportRequest
			json.NewDecoder(r.Body).Decode(&req)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.OKMessage("Report created successfully", models.Report{
				ID: "r1", Type: req.Type, CrowdLevel: req.CrowdLevel,
			}))
		case r.Method == http.MethodPatch && r.URL.Path == "/api/stations/s1/crowd-level":
			patched = true
			json.NewEncoder(w).Encode(models.OKMessage("Crowd level updated successfully", models.PollingStation{
				ID: "s1", CurrentCrowdLevel: models.CrowdHigh,
			}))
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(models.Fail("Endpoint not found"))
		}
	}))
	defer server.Close()

	report, err := New(server.URL).SubmitCrowdReport(context.Background(),
		"u1", "s1", models.CrowdHigh, "Queue around the block")
	assert.NoError(t, err)
	assert.True(t, patched)
	assert.Equal(t, "r1", report.ID)
	assert.Equal(t, models.CrowdHigh, report.CrowdLevel)
}

func TestSubmitCrowdReportPatchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.OKMessage("Report created successfully", models.Report{ID: "r1"}))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.Fail("Internal server error"))
	}))
	defer server.Close()

	report, err := New(server.URL).SubmitCrowdReport(context.Background(),
		"u1", "s1", models.CrowdHigh, "Queue around the block")

	// The report survives even though the level update failed.
	assert.Error(t, err)
	assert.NotNil(t, report)
	assert.False(t, errors.Is(err, context.Canceled))
}
