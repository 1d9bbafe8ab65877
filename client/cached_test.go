package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electionwatch/models"
	"electionwatch/session"
)

func snapshotServer(stations []models.PollingStation) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := len(stations)
		json.NewEncoder(w).Encode(models.Response{Success: true, Count: &count, Data: stations})
	}))
}

func TestCachedStationsRefreshesSnapshot(t *testing.T) {
	server := snapshotServer([]models.PollingStation{
		{ID: "s1", Name: "Central School", CurrentCrowdLevel: models.CrowdLow},
	})
	defer server.Close()

	store := session.NewStore()
	cached := NewCached(New(server.URL), store)

	stations, err := cached.Stations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)

	// The fetch left a fresh copy behind in the store.
	snapshot, ok := store.StationsCached()
	assert.True(t, ok)
	if assert.Len(t, snapshot, 1) {
		assert.Equal(t, "s1", snapshot[0].ID)
	}
}

func TestCachedStationsServesSnapshotWhenUnreachable(t *testing.T) {
	server := snapshotServer([]models.PollingStation{
		{ID: "s1", Name: "Central School", CurrentCrowdLevel: models.CrowdHigh},
		{ID: "s2", Name: "Town Hall", CurrentCrowdLevel: models.CrowdLow},
	})

	store := session.NewStore()
	cached := NewCached(New(server.URL), store)

	_, err := cached.Stations(context.Background())
	require.NoError(t, err)

	// Take the API down; the next call rides on the cached copy.
	server.Close()

	stations, err := cached.Stations(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, stations, 2) {
		assert.Equal(t, "s1", stations[0].ID)
		assert.Equal(t, "s2", stations[1].ID)
	}
}

func TestCachedStationsNoCacheNoServer(t *testing.T) {
	server := snapshotServer(nil)
	server.Close()

	cached := NewCached(New(server.URL), session.NewStore())

	_, err := cached.Stations(context.Background())
	assert.Error(t, err)
}

func TestCachedStationsDoesNotMaskServerErrors(t *testing.T) {
	okServer := snapshotServer([]models.PollingStation{{ID: "s1"}})
	defer okServer.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.Fail("Internal server error"))
	}))
	defer failing.Close()

	store := session.NewStore()

	// Warm the cache through a healthy server first.
	_, err := NewCached(New(okServer.URL), store).Stations(context.Background())
	require.NoError(t, err)

	// A server that answers with an error wins over the cache.
	_, err = NewCached(New(failing.URL), store).Stations(context.Background())
	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestCachedLoginPersistsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(models.OK(models.TokenResponse{
				Token: "issued-token", TokenType: "Bearer",
				User: &models.User{ID: "u1", Email: "ada@example.org", Role: models.RoleObserver},
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

	store := session.NewStore()
	cached := NewCached(New(server.URL), store)

	tokens, err := cached.Login(context.Background(), "ada@example.org", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", tokens.Token)
	assert.Equal(t, "issued-token", store.Token())
	if user := store.CurrentUser(); assert.NotNil(t, user) {
		assert.Equal(t, "u1", user.ID)
	}

	// A new client built on the same store resumes with the stored token.
	resumed := NewCached(New(server.URL), store)
	user, err := resumed.api.GetUser(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	require.NoError(t, cached.Logout())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.CurrentUser())
}
