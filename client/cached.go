package client

import (
	"context"
	"errors"
	"fmt"

	"electionwatch/models"
	"electionwatch/session"
)

// Cached wraps a Client with a session.Store so a field client keeps a
// usable station list when the API is unreachable. Successful station
// fetches refresh the store's snapshot; a transport failure falls back
// to the cached copy while it is still fresh. Server-side rejections
// are returned as-is, never masked by the cache.
type Cached struct {
	api   *Client
	store *session.Store
}

// NewCached binds a client to a session store. A token left over from a
// previous run is installed on the client so the session resumes
// without a fresh login.
func NewCached(api *Client, store *session.Store) *Cached {
	if token := store.Token(); token != "" {
		api.SetToken(token)
	}
	return &Cached{api: api, store: store}
}

// Login authenticates and persists the user and token in the store.
func (c *Cached) Login(ctx context.Context, email, password string) (*models.TokenResponse, error) {
	tokens, err := c.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := c.store.Begin(tokens.User, tokens.Token); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return tokens, nil
}

// Logout clears the stored session and the client's token.
func (c *Cached) Logout() error {
	c.api.SetToken("")
	return c.store.End()
}

// Stations lists polling stations, refreshing the cached snapshot on
// success. When the server cannot be reached at all, a fresh cached
// snapshot is served instead; an *APIError means the server answered
// and is passed through.
func (c *Cached) Stations(ctx context.Context) ([]models.PollingStation, error) {
	stations, err := c.api.ListStations(ctx)
	if err == nil {
		if cacheErr := c.store.CacheStations(stations); cacheErr != nil {
			return stations, fmt.Errorf("failed to cache stations: %w", cacheErr)
		}
		return stations, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return nil, err
	}
	if cached, ok := c.store.StationsCached(); ok {
		return cached, nil
	}
	return nil, err
}
