// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

// Package tba is a thin client for The Blue Alliance read API (v3).
//
// The client deliberately has no retry or caching layer. Connectivity
// failures and non-200 responses both yield a nil value with no error;
// callers treat nil as "not found / unavailable" and decide whether that is
// a 404 for their own caller.
package tba

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/frc1678/kestrel/internal/logging"
	"github.com/frc1678/kestrel/internal/metrics"
)

// DefaultBaseURL is the TBA read API root.
const DefaultBaseURL = "https://www.thebluealliance.com/api/v3"

// authHeader carries the TBA read key.
const authHeader = "X-TBA-Auth-Key"

// Client issues authenticated GET requests against the TBA API.
type Client struct {
	baseURL    string
	key        string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client with the given read key.
func New(key string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		key:        key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request fetches the given relative path (e.g. "event/2026casd/matches/simple")
// and returns the decoded JSON value, or nil when the API is unreachable or
// answers with any non-200 status.
func (c *Client) Request(ctx context.Context, path string) (interface{}, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(authHeader, c.key)

	logging.Debug().Str("url", url).Msg("starting TBA request")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Warn().Str("url", url).Err(err).Msg("TBA request failed")
		metrics.RecordTBARequest("unavailable")
		return nil, nil
	}
	defer resp.Body.Close()
	logging.Debug().Str("url", url).Int("status", resp.StatusCode).Msg("finished TBA request")

	if resp.StatusCode != http.StatusOK {
		metrics.RecordTBARequest("unavailable")
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordTBARequest("unavailable")
		return nil, nil
	}

	var value interface{}
	if err := json.Unmarshal(body, &value); err != nil {
		logging.Warn().Str("url", url).Err(err).Msg("TBA response is not valid JSON")
		metrics.RecordTBARequest("unavailable")
		return nil, nil
	}

	metrics.RecordTBARequest("ok")
	return value, nil
}
