// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package analytics sends opt-in usage telemetry to a MixPanel-compatible
// track endpoint.
package analytics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/cypher-agent/internal/logger"
)

// Client is the Service implementation. The zero value is disabled.
type Client struct {
	enabled     bool
	token       string
	endpoint    string
	distinctID  string
	startupTime int64
	http        HTTPClient
	log         *logger.Service
}

var _ Service = (*Client)(nil)

// Disabled returns a service that drops every event.
func Disabled() *Client {
	return &Client{log: logger.Discard()}
}

// New creates an enabled service posting to endpoint with http.
func New(token, endpoint string, httpClient HTTPClient, log *logger.Service) (*Client, error) {
	distinctID, err := uuid.NewV6()
	if err != nil {
		return nil, fmt.Errorf("error while generating distinct id for analytics purpose: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Client{
		enabled:     true,
		token:       token,
		endpoint:    endpoint,
		distinctID:  distinctID.String(),
		startupTime: time.Now().Unix(),
		http:        httpClient,
		log:         log,
	}, nil
}

// Enabled reports whether events are sent.
func (c *Client) Enabled() bool {
	return c != nil && c.enabled
}

// EmitEvent posts event. Failures are logged and never returned.
func (c *Client) EmitEvent(event TrackEvent) {
	if !c.Enabled() {
		return
	}

	c.log.Debug("sending analytics event", "event", event.Event)
	if err := c.sendTrackEvent([]TrackEvent{event}); err != nil {
		c.log.Warn("error while sending analytics events", "event", event.Event, "error", err)
	}
}

func (c *Client) sendTrackEvent(events []TrackEvent) error {
	b, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("error appear while marshalling track event: %w", err)
	}
	url := strings.TrimRight(c.endpoint, "/") + "/track"

	resp, err := c.http.Post(url, "application/json; charset=utf-8", bytes.NewBuffer(b))
	if err != nil {
		return fmt.Errorf("error while emitting analytics: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("track endpoint answered %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	c.log.Debug("analytics response", "status", resp.StatusCode, "body", string(bodyBytes))
	return nil
}
