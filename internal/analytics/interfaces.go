// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package analytics

import (
	"io"
	"net/http"
)

//go:generate mockgen -destination=mocks/mock_analytics.go -package=analytics_mocks github.com/neo4j/cypher-agent/internal/analytics Service

// Service emits usage events. A disabled service accepts and drops them.
type Service interface {
	Enabled() bool
	EmitEvent(event TrackEvent)
	NewStartupEvent(command string) TrackEvent
	NewOSInfoEvent(dbURI string) TrackEvent
	NewToolsEvent(toolsUsed string) TrackEvent
	NewValidationEvent(valid bool, checksRun int) TrackEvent
}

// HTTPClient is the part of *http.Client used to post events.
type HTTPClient interface {
	Post(url, contentType string, body io.Reader) (*http.Response, error)
}
