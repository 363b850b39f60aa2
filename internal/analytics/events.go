// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package analytics

import (
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
)

const eventNamePrefix = "CYPHER_AGENT"

// baseProperties are the base properties attached to a MixPanel "track" event.
// DistinctID tells executions apart; InsertID deduplicates retried messages.
type baseProperties struct {
	Token      string `json:"token"`
	Time       int64  `json:"time"`
	DistinctID string `json:"distinct_id"`
	InsertID   string `json:"$insert_id"`
	Uptime     int64  `json:"uptime"`
}

type startupProperties struct {
	baseProperties
	Command string `json:"command"`
}

type osInfoProperties struct {
	baseProperties
	OS     string `json:"os"`
	OSArch string `json:"os_arch"`
	Aura   bool   `json:"aura"`
}

type toolsProperties struct {
	baseProperties
	ToolUsed string `json:"tools_used"`
}

type validationProperties struct {
	baseProperties
	Valid     bool `json:"valid"`
	ChecksRun int  `json:"checks_run"`
}

// TrackEvent is one MixPanel event.
type TrackEvent struct {
	Event      string `json:"event"`
	Properties any    `json:"properties"`
}

func eventName(name string) string {
	return strings.Join([]string{eventNamePrefix, name}, "_")
}

func (c *Client) NewStartupEvent(command string) TrackEvent {
	return TrackEvent{
		Event: eventName("STARTUP"),
		Properties: startupProperties{
			baseProperties: c.baseProperties(),
			Command:        command,
		},
	}
}

func (c *Client) NewOSInfoEvent(dbURI string) TrackEvent {
	return TrackEvent{
		Event: eventName("OS_INFO"),
		Properties: osInfoProperties{
			baseProperties: c.baseProperties(),
			OS:             runtime.GOOS,
			OSArch:         runtime.GOARCH,
			Aura:           strings.Contains(dbURI, "databases.neo4j.io"),
		},
	}
}

func (c *Client) NewToolsEvent(toolsUsed string) TrackEvent {
	return TrackEvent{
		Event: eventName("TOOL_USED"),
		Properties: toolsProperties{
			baseProperties: c.baseProperties(),
			ToolUsed:       toolsUsed,
		},
	}
}

// NewValidationEvent records the outcome of a validation run, never the
// statement itself.
func (c *Client) NewValidationEvent(valid bool, checksRun int) TrackEvent {
	return TrackEvent{
		Event: eventName("VALIDATION"),
		Properties: validationProperties{
			baseProperties: c.baseProperties(),
			Valid:          valid,
			ChecksRun:      checksRun,
		},
	}
}

func (c *Client) baseProperties() baseProperties {
	now := time.Now()
	return baseProperties{
		Token:      c.token,
		DistinctID: c.distinctID,
		Time:       now.UnixMilli(),
		InsertID:   c.newInsertID(),
		Uptime:     now.Unix() - c.startupTime,
	}
}

func (c *Client) newInsertID() string {
	insertID, err := uuid.NewV6()
	if err != nil {
		c.log.Debug("error while generating analytics insert id", "error", err)
		return ""
	}
	return insertID.String()
}
