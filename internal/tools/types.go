// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package tools holds what the MCP tool handlers share.
package tools

import (
	"github.com/neo4j/cypher-agent/internal/agent"
	"github.com/neo4j/cypher-agent/internal/analytics"
	"github.com/neo4j/cypher-agent/internal/logger"
)

// ToolDependencies contains all dependencies needed by tools
type ToolDependencies struct {
	Pipeline         *agent.Pipeline
	AnalyticsService analytics.Service
	Log              *logger.Service
}
