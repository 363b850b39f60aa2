// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package cypher exposes the agent pipeline as MCP tools.
package cypher

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/cypher-agent/internal/mcpclient"
	"github.com/neo4j/cypher-agent/internal/tools"
)

// checkDependencies records the tool use and returns an error result when
// the handler cannot run.
func checkDependencies(deps *tools.ToolDependencies, toolName string) *mcp.CallToolResult {
	if deps.AnalyticsService == nil {
		errMessage := "analytics service is not initialized"
		deps.Log.Error(errMessage)
		return mcp.NewToolResultError(errMessage)
	}
	if deps.Pipeline == nil {
		errMessage := "agent pipeline is not initialized"
		deps.Log.Error(errMessage)
		return mcp.NewToolResultError(errMessage)
	}

	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewToolsEvent(toolName))
	return nil
}

// errorResult logs err once and turns it into a tool error result.
func errorResult(deps *tools.ToolDependencies, message string, err error) *mcp.CallToolResult {
	attrs := []any{"error", err}
	if kind := mcpclient.KindOf(err); kind != nil {
		attrs = append(attrs, "kind", kind.Error())
	}
	deps.Log.Error(message, attrs...)
	return mcp.NewToolResultError(err.Error())
}
