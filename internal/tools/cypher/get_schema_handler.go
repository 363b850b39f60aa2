// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cypher

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/cypher-agent/internal/tools"
)

// GetSchemaHandler returns a handler function for the get-schema tool
func GetSchemaHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGetSchema(ctx, deps)
	}
}

func handleGetSchema(ctx context.Context, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if result := checkDependencies(deps, "get-schema"); result != nil {
		return result, nil
	}

	schema, err := deps.Pipeline.FetchSchema(ctx)
	if err != nil {
		return errorResult(deps, "failed to fetch schema", err), nil
	}
	if schema == "" {
		deps.Log.Warn("schema tool returned an empty schema")
	}
	return tools.CreateLLMResponse(tools.SummarySchemaRetrieved, schema, tools.NextStepsAfterSchema...).ToResult(), nil
}
