// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cypher

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/cypher-agent/internal/agent"
	"github.com/neo4j/cypher-agent/internal/tools"
)

func ValidateCypherHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleValidateCypher(ctx, request, deps)
	}
}

func handleValidateCypher(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if result := checkDependencies(deps, "validate-cypher"); result != nil {
		return result, nil
	}

	var args ValidateCypherInput
	if err := request.BindArguments(&args); err != nil {
		deps.Log.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(args.Query) == "" {
		errMessage := "Query parameter is required and cannot be empty"
		deps.Log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	report, err := deps.Pipeline.Validate(ctx, agent.QueryRequest{Cypher: args.Query, Params: args.Params})
	if err != nil {
		return errorResult(deps, "failed to validate cypher", err), nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewValidationEvent(report.Valid(), report.Checks()))

	if !report.Valid() {
		return tools.CreateLLMResponse(tools.SummaryCypherInvalid, report, tools.NextStepsAfterInvalid...).ToResult(), nil
	}
	return tools.CreateLLMResponse(tools.SummaryCypherValid, report, tools.NextStepsAfterValid...).ToResult(), nil
}
