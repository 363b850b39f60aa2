// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cypher

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/cypher-agent/internal/tools"
)

func GenerateCypherHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleGenerateCypher(ctx, request, deps)
	}
}

func handleGenerateCypher(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if result := checkDependencies(deps, "generate-cypher"); result != nil {
		return result, nil
	}

	var args GenerateCypherInput
	if err := request.BindArguments(&args); err != nil {
		deps.Log.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(args.Question) == "" {
		errMessage := "Question parameter is required and cannot be empty"
		deps.Log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	schema := args.Schema
	if schema == "" {
		var err error
		if schema, err = deps.Pipeline.FetchSchema(ctx); err != nil {
			return errorResult(deps, "failed to fetch schema", err), nil
		}
	}

	generated, err := deps.Pipeline.Generate(ctx, args.Question, schema)
	if err != nil {
		return errorResult(deps, "failed to generate cypher", err), nil
	}
	return tools.CreateLLMResponse(tools.SummaryCypherGenerated, generated, tools.NextStepsAfterGenerate...).ToResult(), nil
}
