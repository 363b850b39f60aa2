// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cypher

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/cypher-agent/internal/tools"
)

func AskGraphHandler(deps *tools.ToolDependencies) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleAskGraph(ctx, request, deps)
	}
}

func handleAskGraph(ctx context.Context, request mcp.CallToolRequest, deps *tools.ToolDependencies) (*mcp.CallToolResult, error) {
	if result := checkDependencies(deps, "ask-graph"); result != nil {
		return result, nil
	}

	var args AskGraphInput
	if err := request.BindArguments(&args); err != nil {
		deps.Log.Error("error binding arguments", "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(args.Question) == "" {
		errMessage := "Question parameter is required and cannot be empty"
		deps.Log.Error(errMessage)
		return mcp.NewToolResultError(errMessage), nil
	}

	answer, err := deps.Pipeline.Answer(ctx, args.Question)
	if err != nil {
		return errorResult(deps, "failed to answer question", err), nil
	}
	deps.AnalyticsService.EmitEvent(deps.AnalyticsService.NewValidationEvent(answer.Report.Valid(), answer.Report.Checks()))

	switch {
	case answer.Executed:
		return tools.CreateLLMResponse(tools.SummaryQuestionAnswered, answer).ToResult(), nil
	case !answer.Report.Valid():
		return tools.CreateLLMResponse(tools.SummaryQuestionValidated, answer, tools.NextStepsAfterInvalid...).ToResult(), nil
	default:
		return tools.CreateLLMResponse(tools.SummaryQuestionValidated, answer, tools.NextStepsAfterValid...).ToResult(), nil
	}
}
