// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// LLMResponseWrapper provides a standardized response format for all MCP tools
// with Summary, Data, and Next_steps fields
type LLMResponseWrapper[T any] struct {
	Summary   string   `json:"summary"`
	Data      T        `json:"data"`
	NextSteps []string `json:"next_steps,omitempty"`
}

// CreateLLMResponse creates a standardized LLM response with the given data
func CreateLLMResponse[T any](summary string, data T, nextSteps ...string) LLMResponseWrapper[T] {
	return LLMResponseWrapper[T]{
		Summary:   summary,
		Data:      data,
		NextSteps: nextSteps,
	}
}

// ToJSON converts the LLMResponseWrapper to pretty JSON for LLM consumption
func (r LLMResponseWrapper[T]) ToJSON() (string, error) {
	bytes, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal LLM response to JSON: %w", err)
	}
	return string(bytes), nil
}

// ToResult renders the wrapper as a text tool result.
func (r LLMResponseWrapper[T]) ToResult() *mcp.CallToolResult {
	text, err := r.ToJSON()
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(text)
}

// Common response summaries that can be reused across tools
const (
	SummarySchemaRetrieved   = "Schema information has been successfully retrieved from the schema tool."
	SummaryCypherGenerated   = "A Cypher statement has been generated. It has not been validated yet."
	SummaryCypherValid       = "The Cypher statement passed the syntax, schema and properties checks."
	SummaryCypherInvalid     = "The Cypher statement did not pass validation. See the report for the failing checks."
	SummaryQuestionAnswered  = "The question has been translated to Cypher, validated and executed."
	SummaryQuestionValidated = "The question has been translated to Cypher and validated. The statement was not executed."
)

// Common next steps that can be reused across tools
var (
	NextStepsAfterSchema = []string{
		"Examine the schema to understand the available nodes, relationships, and properties",
		"Use generate-cypher to translate a question into Cypher against this schema",
	}

	NextStepsAfterGenerate = []string{
		"Use validate-cypher to check the generated statement before running it",
	}

	NextStepsAfterInvalid = []string{
		"Inspect the metadata of the failing check",
		"Rephrase the question or fix the statement and validate it again",
	}

	NextStepsAfterValid = []string{
		"Run the statement with a read-only Cypher tool",
	}
)
