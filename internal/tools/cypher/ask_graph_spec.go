// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cypher

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type AskGraphInput struct {
	Question string `json:"question" jsonschema:"required,description=The natural-language question to answer from the graph"`
}

func AskGraphSpec() mcp.Tool {
	return mcp.NewTool("ask-graph",
		mcp.WithDescription("ask-graph fetches the schema, generates a Cypher statement for the question and validates it. When query execution is enabled and the statement is valid and read-only, it is executed and the records are returned."),
		mcp.WithInputSchema[AskGraphInput](),
		mcp.WithTitleAnnotation("Ask the Graph"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
