// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cypher

import (
	"github.com/mark3labs/mcp-go/mcp"
)

type GenerateCypherInput struct {
	Question string `json:"question" jsonschema:"required,description=The natural-language question to translate into Cypher"`
	Schema   string `json:"schema,omitempty" jsonschema:"description=Graph schema to generate against. Fetched from the schema tool when omitted"`
}

func GenerateCypherSpec() mcp.Tool {
	return mcp.NewTool("generate-cypher",
		mcp.WithDescription("generate-cypher asks the language model for a Cypher statement answering the question. The statement is returned unvalidated; use validate-cypher on it before running it."),
		mcp.WithInputSchema[GenerateCypherInput](),
		mcp.WithTitleAnnotation("Generate Cypher"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
