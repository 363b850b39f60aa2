// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cypher

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/neo4j/cypher-agent/internal/agent"
)

type ValidateCypherInput struct {
	Query  string       `json:"query" jsonschema:"required,description=The Cypher statement to validate"`
	Params agent.Params `json:"params,omitempty" jsonschema:"description=Parameters the statement uses"`
}

func ValidateCypherSpec() mcp.Tool {
	return mcp.NewTool("validate-cypher",
		mcp.WithDescription("validate-cypher checks a Cypher statement's syntax and, when the syntax is valid, its conformance to the graph schema and its property usage. The statement is never executed."),
		mcp.WithInputSchema[ValidateCypherInput](),
		mcp.WithTitleAnnotation("Validate Cypher"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
	)
}
