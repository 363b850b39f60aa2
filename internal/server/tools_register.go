// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package server

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/neo4j/cypher-agent/internal/tools"
	"github.com/neo4j/cypher-agent/internal/tools/cypher"
)

// RegisterTools registers all enabled MCP tools and adds them to the MCP server.
// Tools that need the language model (generate-cypher, ask-graph) are left out
// when the pipeline has no model configured, so schema inspection and
// validation stay available without an API key.
func (s *AgentServer) RegisterTools() error {
	all := getAllTools(s.deps)

	if s.deps.Pipeline != nil && !s.deps.Pipeline.HasModel() {
		enabled := make([]server.ServerTool, 0, len(all))
		for _, t := range all {
			if !needsModel(t.Tool.Name) {
				enabled = append(enabled, t)
			}
		}
		s.log.Info("No language model configured, generation tools are disabled")
		s.MCPServer.AddTools(enabled...)
		return nil
	}

	s.MCPServer.AddTools(all...)
	return nil
}

func needsModel(toolName string) bool {
	return toolName == "generate-cypher" || toolName == "ask-graph"
}

// getAllTools returns all available tools with their specs and handlers
func getAllTools(deps *tools.ToolDependencies) []server.ServerTool {
	return []server.ServerTool{
		{
			Tool:    cypher.GetSchemaSpec(),
			Handler: cypher.GetSchemaHandler(deps),
		},
		{
			Tool:    cypher.ValidateCypherSpec(),
			Handler: cypher.ValidateCypherHandler(deps),
		},
		{
			Tool:    cypher.GenerateCypherSpec(),
			Handler: cypher.GenerateCypherHandler(deps),
		},
		{
			Tool:    cypher.AskGraphSpec(),
			Handler: cypher.AskGraphHandler(deps),
		},
	}
}
