// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

// Package cli implements the cypher-agent command tree.
package cli

import (
	"fmt"

	"github.com/neo4j/cypher-agent/internal/config"
	"github.com/spf13/cobra"
)

const longHelp = `cypher-agent turns natural-language questions into Cypher for a Neo4j graph.

The graph schema comes from an MCP schema server (mcp-neo4j-cypher by default)
and every generated statement is checked by an MCP validation server (cyver by
default) for syntax, schema conformance and property usage. The MCP servers are
described in a YAML clients file:

  clients:
    - command: uvx
      args: [mcp-neo4j-cypher]
      env:
        NEO4J_URI: bolt://localhost:7687
        NEO4J_PASSWORD: ${NEO4J_PASSWORD}
    - url: http://localhost:8000/mcp

Environment Variables:
  CYPHER_AGENT_CLIENTS_FILE    Clients file (default: mcp-clients.yaml)
  CYPHER_AGENT_TOOL_TIMEOUT    Timeout per tool call (default: 30s)
  CYPHER_AGENT_LLM_PROVIDER    openai, anthropic or ollama (default: openai)
  CYPHER_AGENT_LLM_MODEL       Model name (provider specific default)
  CYPHER_AGENT_LLM_API_KEY     API key (falls back to OPENAI_API_KEY / ANTHROPIC_API_KEY)
  CYPHER_AGENT_EXECUTE         Run valid read-only statements against Neo4j (default: false)
  NEO4J_URI, NEO4J_USERNAME, NEO4J_PASSWORD, NEO4J_DATABASE
  CYPHER_AGENT_LOG_LEVEL       Log level (default: info)
  CYPHER_AGENT_LOG_FORMAT      text or json (default: text)
  CYPHER_AGENT_TELEMETRY       Enable usage telemetry (default: false)
  OTEL_EXPORTER_OTLP_TRACES_ENDPOINT  Export traces over OTLP/HTTP`

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	clientsFile   string
	toolTimeout   string
	logLevel      string
	llmProvider   string
	llmModel      string
	execute       string
	neo4jURI      string
	neo4jUsername string
	neo4jPassword string
	neo4jDatabase string

	transport string
	host      string
	port      string
}

func (o *rootOptions) overrides() *config.CLIOverrides {
	return &config.CLIOverrides{
		ClientsFile:   o.clientsFile,
		ToolTimeout:   o.toolTimeout,
		LLMProvider:   o.llmProvider,
		LLMModel:      o.llmModel,
		Execute:       o.execute,
		Neo4jURI:      o.neo4jURI,
		Neo4jUsername: o.neo4jUsername,
		Neo4jPassword: o.neo4jPassword,
		Neo4jDatabase: o.neo4jDatabase,
		LogLevel:      o.logLevel,
		TransportMode: o.transport,
		Host:          o.host,
		Port:          o.port,
	}
}

// NewRootCmd creates the cypher-agent command with all subcommands attached.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "cypher-agent",
		Short: "Generate and validate Cypher with MCP tools",
		Long:  longHelp,
		// SilenceUsage prevents printing usage on every error
		SilenceUsage: true,
		Version:      version,
	}
	root.SetVersionTemplate(fmt.Sprintf("cypher-agent version %s\n", version))

	flags := root.PersistentFlags()
	flags.StringVar(&opts.clientsFile, "clients", "", "MCP clients file (overrides CYPHER_AGENT_CLIENTS_FILE)")
	flags.StringVar(&opts.toolTimeout, "tool-timeout", "", "Timeout per tool call, e.g. 45s (overrides CYPHER_AGENT_TOOL_TIMEOUT)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (overrides CYPHER_AGENT_LOG_LEVEL)")
	flags.StringVar(&opts.llmProvider, "llm-provider", "", "Language model provider (overrides CYPHER_AGENT_LLM_PROVIDER)")
	flags.StringVar(&opts.llmModel, "llm-model", "", "Language model (overrides CYPHER_AGENT_LLM_MODEL)")
	flags.StringVar(&opts.execute, "execute", "", "Execute valid read-only statements: true or false (overrides CYPHER_AGENT_EXECUTE)")
	flags.StringVar(&opts.neo4jURI, "neo4j-uri", "", "Neo4j connection URI (overrides NEO4J_URI)")
	flags.StringVar(&opts.neo4jUsername, "neo4j-username", "", "Database username (overrides NEO4J_USERNAME)")
	flags.StringVar(&opts.neo4jPassword, "neo4j-password", "", "Database password (overrides NEO4J_PASSWORD)")
	flags.StringVar(&opts.neo4jDatabase, "neo4j-database", "", "Database name (overrides NEO4J_DATABASE)")

	root.AddCommand(newAskCmd(opts))
	root.AddCommand(newValidateCmd(opts))
	root.AddCommand(newSchemaCmd(opts))
	root.AddCommand(newToolsCmd(opts))
	root.AddCommand(newServeCmd(opts, version))
	return root
}
