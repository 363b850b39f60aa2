// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cli

import (
	"github.com/neo4j/cypher-agent/internal/server"
	"github.com/neo4j/cypher-agent/internal/tools"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the agent as an MCP server over stdio or streamable HTTP",
		Long: `serve registers get-schema, validate-cypher, generate-cypher and ask-graph as MCP
tools. Without a usable language model configuration only get-schema and
validate-cypher are offered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd, opts, modelIfConfigured)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			srv := server.NewAgentServer(version, rt.cfg, &tools.ToolDependencies{
				Pipeline:         rt.pipeline,
				AnalyticsService: rt.analytics,
				Log:              rt.log,
			})
			if err := srv.Start(cmd.Context()); err != nil {
				return rt.fail("Server error", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.transport, "transport", "", "MCP transport: stdio or http (overrides CYPHER_AGENT_TRANSPORT)")
	cmd.Flags().StringVar(&opts.host, "host", "", "HTTP bind host (overrides CYPHER_AGENT_HTTP_HOST)")
	cmd.Flags().StringVar(&opts.port, "port", "", "HTTP port (overrides CYPHER_AGENT_HTTP_PORT)")
	return cmd
}
