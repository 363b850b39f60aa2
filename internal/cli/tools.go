// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

func newToolsCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the connected MCP clients and the tools they advertise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd, opts, needClients)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			listing := make(map[string][]mcp.Tool)
			var order []string
			for _, c := range rt.registry.Clients() {
				tools, err := c.ListTools(cmd.Context())
				if err != nil {
					return rt.fail("Failed to list tools of "+c.Name(), err)
				}
				listing[c.Name()] = tools
				order = append(order, c.Name())
			}

			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), listing)
			}
			printTools(cmd.OutOrStdout(), order, listing)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text | json")
	return cmd
}

func printTools(w io.Writer, order []string, listing map[string][]mcp.Tool) {
	for _, name := range order {
		fmt.Fprintf(w, "%s (%d tools)\n", name, len(listing[name]))
		for _, tool := range listing[name] {
			description := strings.TrimSpace(strings.SplitN(strings.TrimSpace(tool.Description), "\n", 2)[0])
			if description == "" {
				fmt.Fprintf(w, "  - %s\n", tool.Name)
				continue
			}
			fmt.Fprintf(w, "  - %s: %s\n", tool.Name, description)
		}
	}
}
