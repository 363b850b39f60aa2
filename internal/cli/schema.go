// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the graph schema reported by the schema tool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd, opts, needClients)
			if err != nil {
				return err
			}
			defer rt.close(cmd.Context())

			schema, err := rt.pipeline.FetchSchema(cmd.Context())
			if err != nil {
				return rt.fail("Failed to fetch schema", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), schema)
			return err
		},
	}
}
