// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cli

import (
	"encoding/json"
	"strings"

	"github.com/neo4j/cypher-agent/internal/agent"
	"github.com/spf13/cobra"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var params string

	cmd := &cobra.Command{
		Use:   "validate <cypher>",
		Short: "Validate a Cypher statement without running it",
		Long: `validate checks the statement's syntax and, when the syntax is valid, its
schema conformance and property usage. The report is printed as JSON.

Exit codes: 0 valid, 1 failure, 2 the statement did not pass validation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, strings.Join(args, " "), params)
		},
	}
	cmd.Flags().StringVar(&params, "params", "", `Statement parameters as a JSON object, e.g. '{"name":"Tom Hanks"}'`)
	return cmd
}

func runValidate(cmd *cobra.Command, opts *rootOptions, cypher, rawParams string) error {
	request := agent.QueryRequest{Cypher: cypher, Params: agent.Params{}}
	if rawParams != "" {
		if err := json.Unmarshal([]byte(rawParams), &request.Params); err != nil {
			return exitError(exitFailure, "invalid --params: %v", err)
		}
	}

	rt, err := setup(cmd, opts, needClients)
	if err != nil {
		return err
	}
	defer rt.close(cmd.Context())
	rt.analytics.EmitEvent(rt.analytics.NewStartupEvent("validate"))

	report, err := rt.pipeline.Validate(cmd.Context(), request)
	if err != nil {
		return rt.fail("Failed to validate statement", err)
	}
	rt.analytics.EmitEvent(rt.analytics.NewValidationEvent(report.Valid(), report.Checks()))

	if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
		return err
	}
	if !report.Valid() {
		return exitError(exitInvalid, "statement did not pass validation")
	}
	return nil
}
