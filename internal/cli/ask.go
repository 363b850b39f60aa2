// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Generate and validate Cypher for a question, running it when allowed",
		Long: `ask fetches the graph schema, has the language model write a Cypher statement
for the question and validates it. With --execute, a fully valid read-only
statement is also run and its records are printed.

Exit codes: 0 success, 1 failure, 2 the statement did not pass validation,
3 execution was requested but the statement is not read-only.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, strings.Join(args, " "))
		},
	}
}

func runAsk(cmd *cobra.Command, opts *rootOptions, question string) error {
	rt, err := setup(cmd, opts, needModel)
	if err != nil {
		return err
	}
	defer rt.close(cmd.Context())
	rt.analytics.EmitEvent(rt.analytics.NewStartupEvent("ask"))

	answer, err := rt.pipeline.Answer(cmd.Context(), question)
	if err != nil {
		return rt.fail("Failed to answer question", err)
	}
	rt.analytics.EmitEvent(rt.analytics.NewValidationEvent(answer.Report.Valid(), answer.Report.Checks()))

	if err := writeJSON(cmd.OutOrStdout(), answer); err != nil {
		return err
	}
	switch {
	case !answer.Report.Valid():
		return exitError(exitInvalid, "generated statement did not pass validation")
	case rt.pipeline.CanExecute() && !answer.Executed:
		return exitError(exitNotAllowed, "statement was not executed: %s", answer.SkippedReason)
	}
	return nil
}
