package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"octostore/internal/store"
)

func newSubmissionsCommand(ctx *commandContext) *cobra.Command {
	var statusFilters []string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List tracked submission records",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []store.Status
			for _, value := range statusFilters {
				status, err := store.ParseStatus(value)
				if err != nil {
					return err
				}
				statuses = append(statuses, status)
			}

			submissions, err := ctx.apiClient().Submissions(cmd.Context(), statuses...)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, submissions)
			}

			out := cmd.OutOrStdout()
			if len(submissions) == 0 {
				fmt.Fprintln(out, "No submissions tracked")
				return nil
			}

			fmt.Fprintln(out, renderSubmissionTable(submissions))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statusFilters, "status", nil, "Filter by submission status (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}
