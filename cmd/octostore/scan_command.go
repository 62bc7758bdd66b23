package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"octostore/internal/store"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan <owner/repo>",
		Short: "Request a targeted scan of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fullName := args[0]
			if _, _, err := store.ParseRepoFullName(fullName); err != nil {
				return err
			}

			request, err := ctx.apiClient().RequestScan(cmd.Context(), fullName)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, request)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scan requested for %s\n", request.FullName())
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}
