package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show daemon health and record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ctx.apiClient().Health(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, status)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			runningKind := statusError
			runningText := "stopped"
			if status.Running {
				runningKind = statusOK
				runningText = "running"
			}
			erroredKind := statusOK
			if status.Health.Errored > 0 {
				erroredKind = statusWarn
			}

			lines := []string{
				renderStatusLine("Daemon", runningKind, runningText, colorize),
				fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Store:", status.StorePath),
				fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Lock file:", status.LockFilePath),
				fmt.Sprintf("%s%-*s %d", statusIndent, statusLabelWidth, "Submissions:", status.Health.Total),
				fmt.Sprintf("%s%-*s %d", statusIndent, statusLabelWidth, "Processing:", status.Health.Processing),
				fmt.Sprintf("%s%-*s %d", statusIndent, statusLabelWidth, "Published:", status.Health.Published),
				renderStatusLine("Errored", erroredKind, strconv.Itoa(status.Health.Errored), colorize),
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}
