package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"octostore/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status <owner/repo>",
		Short: "Show the submission record for a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fullName := args[0]
			if _, _, err := store.ParseRepoFullName(fullName); err != nil {
				return err
			}

			submission, err := ctx.apiClient().Submission(cmd.Context(), fullName)
			if err != nil {
				return err
			}
			if submission == nil {
				return fmt.Errorf("no submission record for %s; request one with `octostore scan %s`", fullName, fullName)
			}

			if jsonOutput {
				return writeJSON(cmd, submission)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := renderSubmission(submission, colorize)
			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func renderSubmission(submission *store.Submission, colorize bool) []string {
	lines := []string{
		renderStatusLine("Submission", submissionStatusKind(submission.Status), string(submission.Status), colorize),
		fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Record:", submission.ID),
		fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Repository:", submission.RepositoryURL),
		fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Manifest:", submission.ManifestURL),
	}
	if submission.ManifestSHA != "" {
		lines = append(lines, fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Manifest SHA:", submission.ManifestSHA))
	}
	if submission.Manifest != nil {
		lines = append(lines, fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "App name:", submission.Manifest.Name))
	}
	lines = append(lines, fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Submitted:", formatTimestamp(submission.SubmittedAt)))
	if submission.LatestReleaseAt != nil {
		lines = append(lines, fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Latest release:", formatTimestamp(*submission.LatestReleaseAt)))
	}
	if submission.ErrorMessage != "" {
		lines = append(lines, renderStatusLine("Error", statusError, submission.ErrorMessage, colorize))
	}
	return lines
}

func formatTimestamp(value time.Time) string {
	if value.IsZero() {
		return "never"
	}
	return value.Local().Format("2006-01-02 15:04:05")
}
