package main

import (
	"octostore/internal/store"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderSubmissionTable formats submission records for terminal display.
// Columns stay left-aligned so repository URLs and error messages read
// naturally at any width.
func renderSubmissionTable(submissions []*store.Submission) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Repository", "App", "Status", "Submitted", "Error"})

	for _, submission := range submissions {
		name := ""
		if submission.Manifest != nil {
			name = submission.Manifest.Name
		}
		tw.AppendRow(table.Row{
			submission.RepositoryURL,
			name,
			string(submission.Status),
			formatTimestamp(submission.SubmittedAt),
			submission.ErrorMessage,
		})
	}

	configs := make([]table.ColumnConfig, 0, 5)
	for i := 0; i < 5; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
