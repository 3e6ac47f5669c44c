package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tameralinada/ai-code-reviewer/internal/output"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyRun(cmd)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <review-id>",
	Short: "Show a stored review with its issues, metrics, and history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return showRun(cmd, args[0])
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "Maximum number of reviews to list")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
}

func historyRun(cmd *cobra.Command) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	reviews, err := s.RecentReviews(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(reviews) == 0 {
		ui.Info("No reviews yet. Run 'acr review <file>' to create one.")
		return nil
	}

	table := ui.Table([]string{"ID", "File", "Status", "Created"})
	for _, r := range reviews {
		table.Append([]string{
			r.ID,
			r.FileName,
			output.StatusColor(string(r.Status)),
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return table.Render()
}

func showRun(cmd *cobra.Command, reviewID string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "  File:    %s\n", review.FileName)
	fmt.Fprintf(ui.Out, "  Status:  %s\n", output.StatusColor(string(review.Status)))
	fmt.Fprintf(ui.Out, "  Created: %s\n", review.CreatedAt.Local().Format("2006-01-02 15:04:05"))

	issues, err := s.ListIssues(ctx, reviewID)
	if err != nil {
		return err
	}
	if len(issues) > 0 {
		fmt.Fprintln(ui.Out)
		table := ui.Table([]string{"Severity", "Line", "Description"})
		for _, issue := range issues {
			table.Append([]string{
				output.SeverityColor(string(issue.Severity)),
				fmt.Sprintf("%d", issue.LineNumber),
				issue.Description,
			})
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	// Reviews that never completed have no metric row
	if metric, err := s.GetMetric(ctx, reviewID); err == nil {
		fmt.Fprintln(ui.Out)
		fmt.Fprintf(ui.Out, "  Complexity:      %s\n", output.ScoreColor(metric.Complexity))
		fmt.Fprintf(ui.Out, "  Maintainability: %s\n", output.ScoreColor(metric.Maintainability))
		fmt.Fprintf(ui.Out, "  Security:        %s\n", output.ScoreColor(metric.SecurityScore))
	}

	history, err := s.ListHistory(ctx, reviewID)
	if err != nil {
		return err
	}
	if len(history) > 0 {
		fmt.Fprintln(ui.Out)
		for _, h := range history {
			fmt.Fprintf(ui.Out, "  %s %s: %s\n",
				h.CreatedAt.Local().Format("2006-01-02 15:04:05"), h.Action, h.Details)
		}
	}
	return nil
}
