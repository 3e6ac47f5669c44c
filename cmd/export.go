package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tameralinada/ai-code-reviewer/internal/models"
	"github.com/Tameralinada/ai-code-reviewer/internal/store"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <review-id>",
	Short: "Export a stored review as json, csv, or markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun(cmd, args[0])
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json, csv, markdown")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}

// reviewExport bundles everything stored about one review.
type reviewExport struct {
	Review  *models.Review         `json:"review"`
	Issues  []*models.Issue        `json:"issues"`
	Metric  *models.Metric         `json:"metric,omitempty"`
	History []*models.HistoryEntry `json:"history"`
}

func loadReviewExport(ctx context.Context, s store.Store, reviewID string) (*reviewExport, error) {
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	issues, err := s.ListIssues(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	history, err := s.ListHistory(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	exp := &reviewExport{Review: review, Issues: issues, History: history}
	// No metric row exists for reviews that never completed
	if metric, err := s.GetMetric(ctx, reviewID); err == nil {
		exp.Metric = metric
	}
	return exp, nil
}

func exportRun(cmd *cobra.Command, reviewID string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	exp, err := loadReviewExport(cmd.Context(), s, reviewID)
	if err != nil {
		return err
	}

	var rendered []byte
	switch exportFormat {
	case "json":
		rendered, err = renderJSON(exp)
	case "csv":
		rendered, err = renderCSV(exp)
	case "markdown", "md":
		rendered = []byte(renderMarkdown(exp))
	default:
		return fmt.Errorf("unknown format: %s (want json, csv, or markdown)", exportFormat)
	}
	if err != nil {
		return err
	}

	if exportOut == "" {
		_, err = ui.Out.Write(rendered)
		return err
	}
	if err := os.WriteFile(exportOut, rendered, 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	ui.Success("Exported review to %s", exportOut)
	return nil
}

func renderJSON(exp *reviewExport) ([]byte, error) {
	data, err := json.MarshalIndent(exp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return append(data, '\n'), nil
}

// renderCSV writes one row per issue with the review metadata repeated.
func renderCSV(exp *reviewExport) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	header := []string{"review_id", "file_name", "status", "severity", "line_number", "description"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	r := exp.Review
	if len(exp.Issues) == 0 {
		if err := w.Write([]string{r.ID, r.FileName, string(r.Status), "", "", ""}); err != nil {
			return nil, err
		}
	}
	for _, issue := range exp.Issues {
		row := []string{
			r.ID, r.FileName, string(r.Status),
			string(issue.Severity), strconv.Itoa(issue.LineNumber), issue.Description,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func renderMarkdown(exp *reviewExport) string {
	var b strings.Builder
	r := exp.Review

	fmt.Fprintf(&b, "# Code Review: %s\n\n", r.FileName)
	fmt.Fprintf(&b, "- **Status:** %s\n", r.Status)
	fmt.Fprintf(&b, "- **Created:** %s\n\n", r.CreatedAt.Format("2006-01-02 15:04:05"))

	b.WriteString("## Issues\n\n")
	if len(exp.Issues) == 0 {
		b.WriteString("No issues found.\n\n")
	} else {
		b.WriteString("| Severity | Line | Description |\n")
		b.WriteString("|----------|------|-------------|\n")
		for _, issue := range exp.Issues {
			fmt.Fprintf(&b, "| %s | %d | %s |\n",
				issue.Severity, issue.LineNumber, escapeMarkdownCell(issue.Description))
		}
		b.WriteString("\n")
	}

	if exp.Metric != nil {
		b.WriteString("## Metrics\n\n")
		fmt.Fprintf(&b, "- Complexity: %d/100\n", exp.Metric.Complexity)
		fmt.Fprintf(&b, "- Maintainability: %d/100\n", exp.Metric.Maintainability)
		fmt.Fprintf(&b, "- Security: %d/100\n\n", exp.Metric.SecurityScore)
	}

	if len(exp.History) > 0 {
		b.WriteString("## History\n\n")
		for _, h := range exp.History {
			fmt.Fprintf(&b, "- %s %s: %s\n",
				h.CreatedAt.Format("2006-01-02 15:04:05"), h.Action, h.Details)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
