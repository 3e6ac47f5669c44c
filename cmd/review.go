package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tameralinada/ai-code-reviewer/internal/analyzer"
	"github.com/Tameralinada/ai-code-reviewer/internal/output"
	"github.com/Tameralinada/ai-code-reviewer/internal/textutil"
)

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Run a full code review and store the result",
	Long: `Run a full code review on a file, or on stdin when no file is given.

The review reports issues with severity and line numbers, scores for
complexity, maintainability, and security, and improvement suggestions.
Every review is stored locally and can be revisited with 'acr history'
and 'acr show'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewRun(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

// readCodeInput reads the code to analyze from the file argument or stdin.
func readCodeInput(args []string) (fileName, code string, err error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("read input file: %w", err)
		}
		return args[0], string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return "", string(data), nil
}

func reviewRun(cmd *cobra.Command, args []string) error {
	fileName, code, err := readCodeInput(args)
	if err != nil {
		return err
	}
	if len(code) == 0 {
		return fmt.Errorf("no code to review")
	}

	s, err := getStore()
	if err != nil {
		return err
	}

	engine, err := getEngine()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	review, err := s.CreateReview(ctx, fileName, code)
	if err != nil {
		return err
	}

	ui.Info("Reviewing %s (%d lines)", review.FileName, textutil.CountLines(code))
	start := time.Now()
	res := engine.AnalyzeCode(ctx, code)
	elapsed := time.Since(start)

	if err := s.RecordResult(ctx, review.ID, res); err != nil {
		return err
	}

	if !res.Success {
		ui.Error("Review failed: %s", res.Error)
		ui.Info("Review ID: %s", review.ID)
		return nil
	}

	printAnalysis(res.Analysis)
	ui.Success("Review completed in %s", textutil.FormatDuration(elapsed))
	ui.Info("Review ID: %s", review.ID)
	return nil
}

func printAnalysis(a *analyzer.Analysis) {
	if len(a.Issues) > 0 {
		fmt.Fprintln(ui.Out)
		table := ui.Table([]string{"Severity", "Line", "Description"})
		for _, issue := range a.Issues {
			table.Append([]string{
				output.SeverityColor(string(issue.Severity)),
				fmt.Sprintf("%d", issue.LineNumber),
				issue.Description,
			})
		}
		_ = table.Render()
	} else {
		ui.Success("No issues found")
	}

	fmt.Fprintln(ui.Out)
	fmt.Fprintf(ui.Out, "  Complexity:      %s\n", output.ScoreColor(a.Metrics.Complexity))
	fmt.Fprintf(ui.Out, "  Maintainability: %s\n", output.ScoreColor(a.Metrics.Maintainability))
	fmt.Fprintf(ui.Out, "  Security:        %s\n", output.ScoreColor(a.Metrics.SecurityScore))

	if len(a.Suggestions) > 0 {
		fmt.Fprintln(ui.Out)
		for _, sug := range a.Suggestions {
			fmt.Fprintf(ui.Out, "  %s %s\n", output.Cyan("•"), sug.Title)
			if sug.Description != "" {
				fmt.Fprintf(ui.Out, "    %s\n", sug.Description)
			}
		}
	}

	if a.Summary != "" {
		fmt.Fprintln(ui.Out)
		fmt.Fprintf(ui.Out, "  %s\n", a.Summary)
	}
}
