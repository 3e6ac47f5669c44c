package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tameralinada/ai-code-reviewer/internal/output"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run focused scans without storing a review",
}

var scanSecurityCmd = &cobra.Command{
	Use:   "security [file]",
	Short: "Scan for vulnerabilities with remediation and CWE references",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return scanSecurityRun(cmd, args)
	},
}

var scanQualityCmd = &cobra.Command{
	Use:   "quality [file]",
	Short: "Scan for quality issues, maintainability, and complexity",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return scanQualityRun(cmd, args)
	},
}

var scanQuickCmd = &cobra.Command{
	Use:   "quick [file]",
	Short: "Get fast, lightweight feedback on a snippet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return scanQuickRun(cmd, args)
	},
}

func init() {
	scanCmd.AddCommand(scanSecurityCmd)
	scanCmd.AddCommand(scanQualityCmd)
	scanCmd.AddCommand(scanQuickCmd)
	rootCmd.AddCommand(scanCmd)
}

func scanSecurityRun(cmd *cobra.Command, args []string) error {
	_, code, err := readCodeInput(args)
	if err != nil {
		return err
	}

	engine, err := getEngine()
	if err != nil {
		return err
	}

	res := engine.AnalyzeSecurity(cmd.Context(), code)
	if !res.Success {
		return fmt.Errorf("security scan failed: %s", res.Error)
	}

	if len(res.Report.Vulnerabilities) == 0 {
		ui.Success("No vulnerabilities found")
		return nil
	}

	table := ui.Table([]string{"Severity", "Type", "CWE", "Description"})
	for _, v := range res.Report.Vulnerabilities {
		table.Append([]string{
			output.SeverityColor(string(v.Severity)),
			v.Type,
			v.CWEID,
			v.Description,
		})
	}
	_ = table.Render()

	fmt.Fprintln(ui.Out)
	for _, v := range res.Report.Vulnerabilities {
		if v.Remediation != "" {
			fmt.Fprintf(ui.Out, "  %s %s: %s\n", output.Cyan("→"), v.Type, v.Remediation)
		}
	}
	return nil
}

func scanQualityRun(cmd *cobra.Command, args []string) error {
	_, code, err := readCodeInput(args)
	if err != nil {
		return err
	}

	engine, err := getEngine()
	if err != nil {
		return err
	}

	res := engine.AnalyzeQuality(cmd.Context(), code)
	if !res.Success {
		return fmt.Errorf("quality scan failed: %s", res.Error)
	}

	r := res.Report
	if len(r.Issues) > 0 {
		table := ui.Table([]string{"Type", "Line", "Description"})
		for _, issue := range r.Issues {
			table.Append([]string{
				issue.Type,
				fmt.Sprintf("%d", issue.LineNumber),
				issue.Description,
			})
		}
		_ = table.Render()
		fmt.Fprintln(ui.Out)
	} else {
		ui.Success("No quality issues found")
	}

	fmt.Fprintf(ui.Out, "  Maintainability index: %s\n", output.ScoreColor(r.MaintainabilityIndex))
	fmt.Fprintf(ui.Out, "  Cognitive complexity:  %d\n", r.CognitiveComplexity)
	fmt.Fprintf(ui.Out, "  Lines: %d  Functions: %d  Classes: %d  Comments: %d\n",
		r.Stats.Lines, r.Stats.Functions, r.Stats.Classes, r.Stats.Comments)
	return nil
}

func scanQuickRun(cmd *cobra.Command, args []string) error {
	_, code, err := readCodeInput(args)
	if err != nil {
		return err
	}

	engine, err := getEngine()
	if err != nil {
		return err
	}

	fb := engine.QuickAnalyze(cmd.Context(), code)

	for _, sug := range fb.Suggestions {
		fmt.Fprintf(ui.Out, "  %s %s\n", output.Cyan("•"), sug.Title)
		if sug.Description != "" {
			fmt.Fprintf(ui.Out, "    %s\n", sug.Description)
		}
		if sug.CodeExample != "" {
			fmt.Fprintf(ui.Out, "    %s\n", sug.CodeExample)
		}
	}

	fmt.Fprintln(ui.Out)
	fmt.Fprintf(ui.Out, "  Complexity: %s  Readability: %s  Maintainability: %s\n",
		fb.Metrics.ComplexityScore, fb.Metrics.Readability, fb.Metrics.Maintainability)
	return nil
}
