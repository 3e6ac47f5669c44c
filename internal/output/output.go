package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// UI provides colored output and respects verbose mode.
type UI struct {
	Verbose bool
	Out     io.Writer
	ErrOut  io.Writer
}

// New creates a UI with default stdout/stderr writers.
func New() *UI {
	return &UI{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	}
}

var (
	infoPrefix    = color.New(color.FgHiBlue).Sprint("i")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	warningPrefix = color.New(color.FgHiYellow).Sprint("⚠")
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	verbosePrefix = color.New(color.FgHiBlue).Sprint("  →")
	cyan          = color.New(color.FgHiCyan).SprintFunc()
	green         = color.New(color.FgHiGreen).SprintFunc()
	yellow        = color.New(color.FgHiYellow).SprintFunc()
	red           = color.New(color.FgHiRed).SprintFunc()
)

// Cyan returns a cyan-colored string.
func Cyan(s string) string { return cyan(s) }

// Green returns a green-colored string.
func Green(s string) string { return green(s) }

// Yellow returns a yellow-colored string.
func Yellow(s string) string { return yellow(s) }

// Red returns a red-colored string.
func Red(s string) string { return red(s) }

// StatusColor returns the string colored by review status.
func StatusColor(status string) string {
	switch strings.ToUpper(status) {
	case "IN_PROGRESS":
		return yellow(status)
	case "COMPLETED":
		return green(status)
	case "FAILED":
		return red(status)
	default:
		return status
	}
}

// SeverityColor returns the string colored by issue severity.
func SeverityColor(severity string) string {
	switch strings.ToUpper(severity) {
	case "HIGH":
		return red(severity)
	case "MEDIUM":
		return yellow(severity)
	case "LOW":
		return cyan(severity)
	default:
		return severity
	}
}

// ScoreColor returns the score colored by how healthy it is. Higher is
// better for all three review metrics.
func ScoreColor(score int) string {
	s := fmt.Sprintf("%d", score)
	switch {
	case score >= 80:
		return green(s)
	case score >= 50:
		return yellow(s)
	default:
		return red(s)
	}
}

func (u *UI) Info(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", infoPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Success(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Warning(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", warningPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Error(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", errorPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) VerboseLog(format string, a ...any) {
	if u.Verbose {
		fmt.Fprintf(u.Out, "%s %s\n", verbosePrefix, fmt.Sprintf(format, a...))
	}
}

// Table creates a new tablewriter configured with consistent styling.
func (u *UI) Table(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(u.Out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}
