// Package textutil holds small text helpers shared by the CLI and export
// paths: filename sanitization, markdown code block extraction, and display
// formatting.
package textutil

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// MaxFilenameLength is the default cap applied by SanitizeFilename.
const MaxFilenameLength = 100

// CodeBlock is one fenced code block extracted from markdown text.
type CodeBlock struct {
	Language string
	Code     string
}

var (
	codeBlockRe  = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)\\n```")
	specialRe    = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
	underscoreRe = regexp.MustCompile(`_+`)
)

// ParseCodeBlocks extracts fenced code blocks with their language tag.
// Blocks without a tag get language "text".
func ParseCodeBlocks(text string) []CodeBlock {
	var blocks []CodeBlock
	for _, m := range codeBlockRe.FindAllStringSubmatch(text, -1) {
		lang := m[1]
		if lang == "" {
			lang = "text"
		}
		blocks = append(blocks, CodeBlock{
			Language: lang,
			Code:     strings.TrimSpace(m[2]),
		})
	}
	return blocks
}

// FormatDuration renders a duration as a short human-readable string.
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%.1fm", minutes)
	}
	return fmt.Sprintf("%.1fh", minutes/60)
}

// CountLines counts non-empty lines in code.
func CountLines(code string) int {
	n := 0
	for _, line := range strings.Split(code, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// SanitizeFilename strips path components and special characters from a
// filename and caps its length while preserving the extension. An empty
// result becomes "unnamed_file".
func SanitizeFilename(filename string) string {
	// Flatten path separators before stripping specials
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = specialRe.ReplaceAllString(filename, "_")
	filename = underscoreRe.ReplaceAllString(filename, "_")
	filename = strings.Trim(filename, "_ ")

	if filename == "" {
		return "unnamed_file"
	}

	ext := filepath.Ext(filename)
	name := strings.TrimSuffix(filename, ext)
	// A suspiciously long extension is really part of the name
	if len(ext) > 10 {
		name = filename
		ext = ""
	}

	maxName := MaxFilenameLength - len(ext)
	if maxName < 1 {
		maxName = 1
	}
	if len(name) > maxName {
		name = name[:maxName]
	}
	return name + ext
}
