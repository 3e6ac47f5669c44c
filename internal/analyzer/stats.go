package analyzer

import "strings"

// CodeStats are cheap, locally computed counts attached to quality results.
// They come from line scanning, not from the model.
type CodeStats struct {
	Lines     int `json:"lines"`
	Functions int `json:"functions"`
	Classes   int `json:"classes"`
	Comments  int `json:"comments"`
}

// CountStats scans the code line by line and counts lines, function and
// class definitions, and comment lines across common languages.
func CountStats(code string) CodeStats {
	var stats CodeStats
	for _, line := range strings.Split(code, "\n") {
		stats.Lines++
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "def ") || strings.HasPrefix(trimmed, "func ") || strings.HasPrefix(trimmed, "function "):
			stats.Functions++
		case strings.HasPrefix(trimmed, "class "):
			stats.Classes++
		case strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "//"):
			stats.Comments++
		}
	}
	return stats
}
