package analyzer

import (
	"encoding/json"
	"fmt"

	"github.com/Tameralinada/ai-code-reviewer/internal/llm"
	"github.com/Tameralinada/ai-code-reviewer/internal/models"
)

// ErrorKind classifies why a model reply could not be normalized.
type ErrorKind string

const (
	// KindMalformedResponse means the reply was not parseable as JSON.
	KindMalformedResponse ErrorKind = "MALFORMED_RESPONSE"
	// KindUnexpectedShape means the reply parsed but was not a JSON object.
	KindUnexpectedShape ErrorKind = "UNEXPECTED_SHAPE"
)

// snippetLen bounds the diagnostic excerpt carried by a NormalizeError.
const snippetLen = 100

// NormalizeError reports a reply that failed the hard parse tier. Everything
// past that tier is repaired silently, never surfaced as an error.
type NormalizeError struct {
	Kind    ErrorKind
	Snippet string
	cause   error
}

func (e *NormalizeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v (response was: %s)", e.Kind, e.cause, e.Snippet)
	}
	return fmt.Sprintf("%s (response was: %s)", e.Kind, e.Snippet)
}

func (e *NormalizeError) Unwrap() error { return e.cause }

func snippet(s string) string {
	if len(s) > snippetLen {
		return s[:snippetLen] + "..."
	}
	return s
}

// Analysis is the canonical full-review result shape. Every field is always
// populated after normalization.
type Analysis struct {
	Issues      []IssueFinding `json:"issues"`
	Metrics     Metrics        `json:"metrics"`
	Suggestions []Suggestion   `json:"suggestions"`
	Summary     string         `json:"summary"`
}

// IssueFinding is one defect reported by the model, repaired to always carry
// a canonical severity, a description, and a positive line number.
type IssueFinding struct {
	Severity    models.Severity `json:"severity"`
	Description string          `json:"description"`
	LineNumber  int             `json:"line_number"`
}

// Metrics are the three normalized scores, each clamped to [0,100].
type Metrics struct {
	Complexity      int `json:"complexity"`
	Maintainability int `json:"maintainability"`
	SecurityScore   int `json:"security_score"`
}

// Suggestion is one improvement recommendation from a full review.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// SecurityReport is the normalized result of a security-focused analysis.
type SecurityReport struct {
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}

// Vulnerability is a single security finding.
type Vulnerability struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Severity    models.Severity `json:"severity"`
	Remediation string          `json:"remediation"`
	CWEID       string          `json:"cwe_id"`
}

// QualityReport is the normalized result of a quality-focused analysis.
// Stats are computed locally, not by the model.
type QualityReport struct {
	Issues               []QualityIssue `json:"issues"`
	MaintainabilityIndex int            `json:"maintainability_index"`
	CognitiveComplexity  int            `json:"cognitive_complexity"`
	Stats                CodeStats      `json:"code_stats"`
}

// QualityIssue is a single quality finding.
type QualityIssue struct {
	Type        string `json:"type"`
	LineNumber  int    `json:"line_number"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
	Priority    string `json:"priority"`
	Category    string `json:"category"`
}

// QuickFeedback is the best-effort result of a quick analysis. Score fields
// are display strings; "N/A" marks a score the model did not provide.
type QuickFeedback struct {
	Suggestions []QuickSuggestion `json:"suggestions"`
	Metrics     QuickMetrics      `json:"metrics"`
}

// QuickSuggestion is one fast-feedback item.
type QuickSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CodeExample string `json:"code_example"`
}

// QuickMetrics are 1-10 display scores from a quick analysis.
type QuickMetrics struct {
	ComplexityScore string `json:"complexity_score"`
	Readability     string `json:"readability"`
	Maintainability string `json:"maintainability"`
}

const (
	defaultScore       = 50
	defaultDescription = "No description available"
)

// parseObject is the hard-failure tier: the reply must parse as JSON and the
// top level must be an object. Anything else is a NormalizeError.
func parseObject(raw string) (map[string]any, error) {
	text := llm.StripFencing(raw)

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, &NormalizeError{Kind: KindMalformedResponse, Snippet: snippet(text), cause: err}
	}
	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, &NormalizeError{Kind: KindUnexpectedShape, Snippet: snippet(text)}
	}
	return obj, nil
}

// NormalizeFullReview converts a raw model reply into a fully-populated
// Analysis. Parse failures return a NormalizeError; missing or out-of-range
// fields are repaired with defaults and never fail.
func NormalizeFullReview(raw string) (*Analysis, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Issues:      normalizeIssues(listField(obj, "issues")),
		Metrics:     normalizeMetrics(mapField(obj, "metrics")),
		Suggestions: normalizeSuggestions(listField(obj, "suggestions")),
		Summary:     stringField(obj, "summary", ""),
	}
	return a, nil
}

// NormalizeSecurity converts a raw model reply into a SecurityReport.
func NormalizeSecurity(raw string) (*SecurityReport, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	report := &SecurityReport{Vulnerabilities: []Vulnerability{}}
	for _, item := range listField(obj, "vulnerabilities") {
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}
		report.Vulnerabilities = append(report.Vulnerabilities, Vulnerability{
			Type:        stringField(v, "type", "unknown"),
			Description: stringField(v, "description", defaultDescription),
			Severity:    models.CanonicalSeverity(stringField(v, "severity", "")),
			Remediation: stringField(v, "remediation", ""),
			CWEID:       stringField(v, "cwe_id", ""),
		})
	}
	return report, nil
}

// NormalizeQuality converts a raw model reply into a QualityReport. Local
// code stats are attached by the engine, not here.
func NormalizeQuality(raw string) (*QualityReport, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	report := &QualityReport{Issues: []QualityIssue{}}
	for _, item := range listField(obj, "issues") {
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}
		report.Issues = append(report.Issues, QualityIssue{
			Type:        stringField(v, "type", "unknown"),
			LineNumber:  lineField(v, "line_number"),
			Description: stringField(v, "description", defaultDescription),
			Suggestion:  stringField(v, "suggestion", ""),
			Priority:    string(models.CanonicalSeverity(stringField(v, "priority", ""))),
			Category:    stringField(v, "category", ""),
		})
	}

	metrics := mapField(obj, "metrics")
	report.MaintainabilityIndex = scoreField(metrics, "maintainability_index")
	report.CognitiveComplexity = scoreField(metrics, "cognitive_complexity")
	return report, nil
}

// NormalizeQuick converts a raw model reply into QuickFeedback. Absent scores
// become "N/A" rather than zeros so the display layer can tell the
// difference.
func NormalizeQuick(raw string) (*QuickFeedback, error) {
	obj, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	fb := &QuickFeedback{
		Suggestions: []QuickSuggestion{},
		Metrics:     quickFallbackMetrics(),
	}
	for _, item := range listField(obj, "suggestions") {
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}
		fb.Suggestions = append(fb.Suggestions, QuickSuggestion{
			Title:       stringField(v, "title", "Suggestion"),
			Description: stringField(v, "description", defaultDescription),
			CodeExample: stringField(v, "code_example", ""),
		})
	}
	metrics := mapField(obj, "metrics")
	fb.Metrics.ComplexityScore = displayField(metrics, "complexity_score")
	fb.Metrics.Readability = displayField(metrics, "readability")
	fb.Metrics.Maintainability = displayField(metrics, "maintainability")
	return fb, nil
}

func quickFallbackMetrics() QuickMetrics {
	return QuickMetrics{ComplexityScore: "N/A", Readability: "N/A", Maintainability: "N/A"}
}

func normalizeIssues(items []any) []IssueFinding {
	issues := make([]IssueFinding, 0, len(items))
	for _, item := range items {
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}
		issues = append(issues, IssueFinding{
			Severity:    models.CanonicalSeverity(stringField(v, "severity", "")),
			Description: stringField(v, "description", defaultDescription),
			LineNumber:  lineField(v, "line_number"),
		})
	}
	return issues
}

func normalizeMetrics(m map[string]any) Metrics {
	return Metrics{
		Complexity:      scoreField(m, "complexity"),
		Maintainability: scoreField(m, "maintainability"),
		SecurityScore:   scoreField(m, "security_score"),
	}
}

func normalizeSuggestions(items []any) []Suggestion {
	suggestions := make([]Suggestion, 0, len(items))
	for _, item := range items {
		v, ok := item.(map[string]any)
		if !ok {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			Title:       stringField(v, "title", "Suggestion"),
			Description: stringField(v, "description", defaultDescription),
			Priority:    string(models.CanonicalSeverity(stringField(v, "priority", ""))),
		})
	}
	return suggestions
}

// --- field repair helpers ---

func listField(obj map[string]any, key string) []any {
	if v, ok := obj[key].([]any); ok {
		return v
	}
	return nil
}

func mapField(obj map[string]any, key string) map[string]any {
	if v, ok := obj[key].(map[string]any); ok {
		return v
	}
	return nil
}

func stringField(obj map[string]any, key, fallback string) string {
	if v, ok := obj[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// scoreField returns the value clamped to [0,100], or 50 when the field is
// absent or not numeric.
func scoreField(obj map[string]any, key string) int {
	n, ok := numField(obj, key)
	if !ok {
		return defaultScore
	}
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// lineField returns a positive line number, defaulting to 1 when the field is
// missing, non-numeric, or non-positive.
func lineField(obj map[string]any, key string) int {
	n, ok := numField(obj, key)
	if !ok || n < 1 {
		return 1
	}
	return n
}

// displayField renders a numeric or string score for display, falling back to
// the "N/A" sentinel.
func displayField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return fmt.Sprintf("%g", v)
	}
	return "N/A"
}

func numField(obj map[string]any, key string) (int, bool) {
	// encoding/json decodes all numbers as float64
	if v, ok := obj[key].(float64); ok {
		return int(v), true
	}
	return 0, false
}
