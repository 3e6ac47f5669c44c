package analyzer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tameralinada/ai-code-reviewer/internal/models"
)

func normalizeErr(t *testing.T, err error) *NormalizeError {
	t.Helper()
	var ne *NormalizeError
	require.ErrorAs(t, err, &ne)
	return ne
}

func TestNormalizeFullReview_Malformed(t *testing.T) {
	_, err := NormalizeFullReview("I could not analyze this code, sorry!")
	ne := normalizeErr(t, err)
	assert.Equal(t, KindMalformedResponse, ne.Kind)
	assert.Contains(t, ne.Snippet, "I could not analyze")
}

func TestNormalizeFullReview_SnippetTruncated(t *testing.T) {
	long := strings.Repeat("x", 500)
	_, err := NormalizeFullReview(long)
	ne := normalizeErr(t, err)
	assert.Len(t, ne.Snippet, snippetLen+len("..."))
}

func TestNormalizeFullReview_UnexpectedShape(t *testing.T) {
	for _, raw := range []string{`[1, 2, 3]`, `"just a string"`, `42`} {
		_, err := NormalizeFullReview(raw)
		ne := normalizeErr(t, err)
		assert.Equal(t, KindUnexpectedShape, ne.Kind, "input %q", raw)
	}
}

func TestNormalizeFullReview_EmptyObjectDefaults(t *testing.T) {
	a, err := NormalizeFullReview(`{}`)
	require.NoError(t, err)

	assert.Empty(t, a.Issues)
	assert.NotNil(t, a.Issues)
	assert.Equal(t, Metrics{Complexity: 50, Maintainability: 50, SecurityScore: 50}, a.Metrics)
	assert.Empty(t, a.Suggestions)
	assert.Equal(t, "", a.Summary)
}

func TestNormalizeFullReview_ClampsMetrics(t *testing.T) {
	a, err := NormalizeFullReview(`{"metrics": {"complexity": 150, "maintainability": -5, "security_score": 70}}`)
	require.NoError(t, err)

	assert.Equal(t, 100, a.Metrics.Complexity)
	assert.Equal(t, 0, a.Metrics.Maintainability)
	assert.Equal(t, 70, a.Metrics.SecurityScore)
}

func TestNormalizeFullReview_RepairsIssues(t *testing.T) {
	raw := `{"issues": [
		{"severity": "high", "description": "SQL injection", "line_number": 3},
		{"severity": "CRITICAL"},
		{"description": "zero line", "line_number": 0},
		{"description": "negative line", "line_number": -7},
		"not an object"
	]}`
	a, err := NormalizeFullReview(raw)
	require.NoError(t, err)
	require.Len(t, a.Issues, 4)

	assert.Equal(t, models.SeverityHigh, a.Issues[0].Severity)
	assert.Equal(t, 3, a.Issues[0].LineNumber)

	// Unknown severity falls back to LOW, missing description gets a placeholder.
	assert.Equal(t, models.SeverityLow, a.Issues[1].Severity)
	assert.Equal(t, "No description available", a.Issues[1].Description)
	assert.Equal(t, 1, a.Issues[1].LineNumber)

	assert.Equal(t, 1, a.Issues[2].LineNumber)
	assert.Equal(t, 1, a.Issues[3].LineNumber)
}

func TestNormalizeFullReview_StripsFencing(t *testing.T) {
	raw := "```json\n{\"summary\": \"looks fine\"}\n```"
	a, err := NormalizeFullReview(raw)
	require.NoError(t, err)
	assert.Equal(t, "looks fine", a.Summary)
}

func TestNormalizeFullReview_Suggestions(t *testing.T) {
	raw := `{"suggestions": [{"title": "Add tests", "description": "No tests exist", "priority": "medium"}]}`
	a, err := NormalizeFullReview(raw)
	require.NoError(t, err)
	require.Len(t, a.Suggestions, 1)
	assert.Equal(t, "Add tests", a.Suggestions[0].Title)
	assert.Equal(t, "MEDIUM", a.Suggestions[0].Priority)
}

func TestNormalizeSecurity(t *testing.T) {
	raw := `{"vulnerabilities": [{
		"type": "SQL_INJECTION",
		"description": "String-built query",
		"severity": "high",
		"remediation": "Use parameterized queries",
		"cwe_id": "CWE-89"
	}]}`
	r, err := NormalizeSecurity(raw)
	require.NoError(t, err)
	require.Len(t, r.Vulnerabilities, 1)

	v := r.Vulnerabilities[0]
	assert.Equal(t, "SQL_INJECTION", v.Type)
	assert.Equal(t, models.SeverityHigh, v.Severity)
	assert.Equal(t, "CWE-89", v.CWEID)
}

func TestNormalizeSecurity_EmptyDefaults(t *testing.T) {
	r, err := NormalizeSecurity(`{}`)
	require.NoError(t, err)
	assert.NotNil(t, r.Vulnerabilities)
	assert.Empty(t, r.Vulnerabilities)
}

func TestNormalizeQuality(t *testing.T) {
	raw := `{
		"issues": [{"type": "COMPLEXITY", "line_number": 2, "description": "Deep nesting", "priority": "HIGH", "category": "MAINTAINABILITY"}],
		"metrics": {"maintainability_index": 120, "cognitive_complexity": 15}
	}`
	r, err := NormalizeQuality(raw)
	require.NoError(t, err)
	require.Len(t, r.Issues, 1)
	assert.Equal(t, "COMPLEXITY", r.Issues[0].Type)
	assert.Equal(t, "HIGH", r.Issues[0].Priority)
	assert.Equal(t, 100, r.MaintainabilityIndex, "out-of-range index is clamped")
	assert.Equal(t, 15, r.CognitiveComplexity)
}

func TestNormalizeQuality_MissingMetrics(t *testing.T) {
	r, err := NormalizeQuality(`{"issues": []}`)
	require.NoError(t, err)
	assert.Equal(t, 50, r.MaintainabilityIndex)
	assert.Equal(t, 50, r.CognitiveComplexity)
}

func TestNormalizeQuick(t *testing.T) {
	raw := `{
		"suggestions": [{"title": "Split function", "description": "Too long", "code_example": "func a() {}"}],
		"metrics": {"complexity_score": 7, "readability": "8", "maintainability": "6"}
	}`
	fb, err := NormalizeQuick(raw)
	require.NoError(t, err)
	require.Len(t, fb.Suggestions, 1)
	assert.Equal(t, "Split function", fb.Suggestions[0].Title)
	assert.Equal(t, "7", fb.Metrics.ComplexityScore)
	assert.Equal(t, "8", fb.Metrics.Readability)
}

func TestNormalizeQuick_MissingMetricsAreNA(t *testing.T) {
	fb, err := NormalizeQuick(`{}`)
	require.NoError(t, err)
	assert.Equal(t, "N/A", fb.Metrics.ComplexityScore)
	assert.Equal(t, "N/A", fb.Metrics.Readability)
	assert.Equal(t, "N/A", fb.Metrics.Maintainability)
}

func TestNormalizeError_NeverPanics(t *testing.T) {
	inputs := []string{"", "null", "{", "\x00\x01", "[]", `{"issues": "nope", "metrics": "nope"}`}
	for _, raw := range inputs {
		a, err := NormalizeFullReview(raw)
		if err != nil {
			var ne *NormalizeError
			assert.True(t, errors.As(err, &ne), "error must be a NormalizeError for %q", raw)
			continue
		}
		// Repaired results must always be fully populated.
		assert.NotNil(t, a.Issues)
		assert.Equal(t, 50, a.Metrics.Complexity)
	}
}
