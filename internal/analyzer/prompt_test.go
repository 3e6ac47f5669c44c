package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFullReviewPrompt(t *testing.T) {
	system, user := BuildFullReviewPrompt("print('hi')")

	assert.Contains(t, system, "ONLY a JSON object")
	assert.Contains(t, system, `"issues"`)
	assert.Contains(t, system, `"metrics"`)
	assert.Contains(t, system, `"suggestions"`)
	assert.Contains(t, system, `"summary"`)
	assert.Contains(t, system, "HIGH|MEDIUM|LOW")
	assert.Contains(t, system, "integers 0-100")
	assert.Contains(t, user, "print('hi')")
}

func TestBuildSecurityPrompt(t *testing.T) {
	t.Run("default criteria", func(t *testing.T) {
		system, user := BuildSecurityPrompt("code here", nil)

		assert.Contains(t, system, `"vulnerabilities"`)
		assert.Contains(t, system, "SQL injection")
		assert.Contains(t, system, "Hardcoded credentials")
		assert.Contains(t, system, "Return ONLY the JSON response")
		assert.Contains(t, user, "code here")
	})

	t.Run("extra criteria appended", func(t *testing.T) {
		system, _ := BuildSecurityPrompt("code", []string{"Use of eval on user input", ""})
		assert.Contains(t, system, "- Use of eval on user input")
	})
}

func TestBuildQualityPrompt(t *testing.T) {
	system, user := BuildQualityPrompt("code here", []string{"Exported identifiers are documented"})

	assert.Contains(t, system, `"maintainability_index"`)
	assert.Contains(t, system, `"cognitive_complexity"`)
	assert.Contains(t, system, "Naming conventions")
	assert.Contains(t, system, "- Exported identifiers are documented")
	assert.Contains(t, user, "code here")
}

func TestBuildQuickPrompt(t *testing.T) {
	system, user := BuildQuickPrompt("x = 1")

	assert.Contains(t, system, `"complexity_score"`)
	assert.Contains(t, system, "Return ONLY the JSON response")
	assert.Contains(t, user, "x = 1")
}

func TestChatSystemPrompt(t *testing.T) {
	p := ChatSystemPrompt()
	assert.Contains(t, p, "Code Review Assistant")
	assert.Contains(t, p, "markdown formatting")
}
