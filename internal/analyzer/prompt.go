package analyzer

import (
	"strings"
)

// Kind identifies the type of analysis a prompt (and its response schema)
// targets.
type Kind string

const (
	KindFullReview Kind = "full_review"
	KindSecurity   Kind = "security"
	KindQuality    Kind = "quality"
	KindQuick      Kind = "quick"
)

// Prompt building is pure templating: it embeds the exact response schema the
// normalizer validates against and never fails. Extra criteria lines (from a
// standards profile) are appended to the focus list verbatim.

const fullReviewSystemPrompt = `You are an expert code analyzer. Analyze the given code and return ONLY a JSON object with this EXACT structure (no other text):
{
    "issues": [
        {
            "severity": "HIGH|MEDIUM|LOW",
            "description": "Issue description here",
            "line_number": 1
        }
    ],
    "metrics": {
        "complexity": 50,
        "maintainability": 50,
        "security_score": 50
    },
    "suggestions": [
        {
            "title": "Suggestion title",
            "description": "Suggestion details",
            "priority": "HIGH|MEDIUM|LOW"
        }
    ],
    "summary": "One-paragraph overall assessment"
}

Rules:
1. Return ONLY the JSON object, no other text
2. Use the EXACT structure shown above
3. All numbers must be integers 0-100
4. Severity/priority must be HIGH, MEDIUM, or LOW
5. Line numbers must be positive integers`

// BuildFullReviewPrompt composes the system and user prompts for a complete
// code review returning issues, metrics, suggestions, and a summary.
func BuildFullReviewPrompt(code string) (system, user string) {
	return fullReviewSystemPrompt, "Analyze this code:\n" + code
}

const securitySystemPrompt = `You are a code security expert. Analyze code for security vulnerabilities.

Provide a JSON response with the following structure:
{
    "vulnerabilities": [
        {
            "type": "vulnerability type",
            "description": "detailed description",
            "severity": "HIGH/MEDIUM/LOW",
            "remediation": "how to fix",
            "cwe_id": "CWE identifier if applicable"
        }
    ]
}

Focus on important security issues like:
- SQL injection
- XSS vulnerabilities
- Unsafe deserialization
- Command injection
- Hardcoded credentials
- Insecure cryptographic implementations
- Input validation
- Authentication issues
- Authorization flaws`

// BuildSecurityPrompt composes the prompts for a security-focused analysis.
// Extra focus lines from a standards profile are appended to the built-in
// criteria list.
func BuildSecurityPrompt(code string, extraCriteria []string) (system, user string) {
	system = appendCriteria(securitySystemPrompt, extraCriteria)
	system += "\n\nReturn ONLY the JSON response, nothing else."
	return system, "Analyze the following code for security vulnerabilities:\n\n" + code
}

const qualitySystemPrompt = `You are a code quality expert. Review code for quality and best practices.

Provide a JSON response with the following structure:
{
    "issues": [
        {
            "type": "issue type",
            "line_number": 1,
            "description": "detailed description",
            "suggestion": "how to improve",
            "priority": "HIGH/MEDIUM/LOW",
            "category": "READABILITY/PERFORMANCE/MAINTAINABILITY"
        }
    ],
    "metrics": {
        "maintainability_index": 50,
        "cognitive_complexity": 50
    }
}

Focus on:
- Code readability
- Performance issues
- Error handling
- Code duplication
- Naming conventions
- Function complexity
- SOLID principles
- Design patterns
- Testing considerations`

// BuildQualityPrompt composes the prompts for a quality-focused analysis.
func BuildQualityPrompt(code string, extraCriteria []string) (system, user string) {
	system = appendCriteria(qualitySystemPrompt, extraCriteria)
	system += "\n\nReturn ONLY the JSON response, nothing else."
	return system, "Review the following code for quality and best practices:\n\n" + code
}

const quickSystemPrompt = `Analyze code snippets quickly and provide immediate feedback.

Return a JSON response with this structure:
{
    "suggestions": [
        {
            "title": "Brief suggestion title",
            "description": "Detailed explanation with improvement suggestions",
            "code_example": "Optional example of improved code"
        }
    ],
    "metrics": {
        "complexity_score": "1-10 score",
        "readability": "1-10 score",
        "maintainability": "1-10 score"
    }
}

Focus on quick, actionable feedback about:
1. Code structure and organization
2. Obvious improvements
3. Best practices
4. Common patterns and anti-patterns

Keep the analysis fast and focused. Return ONLY the JSON response.`

// BuildQuickPrompt composes the prompts for fast, best-effort feedback with a
// reduced response budget.
func BuildQuickPrompt(code string) (system, user string) {
	return quickSystemPrompt, "Analyze this code snippet quickly and provide immediate feedback:\n\n" + code
}

// ChatSystemPrompt is the persona prompt used for conversational follow-up
// questions. Chat replies are free text, not JSON.
func ChatSystemPrompt() string {
	return `You are an AI Code Review Assistant, an expert in software development, code quality, and best practices.
Your role is to help developers understand and improve their code. When responding to questions:

1. Be concise but informative
2. Use markdown formatting for code examples
3. Focus on practical, actionable advice
4. Reference industry best practices and standards when relevant
5. If discussing code issues, explain both the 'what' and the 'why'

Provide helpful, professional responses focusing on code review and development best practices.`
}

func appendCriteria(system string, extra []string) string {
	if len(extra) == 0 {
		return system
	}
	var b strings.Builder
	b.WriteString(system)
	for _, line := range extra {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("\n- ")
		b.WriteString(line)
	}
	return b.String()
}
