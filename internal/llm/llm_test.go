package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFencing(t *testing.T) {
	t.Run("plain text unchanged", func(t *testing.T) {
		assert.Equal(t, `{"issues": []}`, StripFencing(`{"issues": []}`))
	})

	t.Run("strips json fence", func(t *testing.T) {
		in := "```json\n{\"issues\": []}\n```"
		assert.Equal(t, `{"issues": []}`, StripFencing(in))
	})

	t.Run("strips bare fence", func(t *testing.T) {
		in := "```\n{\"a\": 1}\n```"
		assert.Equal(t, `{"a": 1}`, StripFencing(in))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		assert.Equal(t, "hello", StripFencing("  hello\n"))
	})

	t.Run("fence without trailing marker", func(t *testing.T) {
		in := "```json\n{\"a\": 1}"
		assert.Equal(t, `{"a": 1}`, StripFencing(in))
	})
}
