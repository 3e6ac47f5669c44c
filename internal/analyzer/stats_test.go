package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountStats(t *testing.T) {
	code := `
def function1():
    # This is a comment
    pass

class TestClass:
    def method1(self):
        pass

    def method2(self):
        # Another comment
        return True
`
	stats := CountStats(code)
	assert.Equal(t, 3, stats.Functions)
	assert.Equal(t, 1, stats.Classes)
	assert.Equal(t, 2, stats.Comments)
}

func TestCountStats_GoSource(t *testing.T) {
	code := "// package doc\nfunc main() {\n}\n"
	stats := CountStats(code)
	assert.Equal(t, 1, stats.Functions)
	assert.Equal(t, 1, stats.Comments)
	assert.Equal(t, 0, stats.Classes)
}

func TestCountStats_Empty(t *testing.T) {
	stats := CountStats("")
	assert.Equal(t, 1, stats.Lines)
	assert.Equal(t, 0, stats.Functions)
}
