package textutil

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCodeBlocks(t *testing.T) {
	text := "Intro\n```python\ndef f():\n    pass\n```\nmiddle\n```\nplain\n```\n"

	blocks := ParseCodeBlocks(text)
	require.Len(t, blocks, 2)
	assert.Equal(t, "python", blocks[0].Language)
	assert.Equal(t, "def f():\n    pass", blocks[0].Code)
	assert.Equal(t, "text", blocks[1].Language)
	assert.Equal(t, "plain", blocks[1].Code)
}

func TestParseCodeBlocks_None(t *testing.T) {
	assert.Empty(t, ParseCodeBlocks("no fences here"))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.5s"},
		{45 * time.Second, "45.0s"},
		{90 * time.Second, "1.5m"},
		{2 * time.Hour, "2.0h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 2, CountLines("a\n\n  \nb"))
	assert.Equal(t, 0, CountLines(""))
	assert.Equal(t, 1, CountLines("single"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"app.py", "app.py"},
		{"../etc/passwd", ".._etc_passwd"},
		{`dir\file.txt`, "dir_file.txt"},
		{"we<i>rd:na?me.go", "we_i_rd_na_me.go"},
		{"___spaced  ", "spaced"},
		{"", "unnamed_file"},
		{"???", "unnamed_file"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeFilename_LengthCapPreservesExtension(t *testing.T) {
	long := strings.Repeat("a", 200) + ".py"

	got := SanitizeFilename(long)
	assert.LessOrEqual(t, len(got), MaxFilenameLength)
	assert.True(t, strings.HasSuffix(got, ".py"))
}
