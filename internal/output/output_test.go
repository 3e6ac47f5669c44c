package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUI() (*UI, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &UI{Out: out, ErrOut: errOut}, out, errOut
}

func TestInfo(t *testing.T) {
	u, out, _ := newTestUI()
	u.Info("hello %s", "world")
	assert.Contains(t, out.String(), "hello world")
}

func TestSuccess(t *testing.T) {
	u, out, _ := newTestUI()
	u.Success("done %d", 42)
	assert.Contains(t, out.String(), "done 42")
}

func TestWarning(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Warning("careful %s", "now")
	assert.Contains(t, errOut.String(), "careful now")
}

func TestError(t *testing.T) {
	u, _, errOut := newTestUI()
	u.Error("failed %s", "badly")
	assert.Contains(t, errOut.String(), "failed badly")
}

func TestVerboseLog_Enabled(t *testing.T) {
	u, out, _ := newTestUI()
	u.Verbose = true
	u.VerboseLog("detail %d", 1)
	assert.Contains(t, out.String(), "detail 1")
}

func TestVerboseLog_Disabled(t *testing.T) {
	u, out, _ := newTestUI()
	u.Verbose = false
	u.VerboseLog("detail %d", 1)
	assert.Empty(t, out.String())
}

func TestColorHelpers(t *testing.T) {
	// Color helpers should return non-empty strings
	assert.NotEmpty(t, Cyan("test"))
	assert.NotEmpty(t, Green("test"))
	assert.NotEmpty(t, Yellow("test"))
	assert.NotEmpty(t, Red("test"))
}

func TestStatusColor(t *testing.T) {
	assert.NotEmpty(t, StatusColor("IN_PROGRESS"))
	assert.NotEmpty(t, StatusColor("COMPLETED"))
	assert.NotEmpty(t, StatusColor("FAILED"))
	assert.Equal(t, "UNKNOWN", StatusColor("UNKNOWN"))
}

func TestSeverityColor(t *testing.T) {
	assert.NotEmpty(t, SeverityColor("HIGH"))
	assert.NotEmpty(t, SeverityColor("MEDIUM"))
	assert.NotEmpty(t, SeverityColor("LOW"))
	assert.Equal(t, "odd", SeverityColor("odd"))
}

func TestScoreColor(t *testing.T) {
	assert.NotEmpty(t, ScoreColor(90))
	assert.NotEmpty(t, ScoreColor(60))
	assert.NotEmpty(t, ScoreColor(30))
}

func TestTable(t *testing.T) {
	u, out, _ := newTestUI()
	table := u.Table([]string{"File", "Status"})
	require.NotNil(t, table)

	table.Append([]string{"app.py", "COMPLETED"})
	table.Append([]string{"lib.py", "FAILED"})
	err := table.Render()
	require.NoError(t, err)

	result := out.String()
	assert.True(t, strings.Contains(result, "app.py") || strings.Contains(result, "APP.PY"),
		"table output should contain file names")
	assert.True(t, strings.Contains(result, "lib.py") || strings.Contains(result, "LIB.PY"),
		"table output should contain file names")
}
