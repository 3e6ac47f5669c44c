package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tameralinada/ai-code-reviewer/internal/output"
)

// testEnv sets up isolated config dir, viper, and output for testing.
func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	// Override configDirFunc for tests
	origFunc := configDirFunc
	configDirFunc = func() (string, error) { return dir, nil }
	t.Cleanup(func() { configDirFunc = origFunc })

	// Reset viper
	viper.Reset()
	viper.SetDefault("db_path", filepath.Join(dir, "reviews.db"))
	viper.SetDefault("anthropic.api_key", "")
	viper.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	viper.SetDefault("rate_limit.calls_per_minute", 50)
	viper.SetDefault("analysis.max_retries", 3)
	viper.SetDefault("analysis.request_timeout", "60s")
	viper.SetDefault("analysis.cache_size", 100)
	viper.SetDefault("standards_file", "")

	// Initialize output
	ui = output.New()

	return dir
}

func TestConfigInit_CreatesFile(t *testing.T) {
	dir := testEnv(t)

	err := configInitRun()
	require.NoError(t, err)

	cfgPath := filepath.Join(dir, "config.yaml")
	_, err = os.Stat(cfgPath)
	assert.NoError(t, err, "config file should exist")

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "acr configuration")
	assert.Contains(t, string(data), "rate_limit")
	assert.Contains(t, string(data), "calls_per_minute: 50")
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	dir := testEnv(t)

	// Create existing file
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("existing"), 0644))

	configForce = false
	err := configInitRun()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigInit_ForceOverwrite(t *testing.T) {
	dir := testEnv(t)

	// Create existing file
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("existing"), 0644))

	configForce = true
	t.Cleanup(func() { configForce = false })
	err := configInitRun()
	require.NoError(t, err)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.NotEqual(t, "existing", string(data))
}

func TestConfigShow_NoFile(t *testing.T) {
	testEnv(t)

	err := configShowRun()
	assert.NoError(t, err)
}

func TestReadConfigFileValues_FlattensNestedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `db_path: /tmp/x.db
anthropic:
  model: claude-test
analysis:
  max_retries: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	values := readConfigFileValues(path)
	assert.True(t, values["db_path"])
	assert.True(t, values["anthropic.model"])
	assert.True(t, values["analysis.max_retries"])
	assert.False(t, values["rate_limit.calls_per_minute"])
}

func TestDetectSource(t *testing.T) {
	t.Setenv("ACR_TEST_SOURCE_KEY", "1")

	assert.Contains(t, detectSource("x", "ACR_TEST_SOURCE_KEY", nil), "env")
	assert.Equal(t, "(file)", detectSource("y", "ACR_UNSET_VAR", map[string]bool{"y": true}))
	assert.Equal(t, "(default)", detectSource("z", "ACR_UNSET_VAR", nil))
}
