package standards

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "standards.yml")
	content := `security:
  - No hardcoded credentials
  - All queries must be parameterized
quality:
  - Functions under 50 lines
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"No hardcoded credentials", "All queries must be parameterized"}, p.Security)
	assert.Equal(t, []string{"Functions under 50 lines"}, p.Quality)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Empty(t, p.Security)
	assert.Empty(t, p.Quality)
}

func TestLoad_EmptyPathIsEmpty(t *testing.T) {
	p, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, p.Security)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("security: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
