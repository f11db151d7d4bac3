package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	assert.Empty(t, cfg.Style, "style has no default, the caller must choose")
	assert.Equal(t, "GeneratedModel", cfg.RootName)
	assert.Empty(t, cfg.Output)
	assert.False(t, cfg.Debug)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pytyper.yaml")
	content := `style: pydantic
root_name: ApiResponse
output: models.py
debug: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "pydantic", cfg.Style)
	assert.Equal(t, "ApiResponse", cfg.RootName)
	assert.Equal(t, "models.py", cfg.Output)
	assert.True(t, cfg.Debug)
}

func TestLoadConfig_NamingOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pytyper.yaml")
	content := `style: pydantic
naming:
  addr: address
  n: count
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"addr": "address", "n": "count"}, cfg.Naming)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pytyper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("style: attrs\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "attrs", cfg.Style)
	assert.Equal(t, "GeneratedModel", cfg.RootName)
}

func TestLoadConfig_UnknownStyle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pytyper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("style: protobuf\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown style")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pytyper.yaml")
	require.NoError(t, os.WriteFile(path, []byte("style: [unterminated\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := NewConfig()
	assert.NoError(t, cfg.Validate(), "empty style is allowed in the file")

	cfg.Style = "dataclass"
	assert.NoError(t, cfg.Validate())

	cfg.Style = "thrift"
	assert.Error(t, cfg.Validate())
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	assert.Empty(t, FindConfigFile())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pytyper.yaml"), []byte("style: attrs\n"), 0644))
	assert.Equal(t, ".pytyper.yaml", FindConfigFile())
}
