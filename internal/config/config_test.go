package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileIsZeroConfig(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Defaults.Verify)
	assert.Nil(t, cfg.Defaults.Quiet)
}

func TestLoadFrom_ParsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[defaults]
verify = true
quiet = false
chunk_size = "4M"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := loadFrom(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Defaults.Verify)
	assert.True(t, *cfg.Defaults.Verify)
	require.NotNil(t, cfg.Defaults.Quiet)
	assert.False(t, *cfg.Defaults.Quiet)
	require.NotNil(t, cfg.Defaults.ChunkSize)
	assert.Equal(t, "4M", *cfg.Defaults.ChunkSize)
	assert.Nil(t, cfg.Defaults.Verbose)
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[defaults\nbroken"), 0o644))

	_, err := loadFrom(path)
	assert.Error(t, err)
}

func TestPath_UsesXDGConfigHome(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "mvx", "config.toml"), Path())
}
