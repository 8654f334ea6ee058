package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PentoTrace/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultMaxAttempts = 42
	cfg.RecentRuns = []string{"abc12345"}

	require.NoError(t, SaveAppConfig(path, cfg))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppConfigMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig(), loaded)
}

func TestLoadAppConfigGuardsNilRecentRuns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"default_pruning": true}`), 0644))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.NotNil(t, loaded.RecentRuns)
	assert.Empty(t, loaded.RecentRuns)
}

func TestLoadAppConfigBadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := LoadAppConfig(path)
	assert.Error(t, err)
}

func TestDefaultConfigPath(t *testing.T) {
	assert.Equal(t, "config.json", filepath.Base(DefaultConfigPath()))
	assert.Contains(t, DefaultConfigPath(), ".pentotrace")
}
