package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
max_limit = 10

[dict]
separator = ","
autosave = "30s"
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Server.MaxLimit)
	assert.Equal(t, 60, cfg.Server.MaxPrefix)
	assert.Equal(t, ',', cfg.Dict.SeparatorRune())
	assert.Equal(t, 30*time.Second, cfg.Dict.AutosaveInterval())
	assert.True(t, cfg.Dict.FoldCase)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// max_prefix has the wrong type, so the strict decode fails
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
max_limit = 12
max_prefix = "long"

[dict]
cache_size = 7
fold_case = false

[log]
level = "debug"
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Server.MaxLimit)
	assert.Equal(t, 60, cfg.Server.MaxPrefix)
	assert.Equal(t, 7, cfg.Dict.CacheSize)
	assert.False(t, cfg.Dict.FoldCase)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigUnparseable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nmax_limit = "), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[cli]\ndefault_limit = 5\n"), 0644))

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 5, cfg.CLI.DefaultLimit)
}

func TestSeparatorRune(t *testing.T) {
	tests := []struct {
		in   string
		want rune
	}{
		{"", '\t'},
		{"tab", '\t'},
		{`\t`, '\t'},
		{"space", ' '},
		{";", ';'},
		{"→", '→'},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DictConfig{Separator: tt.in}.SeparatorRune(), "separator %q", tt.in)
	}
}

func TestAutosaveIntervalInvalid(t *testing.T) {
	assert.Zero(t, DictConfig{Autosave: "soon"}.AutosaveInterval())
	assert.Zero(t, DictConfig{Autosave: "-1m"}.AutosaveInterval())
	assert.Zero(t, DictConfig{}.AutosaveInterval())
}

func TestUpdateAndRebuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	limit, filter := 9, false
	require.NoError(t, cfg.Update(path, &limit, nil, nil, &filter))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9, loaded.Server.MaxLimit)
	assert.False(t, loaded.Server.EnableFilter)
	assert.Equal(t, 1, loaded.Server.MinPrefix)

	written, err := RebuildConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, written)
	loaded, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), loaded)
}
