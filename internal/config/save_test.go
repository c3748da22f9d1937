package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readVisible(t *testing.T, path string) bool {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg struct {
		Minimap struct {
			Visible bool `yaml:"visible"`
		} `yaml:"minimap"`
	}
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	return cfg.Minimap.Visible
}

func TestSaveVisibility_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveVisibility(path, false))
	require.False(t, readVisible(t, path))
}

func TestSaveVisibility_PreservesComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SaveVisibility(path, false))
	require.False(t, readVisible(t, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# Minimap Configuration")
	require.Contains(t, string(data), "syntax_style: monokai")

	require.NoError(t, SaveVisibility(path, true))
	require.True(t, readVisible(t, path))
}

func TestSaveVisibility_AddsMissingSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  tab_width: 8\n"), 0o600))

	require.NoError(t, SaveVisibility(path, true))
	require.True(t, readVisible(t, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "tab_width: 8")
}

func TestSaveVisibility_RejectsNonMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))

	require.Error(t, SaveVisibility(path, true))
}
