package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staffdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
db:
  path: /tmp/people.db
  table: staff
sort:
  algorithm: MergeSort
search:
  fuzzy_distance: 1
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/people.db", cfg.DB.Path)
	assert.Equal(t, "staff", cfg.DB.Table)
	assert.Equal(t, "MergeSort", cfg.Sort.Algorithm)
	assert.Equal(t, 1, cfg.Search.FuzzyDistance)
	assert.Equal(t, "debug", cfg.Log.Level, "unset keys keep their defaults")
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "db:\n  table: staff\n")
	t.Setenv("STAFFDB_DB_TABLE", "contractors")
	t.Setenv("STAFFDB_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "contractors", cfg.DB.Table)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(writeConfig(t, "sort:\n  algorithm: bogosort\n"))
	assert.ErrorContains(t, err, "bogosort")

	_, err = Load(writeConfig(t, "search:\n  fuzzy_distance: -1\n"))
	assert.ErrorContains(t, err, "fuzzy_distance")

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
