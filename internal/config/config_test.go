package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PUNCHCARD_DB", "")
	t.Setenv("PUNCHCARD_USER", "")
	t.Setenv("PUNCHCARD_LOG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "punchcard.db", filepath.Base(cfg.DBPath))
	assert.Empty(t, cfg.Username)
	assert.Empty(t, cfg.LogPath)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PUNCHCARD_DB", "/tmp/custom.db")
	t.Setenv("PUNCHCARD_USER", "ana")
	t.Setenv("PUNCHCARD_LOG", "/tmp/punchcard.log")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, "ana", cfg.Username)
	assert.Equal(t, "/tmp/punchcard.log", cfg.LogPath)
}
