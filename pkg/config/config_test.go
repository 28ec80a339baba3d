package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treelog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9100\ndata_file: facts.data\nlog_level: debug\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Port)
	require.Equal(t, "facts.data", cfg.DataFile)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "0.0.0.0", cfg.Host)

	t.Setenv("TREELOG_PORT", "9200")
	t.Setenv("TREELOG_DATA_FILE", "")
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, 9200, cfg.Port)
	require.Equal(t, "", cfg.DataFile)

	t.Setenv("TREELOG_PORT", "ninety")
	_, err = Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "treelog.yaml")
	cfg := DefaultConfig()
	cfg.Port = 7000
	cfg.DataFile = "x.data"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Port = 70000
	require.Error(t, cfg.Validate())
}
