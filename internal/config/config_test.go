package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	c := Default()
	assert.Equal(t, "127.0.0.1", c.Host)
	assert.Equal(t, 6379, c.Port)
	assert.Equal(t, "./data/dump.rdb", c.RDBPath())
}

func TestLoadFileOverridesRecognizedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redgo.conf")
	content := "# comment line\n\nhost 0.0.0.0\nport 7000\nloglevel debug\ndata_dir /var/lib/redgo\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c := Default()
	require.NoError(t, c.LoadFile(path))

	assert.Equal(t, "0.0.0.0", c.Host)
	assert.Equal(t, 7000, c.Port)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, "/var/lib/redgo", c.DataDir)
	assert.Equal(t, 10000, c.MaxClients)
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	c := Default()
	require.NoError(t, c.LoadFile(filepath.Join(t.TempDir(), "missing.conf")))
	assert.Equal(t, Default().Host, c.Host)
}
