package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redgo/internal/store"
)

func TestSaverSaveNowWritesFile(t *testing.T) {
	ks := store.New()
	defer ks.Close()
	ks.SetString("k", "v", false)

	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb")
	saver := NewSaver(path, ks, nil)

	require.NoError(t, saver.SaveNow())
	assert.Equal(t, int64(0), ks.DirtyCount())

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "k", loaded[0].Key)
}

func TestSaverTickTriggersOnLowThresholdRule(t *testing.T) {
	ks := store.New()
	defer ks.Close()
	ks.SetString("k", "v", false)

	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb")

	saver := NewSaver(path, ks, []SavePoint{{Seconds: 0, Changes: 1}})
	saver.tick()

	assert.Equal(t, int64(0), ks.DirtyCount())
	_, err := Load(path)
	require.NoError(t, err)
}

func TestSaverStartStop(t *testing.T) {
	ks := store.New()
	defer ks.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb")
	saver := NewSaver(path, ks, []SavePoint{{Seconds: 0, Changes: 1000000}})
	saver.Start()
	time.Sleep(10 * time.Millisecond)
	saver.Stop()
}
