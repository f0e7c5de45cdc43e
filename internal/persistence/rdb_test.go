package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redgo/internal/store"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb")

	entries := []store.SnapshotEntry{
		{Key: "greeting", Type: store.TypeString, Str: "hello"},
		{Key: "mylist", Type: store.TypeList, List: []string{"a", "b", "c"}},
		{Key: "myhash", Type: store.TypeHash, Hash: map[string]string{"f1": "v1", "f2": "v2"}},
		{Key: "myset", Type: store.TypeSet, Set: []string{"x", "y"}},
		{Key: "myzset", Type: store.TypeZSet, ZSet: []store.ZSetMember{
			{Member: "m1", Score: 1.5},
			{Member: "m2", Score: -2.25},
		}},
		{Key: "withttl", Type: store.TypeString, Str: "expiring", HasTTL: true, ExpiresAt: 99999999999999},
	}

	require.NoError(t, Save(path, entries))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(entries))

	byKey := make(map[string]store.SnapshotEntry, len(loaded))
	for _, e := range loaded {
		byKey[e.Key] = e
	}

	assert.Equal(t, "hello", byKey["greeting"].Str)
	assert.Equal(t, []string{"a", "b", "c"}, byKey["mylist"].List)
	assert.Equal(t, "v1", byKey["myhash"].Hash["f1"])
	assert.ElementsMatch(t, []string{"x", "y"}, byKey["myset"].Set)
	assert.ElementsMatch(t, []store.ZSetMember{
		{Member: "m1", Score: 1.5},
		{Member: "m2", Score: -2.25},
	}, byKey["myzset"].ZSet)
	assert.True(t, byKey["withttl"].HasTTL)
	assert.Equal(t, int64(99999999999999), byKey["withttl"].ExpiresAt)
}

func TestLoadMissingFileReturnsNil(t *testing.T) {
	dir := t.TempDir()
	loaded, err := Load(filepath.Join(dir, "does-not-exist.rdb"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadRejectsCorruptChecksum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb")

	require.NoError(t, Save(path, []store.SnapshotEntry{
		{Key: "k", Type: store.TypeString, Str: "v"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = Load(path)
	assert.Error(t, err)
}

func TestKeyspaceSnapshotRoundTripsThroughSave(t *testing.T) {
	ks := store.New()
	defer ks.Close()

	ks.SetString("a", "1", false)
	list, _ := ks.GetOrCreateList("b")
	list.PushBack("x")
	list.PushBack("y")

	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb")

	require.NoError(t, Save(path, ks.Snapshot()))

	loaded, err := Load(path)
	require.NoError(t, err)

	ks2 := store.New()
	defer ks2.Close()
	ks2.Restore(loaded)

	assert.Equal(t, 2, ks2.DBSize())
	v, ok, wrongType := ks2.GetString("a")
	require.True(t, ok)
	require.False(t, wrongType)
	assert.Equal(t, "1", v)
}
