package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMCache_SaveGet(t *testing.T) {
	c := &LLMCache{Dir: t.TempDir()}
	key := KeyFrom("model", "prompt", "document")
	entities := json.RawMessage(`[{"text":"732829320","label":"SIREN"}]`)
	require.NoError(t, c.Save(context.Background(), key, Entry{Model: "model", Entities: entities}))

	got, ok, err := c.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "model", got.Model)
	assert.JSONEq(t, string(entities), string(got.Entities))
	assert.False(t, got.SavedAt.IsZero())
}

func TestLLMCache_MissIsNotError(t *testing.T) {
	c := &LLMCache{Dir: t.TempDir()}
	got, ok, err := c.Get(context.Background(), KeyFrom("m", "p", "absent"))
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Entry{}, got)
}

func TestLLMCache_CorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	c := &LLMCache{Dir: dir}
	key := KeyFrom("m", "p", "d")
	require.NoError(t, os.WriteFile(filepath.Join(dir, key+".json"), []byte("not json"), 0o644))
	_, ok, err := c.Get(context.Background(), key)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestLLMCache_Unconfigured(t *testing.T) {
	var c *LLMCache
	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestKeyFrom_DependsOnEveryPart(t *testing.T) {
	base := KeyFrom("m", "p", "d")
	assert.Equal(t, base, KeyFrom("m", "p", "d"))
	assert.NotEqual(t, base, KeyFrom("m2", "p", "d"))
	assert.NotEqual(t, base, KeyFrom("m", "p2", "d"))
	assert.NotEqual(t, base, KeyFrom("m", "p", "d2"))
	// Moving text across the prompt/document boundary changes the key.
	assert.NotEqual(t, KeyFrom("m", "ab", "c"), KeyFrom("m", "a", "bc"))
}

func TestLLMCache_StrictPerms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "llm")
	c := &LLMCache{Dir: dir, StrictPerms: true}
	key := KeyFrom("model", "prompt", "document")
	require.NoError(t, c.Save(context.Background(), key, Entry{Entities: json.RawMessage(`[]`)}))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode()&0o777)

	finfo, err := os.Stat(filepath.Join(dir, key+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), finfo.Mode()&0o777)
}

func TestPurgeByAge(t *testing.T) {
	dir := t.TempDir()
	c := &LLMCache{Dir: dir}
	oldKey, newKey := KeyFrom("m", "p", "old"), KeyFrom("m", "p", "new")
	require.NoError(t, c.Save(context.Background(), oldKey, Entry{Entities: json.RawMessage(`[]`)}))
	require.NoError(t, c.Save(context.Background(), newKey, Entry{Entities: json.RawMessage(`[]`)}))
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, oldKey+".json"), past, past))

	removed, err := PurgeByAge(dir, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, ok, _ := c.Get(context.Background(), oldKey)
	assert.False(t, ok)
	_, ok, _ = c.Get(context.Background(), newKey)
	assert.True(t, ok)
}

func TestPurgeByAge_MissingDirIsNoop(t *testing.T) {
	removed, err := PurgeByAge(filepath.Join(t.TempDir(), "nope"), time.Hour)
	assert.NoError(t, err)
	assert.Zero(t, removed)
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.json"), []byte("{}"), 0o644))
	require.NoError(t, ClearDir(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Error(t, ClearDir("  "))
}
