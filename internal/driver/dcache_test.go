package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"trebuchet/internal/calibration"
	"trebuchet/internal/lexer"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	require.NoError(t, err)

	key := CacheKey([32]byte{1, 2, 3}, lexer.ModeWords)
	var out DiskPayload
	found, err := cache.Get(key, &out)
	require.NoError(t, err)
	require.False(t, found)

	in := &DiskPayload{Mode: "words", Total: 55, Lines: []calibration.LineResult{{Line: 1, Value: 55}}}
	require.NoError(t, cache.Put(key, in))

	found, err = cache.Get(key, &out)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 55, out.Total)
	require.Equal(t, uint32(1), out.Lines[0].Line)

	// временных файлов не остаётся
	entries, err := os.ReadDir(filepath.Join(cache.Dir(), "sums"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestCacheKeyDependsOnMode(t *testing.T) {
	h := [32]byte{9}
	require.NotEqual(t, CacheKey(h, lexer.ModeDigits), CacheKey(h, lexer.ModeWords))
	require.Equal(t, CacheKey(h, lexer.ModeDigits), CacheKey(h, lexer.ModeDigits))
}

func TestDiskCacheCorruptEntry(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	require.NoError(t, err)
	key := CacheKey([32]byte{7}, lexer.ModeDigits)
	p := cache.pathFor(key)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte{0xc1}, 0o600))

	var out DiskPayload
	_, err = cache.Get(key, &out)
	require.Error(t, err)
}

func TestDiskCacheDropAll(t *testing.T) {
	cache, err := OpenDiskCache(t.TempDir())
	require.NoError(t, err)
	key := CacheKey([32]byte{5}, lexer.ModeWords)
	require.NoError(t, cache.Put(key, &DiskPayload{Total: 1}))
	require.NoError(t, cache.DropAll())

	var out DiskPayload
	found, err := cache.Get(key, &out)
	require.NoError(t, err)
	require.False(t, found)
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	require.NoError(t, cache.Put(Digest{}, &DiskPayload{}))
	found, err := cache.Get(Digest{}, &DiskPayload{})
	require.NoError(t, err)
	require.False(t, found)
}

func TestOpenDiskCacheRequiresDir(t *testing.T) {
	_, err := OpenDiskCache("")
	require.Error(t, err)
}
