package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBolt(t *testing.T) *Bolt {
	t.Helper()
	b, err := NewBolt(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBoltSetGet(t *testing.T) {
	b := openBolt(t)

	require.NoError(t, b.SetKV("t", []KV{
		{Key: "a/1", Value: []byte("one")},
		{Key: "a/2", Value: []byte("two")},
	}))

	kv, err := b.GetKV("t", "a/1")
	require.NoError(t, err)
	assert.True(t, kv.IsExist())
	assert.Equal(t, []byte("one"), kv.Value)

	kv, err = b.GetKV("t", "a/3")
	require.NoError(t, err)
	assert.False(t, kv.IsExist())

	kv, err = b.GetKV("missing", "a/1")
	require.NoError(t, err)
	assert.False(t, kv.IsExist())

	require.NoError(t, b.SetKV("t", []KV{{Key: "a/1"}}), "empty value deletes")
	kv, err = b.GetKV("t", "a/1")
	require.NoError(t, err)
	assert.False(t, kv.IsExist())
}

func TestBoltScan(t *testing.T) {
	b := openBolt(t)
	require.NoError(t, b.SetKV("t", []KV{
		{Key: "b/2", Value: []byte("x")},
		{Key: "a/1", Value: []byte("x")},
		{Key: "b/1", Value: []byte("x")},
		{Key: "c/1", Value: []byte("x")},
	}))

	scan := func(prefix string, limit int) []string {
		var keys []string
		err := b.ScanKV("t", prefix, func(key string, value []byte) bool {
			keys = append(keys, key)
			return len(keys) < limit
		})
		require.NoError(t, err)
		return keys
	}

	assert.Equal(t, []string{"b/1", "b/2"}, scan("b/", 10))
	assert.Equal(t, []string{"a/1", "b/1", "b/2", "c/1"}, scan("", 10))
	assert.Equal(t, []string{"a/1", "b/1"}, scan("", 2), "handler returning false stops the scan")
	assert.Empty(t, scan("z", 10))

	var called bool
	require.NoError(t, b.ScanKV("missing", "", func(string, []byte) bool {
		called = true
		return true
	}))
	assert.False(t, called)
}

func TestBoltDropTable(t *testing.T) {
	b := openBolt(t)
	require.NoError(t, b.SetKV("t", []KV{{Key: "k", Value: []byte("v")}}))
	require.NoError(t, b.DropTable("t"))
	require.NoError(t, b.DropTable("t"), "dropping a missing table is fine")

	kv, err := b.GetKV("t", "k")
	require.NoError(t, err)
	assert.False(t, kv.IsExist())
}
