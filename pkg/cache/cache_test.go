package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleCache(t *testing.T) {
	c, err := NewSimple[string]()
	require.NoError(t, err)

	t.Run("get missing key", func(t *testing.T) {
		value, found := c.Get("absent")
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("set and get", func(t *testing.T) {
		created, err := c.Set("MS:1000514", "m/z array")
		require.NoError(t, err)
		assert.True(t, created)

		value, found := c.Get("MS:1000514")
		assert.True(t, found)
		assert.Equal(t, "m/z array", value)
	})

	t.Run("overwrite existing key", func(t *testing.T) {
		created, err := c.Set("MS:1000514", "updated")
		require.NoError(t, err)
		assert.False(t, created)

		value, _ := c.Get("MS:1000514")
		assert.Equal(t, "updated", value)
	})

	t.Run("empty key rejected", func(t *testing.T) {
		_, err := c.Set("", "value")
		assert.Error(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		existed, err := c.Delete("MS:1000514")
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = c.Delete("MS:1000514")
		require.NoError(t, err)
		assert.False(t, existed)
	})

	t.Run("clear", func(t *testing.T) {
		_, err := c.Set("a", "1")
		require.NoError(t, err)
		_, err = c.Set("b", "2")
		require.NoError(t, err)

		require.NoError(t, c.Clear())
		assert.Zero(t, c.Size())
		assert.Empty(t, c.Keys())
	})
}

func TestLRUCache(t *testing.T) {
	t.Run("rejects non-positive capacity", func(t *testing.T) {
		_, err := NewLRU[int](0)
		assert.Error(t, err)

		_, err = NewLRU[int](-1)
		assert.Error(t, err)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		c, err := NewLRU[int](2)
		require.NoError(t, err)

		_, err = c.Set("a", 1)
		require.NoError(t, err)
		_, err = c.Set("b", 2)
		require.NoError(t, err)

		// Touch "a" so "b" becomes the eviction candidate.
		_, found := c.Get("a")
		require.True(t, found)

		_, err = c.Set("c", 3)
		require.NoError(t, err)

		_, found = c.Get("b")
		assert.False(t, found)
		_, found = c.Get("a")
		assert.True(t, found)
		_, found = c.Get("c")
		assert.True(t, found)
		assert.Equal(t, 2, c.Size())
	})

	t.Run("keys ordered by recency", func(t *testing.T) {
		c, err := NewLRU[int](3)
		require.NoError(t, err)

		for i, key := range []string{"x", "y", "z"} {
			_, err = c.Set(key, i)
			require.NoError(t, err)
		}
		_, _ = c.Get("x")

		assert.Equal(t, []string{"x", "z", "y"}, c.Keys())
	})

	t.Run("update does not grow cache", func(t *testing.T) {
		c, err := NewLRU[int](2)
		require.NoError(t, err)

		_, err = c.Set("a", 1)
		require.NoError(t, err)
		created, err := c.Set("a", 2)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, 1, c.Size())
	})
}

func TestStatistics(t *testing.T) {
	c, err := NewSimple[int]()
	require.NoError(t, err)

	_, err = c.Set("a", 1)
	require.NoError(t, err)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits())
	assert.Equal(t, int64(1), stats.Misses())
	assert.Equal(t, int64(1), stats.Sets())
	assert.InDelta(t, 2.0/3.0, stats.HitRatio(), 1e-9)

	stats.Reset()
	assert.Zero(t, stats.Hits())
	assert.Zero(t, stats.Misses())
	assert.Zero(t, stats.HitRatio())
}
