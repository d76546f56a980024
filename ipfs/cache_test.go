package ipfs

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetPut(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()

	_, ok := c.Get("missing")
	assert.False(t, ok)

	doc := json.RawMessage(`{"name":"widget"}`)
	c.Put("addr", doc)

	got, ok := c.Get("addr")
	require.True(t, ok)
	assert.Equal(t, doc, got)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_Clear(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache()
	c.Put("a", json.RawMessage(`1`))
	c.Put("b", json.RawMessage(`2`))
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(WithMaxEntries(2))
	c.Put("a", json.RawMessage(`1`))
	c.Put("b", json.RawMessage(`2`))

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", json.RawMessage(`3`))
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestMemoryCache_ReplaceExisting(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(WithMaxEntries(2))
	c.Put("a", json.RawMessage(`1`))
	c.Put("a", json.RawMessage(`2`))

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, json.RawMessage(`2`), got)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(WithMaxEntries(8))
	done := make(chan struct{})
	for w := range 4 {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := range 100 {
				key := fmt.Sprintf("key-%d", (w+i)%16)
				c.Put(key, json.RawMessage(`{}`))
				c.Get(key)
			}
		}()
	}
	for range 4 {
		<-done
	}
	assert.LessOrEqual(t, c.Len(), 8)
}
