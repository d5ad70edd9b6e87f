package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string](10, time.Minute)

	_, ok := c.Get("saldo")
	require.False(t, ok)

	c.Set("saldo", "check_balance")
	got, ok := c.Get("saldo")
	require.True(t, ok)
	assert.Equal(t, "check_balance", got)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(2), stats.TotalRequests)
	assert.InDelta(t, 0.5, stats.HitRate, 1e-9)
	assert.Equal(t, 1, stats.Size)
}

func TestCache_Expiry(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("k", 42)

	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	_, ok = c.Get("k")
	assert.False(t, ok, "expired entry must miss")
	assert.Equal(t, 0, c.Size(), "expired entry is dropped on lookup")
}

func TestCache_SweepRemovesOnlyExpired(t *testing.T) {
	c := New[int](10, 20*time.Millisecond)
	c.Set("old", 1)
	time.Sleep(30 * time.Millisecond)
	c.Set("fresh", 2)

	removed := c.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Size())

	got, ok := c.Get("fresh")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestCache_FullDropsWriteAfterSweep(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	// Nothing expired, so the sweep frees no room and the write is dropped.
	c.Set("c", 3)
	_, ok := c.Get("c")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Size())

	// Overwriting an existing key is never capacity-bound.
	c.Set("a", 10)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, got)
}

func TestCache_FullSweepMakesRoom(t *testing.T) {
	c := New[int](2, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(30 * time.Millisecond)

	c.Set("c", 3)
	got, ok := c.Get("c")
	require.True(t, ok, "capacity pressure sweeps expired entries first")
	assert.Equal(t, 3, got)
}

func TestCache_ClearResetsCounters(t *testing.T) {
	c := New[int](10, time.Minute)
	c.Set("a", 1)
	c.Get("a")
	c.Get("missing")

	c.Clear()

	stats := c.Stats()
	assert.Zero(t, stats.Size)
	assert.Zero(t, stats.Hits)
	assert.Zero(t, stats.Misses)
	assert.Zero(t, stats.TotalRequests)
	assert.Zero(t, stats.HitRate)
}

func TestCache_Resize(t *testing.T) {
	c := New[int](1, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	_, ok := c.Get("b")
	require.False(t, ok)

	c.Resize(2, 0)
	c.Set("b", 2)
	_, ok = c.Get("b")
	assert.True(t, ok)

	// Non-positive arguments keep current values.
	c.Resize(0, -time.Second)
	c.Set("c", 3)
	_, ok = c.Get("c")
	assert.False(t, ok, "capacity unchanged after no-op resize")
}

func TestNew_DefaultsOnNonPositiveArgs(t *testing.T) {
	c := New[int](0, 0)
	for i := 0; i < 1001; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, 1000, c.Size(), "default capacity applies")
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New[int](100, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%50)
				c.Set(key, j)
				c.Get(key)
				if j%40 == 0 {
					c.Stats()
					c.Sweep()
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Size(), 100)
}
