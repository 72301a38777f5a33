package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSessionCache_SetAndGet(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	c.Set("v1", "text", "T", "0:00 text")

	got, ok := c.Get("v1")
	require.True(t, ok)
	assert.Equal(t, "text", got)

	title, ok := c.GetTitle("v1")
	require.True(t, ok)
	assert.Equal(t, "T", title)

	formatted, ok := c.GetFormatted("v1")
	require.True(t, ok)
	assert.Equal(t, "0:00 text", formatted)
}

func TestSessionCache_IdentityMismatch(t *testing.T) {
	c := New()
	c.Set("v1", "text", "", "")

	_, ok := c.Get("v2")
	assert.False(t, ok)
	_, ok = c.GetTitle("v2")
	assert.False(t, ok)
	_, ok = c.GetFormatted("v2")
	assert.False(t, ok)

	// A miss for another id does not evict the slot.
	id, ok := c.CurrentID()
	require.True(t, ok)
	assert.Equal(t, "v1", id)
}

func TestSessionCache_EmptySlot(t *testing.T) {
	c := New()

	_, ok := c.Get("v1")
	assert.False(t, ok)
	_, ok = c.CurrentID()
	assert.False(t, ok)
	assert.False(t, c.ClearExpired())
}

func TestSessionCache_ExpiryEvictsOnRead(t *testing.T) {
	clock := newFakeClock()
	c := New(WithTTL(time.Hour), WithClock(clock.Now))

	c.Set("v1", "text", "T", "")
	clock.Advance(2 * time.Hour)

	_, ok := c.Get("v1")
	assert.False(t, ok)

	// The expired read is self-cleaning.
	_, ok = c.CurrentID()
	assert.False(t, ok)
}

func TestSessionCache_SingleSlotLastWriteWins(t *testing.T) {
	c := New()

	c.Set("v1", "first", "", "")
	c.Set("v2", "second", "", "")

	_, ok := c.Get("v1")
	assert.False(t, ok)

	got, ok := c.Get("v2")
	require.True(t, ok)
	assert.Equal(t, "second", got)

	id, _ := c.CurrentID()
	assert.Equal(t, "v2", id)
}

func TestSessionCache_LastWriteWinsUnderInterleaving(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			c.Set(id, "text-"+id, "", "")
			c.Get(id)
		}(id)
	}
	wg.Wait()

	// Whichever write landed last owns the slot; the slot is
	// consistent, not per-writer isolated.
	id, ok := c.CurrentID()
	require.True(t, ok)
	got, ok := c.Get(id)
	require.True(t, ok)
	assert.Equal(t, "text-"+id, got)
}

func TestSessionCache_ClearExpired(t *testing.T) {
	clock := newFakeClock()
	c := New(WithTTL(time.Hour), WithClock(clock.Now))

	c.Set("v1", "text", "", "")
	assert.False(t, c.ClearExpired())

	clock.Advance(61 * time.Minute)
	assert.True(t, c.ClearExpired())
	assert.False(t, c.ClearExpired())
}

func TestSessionCache_TitleHonorsTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(WithTTL(time.Hour), WithClock(clock.Now))

	c.Set("v1", "text", "T", "F")
	clock.Advance(2 * time.Hour)

	_, ok := c.GetTitle("v1")
	assert.False(t, ok)
	_, ok = c.GetFormatted("v1")
	assert.False(t, ok)

	// Unlike Get, these reads do not evict.
	id, ok := c.CurrentID()
	require.True(t, ok)
	assert.Equal(t, "v1", id)
}

func TestSessionCache_Stats(t *testing.T) {
	clock := newFakeClock()
	c := New(WithClock(clock.Now))

	stats := c.Stats()
	assert.False(t, stats.HasCache)
	assert.Zero(t, stats.SizeBytes)

	c.Set("v1", "12345", "T", "")
	stats = c.Stats()
	assert.True(t, stats.HasCache)
	assert.Equal(t, "v1", stats.VideoID)
	assert.Equal(t, 5, stats.SizeBytes)
	assert.Equal(t, clock.Now().Format(time.RFC3339), stats.CachedAt)
}
