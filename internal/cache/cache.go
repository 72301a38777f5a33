// Package cache holds the most recent video's processed transcript so
// the re-summarization flow can reuse it without re-fetching.
package cache

import (
	"sync"
	"time"

	"github.com/jklb739/insight-stream/pkg/log"
)

// DefaultTTL is how long a cached transcript stays valid.
const DefaultTTL = 24 * time.Hour

// record is the single cache slot. Owned exclusively by SessionCache;
// callers only ever see copies of its fields.
type record struct {
	videoID   string
	rawText   string
	title     string
	formatted string
	createdAt time.Time
}

// SessionCache is a single-slot, last-write-wins transcript store with
// a time-to-live. Any successful write evicts whatever was stored,
// even for a different video.
type SessionCache struct {
	mu      sync.Mutex
	current *record
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*SessionCache)

func WithTTL(ttl time.Duration) Option {
	return func(c *SessionCache) {
		c.ttl = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *SessionCache) {
		c.now = now
	}
}

func New(opts ...Option) *SessionCache {
	c := &SessionCache{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	log.Info("Transcript cache initialized with TTL %s (single slot)", c.ttl)
	return c
}

// Set unconditionally replaces the slot, stamped with the current time.
func (c *SessionCache) Set(videoID, rawText, title, formatted string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = &record{
		videoID:   videoID,
		rawText:   rawText,
		title:     title,
		formatted: formatted,
		createdAt: c.now(),
	}
	log.Info("Cached transcript for video %s (%d chars)", videoID, len(rawText))
}

// Get returns the raw transcript when the slot holds the requested
// video within TTL. An expired slot is evicted on the way out.
func (c *SessionCache) Get(videoID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || c.current.videoID != videoID {
		return "", false
	}

	if age := c.now().Sub(c.current.createdAt); age > c.ttl {
		log.Info("Transcript for video %s expired (age %s)", videoID, age)
		c.current = nil
		return "", false
	}

	return c.current.rawText, true
}

// GetTitle returns the cached title under the same identity and TTL
// checks as Get, without the eviction side effect.
func (c *SessionCache) GetTitle(videoID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.validLocked(videoID) {
		return "", false
	}
	return c.current.title, true
}

// GetFormatted returns the cached display-formatted transcript.
func (c *SessionCache) GetFormatted(videoID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.validLocked(videoID) {
		return "", false
	}
	return c.current.formatted, true
}

// CurrentID returns the occupied slot's video identifier.
func (c *SessionCache) CurrentID() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return "", false
	}
	return c.current.videoID, true
}

// ClearExpired proactively evicts an expired slot and reports whether
// anything was removed.
func (c *SessionCache) ClearExpired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return false
	}
	if c.now().Sub(c.current.createdAt) <= c.ttl {
		return false
	}

	log.Info("Cleared expired transcript for video %s", c.current.videoID)
	c.current = nil
	return true
}

// Stats reports cache occupancy for the observability endpoint.
type Stats struct {
	HasCache  bool   `json:"has_cache"`
	VideoID   string `json:"video_id,omitempty"`
	SizeBytes int    `json:"size_bytes"`
	CachedAt  string `json:"cached_at,omitempty"`
}

func (c *SessionCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return Stats{}
	}
	return Stats{
		HasCache:  true,
		VideoID:   c.current.videoID,
		SizeBytes: len(c.current.rawText),
		CachedAt:  c.current.createdAt.Format(time.RFC3339),
	}
}

func (c *SessionCache) validLocked(videoID string) bool {
	if c.current == nil || c.current.videoID != videoID {
		return false
	}
	return c.now().Sub(c.current.createdAt) <= c.ttl
}
