package holiday

import (
	"context"
	"sync"
	"time"

	"github.com/cyp0633/courseplan/schedule"
)

// cacheEntry represents a cached per-year holiday result
type cacheEntry struct {
	holidays   []schedule.Holiday
	expiresAt  time.Time
	accessedAt time.Time
}

// Cache decorates a HolidayCalendar with per-year TTL caching. The
// engine only reads through the calendar interface; refresh discipline
// and concurrent-read safety live here, with the data owner.
type Cache struct {
	source          schedule.HolidayCalendar
	entries         map[int]*cacheEntry
	mutex           sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// CacheConfig holds configuration for the holiday cache
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid
	MaxEntries      int           // Maximum number of years before cleanup
	CleanupInterval time.Duration // How often to run cleanup
}

// DefaultCacheConfig provides sensible defaults for holiday caching.
// Holiday data changes rarely, so a long TTL is fine.
var DefaultCacheConfig = CacheConfig{
	TTL:             24 * time.Hour,
	MaxEntries:      50,
	CleanupInterval: time.Hour,
}

// NewCache creates a caching decorator over the given holiday source
func NewCache(source schedule.HolidayCalendar, config CacheConfig) *Cache {
	cache := &Cache{
		source:          source,
		entries:         make(map[int]*cacheEntry),
		ttl:             config.TTL,
		maxEntries:      config.MaxEntries,
		cleanupInterval: config.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// HolidaysForYear returns cached holidays for the year, querying the
// underlying source on miss or expiry. Source errors are returned to the
// caller and never cached.
func (c *Cache) HolidaysForYear(ctx context.Context, year int) ([]schedule.Holiday, error) {
	now := time.Now()

	c.mutex.RLock()
	entry, exists := c.entries[year]
	c.mutex.RUnlock()

	if exists && now.Before(entry.expiresAt) {
		c.mutex.Lock()
		entry.accessedAt = now
		c.mutex.Unlock()

		out := make([]schedule.Holiday, len(entry.holidays))
		copy(out, entry.holidays)
		return out, nil
	}

	holidays, err := c.source.HolidaysForYear(ctx, year)
	if err != nil {
		return nil, err
	}

	stored := make([]schedule.Holiday, len(holidays))
	copy(stored, holidays)

	c.mutex.Lock()
	c.entries[year] = &cacheEntry{
		holidays:   stored,
		expiresAt:  now.Add(c.ttl),
		accessedAt: now,
	}
	if len(c.entries) > c.maxEntries {
		c.cleanup()
	}
	c.mutex.Unlock()

	return holidays, nil
}

// cleanup removes expired entries and oldest entries if over limit.
// Caller must hold the write lock.
func (c *Cache) cleanup() {
	now := time.Now()

	for year, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, year)
		}
	}

	// If still over limit, drop the least recently accessed years.
	for len(c.entries) > c.maxEntries {
		oldestYear := 0
		var oldestAccess time.Time
		first := true
		for year, entry := range c.entries {
			if first || entry.accessedAt.Before(oldestAccess) {
				oldestYear = year
				oldestAccess = entry.accessedAt
				first = false
			}
		}
		delete(c.entries, oldestYear)
	}
}

// cleanupLoop runs periodic cleanup
func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			c.cleanup()
			c.mutex.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache
func (c *Cache) Close() {
	close(c.stopCleanup)
	c.mutex.Lock()
	c.entries = make(map[int]*cacheEntry)
	c.mutex.Unlock()
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entryCount := len(c.entries)
	expiredCount := 0
	now := time.Now()

	for _, entry := range c.entries {
		if now.After(entry.expiresAt) {
			expiredCount++
		}
	}

	return CacheStats{
		TotalEntries:   entryCount,
		ExpiredEntries: expiredCount,
		ActiveEntries:  entryCount - expiredCount,
	}
}

// CacheStats provides information about cache contents
type CacheStats struct {
	TotalEntries   int
	ExpiredEntries int
	ActiveEntries  int
}
