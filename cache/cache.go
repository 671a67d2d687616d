package cache

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/sbit"
)

// Config holds configuration for Cache.
type Config struct {
	// MaxEntries is the maximum number of cached glyph bitmaps.
	// Default: 1024
	MaxEntries int

	// FrameLifetime is the number of frames an entry can go unused
	// before being eligible for eviction during Maintain().
	// Default: 64
	FrameLifetime int
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxEntries:    1024,
		FrameLifetime: 64,
	}
}

// Key uniquely identifies a cached glyph bitmap.
type Key struct {
	// FontID is a caller-assigned identifier for the font.
	FontID uint64

	// GlyphID is the glyph index within the font.
	GlyphID uint16

	// PPEM is the strike size the bitmap was loaded for.
	PPEM uint16
}

// entry is an internal cache entry, a node of the per-shard LRU list.
type entry struct {
	key   Key
	glyph *sbit.Glyph

	prev *entry
	next *entry

	// lastAccessFrame is the frame number when this entry was last
	// accessed, for frame-based eviction during Maintain().
	lastAccessFrame uint64
}

// numShards is the number of cache shards for reduced lock contention.
const numShards = 16

// Cache is a thread-safe LRU cache for loaded glyph bitmaps.
//
// The cache is sharded to reduce lock contention under concurrent
// access. It supports capacity-based eviction (when MaxEntries is
// reached) and frame-based eviction (during Maintain() calls).
//
// Cache is safe for concurrent use.
type Cache struct {
	shards [numShards]*shard

	config Config

	// currentFrame is the frame counter for frame-based eviction.
	currentFrame atomic.Uint64

	stats Stats
}

// shard is a single shard of the cache.
type shard struct {
	mu sync.RWMutex

	entries map[Key]*entry

	// head is the most recently used entry, tail the least.
	head *entry
	tail *entry

	maxEntries int
	count      int
}

// Stats holds cache statistics.
type Stats struct {
	Hits       atomic.Uint64
	Misses     atomic.Uint64
	Evictions  atomic.Uint64
	Insertions atomic.Uint64
}

// New creates a cache with the default configuration.
func New() *Cache {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a cache with the given configuration.
func NewWithConfig(config Config) *Cache {
	if config.MaxEntries <= 0 {
		config.MaxEntries = 1024
	}
	if config.FrameLifetime <= 0 {
		config.FrameLifetime = 64
	}

	c := &Cache{config: config}

	entriesPerShard := (config.MaxEntries + numShards - 1) / numShards
	for i := 0; i < numShards; i++ {
		c.shards[i] = &shard{
			entries:    make(map[Key]*entry, entriesPerShard),
			maxEntries: entriesPerShard,
		}
	}
	return c
}

// Get retrieves a cached glyph. Returns nil if not found.
func (c *Cache) Get(key Key) *sbit.Glyph {
	s := c.getShard(key)
	frame := c.currentFrame.Load()

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.mu.Unlock()
		c.stats.Misses.Add(1)
		return nil
	}

	e.lastAccessFrame = frame
	s.moveToFront(e)
	glyph := e.glyph
	s.mu.Unlock()

	c.stats.Hits.Add(1)
	return glyph
}

// Set stores a glyph in the cache. If the cache is full, the least
// recently used entry in the key's shard is evicted.
func (c *Cache) Set(key Key, glyph *sbit.Glyph) {
	if glyph == nil {
		return
	}

	s := c.getShard(key)
	frame := c.currentFrame.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok {
		existing.glyph = glyph
		existing.lastAccessFrame = frame
		s.moveToFront(existing)
		return
	}

	e := &entry{
		key:             key,
		glyph:           glyph,
		lastAccessFrame: frame,
	}

	for s.count >= s.maxEntries && s.tail != nil {
		s.removeTail()
		c.stats.Evictions.Add(1)
	}

	s.entries[key] = e
	s.addToFront(e)
	s.count++
	c.stats.Insertions.Add(1)
}

// GetOrLoad retrieves a cached glyph or loads one with the provided
// function. A load error is returned unchanged and nothing is cached.
func (c *Cache) GetOrLoad(key Key, load func() (*sbit.Glyph, error)) (*sbit.Glyph, error) {
	if g := c.Get(key); g != nil {
		return g, nil
	}
	if load == nil {
		return nil, nil
	}

	g, err := load()
	if err != nil {
		return nil, err
	}
	c.Set(key, g)
	return g, nil
}

// Delete removes an entry from the cache.
func (c *Cache) Delete(key Key) {
	s := c.getShard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return
	}
	s.remove(e)
	delete(s.entries, key)
	s.count--
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	for i := 0; i < numShards; i++ {
		s := c.shards[i]
		s.mu.Lock()
		s.entries = make(map[Key]*entry, s.maxEntries)
		s.head = nil
		s.tail = nil
		s.count = 0
		s.mu.Unlock()
	}
}

// Maintain performs periodic maintenance: it advances the frame counter
// and evicts entries unused for FrameLifetime frames. Call once per
// frame when frame-based eviction is wanted.
func (c *Cache) Maintain() {
	frame := c.currentFrame.Add(1)
	lifetime := uint64(c.config.FrameLifetime)
	if frame < lifetime {
		return
	}
	threshold := frame - lifetime

	for i := 0; i < numShards; i++ {
		s := c.shards[i]
		s.mu.Lock()

		// Walk from the tail (oldest) and evict stale entries.
		e := s.tail
		for e != nil && e.lastAccessFrame < threshold {
			prev := e.prev
			delete(s.entries, e.key)
			s.remove(e)
			s.count--
			c.stats.Evictions.Add(1)
			e = prev
		}

		s.mu.Unlock()
	}
}

// Len returns the total number of cached entries.
func (c *Cache) Len() int {
	total := 0
	for i := 0; i < numShards; i++ {
		s := c.shards[i]
		s.mu.RLock()
		total += s.count
		s.mu.RUnlock()
	}
	return total
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses, evictions, insertions uint64) {
	return c.stats.Hits.Load(),
		c.stats.Misses.Load(),
		c.stats.Evictions.Load(),
		c.stats.Insertions.Load()
}

// HitRate returns the cache hit rate as a percentage.
// Returns 0 if there have been no accesses.
func (c *Cache) HitRate() float64 {
	hits := c.stats.Hits.Load()
	misses := c.stats.Misses.Load()
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total) * 100
}

// getShard returns the shard for the given key.
func (c *Cache) getShard(key Key) *shard {
	h := key.FontID
	h = h*31 + uint64(key.GlyphID)
	h = h*31 + uint64(key.PPEM)
	return c.shards[h%numShards]
}

// addToFront adds an entry to the front of the LRU list.
func (s *shard) addToFront(e *entry) {
	e.prev = nil
	e.next = s.head

	if s.head != nil {
		s.head.prev = e
	}
	s.head = e

	if s.tail == nil {
		s.tail = e
	}
}

// moveToFront moves an entry to the front of the LRU list.
func (s *shard) moveToFront(e *entry) {
	if e == s.head {
		return
	}
	s.remove(e)
	s.addToFront(e)
}

// remove unlinks an entry from the LRU list (does not delete from the
// map).
func (s *shard) remove(e *entry) {
	if e == nil {
		return
	}

	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}

	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}

	e.prev = nil
	e.next = nil
}

// removeTail removes the least recently used entry.
func (s *shard) removeTail() {
	if s.tail == nil {
		return
	}
	e := s.tail
	delete(s.entries, e.key)
	s.remove(e)
	s.count--
}
