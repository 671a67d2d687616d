package sbit

import "sync"

// Allocator provides the backing memory for scratch and destination
// buffers. Alloc returns a zeroed slice of exactly size bytes, or nil if
// the allocation cannot be satisfied. Free returns a buffer obtained from
// Alloc; implementations may recycle it.
//
// The loader never retains an allocation past its own return except for
// the destination buffer it installs into the caller's Bitmap.
type Allocator interface {
	Alloc(size int) []byte
	Free(buf []byte)
}

// heapAllocator is the default Allocator, backed by the Go heap.
// Free is a no-op; the garbage collector reclaims the buffer.
type heapAllocator struct{}

func (heapAllocator) Alloc(size int) []byte {
	if size < 0 {
		return nil
	}
	return make([]byte, size)
}

func (heapAllocator) Free([]byte) {}

// PoolAllocator is a thread-safe Allocator that recycles buffers.
//
// Buffers are grouped by their exact byte size, allowing efficient reuse
// of identically-sized scratch buffers. This reduces GC pressure for
// callers that decode many glyphs of the same strike size.
//
// Thread safety: all methods are safe for concurrent use.
type PoolAllocator struct {
	mu      sync.Mutex
	buckets map[int][][]byte
	maxSize int // max buffers per bucket
}

// NewPoolAllocator creates a pool that retains at most maxPerBucket
// buffers of each size. A maxPerBucket of 0 means unlimited (use with
// caution).
func NewPoolAllocator(maxPerBucket int) *PoolAllocator {
	return &PoolAllocator{
		buckets: make(map[int][][]byte),
		maxSize: maxPerBucket,
	}
}

// Alloc retrieves a buffer from the pool or allocates a new one.
// Reused buffers are zeroed before being returned.
func (p *PoolAllocator) Alloc(size int) []byte {
	if size < 0 {
		return nil
	}

	p.mu.Lock()
	bucket := p.buckets[size]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[size] = bucket[:n-1]
		p.mu.Unlock()

		clear(buf)
		return buf
	}
	p.mu.Unlock()

	return make([]byte, size)
}

// Free returns a buffer to the pool for reuse.
// If buf is nil or the bucket for its size is at capacity, the buffer is
// discarded and left to the garbage collector.
func (p *PoolAllocator) Free(buf []byte) {
	if buf == nil {
		return
	}

	size := len(buf)

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[size]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[size] = append(bucket, buf)
}

// Len returns the total number of buffers currently held by the pool.
func (p *PoolAllocator) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := 0
	for _, bucket := range p.buckets {
		total += len(bucket)
	}
	return total
}
