// Package dedupe defines the interface for sample idempotency tracking.
//
// Clients retry uploads; the same sample id must not enter the ingestion
// queue twice. The tracker is bounded: once full, the most recently added
// ids are evicted first so long-lived ids stay protected.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Default deduper configuration constants.
const (
	defaultMaxSize = 100_000
)

// Deduper records seen sample IDs to ensure at-most-once ingestion.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// Used when a sample was marked as seen but failed to enqueue
	// (e.g., queue backpressure).
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus an insertion stack for
// LIFO eviction in bounded mode. maxSize <= 0 means unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]int // id -> index into stack; -1 in unbounded mode
	stack   []string       // insertion order, top = most recently added
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]int)
	if d.maxSize > 0 {
		d.stack = make([]string, 0, d.maxSize)
	}

	return d
}

// SeenAndRecord atomically checks if id was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize <= 0 {
		d.seen[id] = -1
		d.size.Add(1)
		return false
	}

	// Bounded: evict the top of the stack when full.
	if len(d.stack) >= d.maxSize {
		top := d.stack[len(d.stack)-1]
		d.stack = d.stack[:len(d.stack)-1]
		delete(d.seen, top)
		d.size.Add(-1)
	}
	d.stack = append(d.stack, id)
	d.seen[id] = len(d.stack) - 1
	d.size.Add(1)
	return false
}

// Unrecord removes an ID from the seen list.
func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx, ok := d.seen[id]
	if !ok {
		return
	}
	delete(d.seen, id)
	d.size.Add(-1)

	if idx < 0 || len(d.stack) == 0 {
		return
	}
	// Swap-remove from the stack; fix up the moved id's index.
	last := len(d.stack) - 1
	if idx != last {
		moved := d.stack[last]
		d.stack[idx] = moved
		d.seen[moved] = idx
	}
	d.stack = d.stack[:last]
}

// Size returns the current number of tracked ids.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
