// Package extalloc manages a fixed-capacity linear address space, handing
// out non-overlapping extents [start, start+size) on request. It is meant
// for sub-allocating a resource that lives elsewhere, such as regions of a
// GPU buffer or rows of a texture atlas; the package tracks only offsets
// and sizes, never the bytes themselves.
//
// An Allocator and every Block it issues share one caller-owned mutex, so
// several arenas can coordinate on a single lock. The lock must outlive
// the Allocator and all of its Blocks.
package extalloc

import (
	"sync"

	"golang.org/x/exp/slog"
)

// Allocator manages a linear arena of [0, MaxSize) and keeps every live
// Block in address order on an intrusive circular list, with the Allocator
// itself closing the ring as sentinel.
//
//	    +--------+       +--------+       +--------+
//	+-->|  head  |<----->| block  |<----->| block  |<--+
//	|   +--------+       +--------+       +--------+   |
//	+---------------------------------------------------+
type Allocator struct {
	mu *sync.Mutex

	// head is the list sentinel; head.next is the lowest-addressed block.
	head ring[Block]

	totalSize uint64 // sum of all live block sizes
	maxSize   uint64 // arena bound, mutable

	// contiguous caches an upper bound on the largest free gap. It is
	// raised incrementally by markContiguous and clamped by alloc, never
	// recomputed exhaustively. An Alloc larger than it is guaranteed to
	// fail; one at or under it is not guaranteed to succeed.
	contiguous uint64

	onContiguousChanged func(uint64)
	logger              *slog.Logger
}

// New creates an Allocator managing [0, options.Capacity), guarded by the
// caller-owned mutex in options.
func New(options Options) (*Allocator, error) {
	if err := checkOptions(options); err != nil {
		return nil, err
	}
	a := &Allocator{
		mu:                  options.Mutex,
		maxSize:             options.Capacity,
		contiguous:          options.Capacity,
		onContiguousChanged: options.OnContiguousChanged,
		logger:              options.Logger,
	}
	a.head.init()
	return a, nil
}

// Alloc hands out an extent of the given size, its start advanced to a
// multiple of alignment (0 and 1 mean unaligned). The first gap in address
// order that fits wins. Running out of room is an expected outcome under
// pressure and is reported as (nil, false), never as a panic; the caller
// may free blocks, raise the bound with SetMaxSize, or retry later.
func (a *Allocator) Alloc(size, alignment uint64) (*Block, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b := a.alloc(size, alignment)
	return b, b != nil
}

// alloc assumes the lock is held.
func (a *Allocator) alloc(size, alignment uint64) *Block {
	if size == 0 {
		return nil
	}
	if size > a.contiguous {
		// No gap can be larger than the cached estimate.
		return nil
	}

	// First fit: the gap before each block in address order, then the
	// tail gap up to the arena bound.
	start := uint64(0)
	for n := a.head.next; n != &a.head; n = n.next {
		if s := alignUp(start, alignment); s+size <= n.item.start {
			return a.insert(n, s, size)
		}
		start = n.item.start + n.item.size
	}
	if s := alignUp(start, alignment); s+size <= a.maxSize {
		return a.insert(&a.head, s, size)
	}

	if a.logger != nil {
		a.logger.Debug("extalloc: no space",
			"size", size, "alignment", alignment, "contiguous", a.contiguous)
	}
	return nil
}

// insert creates a live block at [start, start+size) immediately before
// the list position at. Assumes the lock is held and the range is free.
func (a *Allocator) insert(at *ring[Block], start, size uint64) *Block {
	b := &Block{
		mu:    a.mu,
		alloc: a,
		start: start,
		size:  size,
	}
	b.node.item = b
	b.node.insertBefore(at)
	a.totalSize += size

	// The largest gap can be no larger than what is left of the arena,
	// so consuming space may force the estimate down.
	if free := a.freeSpace(); free < a.contiguous {
		a.contiguous = free
		a.changedContiguous()
	}
	return b
}

// freeSpace assumes the lock is held. The arena bound may have been moved
// below the space already handed out, hence the clamp.
func (a *Allocator) freeSpace() uint64 {
	if a.totalSize >= a.maxSize {
		return 0
	}
	return a.maxSize - a.totalSize
}

// IsEmpty reports whether no block is live.
func (a *Allocator) IsEmpty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.head.next == &a.head
}

// TotalSize returns the sum of all live block sizes.
func (a *Allocator) TotalSize() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalSize
}

// MaxSize returns the current arena bound.
func (a *Allocator) MaxSize() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.maxSize
}

// SetMaxSize moves the arena bound. The bound is forward-looking only:
// shrinking it does not evict or invalidate blocks already handed out.
// Growing it widens the tail gap, which is re-marked so a failed Alloc
// can be retried after raising the bound.
func (a *Allocator) SetMaxSize(n uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	grown := n > a.maxSize
	a.maxSize = n
	if grown {
		a.markContiguous(a.head.prev)
	}
}

// Contiguous returns the cached estimate of the largest free gap. See the
// field comment on Allocator for its exact guarantees.
func (a *Allocator) Contiguous() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.contiguous
}

// FirstBlock returns the lowest-addressed live block, or nil if the arena
// is empty.
func (a *Allocator) FirstBlock() *Block {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.head.next == &a.head {
		return nil
	}
	return a.head.next.item
}

// markContiguous recomputes the single gap immediately after pos (the
// sentinel stands for the arena start) and raises the cached estimate if
// that gap is larger. It never lowers the estimate and never revisits
// other gaps; callers invoke it exactly where a gap appeared or grew.
// Assumes the lock is held.
func (a *Allocator) markContiguous(pos *ring[Block]) {
	var start uint64
	if pos != &a.head {
		start = pos.item.start + pos.item.size
	}
	end := a.maxSize
	if next := pos.next; next != &a.head {
		end = next.item.start
	}
	if end > start && end-start > a.contiguous {
		a.contiguous = end - start
		a.changedContiguous()
	}
}

// changedContiguous assumes the lock is held. Listeners run under the
// arena lock and must not call back into the Allocator or its Blocks.
func (a *Allocator) changedContiguous() {
	if a.logger != nil {
		a.logger.Debug("extalloc: contiguous changed", "contiguous", a.contiguous)
	}
	if a.onContiguousChanged != nil {
		a.onContiguousChanged(a.contiguous)
	}
}
