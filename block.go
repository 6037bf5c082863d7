package extalloc

import "sync"

// Block is a handle to one live extent. Handles are created only by
// Allocator.Alloc and Transfer. Once freed a handle is permanently inert:
// Allocator and IsAllocated keep answering, every other operation panics.
type Block struct {
	node ring[Block]

	// mu is the arena lock, shared by reference with the owning
	// Allocator. It is retained after free so the liveness checks still
	// serialize with the rest of the arena.
	mu *sync.Mutex

	// alloc is the owning Allocator while the block is live, nil after
	// free. Once cleared it is never set again.
	alloc *Allocator

	start, size uint64
}

// assertAllocated assumes the lock is held.
func (b *Block) assertAllocated() {
	if b.alloc == nil {
		panic("extalloc: use of freed block")
	}
}

// Allocator returns the owning Allocator, or nil once the block has been
// freed. Together with IsAllocated this is the only query legal on a
// freed handle.
func (b *Block) Allocator() *Allocator {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.alloc
}

// IsAllocated reports whether the block is still live.
func (b *Block) IsAllocated() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.alloc != nil
}

// Start returns the extent's offset within the arena.
func (b *Block) Start() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assertAllocated()
	return b.start
}

// Size returns the extent's current size.
func (b *Block) Size() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assertAllocated()
	return b.size
}

// MaxSize returns the largest size the block could grow to in place,
// bounded by the next block's start, or by the arena bound if the block
// is last. It never reports less than the current size, so shrinking
// stays legal even after the arena bound was moved below the block.
func (b *Block) MaxSize() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assertAllocated()
	return b.maxSize()
}

// maxSize assumes the lock is held.
func (b *Block) maxSize() uint64 {
	a := b.alloc
	end := a.maxSize
	if next := b.node.next; next != &a.head {
		end = next.item.start
	}
	if end < b.start+b.size {
		return b.size
	}
	return end - b.start
}

// Realloc resizes the block in place. It succeeds iff newSize is at most
// MaxSize(); on failure the block is left exactly as it was. Shrinking
// opens a gap after the block, which is re-marked; growing consumes a
// known free range and needs no cache update.
func (b *Block) Realloc(newSize uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assertAllocated()
	if newSize > b.maxSize() {
		return false
	}
	a := b.alloc
	if newSize < b.size {
		a.totalSize -= b.size - newSize
		b.size = newSize
		a.markContiguous(&b.node)
	} else {
		a.totalSize += newSize - b.size
		b.size = newSize
	}
	return true
}

// Free releases the extent back to the arena. Freeing an already freed
// block is a no-op.
func (b *Block) Free() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.free()
}

// free assumes the lock is held.
func (b *Block) free() {
	if b.alloc == nil {
		return
	}
	a := b.alloc
	prev := b.node.prev
	b.node.unlink()
	a.totalSize -= b.size
	a.markContiguous(prev)
	b.alloc = nil
	if a.logger != nil {
		a.logger.Debug("extalloc: free", "start", b.start, "size", b.size)
	}
}

// NextBlock returns the next live block in address order, or nil if the
// block is last.
func (b *Block) NextBlock() *Block {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assertAllocated()
	next := b.node.next
	if next == &b.alloc.head {
		return nil
	}
	return next.item
}

// Transfer moves ownership of the extent to a freshly created handle that
// takes over the source's exact list position, start and size. The source
// becomes permanently freed, but the extent itself lives on, so totals
// and the contiguous estimate are untouched.
func (b *Block) Transfer() *Block {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assertAllocated()
	nb := &Block{
		mu:    b.mu,
		alloc: b.alloc,
		start: b.start,
		size:  b.size,
	}
	nb.node.item = nb
	nb.node.insertAfter(&b.node)
	b.node.unlink()
	b.alloc = nil
	return nb
}
