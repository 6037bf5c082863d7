package extalloc

import "github.com/cockroachdb/errors"

// Validate checks the arena's structural invariants: intact list links,
// strict address ordering, no overlap, the running total matching the
// live blocks, and the cached contiguous estimate still bounding the true
// largest gap. Meant for tests and debugging; nothing on the allocation
// path calls it.
func (a *Allocator) Validate() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var sum, offset, largestGap uint64
	for n := a.head.next; n != &a.head; n = n.next {
		b := n.item
		if b == nil || &b.node != n {
			return errors.New("list node does not point back to its block")
		}
		if b.alloc != a {
			return errors.Newf("block [%d,%d) is not owned by this arena", b.start, b.start+b.size)
		}
		// Address order and non-overlap in one check: every block must
		// begin at or after the end of its predecessor.
		if b.start < offset {
			return errors.Newf("block [%d,%d) overlaps the previous block ending at %d",
				b.start, b.start+b.size, offset)
		}
		if gap := b.start - offset; gap > largestGap {
			largestGap = gap
		}
		sum += b.size
		offset = b.start + b.size
	}
	if offset < a.maxSize {
		if gap := a.maxSize - offset; gap > largestGap {
			largestGap = gap
		}
	}

	if sum != a.totalSize {
		return errors.Newf("running total %d does not match the sum of live blocks %d", a.totalSize, sum)
	}
	if largestGap > a.contiguous {
		return errors.Newf("largest gap %d exceeds the contiguous estimate %d", largestGap, a.contiguous)
	}
	return nil
}
