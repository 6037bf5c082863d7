package extalloc

// ring is an intrusive node in a circular doubly-linked list. A list is a
// closed ring of nodes with a distinguished sentinel; the container embeds
// the sentinel and every element embeds its own node, so membership costs
// no extra allocation and insert/unlink are O(1).
type ring[T any] struct {
	prev, next *ring[T]

	// item points back to the element embedding this node, nil for the
	// sentinel.
	item *T
}

// init closes r into a ring of one. Must be called on the sentinel before
// first use.
func (r *ring[T]) init() {
	r.prev = r
	r.next = r
}

// insertBefore links r into the ring immediately before at.
func (r *ring[T]) insertBefore(at *ring[T]) {
	r.prev = at.prev
	r.next = at
	at.prev.next = r
	at.prev = r
}

// insertAfter links r into the ring immediately after at.
func (r *ring[T]) insertAfter(at *ring[T]) {
	r.prev = at
	r.next = at.next
	at.next.prev = r
	at.next = r
}

// unlink removes r from its ring and closes it on itself, so unlinking
// twice is harmless.
func (r *ring[T]) unlink() {
	r.prev.next = r.next
	r.next.prev = r.prev
	r.init()
}
