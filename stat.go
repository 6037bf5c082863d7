package extalloc

import (
	"github.com/bytedance/sonic"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Stats is a point-in-time summary of an arena.
type Stats struct {
	Blocks     int
	TotalSize  uint64
	MaxSize    uint64
	FreeSize   uint64
	Contiguous uint64
}

// Utilization returns the fraction of the arena bound handed out.
func (s Stats) Utilization() float64 {
	if s.MaxSize == 0 {
		return 0
	}
	return float64(s.TotalSize) / float64(s.MaxSize)
}

// Stats
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats()
}

// stats assumes the lock is held.
func (a *Allocator) stats() (stats Stats) {
	for n := a.head.next; n != &a.head; n = n.next {
		stats.Blocks++
	}
	stats.TotalSize = a.totalSize
	stats.MaxSize = a.maxSize
	stats.FreeSize = a.freeSpace()
	stats.Contiguous = a.contiguous
	return
}

type arenaJSON struct {
	Stats   Stats
	Extents [][2]uint64 // [start, size] in address order
}

// MarshalJSON encodes the stats summary and every live extent.
func (a *Allocator) MarshalJSON() ([]byte, error) {
	a.mu.Lock()
	v := arenaJSON{Stats: a.stats()}
	for n := a.head.next; n != &a.head; n = n.next {
		v.Extents = append(v.Extents, [2]uint64{n.item.start, n.item.size})
	}
	a.mu.Unlock()

	return sonic.Marshal(v)
}

// PrintDetailedMap writes a JSON map of the whole arena, extents and gaps
// alike, in address order.
func (a *Allocator) PrintDetailedMap() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("maxSize").Int(int(a.maxSize))
	obj.Name("totalSize").Int(int(a.totalSize))
	obj.Name("contiguous").Int(int(a.contiguous))

	ranges := obj.Name("ranges").Array()
	offset := uint64(0)
	for n := a.head.next; n != &a.head; n = n.next {
		b := n.item
		if b.start > offset {
			writeRange(&ranges, "free", offset, b.start-offset)
		}
		writeRange(&ranges, "extent", b.start, b.size)
		offset = b.start + b.size
	}
	if offset < a.maxSize {
		writeRange(&ranges, "free", offset, a.maxSize-offset)
	}
	ranges.End()
	obj.End()

	if err := w.Error(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func writeRange(arr *jwriter.ArrayState, kind string, start, size uint64) {
	obj := arr.Object()
	obj.Name("type").String(kind)
	obj.Name("start").Int(int(start))
	obj.Name("size").Int(int(size))
	obj.End()
}
