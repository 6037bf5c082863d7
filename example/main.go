package main

import (
	"fmt"
	"sync"

	"github.com/tidwall/hashmap"
	"github.com/zeebo/xxh3"

	"github.com/xgzlucario/extalloc"
)

// atlas packs named sprite strips into one linear texture arena. Rows are
// 16-byte aligned the way GPU upload paths like them.
type atlas struct {
	arena *extalloc.Allocator
	index hashmap.Map[uint64, *extalloc.Block]
}

func newAtlas(capacity uint64, mu *sync.Mutex) (*atlas, error) {
	arena, err := extalloc.New(extalloc.Options{
		Capacity: capacity,
		Mutex:    mu,
		OnContiguousChanged: func(contiguous uint64) {
			fmt.Printf("  [hook] contiguous -> %d\n", contiguous)
		},
	})
	if err != nil {
		return nil, err
	}
	return &atlas{arena: arena}, nil
}

func (at *atlas) place(name string, size uint64) bool {
	b, ok := at.arena.Alloc(size, 16)
	if !ok {
		return false
	}
	at.index.Set(xxh3.HashString(name), b)
	return true
}

func (at *atlas) evict(name string) bool {
	b, ok := at.index.Delete(xxh3.HashString(name))
	if !ok {
		return false
	}
	b.Free()
	return true
}

func (at *atlas) lookup(name string) (*extalloc.Block, bool) {
	return at.index.Get(xxh3.HashString(name))
}

func main() {
	mu := &sync.Mutex{}
	at, err := newAtlas(4096, mu)
	if err != nil {
		panic(err)
	}

	sprites := map[string]uint64{
		"hero/idle":  600,
		"hero/run":   900,
		"tiles/sand": 1024,
		"tiles/rock": 1024,
		"ui/font":    500,
	}
	for name, size := range sprites {
		if !at.place(name, size) {
			fmt.Println("no space for", name)
		}
	}

	// Make a hole, then fill it with something smaller.
	at.evict("tiles/sand")
	at.place("ui/cursor", 96)

	if b, ok := at.lookup("hero/run"); ok {
		fmt.Printf("hero/run at [%d,%d)\n", b.Start(), b.Start()+b.Size())
	}

	stats := at.arena.Stats()
	fmt.Printf("blocks=%d used=%d/%d (%.0f%%) contiguous=%d\n",
		stats.Blocks, stats.TotalSize, stats.MaxSize,
		stats.Utilization()*100, stats.Contiguous)

	data, err := at.arena.PrintDetailedMap()
	if err != nil {
		panic(err)
	}
	fmt.Println(string(data))
}
