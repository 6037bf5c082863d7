package main

import (
	"flag"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/xgzlucario/extalloc"
)

// percentile collects latency samples and reports quantiles.
type percentile struct {
	data   []float64
	sorted bool
}

func (p *percentile) add(v float64) {
	p.data = append(p.data, v)
	p.sorted = false
}

func (p *percentile) quantile(q float64) float64 {
	if len(p.data) == 0 {
		return 0
	}
	if !p.sorted {
		slices.Sort(p.data)
		p.sorted = true
	}
	i := int(float64(len(p.data)-1) * q)
	return p.data[i]
}

var alignments = []uint64{1, 4, 16, 64, 256}

func main() {
	ops := 0
	maxSize := 0
	maxBlock := 0
	flag.IntVar(&ops, "ops", 100*10000, "number of operations to run")
	flag.IntVar(&maxSize, "max-size", 64*1024*1024, "arena bound in bytes")
	flag.IntVar(&maxBlock, "max-block", 4096, "largest request size in bytes")
	flag.Parse()

	gofakeit.Seed(12345)

	fmt.Println("Operations:  ", ops)
	fmt.Println("Arena bound: ", maxSize)
	fmt.Println("Max request: ", maxBlock)

	arena, err := extalloc.New(extalloc.Options{
		Capacity: uint64(maxSize),
		Mutex:    &sync.Mutex{},
	})
	if err != nil {
		panic(err)
	}

	var (
		live     []*extalloc.Block
		failed   int
		allocLat percentile
		freeLat  percentile
	)

	start := time.Now()
	for i := 0; i < ops; i++ {
		switch {
		case len(live) > 0 && gofakeit.Number(0, 99) < 40:
			// free the oldest live block
			t0 := time.Now()
			live[0].Free()
			freeLat.add(float64(time.Since(t0).Nanoseconds()))
			live = live[1:]

		case len(live) > 0 && gofakeit.Number(0, 99) < 10:
			// resize a random live block in place
			b := live[gofakeit.Number(0, len(live)-1)]
			b.Realloc(uint64(gofakeit.Number(1, maxBlock)))

		default:
			size := uint64(gofakeit.Number(1, maxBlock))
			align := alignments[gofakeit.Number(0, len(alignments)-1)]
			t0 := time.Now()
			b, ok := arena.Alloc(size, align)
			allocLat.add(float64(time.Since(t0).Nanoseconds()))
			if !ok {
				failed++
				continue
			}
			live = append(live, b)
		}
	}
	elapsed := time.Since(start)

	stats := arena.Stats()
	fmt.Println()
	fmt.Printf("elapsed:     %v (%.0f ops/s)\n", elapsed, float64(ops)/elapsed.Seconds())
	fmt.Printf("live blocks: %d, failed allocs: %d\n", stats.Blocks, failed)
	fmt.Printf("utilization: %.1f%%, contiguous: %d\n", stats.Utilization()*100, stats.Contiguous)
	fmt.Printf("alloc p50:   %.0f ns, p99: %.0f ns\n", allocLat.quantile(0.50), allocLat.quantile(0.99))
	fmt.Printf("free  p50:   %.0f ns, p99: %.0f ns\n", freeLat.quantile(0.50), freeLat.quantile(0.99))

	if err := arena.Validate(); err != nil {
		panic(err)
	}
}
