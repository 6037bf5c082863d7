package extalloc

import (
	"testing"
)

func BenchmarkAlloc(b *testing.B) {
	b.Run("tail", func(b *testing.B) {
		a := newTestArena(1 << 40)
		for i := 0; i < b.N; i++ {
			blk, ok := a.Alloc(64, 0)
			if ok {
				blk.Free()
			}
		}
	})

	b.Run("aligned", func(b *testing.B) {
		a := newTestArena(1 << 40)
		for i := 0; i < b.N; i++ {
			blk, ok := a.Alloc(48, 256)
			if ok {
				blk.Free()
			}
		}
	})

	// Placement cost grows with the number of live blocks ahead of the
	// first fitting gap.
	b.Run("fragmented", func(b *testing.B) {
		a := newTestArena(1 << 40)
		for i := 0; i < 1024; i++ {
			a.Alloc(64, 128)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			// Too big for any inter-block gap, so the scan walks the
			// whole list before placing at the tail.
			blk, ok := a.Alloc(128, 0)
			if ok {
				blk.Free()
			}
		}
	})
}

func BenchmarkRealloc(b *testing.B) {
	b.Run("shrink-grow", func(b *testing.B) {
		a := newTestArena(1 << 20)
		blk, _ := a.Alloc(1024, 0)
		for i := 0; i < b.N; i++ {
			blk.Realloc(512)
			blk.Realloc(1024)
		}
	})
}

func BenchmarkFree(b *testing.B) {
	b.Run("transfer-free", func(b *testing.B) {
		a := newTestArena(1 << 20)
		for i := 0; i < b.N; i++ {
			blk, _ := a.Alloc(64, 0)
			blk.Transfer().Free()
		}
	})
}
