package extalloc

import (
	"errors"
	"sync"

	"golang.org/x/exp/slog"
)

// Options is the configuration of an Allocator.
type Options struct {
	// Capacity is the initial arena bound in bytes. It can be moved later
	// with SetMaxSize.
	Capacity uint64

	// Mutex serializes every operation on the Allocator and its Blocks.
	// It is owned by the caller, may be shared between several Allocators
	// for coordinated multi-arena use, and must outlive the Allocator and
	// every Block issued by it.
	Mutex *sync.Mutex

	// OnContiguousChanged is called whenever the cached contiguous
	// estimate changes. It runs with Mutex held and must not call back
	// into the Allocator or its Blocks.
	OnContiguousChanged func(contiguous uint64)

	// Logger enables debug-level allocation tracing. Nil disables.
	Logger *slog.Logger
}

// DefaultOptions
var DefaultOptions = Options{
	Capacity: 64 * 1024 * 1024, // 64 MB
}

func checkOptions(options Options) error {
	if options.Mutex == nil {
		return errors.New("extalloc/options: nil mutex")
	}
	return nil
}
