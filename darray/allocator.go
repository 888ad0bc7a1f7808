package darray

import "math"

// DefaultMaxSlots is the slot budget used when no Allocator is provided. It
// bounds the storage a single array may claim, growth beyond it fails with
// ErrAllocation.
const DefaultMaxSlots uint64 = 1 << 30

// Allocator accounts for landing storage. Reserve is called before each
// landing is allocated, and a non nil error refuses the landing. Release
// returns storage when the array is destroyed.
type Allocator interface {
	Reserve(slots uint64) error
	Release(slots uint64)
}

// limited is implemented by allocators that know how many more slots they
// would grant. Growth checks the whole range of missing landings against it
// before appending any of them.
type limited interface {
	Available() uint64
}

// Budget is an Allocator that refuses landings once a fixed number of slots
// has been reserved.
type Budget struct {
	max  uint64
	used uint64
}

func NewBudget(maxSlots uint64) *Budget {
	return &Budget{max: maxSlots}
}

func (b *Budget) Reserve(slots uint64) error {
	if slots > b.max-b.used {
		return ErrBudgetExceeded
	}
	b.used += slots
	return nil
}

func (b *Budget) Release(slots uint64) {
	if slots > b.used {
		b.used = 0
		return
	}
	b.used -= slots
}

// Used returns the number of slots currently reserved.
func (b *Budget) Used() uint64 { return b.used }

// Available returns the number of slots that may still be reserved.
func (b *Budget) Available() uint64 { return b.max - b.used }

// Unbounded grants any growth whose slot count the runtime could address,
// that is up to math.MaxInt slots. Below that, memory exhaustion is left to
// the Go runtime, which does not report it as an error.
type Unbounded struct{}

func (Unbounded) Reserve(slots uint64) error {
	if slots > math.MaxInt {
		return ErrBudgetExceeded
	}
	return nil
}

func (Unbounded) Available() uint64 { return math.MaxInt }

func (Unbounded) Release(uint64) {}
