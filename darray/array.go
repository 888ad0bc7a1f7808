package darray

import (
	"fmt"
	"iter"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-landings/blocklist"
	"github.com/forestrie/go-landings/landing"
)

type slot[T any] struct {
	value T
	full  bool
}

type block[T any] struct {
	number uint64
	slots  []slot[T]
}

// lastAccessed caches the landing resolved by the most recent access. It is
// only used when number matches exactly.
type lastAccessed[T any] struct {
	number uint64
	block  *block[T]
}

// Array is a sparse, growable array of T. The zero value is not usable,
// create arrays with New.
type Array[T any] struct {
	blocks    *blocklist.List[*block[T]]
	count     int
	frontier  int
	landings  int
	capacity  uint64
	last      lastAccessed[T]
	release   func(T)
	allocator Allocator
	log       logger.Logger
	destroyed bool
}

// New creates an empty array. No landings are allocated until the first Set,
// unless WithFrontier is provided.
func New[T any](opts ...Option) (*Array[T], error) {
	options := arrayOptions[T]{Options: Options{Frontier: -1}}
	for _, o := range opts {
		o(&options)
	}
	if options.releaseMismatch != "" {
		var zero T
		return nil, fmt.Errorf("%w: release function %s can not take payloads of type %T",
			ErrInvalidArgument, options.releaseMismatch, any(zero))
	}
	if options.Frontier < -1 {
		return nil, fmt.Errorf("%w: frontier %d", ErrInvalidArgument, options.Frontier)
	}
	if options.Allocator == nil {
		options.Allocator = NewBudget(DefaultMaxSlots)
	}

	a := &Array[T]{
		blocks:    blocklist.New[*block[T]](),
		frontier:  -1,
		release:   options.release,
		allocator: options.Allocator,
		log:       options.Log,
	}
	if options.Frontier >= 0 {
		if err := a.Grow(int(landing.LandingsFor(uint64(options.Frontier)))); err != nil {
			_ = a.Destroy()
			return nil, err
		}
		a.frontier = options.Frontier
	}
	return a, nil
}

// Size returns the number of non empty slots.
func (a *Array[T]) Size() int {
	if a == nil {
		return 0
	}
	return a.count
}

// LargestIndex returns the largest index ever set to a payload, or -1 if
// there has been none.
func (a *Array[T]) LargestIndex() int {
	if a == nil {
		return -1
	}
	return a.frontier
}

// LandingCount returns the number of landings allocated.
func (a *Array[T]) LandingCount() int {
	if a == nil {
		return 0
	}
	return a.landings
}

// Capacity returns the number of slots across all allocated landings.
func (a *Array[T]) Capacity() int {
	if a == nil {
		return 0
	}
	return int(a.capacity)
}

// Grow allocates landings until LandingCount is at least landings. It grows
// the array the way Set does and fails the same way.
func (a *Array[T]) Grow(landings int) error {
	if err := a.checkMutable(0); err != nil {
		return err
	}
	if landings < 0 {
		return fmt.Errorf("%w: negative landing count %d", ErrInvalidArgument, landings)
	}
	if landings <= a.landings {
		return nil
	}
	_, err := a.ensureLanding(uint64(landings - 1))
	return err
}

// Get returns the payload at idx. The boolean is false if the slot is empty,
// including when idx is negative or beyond LargestIndex. Get never allocates.
func (a *Array[T]) Get(idx int) (T, bool) {
	var zero T
	if a == nil || a.destroyed || idx < 0 || idx > a.frontier {
		return zero, false
	}
	number, offset := landing.Locate(uint64(idx))
	b := a.resolve(number)
	s := b.slots[offset]
	if !s.full {
		return zero, false
	}
	return s.value, true
}

// Set stores v at idx, allocating landings as needed. A payload previously
// held at idx is released.
//
// If the landings can not be allocated ErrAllocation is returned and the
// contents of the array are unchanged, though landings allocated before the
// failure are kept.
func (a *Array[T]) Set(idx int, v T) error {
	if err := a.checkMutable(idx); err != nil {
		return err
	}
	number, offset := landing.Locate(uint64(idx))
	b, err := a.ensureLanding(number)
	if err != nil {
		return err
	}

	s := &b.slots[offset]
	if s.full {
		a.releaseValue(s.value)
	} else {
		a.count++
	}
	s.value = v
	s.full = true
	if idx > a.frontier {
		a.frontier = idx
	}
	return nil
}

// Clear empties the slot at idx, releasing its payload. Clearing beyond
// LargestIndex, or clearing a hole, does nothing. The frontier is not
// lowered.
func (a *Array[T]) Clear(idx int) error {
	v, ok, err := a.Take(idx)
	if err != nil || !ok {
		return err
	}
	a.releaseValue(v)
	return nil
}

// Take empties the slot at idx and returns its payload. Ownership passes to
// the caller, the payload is not released.
func (a *Array[T]) Take(idx int) (T, bool, error) {
	var zero T
	if err := a.checkMutable(idx); err != nil {
		return zero, false, err
	}
	if idx > a.frontier {
		return zero, false, nil
	}
	number, offset := landing.Locate(uint64(idx))
	b := a.resolve(number)

	s := &b.slots[offset]
	if !s.full {
		return zero, false, nil
	}
	v := s.value
	*s = slot[T]{}
	a.count--
	return v, true, nil
}

// All iterates the non empty slots in ascending index order. The array must
// not be modified during iteration.
func (a *Array[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		if a == nil || a.destroyed {
			return
		}
		for node := a.blocks.Head(); node != nil; node = node.Next() {
			b := node.Value
			start := landing.Start(b.number)
			for offset, s := range b.slots {
				idx := int(start) + offset
				if idx > a.frontier {
					return
				}
				if !s.full {
					continue
				}
				if !yield(idx, s.value) {
					return
				}
			}
		}
	}
}

// Destroy releases every payload still held, in ascending index order, then
// drops all landings. The array can not be used afterwards: mutators return
// ErrDestroyed and reads are empty. Destroying twice returns ErrDestroyed.
func (a *Array[T]) Destroy() error {
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrInvalidArgument)
	}
	if a.destroyed {
		return ErrDestroyed
	}

	released := 0
	a.blocks.Destroy(func(b *block[T]) {
		for i := range b.slots {
			if b.slots[i].full {
				a.releaseValue(b.slots[i].value)
				released++
			}
		}
		b.slots = nil
	})
	a.allocator.Release(a.capacity)
	a.debugf("destroyed: landings=%d capacity=%d released=%d", a.landings, a.capacity, released)

	a.blocks = nil
	a.last = lastAccessed[T]{}
	a.count = 0
	a.frontier = -1
	a.landings = 0
	a.capacity = 0
	a.destroyed = true
	return nil
}

func (a *Array[T]) checkMutable(idx int) error {
	if a == nil {
		return fmt.Errorf("%w: nil array", ErrInvalidArgument)
	}
	if a.destroyed {
		return ErrDestroyed
	}
	if idx < 0 {
		return fmt.Errorf("%w: negative index %d", ErrInvalidArgument, idx)
	}
	return nil
}

func (a *Array[T]) releaseValue(v T) {
	if a.release != nil {
		a.release(v)
	}
}

func (a *Array[T]) debugf(format string, args ...any) {
	if a.log != nil {
		a.log.Debugf(format, args...)
	}
}
