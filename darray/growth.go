package darray

import (
	"fmt"

	"github.com/forestrie/go-landings/landing"
)

// resolve returns the allocated landing with the provided number, using the
// last accessed cache when it matches and otherwise walking from the head.
//
// The caller guarantees number < a.landings.
func (a *Array[T]) resolve(number uint64) *block[T] {
	if a.last.block != nil && a.last.number == number {
		return a.last.block
	}
	node := a.blocks.At(int(number))
	if node == nil {
		panic(fmt.Sprintf("darray: landing %d not allocated, %d landings", number, a.landings))
	}
	a.last = lastAccessed[T]{number: number, block: node.Value}
	return node.Value
}

// ensureLanding returns the landing with the provided number, first
// allocating it and every landing before it that is missing.
//
// If the allocator reports what it has available, the missing landings are
// checked as a whole first and nothing is appended when they do not fit.
// Otherwise landings are reserved and appended one at a time. If a
// reservation is refused the landings appended so far are kept and
// a.landings counts exactly those.
func (a *Array[T]) ensureLanding(number uint64) (*block[T], error) {
	if number < uint64(a.landings) {
		return a.resolve(number), nil
	}
	if number > landing.MaxLanding {
		return nil, fmt.Errorf("%w: landing %d is beyond the largest supported landing %d",
			ErrAllocation, number, landing.MaxLanding)
	}
	if l, ok := a.allocator.(limited); ok {
		need := landing.TotalCapacity(number+1) - a.capacity
		if available := l.Available(); need > available {
			a.debugf("landings %d to %d refused: need=%d available=%d", a.landings, number, need, available)
			return nil, fmt.Errorf("%w: landings %d to %d (%d slots): %v",
				ErrAllocation, a.landings, number, need, ErrBudgetExceeded)
		}
	}

	var b *block[T]
	for n := uint64(a.landings); n <= number; n++ {
		capacity := landing.Capacity(n)
		if err := a.allocator.Reserve(capacity); err != nil {
			a.debugf("landing %d refused: capacity=%d allocated=%d: %v", n, capacity, a.capacity, err)
			return nil, fmt.Errorf("%w: landing %d (%d slots): %v", ErrAllocation, n, capacity, err)
		}
		b = &block[T]{number: n, slots: make([]slot[T], capacity)}
		a.blocks.Append(b)
		a.landings++
		a.capacity += capacity
		a.debugf("landing %d allocated: start=%d capacity=%d", n, landing.Start(n), capacity)
	}
	a.last = lastAccessed[T]{number: number, block: b}
	return b, nil
}
