package darray

import (
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
)

// Options are the settings shared by arrays of every payload type.
type Options struct {
	Allocator Allocator
	Log       logger.Logger

	// Frontier is the LargestIndex the array starts with, -1 for none. The
	// landings covering it are allocated by New.
	Frontier int
}

type arrayOptions[T any] struct {
	Options
	release func(T)

	// releaseMismatch names a release function that can not take T.
	releaseMismatch string
}

func (o *arrayOptions[T]) common() *Options { return &o.Options }

func (o *arrayOptions[T]) rejectRelease(release any) {
	o.releaseMismatch = fmt.Sprintf("%T", release)
}

type commonOptions interface {
	common() *Options
}

type releaseRejecter interface {
	rejectRelease(release any)
}

// Option configures an array. New applies the options in order, later
// options override earlier ones.
type Option func(any)

// WithRelease sets the function called for each payload the array gives up:
// payloads displaced by Set or Clear, and every payload still held when the
// array is destroyed. Without it the caller keeps ownership of payloads.
//
// The release function must take the payload type of the array, New returns
// ErrInvalidArgument otherwise.
func WithRelease[T any](release func(T)) Option {
	return func(opts any) {
		switch o := opts.(type) {
		case *arrayOptions[T]:
			o.release = release
		case releaseRejecter:
			o.rejectRelease(release)
		}
	}
}

func WithAllocator(allocator Allocator) Option {
	return func(opts any) {
		if o, ok := opts.(commonOptions); ok {
			o.common().Allocator = allocator
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(opts any) {
		if o, ok := opts.(commonOptions); ok {
			o.common().Log = log
		}
	}
}

// WithFrontier starts the array with LargestIndex at index, as if index had
// been written and then cleared. It is used to restore an array whose
// frontier is beyond its largest payload.
func WithFrontier(index int) Option {
	return func(opts any) {
		if o, ok := opts.(commonOptions); ok {
			o.common().Frontier = index
		}
	}
}
