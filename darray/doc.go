// Package darray provides a growable, randomly indexable array that never
// moves its contents.
//
// Storage is a chain of landings, see package landing, allocated lazily as
// Set reaches beyond the current capacity. A landing is never freed or
// resized while the array lives, so growth costs one allocation of the new
// landing and no copying.
//
// # Ownership
//
// The array owns the payloads stored in it. If a release function is
// provided with WithRelease, it is called exactly once for every payload the
// array gives up: the previous payload when Set overwrites a slot, the
// payload removed by Clear, and every payload still held by Destroy. Take
// removes a payload and hands it back to the caller without releasing it.
//
// # Holes
//
// Reading an index that was never written, or was cleared, yields the empty
// result. This is not an error. Nor is reading past the frontier, the largest
// index ever written.
//
// # Concurrency
//
// An Array is not safe for concurrent use, including concurrent reads, as Get
// updates the last accessed landing cache.
package darray
