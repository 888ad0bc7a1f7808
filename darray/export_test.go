package darray

// Export internals for the external test package.
// This file is only compiled during tests.

// ResetCacheForTesting drops the last accessed landing.
func ResetCacheForTesting[T any](a *Array[T]) {
	a.last = lastAccessed[T]{}
}

// CachedLandingForTesting returns the landing number held by the last
// accessed cache, and whether the cache is populated.
func CachedLandingForTesting[T any](a *Array[T]) (uint64, bool) {
	if a.last.block == nil {
		return 0, false
	}
	return a.last.number, true
}
