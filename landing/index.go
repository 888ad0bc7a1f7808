package landing

import "fmt"

// Number returns the landing that holds the provided logical index.
//
// See the package documentation for the derivation. It is O(1), there is no
// iteration.
func Number(index uint64) uint64 {
	return Log2Uint64(index>>BaseBits + 1)
}

// Locate returns the landing number and the offset within that landing for
// the provided logical index.
//
// It panics if the offset does not fall inside the landing. That can only
// happen if the arithmetic in this package is wrong.
func Locate(index uint64) (number uint64, offset uint64) {
	number = Number(index)
	start := Start(number)
	if index < start || index-start >= Capacity(number) {
		panic(fmt.Sprintf("landing: index %d resolved outside landing %d [%d, %d)",
			index, number, start, start+Capacity(number)))
	}
	return number, index - start
}
