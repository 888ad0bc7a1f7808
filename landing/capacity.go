package landing

const (
	// BaseBits is log2 of the capacity of landing 0.
	BaseBits = 3

	// BaseCapacity is the number of slots in landing 0.
	BaseCapacity uint64 = 1 << BaseBits

	// MaxLanding is the largest landing number the arithmetic supports.
	MaxLanding uint64 = 63 - BaseBits
)

// Capacity returns the number of slots in the landing with the provided
// number.
//
// The caller is responsible for number <= MaxLanding.
func Capacity(number uint64) uint64 {
	return BaseCapacity << number
}

// Start returns the logical index of slot 0 of the landing with the provided
// number. This is also the total capacity of all the landings before it.
func Start(number uint64) uint64 {
	return BaseCapacity * ((1 << number) - 1)
}

// TotalCapacity returns the number of slots held by count landings, ie by
// landings 0 through count-1.
func TotalCapacity(count uint64) uint64 {
	return Start(count)
}

// LandingsFor returns the number of landings needed to hold the provided
// index. This is Number(index) + 1
func LandingsFor(index uint64) uint64 {
	return Number(index) + 1
}
