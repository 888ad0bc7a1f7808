package landing

/*

# Landings

A landing is a fixed size block of slots. Landings are allocated lazily, in
order, and are never moved or resized once allocated. Each landing is twice
the size of the one before it, so a structure that holds n slots needs only
O(log n) landings and never copies existing slots in order to grow.

Landing i holds

	Capacity(i) = 8 * 2^i

slots, and the first logical index it holds is the sum of the capacities of
all the landings before it

	Start(i) = 8 * (2^i - 1)

Laid out in logical index order, the first few landings look like this

	landing   0          1                  2
	        |0 ... 7|8   ...    23|24      ...       55|56 ...
	start    0       8             24                   56
	capacity 8       16            32                   64

Everything is derived from the index alone. Nothing needs to be
materialized in order to know where an index lives.

## Number

To find the landing for an index we invert Start. Dividing the index by the
base capacity and adding one gives a value in the half open range

	[2^i, 2^(i+1))

exactly when the index is in landing i. So the landing number is the floor of
log base 2 of that value, which is just its bit length minus one. The integer
bit length is exact, there is no floating point log involved and so no
rounding hazard at the power of two boundaries.

	idx   idx/8 + 1   binary   landing
	0     1           1        0
	7     1           1        0
	8     2           10       1
	23    3           11       1
	24    4           100      2
	600   76          1001100  6

## Offset

The offset is the distance of the index from the start of its landing. For
any index, 0 <= offset < Capacity(Number(index)). Locate checks this before
returning and panics if it fails, a failure there means this package is
broken, not the caller.

## Limits

Indices are unsigned 64 bit values. The largest index a signed int can hold
resolves to landing 60, whose capacity (2^63) still fits a uint64. MaxLanding
is the largest landing number the arithmetic supports.

*/
