// Package hash implements SmallXXHash, a reduced xxHash32 for hashing small
// integer tuples such as grid cells.
package hash

import (
	"math"
	"math/bits"
)

const (
	primeA uint32 = 0b10011110001101110111100110110001
	primeB uint32 = 0b10000101111010111100101001110111
	primeC uint32 = 0b11000010101100101010111000111101
	primeD uint32 = 0b00100111110101001110101100101111
	primeE uint32 = 0b00010110010101100110011110110001
)

// SmallXXHash is an immutable hash state. Eat returns a new state so a seeded
// value can be shared across goroutines.
type SmallXXHash struct {
	accumulator uint32
}

func Seed(seed int32) SmallXXHash {
	return SmallXXHash{accumulator: uint32(seed) + primeE}
}

func (h SmallXXHash) Eat(data int32) SmallXXHash {
	return SmallXXHash{accumulator: bits.RotateLeft32(h.accumulator+uint32(data)*primeC, 17) * primeD}
}

func (h SmallXXHash) EatByte(data byte) SmallXXHash {
	return SmallXXHash{accumulator: bits.RotateLeft32(h.accumulator+uint32(data)*primeE, 11) * primeA}
}

// Value finalizes the state with the xxHash32 avalanche.
func (h SmallXXHash) Value() uint32 {
	avalanche := h.accumulator
	avalanche ^= avalanche >> 15
	avalanche *= primeB
	avalanche ^= avalanche >> 13
	avalanche *= primeC
	avalanche ^= avalanche >> 16
	return avalanche
}

// Cell splits row-major index i of a resolution-wide grid into column u and
// row v. inv is 1/resolution; the small bias keeps exact multiples from
// rounding down a row.
func Cell(i, resolution int, inv float64) (u, v int) {
	v = int(math.Floor(float64(i)*inv + 0.00001))
	u = i - resolution*v
	return u, v
}
