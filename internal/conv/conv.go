// Package conv provides checked integer conversions for the automaton.
//
// State identifiers and position indices are stored as 32-bit values. These
// helpers check the range before narrowing and panic on overflow, since an
// out-of-range value means the automaton outgrew its internal limits.
package conv

import "math"

// IntToInt32 converts n to int32.
// Panics if n is outside the int32 range.
//
//go:inline
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}

// IntToUint32 converts n to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToUint16 converts n to uint16.
// Panics if n < 0 or n > math.MaxUint16.
//
//go:inline
func IntToUint16(n int) uint16 {
	if n < 0 || n > math.MaxUint16 {
		panic("integer overflow: int value out of uint16 range")
	}
	return uint16(n)
}
