package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// zeroBytes returns a word whose high bit is set in each byte that is zero
// in v. Bits above the lowest set byte may be spurious; only the lowest one
// is reliable.
func zeroBytes(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}

// memchrGeneric finds needle using SWAR: the needle is broadcast to every
// byte of a uint64, XORed with eight haystack bytes at a time, and the
// first zero byte of the result is the first match.
func memchrGeneric(haystack []byte, needle byte) int {
	n := len(haystack)
	mask := uint64(needle) * lo8

	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk ^ mask); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// memchr2Generic is memchrGeneric for two needles.
func memchr2Generic(haystack []byte, needle1, needle2 byte) int {
	n := len(haystack)
	mask1 := uint64(needle1) * lo8
	mask2 := uint64(needle2) * lo8

	i := 0
	for ; i+8 <= n; i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk^mask1) | zeroBytes(chunk^mask2); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < n; i++ {
		if c := haystack[i]; c == needle1 || c == needle2 {
			return i
		}
	}
	return -1
}

// memrchrGeneric scans backwards a word at a time. A word with a match is
// finished byte by byte, since spurious zero flags rule out taking the
// highest set bit.
func memrchrGeneric(haystack []byte, needle byte) int {
	mask := uint64(needle) * lo8

	i := len(haystack)
	for ; i >= 8; i -= 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i-8:])
		if zeroBytes(chunk^mask) == 0 {
			continue
		}
		for j := i - 1; j >= i-8; j-- {
			if haystack[j] == needle {
				return j
			}
		}
	}
	for i--; i >= 0; i-- {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}
