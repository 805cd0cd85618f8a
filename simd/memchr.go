// Package simd provides fast byte and substring scanning for line-oriented
// search.
//
// On hosts with wide vector units (AVX2 on x86-64, ASIMD on arm64) the
// single-byte scans defer to the runtime's vectorized bytes.IndexByte and
// bytes.LastIndexByte. Elsewhere they use a SWAR loop that tests eight
// bytes per uint64 word.
package simd

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// hasVector reports whether the runtime's byte scans are vectorized wide
// enough to beat the SWAR loop.
var hasVector = cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// Example:
//
//	pos := simd.Memchr([]byte("hello world"), 'o')
//	// pos == 4
func Memchr(haystack []byte, needle byte) int {
	if hasVector {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrGeneric(haystack, needle)
}

// Memchr2 returns the index of the first instance of either needle1 or
// needle2 in haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	if needle1 == needle2 {
		return Memchr(haystack, needle1)
	}
	return memchr2Generic(haystack, needle1, needle2)
}

// Memrchr returns the index of the last instance of needle in haystack,
// or -1 if needle is not present in haystack.
func Memrchr(haystack []byte, needle byte) int {
	if hasVector {
		return bytes.LastIndexByte(haystack, needle)
	}
	return memrchrGeneric(haystack, needle)
}
