package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack. An empty needle matches at 0.
//
// Candidates are found by scanning for the rarest byte of needle (see
// RareByte) and verified in place.
//
// Example:
//
//	pos := simd.Memmem([]byte("aaaaaabaaaa"), []byte("aab"))
//	// pos == 4
func Memmem(haystack, needle []byte) int {
	m, n := len(needle), len(haystack)
	switch {
	case m == 0:
		return 0
	case m > n:
		return -1
	case m == 1:
		return Memchr(haystack, needle[0])
	}

	rare, ri := RareByte(needle)
	// Rare byte positions that leave room for the whole needle.
	lo, hi := ri, n-m+ri
	for p := lo; p <= hi; {
		c := Memchr(haystack[p:hi+1], rare)
		if c < 0 {
			return -1
		}
		p += c
		start := p - ri
		if bytes.Equal(haystack[start:start+m], needle) {
			return start
		}
		p++
	}
	return -1
}

// MemmemFold is Memmem ignoring ASCII case. needle must be upper-cased;
// bytes outside ASCII compare exactly.
func MemmemFold(haystack, needle []byte) int {
	m, n := len(needle), len(haystack)
	switch {
	case m == 0:
		return 0
	case m > n:
		return -1
	}

	rare, ri := RareByte(needle)
	alt := toLowerASCII(rare)
	lo, hi := ri, n-m+ri
	for p := lo; p <= hi; {
		c := Memchr2(haystack[p:hi+1], rare, alt)
		if c < 0 {
			return -1
		}
		p += c
		start := p - ri
		if equalFoldASCII(haystack[start:start+m], needle) {
			return start
		}
		p++
	}
	return -1
}

func toLowerASCII(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

func toUpperASCII(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// equalFoldASCII reports whether s upper-cased equals upper.
func equalFoldASCII(s, upper []byte) bool {
	for i, b := range s {
		if toUpperASCII(b) != upper[i] {
			return false
		}
	}
	return true
}
