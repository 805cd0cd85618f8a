package syntax

import (
	"unicode"
	"unicode/utf8"
)

// InvalidChar is returned by Locale.DecodeChar for bytes that do not start
// a valid character.
const InvalidChar rune = -1

// Class identifies a POSIX character class such as [:alpha:].
type Class uint8

const (
	ClassAlpha Class = iota
	ClassUpper
	ClassLower
	ClassDigit
	ClassXDigit
	ClassSpace
	ClassPunct
	ClassAlnum
	ClassPrint
	ClassGraph
	ClassCntrl
	ClassBlank
)

var classNames = [...]string{
	ClassAlpha:  "alpha",
	ClassUpper:  "upper",
	ClassLower:  "lower",
	ClassDigit:  "digit",
	ClassXDigit: "xdigit",
	ClassSpace:  "space",
	ClassPunct:  "punct",
	ClassAlnum:  "alnum",
	ClassPrint:  "print",
	ClassGraph:  "graph",
	ClassCntrl:  "cntrl",
	ClassBlank:  "blank",
}

// String returns the POSIX name of the class.
func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// SingleByteOnly reports whether every member of the class is a single-byte
// character in any locale. Only such classes can be turned into a charclass
// in a multibyte locale.
func (c Class) SingleByteOnly() bool {
	return c == ClassDigit || c == ClassXDigit
}

// LookupClass returns the class named name.
func LookupClass(name string) (Class, bool) {
	for i, n := range classNames {
		if n == name {
			return Class(i), true
		}
	}
	return 0, false
}

// Locale is the character-set service the engine consumes. It decodes
// characters, classifies them and maps case; collation is not part of it.
type Locale interface {
	// Name identifies the locale in diagnostics.
	Name() string

	// MaxCharLen is the longest encoding of one character, in bytes.
	MaxCharLen() int

	// IsUTF8 reports whether the encoding is UTF-8.
	IsUTF8() bool

	// DecodeChar decodes the character at the start of b. For an invalid
	// or truncated sequence it returns (InvalidChar, 1).
	DecodeChar(b []byte) (r rune, size int)

	// EncodeChar appends the encoding of r to dst. ok is false when r is not
	// representable.
	EncodeChar(dst []byte, r rune) (out []byte, ok bool)

	// IsClass reports whether r belongs to the class.
	IsClass(c Class, r rune) bool

	ToUpper(r rune) rune
	ToLower(r rune) rune

	// FoldCounterparts returns the characters other than r that match r
	// when case is ignored.
	FoldCounterparts(r rune) []rune
}

// Built-in locales.
var (
	// CLocale is the POSIX locale: one byte per character, ASCII
	// classification and case mapping.
	CLocale Locale = cLocale{}

	// Latin1Locale is ISO-8859-1: one byte per character, Unicode
	// classification restricted to U+0000..U+00FF.
	Latin1Locale Locale = latin1Locale{}

	// UTF8Locale is UTF-8 with Unicode classification and simple case
	// folding.
	UTF8Locale Locale = utf8Locale{}
)

type cLocale struct{}

func (cLocale) Name() string    { return "C" }
func (cLocale) MaxCharLen() int { return 1 }
func (cLocale) IsUTF8() bool    { return false }

func (cLocale) DecodeChar(b []byte) (rune, int) {
	if len(b) == 0 {
		return InvalidChar, 1
	}
	return rune(b[0]), 1
}

func (cLocale) EncodeChar(dst []byte, r rune) ([]byte, bool) {
	if r < 0 || r > 0xff {
		return dst, false
	}
	return append(dst, byte(r)), true
}

func (cLocale) IsClass(c Class, r rune) bool {
	if r < 0 || r > unicode.MaxASCII {
		return false
	}
	return asciiClass(c, byte(r))
}

func (cLocale) ToUpper(r rune) rune {
	if 'a' <= r && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func (cLocale) ToLower(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}

func (l cLocale) FoldCounterparts(r rune) []rune {
	switch {
	case 'a' <= r && r <= 'z':
		return []rune{l.ToUpper(r)}
	case 'A' <= r && r <= 'Z':
		return []rune{l.ToLower(r)}
	}
	return nil
}

func asciiClass(c Class, b byte) bool {
	switch c {
	case ClassAlpha:
		return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
	case ClassUpper:
		return 'A' <= b && b <= 'Z'
	case ClassLower:
		return 'a' <= b && b <= 'z'
	case ClassDigit:
		return '0' <= b && b <= '9'
	case ClassXDigit:
		return '0' <= b && b <= '9' || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
	case ClassSpace:
		return b == ' ' || '\t' <= b && b <= '\r'
	case ClassPunct:
		return b > ' ' && b < 0x7f && !asciiClass(ClassAlnum, b)
	case ClassAlnum:
		return asciiClass(ClassAlpha, b) || asciiClass(ClassDigit, b)
	case ClassPrint:
		return b >= ' ' && b < 0x7f
	case ClassGraph:
		return b > ' ' && b < 0x7f
	case ClassCntrl:
		return b < ' ' || b == 0x7f
	case ClassBlank:
		return b == ' ' || b == '\t'
	}
	return false
}

// unicodeClass classifies r with the unicode tables.
func unicodeClass(c Class, r rune) bool {
	if r <= unicode.MaxASCII {
		return r >= 0 && asciiClass(c, byte(r))
	}
	switch c {
	case ClassAlpha:
		return unicode.IsLetter(r)
	case ClassUpper:
		return unicode.IsUpper(r)
	case ClassLower:
		return unicode.IsLower(r)
	case ClassDigit, ClassXDigit:
		return false
	case ClassSpace:
		return unicode.IsSpace(r)
	case ClassPunct:
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	case ClassAlnum:
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	case ClassPrint:
		return unicode.IsPrint(r) || r == ' '
	case ClassGraph:
		return unicode.IsGraphic(r) && !unicode.IsSpace(r)
	case ClassCntrl:
		return unicode.IsControl(r)
	case ClassBlank:
		return r == ' ' || unicode.Is(unicode.Zs, r)
	}
	return false
}

// foldOthers walks the unicode simple-fold orbit of r.
func foldOthers(r rune, keep func(rune) bool) []rune {
	var out []rune
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

type latin1Locale struct{}

func (latin1Locale) Name() string    { return "ISO-8859-1" }
func (latin1Locale) MaxCharLen() int { return 1 }
func (latin1Locale) IsUTF8() bool    { return false }

func (latin1Locale) DecodeChar(b []byte) (rune, int) {
	if len(b) == 0 {
		return InvalidChar, 1
	}
	return rune(b[0]), 1
}

func (latin1Locale) EncodeChar(dst []byte, r rune) ([]byte, bool) {
	if r < 0 || r > 0xff {
		return dst, false
	}
	return append(dst, byte(r)), true
}

func (latin1Locale) IsClass(c Class, r rune) bool {
	if r < 0 || r > 0xff {
		return false
	}
	return unicodeClass(c, r)
}

func (latin1Locale) ToUpper(r rune) rune {
	if u := unicode.ToUpper(r); u <= 0xff {
		return u
	}
	return r
}

func (latin1Locale) ToLower(r rune) rune {
	if l := unicode.ToLower(r); l <= 0xff {
		return l
	}
	return r
}

func (latin1Locale) FoldCounterparts(r rune) []rune {
	return foldOthers(r, func(f rune) bool { return f <= 0xff })
}

type utf8Locale struct{}

func (utf8Locale) Name() string    { return "UTF-8" }
func (utf8Locale) MaxCharLen() int { return utf8.UTFMax }
func (utf8Locale) IsUTF8() bool    { return true }

func (utf8Locale) DecodeChar(b []byte) (rune, int) {
	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return InvalidChar, 1
	}
	return r, size
}

func (utf8Locale) EncodeChar(dst []byte, r rune) ([]byte, bool) {
	if !utf8.ValidRune(r) {
		return dst, false
	}
	return utf8.AppendRune(dst, r), true
}

func (utf8Locale) IsClass(c Class, r rune) bool {
	return unicodeClass(c, r)
}

func (utf8Locale) ToUpper(r rune) rune { return unicode.ToUpper(r) }
func (utf8Locale) ToLower(r rune) rune { return unicode.ToLower(r) }

func (utf8Locale) FoldCounterparts(r rune) []rune {
	return foldOthers(r, func(rune) bool { return true })
}

// LocaleInfo holds the per-byte tables derived from a Locale. It is built
// once per compiled pattern and never modified afterwards.
type LocaleInfo struct {
	Locale Locale

	// Multibyte is true when a character may take more than one byte.
	Multibyte bool

	// UTF8 is true for UTF-8 locales.
	UTF8 bool

	// Simple is true when bracket ranges follow code point order. All
	// built-in locales are simple since Go has no collation tables.
	Simple bool

	// SBCLen[b] is 1 if b alone is a valid character, -1 otherwise.
	SBCLen [NotChar]int8

	// SBCToWC[b] is the character b denotes alone, or InvalidChar.
	SBCToWC [NotChar]rune
}

// NewLocaleInfo computes the byte tables for l.
func NewLocaleInfo(l Locale) *LocaleInfo {
	info := &LocaleInfo{
		Locale:    l,
		Multibyte: l.MaxCharLen() > 1,
		UTF8:      l.IsUTF8(),
		Simple:    true,
	}
	var one [1]byte
	for b := 0; b < NotChar; b++ {
		one[0] = byte(b)
		r, size := l.DecodeChar(one[:])
		if r == InvalidChar || size != 1 {
			info.SBCLen[b] = -1
			info.SBCToWC[b] = InvalidChar
			continue
		}
		info.SBCLen[b] = 1
		info.SBCToWC[b] = r
	}
	return info
}

// ByteOf returns the single byte encoding r, if r has one.
func (info *LocaleInfo) ByteOf(r rune) (byte, bool) {
	var buf [8]byte
	enc, ok := info.Locale.EncodeChar(buf[:0], r)
	if !ok || len(enc) != 1 {
		return 0, false
	}
	return enc[0], true
}

// IsWordByte reports whether b alone is a word-constituent character
// (alphanumeric or underscore).
func (info *LocaleInfo) IsWordByte(b byte) bool {
	r := info.SBCToWC[b]
	if r == InvalidChar {
		return false
	}
	return r == '_' || info.Locale.IsClass(ClassAlnum, r)
}

// DecodeAt decodes the character starting at b[0] and returns it with its
// length. Invalid sequences decode as (InvalidChar, 1).
func (info *LocaleInfo) DecodeAt(b []byte) (rune, int) {
	if len(b) == 0 {
		return InvalidChar, 0
	}
	if info.SBCLen[b[0]] == 1 {
		return info.SBCToWC[b[0]], 1
	}
	return info.Locale.DecodeChar(b)
}

// NeverTrail reports whether b can never occur after the first byte of a
// multibyte character.
func (info *LocaleInfo) NeverTrail(b byte) bool {
	if info.UTF8 {
		return b&0xc0 != 0x80
	}
	// POSIX requires that "\n\r./" and NUL never occur inside a character.
	switch b {
	case '\n', '\r', '.', '/', 0:
		return true
	}
	return !info.Multibyte
}
