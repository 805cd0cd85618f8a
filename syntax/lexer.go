package syntax

import "fmt"

// reDupMax is the largest repetition count an interval may use.
const reDupMax = 0x7fff

// lexer turns the pattern into tokens one at a time.
type lexer struct {
	cfg     *Config
	info    *LocaleInfo
	classes *CharclassTable
	pattern []byte

	src []byte
	pos int

	lasttok   Token
	laststart bool
	parens    int

	// Bounds of the last TokRepMN.
	minrep int
	maxrep int

	// wctok is the character consumed by the last fetch, or InvalidChar.
	wctok rune

	// State of the last TokMBCSet.
	brackChars  []rune
	brackInvert bool
	brackCSet   int

	// anyClass is the charclass index used for ".", or -1.
	anyClass int

	// upper maps each byte to the byte of its upper-case form. It is only
	// filled for case-insensitive unibyte patterns.
	upper [NotChar]int16
}

func newLexer(pattern []byte, cfg *Config, info *LocaleInfo, classes *CharclassTable) *lexer {
	l := &lexer{
		cfg:       cfg,
		info:      info,
		classes:   classes,
		pattern:   pattern,
		src:       pattern,
		lasttok:   TokEnd,
		laststart: true,
		anyClass:  -1,
	}
	for b := 0; b < NotChar; b++ {
		l.upper[b] = int16(b)
		r := info.SBCToWC[b]
		if r == InvalidChar {
			continue
		}
		if ub, ok := info.ByteOf(info.Locale.ToUpper(r)); ok {
			l.upper[b] = int16(ub)
		}
	}
	return l
}

func (l *lexer) left() int { return len(l.src) - l.pos }

func (l *lexer) fail(e *Error) {
	panic(&Error{Kind: e.Kind, Msg: e.Msg, Pattern: string(l.pattern)})
}

func (l *lexer) warn(msg string) {
	if l.cfg.Warn != nil {
		l.cfg.Warn(msg)
	}
}

func (l *lexer) ret(t Token) Token {
	l.lasttok = t
	return t
}

// fetchWC consumes one character and stores it in wctok. It returns the
// byte value when the character is one byte long and -1 otherwise.
func (l *lexer) fetchWC() int {
	r, n := l.info.DecodeAt(l.src[l.pos:])
	c := -1
	if n == 1 {
		c = int(l.src[l.pos])
	}
	l.pos += n
	l.wctok = r
	return c
}

func (l *lexer) bracketFetchWC() int {
	if l.left() == 0 {
		l.fail(ErrUnbalancedBracket)
	}
	return l.fetchWC()
}

func (l *lexer) isAlpha(c int) bool {
	if c < 0 {
		return false
	}
	r := l.info.SBCToWC[c]
	return r != InvalidChar && l.info.Locale.IsClass(ClassAlpha, r)
}

// setCaseFold adds every byte whose upper-case form matches that of b.
func (l *lexer) setCaseFold(b int, ccl *Charclass) {
	ub := l.upper[b]
	for i := 0; i < NotChar; i++ {
		if l.upper[i] == ub {
			ccl.Set(byte(i))
		}
	}
}

// lookingAt reports whether the next token is ch, written with a leading
// backslash when bk is set.
func (l *lexer) lookingAt(ch byte, bk bool) bool {
	skip := 0
	if bk {
		skip = 1
	}
	if l.left() <= skip {
		return false
	}
	i := 0
	if bk && l.src[l.pos] == '\\' {
		i = 1
	}
	return l.src[l.pos+i] == ch
}

func (l *lexer) lex() Token {
	backslash := false
	for i := 0; i < 2; i++ {
		if l.left() == 0 {
			return l.ret(TokEnd)
		}
		c := l.fetchWC()
		if c == '\\' && !backslash {
			if l.left() == 0 {
				l.fail(ErrUnfinishedEscape)
			}
			backslash = true
			continue
		}
		return l.lexChar(c, backslash)
	}
	panic("syntax: lexer consumed more than an escape and a character")
}

func (l *lexer) lexChar(c int, backslash bool) Token {
	f := l.cfg.Flags
	gnu := backslash && !f.Has(NoGNUOps)

	switch c {
	case '\\':
		return l.normalChar(c)

	case '^':
		if backslash {
			return l.normalChar(c)
		}
		if f.Has(ContextIndepAnchors) || l.lasttok == TokEnd ||
			l.lasttok == TokLParen || l.lasttok == TokOr {
			return l.ret(TokBegLine)
		}
		return l.normalChar(c)

	case '$':
		if backslash {
			return l.normalChar(c)
		}
		if f.Has(ContextIndepAnchors) || l.left() == 0 ||
			l.lookingAt(')', !f.Has(NoBkParens)) ||
			l.lookingAt('|', !f.Has(NoBkVbar)) ||
			(f.Has(NewlineAlt) && l.left() > 0 && l.src[l.pos] == '\n') {
			return l.ret(TokEndLine)
		}
		return l.normalChar(c)

	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if backslash && !f.Has(NoBkRefs) {
			l.laststart = false
			return l.ret(TokBackref)
		}
		return l.normalChar(c)

	case '`':
		if gnu {
			return l.ret(TokBegLine)
		}
		return l.normalChar(c)

	case '\'':
		if gnu {
			return l.ret(TokEndLine)
		}
		return l.normalChar(c)

	case '<':
		if gnu {
			return l.ret(TokBegWord)
		}
		return l.normalChar(c)

	case '>':
		if gnu {
			return l.ret(TokEndWord)
		}
		return l.normalChar(c)

	case 'b':
		if gnu {
			return l.ret(TokLimWord)
		}
		return l.normalChar(c)

	case 'B':
		if gnu {
			return l.ret(TokNotLimWord)
		}
		return l.normalChar(c)

	case '?', '+':
		if f.Has(LimitedOps) {
			return l.defaultCase(c, backslash)
		}
		if backslash != f.Has(BkPlusQM) {
			return l.normalChar(c)
		}
		if l.laststart {
			if !f.Has(ContextIndepOps) {
				return l.defaultCase(c, backslash)
			}
			l.startWarn(string(rune(c)))
		}
		if c == '?' {
			return l.ret(TokQMark)
		}
		return l.ret(TokPlus)

	case '*':
		if backslash {
			return l.normalChar(c)
		}
		if l.laststart {
			if !f.Has(ContextIndepOps) {
				return l.defaultCase(c, backslash)
			}
			l.startWarn("*")
		}
		return l.ret(TokStar)

	case '{':
		if !f.Has(Intervals) {
			return l.normalChar(c)
		}
		if backslash != !f.Has(NoBkBraces) {
			return l.normalChar(c)
		}
		if l.laststart {
			if !f.Has(ContextIndepOps) {
				return l.defaultCase(c, backslash)
			}
			l.startWarn("{...}")
		}
		if !l.interval(backslash) {
			if f.Has(InvalidIntervalOrd) {
				return l.normalChar(c)
			}
			l.fail(ErrInvalidInterval)
		}
		l.laststart = false
		return l.ret(TokRepMN)

	case '|':
		if f.Has(LimitedOps) {
			return l.defaultCase(c, backslash)
		}
		if backslash != !f.Has(NoBkVbar) {
			return l.normalChar(c)
		}
		l.laststart = true
		return l.ret(TokOr)

	case '\n':
		if f.Has(LimitedOps) || backslash || !f.Has(NewlineAlt) {
			return l.defaultCase(c, backslash)
		}
		l.laststart = true
		return l.ret(TokOr)

	case '(':
		if backslash != !f.Has(NoBkParens) {
			return l.normalChar(c)
		}
		l.parens++
		l.laststart = true
		return l.ret(TokLParen)

	case ')':
		if backslash != !f.Has(NoBkParens) {
			return l.normalChar(c)
		}
		if l.parens == 0 && f.Has(UnmatchedRightParenOrd) {
			return l.normalChar(c)
		}
		l.parens--
		l.laststart = false
		return l.ret(TokRParen)

	case '.':
		if backslash {
			return l.normalChar(c)
		}
		l.laststart = false
		idx := l.anyCharClass()
		if l.info.Multibyte {
			return l.ret(TokAnyChar)
		}
		return l.ret(CSetToken(idx))

	case 's', 'S':
		if !gnu {
			return l.normalChar(c)
		}
		l.laststart = false
		if !l.info.Multibyte {
			var ccl Charclass
			for b := 0; b < NotChar; b++ {
				r := l.info.SBCToWC[b]
				if r != InvalidChar && l.info.Locale.IsClass(ClassSpace, r) {
					ccl.Set(byte(b))
				}
			}
			if c == 'S' {
				ccl.Not()
			}
			return l.ret(CSetToken(l.classes.Index(&ccl)))
		}
		src := "^[:space:]]"
		if c == 's' {
			src = src[1:]
		}
		return l.ret(l.reparseBracket(src))

	case 'w', 'W':
		if !gnu {
			return l.normalChar(c)
		}
		l.laststart = false
		if !l.info.Multibyte {
			var ccl Charclass
			for b := 0; b < NotChar; b++ {
				if l.info.IsWordByte(byte(b)) {
					ccl.Set(byte(b))
				}
			}
			if c == 'W' {
				ccl.Not()
			}
			return l.ret(CSetToken(l.classes.Index(&ccl)))
		}
		src := "^_[:alnum:]]"
		if c == 'w' {
			src = src[1:]
		}
		return l.ret(l.reparseBracket(src))

	case '[':
		if backslash {
			return l.normalChar(c)
		}
		l.laststart = false
		return l.ret(l.parseBracket())
	}
	return l.defaultCase(c, backslash)
}

func (l *lexer) startWarn(op string) {
	if l.cfg.StartOpWarn {
		l.warn(op + " at start of expression")
	}
}

// defaultCase handles a character with no special meaning, warning about a
// useless backslash before it.
func (l *lexer) defaultCase(c int, backslash bool) Token {
	if backslash && l.cfg.StrayBackslashWarn {
		r := l.wctok
		loc := l.info.Locale
		switch {
		case r == InvalidChar || !loc.IsClass(ClassPrint, r):
			l.warn(`stray \ before unprintable character`)
		case loc.IsClass(ClassSpace, r):
			l.warn(`stray \ before white space`)
		default:
			l.warn(fmt.Sprintf(`stray \ before %c`, r))
		}
	}
	return l.normalChar(c)
}

func (l *lexer) normalChar(c int) Token {
	l.laststart = false
	// Multibyte characters are expanded and case folded by the parser.
	if l.info.Multibyte {
		return l.ret(TokWChar)
	}
	if l.cfg.CaseFold && l.isAlpha(c) {
		var ccl Charclass
		l.setCaseFold(c, &ccl)
		return l.ret(CSetToken(l.classes.Index(&ccl)))
	}
	return l.ret(Token(c))
}

// anyCharClass returns the class of bytes "." matches on its own.
func (l *lexer) anyCharClass() int {
	if l.anyClass >= 0 {
		return l.anyClass
	}
	var ccl Charclass
	ccl.Fill()
	if !l.cfg.Flags.Has(DotNewline) {
		ccl.Clear('\n')
	}
	if l.cfg.Flags.Has(DotNotNull) {
		ccl.Clear(0)
	}
	if l.info.Multibyte {
		for b := 0; b < NotChar; b++ {
			if l.info.SBCToWC[b] == InvalidChar {
				ccl.Clear(byte(b))
			}
		}
	}
	l.anyClass = l.classes.Index(&ccl)
	return l.anyClass
}

// interval parses the body of {m,n} following the opening brace.
func (l *lexer) interval(backslash bool) bool {
	p, lim := l.pos, len(l.src)
	l.minrep, l.maxrep = -1, -1
	for ; p != lim && isDigit(l.src[p]); p++ {
		l.minrep = accumRep(l.minrep, l.src[p])
	}
	if p != lim {
		if l.src[p] != ',' {
			l.maxrep = l.minrep
		} else {
			if l.minrep < 0 {
				l.minrep = 0
			}
			for p++; p != lim && isDigit(l.src[p]); p++ {
				l.maxrep = accumRep(l.maxrep, l.src[p])
			}
		}
	}
	if backslash {
		if p == lim || l.src[p] != '\\' {
			return false
		}
		p++
	}
	if p == lim || l.src[p] != '}' {
		return false
	}
	p++
	if l.minrep < 0 || (l.maxrep >= 0 && l.minrep > l.maxrep) {
		return false
	}
	if l.maxrep > reDupMax || l.minrep > reDupMax {
		l.fail(ErrTooBig)
	}
	l.pos = p
	return true
}

func accumRep(n int, d byte) int {
	if n < 0 {
		return int(d - '0')
	}
	return min(reDupMax+1, n*10+int(d-'0'))
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// reparseBracket runs the bracket parser over src as if it followed "[".
func (l *lexer) reparseBracket(src string) Token {
	savedSrc, savedPos := l.src, l.pos
	l.src, l.pos = []byte(src), 0
	tok := l.parseBracket()
	l.src, l.pos = savedSrc, savedPos
	return tok
}

// Bits of the state used to warn about [:space:] written without the
// outer brackets.
const (
	colonFirst = 1 << iota
	colonLast
	colonOther
	colonComplex
)

// parseBracket parses a bracket expression after its opening "[".
func (l *lexer) parseBracket() Token {
	f := l.cfg.Flags
	known := true
	var ccl Charclass
	l.brackChars = l.brackChars[:0]

	c := l.bracketFetchWC()
	invert := c == '^'
	if invert {
		c = l.bracketFetchWC()
		known = l.info.Simple
	}
	wc := l.wctok
	c1, wc1 := 0, InvalidChar
	colonState := 0
	if c == ':' {
		colonState = colonFirst
	}

	for more := true; more; c, wc, more = c1, wc1, c1 != ']' {
		c1 = NotChar
		colonState &^= colonLast

		if c == '[' {
			c1 = l.bracketFetchWC()
			wc1 = l.wctok

			if (c1 == ':' && f.Has(CharClasses)) || c1 == '.' || c1 == '=' {
				name, valid := l.bracketName(c1)
				if c1 == ':' {
					if l.cfg.CaseFold && (name == "upper" || name == "lower") {
						name = "alpha"
					}
					cls, ok := LookupClass(name)
					if !valid || !ok {
						l.fail(ErrInvalidClass)
					}
					if l.info.Multibyte && !cls.SingleByteOnly() {
						known = false
					} else {
						for b := 0; b < NotChar; b++ {
							r := l.info.SBCToWC[b]
							if r != InvalidChar && l.info.Locale.IsClass(cls, r) {
								ccl.Set(byte(b))
							}
						}
					}
				} else {
					known = false
				}
				colonState |= colonComplex
				c1 = l.bracketFetchWC()
				wc1 = l.wctok
				continue
			}
			// Otherwise "[" is an ordinary member and c1 is the lookahead.
		}

		if c == '\\' && f.Has(BackslashEscapeInLists) {
			c = l.bracketFetchWC()
			wc = l.wctok
		}

		if c1 == NotChar {
			c1 = l.bracketFetchWC()
			wc1 = l.wctok
		}

		if c1 == '-' {
			save := l.pos
			c2 := l.bracketFetchWC()
			wc2 := l.wctok

			// [a-[.aa.]] matches an unknown set; parse it as [-a[.aa.]].
			if c2 == '[' && l.left() > 0 && l.src[l.pos] == '.' {
				known = false
				c2 = ']'
			}

			if c2 == ']' {
				// In [x-] the hyphen is ordinary and stays in c1.
				l.pos = save
			} else {
				if c2 == '\\' && f.Has(BackslashEscapeInLists) {
					c2 = l.bracketFetchWC()
					wc2 = l.wctok
				}
				colonState |= colonComplex
				c1 = l.bracketFetchWC()
				wc1 = l.wctok

				if wc != wc2 || wc == InvalidChar {
					switch {
					case c < 0 || c2 < 0:
						known = false
					case l.info.Simple || (isDigit(byte(c)) && isDigit(byte(c2))):
						for ci := c; ci <= c2; ci++ {
							if l.cfg.CaseFold && l.isAlpha(ci) {
								l.setCaseFold(ci, &ccl)
							} else {
								ccl.Set(byte(ci))
							}
						}
					default:
						known = false
					}
					continue
				}
			}
		}

		if c == ':' {
			colonState |= colonLast
		} else {
			colonState |= colonOther
		}

		if !l.info.Multibyte {
			if l.cfg.CaseFold && l.isAlpha(c) {
				l.setCaseFold(c, &ccl)
			} else {
				ccl.Set(byte(c))
			}
			continue
		}

		if wc == InvalidChar {
			known = false
			continue
		}
		folded := []rune{wc}
		if l.cfg.CaseFold {
			folded = append(folded, l.info.Locale.FoldCounterparts(wc)...)
		}
		for _, r := range folded {
			if b, ok := l.info.ByteOf(r); ok {
				ccl.Set(b)
			} else {
				l.brackChars = append(l.brackChars, r)
			}
		}
	}

	if colonState == colonFirst|colonLast|colonOther {
		if l.cfg.ConfusingBracketsError {
			l.fail(ErrConfusingBracket)
		}
		l.warn(ErrConfusingBracket.Msg)
	}

	if !known {
		return TokBackref
	}

	if l.info.Multibyte && (invert || len(l.brackChars) != 0) {
		l.brackInvert = invert
		l.brackCSet = -1
		if !ccl.IsEmpty() {
			l.brackCSet = l.classes.Index(&ccl)
		}
		return TokMBCSet
	}

	if invert {
		ccl.Not()
		if f.Has(HatListsNotNewline) {
			ccl.Clear('\n')
		}
	}
	return CSetToken(l.classes.Index(&ccl))
}

// bracketName reads the name of a [:name:], [=c=] or [.c.] item up to the
// closing delim and "]". valid is false when the name cannot be a class.
func (l *lexer) bracketName(delim int) (name string, valid bool) {
	const maxLen = 32
	var buf []byte
	valid = true
	for {
		c := l.bracketFetchWC()
		if l.left() == 0 || (c == delim && l.src[l.pos] == ']') {
			break
		}
		if c < 0 || len(buf) >= maxLen {
			valid = false
			continue
		}
		buf = append(buf, byte(c))
	}
	// Consume the closing "]".
	l.bracketFetchWC()
	return string(buf), valid
}
