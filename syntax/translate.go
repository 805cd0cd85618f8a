package syntax

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUntranslatable is returned by Translate for constructs a backtracking
// matcher cannot express, such as multi-character collating elements.
var ErrUntranslatable = errors.New("syntax: pattern cannot be translated")

// Translate rewrites a POSIX pattern in the syntax of a Perl/.NET style
// backtracking engine. Groups stay capturing so back-references keep their
// numbers. Line anchors are emitted as ^ and $, so the result is meant to
// be compiled in multiline mode. Case folding is left to the matcher.
func Translate(pattern []byte, cfg Config) (string, error) {
	if cfg.Locale == nil {
		cfg.Locale = CLocale
	}
	t := &translator{
		cfg:       &cfg,
		info:      NewLocaleInfo(cfg.Locale),
		src:       pattern,
		laststart: true,
		last:      TokEnd,
	}
	if err := t.run(); err != nil {
		return "", err
	}
	return t.out.String(), nil
}

type translator struct {
	cfg  *Config
	info *LocaleInfo
	src  []byte
	pos  int
	out  strings.Builder

	laststart bool
	last      Token
	parens    int
}

func (t *translator) next() (rune, error) {
	r, n := t.info.DecodeAt(t.src[t.pos:])
	if r == InvalidChar {
		return 0, fmt.Errorf("invalid byte 0x%02x at offset %d: %w", t.src[t.pos], t.pos, ErrUntranslatable)
	}
	t.pos += n
	return r, nil
}

func (t *translator) emit(s string, tok Token, laststart bool) {
	t.out.WriteString(s)
	t.last = tok
	t.laststart = laststart
}

// operator emits a closure operator, giving it an empty operand when it
// starts an expression.
func (t *translator) operator(op string, tok Token) {
	if t.laststart {
		t.out.WriteString("(?:)")
	}
	t.emit(op, tok, false)
}

func (t *translator) literal(r rune) {
	writeEscaped(&t.out, r, false)
	t.last = Token(0)
	t.laststart = false
}

func (t *translator) run() error {
	f := t.cfg.Flags
	for t.pos < len(t.src) {
		r, err := t.next()
		if err != nil {
			return err
		}
		backslash := false
		if r == '\\' {
			if t.pos == len(t.src) {
				return ErrUnfinishedEscape
			}
			if r, err = t.next(); err != nil {
				return err
			}
			backslash = true
		}
		gnu := backslash && !f.Has(NoGNUOps)

		switch {
		case r == '^' && !backslash:
			if f.Has(ContextIndepAnchors) || t.last == TokEnd || t.last == TokLParen || t.last == TokOr {
				t.emit("^", TokBegLine, t.laststart)
			} else {
				t.literal(r)
			}
		case r == '$' && !backslash:
			if f.Has(ContextIndepAnchors) || t.dollarAnchors() {
				t.emit("$", TokEndLine, t.laststart)
			} else {
				t.literal(r)
			}
		case r >= '1' && r <= '9' && backslash && !f.Has(NoBkRefs):
			t.emit(fmt.Sprintf(`(?:\%c)`, r), TokBackref, false)
		case r == '`' && gnu:
			t.emit("^", TokBegLine, t.laststart)
		case r == '\'' && gnu:
			t.emit("$", TokEndLine, t.laststart)
		case r == '<' && gnu:
			t.emit(`\b(?=\w)`, TokBegWord, t.laststart)
		case r == '>' && gnu:
			t.emit(`\b(?<=\w)`, TokEndWord, t.laststart)
		case (r == 'b' || r == 'B') && gnu:
			t.emit(`\`+string(r), TokLimWord, t.laststart)
		case (r == 'w' || r == 'W' || r == 's' || r == 'S') && gnu:
			t.emit(`\`+string(r), TokCSet, false)
		case (r == '?' || r == '+') && !f.Has(LimitedOps) && backslash == f.Has(BkPlusQM) &&
			(!t.laststart || f.Has(ContextIndepOps)):
			t.operator(string(r), TokStar)
		case r == '*' && !backslash && (!t.laststart || f.Has(ContextIndepOps)):
			t.operator("*", TokStar)
		case r == '{' && f.Has(Intervals) && backslash == !f.Has(NoBkBraces) &&
			(!t.laststart || f.Has(ContextIndepOps)):
			rep, ok := t.interval(backslash)
			if !ok {
				if !f.Has(InvalidIntervalOrd) {
					return ErrInvalidInterval
				}
				t.literal(r)
				continue
			}
			t.operator(rep, TokRepMN)
		case r == '|' && !f.Has(LimitedOps) && backslash == !f.Has(NoBkVbar),
			r == '\n' && !backslash && !f.Has(LimitedOps) && f.Has(NewlineAlt):
			t.emit("|", TokOr, true)
		case r == '(' && backslash == !f.Has(NoBkParens):
			t.parens++
			t.emit("(", TokLParen, true)
		case r == ')' && backslash == !f.Has(NoBkParens) && (t.parens > 0 || !f.Has(UnmatchedRightParenOrd)):
			if t.parens == 0 {
				return ErrUnbalancedCloseParen
			}
			t.parens--
			t.emit(")", TokRParen, false)
		case r == '.' && !backslash:
			t.emit(t.dot(), TokAnyChar, false)
		case r == '[' && !backslash:
			s, err := t.bracket()
			if err != nil {
				return err
			}
			t.emit(s, TokCSet, false)
		default:
			t.literal(r)
		}
	}
	if t.parens > 0 {
		return ErrUnbalancedParen
	}
	return nil
}

// dollarAnchors reports whether a context-dependent $ ends an expression.
func (t *translator) dollarAnchors() bool {
	f := t.cfg.Flags
	rest := t.src[t.pos:]
	if len(rest) == 0 {
		return true
	}
	at := func(ch byte, bk bool) bool {
		if bk {
			return len(rest) > 1 && rest[0] == '\\' && rest[1] == ch
		}
		return rest[0] == ch
	}
	return at(')', !f.Has(NoBkParens)) || at('|', !f.Has(NoBkVbar)) ||
		(f.Has(NewlineAlt) && rest[0] == '\n')
}

func (t *translator) dot() string {
	f := t.cfg.Flags
	switch {
	case f.Has(DotNewline) && f.Has(DotNotNull):
		return `[^\x00]`
	case f.Has(DotNewline):
		return `(?s:.)`
	case f.Has(DotNotNull):
		return `[^\n\x00]`
	}
	return `[^\n]`
}

func (t *translator) interval(backslash bool) (string, bool) {
	p := t.pos
	readNum := func() int {
		n := -1
		for ; p < len(t.src) && isDigit(t.src[p]); p++ {
			n = accumRep(n, t.src[p])
		}
		return n
	}
	lo, hi := readNum(), -1
	comma := false
	if p < len(t.src) && t.src[p] == ',' {
		comma = true
		p++
		hi = readNum()
		if lo < 0 {
			lo = 0
		}
	} else {
		hi = lo
	}
	if backslash {
		if p >= len(t.src) || t.src[p] != '\\' {
			return "", false
		}
		p++
	}
	if p >= len(t.src) || t.src[p] != '}' || lo < 0 || (hi >= 0 && lo > hi) {
		return "", false
	}
	t.pos = p + 1
	switch {
	case !comma:
		return fmt.Sprintf("{%d}", lo), true
	case hi < 0:
		return fmt.Sprintf("{%d,}", lo), true
	}
	return fmt.Sprintf("{%d,%d}", lo, hi), true
}

// bracket translates a bracket expression following its "[".
func (t *translator) bracket() (string, error) {
	f := t.cfg.Flags
	var sb strings.Builder
	sb.WriteByte('[')
	if t.pos < len(t.src) && t.src[t.pos] == '^' {
		t.pos++
		sb.WriteByte('^')
		if f.Has(HatListsNotNewline) {
			sb.WriteString(`\n`)
		}
	}
	first := true
	for {
		if t.pos >= len(t.src) {
			return "", ErrUnbalancedBracket
		}
		r, err := t.next()
		if err != nil {
			return "", err
		}
		if r == ']' && !first {
			break
		}
		first = false

		if r == '[' && t.pos < len(t.src) {
			switch d := t.src[t.pos]; {
			case d == ':' && f.Has(CharClasses), d == '.', d == '=':
				t.pos++
				end := strings.Index(string(t.src[t.pos:]), string([]byte{d, ']'}))
				if end < 0 {
					return "", ErrUnbalancedBracket
				}
				name := string(t.src[t.pos : t.pos+end])
				t.pos += end + 2
				if d == ':' {
					s, ok := t.classExpr(name)
					if !ok {
						return "", ErrInvalidClass
					}
					sb.WriteString(s)
					continue
				}
				r, err = t.single(name)
				if err != nil {
					return "", err
				}
				writeEscaped(&sb, r, true)
				continue
			}
		}

		if r == '\\' && f.Has(BackslashEscapeInLists) {
			if r, err = t.next(); err != nil {
				return "", err
			}
		}
		writeEscaped(&sb, r, true)

		// A range, unless the hyphen is the last member.
		if t.pos+1 < len(t.src) && t.src[t.pos] == '-' && t.src[t.pos+1] != ']' {
			t.pos++
			hi, err := t.next()
			if err != nil {
				return "", err
			}
			if hi == '[' && t.pos+1 < len(t.src) && (t.src[t.pos] == '.' || t.src[t.pos] == '=') {
				d := t.src[t.pos]
				t.pos++
				end := strings.Index(string(t.src[t.pos:]), string([]byte{d, ']'}))
				if end < 0 {
					return "", ErrUnbalancedBracket
				}
				if hi, err = t.single(string(t.src[t.pos : t.pos+end])); err != nil {
					return "", err
				}
				t.pos += end + 2
			} else if hi == '\\' && f.Has(BackslashEscapeInLists) {
				if hi, err = t.next(); err != nil {
					return "", err
				}
			}
			if hi < r {
				return "", fmt.Errorf("reversed range %c-%c: %w", r, hi, ErrUntranslatable)
			}
			sb.WriteByte('-')
			writeEscaped(&sb, hi, true)
		}
	}
	sb.WriteByte(']')
	return sb.String(), nil
}

// single decodes the one character named by a [.c.] or [=c=] item.
func (t *translator) single(name string) (rune, error) {
	b := []byte(name)
	r, n := t.info.DecodeAt(b)
	if r == InvalidChar || n != len(b) {
		return 0, fmt.Errorf("collating element %q: %w", name, ErrUntranslatable)
	}
	return r, nil
}

func (t *translator) classExpr(name string) (string, bool) {
	if t.cfg.CaseFold && (name == "upper" || name == "lower") {
		name = "alpha"
	}
	cls, ok := LookupClass(name)
	if !ok {
		return "", false
	}
	if !t.info.Multibyte && t.info.Locale == CLocale {
		return asciiClassExpr[cls], true
	}
	return unicodeClassExpr[cls], true
}

var asciiClassExpr = [...]string{
	ClassAlpha:  `A-Za-z`,
	ClassUpper:  `A-Z`,
	ClassLower:  `a-z`,
	ClassDigit:  `0-9`,
	ClassXDigit: `0-9A-Fa-f`,
	ClassSpace:  `\t-\r `,
	ClassPunct:  `!-/:-@\[-` + "`" + `{-~`,
	ClassAlnum:  `0-9A-Za-z`,
	ClassPrint:  ` -~`,
	ClassGraph:  `!-~`,
	ClassCntrl:  `\x00-\x1F\x7F`,
	ClassBlank:  `\t `,
}

var unicodeClassExpr = [...]string{
	ClassAlpha:  `\p{L}`,
	ClassUpper:  `\p{Lu}`,
	ClassLower:  `\p{Ll}`,
	ClassDigit:  `0-9`,
	ClassXDigit: `0-9A-Fa-f`,
	ClassSpace:  `\s`,
	ClassPunct:  `\p{P}\p{S}`,
	ClassAlnum:  `\p{L}\p{Nd}`,
	ClassPrint:  `\P{C}`,
	ClassGraph:  `\p{L}\p{M}\p{N}\p{P}\p{S}`,
	ClassCntrl:  `\p{Cc}`,
	ClassBlank:  `\t\p{Zs}`,
}

// writeEscaped writes r so that the matcher reads it as a literal.
func writeEscaped(sb *strings.Builder, r rune, inClass bool) {
	switch {
	case r < 0x20 || r == 0x7f:
		fmt.Fprintf(sb, `\x%02X`, r)
	case r < 0x80 && !isWordRune(r):
		if inClass && !strings.ContainsRune(`\]^-[`, r) {
			sb.WriteRune(r)
			return
		}
		sb.WriteByte('\\')
		sb.WriteRune(r)
	default:
		sb.WriteRune(r)
	}
}

func isWordRune(r rune) bool {
	return r == '_' || '0' <= r && r <= '9' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}
