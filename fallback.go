package grepdfa

import (
	"fmt"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/coregx/grepdfa/syntax"
)

// buildFallback compiles the backtracking matcher used for patterns the DFA
// cannot run, such as back-references. The matcher only ever sees single
// lines.
func (re *Regexp) buildFallback(cfg syntax.Config) error {
	cfg.Warn = nil
	expr, err := syntax.Translate([]byte(re.pattern), cfg)
	if err != nil {
		return fmt.Errorf("grepdfa: translating %q for backtracking: %w", re.pattern, err)
	}

	opts := regexp2.RegexOptions(regexp2.Multiline)
	if re.opts.CaseFold {
		opts |= regexp2.IgnoreCase
	}
	fb, err := regexp2.Compile(expr, opts)
	if err != nil {
		return fmt.Errorf("grepdfa: compiling %q for backtracking: %w", expr, err)
	}
	if re.opts.MatchTimeout > 0 {
		fb.MatchTimeout = re.opts.MatchTimeout
	}
	re.fallback = fb

	re.logger.Debug("using backtracking fallback",
		"pattern", re.pattern,
		"expr", expr,
		"superset", re.superset != nil)
	return nil
}

// fallbackFind returns the byte span of the first match in line.
func (re *Regexp) fallbackFind(line []byte) (start, end int, ok bool, err error) {
	if !re.tree.Info.UTF8 {
		return re.fallbackFindWide(line)
	}
	s := string(line)
	m, err := re.fallback.FindStringMatch(s)
	if err != nil {
		return -1, -1, false, fmt.Errorf("grepdfa: backtracking match: %w", err)
	}
	if m == nil {
		return -1, -1, false, nil
	}

	// Match offsets count runes; an invalid byte decodes as one rune.
	start, end = len(s), len(s)
	r := 0
	for i := range s {
		if r == m.Index {
			start = i
		}
		if r == m.Index+m.Length {
			end = i
			break
		}
		r++
	}
	return start, end, true, nil
}

// fallbackFindWide matches a line of a non-UTF-8 locale. Each character is
// decoded by the locale, so byte 0xE9 in ISO-8859-1 reaches the matcher as
// U+00E9, the same rune Translate wrote for it.
func (re *Regexp) fallbackFindWide(line []byte) (start, end int, ok bool, err error) {
	info := re.tree.Info
	runes := make([]rune, 0, len(line))
	offs := make([]int, 0, len(line)+1)
	for i := 0; i < len(line); {
		r, n := info.DecodeAt(line[i:])
		if r == syntax.InvalidChar {
			r, n = utf8.RuneError, 1
		}
		runes = append(runes, r)
		offs = append(offs, i)
		i += n
	}
	offs = append(offs, len(line))

	m, err := re.fallback.FindRunesMatch(runes)
	if err != nil {
		return -1, -1, false, fmt.Errorf("grepdfa: backtracking match: %w", err)
	}
	if m == nil {
		return -1, -1, false, nil
	}
	return offs[m.Index], offs[m.Index+m.Length], true, nil
}
