package grepdfa

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/grepdfa/syntax"
)

func utf8Options() Options {
	opts := DefaultOptions()
	opts.Locale = syntax.UTF8Locale
	return opts
}

func latin1Options() Options {
	opts := DefaultOptions()
	opts.Locale = syntax.Latin1Locale
	return opts
}

func TestFindLine(t *testing.T) {
	foldOpts := DefaultOptions()
	foldOpts.CaseFold = true
	nulOpts := DefaultOptions()
	nulOpts.EOLNul = true

	tests := []struct {
		name    string
		pattern string
		opts    Options
		input   string
		start   int
		want    [2]int
		ok      bool
	}{
		{name: "digits", pattern: "a[0-9]+", opts: DefaultOptions(), input: "xa42y", want: [2]int{0, 5}, ok: true},
		{name: "whole line", pattern: "^foo$", opts: DefaultOptions(), input: "bar\nfoo\nbaz", want: [2]int{4, 7}, ok: true},
		{name: "whole line miss", pattern: "^foo$", opts: DefaultOptions(), input: "bar\nfoox\nbaz", ok: false},
		{name: "literal on earlier line", pattern: "foo.*bar", opts: DefaultOptions(), input: "foo\nbar\nfoo bar\n", want: [2]int{8, 15}, ok: true},
		{name: "alternation", pattern: "foo|ba[rz]", opts: DefaultOptions(), input: "one\ntwo baz\n", want: [2]int{4, 11}, ok: true},
		{name: "start offset", pattern: "foo", opts: DefaultOptions(), input: "foo1\nbar\nfoo2\n", start: 5, want: [2]int{9, 13}, ok: true},
		{name: "case fold", pattern: "hello", opts: foldOpts, input: "HeLLo world", want: [2]int{0, 11}, ok: true},
		{name: "empty pattern", pattern: "", opts: DefaultOptions(), input: "abc", want: [2]int{0, 3}, ok: true},
		{name: "empty line", pattern: "^$", opts: DefaultOptions(), input: "abc\n\nx", want: [2]int{4, 4}, ok: true},
		{name: "no line after final newline", pattern: "^$", opts: DefaultOptions(), input: "abc\n", ok: false},
		{name: "empty input", pattern: "", opts: DefaultOptions(), input: "", ok: false},
		{name: "nul terminated", pattern: "b", opts: nulOpts, input: "a\x00b\x00", want: [2]int{2, 3}, ok: true},
		{name: "utf8 literal", pattern: "héllo", opts: utf8Options(), input: "x\nsay héllo", want: [2]int{2, 12}, ok: true},
		{name: "utf8 dot", pattern: "h.llo", opts: utf8Options(), input: "hllo\nhéllo", want: [2]int{5, 11}, ok: true},
		{name: "backref", pattern: `(a)\1b`, opts: DefaultOptions(), input: "ab\nxaab\n", want: [2]int{3, 7}, ok: true},
		{name: "backref miss", pattern: `(a)\1`, opts: DefaultOptions(), input: "ab\nba", ok: false},
		{name: "bre backref", pattern: `\(ab\)*x\1`, opts: Options{Syntax: syntax.SyntaxGrep}, input: "abxab", want: [2]int{0, 5}, ok: true},
		{name: "latin1 backref high byte", pattern: "(a)\\1\xe9", opts: latin1Options(), input: "x\naa\xe9\n", want: [2]int{2, 5}, ok: true},
		{name: "latin1 backref high bracket", pattern: "(a)\\1[\xe9]", opts: latin1Options(), input: "aa\xe9", want: [2]int{0, 3}, ok: true},
		{name: "latin1 backref high byte miss", pattern: "(a)\\1\xe9", opts: latin1Options(), input: "aa\xc9\naae", ok: false},
		{name: "c locale backref high byte", pattern: "(a)\\1\xe9", opts: DefaultOptions(), input: "aa\xe9", want: [2]int{0, 3}, ok: true},
		{name: "utf8 backref", pattern: `(é)\1b`, opts: utf8Options(), input: "éb\nxéébc", want: [2]int{4, 11}, ok: true},
		{name: "case fold backref", pattern: `(a)\1b`, opts: foldOpts, input: "x\nAaB", want: [2]int{2, 5}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile([]byte(tt.pattern), true, tt.opts)
			require.NoError(t, err)

			s, e, ok := re.FindLine([]byte(tt.input), tt.start)
			require.Equal(t, tt.ok, ok, "FindLine(%q)", tt.input)
			if ok {
				assert.Equal(t, tt.want, [2]int{s, e})
			}
			if tt.start == 0 {
				assert.Equal(t, tt.ok, re.Match([]byte(tt.input)))
			}
		})
	}
}

func TestFindLongest(t *testing.T) {
	foldOpts := DefaultOptions()
	foldOpts.CaseFold = true

	tests := []struct {
		name    string
		pattern string
		opts    Options
		input   string
		want    [2]int
		ok      bool
	}{
		{name: "longest digits", pattern: "a[0-9]+", opts: DefaultOptions(), input: "xa42y", want: [2]int{1, 4}, ok: true},
		{name: "leftmost beats longer", pattern: "ab|bcdef", opts: DefaultOptions(), input: "abcdef", want: [2]int{0, 2}, ok: true},
		{name: "longest alternative", pattern: "ab|abcd", opts: DefaultOptions(), input: "xabcd", want: [2]int{1, 5}, ok: true},
		{name: "anchored line", pattern: "^foo$", opts: DefaultOptions(), input: "bar\nfoo\nbaz", want: [2]int{4, 7}, ok: true},
		{name: "case fold", pattern: "hello", opts: foldOpts, input: "HeLLo world", want: [2]int{0, 5}, ok: true},
		{name: "empty match", pattern: "x*", opts: DefaultOptions(), input: "abc", want: [2]int{0, 0}, ok: true},
		{name: "utf8", pattern: "héllo", opts: utf8Options(), input: "say héllo", want: [2]int{4, 10}, ok: true},
		{name: "backref", pattern: `(a)\1b`, opts: DefaultOptions(), input: "ab\nxaab\n", want: [2]int{4, 7}, ok: true},
		{name: "utf8 backref byte offsets", pattern: `(a)\1b`, opts: utf8Options(), input: "é\nxéaab", want: [2]int{6, 9}, ok: true},
		{name: "latin1 backref byte offsets", pattern: "(\xe9)\\1b", opts: latin1Options(), input: "\xff\n\xe0\xe9\xe9b", want: [2]int{3, 6}, ok: true},
		{name: "miss", pattern: "z+", opts: DefaultOptions(), input: "abc\ndef", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile([]byte(tt.pattern), true, tt.opts)
			require.NoError(t, err)

			s, e, ok := re.Find([]byte(tt.input))
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, [2]int{s, e})
			}
		})
	}
}

func TestExec(t *testing.T) {
	t.Run("searching", func(t *testing.T) {
		re, err := Compile([]byte("abc"), true, DefaultOptions())
		require.NoError(t, err)
		end, _, backref := re.Exec([]byte("xxabcx"), false)
		assert.Equal(t, 5, end)
		assert.False(t, backref)
	})

	t.Run("non-searching", func(t *testing.T) {
		re, err := Compile([]byte("abc"), false, DefaultOptions())
		require.NoError(t, err)
		end, _, _ := re.Exec([]byte("abcx"), false)
		assert.Equal(t, 3, end)
		end, _, _ = re.Exec([]byte("xabc"), false)
		assert.Equal(t, -1, end)

		// Line queries still search.
		assert.True(t, re.Match([]byte("xabc")))
	})

	t.Run("backref", func(t *testing.T) {
		re, err := Compile([]byte(`(a)\1`), true, DefaultOptions())
		require.NoError(t, err)
		_, _, backref := re.Exec([]byte("aa"), false)
		assert.True(t, backref)
		assert.False(t, re.IsSupported())
		assert.NotNil(t, re.Superset())
	})
}

func TestCompileErrors(t *testing.T) {
	var msgs []string
	opts := DefaultOptions()
	opts.Error = func(msg string) { msgs = append(msgs, msg) }

	re, err := Compile([]byte("(ab"), true, opts)
	assert.Nil(t, re)
	require.ErrorIs(t, err, syntax.ErrUnbalancedParen)
	assert.Equal(t, []string{"unbalanced ("}, msgs)

	_, err = Compile([]byte("[ab"), true, DefaultOptions())
	assert.ErrorIs(t, err, syntax.ErrUnbalancedBracket)

	assert.Panics(t, func() { MustCompile(`a\{1`, Options{Syntax: syntax.SyntaxGrep}) })
}

func TestWarnings(t *testing.T) {
	t.Run("callback", func(t *testing.T) {
		var got []string
		opts := DefaultOptions()
		opts.StartOpWarn = true
		opts.Warn = func(msg string) { got = append(got, msg) }
		_, err := Compile([]byte("*a"), true, opts)
		require.NoError(t, err)
		assert.Equal(t, []string{"* at start of expression"}, got)
	})

	t.Run("logger", func(t *testing.T) {
		var buf bytes.Buffer
		opts := DefaultOptions()
		opts.StrayBackslashWarn = true
		opts.Logger = slog.New(slog.NewTextHandler(&buf, nil))
		_, err := Compile([]byte(`\a`), true, opts)
		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, `warning="stray \\ before a"`)
	})
}

func TestAccessors(t *testing.T) {
	re := MustCompile("foo.*bar", DefaultOptions())
	assert.Equal(t, "foo.*bar", re.String())
	assert.True(t, re.IsFast())
	assert.Nil(t, re.Superset())
	require.NotNil(t, re.RequiredLiteral())
	assert.Equal(t, "foo", string(re.RequiredLiteral().Literal))
	assert.NotNil(t, re.Tree())

	re.Match([]byte("foo and bar"))
	assert.Positive(t, re.Stats().States)

	mb := MustCompile("h.llo", utf8Options())
	assert.False(t, mb.IsFast())
	assert.NotNil(t, mb.Superset())
}

func TestConcurrentMatch(t *testing.T) {
	re := MustCompile("[0-9]+x|y[a-c]{2}", DefaultOptions())
	inputs := [][]byte{
		[]byte("abc\n123x\n"),
		[]byte("nothing\nyab"),
		[]byte("yc\n9x"),
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				for _, in := range inputs {
					if !re.Match(in) {
						errs <- string(in)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for in := range errs {
		t.Errorf("concurrent Match(%q) = false", in)
	}
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		in    string
		flags syntax.Flags
		want  string
	}{
		{"1+1=2?", syntax.SyntaxEgrep, `1\+1=2\?`},
		{"1+1=2?", syntax.SyntaxGrep, "1+1=2?"},
		{"a.b*c", syntax.SyntaxGrep, `a\.b\*c`},
		{"(x|y){2}", syntax.SyntaxEgrep, `\(x\|y\)\{2\}`},
		{"(x|y){2}", syntax.SyntaxGrep, "(x|y){2}"},
		{"^[a]$", syntax.SyntaxEgrep, `\^\[a\]\$`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, QuoteMeta(tt.in, tt.flags), "QuoteMeta(%q)", tt.in)
	}

	for _, s := range []string{"a.b*c", "(x|y){2}+?", `^[\]$`} {
		re := MustCompile(QuoteMeta(s, syntax.SyntaxEgrep), DefaultOptions())
		start, end, ok := re.Find([]byte("--" + s + "--"))
		require.True(t, ok, "quoted %q", s)
		assert.Equal(t, [2]int{2, 2 + len(s)}, [2]int{start, end})
	}
}

func TestFindLineLoop(t *testing.T) {
	re := MustCompile("o", DefaultOptions())
	buf := []byte("foo\nbar\nboo\nbaz\n")

	var lines []string
	for pos := 0; ; {
		s, e, ok := re.FindLine(buf, pos)
		if !ok {
			break
		}
		lines = append(lines, string(buf[s:e]))
		pos = e + 1
	}
	assert.Equal(t, []string{"foo", "boo"}, lines)
}

func TestTrackerConfirmsVerifiedMatch(t *testing.T) {
	re := MustCompile("foo.*bar", DefaultOptions())
	st := re.get()
	defer re.put(st)
	require.NotNil(t, st.tracker)

	// The first candidate line fails; the match is two lines later.
	s, e, ok := re.findLine(st, []byte("foo\nbar\nfoo bar\n"), 0)
	require.True(t, ok)
	assert.Equal(t, [2]int{8, 15}, [2]int{s, e})

	candidates, confirms, _, active := st.tracker.Stats()
	assert.Equal(t, uint64(1), candidates)
	assert.Equal(t, uint64(1), confirms)
	assert.True(t, active)
}
