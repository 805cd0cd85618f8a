package prefilter

import (
	"testing"

	"github.com/coregx/grepdfa/literal"
	"github.com/coregx/grepdfa/syntax"
)

func build(t *testing.T, pattern string, cfg syntax.Config) Prefilter {
	t.Helper()
	tree, err := syntax.Parse([]byte(pattern), cfg)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", pattern, err)
	}
	alts := literal.New(literal.DefaultConfig()).Alternates(tree)
	return NewBuilder(literal.FindMust(tree), alts).Build()
}

func TestBuilderSelection(t *testing.T) {
	egrep := syntax.Config{Flags: syntax.SyntaxEgrep}
	tests := []struct {
		name     string
		pattern  string
		cfg      syntax.Config
		want     string
		complete bool
	}{
		{name: "single byte", pattern: "x", cfg: egrep, want: "memchr", complete: true},
		{name: "required string", pattern: "foo.*bar", cfg: egrep, want: "memmem"},
		{name: "exact string", pattern: "hello", cfg: egrep, want: "memmem", complete: true},
		{name: "anchored string", pattern: "^hello", cfg: egrep, want: "memmem"},
		{name: "case folded", pattern: "hello", cfg: syntax.Config{Flags: syntax.SyntaxEgrep, CaseFold: true}, want: "fold", complete: true},
		{name: "alternation", pattern: "foo|bar|baz", cfg: egrep, want: "ahocorasick", complete: true},
		{name: "nothing required", pattern: "a*", cfg: egrep, want: "none"},
		{name: "open alternation", pattern: "foo|b.r", cfg: egrep, want: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := build(t, tt.pattern, tt.cfg)
			got := "none"
			switch pf.(type) {
			case *memchrPrefilter:
				got = "memchr"
			case *memmemPrefilter:
				got = "memmem"
			case *foldPrefilter:
				got = "fold"
			case *ahoCorasickPrefilter:
				got = "ahocorasick"
			}
			if got != tt.want {
				t.Fatalf("Build(%q) = %s, want %s", tt.pattern, got, tt.want)
			}
			if pf != nil && pf.IsComplete() != tt.complete {
				t.Errorf("IsComplete() = %v, want %v", pf.IsComplete(), tt.complete)
			}
		})
	}
}

func TestBuilderMinLen(t *testing.T) {
	tree := syntax.MustParse("ab.*x", syntax.Config{Flags: syntax.SyntaxEgrep})
	m := literal.FindMust(tree)
	if pf := NewBuilder(m, nil).WithMinLen(3).Build(); pf != nil {
		t.Error("prefilter built for a literal shorter than MinLen")
	}
	if pf := NewBuilder(m, nil).WithMinLen(2).Build(); pf == nil {
		t.Error("no prefilter for a literal of MinLen")
	}
	if pf := NewBuilder(nil, nil).Build(); pf != nil {
		t.Error("prefilter built from nothing")
	}
}

func TestPrefilterFind(t *testing.T) {
	egrep := syntax.Config{Flags: syntax.SyntaxEgrep}
	tests := []struct {
		name     string
		pattern  string
		cfg      syntax.Config
		haystack string
		start    int
		want     int
	}{
		{name: "memchr", pattern: "x", cfg: egrep, haystack: "abcxdef", want: 3},
		{name: "memchr from start", pattern: "x", cfg: egrep, haystack: "xabcx", start: 1, want: 4},
		{name: "memchr past end", pattern: "x", cfg: egrep, haystack: "x", start: 1, want: -1},
		{name: "memmem", pattern: "foo.*bar", cfg: egrep, haystack: "xx foo yy bar", want: 3},
		{name: "memmem miss", pattern: "foo.*bar", cfg: egrep, haystack: "fo bar", want: -1},
		{name: "fold", pattern: "hello", cfg: syntax.Config{Flags: syntax.SyntaxEgrep, CaseFold: true}, haystack: "say HeLLo", want: 4},
		{name: "ahocorasick", pattern: "foo|bar|baz", cfg: egrep, haystack: "xxbazfoo", want: 2},
		{name: "ahocorasick from start", pattern: "foo|bar|baz", cfg: egrep, haystack: "xxbazfoo", start: 3, want: 5},
		{name: "ahocorasick miss", pattern: "foo|bar|baz", cfg: egrep, haystack: "ba fo", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := build(t, tt.pattern, tt.cfg)
			if pf == nil {
				t.Fatal("no prefilter")
			}
			if got := pf.Find([]byte(tt.haystack), tt.start); got != tt.want {
				t.Errorf("Find(%q, %d) = %d, want %d", tt.haystack, tt.start, got, tt.want)
			}
		})
	}
}

func TestLiteralLen(t *testing.T) {
	egrep := syntax.Config{Flags: syntax.SyntaxEgrep}
	if got := build(t, "hello", egrep).LiteralLen(); got != 5 {
		t.Errorf("exact memmem LiteralLen = %d, want 5", got)
	}
	if got := build(t, "x", egrep).LiteralLen(); got != 1 {
		t.Errorf("exact memchr LiteralLen = %d, want 1", got)
	}
	if got := build(t, "foo.*bar", egrep).LiteralLen(); got != 0 {
		t.Errorf("partial LiteralLen = %d, want 0", got)
	}
	if got := build(t, "foo|barbaz", egrep).LiteralLen(); got != 0 {
		t.Errorf("alternation LiteralLen = %d, want 0", got)
	}
}

func TestAhoCorasickFindMatch(t *testing.T) {
	pf := build(t, "foo|barbaz", syntax.Config{Flags: syntax.SyntaxEgrep})
	mf, ok := pf.(MatchFinder)
	if !ok {
		t.Fatalf("%T does not implement MatchFinder", pf)
	}
	s, e := mf.FindMatch([]byte("--barbaz--foo"), 0)
	if s != 2 || e != 8 {
		t.Errorf("FindMatch = (%d, %d), want (2, 8)", s, e)
	}
	if s, e := mf.FindMatch([]byte("nothing"), 0); s != -1 || e != -1 {
		t.Errorf("FindMatch miss = (%d, %d)", s, e)
	}
	if pf.HeapBytes() <= 0 {
		t.Error("HeapBytes of automaton is zero")
	}
}
