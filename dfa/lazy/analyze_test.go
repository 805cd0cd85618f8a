package lazy

import (
	"testing"

	"github.com/coregx/grepdfa/syntax"
)

func TestAnalyzeFollows(t *testing.T) {
	// BEG a b CAT CAT END CAT
	an := analyze(parseEgrep(t, "ab"), true, DefaultConfig())

	want := PositionSet{{Index: 1, Constraint: NoConstraint}}
	if !an.initial.Equal(want) {
		t.Errorf("initial = %v, want %v", an.initial, want)
	}
	if got := an.follows[1]; !got.Equal(PositionSet{{Index: 2, Constraint: NoConstraint}}) {
		t.Errorf("follows[a] = %v, want [2]", got)
	}
	if got := an.follows[2]; !got.Equal(PositionSet{{Index: 5, Constraint: NoConstraint}}) {
		t.Errorf("follows[b] = %v, want [5]", got)
	}
}

func TestAnalyzeNullable(t *testing.T) {
	// BEG a STAR CAT END CAT
	an := analyze(parseEgrep(t, "a*"), true, DefaultConfig())

	want := PositionSet{{Index: 4, Constraint: NoConstraint}, {Index: 1, Constraint: NoConstraint}}
	if !an.initial.Equal(want) {
		t.Errorf("initial = %v, want %v", an.initial, want)
	}
	if !an.follows[1].Equal(want) {
		t.Errorf("follows[a] = %v, want %v", an.follows[1], want)
	}
}

func TestAnalyzeEpsilonClosure(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		want    PositionSet
	}{
		// BEG BEGLINE a CAT CAT END CAT
		{name: "begline", pattern: "^a", want: PositionSet{{Index: 2, Constraint: BegLineConstraint}}},
		// BEG BEGWORD a CAT CAT END CAT
		{name: "begword", pattern: `\<a`, want: PositionSet{{Index: 2, Constraint: BegWordConstraint}}},
		// BEG BEGLINE BEGWORD CAT a CAT CAT END CAT
		{name: "stacked", pattern: `^\<a`, want: PositionSet{{Index: 4, Constraint: BegLineConstraint & BegWordConstraint}}},
		// BEG BEGLINE ENDLINE CAT CAT END CAT
		{name: "empty line", pattern: "^$", want: PositionSet{{Index: 5, Constraint: BegLineConstraint & EndLineConstraint}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			an := analyze(parseEgrep(t, tt.pattern), true, DefaultConfig())
			if !an.initial.Equal(tt.want) {
				t.Errorf("initial = %v, want %v", an.initial, tt.want)
			}
			for i, tok := range an.tokens {
				if !isEpsilon(tok) {
					continue
				}
				for j, f := range an.follows {
					if f.Contains(uint32(i)) {
						t.Errorf("follows[%d] still contains zero-width position %d", j, i)
					}
				}
			}
		})
	}
}

func TestAnalyzeContexts(t *testing.T) {
	an := analyze(parseEgrep(t, "a"), true, DefaultConfig())
	if an.sbit['\n'] != CtxNewline {
		t.Errorf("sbit[newline] = %s", an.sbit['\n'])
	}
	if an.sbit['_'] != CtxLetter || an.sbit['z'] != CtxLetter || an.sbit['7'] != CtxLetter {
		t.Error("word bytes not classified as letters")
	}
	if an.sbit['-'] != CtxNone {
		t.Errorf("sbit['-'] = %s", an.sbit['-'])
	}

	var c syntax.Charclass
	c.Set('a')
	c.Set('\n')
	if got := an.charclassContext(&c); got != CtxLetter|CtxNewline {
		t.Errorf("charclassContext = %s, want newline|letter", got)
	}

	anchored := analyze(parseEgrep(t, "a"), true, DefaultConfig().WithAnchor(true))
	if anchored.sbit['\n'] != CtxNone || !anchored.newline.IsEmpty() {
		t.Error("anchored analysis still classifies newline")
	}
}

func TestAnalyzeSupport(t *testing.T) {
	utf8 := syntax.Config{Flags: syntax.SyntaxEgrep, Locale: syntax.UTF8Locale}
	tests := []struct {
		name      string
		pattern   string
		cfg       syntax.Config
		supported bool
		multibyte bool
	}{
		{"plain", "abc", syntax.Config{Flags: syntax.SyntaxEgrep}, true, false},
		{"backref", `(a)\1`, syntax.Config{Flags: syntax.SyntaxEgrep}, false, false},
		{"unibyte word", `\<a`, syntax.Config{Flags: syntax.SyntaxEgrep}, true, false},
		{"utf8 literal", "é", utf8, true, false},
		{"utf8 dot", "a.b", utf8, true, true},
		{"utf8 word", `\<a`, utf8, false, false},
		{"utf8 inverted bracket", "[^a]", utf8, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := syntax.MustParse(tt.pattern, tt.cfg)
			an := analyze(tree, true, DefaultConfig())
			if an.supported != tt.supported {
				t.Errorf("supported = %v, want %v", an.supported, tt.supported)
			}
			if an.multibyte != tt.multibyte {
				t.Errorf("multibyte = %v, want %v", an.multibyte, tt.multibyte)
			}
		})
	}
}
