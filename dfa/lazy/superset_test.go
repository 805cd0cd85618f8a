package lazy

import (
	"testing"

	"github.com/coregx/grepdfa/syntax"
)

func hasAnyByteStar(tree *syntax.Tree) bool {
	for i := 0; i+1 < len(tree.Tokens); i++ {
		tok := tree.Tokens[i]
		if !tok.IsCSet() || tree.Tokens[i+1] != syntax.TokStar {
			continue
		}
		if tree.Classes.Get(tok.CSetIndex()).IsFull() {
			return true
		}
	}
	return false
}

func TestSupersetTree(t *testing.T) {
	egrep := syntax.Config{Flags: syntax.SyntaxEgrep}
	utf8 := syntax.Config{Flags: syntax.SyntaxEgrep, Locale: syntax.UTF8Locale}

	tests := []struct {
		name    string
		pattern string
		cfg     syntax.Config
		want    bool
	}{
		{name: "backref", pattern: `(a)\1b`, cfg: egrep, want: true},
		{name: "plain unibyte", pattern: "abc", cfg: egrep, want: false},
		{name: "utf8 dot", pattern: "a.c", cfg: utf8, want: true},
		{name: "utf8 literal", pattern: "abc", cfg: utf8, want: false},
		{name: "utf8 word", pattern: `\<a`, cfg: utf8, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := syntax.MustParse(tt.pattern, tt.cfg)
			sup := SupersetTree(tree)
			if (sup != nil) != tt.want {
				t.Fatalf("SupersetTree(%q) = %v, want non-nil %v", tt.pattern, sup, tt.want)
			}
			if sup == nil {
				return
			}
			if sup.Info.Multibyte {
				t.Error("superset is still multibyte")
			}
			if sup.Has(syntax.TokBackref) || sup.Has(syntax.TokAnyChar) || sup.Has(syntax.TokMBCSet) {
				t.Errorf("superset %s keeps a slow token", sup)
			}
		})
	}
}

func TestSupersetWidensBackref(t *testing.T) {
	tree := syntax.MustParse(`(a)\1b`, syntax.Config{Flags: syntax.SyntaxEgrep})
	sup := SupersetTree(tree)
	if sup == nil {
		t.Fatal("no superset")
	}
	if !hasAnyByteStar(sup) {
		t.Errorf("superset %s has no any-byte closure", sup)
	}
	if !tree.Has(syntax.TokBackref) {
		t.Error("SupersetTree modified its input")
	}
}

func TestBuildSuperset(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		cfg     syntax.Config
		input   string
		want    int
	}{
		{name: "backref hit", pattern: `(a)\1b`, cfg: syntax.Config{Flags: syntax.SyntaxEgrep}, input: "aab", want: 3},
		{name: "backref over-approximates", pattern: `(a)\1b`, cfg: syntax.Config{Flags: syntax.SyntaxEgrep}, input: "axb", want: 3},
		{name: "backref miss", pattern: `(a)\1b`, cfg: syntax.Config{Flags: syntax.SyntaxEgrep}, input: "xyz", want: -1},
		{name: "utf8 dot", pattern: "a.c", cfg: syntax.Config{Flags: syntax.SyntaxEgrep, Locale: syntax.UTF8Locale}, input: "aéc", want: 4},
		{name: "utf8 word", pattern: `\<a`, cfg: syntax.Config{Flags: syntax.SyntaxEgrep, Locale: syntax.UTF8Locale}, input: "ba", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := syntax.MustParse(tt.pattern, tt.cfg)
			d, err := BuildSuperset(tree, true, DefaultConfig())
			if err != nil {
				t.Fatalf("BuildSuperset failed: %v", err)
			}
			if d == nil {
				t.Fatal("BuildSuperset returned nil")
			}
			if !d.IsFast() {
				t.Error("superset DFA is not fast")
			}
			end, _, backref := d.Exec([]byte(tt.input), false)
			if backref {
				t.Fatal("superset reported backref")
			}
			if end != tt.want {
				t.Errorf("Exec(%q) = %d, want %d", tt.input, end, tt.want)
			}
		})
	}

	d, err := BuildSuperset(syntax.MustParse("abc", syntax.Config{Flags: syntax.SyntaxEgrep}), true, DefaultConfig())
	if err != nil || d != nil {
		t.Errorf("BuildSuperset(abc) = (%v, %v), want (nil, nil)", d, err)
	}
}
