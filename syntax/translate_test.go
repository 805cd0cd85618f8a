package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		flags   Flags
		want    string
	}{
		{"bre group and backref", `\(ab\)*\1`, SyntaxGrep, `(ab)*(?:\1)`},
		{"ere group and backref", `(a|b)\1`, SyntaxEgrep, `(a|b)(?:\1)`},
		{"bre interval", `a\{2\}`, SyntaxGrep, `a{2}`},
		{"ere open interval", `a{2,}`, SyntaxEgrep, `a{2,}`},
		{"ere upper bound only", `a{,3}`, SyntaxEgrep, `a{0,3}`},
		{"bre plus literal", `a+`, SyntaxGrep, `a\+`},
		{"bre escaped plus", `a\+`, SyntaxGrep, `a+`},
		{"ere literal braces", `{`, SyntaxEgrep, `\{`},
		{"anchors", `^a$`, SyntaxGrep, `^a$`},
		{"mid caret literal", `a^b`, SyntaxGrep, `a\^b`},
		{"leading star literal", `*a`, SyntaxGrep, `\*a`},
		{"leading star operator", `*a`, SyntaxEgrep, `(?:)*a`},
		{"dot", `a.b`, SyntaxGrep, `a(?s:.)b`},
		{"dot without newline", `a.b`, SyntaxGrep &^ DotNewline, `a[^\n]b`},
		{"word anchors", `\<w\>`, SyntaxGrep, `\b(?=\w)w\b(?<=\w)`},
		{"class", `[[:digit:]x]`, SyntaxEgrep, `[0-9x]`},
		{"inverted range", `[^a-c]`, SyntaxEgrep, `[^a-c]`},
		{"newline alternation", "a\nb", SyntaxGrep, `a|b`},
		{"literal metachar", `a|b`, SyntaxGrep, `a\|b`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate([]byte(tt.pattern), Config{Flags: tt.flags})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateLocales(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		locale  Locale
		want    string
	}{
		{"latin1 high byte", "(a)\\1\xe9", Latin1Locale, "(a)(?:\\1)\u00e9"},
		{"latin1 high range", "[\xe9-\xff]", Latin1Locale, "[\u00e9-\u00ff]"},
		{"latin1 class", "[[:alpha:]]", Latin1Locale, `[\p{L}]`},
		{"c locale high byte", "\xe9", CLocale, "\u00e9"},
		{"utf8 multibyte", `(é)\1`, UTF8Locale, `(é)(?:\1)`},
		{"utf8 class", "[[:alpha:]]", UTF8Locale, `[\p{L}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate([]byte(tt.pattern), Config{Flags: SyntaxEgrep, Locale: tt.locale})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateErrors(t *testing.T) {
	_, err := Translate([]byte("[[.ab.]]"), Config{Flags: SyntaxEgrep})
	assert.ErrorIs(t, err, ErrUntranslatable)

	_, err = Translate([]byte("(a"), Config{Flags: SyntaxEgrep})
	assert.ErrorIs(t, err, ErrUnbalancedParen)

	_, err = Translate([]byte("a\xff"), Config{Flags: SyntaxEgrep, Locale: UTF8Locale})
	assert.ErrorIs(t, err, ErrUntranslatable)
}
