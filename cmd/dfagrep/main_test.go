package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGrep(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunStdin(t *testing.T) {
	const input = "foo\nbar\nfoo bar\n"
	tests := []struct {
		name  string
		input string
		args  []string
		code  int
		want  string
	}{
		{name: "match", input: input, args: []string{"foo"}, code: 0, want: "foo\nfoo bar\n"},
		{name: "invert", input: input, args: []string{"-v", "foo"}, code: 0, want: "bar\n"},
		{name: "count", input: input, args: []string{"-c", "foo"}, code: 0, want: "2\n"},
		{name: "line numbers", input: input, args: []string{"-n", "foo"}, code: 0, want: "1:foo\n3:foo bar\n"},
		{name: "invert line numbers", input: input, args: []string{"-v", "-n", "o"}, code: 0, want: "2:bar\n"},
		{name: "no match", input: input, args: []string{"baz"}, code: 1, want: ""},
		{name: "quiet", input: input, args: []string{"-q", "foo"}, code: 0, want: ""},
		{name: "case fold", input: input, args: []string{"-i", "FOO B"}, code: 0, want: "foo bar\n"},
		{name: "basic backref", input: "abab\nab\n", args: []string{"-G", `\(ab\)\1`}, code: 0, want: "abab\n"},
		{name: "extended after basic", input: "a+\naa\n", args: []string{"-G", "-E", "a+"}, code: 0, want: "a+\naa\n"},
		{name: "basic plus is literal", input: "a+\naa\n", args: []string{"-G", "a+"}, code: 0, want: "a+\n"},
		{name: "invert without final newline", input: "a\nb", args: []string{"-v", "a"}, code: 0, want: "b\n"},
		{name: "nul data", input: "a\x00b\x00", args: []string{"-z", "b"}, code: 0, want: "b\x00"},
		{name: "utf8 dot", input: "hllo\nhéllo\n", args: []string{"-locale", "UTF-8", "h.llo"}, code: 0, want: "héllo\n"},
		{name: "line anchors", input: input, args: []string{"^foo$"}, code: 0, want: "foo\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := runGrep(t, tt.input, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRunErrors(t *testing.T) {
	code, out, errOut := runGrep(t, "x\n", "(")
	assert.Equal(t, 2, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "invalid pattern")

	code, _, errOut = runGrep(t, "x\n", "-locale", "EBCDIC", "x")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "bad locale")

	code, _, _ = runGrep(t, "")
	assert.Equal(t, 2, code)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("alpha\nbeta\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("gamma\nalphabet\n"), 0o600))

	code, out, _ := runGrep(t, "", "alpha", a, b)
	assert.Equal(t, 0, code)
	assert.Equal(t, a+":alpha\n"+b+":alphabet\n", out)

	code, out, _ = runGrep(t, "", "-c", "alpha", a, b)
	assert.Equal(t, 0, code)
	assert.Equal(t, a+":1\n"+b+":1\n", out)

	code, out, _ = runGrep(t, "", "-r", "gamma", dir)
	assert.Equal(t, 0, code)
	assert.Equal(t, b+":gamma\n", out)

	missing := filepath.Join(dir, "missing.txt")
	code, out, errOut := runGrep(t, "", "alpha", a, missing)
	assert.Equal(t, 2, code)
	assert.Equal(t, a+":alpha\n", out)
	assert.Contains(t, errOut, "cannot read input")

	code, _, errOut = runGrep(t, "", "-s", "alpha", missing)
	assert.Equal(t, 2, code)
	assert.Empty(t, errOut)

	code, _, _ = runGrep(t, "", "-q", "alpha", a, missing)
	assert.Equal(t, 0, code)
}

func TestRunWarnings(t *testing.T) {
	code, out, errOut := runGrep(t, "a\n", `\a`)
	assert.Equal(t, 0, code)
	assert.Equal(t, "a\n", out)
	assert.Contains(t, errOut, "questionable pattern")

	_, _, errOut = runGrep(t, "a\n", "-s", `\a`)
	assert.Empty(t, errOut)
}
