// Command dfagrep prints lines matching a POSIX regular expression.
//
// Usage:
//
//	dfagrep [-E|-G] [-i] [-v] [-c] [-n] [-H] [-r] [-z] [-q] [-s] PATTERN [FILE...]
//
// With no FILE, standard input is read. The exit status is 0 if a line was
// selected, 1 if none was and 2 on error.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/coregx/grepdfa"
	"github.com/coregx/grepdfa/syntax"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

type options struct {
	basic     bool
	caseFold  bool
	invert    bool
	count     bool
	lineNum   bool
	withName  bool
	recursive bool
	nulData   bool
	quiet     bool
	silent    bool
	debug     bool
	locale    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var o options
	fset := flag.NewFlagSet("dfagrep", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.BoolFunc("E", "PATTERN is an extended regular expression (default)", func(string) error {
		o.basic = false
		return nil
	})
	fset.BoolFunc("G", "PATTERN is a basic regular expression", func(string) error {
		o.basic = true
		return nil
	})
	fset.BoolVar(&o.caseFold, "i", false, "ignore case distinctions")
	fset.BoolVar(&o.invert, "v", false, "select non-matching lines")
	fset.BoolVar(&o.count, "c", false, "print only a count of selected lines per file")
	fset.BoolVar(&o.lineNum, "n", false, "prefix each line with its line number")
	fset.BoolVar(&o.withName, "H", false, "prefix each line with the file name")
	fset.BoolVar(&o.recursive, "r", false, "read directories recursively")
	fset.BoolVar(&o.nulData, "z", false, "lines are terminated by NUL, not newline")
	fset.BoolVar(&o.quiet, "q", false, "print nothing, exit on first match")
	fset.BoolVar(&o.silent, "s", false, "suppress messages about unreadable files")
	fset.BoolVar(&o.debug, "debug", false, "log engine debug events")
	fset.StringVar(&o.locale, "locale", "C", "character set: C, UTF-8 or ISO-8859-1")
	if err := fset.Parse(args); err != nil {
		return exitError
	}
	if fset.NArg() < 1 {
		fmt.Fprintln(stderr, "usage: dfagrep [options] PATTERN [FILE...]")
		return exitError
	}

	logger := newLogger(stderr, &o)
	re, err := compile(fset.Arg(0), &o, logger)
	if err != nil {
		return exitError
	}

	g := &grepper{re: re, opts: &o, out: stdout, logger: logger, eol: '\n'}
	if o.nulData {
		g.eol = 0
	}
	paths := fset.Args()[1:]
	if len(paths) > 1 || o.recursive {
		g.opts.withName = true
	}
	if len(paths) == 0 {
		g.file("(standard input)", stdin)
	}
	for _, p := range paths {
		if g.done() {
			break
		}
		g.path(p)
	}

	switch {
	case g.matched && o.quiet:
		return exitMatch
	case g.failed:
		return exitError
	case g.matched:
		return exitMatch
	}
	return exitNoMatch
}

func newLogger(w io.Writer, o *options) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case o.debug:
		level = slog.LevelDebug
	case o.quiet || o.silent:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func compile(pattern string, o *options, logger *slog.Logger) (*grepdfa.Regexp, error) {
	opts := grepdfa.DefaultOptions()
	if o.basic {
		opts.Syntax = syntax.SyntaxGrep
	}
	locale, err := parseLocale(o.locale)
	if err != nil {
		logger.Error("bad locale", "locale", o.locale, "err", err)
		return nil, err
	}
	opts.Locale = locale
	opts.CaseFold = o.caseFold
	opts.EOLNul = o.nulData
	opts.StrayBackslashWarn = true
	opts.Logger = logger
	opts.Error = func(msg string) {
		logger.Error("invalid pattern", "pattern", pattern, "err", msg)
	}

	re, err := grepdfa.Compile([]byte(pattern), true, opts)
	var se *syntax.Error
	if err != nil && !errors.As(err, &se) {
		logger.Error("cannot compile pattern", "pattern", pattern, "err", err)
	}
	return re, err
}

func parseLocale(name string) (syntax.Locale, error) {
	switch name {
	case "C", "POSIX", "c":
		return syntax.CLocale, nil
	case "UTF-8", "utf8", "UTF8", "utf-8":
		return syntax.UTF8Locale, nil
	case "ISO-8859-1", "latin1":
		return syntax.Latin1Locale, nil
	}
	return nil, fmt.Errorf("unknown locale %q", name)
}

// grepper selects lines from inputs and writes them out.
type grepper struct {
	re     *grepdfa.Regexp
	opts   *options
	out    io.Writer
	logger *slog.Logger
	eol    byte

	matched bool
	failed  bool
}

func (g *grepper) done() bool {
	return g.opts.quiet && g.matched
}

func (g *grepper) path(p string) {
	if !g.opts.recursive {
		g.open(p)
		return
	}
	err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			g.fail(path, err)
			return nil
		}
		if g.done() {
			return fs.SkipAll
		}
		if !d.IsDir() {
			g.open(path)
		}
		return nil
	})
	if err != nil {
		g.fail(p, err)
	}
}

func (g *grepper) open(name string) {
	f, err := os.Open(name)
	if err != nil {
		g.fail(name, err)
		return
	}
	defer f.Close()
	g.file(name, f)
}

func (g *grepper) fail(name string, err error) {
	g.failed = true
	if !g.opts.silent {
		g.logger.Error("cannot read input", "file", name, "err", err)
	}
}

func (g *grepper) file(name string, r io.Reader) {
	buf, err := io.ReadAll(r)
	if err != nil {
		g.fail(name, err)
		return
	}
	n := g.selectLines(buf, func(line []byte, lineno int) {
		if g.opts.quiet || g.opts.count {
			return
		}
		g.writeLine(name, line, lineno)
	})
	if n > 0 {
		g.matched = true
	}
	if g.opts.count && !g.opts.quiet {
		if g.opts.withName {
			fmt.Fprintf(g.out, "%s:", name)
		}
		fmt.Fprintf(g.out, "%d\n", n)
	}
}

func (g *grepper) writeLine(name string, line []byte, lineno int) {
	var prefix []byte
	if g.opts.withName {
		prefix = append(prefix, name...)
		prefix = append(prefix, ':')
	}
	if g.opts.lineNum {
		prefix = strconv.AppendInt(prefix, int64(lineno), 10)
		prefix = append(prefix, ':')
	}
	g.out.Write(prefix)
	g.out.Write(line)
	g.out.Write([]byte{g.eol})
}

// selectLines calls emit for every selected line of buf, with its 1-based
// number, and returns how many there were.
func (g *grepper) selectLines(buf []byte, emit func(line []byte, lineno int)) int {
	selected := 0
	lineno := 1
	counted := 0

	// lineAt advances lineno to the line starting at pos.
	lineAt := func(pos int) {
		lineno += bytes.Count(buf[counted:pos], []byte{g.eol})
		counted = pos
	}
	// rest emits every line of buf[from:to].
	rest := func(from, to int) {
		for from < to {
			end := from + bytes.IndexByte(buf[from:to], g.eol)
			if end < from {
				end = to
			}
			lineAt(from)
			emit(buf[from:end], lineno)
			selected++
			from = end + 1
		}
	}

	for pos := 0; pos < len(buf); {
		if g.opts.quiet && selected > 0 {
			break
		}
		start, end, ok := g.re.FindLine(buf, pos)
		if !ok {
			if g.opts.invert {
				rest(pos, len(buf))
			}
			break
		}
		if g.opts.invert {
			rest(pos, start)
		} else {
			lineAt(start)
			emit(buf[start:end], lineno)
			selected++
		}
		pos = end + 1
	}
	return selected
}
