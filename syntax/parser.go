package syntax

// DefaultMaxTokens bounds the size of a parsed pattern after interval
// unrolling.
const DefaultMaxTokens = 1 << 20

// Config controls how a pattern is parsed.
type Config struct {
	// Flags selects the syntax dialect.
	Flags Flags

	// Locale decodes and classifies characters. Nil means CLocale.
	Locale Locale

	// CaseFold makes the pattern case-insensitive.
	CaseFold bool

	// StrayBackslashWarn warns about backslashes that escape nothing.
	StrayBackslashWarn bool

	// StartOpWarn warns about *, +, ? or {...} at the start of an
	// expression.
	StartOpWarn bool

	// ConfusingBracketsError turns the [:space:] warning into an error.
	ConfusingBracketsError bool

	// Warn receives warnings about questionable but legal patterns.
	Warn func(msg string)

	// MaxTokens limits the token count. Zero means DefaultMaxTokens.
	MaxTokens int
}

// parser is a recursive-descent parser that appends tokens in postfix
// order as it recognizes them.
type parser struct {
	lex  *lexer
	tok  Token
	info *LocaleInfo
	tree *Tree

	maxTokens int
	depth     int
}

// Parse parses pattern into a postfix tree. Fatal errors are returned as
// *Error.
func Parse(pattern []byte, cfg Config) (tree *Tree, err error) {
	if cfg.Locale == nil {
		cfg.Locale = CLocale
	}
	info := NewLocaleInfo(cfg.Locale)
	p := &parser{
		info:      info,
		maxTokens: cfg.MaxTokens,
		tree: &Tree{
			Classes:  NewCharclassTable(),
			Info:     info,
			CaseFold: cfg.CaseFold,
			Flags:    cfg.Flags,
			AnyClass: -1,
		},
	}
	if p.maxTokens <= 0 {
		p.maxTokens = DefaultMaxTokens
	}
	if info.Multibyte {
		p.tree.MBProps = make([]uint8, 0, len(pattern)+8)
	}
	p.tree.Tokens = make([]Token, 0, len(pattern)+8)
	p.lex = newLexer(pattern, &cfg, info, p.tree.Classes)

	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			tree, err = nil, e
		}
	}()

	p.addTok(TokBeg)
	p.tok = p.lex.lex()
	p.regexp()
	if p.tok != TokEnd {
		p.lex.fail(ErrUnbalancedCloseParen)
	}
	p.addTok(TokCat)
	p.addTok(TokEnd)
	p.addTok(TokCat)
	p.tree.AnyClass = p.lex.anyClass
	return p.tree, nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string, cfg Config) *Tree {
	tree, err := Parse([]byte(pattern), cfg)
	if err != nil {
		panic(err)
	}
	return tree
}

func (p *parser) regexp() {
	p.branch()
	for p.tok == TokOr {
		p.tok = p.lex.lex()
		p.branch()
		p.addTok(TokOr)
	}
}

func (p *parser) branch() {
	p.closure()
	for p.tok != TokRParen && p.tok != TokOr && p.tok != TokEnd {
		p.closure()
		p.addTok(TokCat)
	}
}

func (p *parser) closure() {
	p.atom()
	for p.tok == TokQMark || p.tok == TokStar || p.tok == TokPlus || p.tok == TokRepMN {
		if p.tok != TokRepMN {
			p.addTok(p.tok)
			p.tok = p.lex.lex()
			continue
		}
		minrep, maxrep := p.lex.minrep, p.lex.maxrep
		if minrep == 0 && maxrep == 0 {
			// x{0,0} matches nothing: drop the atom and parse what follows.
			n := p.subtreeLen(len(p.tree.Tokens))
			p.truncate(len(p.tree.Tokens) - n)
			p.tok = p.lex.lex()
			p.closure()
			continue
		}
		n := p.subtreeLen(len(p.tree.Tokens))
		start := len(p.tree.Tokens) - n
		if maxrep < 0 {
			p.addTok(TokPlus)
		}
		if minrep == 0 {
			p.addTok(TokQMark)
		}
		i := 1
		for ; i < minrep; i++ {
			p.copyToks(start, n)
			p.addTok(TokCat)
		}
		for ; i < maxrep; i++ {
			p.copyToks(start, n)
			p.addTok(TokQMark)
			p.addTok(TokCat)
		}
		p.tok = p.lex.lex()
	}
}

func (p *parser) atom() {
	switch tok := p.tok; {
	case tok == TokWChar:
		wc := p.lex.wctok
		if wc == InvalidChar {
			p.addTok(TokBackref)
		} else {
			p.addWC(wc)
			if p.tree.CaseFold {
				for _, r := range p.info.Locale.FoldCounterparts(wc) {
					p.addWC(r)
					p.addTok(TokOr)
				}
			}
		}
		p.tok = p.lex.lex()

	case tok.IsByte(), tok.IsCSet(), tok.IsConstraint(),
		tok == TokBackref, tok == TokAnyChar, tok == TokMBCSet:
		p.addTok(tok)
		p.tok = p.lex.lex()

	case tok == TokLParen:
		p.tok = p.lex.lex()
		p.regexp()
		if p.tok != TokRParen {
			p.lex.fail(ErrUnbalancedParen)
		}
		p.tok = p.lex.lex()

	default:
		p.addTok(TokEmpty)
	}
}

// subtreeLen returns the number of tokens of the subtree ending just
// before end.
func (p *parser) subtreeLen(end int) int {
	switch p.tree.Tokens[end-1] {
	case TokQMark, TokStar, TokPlus:
		return 1 + p.subtreeLen(end-1)
	case TokCat, TokOr:
		n1 := p.subtreeLen(end - 1)
		return 1 + n1 + p.subtreeLen(end-1-n1)
	}
	return 1
}

func (p *parser) truncate(n int) {
	p.tree.Tokens = p.tree.Tokens[:n]
	if p.tree.MBProps != nil {
		p.tree.MBProps = p.tree.MBProps[:n]
	}
}

// copyToks appends a copy of the n tokens starting at start.
func (p *parser) copyToks(start, n int) {
	for i := 0; i < n; i++ {
		p.addTokMB(p.tree.Tokens[start+i], p.tree.MBProp(start+i))
	}
}

// addTok appends t. A multibyte bracket expression is expanded into an
// alternation of its characters and its narrow members.
func (p *parser) addTok(t Token) {
	if t != TokMBCSet || !p.info.Multibyte || p.lex.brackInvert {
		p.addTokMB(t, MBWhole)
		return
	}
	needOr := false
	for _, r := range p.lex.brackChars {
		p.addWC(r)
		if needOr {
			p.addTok(TokOr)
		}
		needOr = true
	}
	p.lex.brackChars = p.lex.brackChars[:0]
	if p.lex.brackCSet >= 0 {
		p.addTok(CSetToken(p.lex.brackCSet))
		if needOr {
			p.addTok(TokOr)
		}
	}
}

// addWC appends the byte chain encoding r, tagged with first and last
// byte properties.
func (p *parser) addWC(r rune) {
	var buf [8]byte
	enc, ok := p.info.Locale.EncodeChar(buf[:0], r)
	if !ok || len(enc) == 0 {
		enc = append(buf[:0], 0)
	}
	if len(enc) == 1 {
		p.addTokMB(Token(enc[0]), MBWhole)
		return
	}
	p.addTokMB(Token(enc[0]), MBFirst)
	for i := 1; i < len(enc); i++ {
		prop := uint8(0)
		if i == len(enc)-1 {
			prop = MBLast
		}
		p.addTokMB(Token(enc[i]), prop)
		p.addTok(TokCat)
	}
}

func (p *parser) addTokMB(t Token, prop uint8) {
	if len(p.tree.Tokens) >= p.maxTokens {
		p.lex.fail(ErrTooBig)
	}
	p.tree.Tokens = append(p.tree.Tokens, t)
	if p.tree.MBProps != nil {
		p.tree.MBProps = append(p.tree.MBProps, prop)
	}

	switch t {
	case TokQMark, TokStar, TokPlus:
	case TokCat, TokOr:
		p.depth--
	case TokEmpty:
		p.depth++
	default:
		p.tree.Leaves++
		p.depth++
	}
	if p.depth > p.tree.Depth {
		p.tree.Depth = p.depth
	}
}
