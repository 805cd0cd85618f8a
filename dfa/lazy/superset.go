package lazy

import "github.com/coregx/grepdfa/syntax"

// SupersetTree rewrites tree into a pattern that matches at least every
// line tree matches, using only constructs the single-byte automaton runs
// fast:
//   - "." , multibyte brackets and back-references become any-byte*,
//     absorbing a closure operator that follows them
//   - word assertions become EMPTY in multibyte locales
//
// It returns nil when the superset would not be faster than the original:
// when the rewritten pattern has no narrow leaf to filter on, when nothing
// was widened in a unibyte locale, or for a UTF-8 pattern the byte loop
// already runs directly.
func SupersetTree(tree *syntax.Tree) *syntax.Tree {
	info := tree.Info
	if info == nil {
		info = syntax.NewLocaleInfo(syntax.CLocale)
	}
	if info.UTF8 && isSupported(tree.Tokens, info.Multibyte) && !needsMultibyte(tree.Tokens, info) {
		return nil
	}

	classes := tree.Classes.Clone()
	var all syntax.Charclass
	all.Fill()
	anyByte := syntax.CSetToken(classes.Index(&all))

	toks := make([]syntax.Token, 0, len(tree.Tokens)+8)
	haveAChar, haveNChar := false, false
	for i := 0; i < len(tree.Tokens); i++ {
		tok := tree.Tokens[i]
		switch {
		case tok == syntax.TokAnyChar, tok == syntax.TokMBCSet, tok == syntax.TokBackref:
			toks = append(toks, anyByte, syntax.TokStar)
			if i+1 < len(tree.Tokens) {
				switch tree.Tokens[i+1] {
				case syntax.TokQMark, syntax.TokStar, syntax.TokPlus:
					i++
				}
			}
			haveAChar = true
		case tok.IsWordConstraint() && info.Multibyte:
			toks = append(toks, syntax.TokEmpty)
		default:
			toks = append(toks, tok)
			if tok.IsByte() || tok.IsCSet() {
				haveNChar = true
			}
		}
	}
	if !haveNChar || !(haveAChar || info.Multibyte) {
		return nil
	}

	unibyte := *info
	unibyte.Multibyte = false
	sup := &syntax.Tree{
		Tokens:   toks,
		Classes:  classes,
		Info:     &unibyte,
		CaseFold: tree.CaseFold,
		Flags:    tree.Flags,
		AnyClass: -1,
	}
	sup.Depth, sup.Leaves = treeShape(toks)
	return sup
}

// BuildSuperset compiles the superset of tree, or returns nil if tree has
// no useful superset.
func BuildSuperset(tree *syntax.Tree, search bool, config Config) (*DFA, error) {
	sup := SupersetTree(tree)
	if sup == nil {
		//nolint:nilnil // nil DFA with nil error means "no superset" (not an error)
		return nil, nil
	}
	return NewBuilder(sup, config).Build(search)
}

// treeShape returns the evaluation stack depth and the leaf count of a
// postfix token list.
func treeShape(toks []syntax.Token) (depth, leaves int) {
	d := 0
	for _, tok := range toks {
		switch tok {
		case syntax.TokQMark, syntax.TokStar, syntax.TokPlus:
		case syntax.TokCat, syntax.TokOr:
			d--
		case syntax.TokEmpty:
			d++
		default:
			leaves++
			d++
		}
		if d > depth {
			depth = d
		}
	}
	return depth, leaves
}
