package syntax

import (
	"fmt"

	"svls/internal/source"
	"svls/internal/token"
)

// bailout unwinds the parser on the first error.
type bailout struct{}

type parser struct {
	files *source.FileSet
	toks  []token.Token
	pos   int
	tree  *Tree
	open  []NodeID
	err   *ParseError
}

func parseTokens(files *source.FileSet, toks []token.Token) (tree *Tree, err error) {
	p := &parser{
		files: files,
		toks:  toks,
		tree:  &Tree{Files: files, nodes: make([]Node, 0, len(toks)*2)},
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			tree, err = nil, p.err
		}
	}()
	p.sourceText()
	return p.tree, nil
}

func (p *parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) at(k token.Kind) bool {
	return p.cur().Kind == k
}

// openNode starts a node under the innermost open node.
func (p *parser) openNode(kind NodeKind, tok token.Token) NodeID {
	id := p.tree.add(Node{Kind: kind, Tok: tok, Span: tok.Span})
	p.attach(id)
	p.open = append(p.open, id)
	return id
}

func (p *parser) closeNode() {
	id := p.open[len(p.open)-1]
	p.open = p.open[:len(p.open)-1]
	n := p.tree.Node(id)
	if len(n.Children) == 0 {
		return
	}
	first := p.tree.Node(n.Children[0]).Span
	last := p.tree.Node(n.Children[len(n.Children)-1]).Span
	n.Span = first.Cover(last)
}

func (p *parser) attach(id NodeID) {
	if len(p.open) == 0 {
		p.tree.Root = id
		return
	}
	parent := p.tree.Node(p.open[len(p.open)-1])
	parent.Children = append(parent.Children, id)
}

// bump consumes the current token as a leaf of the innermost open node.
func (p *parser) bump() token.Token {
	t := p.cur()
	if t.Kind == token.EOF {
		p.failAt(t, "unexpected end of input")
	}
	id := p.tree.add(Node{Kind: NodeToken, Tok: t, Span: t.Span})
	p.attach(id)
	p.pos++
	return t
}

func (p *parser) failAt(t token.Token, format string, args ...any) {
	p.err = errorAt(p.files, t.Span, fmt.Sprintf(format, args...))
	panic(bailout{})
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of input"
	case token.Keyword, token.Ident:
		return "'" + t.Text + "'"
	}
	return fmt.Sprintf("%q", t.Text)
}

func (p *parser) expect(k token.Kind) token.Token {
	if t := p.cur(); t.Kind != k {
		p.failAt(t, "expected %s, found %s", k, describe(t))
	}
	return p.bump()
}

func (p *parser) expectKeyword(kw string) token.Token {
	if t := p.cur(); !t.Is(kw) {
		p.failAt(t, "expected '%s', found %s", kw, describe(t))
	}
	return p.bump()
}

// balanced consumes tokens after the already consumed opener up to and
// including its matching closer.
func (p *parser) balanced(opener token.Token) {
	stack := []token.Token{opener}
	for len(stack) > 0 {
		t := p.cur()
		switch {
		case t.Kind == token.EOF:
			top := stack[len(stack)-1]
			p.failAt(top, "unclosed %s", describe(top))
		case t.IsOpen():
			stack = append(stack, t)
		case t.IsClose():
			top := stack[len(stack)-1]
			if token.Closer(top.Kind) != t.Kind {
				p.failAt(t, "mismatched %s", describe(t))
			}
			stack = stack[:len(stack)-1]
		}
		p.bump()
	}
}

// group consumes a parenthesized token run.
func (p *parser) group() {
	p.balanced(p.expect(token.LParen))
}

// item consumes a ';' terminated item starting at the current token, which
// may itself be one of stops.
func (p *parser) item(stops map[string]struct{}) {
	first := p.bump()
	if first.IsOpen() {
		p.balanced(first)
	}
	p.untilSemicolon(stops)
}

// untilSemicolon consumes tokens up to and including the next ';' outside any
// brackets. Keywords in stops cannot appear in that run.
func (p *parser) untilSemicolon(stops map[string]struct{}) {
	var prev token.Token
	for {
		t := p.cur()
		switch {
		case t.Kind == token.Semicolon:
			p.bump()
			return
		case t.Kind == token.EOF:
			p.failAt(t, "expected ';'")
		case t.IsOpen():
			p.bump()
			p.balanced(t)
			prev = t
			continue
		case t.IsClose():
			p.failAt(t, "unexpected %s", describe(t))
		case isStop(t, prev, stops):
			p.failAt(t, "expected ';' before %s", describe(t))
		}
		prev = p.bump()
	}
}

func isStop(t, prev token.Token, stops map[string]struct{}) bool {
	if t.Kind != token.Keyword || prev.Kind == token.Dot || prev.Kind == token.ColonColon {
		return false
	}
	_, ok := stops[t.Text]
	return ok
}

// endLabel consumes an optional ": name" after an end keyword.
func (p *parser) endLabel() {
	if p.at(token.Colon) {
		p.bump()
		p.expect(token.Ident)
	}
}

// skipAttributes consumes (* ... *) attribute instances.
func (p *parser) skipAttributes() {
	for p.at(token.LParen) {
		next := p.peekAt(1)
		if next.Kind != token.Op || next.Text != "*" || next.Span.Start != p.cur().Span.End {
			return
		}
		p.balanced(p.bump())
	}
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func union(a, b map[string]struct{}) map[string]struct{} {
	m := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		m[k] = struct{}{}
	}
	for k := range b {
		m[k] = struct{}{}
	}
	return m
}

func in(t token.Token, words map[string]struct{}) bool {
	if t.Kind != token.Keyword {
		return false
	}
	_, ok := words[t.Text]
	return ok
}
