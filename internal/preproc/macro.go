package preproc

import (
	"strings"

	"svls/internal/token"
)

// expand replaces a macro usage with its body. The expansion is pushed back
// onto the source stack so nested usages are expanded when rescanned. Every
// expanded token carries the span of the usage site.
func (p *preprocessor) expand(use token.Token, depth int) {
	name := strings.TrimPrefix(use.Text, "`")
	m, ok := p.macros[name]
	if !ok {
		p.fail(use.Span, "undefined macro `%s", name)
		return
	}
	if m.text != "" && !p.lexDefine(m, use) {
		return
	}
	if depth >= maxExpansionDepth {
		p.fail(use.Span, "macro `%s expands too deeply", name)
		return
	}
	p.expansions++
	if p.expansions > maxExpansions {
		p.fail(use.Span, "too many macro expansions")
		return
	}

	site := use.Span
	var args [][]token.Token
	if m.FuncLike {
		lp := p.rawNext()
		if lp.Kind != token.LParen {
			p.fail(use.Span, "macro `%s requires arguments", name)
			return
		}
		p.drop(lp)
		var end token.Token
		args, end = p.collectArgs(use)
		if p.err != nil {
			return
		}
		site = site.Cover(end.Span)
		if !p.bindArgs(m, use, args) {
			return
		}
		args = p.fillDefaults(m, args)
	}

	body := substitute(m, args)
	for i := range body {
		body[i].Span = site
		body[i].Leading = nil
	}
	if len(body) == 0 {
		return
	}
	p.stack = append(p.stack, &input{toks: body, depth: depth + 1})
}

// collectArgs reads the comma separated actual arguments of a macro call up
// to and including the closing parenthesis.
func (p *preprocessor) collectArgs(use token.Token) ([][]token.Token, token.Token) {
	args := [][]token.Token{}
	var cur []token.Token
	depth := 0
	for {
		t := p.rawNext()
		if t.Kind == token.EOF {
			p.fail(use.Span, "unterminated arguments of macro %s", use.Text)
			return nil, t
		}
		p.drop(t)
		switch {
		case t.IsOpen():
			depth++
		case t.IsClose() && depth == 0:
			if t.Kind != token.RParen {
				p.fail(t.Span, "unbalanced %s in arguments of macro %s", t.Text, use.Text)
				return nil, t
			}
			return append(args, cur), t
		case t.IsClose():
			depth--
		case t.Kind == token.Comma && depth == 0:
			args = append(args, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
}

func (p *preprocessor) bindArgs(m *Macro, use token.Token, args [][]token.Token) bool {
	if len(m.Params) == 0 {
		if len(args) == 1 && len(args[0]) == 0 {
			return true
		}
		p.fail(use.Span, "macro %s takes no arguments", use.Text)
		return false
	}
	if len(args) > len(m.Params) {
		p.fail(use.Span, "too many arguments to macro %s", use.Text)
		return false
	}
	for i := len(args); i < len(m.Params); i++ {
		if !m.Params[i].HasDefault {
			p.fail(use.Span, "missing argument %q of macro %s", m.Params[i].Name, use.Text)
			return false
		}
	}
	return true
}

func (p *preprocessor) fillDefaults(m *Macro, args [][]token.Token) [][]token.Token {
	out := make([][]token.Token, len(m.Params))
	for i, prm := range m.Params {
		if i < len(args) && len(args[i]) > 0 {
			out[i] = args[i]
			continue
		}
		if prm.HasDefault {
			out[i] = prm.Default
		}
	}
	return out
}

// substitute instantiates the body of m, handling `` token pasting and `"
// stringification.
func substitute(m *Macro, args [][]token.Token) []token.Token {
	params := make(map[string]int, len(m.Params))
	for i, prm := range m.Params {
		params[prm.Name] = i
	}
	actual := func(t token.Token) []token.Token {
		if i, ok := params[t.Text]; ok && t.Kind == token.Ident && i < len(args) {
			return args[i]
		}
		return []token.Token{t}
	}

	out := make([]token.Token, 0, len(m.Body))
	glue := false
	for i := 0; i < len(m.Body); i++ {
		t := m.Body[i]
		switch {
		case t.Kind == token.Op && t.Text == "``":
			glue = true
			continue
		case t.Kind == token.Op && t.Text == "`\"":
			end := i + 1
			for end < len(m.Body) && !(m.Body[end].Kind == token.Op && m.Body[end].Text == "`\"") {
				end++
			}
			out = appendGlued(out, []token.Token{stringify(m.Body[i+1:end], actual)}, glue)
			glue = false
			i = end
			continue
		}
		out = appendGlued(out, actual(t), glue)
		glue = false
	}
	return out
}

func appendGlued(out, toks []token.Token, glue bool) []token.Token {
	if glue && len(out) > 0 && len(toks) > 0 {
		last := &out[len(out)-1]
		last.Text += toks[0].Text
		last.Kind = classify(last.Text, last.Kind)
		toks = toks[1:]
	}
	return append(out, toks...)
}

func stringify(toks []token.Token, actual func(token.Token) []token.Token) token.Token {
	var b strings.Builder
	b.WriteByte('"')
	for i, t := range toks {
		for j, a := range actual(t) {
			if (i > 0 || j > 0) && len(a.Leading) > 0 {
				b.WriteByte(' ')
			}
			if a.Kind == token.Op && a.Text == "`\\`\"" {
				b.WriteString(`\"`)
				continue
			}
			b.WriteString(a.Text)
		}
	}
	b.WriteByte('"')
	return token.Token{Kind: token.String, Text: b.String()}
}

// classify picks the kind of a pasted token.
func classify(text string, fallback token.Kind) token.Kind {
	if text == "" {
		return fallback
	}
	c := text[0]
	switch {
	case c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z'):
		if token.IsKeyword(text) {
			return token.Keyword
		}
		return token.Ident
	case c >= '0' && c <= '9':
		return token.Number
	}
	return fallback
}
