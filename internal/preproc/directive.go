package preproc

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"svls/internal/lexer"
	"svls/internal/token"
)

// skipped directives are accepted and ignored together with the rest of
// their line.
var skipped = map[string]struct{}{
	"timescale": {}, "default_nettype": {}, "resetall": {}, "celldefine": {},
	"endcelldefine": {}, "pragma": {}, "line": {}, "unconnected_drive": {},
	"nounconnected_drive": {}, "begin_keywords": {}, "end_keywords": {},
	"uselib": {}, "protect": {}, "endprotect": {}, "protected": {}, "endprotected": {},
	"default_decay_time": {}, "default_trireg_strength": {}, "delay_mode_distributed": {},
	"delay_mode_path": {}, "delay_mode_unit": {}, "delay_mode_zero": {},
}

func (p *preprocessor) directive(tok token.Token, depth int) {
	name := strings.TrimPrefix(tok.Text, "`")
	switch name {
	case "ifdef", "ifndef":
		p.drop(tok)
		p.ifdef(tok, name == "ifndef")
		return
	case "elsif":
		p.drop(tok)
		p.elsif(tok)
		return
	case "else":
		p.drop(tok)
		p.elseBranch(tok)
		return
	case "endif":
		p.drop(tok)
		if len(p.conds) == 0 {
			p.fail(tok.Span, "`endif without `ifdef")
			return
		}
		p.conds = p.conds[:len(p.conds)-1]
		return
	}

	p.drop(tok)
	if !p.active() {
		return
	}

	switch name {
	case "define":
		p.define(tok)
	case "undef":
		if n, ok := p.macroName(tok); ok {
			delete(p.macros, n)
		}
	case "undefineall":
		clear(p.macros)
	case "include":
		p.include(tok)
	case "__FILE__":
		path := p.files.Path(tok.Span.File)
		p.emit(token.Token{Kind: token.String, Span: tok.Span, Text: strconv.Quote(path)})
	case "__LINE__":
		start, _ := p.files.Resolve(tok.Span)
		p.emit(token.Token{Kind: token.Number, Span: tok.Span, Text: strconv.FormatUint(uint64(start.Line), 10)})
	default:
		if _, ok := skipped[name]; ok {
			p.skipLine()
			return
		}
		p.expand(tok, depth)
	}
}

// macroName reads the identifier that follows a directive on the same line.
func (p *preprocessor) macroName(dir token.Token) (string, bool) {
	t := p.rawNext()
	if (t.Kind != token.Ident && t.Kind != token.Keyword) || t.StartsLine() {
		p.fail(dir.Span, "expected a macro name after %s", dir.Text)
		return "", false
	}
	p.drop(t)
	return t.Text, true
}

func (p *preprocessor) skipLine() {
	for {
		t := p.rawNext()
		if t.Kind == token.EOF || t.StartsLine() {
			p.unread(t)
			return
		}
		p.drop(t)
	}
}

func (p *preprocessor) ifdef(tok token.Token, negate bool) {
	parent := p.active()
	name, ok := p.macroName(tok)
	if !ok {
		return
	}
	_, defined := p.macros[name]
	on := parent && defined != negate
	p.conds = append(p.conds, cond{open: tok, active: on, taken: on || !parent})
}

func (p *preprocessor) elsif(tok token.Token) {
	if len(p.conds) == 0 {
		p.fail(tok.Span, "`elsif without `ifdef")
		return
	}
	top := &p.conds[len(p.conds)-1]
	if top.sawElse {
		p.fail(tok.Span, "`elsif after `else")
		return
	}
	name, ok := p.macroName(tok)
	if !ok {
		return
	}
	_, defined := p.macros[name]
	top.active = !top.taken && defined
	top.taken = top.taken || top.active
}

func (p *preprocessor) elseBranch(tok token.Token) {
	if len(p.conds) == 0 {
		p.fail(tok.Span, "`else without `ifdef")
		return
	}
	top := &p.conds[len(p.conds)-1]
	if top.sawElse {
		p.fail(tok.Span, "duplicate `else")
		return
	}
	top.sawElse = true
	top.active = !top.taken
	top.taken = true
}

func (p *preprocessor) define(dir token.Token) {
	nameTok := p.rawNext()
	if (nameTok.Kind != token.Ident && nameTok.Kind != token.Keyword) || nameTok.StartsLine() {
		p.fail(dir.Span, "expected a macro name after `define")
		return
	}
	p.drop(nameTok)
	m := &Macro{Name: nameTok.Text}

	la := p.rawNext()
	if la.Kind == token.LParen && len(la.Leading) == 0 && la.Span.Start == nameTok.Span.End {
		p.drop(la)
		m.FuncLike = true
		if !p.params(m, dir) {
			return
		}
	} else {
		p.unread(la)
	}

	cont := false
	for {
		t := p.rawNext()
		if t.Kind == token.EOF || (t.StartsLine() && !cont) {
			p.unread(t)
			break
		}
		p.drop(t)
		if t.Kind == token.Backslash {
			cont = true
			continue
		}
		cont = false
		m.Body = append(m.Body, t)
	}
	p.macros[m.Name] = m
}

func (p *preprocessor) params(m *Macro, dir token.Token) bool {
	t := p.rawNext()
	if t.Kind == token.RParen {
		p.drop(t)
		return true
	}
	for {
		if t.Kind != token.Ident {
			p.fail(dir.Span, "expected a parameter name in `define %s", m.Name)
			return false
		}
		p.drop(t)
		prm := Param{Name: t.Text}
		t = p.rawNext()
		if t.Kind == token.Assign {
			p.drop(t)
			prm.HasDefault = true
			prm.Default, t = p.collectUntilSeparator()
		}
		m.Params = append(m.Params, prm)
		p.drop(t)
		switch t.Kind {
		case token.Comma:
			t = p.rawNext()
		case token.RParen:
			return true
		default:
			p.fail(dir.Span, "unterminated parameter list in `define %s", m.Name)
			return false
		}
	}
}

// collectUntilSeparator gathers tokens up to a top-level comma or closing
// parenthesis and returns that separator.
func (p *preprocessor) collectUntilSeparator() ([]token.Token, token.Token) {
	var toks []token.Token
	depth := 0
	for {
		t := p.rawNext()
		switch {
		case t.Kind == token.EOF:
			return toks, t
		case t.IsOpen():
			depth++
		case t.IsClose():
			if depth == 0 {
				return toks, t
			}
			depth--
		case t.Kind == token.Comma && depth == 0:
			return toks, t
		}
		p.drop(t)
		toks = append(toks, t)
	}
}

func (p *preprocessor) include(dir token.Token) {
	t := p.rawNext()
	var name string
	switch {
	case t.Kind == token.String && !t.StartsLine():
		p.drop(t)
		name = t.Text[1 : len(t.Text)-1]
	case t.Kind == token.Op && t.Text == "<" && !t.StartsLine():
		p.drop(t)
		var b strings.Builder
		for {
			t = p.rawNext()
			if t.Kind == token.EOF || t.StartsLine() {
				p.fail(dir.Span, "unterminated `include <...>")
				return
			}
			p.drop(t)
			if t.Kind == token.Op && t.Text == ">" {
				break
			}
			b.WriteString(t.Text)
		}
		name = b.String()
	default:
		p.fail(dir.Span, "expected a file name after `include")
		return
	}

	if p.opts.IgnoreInclude {
		return
	}
	if p.fileDepth() > maxIncludeDepth {
		p.fail(dir.Span, "`include nesting deeper than %d", maxIncludeDepth)
		return
	}
	path, ok := p.resolveInclude(name, p.files.Path(dir.Span.File))
	if !ok {
		p.fail(dir.Span, "cannot find include file %q", name)
		return
	}
	id, ok := p.files.GetLatest(path)
	if !ok {
		var err error
		if id, err = p.files.Load(path); err != nil {
			p.fail(dir.Span, "cannot read include file %q: %v", name, err)
			return
		}
	}
	p.stack = append(p.stack, &input{lx: lexer.New(p.files.Get(id)), condBase: len(p.conds)})
}

// resolveInclude looks next to the including file first, then in each
// include path in order.
func (p *preprocessor) resolveInclude(name, from string) (string, bool) {
	if filepath.IsAbs(name) {
		return name, isFile(name)
	}
	candidates := make([]string, 0, len(p.opts.IncludePaths)+1)
	if from != "" && !strings.HasPrefix(from, "<") {
		candidates = append(candidates, filepath.Join(filepath.Dir(from), name))
	}
	for _, dir := range p.opts.IncludePaths {
		candidates = append(candidates, filepath.Join(dir, name))
	}
	for _, c := range candidates {
		if isFile(c) {
			return c, true
		}
	}
	return "", false
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
