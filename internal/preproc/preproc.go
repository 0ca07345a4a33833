// Package preproc implements the SystemVerilog compiler-directive layer:
// macro definition and expansion, conditional compilation and file
// inclusion. It turns the token stream of one primary file into the flat
// stream the parser consumes.
package preproc

import (
	"fmt"

	"svls/internal/lexer"
	"svls/internal/source"
	"svls/internal/token"
)

const (
	maxIncludeDepth   = 64
	maxExpansionDepth = 64
	maxExpansions     = 1 << 16
)

// Define is a macro supplied by the caller before the first line is read.
// Text is lexed as the macro body when the macro is first expanded; an empty
// Text defines an empty macro.
type Define struct {
	Name string
	Text string
}

type Options struct {
	// IncludePaths are searched in order after the including file's directory.
	IncludePaths []string
	Defines      []Define
	// IgnoreInclude drops `include directives instead of resolving them.
	IgnoreInclude bool
}

// Error is a preprocessing failure located in one of the files of the set.
type Error struct {
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Msg)
}

// Macro is a `define'd macro.
type Macro struct {
	Name     string
	FuncLike bool
	Params   []Param
	Body     []token.Token

	text string // unlexed body of a Define
}

type Param struct {
	Name       string
	Default    []token.Token
	HasDefault bool
}

// input is one entry of the token source stack: a file being lexed or the
// result of a macro expansion waiting to be rescanned.
type input struct {
	lx       *lexer.Lexer
	toks     []token.Token
	pos      int
	depth    int // expansion depth, 0 for files
	condBase int // len(conds) when a file was entered
}

type cond struct {
	open    token.Token
	active  bool
	taken   bool
	sawElse bool
}

type pushed struct {
	tok   token.Token
	depth int
}

type preprocessor struct {
	files      *source.FileSet
	opts       Options
	macros     map[string]*Macro
	stack      []*input
	back       []pushed
	conds      []cond
	pending    []token.Trivia
	out        []token.Token
	lastDepth  int
	expansions int
	err        *Error
}

// Preprocess expands the file primary of files. Included files are loaded
// into files as they are found, so token spans can be resolved against it.
// The returned stream always ends with EOF unless err is non-nil.
func Preprocess(files *source.FileSet, primary source.FileID, opts Options) ([]token.Token, error) {
	p := &preprocessor{
		files:  files,
		opts:   opts,
		macros: make(map[string]*Macro, len(opts.Defines)),
	}
	p.predefine(opts.Defines)
	p.stack = append(p.stack, &input{lx: lexer.New(files.Get(primary))})
	p.run()
	if p.err != nil {
		return nil, p.err
	}
	return p.out, nil
}

func (p *preprocessor) predefine(defs []Define) {
	for _, d := range defs {
		p.macros[d.Name] = &Macro{Name: d.Name, text: d.Text}
	}
}

// lexDefine lexes the body of a caller supplied macro on its first use. A
// malformed value is reported at the usage site.
func (p *preprocessor) lexDefine(m *Macro, use token.Token) bool {
	text := m.text
	m.text = ""
	id := p.files.AddVirtual("<define "+m.Name+">", []byte(text))
	lx := lexer.New(p.files.Get(id))
	toks, _ := lx.All()
	if lerr := lx.Err(); lerr != nil {
		p.fail(use.Span, "define %s: %s", m.Name, lerr.Msg)
		return false
	}
	m.Body = toks[:len(toks)-1]
	return true
}

func (p *preprocessor) run() {
	for {
		tok := p.rawNext()
		if p.err != nil {
			return
		}
		switch {
		case tok.Kind == token.EOF:
			p.emit(tok)
			return
		case tok.Kind == token.Directive:
			p.directive(tok, p.lastDepth)
		case p.active():
			p.emit(tok)
		default:
			p.drop(tok)
		}
	}
}

// rawNext returns the next unexpanded token across the source stack. It
// returns EOF once a failure is recorded.
func (p *preprocessor) rawNext() token.Token {
	if n := len(p.back); n > 0 {
		b := p.back[n-1]
		p.back = p.back[:n-1]
		p.lastDepth = b.depth
		return b.tok
	}
	for p.err == nil {
		top := p.stack[len(p.stack)-1]
		if top.lx == nil {
			if top.pos < len(top.toks) {
				tok := top.toks[top.pos]
				top.pos++
				p.lastDepth = top.depth
				return tok
			}
			p.stack = p.stack[:len(p.stack)-1]
			continue
		}

		tok := top.lx.Next()
		if lerr := top.lx.Err(); lerr != nil {
			p.fail(lerr.Span, "%s", lerr.Msg)
			break
		}
		p.lastDepth = 0
		if tok.Kind != token.EOF {
			return tok
		}
		if len(p.conds) > top.condBase {
			p.fail(p.conds[len(p.conds)-1].open.Span, "missing `endif")
			break
		}
		if len(p.stack) == 1 {
			return tok
		}
		p.drop(tok)
		p.stack = p.stack[:len(p.stack)-1]
	}
	return token.Token{Kind: token.EOF}
}

func (p *preprocessor) unread(tok token.Token) {
	p.back = append(p.back, pushed{tok: tok, depth: p.lastDepth})
}

func (p *preprocessor) active() bool {
	return len(p.conds) == 0 || p.conds[len(p.conds)-1].active
}

// emit appends tok to the output, attaching trivia of dropped tokens.
func (p *preprocessor) emit(tok token.Token) {
	if len(p.pending) > 0 {
		lead := make([]token.Trivia, 0, len(p.pending)+len(tok.Leading))
		lead = append(lead, p.pending...)
		lead = append(lead, tok.Leading...)
		tok.Leading = lead
		p.pending = nil
	}
	p.out = append(p.out, tok)
}

// drop discards tok but keeps its leading trivia for the next emitted token.
func (p *preprocessor) drop(tok token.Token) {
	p.pending = append(p.pending, tok.Leading...)
}

func (p *preprocessor) fail(sp source.Span, format string, args ...any) {
	if p.err != nil {
		return
	}
	p.err = &Error{Span: sp, Msg: fmt.Sprintf(format, args...)}
}

func (p *preprocessor) fileDepth() int {
	n := 0
	for _, in := range p.stack {
		if in.lx != nil {
			n++
		}
	}
	return n
}
