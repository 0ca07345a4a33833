package lexer

import (
	"fmt"

	"svls/internal/source"
	"svls/internal/token"
)

// Error describes the first lexical error found in a file.
type Error struct {
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Span, e.Msg)
}

type Lexer struct {
	file   *source.File
	cursor Cursor
	look   *token.Token   // one-token lookahead
	hold   []token.Trivia // leading trivia gathered for the next token
	err    *Error
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// File returns the file being scanned.
func (lx *Lexer) File() *source.File {
	return lx.file
}

// Err returns the first lexical error, or nil.
func (lx *Lexer) Err() *Error {
	return lx.err
}

// Next returns the next significant token with its Leading trivia attached.
// After EOF it keeps returning EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind:    token.EOF,
			Span:    lx.emptySpan(),
			Leading: lx.takeHold(),
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStart(ch):
		tok = lx.scanIdentOrKeyword()
	case ch == '\\':
		tok = lx.scanEscapedIdent()
	case ch == '$' && isIdentContinue(lx.cursor.PeekAt(1)):
		tok = lx.scanSystemIdent()
	case ch == '`':
		tok = lx.scanDirective()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '\'':
		tok = lx.scanApostrophe()
	case ch == '"':
		tok = lx.scanString()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.takeHold()
	return tok
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All scans the whole file. The returned slice always ends with EOF; err is the
// first lexical error, if any.
func (lx *Lexer) All() ([]token.Token, error) {
	toks := make([]token.Token, 0, len(lx.file.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	if lx.err != nil {
		return toks, lx.err
	}
	return toks, nil
}

func (lx *Lexer) takeHold() []token.Trivia {
	h := lx.hold
	lx.hold = nil
	return h
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) makeToken(kind token.Kind, m Mark) token.Token {
	sp := lx.cursor.SpanFrom(m)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) errorf(sp source.Span, format string, args ...any) {
	if lx.err != nil {
		return
	}
	lx.err = &Error{Span: sp, Msg: fmt.Sprintf(format, args...)}
}

func (lx *Lexer) invalid(m Mark, format string, args ...any) token.Token {
	tok := lx.makeToken(token.Invalid, m)
	lx.errorf(tok.Span, format, args...)
	return tok
}
