package lexer

import (
	"svls/internal/token"
)

func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == '\n':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.pushTrivia(token.TriviaNewline, start)

		case isSpace(ch):
			start := lx.cursor.Mark()
			for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)

		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			start := lx.cursor.Mark()
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaLineComment, start)

		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed := false
			for !lx.cursor.EOF() {
				if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
					lx.cursor.Bump()
					lx.cursor.Bump()
					closed = true
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaBlockComment, start)
			if !closed {
				lx.errorf(lx.cursor.SpanFrom(start), "unterminated block comment")
			}

		default:
			return
		}
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
}
