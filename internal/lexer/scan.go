package lexer

import (
	"svls/internal/token"
)

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.makeToken(token.Ident, start)
	if token.IsKeyword(tok.Text) {
		tok.Kind = token.Keyword
	}
	return tok
}

// scanEscapedIdent handles \name up to the next whitespace. A backslash that is
// followed by whitespace or EOF is a line continuation marker.
func (lx *Lexer) scanEscapedIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	next := lx.cursor.Peek()
	if lx.cursor.EOF() || next == '\n' || isSpace(next) {
		return lx.makeToken(token.Backslash, start)
	}
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' || isSpace(b) {
			break
		}
		lx.cursor.Bump()
	}
	return lx.makeToken(token.Ident, start)
}

func (lx *Lexer) scanSystemIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.makeToken(token.SystemIdent, start)
}

// scanDirective handles `name as well as the macro-body operators ``, `" and `\`".
func (lx *Lexer) scanDirective() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	switch b := lx.cursor.Peek(); {
	case isIdentStart(b):
		for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.makeToken(token.Directive, start)
	case b == '`' || b == '"':
		lx.cursor.Bump()
		return lx.makeToken(token.Op, start)
	case b == '\\' && lx.cursor.PeekAt(1) == '`' && lx.cursor.PeekAt(2) == '"':
		lx.cursor.Bump()
		lx.cursor.Bump()
		lx.cursor.Bump()
		return lx.makeToken(token.Op, start)
	}
	return lx.invalid(start, "stray '`'")
}

// scanNumber handles decimal and real literals, sized based literals such as
// 8'hFF, and time literals such as 10ns.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lx.eatDecimalDigits()

	isReal := false
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		isReal = true
		lx.cursor.Bump()
		lx.eatDecimalDigits()
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		n := uint32(1)
		if s := lx.cursor.PeekAt(1); s == '+' || s == '-' {
			n = 2
		}
		if isDec(lx.cursor.PeekAt(n)) {
			isReal = true
			for range n {
				lx.cursor.Bump()
			}
			lx.eatDecimalDigits()
		}
	}

	if !isReal && lx.cursor.Peek() == '\'' && lx.atBase(1) {
		lx.cursor.Bump()
		lx.scanBasedValue()
		return lx.makeToken(token.Number, start)
	}

	lx.eatTimeUnit()
	return lx.makeToken(token.Number, start)
}

// scanApostrophe handles unsized based literals ('hFF), unbased unsized
// literals ('0, '1, 'x, 'z) and the bare apostrophe used by casts and
// assignment patterns.
func (lx *Lexer) scanApostrophe() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	if lx.atBase(0) {
		lx.scanBasedValue()
		return lx.makeToken(token.Number, start)
	}
	if b := lx.cursor.Peek(); isUnbasedUnsized(b) && !isIdentContinue(lx.cursor.PeekAt(1)) {
		lx.cursor.Bump()
		return lx.makeToken(token.Number, start)
	}
	return lx.makeToken(token.Apostrophe, start)
}

// atBase reports whether an optional s/S and a base character start at n.
func (lx *Lexer) atBase(n uint32) bool {
	b := lx.cursor.PeekAt(n)
	if b == 's' || b == 'S' {
		n++
		b = lx.cursor.PeekAt(n)
	}
	return isBaseChar(b)
}

func (lx *Lexer) scanBasedValue() {
	if b := lx.cursor.Peek(); b == 's' || b == 'S' {
		lx.cursor.Bump()
	}
	lx.cursor.Bump() // base
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	for !lx.cursor.EOF() && isBasedDigit(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) eatDecimalDigits() {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if !isDec(b) && b != '_' {
			return
		}
		lx.cursor.Bump()
	}
}

func (lx *Lexer) eatTimeUnit() {
	for _, unit := range timeUnits {
		n := uint32(len(unit)) // #nosec G115 -- short constant
		if lx.cursor.Off+n > lx.cursor.Limit {
			continue
		}
		if string(lx.file.Content[lx.cursor.Off:lx.cursor.Off+n]) != unit {
			continue
		}
		if isIdentContinue(lx.cursor.PeekAt(n)) {
			continue
		}
		lx.cursor.Off += n
		return
	}
}

func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		switch lx.cursor.Bump() {
		case '"':
			return lx.makeToken(token.String, start)
		case '\\':
			lx.cursor.Bump()
		case '\n':
			lx.cursor.Off--
			return lx.invalid(start, "unterminated string literal")
		}
	}
	return lx.invalid(start, "unterminated string literal")
}

type opEntry struct {
	text string
	kind token.Kind
}

// ops is ordered longest first so the scan is greedy.
var ops = []opEntry{
	{"<<<=", token.OpAssign}, {">>>=", token.OpAssign},
	{"<<=", token.OpAssign}, {">>=", token.OpAssign},
	{"===", token.Op}, {"!==", token.Op}, {"==?", token.Op}, {"!=?", token.Op},
	{"<<<", token.Op}, {">>>", token.Op}, {"|->", token.Op}, {"|=>", token.Op},
	{"<->", token.Op}, {"->>", token.Op},
	{"+=", token.OpAssign}, {"-=", token.OpAssign}, {"*=", token.OpAssign},
	{"/=", token.OpAssign}, {"%=", token.OpAssign}, {"&=", token.OpAssign},
	{"|=", token.OpAssign}, {"^=", token.OpAssign},
	{"++", token.Inc}, {"--", token.Dec},
	{"<=", token.LtEq}, {"::", token.ColonColon}, {"##", token.HashHash},
	{"==", token.Op}, {"!=", token.Op}, {">=", token.Op}, {"&&", token.Op},
	{"||", token.Op}, {"**", token.Op}, {"<<", token.Op}, {">>", token.Op},
	{"->", token.Op}, {"~&", token.Op}, {"~|", token.Op}, {"~^", token.Op},
	{"^~", token.Op}, {"+:", token.Op}, {"-:", token.Op}, {":=", token.Op},
	{".*", token.Op},
	{"(", token.LParen}, {")", token.RParen}, {"[", token.LBracket}, {"]", token.RBracket},
	{"{", token.LBrace}, {"}", token.RBrace}, {";", token.Semicolon}, {",", token.Comma},
	{".", token.Dot}, {":", token.Colon}, {"=", token.Assign}, {"#", token.Hash},
	{"@", token.At}, {"?", token.Question},
	{"+", token.Op}, {"-", token.Op}, {"*", token.Op}, {"/", token.Op}, {"%", token.Op},
	{"&", token.Op}, {"|", token.Op}, {"^", token.Op}, {"~", token.Op}, {"!", token.Op},
	{"<", token.Op}, {">", token.Op}, {"$", token.Op},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	rest := lx.file.Content[lx.cursor.Off:lx.cursor.Limit]
	for _, op := range ops {
		if len(rest) >= len(op.text) && string(rest[:len(op.text)]) == op.text {
			lx.cursor.Off += uint32(len(op.text)) // #nosec G115 -- short constant
			return lx.makeToken(op.kind, start)
		}
	}
	b := lx.cursor.Bump()
	return lx.invalid(start, "unexpected character %q", rune(b))
}
