package token

import (
	"svls/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// Is reports whether t is the keyword kw.
func (t Token) Is(kw string) bool {
	return t.Kind == Keyword && t.Text == kw
}

// IsOneOf reports whether t is any of the given keywords.
func (t Token) IsOneOf(kws ...string) bool {
	if t.Kind != Keyword {
		return false
	}
	for _, kw := range kws {
		if t.Text == kw {
			return true
		}
	}
	return false
}

// StartsLine reports whether a newline precedes t in its leading trivia.
func (t Token) StartsLine() bool {
	for _, tr := range t.Leading {
		if tr.Kind == TriviaNewline {
			return true
		}
		if tr.Kind == TriviaBlockComment && tr.HasNewline() {
			return true
		}
	}
	return false
}

// IsOpen reports whether t opens a bracketed group.
func (t Token) IsOpen() bool {
	return t.Kind == LParen || t.Kind == LBracket || t.Kind == LBrace
}

// IsClose reports whether t closes a bracketed group.
func (t Token) IsClose() bool {
	return t.Kind == RParen || t.Kind == RBracket || t.Kind == RBrace
}

// Closer returns the kind that closes the group opened by k.
func Closer(k Kind) Kind {
	switch k {
	case LParen:
		return RParen
	case LBracket:
		return RBracket
	case LBrace:
		return RBrace
	}
	return Invalid
}
