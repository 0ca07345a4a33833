package token

import (
	"strings"

	"svls/internal/source"
)

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota // spaces and tabs, never a newline
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}

// HasNewline reports whether the trivia text spans a line break.
func (tr Trivia) HasNewline() bool {
	return strings.IndexByte(tr.Text, '\n') >= 0
}
