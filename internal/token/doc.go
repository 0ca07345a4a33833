// Package token defines lexical token kinds and trivia for SystemVerilog.
// Invariants:
//   - Token.Text is the exact source text covered by Token.Span.
//   - Whitespace, newlines and comments are leading Trivia and never appear
//     in the main token stream.
//   - Every IEEE 1800-2017 reserved word is lexed as Keyword; the parser
//     compares Text to tell them apart.
//   - Compiler directives (`define, `ifdef, `FOO, ...) are lexed as one
//     Directive token whose Text includes the backtick.
package token
