// Package fuzztests houses Go fuzz harnesses for the analysis pipeline
// (lexer -> preprocessor -> parser -> rules). They guard against panics and
// hangs on arbitrary editor buffers, which the server must survive.
package fuzztests
