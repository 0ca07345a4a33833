package lint

import (
	"strings"

	"svls/internal/source"
	"svls/internal/syntax"
	"svls/internal/token"
)

// leaf returns the token of ev when it enters a token leaf.
func leaf(tree *syntax.Tree, ev syntax.Event) (token.Token, bool) {
	if ev.Kind != syntax.Enter {
		return token.Token{}, false
	}
	n := tree.Node(ev.Node)
	if n.Kind != syntax.NodeToken {
		return token.Token{}, false
	}
	return n.Tok, true
}

type legacyAlways struct{}

func (*legacyAlways) Name() string { return "legacy_always" }
func (*legacyAlways) Hint() string {
	return "Use `always_comb`/`always_ff`/`always_latch` instead of `always`"
}
func (*legacyAlways) Reason() string { return "`always` can't detect blocking/non-blocking mistake" }
func (*legacyAlways) Reset()         {}

func (*legacyAlways) Check(tree *syntax.Tree, ev syntax.Event) (source.Span, bool) {
	if ev.Kind != syntax.Enter {
		return source.Span{}, false
	}
	n := tree.Node(ev.Node)
	if n.Kind == syntax.NodeAlwaysConstruct && n.Tok.Is("always") {
		return n.Tok.Span, true
	}
	return source.Span{}, false
}

type tabCharacter struct{}

func (*tabCharacter) Name() string   { return "tab_character" }
func (*tabCharacter) Hint() string   { return "Replace tab characters with spaces" }
func (*tabCharacter) Reason() string { return "tab width differs between editors" }
func (*tabCharacter) Reset()         {}

// Check reports the first tab in the whitespace that precedes a token.
func (*tabCharacter) Check(tree *syntax.Tree, ev syntax.Event) (source.Span, bool) {
	tok, ok := leaf(tree, ev)
	if !ok {
		return source.Span{}, false
	}
	for _, tr := range tok.Leading {
		if tr.Kind != token.TriviaSpace {
			continue
		}
		if i := strings.IndexByte(tr.Text, '\t'); i >= 0 {
			start := tr.Span.Start + uint32(i) // #nosec G115 -- i is within the trivia
			return source.Span{File: tr.Span.File, Start: start, End: start + 1}, true
		}
	}
	return source.Span{}, false
}

type wireReg struct{}

func (*wireReg) Name() string   { return "wire_reg" }
func (*wireReg) Hint() string   { return "Replace `wire` or `reg` with `logic`" }
func (*wireReg) Reason() string { return "`logic` can detect multi-drive" }
func (*wireReg) Reset()         {}

func (*wireReg) Check(tree *syntax.Tree, ev syntax.Event) (source.Span, bool) {
	if tok, ok := leaf(tree, ev); ok && tok.IsOneOf("wire", "reg") {
		return tok.Span, true
	}
	return source.Span{}, false
}

type priorityKeyword struct{}

func (*priorityKeyword) Name() string   { return "priority_keyword" }
func (*priorityKeyword) Hint() string   { return "Remove `priority` keyword" }
func (*priorityKeyword) Reason() string { return "`priority` is not supported by all synthesis tools" }
func (*priorityKeyword) Reset()         {}

func (*priorityKeyword) Check(tree *syntax.Tree, ev syntax.Event) (source.Span, bool) {
	if tok, ok := leaf(tree, ev); ok && tok.Is("priority") {
		return tok.Span, true
	}
	return source.Span{}, false
}

type uniqueKeyword struct{}

func (*uniqueKeyword) Name() string { return "unique_keyword" }
func (*uniqueKeyword) Hint() string { return "Remove `unique` keyword, perhaps replace with `unique0`" }
func (*uniqueKeyword) Reason() string {
	return "`unique` behaves differently in simulation and synthesis"
}
func (*uniqueKeyword) Reset() {}

func (*uniqueKeyword) Check(tree *syntax.Tree, ev syntax.Event) (source.Span, bool) {
	if tok, ok := leaf(tree, ev); ok && tok.Is("unique") {
		return tok.Span, true
	}
	return source.Span{}, false
}

type generateKeywordForbidden struct{}

func (*generateKeywordForbidden) Name() string { return "generate_keyword_forbidden" }
func (*generateKeywordForbidden) Hint() string {
	return "Remove `generate`/`endgenerate` keywords"
}
func (*generateKeywordForbidden) Reason() string {
	return "`generate`/`endgenerate` keywords are optional"
}
func (*generateKeywordForbidden) Reset() {}

// Check reports `generate` on entering a region and `endgenerate` on leaving it.
func (*generateKeywordForbidden) Check(tree *syntax.Tree, ev syntax.Event) (source.Span, bool) {
	n := tree.Node(ev.Node)
	if n.Kind != syntax.NodeGenerateRegion {
		return source.Span{}, false
	}
	if ev.Kind == syntax.Enter {
		return n.Tok.Span, true
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if c := tree.Node(n.Children[i]); c.Kind == syntax.NodeToken && c.Tok.Is("endgenerate") {
			return c.Tok.Span, true
		}
	}
	return source.Span{}, false
}
