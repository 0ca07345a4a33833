package lint

import (
	"svls/internal/source"
	"svls/internal/syntax"
)

// nesting counts how many constructs matching match enclose the current event.
type nesting struct {
	depth int
}

func (c *nesting) track(tree *syntax.Tree, ev syntax.Event, match func(*syntax.Node) bool) {
	if !match(tree.Node(ev.Node)) {
		return
	}
	if ev.Kind == syntax.Enter {
		c.depth++
	} else if c.depth > 0 {
		c.depth--
	}
}

func (c *nesting) inside() bool { return c.depth > 0 }

func alwaysOf(kw string) func(*syntax.Node) bool {
	return func(n *syntax.Node) bool {
		return n.Kind == syntax.NodeAlwaysConstruct && n.Tok.Is(kw)
	}
}

func enters(tree *syntax.Tree, ev syntax.Event, kind syntax.NodeKind) (*syntax.Node, bool) {
	if ev.Kind != syntax.Enter {
		return nil, false
	}
	n := tree.Node(ev.Node)
	return n, n.Kind == kind
}

type blockingInAlwaysFF struct {
	ff nesting
}

func (*blockingInAlwaysFF) Name() string { return "blocking_assignment_in_always_ff" }
func (*blockingInAlwaysFF) Hint() string {
	return "Do not use blocking assignments within `always_ff`"
}
func (*blockingInAlwaysFF) Reason() string {
	return "blocking assignment in `always_ff` causes simulation/synthesis mismatch"
}
func (r *blockingInAlwaysFF) Reset() { r.ff = nesting{} }

func (r *blockingInAlwaysFF) Check(tree *syntax.Tree, ev syntax.Event) (source.Span, bool) {
	r.ff.track(tree, ev, alwaysOf("always_ff"))
	if n, ok := enters(tree, ev, syntax.NodeBlockingAssign); ok && r.ff.inside() {
		return n.Span, true
	}
	return source.Span{}, false
}

type nonBlockingInAlwaysComb struct {
	comb nesting
}

func (*nonBlockingInAlwaysComb) Name() string { return "non_blocking_assignment_in_always_comb" }
func (*nonBlockingInAlwaysComb) Hint() string {
	return "Do not use non-blocking assignments within `always_comb`"
}
func (*nonBlockingInAlwaysComb) Reason() string {
	return "non-blocking assignment in `always_comb` causes simulation/synthesis mismatch"
}
func (r *nonBlockingInAlwaysComb) Reset() { r.comb = nesting{} }

func (r *nonBlockingInAlwaysComb) Check(tree *syntax.Tree, ev syntax.Event) (source.Span, bool) {
	r.comb.track(tree, ev, alwaysOf("always_comb"))
	if n, ok := enters(tree, ev, syntax.NodeNonblockingAssign); ok && r.comb.inside() {
		return n.Span, true
	}
	return source.Span{}, false
}

type caseDefault struct {
	scope nesting
}

func (*caseDefault) Name() string { return "case_default" }
func (*caseDefault) Hint() string {
	return "Use `default` in `case` statements within `always_comb` or `function`"
}
func (*caseDefault) Reason() string { return "an incomplete `case` may infer a latch" }
func (r *caseDefault) Reset()       { r.scope = nesting{} }

func (r *caseDefault) Check(tree *syntax.Tree, ev syntax.Event) (source.Span, bool) {
	r.scope.track(tree, ev, func(n *syntax.Node) bool {
		return n.Kind == syntax.NodeFunction || (n.Kind == syntax.NodeAlwaysConstruct && n.Tok.Is("always_comb"))
	})
	n, ok := enters(tree, ev, syntax.NodeCase)
	if !ok || !r.scope.inside() || n.Flags&syntax.FlagHasDefault != 0 {
		return source.Span{}, false
	}
	return n.Tok.Span, true
}
