package syntax

import (
	"svls/internal/token"
)

var (
	stmtStops = union(itemStops, set(
		"else", "if", "case", "casez", "casex", "for", "foreach", "while", "repeat",
		"forever", "function", "task",
	))
	loopKeywords   = set("for", "foreach", "while", "repeat")
	caseKeywords   = set("case", "casez", "casex", "randcase")
	qualifiers     = set("unique", "unique0", "priority")
	procAssignLike = set("assign", "deassign", "force", "release", "return", "break", "continue", "disable")
	declKeywords   = union(varTypes, set("typedef", "parameter", "localparam", "let", "genvar", "type"))
)

func (p *parser) statement() {
	p.skipAttributes()
	t := p.cur()
	next := p.peekAt(1)
	switch {
	case t.Kind == token.Semicolon:
		p.openNode(NodeNullStmt, t)
		p.bump()
		p.closeNode()
	case t.Is("begin"):
		p.block("end")
	case t.Is("fork"):
		p.block("join", "join_any", "join_none")
	case in(t, qualifiers):
		p.qualified()
	case t.Is("if"):
		p.ifStatement()
	case in(t, caseKeywords):
		p.caseConstruct(p.statement)
	case in(t, loopKeywords):
		p.openNode(NodeLoop, t)
		p.bump()
		p.group()
		p.statement()
		p.closeNode()
	case t.Is("forever"):
		p.openNode(NodeLoop, t)
		p.bump()
		p.statement()
		p.closeNode()
	case t.Is("do"):
		p.openNode(NodeLoop, t)
		p.bump()
		p.statement()
		p.expectKeyword("while")
		p.group()
		p.expect(token.Semicolon)
		p.closeNode()
	case t.Kind == token.At || t.Kind == token.Hash || t.Kind == token.HashHash:
		p.timingControl()
	case t.Is("wait"):
		p.wait()
	case in(t, assertionKeywords):
		p.assertion()
	case in(t, procAssignLike):
		p.openNode(NodeExprStmt, t)
		p.bump()
		p.untilSemicolon(stmtStops)
		p.closeNode()
	case in(t, declKeywords):
		p.openNode(NodeVarDecl, t)
		p.item(stmtStops)
		p.closeNode()
	case t.Kind == token.Ident && next.Kind == token.Colon:
		p.bump()
		p.bump()
		p.statement()
	case t.Kind == token.EOF || t.IsClose() || in(t, stmtStops):
		p.failAt(t, "unexpected %s", describe(t))
	default:
		p.openNode(p.classify(), t)
		p.item(stmtStops)
		p.closeNode()
	}
}

// block parses begin/end or fork/join with optional labels on both ends.
func (p *parser) block(ends ...string) {
	kw := p.cur()
	p.openNode(NodeSeqBlock, kw)
	p.bump()
	p.endLabel()
	for !p.cur().IsOneOf(ends...) {
		if p.at(token.EOF) {
			p.failAt(kw, "missing '%s' for %s", ends[0], describe(kw))
		}
		p.statement()
	}
	p.bump()
	p.endLabel()
	p.closeNode()
}

// qualified handles unique/unique0/priority before if or case. The
// qualifier is the first leaf of the construct it modifies.
func (p *parser) qualified() {
	q := p.cur()
	next := p.peekAt(1)
	switch {
	case next.Is("if"):
		p.openNode(NodeIf, q)
		p.bump()
		p.ifRest()
		p.closeNode()
	case in(next, caseKeywords):
		p.caseConstruct(p.statement)
	default:
		p.failAt(next, "expected 'if' or 'case' after '%s'", q.Text)
	}
}

func (p *parser) ifStatement() {
	p.openNode(NodeIf, p.cur())
	p.ifRest()
	p.closeNode()
}

func (p *parser) ifRest() {
	p.expectKeyword("if")
	p.group()
	p.statement()
	if p.cur().Is("else") {
		p.bump()
		p.statement()
	}
}

// caseConstruct parses an optionally qualified case statement whose item
// bodies are parsed by body.
func (p *parser) caseConstruct(body func()) {
	id := p.openNode(NodeCase, p.cur())
	if in(p.cur(), qualifiers) {
		p.bump()
	}
	kw := p.bump()
	p.group()
	if p.cur().IsOneOf("inside", "matches") {
		p.bump()
	}
	hasDefault := false
	for !p.cur().Is("endcase") {
		t := p.cur()
		switch {
		case t.Kind == token.EOF:
			p.failAt(kw, "missing 'endcase' for %s", describe(kw))
		case t.Is("default"):
			hasDefault = true
			item := p.openNode(NodeCaseItem, t)
			p.tree.Node(item).Flags |= FlagHasDefault
			p.bump()
			if p.at(token.Colon) {
				p.bump()
			}
		default:
			p.openNode(NodeCaseItem, t)
			p.caseLabels()
		}
		body()
		p.closeNode()
	}
	p.bump()
	if hasDefault {
		p.tree.Node(id).Flags |= FlagHasDefault
	}
	p.closeNode()
}

// caseLabels consumes the item expressions up to the ':' that precedes the
// item body.
func (p *parser) caseLabels() {
	var prev token.Token
	for {
		t := p.cur()
		switch {
		case t.Kind == token.Colon:
			p.bump()
			return
		case t.Kind == token.EOF || t.Kind == token.Semicolon:
			p.failAt(t, "expected ':' in case item")
		case t.IsOpen():
			p.bump()
			p.balanced(t)
			prev = t
			continue
		case t.IsClose():
			p.failAt(t, "unexpected %s", describe(t))
		case isStop(t, prev, stmtStops):
			p.failAt(t, "expected ':' before %s", describe(t))
		}
		prev = p.bump()
	}
}

func (p *parser) timingControl() {
	t := p.cur()
	p.openNode(NodeTimingControl, t)
	p.bump()
	next := p.cur()
	switch {
	case next.Kind == token.LParen:
		p.group()
	case t.Kind == token.At && next.Kind == token.Op && next.Text == "*":
		p.bump()
	case next.Kind == token.Ident:
		p.bump()
		for p.at(token.Dot) {
			p.bump()
			p.expect(token.Ident)
		}
	case next.Kind == token.Number && t.Kind != token.At:
		p.bump()
	default:
		p.failAt(next, "expected a delay or event after %s", describe(t))
	}
	p.statement()
	p.closeNode()
}

func (p *parser) wait() {
	p.openNode(NodeTimingControl, p.cur())
	p.bump()
	if p.cur().Is("fork") {
		p.bump()
		p.expect(token.Semicolon)
		p.closeNode()
		return
	}
	p.group()
	p.statement()
	p.closeNode()
}

// assertion parses immediate, deferred and concurrent assertions with their
// optional pass and fail actions.
func (p *parser) assertion() {
	p.openNode(NodeAssertion, p.cur())
	p.bump()
	switch t := p.cur(); {
	case t.IsOneOf("property", "sequence", "final"):
		p.bump()
	case t.Kind == token.Hash:
		p.bump()
		p.expect(token.Number)
	}
	p.group()
	switch {
	case p.at(token.Semicolon):
		p.bump()
	case !p.cur().Is("else"):
		p.statement()
	}
	if p.cur().Is("else") {
		p.bump()
		p.statement()
	}
	p.closeNode()
}

// classify looks ahead over a statement to decide whether it is a blocking
// assignment, a nonblocking assignment, a declaration or a plain expression
// statement. The first assignment operator outside brackets decides.
func (p *parser) classify() NodeKind {
	depth := 0
	var prev token.Token
	for i := 0; ; i++ {
		t := p.peekAt(i)
		switch {
		case t.Kind == token.EOF:
			return NodeExprStmt
		case t.IsOpen():
			depth++
			continue
		case t.IsClose():
			depth--
			continue
		case depth > 0:
			continue
		case t.Kind == token.Semicolon:
			return NodeExprStmt
		case t.Kind == token.Assign || t.Kind == token.OpAssign:
			return NodeBlockingAssign
		case t.Kind == token.LtEq:
			return NodeNonblockingAssign
		case t.Kind == token.Ident && prev.Kind == token.Ident:
			// a user-defined type followed by a variable name
			return NodeVarDecl
		}
		prev = t
	}
}
