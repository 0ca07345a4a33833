package syntax

import (
	"svls/internal/token"
)

var descriptionEnd = map[string]string{
	"module":      "endmodule",
	"macromodule": "endmodule",
	"interface":   "endinterface",
	"program":     "endprogram",
	"package":     "endpackage",
}

var opaqueEnd = map[string]string{
	"class":      "endclass",
	"covergroup": "endgroup",
	"property":   "endproperty",
	"sequence":   "endsequence",
	"specify":    "endspecify",
	"primitive":  "endprimitive",
	"config":     "endconfig",
	"checker":    "endchecker",
}

var (
	endKeywords = set(
		"end", "endmodule", "endinterface", "endprogram", "endpackage", "endfunction",
		"endtask", "endcase", "endgenerate", "endclass", "endgroup", "endproperty",
		"endsequence", "endclocking", "endspecify", "endchecker", "endprimitive",
		"endconfig", "join", "join_any", "join_none",
	)
	itemStops = union(endKeywords, set(
		"begin", "always", "always_comb", "always_ff", "always_latch", "initial",
		"final", "module", "macromodule", "generate", "assign",
	))
	netTypes = set(
		"wire", "tri", "tri0", "tri1", "triand", "trior", "trireg", "wand", "wor",
		"supply0", "supply1", "uwire", "interconnect",
	)
	varTypes = set(
		"logic", "reg", "bit", "byte", "shortint", "int", "longint", "integer", "time",
		"real", "realtime", "shortreal", "string", "chandle", "event", "var",
		"automatic", "static", "const", "struct", "union", "enum", "signed", "unsigned",
		"input", "output", "inout", "ref",
	)
	alwaysKeywords    = set("always", "always_comb", "always_ff", "always_latch")
	assertionKeywords = set("assert", "assume", "cover", "restrict", "expect")
)

func (p *parser) sourceText() {
	first := p.cur()
	p.openNode(NodeSourceText, token.Token{Kind: token.EOF, Span: first.Span})
	for !p.at(token.EOF) {
		p.moduleItem()
	}
	// EOF keeps the trailing trivia of the buffer in the tree.
	id := p.tree.add(Node{Kind: NodeToken, Tok: p.cur(), Span: p.cur().Span})
	p.attach(id)
	p.closeNode()
}

// moduleItems parses items up to and including the end keyword that closes
// the construct opened by opener.
func (p *parser) moduleItems(opener token.Token, end string) {
	for !p.cur().Is(end) {
		if p.at(token.EOF) {
			p.failAt(opener, "missing '%s' for %s", end, describe(opener))
		}
		p.moduleItem()
	}
	p.bump()
	p.endLabel()
}

func (p *parser) moduleItem() {
	p.skipAttributes()
	t := p.cur()
	next := p.peekAt(1)
	switch {
	case t.Kind == token.Semicolon:
		p.bump()
	case in(t, assertionKeywords):
		p.assertion()
	case in(t, alwaysKeywords):
		p.procedure(NodeAlwaysConstruct)
	case t.Is("initial"):
		p.procedure(NodeInitialConstruct)
	case t.Is("final"):
		p.procedure(NodeFinalConstruct)
	case t.Is("assign"):
		p.simpleItem(NodeContinuousAssign)
	case in(t, netTypes):
		p.simpleItem(NodeNetDecl)
	case in(t, varTypes):
		p.simpleItem(NodeVarDecl)
	case t.Is("function"):
		p.subroutine(NodeFunction, "endfunction")
	case t.Is("task"):
		p.subroutine(NodeTask, "endtask")
	case t.Is("generate"):
		p.openNode(NodeGenerateRegion, t)
		p.moduleItems(p.bump(), "endgenerate")
		p.closeNode()
	case t.Is("if"):
		p.generateIf()
	case t.IsOneOf("for", "case"):
		p.generateLoopOrCase()
	case t.Is("begin"):
		p.generateBlock()
	case t.IsOneOf("virtual", "interface") && next.Is("class"):
		p.opaque("endclass")
	case t.Kind == token.Keyword && descriptionEnd[t.Text] != "":
		p.description()
	case t.Kind == token.Keyword && opaqueEnd[t.Text] != "":
		p.opaque(opaqueEnd[t.Text])
	case t.Is("clocking") || (t.IsOneOf("default", "global") && next.Is("clocking")):
		p.clocking()
	case t.Kind == token.Ident && next.Kind == token.Colon:
		p.bump()
		p.bump()
		p.moduleItem()
	case in(t, endKeywords) || t.Is("else") || t.IsClose() || t.Kind == token.EOF:
		p.failAt(t, "unexpected %s", describe(t))
	default:
		p.simpleItem(NodeItem)
	}
}

func (p *parser) simpleItem(kind NodeKind) {
	p.openNode(kind, p.cur())
	p.item(itemStops)
	p.closeNode()
}

func (p *parser) description() {
	kw := p.cur()
	p.openNode(NodeDescription, kw)
	p.bump()
	p.untilSemicolon(itemStops)
	p.moduleItems(kw, descriptionEnd[kw.Text])
	p.closeNode()
}

// opaque keeps a construct the rules do not look into as a flat token run.
func (p *parser) opaque(end string) {
	opener := p.cur()
	p.openNode(NodeOpaque, opener)
	for !p.cur().Is(end) {
		t := p.cur()
		switch {
		case t.Kind == token.EOF:
			p.failAt(opener, "missing '%s' for %s", end, describe(opener))
		case t.IsOpen():
			p.balanced(p.bump())
		case t.IsClose():
			p.failAt(t, "unexpected %s", describe(t))
		default:
			p.bump()
		}
	}
	p.bump()
	p.endLabel()
	p.closeNode()
}

// clocking handles both clocking blocks and "default clocking name;" references.
func (p *parser) clocking() {
	for i := 0; ; i++ {
		t := p.peekAt(i)
		if t.Kind == token.Semicolon || t.Kind == token.EOF {
			break
		}
		if t.Kind == token.At {
			p.opaque("endclocking")
			return
		}
	}
	p.simpleItem(NodeItem)
}

func (p *parser) procedure(kind NodeKind) {
	p.openNode(kind, p.cur())
	p.bump()
	p.statement()
	p.closeNode()
}

func (p *parser) subroutine(kind NodeKind, end string) {
	kw := p.cur()
	p.openNode(kind, kw)
	p.bump()
	p.untilSemicolon(itemStops)
	for !p.cur().Is(end) {
		if p.at(token.EOF) {
			p.failAt(kw, "missing '%s' for %s", end, describe(kw))
		}
		p.statement()
	}
	p.bump()
	p.endLabel()
	p.closeNode()
}

// generateBody is either a begin/end generate block or a single item.
func (p *parser) generateBody() {
	if p.cur().Is("begin") {
		p.generateBlock()
		return
	}
	p.moduleItem()
}

func (p *parser) generateBlock() {
	kw := p.cur()
	p.openNode(NodeGenerateBlock, kw)
	p.bump()
	p.endLabel()
	p.moduleItems(kw, "end")
	p.closeNode()
}

func (p *parser) generateIf() {
	p.openNode(NodeIf, p.cur())
	p.bump()
	p.group()
	p.generateBody()
	if p.cur().Is("else") {
		p.bump()
		p.generateBody()
	}
	p.closeNode()
}

func (p *parser) generateLoopOrCase() {
	kw := p.cur()
	if kw.Is("for") {
		p.openNode(NodeLoop, kw)
		p.bump()
		p.group()
		p.generateBody()
		p.closeNode()
		return
	}
	p.caseConstruct(p.generateBody)
}
