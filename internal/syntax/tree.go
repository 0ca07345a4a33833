package syntax

import (
	"svls/internal/source"
	"svls/internal/token"
)

type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeSourceText
	NodeDescription // module, interface, program, package
	NodeOpaque      // class, covergroup, property, ... kept as a token run
	NodeItem        // any other declaration or instantiation ending in ';'
	NodeNetDecl
	NodeVarDecl
	NodeContinuousAssign
	NodeAlwaysConstruct
	NodeInitialConstruct
	NodeFinalConstruct
	NodeFunction
	NodeTask
	NodeGenerateRegion
	NodeGenerateBlock
	NodeSeqBlock // begin/end and fork/join
	NodeIf
	NodeCase
	NodeCaseItem
	NodeLoop
	NodeTimingControl
	NodeAssertion
	NodeBlockingAssign
	NodeNonblockingAssign
	NodeExprStmt
	NodeNullStmt
	NodeToken
)

var nodeKindNames = [...]string{
	NodeInvalid:           "Invalid",
	NodeSourceText:        "SourceText",
	NodeDescription:       "Description",
	NodeOpaque:            "Opaque",
	NodeItem:              "Item",
	NodeNetDecl:           "NetDecl",
	NodeVarDecl:           "VarDecl",
	NodeContinuousAssign:  "ContinuousAssign",
	NodeAlwaysConstruct:   "AlwaysConstruct",
	NodeInitialConstruct:  "InitialConstruct",
	NodeFinalConstruct:    "FinalConstruct",
	NodeFunction:          "Function",
	NodeTask:              "Task",
	NodeGenerateRegion:    "GenerateRegion",
	NodeGenerateBlock:     "GenerateBlock",
	NodeSeqBlock:          "SeqBlock",
	NodeIf:                "If",
	NodeCase:              "Case",
	NodeCaseItem:          "CaseItem",
	NodeLoop:              "Loop",
	NodeTimingControl:     "TimingControl",
	NodeAssertion:         "Assertion",
	NodeBlockingAssign:    "BlockingAssign",
	NodeNonblockingAssign: "NonblockingAssign",
	NodeExprStmt:          "ExprStmt",
	NodeNullStmt:          "NullStmt",
	NodeToken:             "Token",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return "NodeKind(?)"
}

type NodeFlags uint8

const (
	// FlagHasDefault marks a case statement with a default item, or the
	// default item itself.
	FlagHasDefault NodeFlags = 1 << iota
)

// NodeID indexes Tree nodes. Zero is never a valid node.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node is one syntax tree node. Tok is the token of a NodeToken leaf, or the
// keyword that opens a construct.
type Node struct {
	Kind     NodeKind
	Tok      token.Token
	Span     source.Span
	Flags    NodeFlags
	Children []NodeID
}

type Tree struct {
	Files *source.FileSet
	Root  NodeID
	nodes []Node
}

func (t *Tree) Node(id NodeID) *Node {
	if id == NoNodeID || int(id) > len(t.nodes) {
		return nil
	}
	return &t.nodes[id-1]
}

// Len reports the number of nodes.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Path returns the path of the file sp belongs to; "" is the primary buffer.
func (t *Tree) Path(sp source.Span) string {
	return t.Files.Path(sp.File)
}

func (t *Tree) add(n Node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes)) // #nosec G115 -- bounded by token count
}

type EventKind uint8

const (
	Enter EventKind = iota
	Leave
)

func (k EventKind) String() string {
	if k == Enter {
		return "Enter"
	}
	return "Leave"
}

// Event is one step of a pre-order traversal: every node is entered before
// its children and left after them.
type Event struct {
	Kind EventKind
	Node NodeID
}

// Events returns the traversal events of the whole tree in order.
func (t *Tree) Events() []Event {
	if !t.Root.IsValid() {
		return nil
	}
	out := make([]Event, 0, 2*len(t.nodes))
	type frame struct {
		id   NodeID
		next int
	}
	stack := []frame{{id: t.Root}}
	out = append(out, Event{Kind: Enter, Node: t.Root})
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := t.Node(top.id)
		if top.next < len(n.Children) {
			child := n.Children[top.next]
			top.next++
			out = append(out, Event{Kind: Enter, Node: child})
			stack = append(stack, frame{id: child})
			continue
		}
		out = append(out, Event{Kind: Leave, Node: top.id})
		stack = stack[:len(stack)-1]
	}
	return out
}
