// Package lint holds the rule catalog and the Engine that runs enabled rules
// over syntax tree traversal events.
package lint

import (
	"svls/internal/source"
	"svls/internal/syntax"
)

// Rule inspects one traversal event at a time. Rules may keep state across
// the events of a pass; Reset clears it before the next pass.
type Rule interface {
	Name() string
	Hint() string
	Reason() string
	Check(tree *syntax.Tree, ev syntax.Event) (source.Span, bool)
	Reset()
}

// Failed is a rule violation. Beg and Len are byte offsets into the file
// named by Path; Path is "" for the primary buffer.
type Failed struct {
	Path string
	Beg  int
	Len  int
	Name string
	Hint string
}

type Factory func() Rule

// registry is the catalog in report order.
var registry = []Factory{
	func() Rule { return &legacyAlways{} },
	func() Rule { return &tabCharacter{} },
	func() Rule { return &wireReg{} },
	func() Rule { return &blockingInAlwaysFF{} },
	func() Rule { return &nonBlockingInAlwaysComb{} },
	func() Rule { return &caseDefault{} },
	func() Rule { return &priorityKeyword{} },
	func() Rule { return &uniqueKeyword{} },
	func() Rule { return &generateKeywordForbidden{} },
}

// Catalog returns a fresh instance of every known rule.
func Catalog() []Rule {
	out := make([]Rule, 0, len(registry))
	for _, f := range registry {
		out = append(out, f())
	}
	return out
}

// RuleNames lists every known rule name in catalog order.
func RuleNames() []string {
	rules := Catalog()
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name())
	}
	return names
}
