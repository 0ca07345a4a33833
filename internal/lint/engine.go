package lint

import (
	"svls/internal/syntax"
)

// Engine runs the enabled rules. It keeps per-pass rule state, so one pass
// must finish before the next starts; callers serialize access.
type Engine struct {
	settings Settings
	rules    []Rule
}

// New builds an engine with the rules enabled in s. Unknown rule names are
// ignored.
func New(s Settings) *Engine {
	e := &Engine{settings: s}
	for _, f := range registry {
		r := f()
		if s.Enabled(r.Name()) {
			e.rules = append(e.rules, r)
		}
	}
	return e
}

// Settings returns the settings the engine was built from.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Rules returns the enabled rules in catalog order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Reset clears the per-pass state of every rule.
func (e *Engine) Reset() {
	for _, r := range e.rules {
		r.Reset()
	}
}

// Check runs every enabled rule on ev and returns the violations in rule
// order.
func (e *Engine) Check(tree *syntax.Tree, ev syntax.Event) []Failed {
	var out []Failed
	for _, r := range e.rules {
		span, ok := r.Check(tree, ev)
		if !ok {
			continue
		}
		out = append(out, Failed{
			Path: tree.Path(span),
			Beg:  int(span.Start),
			Len:  int(span.Len()),
			Name: r.Name(),
			Hint: r.Hint(),
		})
	}
	return out
}
