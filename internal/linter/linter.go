// Package linter runs one analysis pass over an editor buffer and turns the
// result into protocol diagnostics.
package linter

import (
	"context"
	"errors"
	"path/filepath"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"svls/internal/config"
	"svls/internal/preproc"
	"svls/internal/source"
	"svls/internal/syntax"
)

type Linter struct {
	state *State
	log   *zap.Logger
}

func New(state *State, log *zap.Logger) *Linter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Linter{state: state, log: log}
}

func (l *Linter) State() *State {
	return l.state
}

// Analyze parses text as the unsaved primary buffer and checks it with the
// enabled rules. Only failures located in text itself are reported. The
// error is non-nil only when ctx ends while waiting for the checker.
func (l *Linter) Analyze(ctx context.Context, text string) ([]protocol.Diagnostic, error) {
	return l.AnalyzeFile(ctx, "", text)
}

// AnalyzeFile is Analyze for text saved at path. Includes are also searched
// next to path; failures located anywhere else are dropped.
func (l *Linter) AnalyzeFile(ctx context.Context, path, text string) ([]protocol.Diagnostic, error) {
	diags := []protocol.Diagnostic{}
	primary := source.NormalizePath(path)
	snap, ok := l.state.snapshot()
	if !ok {
		l.log.Debug("analysis skipped", zap.Stringer("phase", l.state.Phase()))
		return diags, nil
	}

	opts := preproc.Options{
		IncludePaths:  includePaths(snap.root, snap.cfg.Verilog.IncludePaths),
		Defines:       defines(snap.cfg.Verilog.Defines),
		IgnoreInclude: snap.ignoreInclude,
	}
	l.log.Debug("analyze",
		zap.String("path", primary),
		zap.Int("bytes", len(text)),
		zap.Strings("include_paths", opts.IncludePaths),
	)

	tree, err := syntax.ParseBuffer(primary, text, opts)
	if err != nil {
		var perr *syntax.ParseError
		if !errors.As(err, &perr) || perr.Loc == nil {
			l.log.Debug("parse failed without location", zap.Error(err))
			return diags, nil
		}
		if perr.Loc.Path != primary {
			l.log.Debug("parse failed in included file", zap.String("path", perr.Loc.Path), zap.String("msg", perr.Msg))
			return diags, nil
		}
		l.log.Debug("parse failed", zap.Int("offset", perr.Loc.Offset), zap.String("msg", perr.Msg))
		return append(diags, parseErrorDiagnostic(text, perr.Loc.Offset)), nil
	}

	if snap.checker == nil {
		return diags, nil
	}
	failed, err := l.state.check(ctx, snap.checker, tree)
	if err != nil {
		return nil, err
	}
	for _, f := range failed {
		if f.Path != primary {
			continue
		}
		diags = append(diags, violationDiagnostic(text, f))
	}
	l.log.Debug("analysis done", zap.Int("violations", len(failed)), zap.Int("diagnostics", len(diags)))
	return diags, nil
}

// includePaths resolves configured paths against the project root.
func includePaths(root string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if filepath.IsAbs(p) {
			out = append(out, p)
			continue
		}
		out = append(out, filepath.Join(root, p))
	}
	return out
}

func defines(raw []string) []preproc.Define {
	out := make([]preproc.Define, 0, len(raw))
	for _, s := range raw {
		d := config.ParseDefine(s)
		out = append(out, preproc.Define{Name: d.Name, Text: d.Value})
	}
	return out
}
