package linter_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"

	"svls/internal/config"
	"svls/internal/lint"
	"svls/internal/linter"
	"svls/internal/syntax"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// newLinter initializes a linter whose configuration search starts in dir.
func newLinter(t *testing.T, dir string, opts linter.Options) (*linter.Linter, []string) {
	t.Helper()
	opts.WorkDir = dir
	state := linter.NewState(nil, opts)
	warnings, err := state.Initialize(dir)
	require.NoError(t, err)
	return linter.New(state, nil), warnings
}

func rulesOnly(t *testing.T, dir string, rules ...string) {
	t.Helper()
	content := "[rules]\n"
	for _, r := range rules {
		content += r + " = true\n"
	}
	write(t, filepath.Join(dir, config.RuleFileName), content)
}

func TestRuleViolationDiagnostic(t *testing.T) {
	dir := t.TempDir()
	rulesOnly(t, dir, "wire_reg")
	l, warnings := newLinter(t, dir, linter.Options{})
	assert.Empty(t, warnings)

	diags, err := l.Analyze(context.Background(), "module m;\n\n    wire a;\nendmodule\n")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 4},
		End:   protocol.Position{Line: 2, Character: 8},
	}, d.Range)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, d.Severity)
	assert.Equal(t, "wire_reg", d.Code)
	assert.Equal(t, linter.Source, d.Source)
	assert.Equal(t, "Replace `wire` or `reg` with `logic`", d.Message)
}

func TestParseErrorDiagnostic(t *testing.T) {
	l, _ := newLinter(t, t.TempDir(), linter.Options{})

	diags, err := l.Analyze(context.Background(), "module foo(")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, protocol.DiagnosticSeverityError, d.Severity)
	assert.Equal(t, "parse error", d.Message)
	assert.Nil(t, d.Code)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 10},
		End:   protocol.Position{Line: 0, Character: 11},
	}, d.Range)
}

func TestParseErrorRangeEndsAtLineBreak(t *testing.T) {
	l, _ := newLinter(t, t.TempDir(), linter.Options{})

	text := "module m;\n  initial x = 1\nendmodule\n"
	diags, err := l.Analyze(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 0},
		End:   protocol.Position{Line: 2, Character: 9},
	}, diags[0].Range)
}

func TestEmptyTextHasNoDiagnostics(t *testing.T) {
	l, _ := newLinter(t, t.TempDir(), linter.Options{})
	diags, err := l.Analyze(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, diags)
	assert.Empty(t, diags)
}

func TestNoSettingsAnywhere(t *testing.T) {
	l, warnings := newLinter(t, t.TempDir(), linter.Options{})
	assert.Equal(t, []string{".svlint.toml is not found. Enable all lint rules."}, warnings)
	assert.Equal(t, config.Default(), l.State().Config())

	diags, err := l.Analyze(context.Background(), "module m; always @* a = b; endmodule")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "legacy_always", diags[0].Code)
}

func TestBrokenConfigFallsBack(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, config.FileName), "[verilog\n")
	write(t, filepath.Join(dir, config.RuleFileName), "[rules\n")
	_, warnings := newLinter(t, dir, linter.Options{})
	require.Len(t, warnings, 2)
	assert.Equal(t, "Failed to parse "+filepath.Join(dir, config.FileName)+". Use the default configuration.", warnings[0])
	assert.Equal(t, "Failed to parse "+filepath.Join(dir, config.RuleFileName)+". Enable all lint rules.", warnings[1])
}

func TestLinterDisabledStillReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, config.FileName), "[option]\nlinter = false\n")
	l, warnings := newLinter(t, dir, linter.Options{})
	assert.Empty(t, warnings, ".svlint.toml is not consulted when the linter is off")

	diags, err := l.Analyze(context.Background(), "module m; wire a; endmodule")
	require.NoError(t, err)
	assert.Empty(t, diags)

	diags, err = l.Analyze(context.Background(), "module m; wire a endmodule")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, diags[0].Severity)
}

func TestDefinesAndIncludePaths(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, config.FileName), `
[verilog]
include_paths = ["inc"]
defines = ["WIDTH=8", "DEBUG"]
`)
	rulesOnly(t, dir, "wire_reg")
	write(t, filepath.Join(dir, "inc", "defs.svh"), "wire in_header;\n")
	l, _ := newLinter(t, dir, linter.Options{})

	text := "`include \"defs.svh\"\nmodule m;\n`ifdef DEBUG\nwire [`WIDTH-1:0] dbg;\n`endif\nendmodule\n"
	diags, err := l.Analyze(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, diags, 1, "the header violation must not be reported")
	assert.Equal(t, uint32(3), diags[0].Range.Start.Line)
}

func TestOrdinaryRTL(t *testing.T) {
	dir := t.TempDir()
	rulesOnly(t, dir, "wire_reg", "blocking_assignment_in_always_ff")
	l, _ := newLinter(t, dir, linter.Options{})

	text := `module counter (
    input  logic       clk,
    input  logic       rst_n,
    output logic [7:0] count
);
  logic [7:0] next;
  wire        en;
  assign en = 1'b1;
  assign next = count + 8'd1;
  adder #(.W(8)) u_add (.a(count), .b(next), .y());
  always_ff @(posedge clk or negedge rst_n) begin
    if (!rst_n) count <= '0;
    else if (en) count = next;
  end
endmodule
`
	diags, err := l.Analyze(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, diags, 2)

	assert.Equal(t, "wire_reg", diags[0].Code)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 6, Character: 2},
		End:   protocol.Position{Line: 6, Character: 6},
	}, diags[0].Range)

	assert.Equal(t, "blocking_assignment_in_always_ff", diags[1].Code)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 12, Character: 17},
		End:   protocol.Position{Line: 12, Character: 30},
	}, diags[1].Range)
}

func TestMalformedDefine(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, config.FileName), "[verilog]\ndefines = [\"X=/*\", 'MSG=\"oops']\n")
	rulesOnly(t, dir, "wire_reg")
	l, _ := newLinter(t, dir, linter.Options{})

	diags, err := l.Analyze(context.Background(), "module m; wire a; endmodule")
	require.NoError(t, err)
	require.Len(t, diags, 1, "an unused define must not hide diagnostics")
	assert.Equal(t, "wire_reg", diags[0].Code)

	text := "module m;\n  initial $display(`MSG);\nendmodule\n"
	diags, err = l.Analyze(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, diags[0].Severity)
	assert.Equal(t, protocol.Position{Line: 1, Character: 19}, diags[0].Range.Start)
}

func TestEmptyAndValuelessDefines(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, config.FileName), "[verilog]\ndefines = [\"EMPTY=\", \"BARE\"]\n")
	rulesOnly(t, dir, "wire_reg")
	l, _ := newLinter(t, dir, linter.Options{})

	text := "module m;\n`ifdef EMPTY\n`ifdef BARE\nwire `EMPTY a `BARE;\n`endif\n`endif\nendmodule\n"
	diags, err := l.Analyze(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, uint32(3), diags[0].Range.Start.Line)
}

func TestAnalyzeFileFindsIncludeNextToFile(t *testing.T) {
	dir := t.TempDir()
	rulesOnly(t, dir, "wire_reg")
	write(t, filepath.Join(dir, "rtl", "local.svh"), "wire in_header;\n")
	l, _ := newLinter(t, dir, linter.Options{})
	path := filepath.Join(dir, "rtl", "top.sv")
	text := "`include \"local.svh\"\nmodule m;\nreg r;\nendmodule\n"

	diags, err := l.Analyze(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, diags, 1, "an unsaved buffer only searches the include paths")
	assert.Equal(t, protocol.DiagnosticSeverityError, diags[0].Severity)

	diags, err = l.AnalyzeFile(context.Background(), path, text)
	require.NoError(t, err)
	require.Len(t, diags, 1, "the header violation must not be reported")
	assert.Equal(t, "wire_reg", diags[0].Code)
	assert.Equal(t, uint32(2), diags[0].Range.Start.Line)
}

func TestParseErrorInIncludedFileIsDropped(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, config.FileName), "[verilog]\ninclude_paths = [\"inc\"]\n")
	write(t, filepath.Join(dir, "inc", "bad.svh"), "module broken(\n")
	l, _ := newLinter(t, dir, linter.Options{})

	diags, err := l.Analyze(context.Background(), "`include \"bad.svh\"\n")
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestLifecycle(t *testing.T) {
	dir := t.TempDir()
	state := linter.NewState(nil, linter.Options{WorkDir: dir})
	l := linter.New(state, nil)
	text := "module m; wire a; endmodule"

	assert.Equal(t, linter.Uninitialized, state.Phase())
	diags, err := l.Analyze(context.Background(), text)
	require.NoError(t, err)
	assert.Empty(t, diags)

	_, err = state.Initialize(dir)
	require.NoError(t, err)
	assert.Equal(t, linter.Initialized, state.Phase())
	_, err = state.Initialize(dir)
	assert.ErrorIs(t, err, linter.ErrAlreadyInitialized)

	diags, err = l.Analyze(context.Background(), text)
	require.NoError(t, err)
	assert.NotEmpty(t, diags)

	state.Shutdown()
	assert.Equal(t, linter.ShuttingDown, state.Phase())
	diags, err = l.Analyze(context.Background(), text)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

// exclusiveChecker fails the test if two passes ever overlap.
type exclusiveChecker struct {
	t      *testing.T
	active atomic.Int32
	passes atomic.Int32
}

func (c *exclusiveChecker) Reset() {
	c.enter()
	defer c.leave()
	c.passes.Add(1)
}

func (c *exclusiveChecker) Check(*syntax.Tree, syntax.Event) []lint.Failed {
	c.enter()
	defer c.leave()
	time.Sleep(10 * time.Microsecond)
	return nil
}

func (c *exclusiveChecker) enter() {
	if n := c.active.Add(1); n != 1 {
		c.t.Errorf("checker entered by %d passes at once", n)
	}
}

func (c *exclusiveChecker) leave() {
	c.active.Add(-1)
}

func TestConcurrentPassesDoNotInterleave(t *testing.T) {
	checker := &exclusiveChecker{t: t}
	l, _ := newLinter(t, t.TempDir(), linter.Options{
		NewChecker: func(lint.Settings) linter.Checker { return checker },
	})

	text := "module m;\n" +
		"always_comb begin a = b; c = d; e = f; end\n" +
		"always_ff @(posedge clk) begin q <= d; r <= s; end\n" +
		"endmodule\n"
	const passes = 8
	var wg sync.WaitGroup
	for range passes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Analyze(context.Background(), text)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(passes), checker.passes.Load())
}

// blockingChecker holds the checker until released.
type blockingChecker struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (c *blockingChecker) Reset() {
	c.once.Do(func() {
		close(c.entered)
		<-c.release
	})
}

func (c *blockingChecker) Check(*syntax.Tree, syntax.Event) []lint.Failed { return nil }

func TestAnalyzeHonorsContextWhileWaiting(t *testing.T) {
	checker := &blockingChecker{entered: make(chan struct{}), release: make(chan struct{})}
	l, _ := newLinter(t, t.TempDir(), linter.Options{
		NewChecker: func(lint.Settings) linter.Checker { return checker },
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = l.Analyze(context.Background(), "module m; endmodule")
	}()
	<-checker.entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Analyze(ctx, "module m; endmodule")
	require.ErrorIs(t, err, context.Canceled)

	close(checker.release)
	<-done
}
