package fuzztests

import (
	"context"
	"errors"
	"testing"
	"time"

	"svls/internal/linter"
	"svls/internal/preproc"
	"svls/internal/syntax"
)

// parseTimeout bounds a single input; exceeding it means a parser loop that
// never consumes input.
const parseTimeout = 5 * time.Second

func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("module m; initial begin end"))
	f.Add([]byte("module m; always_comb begin begin begin end end end endmodule"))
	f.Add([]byte("`define F(x) `F(x)\n`F(1)"))
	f.Add([]byte("`define A `B\n`define B `A\nmodule m; `A endmodule"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		done := make(chan struct{})
		go func() {
			defer close(done)
			tree, err := syntax.ParseText(string(input), preproc.Options{IgnoreInclude: true})
			if err != nil {
				var perr *syntax.ParseError
				if !errors.As(err, &perr) {
					t.Errorf("unexpected error type %T: %v", err, err)
				}
				return
			}
			if got := len(tree.Events()); got != 2*tree.Len() {
				t.Errorf("unbalanced events: %d for %d nodes", got, tree.Len())
			}
		}()

		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser timeout after %v on %d bytes", parseTimeout, len(input))
		}
	})
}

func FuzzAnalyzeRanges(f *testing.F) {
	addCorpusSeeds(f)
	dir := f.TempDir()
	state := linter.NewState(nil, linter.Options{WorkDir: dir})
	if _, err := state.Initialize(dir); err != nil {
		f.Fatalf("initialize: %v", err)
	}
	l := linter.New(state, nil)

	f.Fuzz(func(t *testing.T, input []byte) {
		text := string(clampInput(input))
		diags, err := l.Analyze(context.Background(), text)
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		for _, d := range diags {
			if d.Range.End.Line != d.Range.Start.Line || d.Range.End.Character < d.Range.Start.Character {
				t.Fatalf("range %+v is not a forward single-line range", d.Range)
			}
		}
	})
}
