package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

var languageSeeds = []string{
	"",
	"module m; endmodule",
	"module foo(",
	"module m;\n\twire a;\nendmodule\n",
	"module m; always @* a = b; endmodule",
	"module m; always_ff @(posedge clk) q = d; endmodule",
	"module m; always_comb begin y <= a; end endmodule",
	"module m; always_comb case (s) 0: y = a; endcase endmodule",
	"module m; always_comb unique case (s) 0: y = a; default: y = b; endcase endmodule",
	"module m; generate for (genvar i = 0; i < 4; i++) begin : g end endgenerate endmodule",
	"`define W 8\nmodule m; logic [`W-1:0] x; endmodule",
	"`define ADD(a, b=1) a + b\nmodule m; assign y = `ADD(x); endmodule",
	"`ifdef A\nmodule a; endmodule\n`elsif B\nmodule b; endmodule\n`else\nmodule c; endmodule\n`endif\n",
	"`include \"missing.svh\"",
	"/* unterminated",
	"module m; initial $display(\"%d\", 8'hFF); endmodule",
	"class c; function void f(); endfunction endclass",
	"module m; assign a = b[1); endmodule",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "seeds")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".sv" {
			return nil
		}
		// #nosec G304 -- path comes from the testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
