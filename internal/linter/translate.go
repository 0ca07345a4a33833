package linter

import (
	"math"

	"fortio.org/safecast"
	"go.lsp.dev/protocol"

	"svls/internal/lint"
	"svls/internal/source"
)

// Source names this server in every diagnostic.
const Source = "svls"

const parseErrorMessage = "parse error"

// violationDiagnostic maps a rule violation onto the line of its first byte.
// Violations are single-line, so the end column is begin column plus length.
func violationDiagnostic(text string, f lint.Failed) protocol.Diagnostic {
	line, col := source.OffsetToLineCol(text, f.Beg)
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: position(line, col),
			End:   position(line, col+f.Len),
		},
		Severity: protocol.DiagnosticSeverityWarning,
		Code:     f.Name,
		Source:   Source,
		Message:  f.Hint,
	}
}

// parseErrorDiagnostic spans from the failure offset to the end of its line.
func parseErrorDiagnostic(text string, offset int) protocol.Diagnostic {
	line, col := source.OffsetToLineCol(text, offset)
	end := source.LineEnd(text, offset)
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: position(line, col),
			End:   position(line, col+end-offset),
		},
		Severity: protocol.DiagnosticSeverityError,
		Source:   Source,
		Message:  parseErrorMessage,
	}
}

func position(line, col int) protocol.Position {
	return protocol.Position{Line: narrow(line), Character: narrow(col)}
}

// narrow saturates v into uint32.
func narrow(v int) uint32 {
	n, err := safecast.Conv[uint32](v)
	if err == nil {
		return n
	}
	if v < 0 {
		return 0
	}
	return math.MaxUint32
}
