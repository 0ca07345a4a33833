package source

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetToLineCol(t *testing.T) {
	text := "module m;\n  logic a;\n\nendmodule"
	tests := []struct {
		name     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{"start", 0, 0, 0},
		{"middle of first line", 7, 0, 7},
		{"newline byte itself", 9, 0, 9},
		{"start of second line", 10, 1, 0},
		{"inside second line", 12, 1, 2},
		{"empty line", 21, 2, 0},
		{"last line", 22, 3, 0},
		{"end of text", len(text), 3, 9},
		{"past end keeps counting", len(text) + 3, 3, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := OffsetToLineCol(text, tt.offset)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}

func TestOffsetToLineColCountsNewlines(t *testing.T) {
	text := "a\nbb\n\nccc\r\nd\n"
	for k := 0; k <= len(text); k++ {
		line, _ := OffsetToLineCol(text, k)
		require.Equal(t, strings.Count(text[:k], "\n"), line, "offset %d", k)
	}
}

func TestOffsetToLineColMultibyte(t *testing.T) {
	// columns count bytes: "é" is two bytes
	text := "é = 1;\nx"
	line, col := OffsetToLineCol(text, len("é ="))
	assert.Equal(t, 0, line)
	assert.Equal(t, 4, col)
}

func TestLineEnd(t *testing.T) {
	text := "module foo(\n  input a\n);"
	tests := []struct {
		name   string
		offset int
		want   int
	}{
		{"from start", 0, 10 + 1},
		{"last char of first line", 10, 11},
		{"at newline", 11, 11},
		{"second line", 12, 21},
		{"last line has no newline", 22, len(text)},
		{"at end", len(text), len(text)},
		{"past end", len(text) + 2, len(text) + 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineEnd(text, tt.offset))
		})
	}
}

func TestFileSetKeepsEmptyPrimaryPath(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("", []byte("a\nb"))
	require.Equal(t, "", fs.Path(id))

	got, ok := fs.GetLatest("")
	require.True(t, ok)
	require.Equal(t, id, got)

	start, end := fs.Resolve(Span{File: id, Start: 2, End: 3})
	assert.Equal(t, LineCol{Line: 2, Col: 1}, start)
	assert.Equal(t, LineCol{Line: 2, Col: 2}, end)
}

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("inc/defs.svh", []byte("`define A 1"), 0)
	id2 := fs.Add("inc/./defs.svh", []byte("`define A 2"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.GetLatest("inc/defs.svh")
	if !ok || latest != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latest, ok)
	}
	if string(fs.Get(id1).Content) != "`define A 1" {
		t.Fatalf("old content lost: %q", fs.Get(id1).Content)
	}
}

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	assert.True(t, changed)
	assert.Equal(t, "a\nb\rc", string(out))
}
