package preproc_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svls/internal/preproc"
	"svls/internal/source"
	"svls/internal/token"
)

func run(t *testing.T, text string, opts preproc.Options) ([]token.Token, *source.FileSet, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("", []byte(text))
	toks, err := preproc.Preprocess(fs, id, opts)
	return toks, fs, err
}

func texts(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			break
		}
		parts = append(parts, tok.Text)
	}
	return strings.Join(parts, " ")
}

func TestObjectMacro(t *testing.T) {
	toks, _, err := run(t, "`define W 8\nlogic [`W-1:0] x;", preproc.Options{})
	require.NoError(t, err)
	assert.Equal(t, "logic [ 8 - 1 : 0 ] x ;", texts(toks))
}

func TestExpandedTokensTakeUsageSpan(t *testing.T) {
	src := "`define W 8\nlogic [`W-1:0] x;"
	toks, _, err := run(t, src, preproc.Options{})
	require.NoError(t, err)
	use := strings.Index(src, "`W")
	require.Equal(t, "8", toks[2].Text)
	assert.Equal(t, uint32(use), toks[2].Span.Start)
	assert.Equal(t, uint32(use+2), toks[2].Span.End)
}

func TestFunctionMacroWithDefaultsAndContinuation(t *testing.T) {
	src := "`define ADD(a, b=1) \\\n  (a + b)\nx = `ADD(y); z = `ADD(y, 2);"
	toks, _, err := run(t, src, preproc.Options{})
	require.NoError(t, err)
	assert.Equal(t, "x = ( y + 1 ) ; z = ( y + 2 ) ;", texts(toks))
}

func TestPasteAndStringify(t *testing.T) {
	src := "`define CAT(a) a``_q\n`define STR(a) `\"a`\"\n`CAT(data) `STR(hi there)"
	toks, _, err := run(t, src, preproc.Options{})
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.Ident, toks[0].Kind)
	assert.Equal(t, "data_q", toks[0].Text)
	assert.Equal(t, token.String, toks[1].Kind)
	assert.Equal(t, `"hi there"`, toks[1].Text)
}

func TestNestedExpansion(t *testing.T) {
	src := "`define A `B + 1\n`define B 2\nx = `A;"
	toks, _, err := run(t, src, preproc.Options{})
	require.NoError(t, err)
	assert.Equal(t, "x = 2 + 1 ;", texts(toks))
}

func TestConditionals(t *testing.T) {
	src := strings.Join([]string{
		"`ifdef DEBUG", "a", "`elsif FAST", "b", "`else", "c", "`endif",
		"`ifndef DEBUG", "d", "`endif",
		"`ifdef NOPE", "`ifdef DEBUG", "e", "`else", "f", "`endif", "`endif",
	}, "\n")

	toks, _, err := run(t, src, preproc.Options{Defines: []preproc.Define{{Name: "DEBUG"}}})
	require.NoError(t, err)
	assert.Equal(t, "a", texts(toks))

	toks, _, err = run(t, src, preproc.Options{Defines: []preproc.Define{{Name: "FAST"}}})
	require.NoError(t, err)
	assert.Equal(t, "b d", texts(toks))

	toks, _, err = run(t, src, preproc.Options{})
	require.NoError(t, err)
	assert.Equal(t, "c d", texts(toks))
}

func TestPredefinedValue(t *testing.T) {
	toks, _, err := run(t, "x = `WIDTH;", preproc.Options{Defines: []preproc.Define{{Name: "WIDTH", Text: "8"}}})
	require.NoError(t, err)
	assert.Equal(t, "x = 8 ;", texts(toks))
}

func TestMalformedDefineIsLexedOnUse(t *testing.T) {
	opts := preproc.Options{Defines: []preproc.Define{{Name: "X", Text: "/*"}, {Name: "MSG", Text: `"oops`}}}

	toks, _, err := run(t, "wire a;", opts)
	require.NoError(t, err)
	assert.Equal(t, "wire a ;", texts(toks))

	src := "x = `MSG;"
	_, fs, err := run(t, src, opts)
	var perr *preproc.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "", fs.Path(perr.Span.File))
	assert.Equal(t, uint32(strings.Index(src, "`MSG")), perr.Span.Start)
	assert.Equal(t, "define MSG: unterminated string literal", perr.Msg)
}

func TestLexErrorMessageIsKeptVerbatim(t *testing.T) {
	_, _, err := run(t, "x = \"100% done;", preproc.Options{})
	var perr *preproc.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "unterminated string literal", perr.Msg)
}

func TestUndef(t *testing.T) {
	_, _, err := run(t, "`define A 1\n`undef A\n`ifdef A\nx\n`endif\n`A", preproc.Options{})
	var perr *preproc.Error
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Msg, "undefined macro `A")
}

func TestSkippedDirectivesAndBuiltins(t *testing.T) {
	toks, fs, err := run(t, "`timescale 1ns/1ps\n`default_nettype none\nx `__LINE__ `__FILE__", preproc.Options{})
	require.NoError(t, err)
	assert.Equal(t, `x 3 ""`, texts(toks))
	assert.Equal(t, "", fs.Path(toks[0].Span.File))
}

func TestFailures(t *testing.T) {
	cases := []struct {
		name string
		src  string
		msg  string
	}{
		{"undefined macro", "x = `NOPE;", "undefined macro"},
		{"missing endif", "`ifdef A\nx", "missing `endif"},
		{"stray endif", "x\n`endif", "`endif without `ifdef"},
		{"stray else", "`else", "`else without `ifdef"},
		{"missing include", "`include \"nope.svh\"", "cannot find include file"},
		{"empty argument", "`define F(a) a\n`F()", ""},
		{"missing argument", "`define F(a, b) a\n`F(1)", "missing argument"},
		{"too many arguments", "`define F(a) a\n`F(1, 2)", "too many arguments"},
		{"recursive macro", "`define R `R\n`R", "expands too deeply"},
		{"lexical", "x = \"open", "unterminated string literal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := run(t, tc.src, preproc.Options{})
			if tc.msg == "" {
				require.NoError(t, err)
				return
			}
			var perr *preproc.Error
			require.ErrorAs(t, err, &perr)
			assert.Contains(t, perr.Msg, tc.msg)
		})
	}
}

func TestIncludeSearchOrder(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dirB, "defs.svh"), []byte("`define FROM_B 1\nb_tok\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dirA, "defs.svh"), []byte("a_tok\n"), 0o600))

	toks, fs, err := run(t, "`include \"defs.svh\"\nx", preproc.Options{IncludePaths: []string{dirA, dirB}})
	require.NoError(t, err)
	assert.Equal(t, "a_tok x", texts(toks))
	assert.Equal(t, filepath.ToSlash(filepath.Join(dirA, "defs.svh")), fs.Path(toks[0].Span.File))

	toks, _, err = run(t, "`include <defs.svh>\n`ifdef FROM_B y `endif", preproc.Options{IncludePaths: []string{dirB}})
	require.NoError(t, err)
	assert.Equal(t, "b_tok y", texts(toks))
}

func TestNestedIncludeRelativeToIncludingFile(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "outer.svh"), []byte("`include \"inner.svh\"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "inner.svh"), []byte("inner\n"), 0o600))

	toks, _, err := run(t, "`include \"outer.svh\"", preproc.Options{IncludePaths: []string{sub}})
	require.NoError(t, err)
	assert.Equal(t, "inner", texts(toks))
}

func TestRepeatedIncludeReusesLoadedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.svh"), []byte("one\n"), 0o600))

	toks, fs, err := run(t, "`include \"one.svh\"\n`include \"one.svh\"\n", preproc.Options{IncludePaths: []string{dir}})
	require.NoError(t, err)
	require.Equal(t, "one one", texts(toks))
	assert.Equal(t, toks[0].Span.File, toks[1].Span.File)
	latest, ok := fs.GetLatest(filepath.Join(dir, "one.svh"))
	require.True(t, ok)
	assert.Equal(t, latest, toks[0].Span.File)
}

func TestIncludeNextToNamedPrimary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.svh"), []byte("local\n"), 0o600))

	fs := source.NewFileSet()
	id := fs.AddVirtual(filepath.Join(dir, "top.sv"), []byte("`include \"local.svh\"\nx"))
	toks, err := preproc.Preprocess(fs, id, preproc.Options{})
	require.NoError(t, err)
	assert.Equal(t, "local x", texts(toks))
}

func TestIncludeErrorIsAttributedToIncludedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.svh"), []byte("x = `UNDEFINED;\n"), 0o600))

	_, fs, err := run(t, "`include \"bad.svh\"\n", preproc.Options{IncludePaths: []string{dir}})
	var perr *preproc.Error
	require.ErrorAs(t, err, &perr)
	assert.NotEqual(t, "", fs.Path(perr.Span.File))
}

func TestIgnoreInclude(t *testing.T) {
	toks, _, err := run(t, "`include \"nope.svh\"\nx", preproc.Options{IgnoreInclude: true})
	require.NoError(t, err)
	assert.Equal(t, "x", texts(toks))
}

func TestDroppedTriviaIsKept(t *testing.T) {
	toks, _, err := run(t, "`define A\t1\nx", preproc.Options{})
	require.NoError(t, err)
	var sawTab bool
	for _, tr := range toks[0].Leading {
		if tr.Kind == token.TriviaSpace && strings.Contains(tr.Text, "\t") {
			sawTab = true
		}
	}
	assert.True(t, sawTab, "tab before the macro body should be carried to the next token")
}
