package syntax

import (
	"svls/internal/preproc"
	"svls/internal/source"
)

// Parse preprocesses and parses the file primary of files. On failure the
// returned error is a *ParseError.
func Parse(files *source.FileSet, primary source.FileID, opts preproc.Options) (*Tree, error) {
	toks, err := preproc.Preprocess(files, primary, opts)
	if err != nil {
		return nil, fromPreproc(files, err)
	}
	return parseTokens(files, toks)
}

// ParseText parses text as an unsaved buffer whose path is "".
func ParseText(text string, opts preproc.Options) (*Tree, error) {
	return ParseBuffer("", text, opts)
}

// ParseBuffer parses text as the content of path. Includes are searched next
// to path before the include paths.
func ParseBuffer(path, text string, opts preproc.Options) (*Tree, error) {
	files := source.NewFileSet()
	id := files.AddVirtual(path, []byte(text))
	return Parse(files, id, opts)
}
