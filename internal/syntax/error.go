package syntax

import (
	"errors"
	"fmt"

	"svls/internal/preproc"
	"svls/internal/source"
)

// Location is where a parse failure was detected. Path is "" for the primary
// buffer.
type Location struct {
	Path   string
	Offset int
}

type ParseError struct {
	Loc *Location
	Msg string
}

func (e *ParseError) Error() string {
	if e.Loc == nil {
		return "parse error: " + e.Msg
	}
	path := e.Loc.Path
	if path == "" {
		path = "<buffer>"
	}
	return fmt.Sprintf("%s:%d: parse error: %s", path, e.Loc.Offset, e.Msg)
}

func errorAt(files *source.FileSet, sp source.Span, msg string) *ParseError {
	return &ParseError{
		Loc: &Location{Path: files.Path(sp.File), Offset: int(sp.Start)},
		Msg: msg,
	}
}

func fromPreproc(files *source.FileSet, err error) *ParseError {
	var perr *preproc.Error
	if errors.As(err, &perr) {
		return errorAt(files, perr.Span, perr.Msg)
	}
	return &ParseError{Msg: err.Error()}
}
