package config

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindRead Kind = iota + 1
	KindParse
	KindMissing
)

var (
	ErrRead    = errors.New("cannot read configuration")
	ErrParse   = errors.New("cannot parse configuration")
	ErrMissing = errors.New("configuration not found")
)

// Error is a configuration failure. Callers fall back to defaults; the text
// shown to the user is produced by Notice.
type Error struct {
	Kind Kind
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRead:
		return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
	case KindParse:
		return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
	case KindMissing:
		return fmt.Sprintf("%s is not found", e.Path)
	}
	return fmt.Sprintf("configuration error in %s", e.Path)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindRead:
		return target == ErrRead
	case KindParse:
		return target == ErrParse
	case KindMissing:
		return target == ErrMissing
	}
	return false
}

// Notice renders the warning shown to the user, naming the fallback taken.
func (e *Error) Notice(fallback string) string {
	switch e.Kind {
	case KindRead:
		return fmt.Sprintf("Failed to read %s. %s", e.Path, fallback)
	case KindParse:
		return fmt.Sprintf("Failed to parse %s. %s", e.Path, fallback)
	case KindMissing:
		return fmt.Sprintf("%s is not found. %s", e.Path, fallback)
	}
	return fmt.Sprintf("Invalid configuration %s. %s", e.Path, fallback)
}
