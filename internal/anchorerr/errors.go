// Package anchorerr implements the error taxonomy of the code-intelligence
// daemon: a small sentinel-kind wrapper compatible with errors.Is/errors.As,
// the idiomatic stdlib answer to this spec's error kinds.
package anchorerr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error. Kinds never carry dynamic data themselves; the
// dynamic detail lives in Error.Msg.
type Kind string

const (
	UnsupportedLanguage Kind = "unsupported language"
	ParserInitFailure   Kind = "parser init failure"
	ParseFailed         Kind = "parse failed"
	IO                  Kind = "io error"
	Serialize           Kind = "serialize error"
	Deserialize         Kind = "deserialize error"
	LockPoisoned        Kind = "lock error"
	Protocol            Kind = "protocol error"
	NotFound            Kind = "not found"
)

// tags maps a Kind to the short prefix used in user-visible error.message
// fields (spec.md §7: '"write error"', '"lock error"', ...).
var tags = map[Kind]string{
	UnsupportedLanguage: "unsupported language",
	ParserInitFailure:   "parser error",
	ParseFailed:         "parse error",
	IO:                  "write error",
	Serialize:           "serialize error",
	Deserialize:         "deserialize error",
	LockPoisoned:        "lock error",
	Protocol:            "protocol error",
	NotFound:            "not found",
}

// Error is a wrapped error tagged with one of the taxonomy's Kinds.
type Error struct {
	Kind Kind
	Path string // optional: the file or resource the error concerns
	Err  error  // optional: the underlying cause
}

func (e *Error) Error() string {
	tag := tags[e.Kind]
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", tag, e.Path, e.Err)
	case e.Path != "":
		return fmt.Sprintf("%s: %s", tag, e.Path)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", tag, e.Err)
	default:
		return tag
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, anchorerr.New(anchorerr.NotFound, "", nil)) or more
// simply compare via Is(err, kind) below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New constructs an *Error of the given kind.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

// Is reports whether err (or any error it wraps) carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
