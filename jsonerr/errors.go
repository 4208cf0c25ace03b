// Package jsonerr holds the error kinds reported by the scanner, the
// formatter and the binder.
package jsonerr

import (
	"errors"
	"strconv"
	"strings"
)

// Scanning errors
var (
	ErrMalformedJSON = errors.New("jsonbind: malformed JSON")
	ErrUnexpectedEnd = errors.New("jsonbind: unexpected end of JSON input")
)

// Binding errors
var (
	ErrStructural   = errors.New("jsonbind: structural mismatch")
	ErrFormat       = errors.New("jsonbind: invalid literal")
	ErrConstruction = errors.New("jsonbind: cannot construct value")
)

// Type errors
var (
	ErrUnsupportedType = errors.New("jsonbind: unsupported type")
	ErrInvalidTarget   = errors.New("jsonbind: target must be a non-nil pointer")
)

// Limits
var (
	ErrMaxDepth = errors.New("jsonbind: maximum nesting depth exceeded")
)

// Error is the single error type surfaced to callers. Kind is one of the
// sentinels above; Offset is -1 when no input position applies.
type Error struct {
	Kind   error
	Path   string
	Offset int
	Char   byte
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Offset >= 0 {
		if e.Char != 0 {
			sb.WriteString(" '")
			sb.WriteByte(e.Char)
			sb.WriteString("'")
		}
		sb.WriteString(" at offset ")
		sb.WriteString(strconv.Itoa(e.Offset))
	}
	if e.Path != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Path)
		sb.WriteString(")")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New returns an error of the given kind with no position.
func New(kind error, msg string) *Error {
	return &Error{Kind: kind, Offset: -1, Msg: msg}
}

// Wrap returns an error of the given kind caused by err.
func Wrap(kind error, msg string, err error) *Error {
	return &Error{Kind: kind, Offset: -1, Msg: msg, Err: err}
}

// Malformed reports an unexpected character c at offset.
func Malformed(offset int, c byte) *Error {
	return &Error{Kind: ErrMalformedJSON, Offset: offset, Char: c, Msg: "unexpected character"}
}

// UnexpectedEnd reports input ending at offset before the container closed.
func UnexpectedEnd(offset int) *Error {
	return &Error{Kind: ErrUnexpectedEnd, Offset: offset}
}

// At returns a copy of err shifted by base bytes with segment prepended to
// its path. Errors that are not *Error are wrapped as ErrFormat.
func At(err error, base int, segment string) *Error {
	var je *Error
	if !errors.As(err, &je) {
		return &Error{Kind: ErrFormat, Offset: -1, Path: segment, Err: err}
	}
	out := *je
	if out.Offset >= 0 {
		out.Offset += base
	}
	out.Path = segment + out.Path
	return &out
}
