package restapi

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrSerialize         = errors.New("serialization failed")
	ErrFormEncode        = errors.New("form encoding failed")
	ErrParse             = errors.New("malformed JSON")
	ErrDecode            = errors.New("decoding failed")
	ErrNotArray          = errors.New("top-level JSON value is not an array")
	ErrMissingField      = errors.New("missing field")
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	ErrNoContent         = errors.New("no content")
)

// ErrorKind is a coarse-grained categorization of codec failures.
type ErrorKind string

const (
	KindSerialize    ErrorKind = "serialize"
	KindFormEncode   ErrorKind = "form_encode"
	KindParse        ErrorKind = "parse"
	KindDecode       ErrorKind = "decode"
	KindMissingField ErrorKind = "missing_field"
)

var kindSentinels = map[ErrorKind]error{
	KindSerialize:    ErrSerialize,
	KindFormEncode:   ErrFormEncode,
	KindParse:        ErrParse,
	KindDecode:       ErrDecode,
	KindMissingField: ErrMissingField,
}

// CodecError wraps an encoding or decoding failure with the operation
// that produced it.
type CodecError struct {
	Op   string
	Kind ErrorKind
	Err  error
}

func (e *CodecError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *CodecError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel for the error's kind, so errors.Is(err, ErrParse)
// holds for every parse failure.
func (e *CodecError) Is(target error) bool {
	if e == nil {
		return false
	}
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// IsKind reports whether err is a CodecError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var ce *CodecError
	if errors.As(err, &ce) {
		return ce.Kind == kind
	}
	return false
}

func codecErr(op string, kind ErrorKind, err error) error {
	return &CodecError{Op: op, Kind: kind, Err: err}
}
