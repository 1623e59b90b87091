package copperwire

import "fmt"

// DefinitionError reports an invalid schema at construction time:
// bad widths, duplicate member names, overlapping tags, impossible
// sequence bounds. Schemas are normally built once at startup, so a
// DefinitionError is fatal to that path.
type DefinitionError struct {
	Reason string
}

func (e *DefinitionError) Error() string {
	return "schema definition: " + e.Reason
}

func definitionErrorf(format string, args ...any) error {
	return &DefinitionError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError reports a value that does not satisfy its coder:
// out of range, not an enum member, wrong element count, wrong type.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid value: " + e.Reason
}

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// DecodeError reports a byte stream that cannot be decoded: a short
// read inside a fixed-width field, or a Choice tag with no registered
// variant.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return "decode: " + e.Reason + ": " + e.Err.Error()
	}
	return "decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErrorf(format string, args ...any) error {
	return &DecodeError{Reason: fmt.Sprintf(format, args...)}
}
