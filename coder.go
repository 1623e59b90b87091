// Package copperwire builds exact binary codecs from declarative
// schemas. Wire structures are described once with composable schema
// objects (integers, booleans, enums, sequences, records, tagged
// unions); each schema object is a Coder that encodes and decodes its
// slice of the byte stream deterministically.
//
// Schemas are immutable after construction and safe for concurrent
// use; all per-call state lives in the sink, the source and the value.
package copperwire

import (
	"io"
)

// Coder is the contract every schema node implements. Composite
// coders (Record, Choice, Sequence) delegate to their sub-coders
// recursively; primitives are the leaves that touch bytes.
type Coder interface {
	// DefaultValue returns a fresh value that satisfies Validate.
	// Composite coders build it recursively from member defaults;
	// the result is never shared between calls.
	DefaultValue() any

	// Validate reports whether value can be encoded by this coder.
	// A nil return means valid; otherwise the error is a
	// *ValidationError naming the offending value.
	Validate(value any) error

	// WriteTo validates value and appends its encoding to w,
	// returning the number of bytes written. A failed validation
	// aborts before any byte is written by this coder.
	WriteTo(value any, w io.Writer) (int, error)

	// ReadFrom consumes exactly the bytes this coder owns from r and
	// returns the decoded value, validated against this coder's own
	// constraints.
	ReadFrom(r io.Reader) (any, error)
}

// ByteOrder selects the significance order of multi-byte integers.
type ByteOrder int

const (
	// MSBFirst is big-endian, the most significant byte first.
	MSBFirst ByteOrder = iota
	// LSBFirst is little-endian, the least significant byte first.
	LSBFirst
)

func (o ByteOrder) String() string {
	if o == LSBFirst {
		return "lsb-first"
	}
	return "msb-first"
}

// readFull reads exactly n bytes from r. A short read is a
// *DecodeError; coders rely on this to report truncated input
// uniformly.
func readFull(r io.Reader, n int, what string) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, &DecodeError{
			Reason: "reached end of data reading " + what,
			Err:    err,
		}
	}
	return buf, nil
}

// fixedSizer is implemented by coders whose encoded width never
// varies with the value.
type fixedSizer interface {
	fixedSize() (int, bool)
}

// SizeOf reports the exact encoded byte width of c when that width is
// static: primitives always, sequences and records only when every
// part is itself fixed. ok is false for variable-size schemas.
func SizeOf(c Coder) (size int, ok bool) {
	if f, isFixed := c.(fixedSizer); isFixed {
		return f.fixedSize()
	}
	return 0, false
}
