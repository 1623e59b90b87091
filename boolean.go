package copperwire

import (
	"io"

	"github.com/rawbytedev/copperwire/internal/common"
)

// Boolean encodes a truth value as exactly one byte. Encoding always
// emits 0x00 or 0x01; decoding treats any non-zero byte as true.
type Boolean struct {
	def bool
}

// NewBoolean returns a boolean coder with the given default.
func NewBoolean(defaultValue bool) *Boolean {
	return &Boolean{def: defaultValue}
}

func (b *Boolean) DefaultValue() any { return b.def }

// Validate accepts bools and integers; an integer's truthiness is
// whether it is non-zero.
func (b *Boolean) Validate(value any) error {
	if _, err := b.truth(value); err != nil {
		return err
	}
	return nil
}

func (b *Boolean) truth(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	default:
		if n, ok := common.AsUint64(value); ok {
			return n != 0, nil
		}
		if n, ok := common.AsInt64(value); ok {
			return n != 0, nil
		}
		return false, validationErrorf("%v (%T) is not a boolean", value, value)
	}
}

func (b *Boolean) WriteTo(value any, w io.Writer) (int, error) {
	v, err := b.truth(value)
	if err != nil {
		return 0, err
	}
	out := []byte{0x00}
	if v {
		out[0] = 0x01
	}
	return w.Write(out)
}

func (b *Boolean) ReadFrom(r io.Reader) (any, error) {
	buf, err := readFull(r, 1, "boolean")
	if err != nil {
		return nil, err
	}
	return buf[0] != 0x00, nil
}

func (b *Boolean) fixedSize() (int, bool) { return 1, true }
