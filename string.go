package copperwire

import (
	"io"
)

// String encodes a raw byte run in one operation instead of
// element-by-element. Its bounds and optional length prefix follow
// the same rules as Sequence; its default value is an empty byte
// slice.
type String struct {
	min         uint64
	max         uint64
	hasMax      bool
	withLength  bool
	lengthCoder *UnsignedInteger
}

// NewString builds a byte-run coder from cfg. Lengths count bytes.
func NewString(cfg SequenceConfig) (*String, error) {
	s := &String{
		min:        cfg.MinLength,
		withLength: cfg.IncludeLength,
	}
	if cfg.MaxLength != nil {
		s.max = *cfg.MaxLength
		s.hasMax = true
	}
	var err error
	s.lengthCoder, err = lengthCoderFor(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Bounds returns the byte count range; bounded is false when the
// string is unbounded.
func (s *String) Bounds() (min, max uint64, bounded bool) {
	return s.min, s.max, s.hasMax
}

// DefaultValue returns the shortest valid byte run: empty, or min
// zero bytes when a minimum is set.
func (s *String) DefaultValue() any { return make([]byte, s.min) }

func (s *String) Validate(value any) error {
	b, err := s.bytes(value)
	if err != nil {
		return err
	}
	return s.validateCount(uint64(len(b)))
}

func (s *String) bytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, validationErrorf("%v (%T) is not a byte string", value, value)
	}
}

func (s *String) validateCount(count uint64) error {
	if count < s.min || (s.hasMax && count > s.max) {
		if s.hasMax {
			return validationErrorf(
				"byte count %d is out of [%d, %d]", count, s.min, s.max)
		}
		return validationErrorf(
			"byte count %d is below the minimum %d", count, s.min)
	}
	return nil
}

func (s *String) WriteTo(value any, w io.Writer) (int, error) {
	b, err := s.bytes(value)
	if err != nil {
		return 0, err
	}
	if err := s.validateCount(uint64(len(b))); err != nil {
		return 0, err
	}

	written := 0
	if s.withLength {
		n, err := s.lengthCoder.WriteTo(uint64(len(b)), w)
		written += n
		if err != nil {
			return written, err
		}
	}
	n, err := w.Write(b)
	return written + n, err
}

func (s *String) ReadFrom(r io.Reader) (any, error) {
	var b []byte
	var err error
	switch {
	case s.withLength:
		b, err = s.readCounted(r)
	case s.hasMax && s.min == s.max:
		b, err = readFull(r, int(s.min), "fixed-size string")
	default:
		b, err = io.ReadAll(r)
		if err != nil {
			err = &DecodeError{Reason: "reading string remainder", Err: err}
		}
	}
	if err != nil {
		return nil, err
	}
	if err := s.validateCount(uint64(len(b))); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *String) readCounted(r io.Reader) ([]byte, error) {
	count, err := s.lengthCoder.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	n := count.(uint64)
	if n == 0 {
		return []byte{}, nil
	}
	return readFull(r, int(n), "string contents")
}

func (s *String) fixedSize() (int, bool) {
	if !s.hasMax || s.min != s.max {
		return 0, false
	}
	size := int(s.min)
	if s.withLength {
		size += s.lengthCoder.width
	}
	return size, true
}
