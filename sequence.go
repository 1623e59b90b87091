package copperwire

import (
	"bytes"
	"io"
)

// SequenceConfig configures a Sequence or String coder.
type SequenceConfig struct {
	// MinLength is the smallest valid element count.
	MinLength uint64
	// MaxLength is the largest valid element count. Nil means
	// unbounded, which is only legal for a countless sequence (no
	// length prefix) or one with an explicit LengthWidth.
	MaxLength *uint64
	// IncludeLength prefixes the encoding with the element count.
	IncludeLength bool
	// LengthWidth is the byte width of the length prefix. Zero
	// derives the smallest width capable of MaxLength.
	LengthWidth int
}

// Sequence encodes an ordered run of values sharing one element
// coder. With a length prefix the count is written first; without one
// the elements are decoded greedily until the source is exhausted or
// MaxLength elements have been read. Countless decoding reads the
// source to EOF before decoding, so bytes past the MaxLength'th
// element are consumed and discarded; a countless sequence should be
// the last field of any enclosing record.
type Sequence struct {
	elem        Coder
	min         uint64
	max         uint64
	hasMax      bool
	withLength  bool
	lengthCoder *UnsignedInteger
}

// NewSequence builds a sequence coder over elem from cfg.
func NewSequence(elem Coder, cfg SequenceConfig) (*Sequence, error) {
	if elem == nil {
		return nil, definitionErrorf("sequence needs an element coder")
	}
	s := &Sequence{
		elem:       elem,
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

// NewArray builds a fixed-size sequence: exactly size elements, no
// length prefix.
func NewArray(elem Coder, size uint64) (*Sequence, error) {
	return NewSequence(elem, SequenceConfig{
		MinLength: size,
		MaxLength: &size,
	})
}

// lengthCoderFor checks a SequenceConfig's bounds and, when a length
// prefix is requested, builds the unsigned integer coder that frames
// it.
func lengthCoderFor(cfg SequenceConfig) (*UnsignedInteger, error) {
	if cfg.MaxLength != nil && *cfg.MaxLength < cfg.MinLength {
		return nil, definitionErrorf(
			"sequence bounds [%d, %d] are inverted", cfg.MinLength, *cfg.MaxLength)
	}
	if !cfg.IncludeLength {
		return nil, nil
	}

	// The prefix coder carries the count bounds, so a short count is
	// rejected while decoding the prefix itself. Its default must sit
	// inside those bounds to be constructible; min is the natural one.
	min := cfg.MinLength
	if cfg.LengthWidth != 0 {
		u, err := NewUnsignedInteger(UintConfig{
			Width:    cfg.LengthWidth,
			Default:  min,
			MinValue: &min,
			MaxValue: cfg.MaxLength,
		})
		if err != nil {
			return nil, err
		}
		if cfg.MaxLength != nil && u.max < *cfg.MaxLength {
			return nil, definitionErrorf(
				"length prefix of %d bytes cannot represent %d elements",
				cfg.LengthWidth, *cfg.MaxLength)
		}
		return u, nil
	}
	if cfg.MaxLength == nil {
		return nil, definitionErrorf(
			"a length-prefixed sequence needs a max length or an explicit length width")
	}
	return NewUnsignedInteger(UintConfig{
		Width:    CapableOf(*cfg.MaxLength).width,
		Default:  min,
		MinValue: &min,
		MaxValue: cfg.MaxLength,
	})
}

// Element returns the element coder.
func (s *Sequence) Element() Coder { return s.elem }

// Bounds returns the element count range; ok is false when the
// sequence is unbounded.
func (s *Sequence) Bounds() (min, max uint64, bounded bool) {
	return s.min, s.max, s.hasMax
}

// DefaultValue returns the shortest valid sequence: empty, or min
// fresh element defaults when a minimum is set.
func (s *Sequence) DefaultValue() any {
	items := make([]any, s.min)
	for i := range items {
		items[i] = s.elem.DefaultValue()
	}
	return items
}

func (s *Sequence) Validate(value any) error {
	items, err := s.items(value)
	if err != nil {
		return err
	}
	return s.validateCount(uint64(len(items)))
}

func (s *Sequence) items(value any) ([]any, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, validationErrorf("%v (%T) is not a sequence value", value, value)
	}
	return items, nil
}

func (s *Sequence) validateCount(count uint64) error {
	if count < s.min || (s.hasMax && count > s.max) {
		if s.hasMax {
			return validationErrorf(
				"element count %d is out of [%d, %d]", count, s.min, s.max)
		}
		return validationErrorf(
			"element count %d is below the minimum %d", count, s.min)
	}
	return nil
}

func (s *Sequence) WriteTo(value any, w io.Writer) (int, error) {
	items, err := s.items(value)
	if err != nil {
		return 0, err
	}
	if err := s.validateCount(uint64(len(items))); err != nil {
		return 0, err
	}

	written := 0
	if s.withLength {
		n, err := s.lengthCoder.WriteTo(uint64(len(items)), w)
		written += n
		if err != nil {
			return written, err
		}
	}
	for _, item := range items {
		n, err := s.elem.WriteTo(item, w)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

func (s *Sequence) ReadFrom(r io.Reader) (any, error) {
	var items []any
	var err error
	switch {
	case s.withLength:
		items, err = s.readCounted(r)
	case s.hasMax && s.min == s.max:
		// A fixed-size sequence owns exactly min elements; greedy
		// reading here would starve whatever follows it in a Record.
		items, err = s.readExactly(r, s.min)
	default:
		items, err = s.readCountless(r)
	}
	if err != nil {
		return nil, err
	}
	if err := s.validateCount(uint64(len(items))); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Sequence) readCounted(r io.Reader) ([]any, error) {
	count, err := s.lengthCoder.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return s.readExactly(r, count.(uint64))
}

func (s *Sequence) readExactly(r io.Reader, count uint64) ([]any, error) {
	items := make([]any, 0, count)
	for i := uint64(0); i < count; i++ {
		item, err := s.elem.ReadFrom(r)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// readCountless drains the source and decodes elements until the
// remainder is empty or max elements have been read. Draining first
// is what separates clean exhaustion from a malformed element: an
// element decoded from the remainder only fails when its bytes are
// actually wrong, not merely missing.
func (s *Sequence) readCountless(r io.Reader) ([]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Reason: "reading sequence remainder", Err: err}
	}
	src := bytes.NewReader(data)
	items := []any{}
	for src.Len() > 0 {
		if s.hasMax && uint64(len(items)) == s.max {
			break
		}
		item, err := s.elem.ReadFrom(src)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Sequence) fixedSize() (int, bool) {
	if !s.hasMax || s.min != s.max {
		return 0, false
	}
	elemSize, ok := SizeOf(s.elem)
	if !ok {
		return 0, false
	}
	size := int(s.min) * elemSize
	if s.withLength {
		size += s.lengthCoder.width
	}
	return size, true
}
