package copperwire

import (
	"io"

	"github.com/rawbytedev/copperwire/internal/common"
)

// DefaultWidth is the integer width used when a config leaves Width
// at zero.
const DefaultWidth = 4

// UintConfig configures an UnsignedInteger coder. The zero value is a
// 4-byte big-endian unsigned integer with its full natural range.
type UintConfig struct {
	// Width is the encoded size in bytes: 1, 2, 4 or 8. Zero means
	// DefaultWidth.
	Width int
	// Default is the value used when a Record member or Choice
	// variant is left unset.
	Default uint64
	// MinValue tightens the lower bound. It is only applied when it
	// lies above the natural lower bound (0).
	MinValue *uint64
	// MaxValue tightens the upper bound. It is only applied when it
	// lies below the natural upper bound for Width.
	MaxValue *uint64
	// ByteOrder selects MSBFirst (the default) or LSBFirst.
	ByteOrder ByteOrder
}

// UnsignedInteger encodes unsigned integers in a fixed number of
// bytes. Values outside [min, max] fail validation on both encode and
// decode.
type UnsignedInteger struct {
	width    int
	order    ByteOrder
	min, max uint64
	def      uint64
}

// NewUnsignedInteger builds an unsigned integer coder from cfg. It
// fails with a *DefinitionError for a non-standard width or a default
// outside the configured range.
func NewUnsignedInteger(cfg UintConfig) (*UnsignedInteger, error) {
	width := cfg.Width
	if width == 0 {
		width = DefaultWidth
	}
	if !common.IsStandardWidth(width) {
		return nil, definitionErrorf(
			"invalid width %d, supported widths are %v", width, common.StandardWidths)
	}

	u := &UnsignedInteger{
		width: width,
		order: cfg.ByteOrder,
		min:   0,
		max:   common.MaxForWidth(width),
		def:   cfg.Default,
	}
	if cfg.MinValue != nil && *cfg.MinValue > u.min {
		u.min = *cfg.MinValue
	}
	if cfg.MaxValue != nil && *cfg.MaxValue < u.max {
		u.max = *cfg.MaxValue
	}
	if u.max < u.min {
		return nil, definitionErrorf("empty range [%d, %d]", u.min, u.max)
	}
	if u.def < u.min || u.def > u.max {
		return nil, definitionErrorf(
			"default %d is out of [%d, %d]", u.def, u.min, u.max)
	}
	return u, nil
}

// CapableOf returns an UnsignedInteger using the smallest standard
// width whose natural range covers maxValue, with maxValue as its
// upper bound. Choice tags and Sequence length prefixes are sized
// with it.
func CapableOf(maxValue uint64) *UnsignedInteger {
	for _, width := range common.StandardWidths {
		if maxValue <= common.MaxForWidth(width) {
			u, err := NewUnsignedInteger(UintConfig{
				Width:    width,
				MaxValue: &maxValue,
			})
			if err != nil {
				panic("copperwire: CapableOf: " + err.Error())
			}
			return u
		}
	}
	panic("unreachable") // width 8 covers every uint64
}

// Width returns the encoded size in bytes.
func (u *UnsignedInteger) Width() int { return u.width }

// Bounds returns the effective [min, max] range.
func (u *UnsignedInteger) Bounds() (min, max uint64) { return u.min, u.max }

func (u *UnsignedInteger) DefaultValue() any { return u.def }

func (u *UnsignedInteger) Validate(value any) error {
	v, ok := common.AsUint64(value)
	if !ok {
		return validationErrorf("%v (%T) is not an unsigned integer", value, value)
	}
	if v < u.min || v > u.max {
		return validationErrorf("%d is out of [%d, %d]", v, u.min, u.max)
	}
	return nil
}

func (u *UnsignedInteger) WriteTo(value any, w io.Writer) (int, error) {
	if err := u.Validate(value); err != nil {
		return 0, err
	}
	v, _ := common.AsUint64(value)
	buf := common.AppendUint(make([]byte, 0, u.width), v, u.width, u.order == MSBFirst)
	return w.Write(buf)
}

func (u *UnsignedInteger) ReadFrom(r io.Reader) (any, error) {
	buf, err := readFull(r, u.width, "unsigned integer")
	if err != nil {
		return nil, err
	}
	v := common.Uint(buf, u.order == MSBFirst)
	if err := u.Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (u *UnsignedInteger) fixedSize() (int, bool) { return u.width, true }

// IntConfig configures a SignedInteger coder. The zero value is a
// 4-byte big-endian signed integer with its full natural range.
type IntConfig struct {
	Width     int
	Default   int64
	MinValue  *int64
	MaxValue  *int64
	ByteOrder ByteOrder
}

// SignedInteger encodes two's complement signed integers in a fixed
// number of bytes.
type SignedInteger struct {
	width    int
	order    ByteOrder
	min, max int64
	def      int64
}

// NewSignedInteger builds a signed integer coder from cfg.
func NewSignedInteger(cfg IntConfig) (*SignedInteger, error) {
	width := cfg.Width
	if width == 0 {
		width = DefaultWidth
	}
	if !common.IsStandardWidth(width) {
		return nil, definitionErrorf(
			"invalid width %d, supported widths are %v", width, common.StandardWidths)
	}

	s := &SignedInteger{
		width: width,
		order: cfg.ByteOrder,
		def:   cfg.Default,
	}
	s.min, s.max = common.SignedBounds(width)
	if cfg.MinValue != nil && *cfg.MinValue > s.min {
		s.min = *cfg.MinValue
	}
	if cfg.MaxValue != nil && *cfg.MaxValue < s.max {
		s.max = *cfg.MaxValue
	}
	if s.max < s.min {
		return nil, definitionErrorf("empty range [%d, %d]", s.min, s.max)
	}
	if s.def < s.min || s.def > s.max {
		return nil, definitionErrorf(
			"default %d is out of [%d, %d]", s.def, s.min, s.max)
	}
	return s, nil
}

// Width returns the encoded size in bytes.
func (s *SignedInteger) Width() int { return s.width }

// Bounds returns the effective [min, max] range.
func (s *SignedInteger) Bounds() (min, max int64) { return s.min, s.max }

func (s *SignedInteger) DefaultValue() any { return s.def }

func (s *SignedInteger) Validate(value any) error {
	v, ok := common.AsInt64(value)
	if !ok {
		return validationErrorf("%v (%T) is not a signed integer", value, value)
	}
	if v < s.min || v > s.max {
		return validationErrorf("%d is out of [%d, %d]", v, s.min, s.max)
	}
	return nil
}

func (s *SignedInteger) WriteTo(value any, w io.Writer) (int, error) {
	if err := s.Validate(value); err != nil {
		return 0, err
	}
	v, _ := common.AsInt64(value)
	// Truncating to the low width bytes preserves two's complement.
	raw := uint64(v) & common.MaxForWidth(s.width)
	buf := common.AppendUint(make([]byte, 0, s.width), raw, s.width, s.order == MSBFirst)
	return w.Write(buf)
}

func (s *SignedInteger) ReadFrom(r io.Reader) (any, error) {
	buf, err := readFull(r, s.width, "signed integer")
	if err != nil {
		return nil, err
	}
	v := common.SignExtend(common.Uint(buf, s.order == MSBFirst), s.width)
	if err := s.Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *SignedInteger) fixedSize() (int, bool) { return s.width, true }
