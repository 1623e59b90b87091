// Package common holds the byte-level helpers shared by the coders:
// fixed-width integer packing in either byte order, sign extension,
// and numeric coercion from the loosely typed values callers hand in.
package common

import (
	"encoding/binary"
	"math"
)

// IsStandardWidth reports whether w is a supported integer width.
func IsStandardWidth(w int) bool {
	switch w {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}

// StandardWidths lists the supported integer widths, smallest first.
var StandardWidths = [...]int{1, 2, 4, 8}

// MaxForWidth returns the largest unsigned value representable in
// width bytes.
func MaxForWidth(width int) uint64 {
	if width >= 8 {
		return math.MaxUint64
	}
	return 1<<(8*width) - 1
}

// SignedBounds returns the natural two's complement range for width
// bytes.
func SignedBounds(width int) (min, max int64) {
	bits := uint(8*width - 1)
	return -1 << bits, 1<<bits - 1
}

// AppendUint appends v to dst as exactly width bytes in the given
// order. v must already fit in width bytes.
func AppendUint(dst []byte, v uint64, width int, msbFirst bool) []byte {
	switch width {
	case 1:
		return append(dst, byte(v))
	case 2:
		if msbFirst {
			return binary.BigEndian.AppendUint16(dst, uint16(v))
		}
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case 4:
		if msbFirst {
			return binary.BigEndian.AppendUint32(dst, uint32(v))
		}
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	case 8:
		if msbFirst {
			return binary.BigEndian.AppendUint64(dst, v)
		}
		return binary.LittleEndian.AppendUint64(dst, v)
	default:
		panic("common: not a standard width")
	}
}

// Uint reconstructs an unsigned integer from all of b, whose length
// must be a standard width.
func Uint(b []byte, msbFirst bool) uint64 {
	switch len(b) {
	case 1:
		return uint64(b[0])
	case 2:
		if msbFirst {
			return uint64(binary.BigEndian.Uint16(b))
		}
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		if msbFirst {
			return uint64(binary.BigEndian.Uint32(b))
		}
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		if msbFirst {
			return binary.BigEndian.Uint64(b)
		}
		return binary.LittleEndian.Uint64(b)
	default:
		panic("common: not a standard width")
	}
}

// SignExtend reinterprets the low width bytes of v as a two's
// complement signed integer.
func SignExtend(v uint64, width int) int64 {
	shift := uint(64 - 8*width)
	return int64(v<<shift) >> shift
}

// AsUint64 coerces the common numeric representations a caller may
// hand to an unsigned coder. JSON decoding produces float64, so
// integral non-negative floats are accepted too.
func AsUint64(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint64:
		return n, true
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int8:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int16:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int32:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if n < 0 || n != math.Trunc(n) || n >= math.MaxUint64 {
			return 0, false
		}
		return uint64(n), true
	default:
		return 0, false
	}
}

// AsInt64 coerces the common numeric representations a caller may
// hand to a signed coder.
func AsInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}
