package copperwire

import (
	"io"
	"sort"

	"github.com/rawbytedev/copperwire/internal/common"
)

// DefaultEnumWidth is the tag width used when an EnumConfig leaves
// Width at zero. Most protocols keep enums to a single byte.
const DefaultEnumWidth = 1

// EnumConfig configures an Enum coder.
type EnumConfig struct {
	// Width is the encoded size in bytes. Zero means
	// DefaultEnumWidth.
	Width int
	// Default selects the default member by value. Nil means the
	// lowest-valued member.
	Default *uint64
	// ByteOrder selects MSBFirst (the default) or LSBFirst.
	ByteOrder ByteOrder
}

// Enum is an unsigned integer restricted to a closed, named member
// set. Values outside the set fail validation on encode and decode.
type Enum struct {
	base    *UnsignedInteger
	byName  map[string]uint64
	byValue map[uint64]string
	def     uint64
}

// NewEnum builds an enum coder from a name-to-value member map. It
// fails with a *DefinitionError when members is empty, a member does
// not fit the width, or the configured default is not a member.
func NewEnum(members map[string]uint64, cfg EnumConfig) (*Enum, error) {
	if len(members) == 0 {
		return nil, definitionErrorf("enum needs at least one member")
	}
	width := cfg.Width
	if width == 0 {
		width = DefaultEnumWidth
	}
	base, err := NewUnsignedInteger(UintConfig{Width: width, ByteOrder: cfg.ByteOrder})
	if err != nil {
		return nil, err
	}

	e := &Enum{
		base:    base,
		byName:  make(map[string]uint64, len(members)),
		byValue: make(map[uint64]string, len(members)),
	}
	lowest := ^uint64(0)
	max := common.MaxForWidth(width)
	for name, value := range members {
		if name == "" {
			return nil, definitionErrorf("enum member value %d has an empty name", value)
		}
		if value > max {
			return nil, definitionErrorf(
				"enum member %s = %d does not fit in %d bytes", name, value, width)
		}
		e.byName[name] = value
		// Aliases are allowed; keep the lexicographically smallest
		// name so lookups stay deterministic.
		if prev, ok := e.byValue[value]; !ok || name < prev {
			e.byValue[value] = name
		}
		if value < lowest {
			lowest = value
		}
	}

	e.def = lowest
	if cfg.Default != nil {
		if _, ok := e.byValue[*cfg.Default]; !ok {
			return nil, definitionErrorf(
				"default %d is not an enum member", *cfg.Default)
		}
		e.def = *cfg.Default
	}
	return e, nil
}

// Width returns the encoded size in bytes.
func (e *Enum) Width() int { return e.base.width }

// Value looks a member up by name.
func (e *Enum) Value(name string) (uint64, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// Name returns the name registered for value. Aliased values resolve
// to the lexicographically smallest name.
func (e *Enum) Name(value uint64) (string, bool) {
	n, ok := e.byValue[value]
	return n, ok
}

// Members returns the member names sorted by value.
func (e *Enum) Members() []string {
	names := make([]string, 0, len(e.byValue))
	for _, name := range e.byValue {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return e.byName[names[i]] < e.byName[names[j]]
	})
	return names
}

func (e *Enum) DefaultValue() any { return e.def }

func (e *Enum) Validate(value any) error {
	v, ok := common.AsUint64(value)
	if !ok {
		return validationErrorf("%v (%T) is not an unsigned integer", value, value)
	}
	if _, member := e.byValue[v]; !member {
		return validationErrorf("%d is not a member of %v", v, e.Members())
	}
	return nil
}

func (e *Enum) WriteTo(value any, w io.Writer) (int, error) {
	if err := e.Validate(value); err != nil {
		return 0, err
	}
	return e.base.WriteTo(value, w)
}

func (e *Enum) ReadFrom(r io.Reader) (any, error) {
	v, err := e.base.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	if err := e.Validate(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Enum) fixedSize() (int, bool) { return e.base.width, true }
