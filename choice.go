package copperwire

import (
	"io"
	"sort"

	"github.com/rawbytedev/copperwire/internal/common"
)

// ChoiceConfig configures a Choice coder.
type ChoiceConfig struct {
	// TagWidth is the byte width of the tag. Zero derives the
	// smallest width that can represent every configured tag.
	TagWidth int
	// ByteOrder applies to the tag; variants carry their own orders.
	ByteOrder ByteOrder
}

// ChoiceValue is one selected variant of a Choice: the discriminating
// tag and a value of that variant's schema.
type ChoiceValue struct {
	Tag   uint64
	Value any
}

// Choice is a tagged union over named variant schemas. The tag is
// written first, then the selected variant's encoding.
type Choice struct {
	variants map[uint64]Coder
	tags     []uint64 // sorted
	tagCoder *UnsignedInteger
}

// NewChoice compiles a tagged union from a tag-to-variant map. It
// fails with a *DefinitionError when the map is empty, a variant
// coder is nil or registered under two tags, or a tag does not fit
// the tag width.
func NewChoice(variants map[uint64]Coder, cfg ChoiceConfig) (*Choice, error) {
	if len(variants) == 0 {
		return nil, definitionErrorf("choice needs at least one variant")
	}

	c := &Choice{
		variants: make(map[uint64]Coder, len(variants)),
		tags:     make([]uint64, 0, len(variants)),
	}
	reverse := make(map[Coder]uint64, len(variants))
	maxTag := uint64(0)
	for tag, variant := range variants {
		if variant == nil {
			return nil, definitionErrorf("variant %#x has no coder", tag)
		}
		if other, dup := reverse[variant]; dup {
			return nil, definitionErrorf(
				"tags %#x and %#x map to the same variant", other, tag)
		}
		reverse[variant] = tag
		c.variants[tag] = variant
		c.tags = append(c.tags, tag)
		if tag > maxTag {
			maxTag = tag
		}
	}
	sort.Slice(c.tags, func(i, j int) bool { return c.tags[i] < c.tags[j] })

	width := cfg.TagWidth
	if width == 0 {
		width = CapableOf(maxTag).width
	}
	if !common.IsStandardWidth(width) {
		return nil, definitionErrorf(
			"invalid tag width %d, supported widths are %v", width, common.StandardWidths)
	}
	if maxTag > common.MaxForWidth(width) {
		return nil, definitionErrorf(
			"%d variants up to tag %#x cannot be distinguished by a %d-byte tag",
			len(variants), maxTag, width)
	}
	var err error
	c.tagCoder, err = NewUnsignedInteger(UintConfig{
		Width:     width,
		ByteOrder: cfg.ByteOrder,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// TagWidth returns the byte width of the tag.
func (c *Choice) TagWidth() int { return c.tagCoder.width }

// Tags returns the registered tags in ascending order.
func (c *Choice) Tags() []uint64 {
	out := make([]uint64, len(c.tags))
	copy(out, c.tags)
	return out
}

// Variant returns the schema registered under tag.
func (c *Choice) Variant(tag uint64) (Coder, bool) {
	v, ok := c.variants[tag]
	return v, ok
}

// NewValue builds a ChoiceValue for tag. A nil value selects the
// variant's own default, produced fresh for this value.
func (c *Choice) NewValue(tag uint64, value any) (ChoiceValue, error) {
	variant, ok := c.variants[tag]
	if !ok {
		return ChoiceValue{}, validationErrorf("%#x is not a registered tag", tag)
	}
	if value == nil {
		value = variant.DefaultValue()
	}
	if err := variant.Validate(value); err != nil {
		return ChoiceValue{}, err
	}
	return ChoiceValue{Tag: tag, Value: value}, nil
}

// DefaultValue selects the lowest registered tag with that variant's
// default value.
func (c *Choice) DefaultValue() any {
	v, err := c.NewValue(c.tags[0], nil)
	if err != nil {
		panic("copperwire: choice default: " + err.Error())
	}
	return v
}

func (c *Choice) Validate(value any) error {
	cv, err := c.value(value)
	if err != nil {
		return err
	}
	variant, ok := c.variants[cv.Tag]
	if !ok {
		return validationErrorf("%#x is not a registered tag", cv.Tag)
	}
	if err := variant.Validate(cv.Value); err != nil {
		return validationErrorf("variant %#x: %v", cv.Tag, err)
	}
	return nil
}

func (c *Choice) value(value any) (ChoiceValue, error) {
	switch v := value.(type) {
	case ChoiceValue:
		return v, nil
	case *ChoiceValue:
		return *v, nil
	default:
		return ChoiceValue{}, validationErrorf(
			"%v (%T) is not a choice value", value, value)
	}
}

func (c *Choice) WriteTo(value any, w io.Writer) (int, error) {
	cv, err := c.value(value)
	if err != nil {
		return 0, err
	}
	if err := c.Validate(cv); err != nil {
		return 0, err
	}

	written, err := c.tagCoder.WriteTo(cv.Tag, w)
	if err != nil {
		return written, err
	}
	n, err := c.variants[cv.Tag].WriteTo(cv.Value, w)
	return written + n, err
}

func (c *Choice) ReadFrom(r io.Reader) (any, error) {
	tagValue, err := c.tagCoder.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	tag := tagValue.(uint64)
	variant, ok := c.variants[tag]
	if !ok {
		return nil, decodeErrorf("unknown tag %#x", tag)
	}
	v, err := variant.ReadFrom(r)
	if err != nil {
		return nil, err
	}
	return ChoiceValue{Tag: tag, Value: v}, nil
}

func (c *Choice) fixedSize() (int, bool) {
	size := -1
	for _, variant := range c.variants {
		vs, ok := SizeOf(variant)
		if !ok {
			return 0, false
		}
		if size >= 0 && vs != size {
			return 0, false
		}
		size = vs
	}
	return c.tagCoder.width + size, true
}
