package copperwire

import (
	"cmp"
	"fmt"
)

// RangeValidator checks that a value lies inside an inclusive range.
// Either bound may be nil, meaning no limit on that side. It stands
// alone from the coder protocol so callers can reuse it on values
// that never touch the wire.
type RangeValidator[T cmp.Ordered] struct {
	Min *T
	Max *T
}

// Validate returns nil when value satisfies the bounds, otherwise a
// *ValidationError naming the value and the violated range.
func (r RangeValidator[T]) Validate(value T) error {
	if (r.Min == nil || value >= *r.Min) && (r.Max == nil || value <= *r.Max) {
		return nil
	}
	return validationErrorf("%v is out of [%s, %s]",
		value, boundString(r.Min), boundString(r.Max))
}

func boundString[T cmp.Ordered](b *T) string {
	if b == nil {
		return "-"
	}
	return fmt.Sprint(*b)
}
