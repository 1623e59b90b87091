package copperwire

import (
	"io"
)

// Member is one named field of a Record. The slice passed to
// NewRecord is the binary field order; nothing about it is inferred.
type Member struct {
	Name  string
	Coder Coder
}

// RecordValue holds one value per declared member of a Record.
type RecordValue map[string]any

// Record is a fixed, ordered composite of named member coders. The
// member table is compiled once at construction and is immutable
// afterwards; encode and decode always walk it in declared order.
type Record struct {
	members []Member
	index   map[string]int
}

// NewRecord compiles a record schema from an ordered member list. It
// fails with a *DefinitionError for empty or duplicate names and nil
// coders.
func NewRecord(members ...Member) (*Record, error) {
	r := &Record{
		members: make([]Member, len(members)),
		index:   make(map[string]int, len(members)),
	}
	copy(r.members, members)
	for i, m := range r.members {
		if m.Name == "" {
			return nil, definitionErrorf("record member %d has an empty name", i)
		}
		if m.Coder == nil {
			return nil, definitionErrorf("record member %s has no coder", m.Name)
		}
		if _, dup := r.index[m.Name]; dup {
			return nil, definitionErrorf("duplicate record member %s", m.Name)
		}
		r.index[m.Name] = i
	}
	return r, nil
}

// Members returns the member list in declared order.
func (r *Record) Members() []Member {
	out := make([]Member, len(r.members))
	copy(out, r.members)
	return out
}

// Member returns the coder registered under name.
func (r *Record) Member(name string) (Coder, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.members[i].Coder, true
}

// NewValue builds a RecordValue from fields, filling every omitted
// member with a fresh default from its coder. A field name not in the
// schema is a *ValidationError.
func (r *Record) NewValue(fields map[string]any) (RecordValue, error) {
	for name := range fields {
		if _, ok := r.index[name]; !ok {
			return nil, validationErrorf("%s is not a member of this record", name)
		}
	}
	value := make(RecordValue, len(r.members))
	for _, m := range r.members {
		if v, ok := fields[m.Name]; ok {
			value[m.Name] = v
			continue
		}
		value[m.Name] = m.Coder.DefaultValue()
	}
	return value, nil
}

func (r *Record) DefaultValue() any {
	value, err := r.NewValue(nil)
	if err != nil {
		panic("copperwire: record default: " + err.Error())
	}
	return value
}

func (r *Record) Validate(value any) error {
	fields, err := r.fields(value)
	if err != nil {
		return err
	}
	for _, m := range r.members {
		v, ok := fields[m.Name]
		if !ok {
			return validationErrorf("record member %s has no value", m.Name)
		}
		if err := m.Coder.Validate(v); err != nil {
			return validationErrorf("member %s: %v", m.Name, err)
		}
	}
	return nil
}

func (r *Record) fields(value any) (RecordValue, error) {
	switch v := value.(type) {
	case RecordValue:
		return v, nil
	case map[string]any:
		return v, nil
	default:
		return nil, validationErrorf("%v (%T) is not a record value", value, value)
	}
}

// WriteTo validates the whole value, then writes each member in
// declared order with no padding or separators between them.
func (r *Record) WriteTo(value any, w io.Writer) (int, error) {
	fields, err := r.fields(value)
	if err != nil {
		return 0, err
	}
	if err := r.Validate(fields); err != nil {
		return 0, err
	}

	written := 0
	for _, m := range r.members {
		n, err := m.Coder.WriteTo(fields[m.Name], w)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// ReadFrom decodes each member in declared order and returns a fully
// populated RecordValue.
func (r *Record) ReadFrom(rd io.Reader) (any, error) {
	value := make(RecordValue, len(r.members))
	for _, m := range r.members {
		v, err := m.Coder.ReadFrom(rd)
		if err != nil {
			return nil, err
		}
		value[m.Name] = v
	}
	return value, nil
}

func (r *Record) fixedSize() (int, bool) {
	total := 0
	for _, m := range r.members {
		size, ok := SizeOf(m.Coder)
		if !ok {
			return 0, false
		}
		total += size
	}
	return total, true
}
