package typeinfo

import (
	"reflect"
)

// Descriptor is the metadata of one Go type. Descriptors handed out by a
// Registry are complete and must not be modified.
type Descriptor struct {
	Kind Kind
	Type reflect.Type

	// Elem is the element of a Sequence, the value of a Mapping or the
	// target of a Pointer.
	Elem *Descriptor
	// Key is the key of a Mapping.
	Key *Descriptor
	// Fields lists the fields of a Record in declaration order.
	Fields []Field
	// Len is the length of a fixed-size array, -1 otherwise.
	Len int

	index map[string]int
}

// Field is one member of a Record.
type Field struct {
	Name   string
	GoName string
	Index  []int
	Type   *Descriptor

	Ignored     bool
	IncludeNull bool
	OmitEmpty   bool

	Default    string
	HasDefault bool
}

// Lookup returns the non-ignored field named name.
func (d *Descriptor) Lookup(name string) (*Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return &d.Fields[i], true
}

// Interface reports whether a Dynamic descriptor is the empty interface.
func (d *Descriptor) Interface() bool {
	return d.Kind == Dynamic && d.Type.NumMethod() == 0
}

// IsNull reports whether v is null: invalid, or a nil pointer, map, slice
// or interface.
func IsNull(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// IsNullDeep is IsNull after unwrapping non-nil interfaces and pointers, so
// an interface holding a nil pointer is null.
func IsNullDeep(v reflect.Value) bool {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) && !v.IsNil() {
		v = v.Elem()
	}
	return IsNull(v)
}

// Value returns the field of record rec. The result is settable when rec
// is addressable.
func (f *Field) Value(rec reflect.Value) reflect.Value {
	return rec.FieldByIndex(f.Index)
}
