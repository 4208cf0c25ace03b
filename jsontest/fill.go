// Package jsontest fills Go values with random data for round-trip tests.
//
// A Filler walks the same descriptors the codec uses, so it skips ignored
// fields and never produces nulls inside containers. The values it builds
// format and parse back to an equal value.
package jsontest

import (
	"encoding"
	"fmt"
	"math/big"
	"reflect"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/oarkflow/jsonbind/jsonerr"
	"github.com/oarkflow/jsonbind/typeinfo"
)

type Filler struct {
	faker    *gofakeit.Faker
	registry *typeinfo.Registry

	// MaxLen bounds the length of generated slices and maps.
	MaxLen int
	// MaxDepth bounds pointer nesting; deeper pointers are left nil.
	MaxDepth int
}

// New returns a Filler whose output is fully determined by seed.
func New(seed int64) *Filler {
	return &Filler{
		faker:    gofakeit.New(seed),
		registry: typeinfo.Default(),
		MaxLen:   4,
		MaxDepth: 3,
	}
}

// WithRegistry returns f describing types through r.
func (f *Filler) WithRegistry(r *typeinfo.Registry) *Filler {
	f.registry = r
	return f
}

// Fill overwrites the value v points to with random content.
func (f *Filler) Fill(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return jsonerr.New(jsonerr.ErrInvalidTarget, fmt.Sprintf("%T", v))
	}
	return f.fill(f.registry.Describe(rv.Type().Elem()), rv.Elem(), 0)
}

func (f *Filler) fill(d *typeinfo.Descriptor, v reflect.Value, depth int) error {
	switch d.Kind {
	case typeinfo.Bool:
		v.SetBool(f.faker.Bool())
	case typeinfo.Integer:
		f.integer(v)
	case typeinfo.Decimal:
		f.decimal(v)
	case typeinfo.Text:
		v.SetString(f.text())
	case typeinfo.Identifier:
		u, ok := v.Addr().Interface().(encoding.TextUnmarshaler)
		if !ok {
			return nil
		}
		if err := u.UnmarshalText([]byte(f.faker.UUID())); err != nil {
			return fmt.Errorf("fill %s: %w", d.Type, err)
		}
	case typeinfo.Instant:
		v.Set(reflect.ValueOf(f.faker.Date().UTC()))
	case typeinfo.Sequence:
		n := d.Len
		if n < 0 {
			n = f.faker.Number(0, f.MaxLen)
			v.Set(reflect.MakeSlice(d.Type, n, n))
		}
		for i := 0; i < n; i++ {
			if err := f.fill(d.Elem, v.Index(i), depth); err != nil {
				return err
			}
		}
	case typeinfo.Mapping:
		n := f.faker.Number(0, f.MaxLen)
		m := reflect.MakeMapWithSize(d.Type, n)
		for i := 0; i < n; i++ {
			val := reflect.New(d.Elem.Type).Elem()
			if err := f.fill(d.Elem, val, depth); err != nil {
				return err
			}
			m.SetMapIndex(reflect.ValueOf(f.faker.Word()).Convert(d.Key.Type), val)
		}
		v.Set(m)
	case typeinfo.Record:
		for i := range d.Fields {
			field := &d.Fields[i]
			if field.Ignored {
				continue
			}
			if err := f.fill(field.Type, field.Value(v), depth); err != nil {
				return fmt.Errorf("field %q: %w", field.Name, err)
			}
		}
	case typeinfo.Pointer:
		if depth >= f.MaxDepth {
			v.Set(reflect.Zero(d.Type))
			return nil
		}
		p := reflect.New(d.Type.Elem())
		if err := f.fill(d.Elem, p.Elem(), depth+1); err != nil {
			return err
		}
		v.Set(p)
	case typeinfo.Dynamic:
		if d.Interface() {
			v.Set(reflect.ValueOf(f.faker.Word()))
		}
	}
	return nil
}

func (f *Filler) integer(v reflect.Value) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		var n int64
		switch v.Type().Bits() {
		case 8:
			n = int64(f.faker.Int8())
		case 16:
			n = int64(f.faker.Int16())
		case 32:
			n = int64(f.faker.Int32())
		default:
			n = f.faker.Int64()
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		var n uint64
		switch v.Type().Bits() {
		case 8:
			n = uint64(f.faker.Uint8())
		case 16:
			n = uint64(f.faker.Uint16())
		case 32:
			n = uint64(f.faker.Uint32())
		default:
			n = f.faker.Uint64()
		}
		v.SetUint(n)
	default:
		n := new(big.Int).SetInt64(f.faker.Int64())
		n.Mul(n, big.NewInt(1_000_000_007))
		v.Set(reflect.ValueOf(n).Elem())
	}
}

func (f *Filler) decimal(v reflect.Value) {
	switch v.Kind() {
	case reflect.Float32:
		v.SetFloat(float64(f.faker.Float32Range(-1e6, 1e6)))
	case reflect.Float64:
		v.SetFloat(f.faker.Float64Range(-1e9, 1e9))
	default:
		// quarters are exact at any precision
		x := big.NewFloat(float64(f.faker.Number(-1_000_000, 1_000_000)) / 4)
		v.Set(reflect.ValueOf(x).Elem())
	}
}

// specials are appended to some strings to exercise escaping.
var specials = []string{`"`, `\`, "\n", "\t", "\r", "\b", "\f", "/", "é", "世界"}

func (f *Filler) text() string {
	s := f.faker.Sentence(f.faker.Number(1, 6))
	if f.faker.Bool() {
		s += specials[f.faker.Number(0, len(specials)-1)]
	}
	return s
}
