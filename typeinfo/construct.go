package typeinfo

import (
	"encoding"
	"fmt"
	"reflect"
	"time"

	"github.com/oarkflow/expr"

	"github.com/oarkflow/jsonbind/jsonerr"
)

// New returns a settable blank instance of d's type: the registered
// constructor's value, or the zero value with `default` tags applied.
func (r *Registry) New(d *Descriptor) (reflect.Value, error) {
	if d.Type == nil || d.Kind == Unsupported || (d.Kind == Dynamic && !d.Interface()) {
		return reflect.Value{}, jsonerr.New(jsonerr.ErrConstruction, fmt.Sprintf("no constructor for %v", d.Type))
	}
	v := reflect.New(d.Type).Elem()
	if c, ok := r.ctors.Load(d.Type); ok {
		ctor := c.(constructor)
		inst, err := ctor.fn()
		if err != nil {
			return reflect.Value{}, jsonerr.Wrap(jsonerr.ErrConstruction, ctor.name, err)
		}
		v.Set(inst)
		return v, nil
	}
	if d.Kind != Record {
		return v, nil
	}
	for i := range d.Fields {
		f := &d.Fields[i]
		if !f.HasDefault || f.Ignored {
			continue
		}
		dst := f.Value(v)
		err := assign(dst, f.Type, evalDefault(f.Default))
		if err != nil {
			// "42" for a string field or "2024-01-01" for a time
			// evaluate to numbers; the tag text itself may still fit.
			err = assign(dst, f.Type, f.Default)
		}
		if err != nil {
			return reflect.Value{}, jsonerr.Wrap(jsonerr.ErrConstruction, fmt.Sprintf("default of field %q", f.Name), err)
		}
	}
	return v, nil
}

// evalDefault evaluates a `default` tag expression; text that is not a
// valid expression, or that names an unknown variable, is taken literally.
func evalDefault(src string) any {
	val, err := expr.Eval(src, map[string]any{})
	if err != nil || val == nil {
		return src
	}
	return val
}

// assign stores a default value into dst, converting between compatible
// scalar kinds.
func assign(dst reflect.Value, d *Descriptor, val any) error {
	if val == nil {
		return nil
	}
	switch d.Kind {
	case Pointer:
		p := reflect.New(d.Type.Elem())
		if err := assign(p.Elem(), d.Elem, val); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	case Instant:
		switch x := val.(type) {
		case time.Time:
			dst.Set(reflect.ValueOf(x))
			return nil
		case string:
			t, err := ParseInstant(x)
			if err != nil {
				return err
			}
			dst.Set(reflect.ValueOf(t))
			return nil
		}
	case Identifier:
		if s, ok := val.(string); ok {
			return dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
		}
	}
	src := reflect.ValueOf(val)
	if src.Type().AssignableTo(d.Type) {
		dst.Set(src)
		return nil
	}
	if compatible(src.Kind(), d.Type.Kind()) && src.Type().ConvertibleTo(d.Type) {
		dst.Set(src.Convert(d.Type))
		return nil
	}
	return fmt.Errorf("cannot use %T as %s", val, d.Type)
}

func compatible(from, to reflect.Kind) bool {
	switch {
	case numeric(from) && numeric(to):
		return true
	case from == reflect.String && to == reflect.String:
		return true
	case from == reflect.Bool && to == reflect.Bool:
		return true
	}
	return false
}

func numeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}
