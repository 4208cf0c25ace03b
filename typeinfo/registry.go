// Package typeinfo describes Go types for the codec: their kind, element
// types and record fields, and how to build a blank instance of them.
//
// Descriptors are computed once per type and cached by a Registry.
package typeinfo

import (
	"encoding"
	"math/big"
	"reflect"
	"runtime"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"
	goreflect "github.com/goccy/go-reflect"

	"github.com/oarkflow/jsonbind/logging"
)

var (
	timeType            = reflect.TypeOf(time.Time{})
	bigIntType          = reflect.TypeOf(big.Int{})
	bigFloatType        = reflect.TypeOf(big.Float{})
	jsonMarshalerType   = reflect.TypeOf((*gojson.Marshaler)(nil)).Elem()
	jsonUnmarshalerType = reflect.TypeOf((*gojson.Unmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

var nullDescriptor = &Descriptor{Kind: Null, Len: -1}

type constructor struct {
	name string
	fn   func() (reflect.Value, error)
}

// Registry caches type descriptors and blank-instance constructors. It is
// safe for concurrent use; each type is described at most once.
type Registry struct {
	types sync.Map // reflect.Type -> *Descriptor
	ids   sync.Map // type id -> *Descriptor
	ctors sync.Map // reflect.Type -> constructor

	mu     sync.Mutex
	logger logging.Logger
}

type RegistryOption func(*Registry)

func WithLogger(l logging.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logging.OrNop(l)
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{logger: logging.Nop{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// DescribeValue returns the descriptor of v's dynamic type.
func (r *Registry) DescribeValue(v any) *Descriptor {
	if v == nil {
		return nullDescriptor
	}
	id := goreflect.TypeID(v)
	if d, ok := r.ids.Load(id); ok {
		return d.(*Descriptor)
	}
	d := r.Describe(reflect.TypeOf(v))
	r.ids.Store(id, d)
	return d
}

// Describe returns the descriptor of t.
func (r *Registry) Describe(t reflect.Type) *Descriptor {
	if t == nil {
		return nullDescriptor
	}
	if d, ok := r.types.Load(t); ok {
		return d.(*Descriptor)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.types.Load(t); ok {
		return d.(*Descriptor)
	}
	b := builder{registry: r, building: make(map[reflect.Type]*Descriptor)}
	d := b.describe(t)
	// Only complete descriptors are published.
	for typ, built := range b.building {
		r.types.Store(typ, built)
	}
	return d
}

type builder struct {
	registry *Registry
	building map[reflect.Type]*Descriptor
}

func (b *builder) describe(t reflect.Type) *Descriptor {
	if d, ok := b.registry.types.Load(t); ok {
		return d.(*Descriptor)
	}
	if d, ok := b.building[t]; ok {
		return d
	}
	d := &Descriptor{Type: t, Len: -1}
	b.building[t] = d
	b.fill(d)
	if d.Kind == Record {
		b.registry.logger.Debug("described type", logging.Fields{
			"type":   t.String(),
			"fields": len(d.Fields),
		})
	}
	return d
}

func (b *builder) fill(d *Descriptor) {
	t := d.Type
	switch t {
	case timeType:
		d.Kind = Instant
		return
	case bigIntType:
		d.Kind = Integer
		return
	case bigFloatType:
		d.Kind = Decimal
		return
	}
	switch t.Kind() {
	case reflect.Pointer:
		d.Kind = Pointer
		d.Elem = b.describe(t.Elem())
		return
	case reflect.Interface:
		d.Kind = Dynamic
		return
	}
	// The method set of *T includes both value and pointer receivers.
	ptr := reflect.PointerTo(t)
	if ptr.Implements(jsonMarshalerType) && ptr.Implements(jsonUnmarshalerType) {
		d.Kind = Custom
		return
	}
	if ptr.Implements(textMarshalerType) && ptr.Implements(textUnmarshalerType) {
		d.Kind = Identifier
		return
	}
	switch t.Kind() {
	case reflect.Bool:
		d.Kind = Bool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		d.Kind = Integer
	case reflect.Float32, reflect.Float64:
		d.Kind = Decimal
	case reflect.String:
		d.Kind = Text
	case reflect.Slice:
		d.Kind = Sequence
		d.Elem = b.describe(t.Elem())
	case reflect.Array:
		d.Kind = Sequence
		d.Len = t.Len()
		d.Elem = b.describe(t.Elem())
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			d.Kind = Unsupported
			return
		}
		d.Kind = Mapping
		d.Key = b.describe(t.Key())
		d.Elem = b.describe(t.Elem())
	case reflect.Struct:
		d.Kind = Record
		d.index = make(map[string]int)
		b.fields(d, t, nil)
	default:
		d.Kind = Unsupported
	}
}

// fields appends the exported fields of t to d, flattening untagged
// embedded structs.
func (b *builder) fields(d *Descriptor, t reflect.Type, parent []int) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() && !sf.Anonymous {
			continue
		}
		index := make([]int, len(parent)+1)
		copy(index, parent)
		index[len(parent)] = i
		tag, tagged := sf.Tag.Lookup("json")
		if sf.Anonymous && !tagged && sf.Type.Kind() == reflect.Struct {
			b.fields(d, sf.Type, index)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		opts := parseJSONTag(tag, sf.Name)
		f := Field{
			Name:        opts.name,
			GoName:      sf.Name,
			Index:       index,
			Type:        b.describe(sf.Type),
			Ignored:     opts.ignored,
			IncludeNull: opts.includeNull,
			OmitEmpty:   opts.omitEmpty,
		}
		f.Default, f.HasDefault = sf.Tag.Lookup("default")
		if f.Ignored {
			d.Fields = append(d.Fields, f)
			continue
		}
		if j, dup := d.index[f.Name]; dup {
			// A shallower field hides a deeper one; at equal depth the
			// first declared wins.
			if len(f.Index) < len(d.Fields[j].Index) {
				d.Fields[j] = f
			}
			continue
		}
		d.Fields = append(d.Fields, f)
		d.index[f.Name] = len(d.Fields) - 1
	}
}

// Register installs fn as the blank-instance constructor of T.
func Register[T any](r *Registry, fn func() (T, error)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	name := funcName(fn)
	r.ctors.Store(t, constructor{
		name: name,
		fn: func() (reflect.Value, error) {
			v, err := fn()
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(&v).Elem(), nil
		},
	})
	r.logger.Debug("registered constructor", logging.Fields{"type": t.String(), "func": name})
}

func funcName(fn any) string {
	ptr := goreflect.ValueOf(fn).Pointer()
	if info := runtime.FuncForPC(ptr); info != nil {
		return info.Name()
	}
	return ""
}
