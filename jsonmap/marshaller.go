package jsonmap

import (
	"bytes"
	"encoding"
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/oarkflow/jsonbind/escape"
	"github.com/oarkflow/jsonbind/jsonerr"
	"github.com/oarkflow/jsonbind/logging"
	"github.com/oarkflow/jsonbind/typeinfo"
)

type encoder struct {
	buf   []byte
	codec *Codec
}

func newEncoder() *encoder {
	const initialCapacity = 512
	return &encoder{buf: make([]byte, 0, initialCapacity)}
}

func (e *encoder) reset(c *Codec) {
	e.buf = e.buf[:0]
	e.codec = c
}

var (
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	jsonMarshalerType = reflect.TypeOf((*gojson.Marshaler)(nil)).Elem()
)

// receiver returns v as an interface implementing iface, taking the
// address of v, or of a copy of it, when the methods are declared on *T.
func receiver(v reflect.Value, iface reflect.Type) any {
	if v.Type().Implements(iface) {
		return v.Interface()
	}
	if v.CanAddr() {
		return v.Addr().Interface()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface()
}

var encoderPool = sync.Pool{
	New: func() any { return newEncoder() },
}

// Marshal formats v as JSON. A null v (nil, or a nil pointer, map, slice
// or interface) yields a nil slice and no error.
func (c *Codec) Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if typeinfo.IsNullDeep(rv) {
		return nil, nil
	}
	enc := encoderPool.Get().(*encoder)
	enc.reset(c)
	if err := enc.encode(c.registry.DescribeValue(v), rv, 0); err != nil {
		encoderPool.Put(enc)
		return nil, jsonerr.At(err, 0, "$")
	}
	ret := make([]byte, len(enc.buf))
	copy(ret, enc.buf)
	encoderPool.Put(enc)
	return ret, nil
}

func (e *encoder) encode(d *typeinfo.Descriptor, v reflect.Value, depth int) error {
	if depth > e.codec.maxDepth {
		return jsonerr.New(jsonerr.ErrMaxDepth, strconv.Itoa(e.codec.maxDepth))
	}
	switch d.Kind {
	case typeinfo.Null:
		e.buf = append(e.buf, "null"...)
	case typeinfo.Bool:
		e.buf = strconv.AppendBool(e.buf, v.Bool())
	case typeinfo.Integer:
		return e.encodeInteger(v)
	case typeinfo.Decimal:
		return e.encodeDecimal(d, v)
	case typeinfo.Text:
		e.encodeString(v.String())
	case typeinfo.Identifier:
		text, err := receiver(v, textMarshalerType).(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return jsonerr.Wrap(jsonerr.ErrFormat, d.Type.String(), err)
		}
		e.encodeString(string(text))
	case typeinfo.Instant:
		e.buf = append(e.buf, '"')
		e.buf = typeinfo.FormatInstant(e.buf, v.Interface().(time.Time))
		e.buf = append(e.buf, '"')
	case typeinfo.Sequence:
		return e.encodeSequence(d, v, depth)
	case typeinfo.Mapping:
		return e.encodeMapping(d, v, depth)
	case typeinfo.Record:
		return e.encodeRecord(d, v, depth)
	case typeinfo.Pointer:
		if v.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		return e.encode(d.Elem, v.Elem(), depth+1)
	case typeinfo.Dynamic:
		if v.IsNil() {
			e.buf = append(e.buf, "null"...)
			return nil
		}
		inner := v.Elem()
		return e.encode(e.codec.registry.Describe(inner.Type()), inner, depth+1)
	case typeinfo.Custom:
		return e.encodeCustom(d, v)
	default:
		e.codec.logger.Warn("unsupported value", logging.Fields{"type": fmt.Sprint(d.Type)})
		return jsonerr.New(jsonerr.ErrUnsupportedType, fmt.Sprint(d.Type))
	}
	return nil
}

func (e *encoder) encodeInteger(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.buf = strconv.AppendInt(e.buf, v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.buf = strconv.AppendUint(e.buf, v.Uint(), 10)
	default:
		n := v.Interface().(big.Int)
		e.buf = n.Append(e.buf, 10)
	}
	return nil
}

func (e *encoder) encodeDecimal(d *typeinfo.Descriptor, v reflect.Value) error {
	if v.Kind() == reflect.Struct {
		f := v.Interface().(big.Float)
		if f.IsInf() {
			return jsonerr.New(jsonerr.ErrUnsupportedType, "infinite big.Float")
		}
		e.buf = f.Append(e.buf, 'g', -1)
		return nil
	}
	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return jsonerr.New(jsonerr.ErrUnsupportedType, strconv.FormatFloat(f, 'g', -1, 64))
	}
	e.buf = appendFloat(e.buf, f, d.Type.Bits())
	return nil
}

// appendFloat writes the shortest text that parses back to f, switching
// to exponent notation for very small and very large magnitudes.
func appendFloat(dst []byte, f float64, bits int) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) ||
			bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	dst = strconv.AppendFloat(dst, f, format, -1, bits)
	if format == 'e' {
		// e-09 becomes e-9
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}

func (e *encoder) encodeString(s string) {
	e.buf = append(e.buf, '"')
	e.buf = escape.Append(e.buf, s)
	e.buf = append(e.buf, '"')
}

func (e *encoder) encodeSequence(d *typeinfo.Descriptor, v reflect.Value, depth int) error {
	e.buf = append(e.buf, '[')
	first := true
	n := v.Len()
	for i := 0; i < n; i++ {
		item := v.Index(i)
		if typeinfo.IsNullDeep(item) {
			continue
		}
		if !first {
			e.buf = append(e.buf, ',')
		}
		first = false
		if err := e.encode(d.Elem, item, depth+1); err != nil {
			return jsonerr.At(err, 0, "["+strconv.Itoa(i)+"]")
		}
	}
	e.buf = append(e.buf, ']')
	return nil
}

func (e *encoder) encodeMapping(d *typeinfo.Descriptor, v reflect.Value, depth int) error {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	e.buf = append(e.buf, '{')
	first := true
	for _, k := range keys {
		val := v.MapIndex(k)
		if typeinfo.IsNullDeep(val) {
			continue
		}
		if !first {
			e.buf = append(e.buf, ',')
		}
		first = false
		e.encodeString(k.String())
		e.buf = append(e.buf, ':')
		if err := e.encode(d.Elem, val, depth+1); err != nil {
			return jsonerr.At(err, 0, "."+k.String())
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

func (e *encoder) encodeRecord(d *typeinfo.Descriptor, v reflect.Value, depth int) error {
	e.buf = append(e.buf, '{')
	first := true
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Ignored {
			continue
		}
		fv := f.Value(v)
		null := typeinfo.IsNullDeep(fv)
		if null && !f.IncludeNull || f.OmitEmpty && fv.IsZero() {
			continue
		}
		if !first {
			e.buf = append(e.buf, ',')
		}
		first = false
		e.encodeString(f.Name)
		e.buf = append(e.buf, ':')
		if null {
			e.buf = append(e.buf, "null"...)
			continue
		}
		if err := e.encode(f.Type, fv, depth+1); err != nil {
			return jsonerr.At(err, 0, "."+f.Name)
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

func (e *encoder) encodeCustom(d *typeinfo.Descriptor, v reflect.Value) error {
	raw, err := receiver(v, jsonMarshalerType).(gojson.Marshaler).MarshalJSON()
	if err != nil {
		return jsonerr.Wrap(jsonerr.ErrFormat, d.Type.String(), err)
	}
	var buf bytes.Buffer
	if err := gojson.Compact(&buf, raw); err != nil {
		return jsonerr.Wrap(jsonerr.ErrFormat, d.Type.String()+" produced invalid JSON", err)
	}
	e.buf = append(e.buf, buf.Bytes()...)
	return nil
}

// Encoder writes one JSON document per Encode call, each followed by a
// newline.
type Encoder struct {
	w     io.Writer
	codec *Codec
	enc   *encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return defaultCodec.NewEncoder(w)
}

func (c *Codec) NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		w:     w,
		codec: c,
		enc:   newEncoder(),
	}
}

// Encode writes v. A null v is written as the literal null.
func (e *Encoder) Encode(v any) error {
	e.enc.reset(e.codec)
	rv := reflect.ValueOf(v)
	if typeinfo.IsNullDeep(rv) {
		e.enc.buf = append(e.enc.buf, "null"...)
	} else if err := e.enc.encode(e.codec.registry.DescribeValue(v), rv, 0); err != nil {
		return jsonerr.At(err, 0, "$")
	}
	e.enc.buf = append(e.enc.buf, '\n')
	_, err := e.w.Write(e.enc.buf)
	return err
}
