package jsonmap

import (
	"encoding"
	"fmt"
	"io"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/oarkflow/jsonbind/escape"
	"github.com/oarkflow/jsonbind/jsonerr"
	"github.com/oarkflow/jsonbind/logging"
	"github.com/oarkflow/jsonbind/scanner"
	"github.com/oarkflow/jsonbind/typeinfo"
)

// Unmarshal binds the JSON document in data to the value v points to.
// Empty data is treated as absent and leaves v untouched.
func (c *Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return jsonerr.New(jsonerr.ErrInvalidTarget, fmt.Sprintf("%T", v))
	}
	d := c.registry.Describe(rv.Type().Elem())
	if err := c.decode(d, string(data), rv.Elem(), 0); err != nil {
		return jsonerr.At(err, 0, "$")
	}
	return nil
}

// decode binds raw to dst, which must be settable. Offsets in the returned
// error are relative to raw.
func (c *Codec) decode(d *typeinfo.Descriptor, raw string, dst reflect.Value, depth int) error {
	if depth > c.maxDepth {
		return jsonerr.New(jsonerr.ErrMaxDepth, strconv.Itoa(c.maxDepth))
	}
	text, lead := trim(raw)
	if text == "" {
		return jsonerr.UnexpectedEnd(len(raw))
	}
	if c.isNull(text) {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	var err error
	switch d.Kind {
	case typeinfo.Bool:
		var b bool
		if b, err = c.parseBool(text); err == nil {
			dst.SetBool(b)
		}
	case typeinfo.Integer:
		err = decodeInteger(text, dst)
	case typeinfo.Decimal:
		err = decodeDecimal(text, dst)
	case typeinfo.Text:
		var s string
		if s, err = escape.Unquote(text); err == nil {
			dst.SetString(s)
		}
	case typeinfo.Identifier:
		var s string
		if s, err = escape.Unquote(text); err == nil {
			if uerr := dst.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); uerr != nil {
				err = formatErr(text, d.Type.String(), uerr)
			}
		}
	case typeinfo.Instant:
		var s string
		if s, err = escape.Unquote(text); err == nil {
			t, perr := typeinfo.ParseInstant(s)
			if perr != nil {
				err = formatErr(text, "instant", perr)
			} else {
				dst.Set(reflect.ValueOf(t))
			}
		}
	case typeinfo.Sequence:
		err = c.decodeSequence(d, text, dst, depth)
	case typeinfo.Mapping:
		err = c.decodeMapping(d, text, dst, depth)
	case typeinfo.Record:
		err = c.decodeRecord(d, text, dst, depth)
	case typeinfo.Pointer:
		p := reflect.New(d.Type.Elem())
		if err = c.decode(d.Elem, text, p.Elem(), depth+1); err == nil {
			dst.Set(p)
		}
	case typeinfo.Dynamic:
		if !d.Interface() {
			err = jsonerr.New(jsonerr.ErrConstruction, "cannot bind to non-empty interface "+d.Type.String())
			break
		}
		var val any
		if val, err = c.dynamic(text, depth); err == nil {
			dst.Set(reflect.ValueOf(&val).Elem())
		}
	case typeinfo.Custom:
		if uerr := dst.Addr().Interface().(gojson.Unmarshaler).UnmarshalJSON([]byte(text)); uerr != nil {
			err = formatErr(text, d.Type.String(), uerr)
		}
	default:
		err = jsonerr.New(jsonerr.ErrUnsupportedType, fmt.Sprint(d.Type))
	}
	if err != nil {
		return jsonerr.At(err, lead, "")
	}
	return nil
}

func (c *Codec) decodeSequence(d *typeinfo.Descriptor, text string, dst reflect.Value, depth int) error {
	if text[0] != '[' {
		return structuralErr(text, "expected array")
	}
	members, err := c.scanner.Scan(text, scanner.Array)
	if err != nil {
		return err
	}
	var seq reflect.Value
	if d.Len >= 0 {
		if len(members) != d.Len {
			return structuralErr(text, fmt.Sprintf("expected %d elements, got %d", d.Len, len(members)))
		}
		seq = reflect.New(d.Type).Elem()
	} else {
		seq = reflect.MakeSlice(d.Type, len(members), len(members))
	}
	for i, m := range members {
		if err := c.decode(d.Elem, m.Value, seq.Index(i), depth+1); err != nil {
			return jsonerr.At(err, m.Offset, "["+strconv.Itoa(i)+"]")
		}
	}
	dst.Set(seq)
	return nil
}

func (c *Codec) decodeMapping(d *typeinfo.Descriptor, text string, dst reflect.Value, depth int) error {
	if text[0] != '{' {
		return structuralErr(text, "expected object")
	}
	members, err := c.scanner.Scan(text, scanner.Object)
	if err != nil {
		return err
	}
	m := reflect.MakeMapWithSize(d.Type, len(members))
	for _, mb := range members {
		val := reflect.New(d.Elem.Type).Elem()
		if err := c.decode(d.Elem, mb.Value, val, depth+1); err != nil {
			return jsonerr.At(err, mb.Offset, "."+mb.Key)
		}
		m.SetMapIndex(reflect.ValueOf(mb.Key).Convert(d.Key.Type), val)
	}
	dst.Set(m)
	return nil
}

func (c *Codec) decodeRecord(d *typeinfo.Descriptor, text string, dst reflect.Value, depth int) error {
	if text[0] != '{' {
		return structuralErr(text, "expected object")
	}
	members, err := c.scanner.Scan(text, scanner.Object)
	if err != nil {
		return err
	}
	rec, err := c.registry.New(d)
	if err != nil {
		return err
	}
	for _, mb := range members {
		f, ok := d.Lookup(mb.Key)
		if !ok {
			c.logger.Debug("ignored unknown key", logging.Fields{
				"type": d.Type.String(),
				"key":  mb.Key,
			})
			continue
		}
		if c.isNull(mb.Value) {
			continue
		}
		if err := c.decode(f.Type, mb.Value, f.Value(rec), depth+1); err != nil {
			return jsonerr.At(err, mb.Offset, "."+f.Name)
		}
	}
	dst.Set(rec)
	return nil
}

// dynamic decodes text without a declared type into map[string]any, []any,
// string, float64, bool or nil.
func (c *Codec) dynamic(text string, depth int) (any, error) {
	if depth > c.maxDepth {
		return nil, jsonerr.New(jsonerr.ErrMaxDepth, strconv.Itoa(c.maxDepth))
	}
	switch ch := text[0]; {
	case ch == '{':
		members, err := c.scanner.Scan(text, scanner.Object)
		if err != nil {
			return nil, err
		}
		obj := make(map[string]any, len(members))
		for _, mb := range members {
			val, err := c.dynamic(mb.Value, depth+1)
			if err != nil {
				return nil, jsonerr.At(err, mb.Offset, "."+mb.Key)
			}
			obj[mb.Key] = val
		}
		return obj, nil
	case ch == '[':
		members, err := c.scanner.Scan(text, scanner.Array)
		if err != nil {
			return nil, err
		}
		arr := make([]any, len(members))
		for i, m := range members {
			val, err := c.dynamic(m.Value, depth+1)
			if err != nil {
				return nil, jsonerr.At(err, m.Offset, "["+strconv.Itoa(i)+"]")
			}
			arr[i] = val
		}
		return arr, nil
	case ch == '"':
		return escape.Unquote(text)
	case ch == '-' || ch >= '0' && ch <= '9':
		if !isNumber(text) {
			return nil, formatErr(text, "invalid number", nil)
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, formatErr(text, "invalid number", err)
		}
		return f, nil
	case c.isNull(text):
		return nil, nil
	}
	return c.parseBool(text)
}

func (c *Codec) isNull(text string) bool {
	if c.scanner.Lenient {
		return strings.EqualFold(text, "null")
	}
	return text == "null"
}

func (c *Codec) parseBool(text string) (bool, error) {
	switch {
	case text == "true", c.scanner.Lenient && strings.EqualFold(text, "true"):
		return true, nil
	case text == "false", c.scanner.Lenient && strings.EqualFold(text, "false"):
		return false, nil
	}
	return false, formatErr(text, "invalid boolean", nil)
}

func decodeInteger(text string, dst reflect.Value) error {
	if !isNumber(text) {
		return formatErr(text, "invalid integer", nil)
	}
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, dst.Type().Bits())
		if err != nil {
			return formatErr(text, "invalid integer", err)
		}
		dst.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(text, 10, dst.Type().Bits())
		if err != nil {
			return formatErr(text, "invalid integer", err)
		}
		dst.SetUint(n)
	default:
		n, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return formatErr(text, "invalid integer", nil)
		}
		dst.Set(reflect.ValueOf(n).Elem())
	}
	return nil
}

// bigFloatPrec is the mantissa precision of parsed big.Float values.
const bigFloatPrec = 256

func decodeDecimal(text string, dst reflect.Value) error {
	if !isNumber(text) {
		return formatErr(text, "invalid number", nil)
	}
	if dst.Kind() == reflect.Struct {
		f, _, err := big.ParseFloat(text, 10, bigFloatPrec, big.ToNearestEven)
		if err != nil {
			return formatErr(text, "invalid number", err)
		}
		dst.Set(reflect.ValueOf(f).Elem())
		return nil
	}
	f, err := strconv.ParseFloat(text, dst.Type().Bits())
	if err != nil {
		return formatErr(text, "invalid number", err)
	}
	dst.SetFloat(f)
	return nil
}

// isNumber reports whether s is a JSON number.
func isNumber(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// trim strips JSON whitespace and returns the offset of the first kept byte.
func trim(s string) (string, int) {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end], start
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func formatErr(text, msg string, cause error) *jsonerr.Error {
	return &jsonerr.Error{Kind: jsonerr.ErrFormat, Offset: 0, Char: text[0], Msg: msg, Err: cause}
}

func structuralErr(text, msg string) *jsonerr.Error {
	return &jsonerr.Error{Kind: jsonerr.ErrStructural, Offset: 0, Char: text[0], Msg: msg}
}

// Decoder reads a whole JSON document from r per Decode call.
type Decoder struct {
	r     io.Reader
	codec *Codec
}

func NewDecoder(r io.Reader) *Decoder {
	return defaultCodec.NewDecoder(r)
}

func (c *Codec) NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, codec: c}
}

// Decode reads r to EOF and binds the content to v. It returns io.EOF when
// r yields no data.
func (d *Decoder) Decode(v any) error {
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return io.EOF
	}
	return d.codec.Unmarshal(data, v)
}
