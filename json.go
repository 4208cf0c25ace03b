// Package json converts Go values to JSON text and back by walking their
// type metadata at call time.
//
// Format and Parse always use the codec installed with SetDefault. Marshal,
// Unmarshal, NewEncoder and NewDecoder go through swappable backends that
// default to the same codec.
package json

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync/atomic"

	gojson "github.com/goccy/go-json"

	"github.com/oarkflow/jsonbind/decoder"
	"github.com/oarkflow/jsonbind/encoder"
	"github.com/oarkflow/jsonbind/jsonerr"
	"github.com/oarkflow/jsonbind/jsonmap"
	"github.com/oarkflow/jsonbind/marshaler"
	"github.com/oarkflow/jsonbind/scanner"
	"github.com/oarkflow/jsonbind/typeinfo"
	"github.com/oarkflow/jsonbind/unmarshaler"
)

type (
	Codec  = jsonmap.Codec
	Option = jsonmap.Option
)

var (
	WithRegistry        = jsonmap.WithRegistry
	WithLogger          = jsonmap.WithLogger
	WithMaxDepth        = jsonmap.WithMaxDepth
	WithLenientLiterals = jsonmap.WithLenientLiterals
)

var current atomic.Pointer[Codec]

func init() {
	current.Store(jsonmap.Default())
}

func New(opts ...Option) *Codec {
	return jsonmap.New(opts...)
}

// SetDefault installs c behind Format and Parse and as every backend. A
// nil c restores the built-in codec.
func SetDefault(c *Codec) {
	if c == nil {
		c = jsonmap.Default()
	}
	current.Store(c)
	marshaler.SetMarshaler(c.Marshal)
	unmarshaler.SetUnmarshaler(c.Unmarshal)
	encoder.SetEncoder(func(w io.Writer) encoder.IEncoder { return c.NewEncoder(w) })
	decoder.SetDecoder(func(r io.Reader) decoder.IDecoder { return c.NewDecoder(r) })
}

// Register installs fn as the constructor of blank T instances in the
// default registry.
func Register[T any](fn func() (T, error)) {
	typeinfo.Register(typeinfo.Default(), fn)
}

// Format returns the JSON text of v, or nil when v is null.
func Format(v any) ([]byte, error) {
	return current.Load().Marshal(v)
}

// Parse binds data to the value dst points to.
func Parse(data []byte, dst any) error {
	return current.Load().Unmarshal(data, dst)
}

// ParseAs parses data into a new T.
func ParseAs[T any](data []byte) (T, error) {
	var out T
	err := Parse(data, &out)
	return out, err
}

// ToMap returns the raw text of every member of a JSON object.
func ToMap(data []byte) (map[string]string, error) {
	return scanner.ToMap(string(data))
}

// ToList returns the raw text of every element of a JSON array.
func ToList(data []byte) ([]string, error) {
	return scanner.ToList(string(data))
}

func Marshal(data any) ([]byte, error) {
	return marshaler.Instance()(data)
}

func Unmarshal(data []byte, dst any) error {
	if rv := reflect.ValueOf(dst); rv.Kind() != reflect.Ptr || rv.IsNil() {
		return jsonerr.New(jsonerr.ErrInvalidTarget, fmt.Sprintf("%T", dst))
	}
	return unmarshaler.Instance()(data, dst)
}

// Valid reports whether data is one well-formed JSON value.
func Valid(data []byte) bool {
	return gojson.Valid(data)
}

// Is is a quick check that s looks like a JSON object or array with
// balanced brackets. It does not validate scalars; use Valid for that.
func Is(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return false
	}
	if s[0] != '{' && s[0] != '[' {
		return false
	}
	if s[len(s)-1] != '}' && s[len(s)-1] != ']' {
		return false
	}
	const maxDepth = 1024
	var stack [maxDepth]byte
	sp := 0

	for i := 0; i < len(s); i++ {
		char := s[i]
		switch char {
		case '{', '[':
			if sp >= maxDepth {
				return false
			}
			stack[sp] = char
			sp++
		case '}', ']':
			if sp == 0 {
				return false
			}
			sp--
			opening := stack[sp]
			if (char == '}' && opening != '{') || (char == ']' && opening != '[') {
				return false
			}
		case '"':
			i++
			for i < len(s) {
				if s[i] == '\\' {
					i++
				} else if s[i] == '"' {
					break
				}
				i++
			}
		}
	}

	return sp == 0
}
