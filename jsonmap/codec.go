package jsonmap

import (
	"github.com/oarkflow/jsonbind/logging"
	"github.com/oarkflow/jsonbind/scanner"
	"github.com/oarkflow/jsonbind/typeinfo"
)

// DefaultMaxDepth bounds the nesting of formatted and parsed values.
const DefaultMaxDepth = 10000

// Codec formats Go values as JSON and binds JSON to Go values. A Codec is
// immutable after New and safe for concurrent use.
type Codec struct {
	registry *typeinfo.Registry
	logger   logging.Logger
	maxDepth int
	scanner  scanner.Scanner
}

type Option func(*Codec)

// WithRegistry sets the registry used to describe types.
func WithRegistry(r *typeinfo.Registry) Option {
	return func(c *Codec) {
		if r != nil {
			c.registry = r
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *Codec) {
		c.logger = logging.OrNop(l)
	}
}

// WithMaxDepth sets the nesting limit; values below 1 restore the default.
func WithMaxDepth(n int) Option {
	return func(c *Codec) {
		if n < 1 {
			n = DefaultMaxDepth
		}
		c.maxDepth = n
	}
}

// WithLenientLiterals accepts true, false and null in any letter case.
func WithLenientLiterals(on bool) Option {
	return func(c *Codec) {
		c.scanner.Lenient = on
	}
}

func New(opts ...Option) *Codec {
	c := &Codec{
		registry: typeinfo.Default(),
		logger:   logging.Nop{},
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the registry the codec describes types with.
func (c *Codec) Registry() *typeinfo.Registry {
	return c.registry
}

var defaultCodec = New()

// Default returns the codec behind the package-level functions.
func Default() *Codec {
	return defaultCodec
}

// Marshal formats v with the default codec.
func Marshal(v any) ([]byte, error) {
	return defaultCodec.Marshal(v)
}

// Unmarshal binds data to v with the default codec.
func Unmarshal(data []byte, v any) error {
	return defaultCodec.Unmarshal(data, v)
}
