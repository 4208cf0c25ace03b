package decoder

import (
	"io"

	"github.com/oarkflow/jsonbind/jsonmap"
)

type IDecoder interface {
	Decode(any) error
}

type Factory func(io.Reader) IDecoder

var decoderFactory Factory

func init() {
	Reset()
}

// SetDecoder installs a custom decoder factory; nil restores the default.
func SetDecoder(factory Factory) {
	if factory == nil {
		Reset()
		return
	}
	decoderFactory = factory
}

// Reset restores the jsonmap decoder.
func Reset() {
	decoderFactory = func(r io.Reader) IDecoder {
		return jsonmap.NewDecoder(r)
	}
}

// NewDecoder creates a new decoder using the currently set decoder factory.
func NewDecoder(r io.Reader) IDecoder {
	return decoderFactory(r)
}

func Instance() Factory {
	return decoderFactory
}
