package encoder

import (
	"io"

	"github.com/oarkflow/jsonbind/jsonmap"
)

type IEncoder interface {
	Encode(any) error
}

type Factory func(io.Writer) IEncoder

var encoderFactory Factory

func init() {
	Reset()
}

// SetEncoder installs a custom encoder factory; nil restores the default.
func SetEncoder(factory Factory) {
	if factory == nil {
		Reset()
		return
	}
	encoderFactory = factory
}

// Reset restores the jsonmap encoder.
func Reset() {
	encoderFactory = func(w io.Writer) IEncoder {
		return jsonmap.NewEncoder(w)
	}
}

// NewEncoder creates a new encoder using the currently set encoder factory.
func NewEncoder(w io.Writer) IEncoder {
	return encoderFactory(w)
}

func Instance() Factory {
	return encoderFactory
}
