package json

import (
	"io"

	"github.com/oarkflow/jsonbind/decoder"
	"github.com/oarkflow/jsonbind/encoder"
)

type IEncoder = encoder.IEncoder

type EncoderFactory = encoder.Factory

type IDecoder = decoder.IDecoder

type DecoderFactory = decoder.Factory

// SetEncoder allows you to set a custom encoder factory.
func SetEncoder(factory EncoderFactory) {
	encoder.SetEncoder(factory)
}

// DefaultEncoder restores the default codec's encoder.
func DefaultEncoder() {
	encoder.Reset()
}

// NewEncoder creates a new encoder using the currently set encoder factory.
func NewEncoder(w io.Writer) IEncoder {
	return encoder.NewEncoder(w)
}

// SetDecoder allows you to set a custom decoder factory.
func SetDecoder(factory DecoderFactory) {
	decoder.SetDecoder(factory)
}

func DefaultDecoder() {
	decoder.Reset()
}

// NewDecoder creates a new decoder using the currently set decoder factory.
func NewDecoder(r io.Reader) IDecoder {
	return decoder.NewDecoder(r)
}
