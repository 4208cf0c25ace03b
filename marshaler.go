package json

import (
	"github.com/oarkflow/jsonbind/marshaler"
	"github.com/oarkflow/jsonbind/unmarshaler"
)

type Marshaler = marshaler.Marshaler

type Unmarshaler = unmarshaler.Unmarshaler

// SetMarshaler routes Marshal through m; nil restores the default codec.
func SetMarshaler(m Marshaler) {
	marshaler.SetMarshaler(m)
}

// DefaultMarshaler restores the default codec as the Marshal backend.
func DefaultMarshaler() {
	marshaler.Reset()
}

// SetUnmarshaler routes Unmarshal through m; nil restores the default codec.
func SetUnmarshaler(m Unmarshaler) {
	unmarshaler.SetUnmarshaler(m)
}

func DefaultUnmarshaler() {
	unmarshaler.Reset()
}
