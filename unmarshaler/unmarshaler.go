// Package unmarshaler holds the process-wide Unmarshal backend. It defaults
// to the jsonmap codec.
package unmarshaler

import (
	"github.com/oarkflow/jsonbind/jsonmap"
)

type Unmarshaler func([]byte, any) error

var (
	unmarshaler Unmarshaler
)

func init() {
	Reset()
}

func SetUnmarshaler(m Unmarshaler) {
	if m == nil {
		Reset()
		return
	}
	unmarshaler = m
}

// Reset restores the jsonmap default.
func Reset() {
	unmarshaler = jsonmap.Unmarshal
}

func Instance() Unmarshaler {
	return unmarshaler
}
