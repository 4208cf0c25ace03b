// Package marshaler holds the process-wide Marshal backend. It defaults to
// the jsonmap codec and can be swapped for any func(any) ([]byte, error).
package marshaler

import (
	"github.com/oarkflow/jsonbind/jsonmap"
)

type Marshaler func(any) ([]byte, error)

var (
	marshaler Marshaler
)

func init() {
	Reset()
}

func SetMarshaler(m Marshaler) {
	if m == nil {
		Reset()
		return
	}
	marshaler = m
}

// Reset restores the jsonmap default.
func Reset() {
	marshaler = jsonmap.Marshal
}

func Instance() Marshaler {
	return marshaler
}
