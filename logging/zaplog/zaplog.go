package zaplog

import (
	"go.uber.org/zap"

	"github.com/oarkflow/jsonbind/logging"
)

var _ logging.Logger = Logger{}

type Logger struct{ L *zap.Logger }

func New(l *zap.Logger) Logger { return Logger{L: l} }

func (z Logger) Debug(msg string, f logging.Fields) { z.L.Debug(msg, fields(f)...) }
func (z Logger) Info(msg string, f logging.Fields)  { z.L.Info(msg, fields(f)...) }
func (z Logger) Warn(msg string, f logging.Fields)  { z.L.Warn(msg, fields(f)...) }
func (z Logger) Error(msg string, f logging.Fields) { z.L.Error(msg, fields(f)...) }

func fields(f logging.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
