// Package logging is the leveled logger used by the codec. Adapters for
// zap and logrus live in the zaplog and logruslog subpackages.
package logging

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a tiny leveled logger. A nil Logger in options disables logging.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

type Nop struct{}

func (Nop) Debug(string, Fields) {}
func (Nop) Info(string, Fields)  {}
func (Nop) Warn(string, Fields)  {}
func (Nop) Error(string, Fields) {}

// OrNop returns l, or Nop when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}
