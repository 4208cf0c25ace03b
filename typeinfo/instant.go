package typeinfo

import (
	"time"

	"github.com/oarkflow/date"
)

// InstantLayout is the text form of Instant values.
const InstantLayout = time.RFC3339Nano

// FormatInstant appends t in InstantLayout.
func FormatInstant(dst []byte, t time.Time) []byte {
	return t.AppendFormat(dst, InstantLayout)
}

// strictLayouts are tried in order before the lenient date parser.
var strictLayouts = []string{InstantLayout, "2006-01-02T15:04:05", time.DateOnly}

// ParseInstant reads an RFC 3339 timestamp or a bare date, falling back to
// the lenient date parser for other common layouts.
func ParseInstant(s string) (time.Time, error) {
	for _, layout := range strictLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return date.Parse(s)
}
