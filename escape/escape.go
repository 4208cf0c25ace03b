// Package escape implements the JSON string escape table.
//
// Encoding only replaces the seven named escapes; other control characters
// are written raw. Decoding accepts the named escapes, \/ and \uXXXX, where
// each \uXXXX is taken as a single UTF-16 code unit.
package escape

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/oarkflow/jsonbind/jsonerr"
)

// Encode returns s with the JSON escape table applied.
func Encode(s string) string {
	if !needsEscape(s) {
		return s
	}
	return string(Append(make([]byte, 0, len(s)+len(s)/10), s))
}

// Append appends the escaped form of s to dst.
func Append(dst []byte, s string) []byte {
	start := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '"':
			esc = `\"`
		case '\\':
			esc = `\\`
		case '\b':
			esc = `\b`
		case '\f':
			esc = `\f`
		case '\n':
			esc = `\n`
		case '\r':
			esc = `\r`
		case '\t':
			esc = `\t`
		default:
			continue
		}
		dst = append(dst, s[start:i]...)
		dst = append(dst, esc...)
		start = i + 1
	}
	return append(dst, s[start:]...)
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '\\', '\b', '\f', '\n', '\r', '\t':
			return true
		}
	}
	return false
}

// Decode resolves the escapes in s, which must not contain an unescaped
// quote. Offsets in the returned error are relative to s.
func Decode(s string) (string, error) {
	i := strings.IndexAny(s, `\"`)
	if i < 0 {
		return s, nil
	}
	b := make([]byte, 0, len(s))
	b = append(b, s[:i]...)
	for i < len(s) {
		c := s[i]
		if c == '"' {
			return "", &jsonerr.Error{Kind: jsonerr.ErrFormat, Offset: i, Char: c, Msg: "unescaped quote"}
		}
		if c != '\\' {
			b = append(b, c)
			i++
			continue
		}
		i++
		if i >= len(s) {
			return "", &jsonerr.Error{Kind: jsonerr.ErrFormat, Offset: i - 1, Char: '\\', Msg: "unterminated escape"}
		}
		switch s[i] {
		case '"', '\\', '/':
			b = append(b, s[i])
		case 'b':
			b = append(b, '\b')
		case 'f':
			b = append(b, '\f')
		case 'n':
			b = append(b, '\n')
		case 'r':
			b = append(b, '\r')
		case 't':
			b = append(b, '\t')
		case 'u':
			if i+5 > len(s) {
				return "", &jsonerr.Error{Kind: jsonerr.ErrFormat, Offset: i, Char: 'u', Msg: "incomplete unicode escape"}
			}
			v, err := strconv.ParseUint(s[i+1:i+5], 16, 16)
			if err != nil {
				return "", &jsonerr.Error{Kind: jsonerr.ErrFormat, Offset: i, Char: 'u', Msg: "invalid unicode escape", Err: err}
			}
			b = utf8.AppendRune(b, rune(v))
			i += 4
		default:
			return "", &jsonerr.Error{Kind: jsonerr.ErrFormat, Offset: i, Char: s[i], Msg: "invalid escape character"}
		}
		i++
	}
	return string(b), nil
}

// Unquote strips the quotes of a raw JSON string literal and decodes it.
func Unquote(raw string) (string, error) {
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		e := &jsonerr.Error{Kind: jsonerr.ErrFormat, Offset: 0, Msg: "expected string literal"}
		if len(raw) > 0 {
			e.Char = raw[0]
		}
		return "", e
	}
	s, err := Decode(raw[1 : len(raw)-1])
	if err != nil {
		return "", jsonerr.At(err, 1, "")
	}
	return s, nil
}
