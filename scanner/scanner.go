// Package scanner splits one JSON object or array into its immediate
// members as raw, unparsed text.
//
// Every returned value is an exact substring of the input: strings keep
// their quotes and escapes, nested containers keep their inner whitespace.
// Interpreting the slices is left to the caller.
package scanner

import (
	"github.com/oarkflow/jsonbind/escape"
	"github.com/oarkflow/jsonbind/jsonerr"
)

// Container selects the kind of composite value being scanned.
type Container uint8

const (
	Object Container = iota
	Array
)

func (c Container) String() string {
	if c == Array {
		return "array"
	}
	return "object"
}

// Member is one object member or array element. Key is empty for array
// elements. Offset is the byte offset of Value within the scanned text.
type Member struct {
	Key    string
	Value  string
	Offset int
}

// Scanner holds scanning options. The zero value matches literals
// case-sensitively as RFC 8259 requires.
type Scanner struct {
	// Lenient accepts true, false and null in any letter case.
	Lenient bool
}

// Scan splits text with the default Scanner.
func Scan(text string, c Container) ([]Member, error) {
	return Scanner{}.Scan(text, c)
}

// ToMap returns the raw value of every member of a JSON object. When a key
// repeats, the last value wins.
func ToMap(text string) (map[string]string, error) {
	members, err := Scan(text, Object)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(members))
	for _, mb := range members {
		m[mb.Key] = mb.Value
	}
	return m, nil
}

// ToList returns the raw text of every element of a JSON array, in order.
func ToList(text string) ([]string, error) {
	members, err := Scan(text, Array)
	if err != nil {
		return nil, err
	}
	list := make([]string, len(members))
	for i, mb := range members {
		list[i] = mb.Value
	}
	return list, nil
}

// Scan splits text, which must hold a single object or array optionally
// surrounded by whitespace.
func (s Scanner) Scan(text string, c Container) ([]Member, error) {
	sc := scan{text: text, container: c, lenient: s.Lenient}
	return sc.run()
}

type scan struct {
	text      string
	container Container
	lenient   bool
	members   []Member

	key        string
	keyStart   int
	keyEscaped bool

	start     int
	depth     int
	nestOpen  byte
	nestClose byte
	inString  bool
	escaped   bool
}

func (s *scan) run() ([]Member, error) {
	open, closer := byte('{'), byte('}')
	if s.container == Array {
		open, closer = '[', ']'
	}
	st := stateStart
	text := s.text
	for pos := 0; pos < len(text); pos++ {
		ch := text[pos]
		switch st {
		case stateStart:
			if isSpace(ch) {
				continue
			}
			if ch != open {
				return nil, jsonerr.Malformed(pos, ch)
			}
			if s.container == Array {
				st = stateArrayOpen
			} else {
				st = stateObjectOpen
			}
		case stateObjectOpen, stateMember:
			if isSpace(ch) {
				continue
			}
			if ch == '"' {
				s.keyStart = pos + 1
				s.keyEscaped = false
				st = stateKey
				continue
			}
			if ch == closer && st == stateObjectOpen {
				st = stateTrailing
				continue
			}
			return nil, jsonerr.Malformed(pos, ch)
		case stateKey:
			if ch == '\\' {
				s.keyEscaped = true
				pos++
				continue
			}
			if ch != '"' {
				continue
			}
			key := text[s.keyStart:pos]
			if s.keyEscaped {
				decoded, err := escape.Decode(key)
				if err != nil {
					je := jsonerr.At(err, s.keyStart, "")
					je.Kind = jsonerr.ErrMalformedJSON
					return nil, je
				}
				key = decoded
			}
			s.key = key
			st = stateColon
		case stateColon:
			if isSpace(ch) {
				continue
			}
			if ch != ':' {
				return nil, jsonerr.Malformed(pos, ch)
			}
			st = stateValue
		case stateArrayOpen, stateValue:
			if isSpace(ch) {
				continue
			}
			if ch == closer && st == stateArrayOpen {
				st = stateTrailing
				continue
			}
			next, end, err := s.value(pos)
			if err != nil {
				return nil, err
			}
			st, pos = next, end
		case stateString:
			if ch == '\\' {
				pos++
				continue
			}
			if ch == '"' {
				s.emit(pos + 1)
				st = stateAfterValue
			}
		case stateNumber:
			switch {
			case isNumberByte(ch):
			case ch == ',':
				s.emit(pos)
				st = s.afterComma()
			case ch == closer:
				s.emit(pos)
				st = stateTrailing
			case isSpace(ch):
				s.emit(pos)
				st = stateAfterValue
			default:
				return nil, jsonerr.Malformed(pos, ch)
			}
		case stateNested:
			if s.nested(ch) {
				s.emit(pos + 1)
				st = stateAfterValue
			}
		case stateAfterValue:
			switch {
			case isSpace(ch):
			case ch == ',':
				st = s.afterComma()
			case ch == closer:
				st = stateTrailing
			default:
				return nil, jsonerr.Malformed(pos, ch)
			}
		case stateTrailing:
			if !isSpace(ch) {
				return nil, jsonerr.Malformed(pos, ch)
			}
		}
	}
	if st != stateTrailing {
		return nil, jsonerr.UnexpectedEnd(len(text))
	}
	if s.members == nil {
		s.members = []Member{}
	}
	return s.members, nil
}

// value starts a member value at pos and returns the next state together
// with the last consumed position.
func (s *scan) value(pos int) (state, int, error) {
	ch := s.text[pos]
	s.start = pos
	switch {
	case ch == '"':
		return stateString, pos, nil
	case ch == '-' || isDigit(ch):
		return stateNumber, pos, nil
	case ch == '[':
		s.enterNested('[', ']')
		return stateNested, pos, nil
	case ch == '{':
		s.enterNested('{', '}')
		return stateNested, pos, nil
	}
	lit := s.literalFor(ch)
	if lit == "" {
		return 0, pos, jsonerr.Malformed(pos, ch)
	}
	for i := 0; i < len(lit); i++ {
		if pos+i >= len(s.text) {
			return 0, pos, jsonerr.UnexpectedEnd(len(s.text))
		}
		if c := s.text[pos+i]; !s.literalByte(c, lit[i]) {
			return 0, pos, jsonerr.Malformed(pos+i, c)
		}
	}
	end := pos + len(lit)
	s.emit(end)
	return stateAfterValue, end - 1, nil
}

func (s *scan) literalFor(ch byte) string {
	if s.lenient {
		ch = lower(ch)
	}
	switch ch {
	case 't':
		return "true"
	case 'f':
		return "false"
	case 'n':
		return "null"
	}
	return ""
}

func (s *scan) literalByte(got, want byte) bool {
	if s.lenient {
		return lower(got) == want
	}
	return got == want
}

func (s *scan) enterNested(open, close byte) {
	s.nestOpen, s.nestClose = open, close
	s.depth = 0
	s.inString = false
	s.escaped = false
}

// nested consumes one byte of a nested container and reports whether it
// closed the container.
func (s *scan) nested(ch byte) bool {
	if s.inString {
		switch {
		case s.escaped:
			s.escaped = false
		case ch == '\\':
			s.escaped = true
		case ch == '"':
			s.inString = false
		}
		return false
	}
	switch ch {
	case '"':
		s.inString = true
	case s.nestOpen:
		s.depth++
	case s.nestClose:
		if s.depth == 0 {
			return true
		}
		s.depth--
	}
	return false
}

func (s *scan) emit(end int) {
	m := Member{Value: s.text[s.start:end], Offset: s.start}
	if s.container == Object {
		m.Key = s.key
	}
	s.members = append(s.members, m)
}

func (s *scan) afterComma() state {
	if s.container == Array {
		return stateValue
	}
	return stateMember
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNumberByte(c byte) bool {
	return isDigit(c) || c == '-' || c == '+' || c == '.' || c == 'e' || c == 'E'
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
