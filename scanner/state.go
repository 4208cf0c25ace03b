package scanner

type state uint8

const (
	stateStart      state = iota // before the opening bracket
	stateObjectOpen              // after '{': a key or '}'
	stateArrayOpen               // after '[': a value or ']'
	stateMember                  // after ',' in an object: a key
	stateKey                     // inside a key string
	stateColon                   // after a key
	stateValue                   // a value is required
	stateString                  // inside a string value
	stateNumber                  // inside a number value
	stateNested                  // inside a nested array or object
	stateAfterValue              // ',' or the closing bracket
	stateTrailing                // closed; only whitespace may follow
)
