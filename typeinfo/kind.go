package typeinfo

// Kind is the closed set of value kinds the codec knows how to handle.
type Kind uint8

const (
	Unsupported Kind = iota
	Null
	Bool
	Integer
	Decimal
	Text
	Identifier
	Instant
	Sequence
	Mapping
	Record

	// Pointer wraps Elem and adds null.
	Pointer
	// Dynamic is an interface type; the dynamic value decides the kind.
	Dynamic
	// Custom types bring their own MarshalJSON and UnmarshalJSON.
	Custom
)

var kindNames = [...]string{
	Unsupported: "unsupported",
	Null:        "null",
	Bool:        "boolean",
	Integer:     "integer",
	Decimal:     "decimal",
	Text:        "text",
	Identifier:  "identifier",
	Instant:     "instant",
	Sequence:    "sequence",
	Mapping:     "mapping",
	Record:      "record",
	Pointer:     "pointer",
	Dynamic:     "dynamic",
	Custom:      "custom",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scalar reports whether values of kind k are written as a single literal.
func (k Kind) Scalar() bool {
	switch k {
	case Bool, Integer, Decimal, Text, Identifier, Instant:
		return true
	}
	return false
}
