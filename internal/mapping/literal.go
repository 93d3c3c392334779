package mapping

import (
	"projector-generator/internal/analyze"
	"projector-generator/internal/common"
)

// LiteralKind classifies a default value.
type LiteralKind int

const (
	LiteralNone      LiteralKind = iota // absent or unrepresentable
	LiteralPrimitive                    // verbatim Go literal or expression
	LiteralEnum                         // enumerant, or integer in cast form
	LiteralType                         // reference to a type
)

// String returns a human-readable representation of the LiteralKind.
func (k LiteralKind) String() string {
	switch k {
	case LiteralNone:
		return "none"
	case LiteralPrimitive:
		return "primitive"
	case LiteralEnum:
		return "enum"
	case LiteralType:
		return "type"
	default:
		return common.UnknownStr
	}
}

// Literal is a typed default value.
type Literal struct {
	Kind LiteralKind
	// Text is the verbatim literal, or the integer value of a cast-form enum.
	Text string
	// Type is the enum type of an enum literal, or the referenced type of a type literal.
	Type analyze.TypeID
	// Enumerant is the constant name of an enum literal; empty in cast form.
	Enumerant string
}

// IsNone returns true if there is no usable literal.
func (l Literal) IsNone() bool {
	return l.Kind == LiteralNone
}
