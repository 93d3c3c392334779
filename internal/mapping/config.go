package mapping

import (
	"projector-generator/internal/analyze"
)

// MemberConfig is the normalized configuration of one target member.
type MemberConfig struct {
	SourceName       string
	Ignore           bool
	UseDefaultValue  bool
	ConversionMethod string
	DefaultValue     Literal
	Expression       string
	ItemExpression   string

	// CollectionShape is the requested materialization; ShapeScalar means auto.
	CollectionShape analyze.ShapeKind
}

// HasShapeOverride returns true if a collection shape was requested explicitly.
func (c MemberConfig) HasShapeOverride() bool {
	return c.CollectionShape != analyze.ShapeScalar
}
