package plan

import (
	"projector-generator/internal/analyze"
	"projector-generator/internal/mapping"
	"projector-generator/primitive"
)

// RenderLiteral renders a default value as a qualified Go expression.
// A missing literal renders as alternate.
func RenderLiteral(lit mapping.Literal, alternate string) string {
	switch lit.Kind {
	case mapping.LiteralNone:
		return alternate
	case mapping.LiteralEnum:
		if lit.Enumerant != "" {
			if lit.Type.Namespace == "" {
				return lit.Enumerant
			}
			return lit.Type.Namespace + "." + lit.Enumerant
		}
		return lit.Type.Canonical + "(" + lit.Text + ")"
	case mapping.LiteralType:
		return "reflect.TypeFor[" + lit.Type.Canonical + "]()"
	default:
		return lit.Text
	}
}

// ZeroValue renders the zero value of a type as a qualified Go expression.
func ZeroValue(ref analyze.TypeRef) string {
	info := ref.Info
	if info == nil {
		return "nil"
	}

	if ref.Nullable {
		return "nil"
	}

	switch info.Kind {
	case analyze.TypeKindSlice, analyze.TypeKindMap, analyze.TypeKindSequence,
		analyze.TypeKindInterface, analyze.TypeKindPointer:
		return "nil"
	case analyze.TypeKindStruct, analyze.TypeKindArray:
		return info.ID.Canonical + "{}"
	default:
	}

	switch {
	case info.Basic.IsNumber():
		return "0"
	case info.Basic == primitive.KindBool:
		return "false"
	case info.Basic == primitive.KindString:
		return `""`
	default:
	}

	return "*new(" + info.ID.Canonical + ")"
}
