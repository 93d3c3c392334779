package analyze

import (
	"fmt"
	"slices"
	"strings"

	"projector-generator/internal/common"
)

// ShapeKind tells whether a type is a single value or an iterable of elements.
// Iterable shapes are ranked: Enumerable < Collection < List < Array.
type ShapeKind int

const (
	ShapeScalar     ShapeKind = iota
	ShapeEnumerable           // read-once sequence
	ShapeCollection           // set-like, unordered
	ShapeList                 // ordered and indexable
	ShapeArray                // fixed size
)

// String returns a human-readable representation of the ShapeKind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeScalar:
		return "scalar"
	case ShapeEnumerable:
		return "enumerable"
	case ShapeCollection:
		return "set"
	case ShapeList:
		return "list"
	case ShapeArray:
		return "array"
	default:
		return common.UnknownStr
	}
}

// ParseShapeKind parses a collection shape override. "auto" and the empty
// string map to ShapeScalar, which means no override.
func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ShapeScalar, nil
	case "enumerable", "seq", "sequence":
		return ShapeEnumerable, nil
	case "set", "collection":
		return ShapeCollection, nil
	case "list", "slice":
		return ShapeList, nil
	case "array":
		return ShapeArray, nil
	default:
		return ShapeScalar, fmt.Errorf("unknown collection shape %q (want auto, enumerable, set, list or array)", s)
	}
}

// Shape is the classification of a type.
type Shape struct {
	Kind ShapeKind
	Elem TypeRef // element type, zero for scalars
}

// IsScalar returns true for non-iterable shapes.
func (s Shape) IsScalar() bool {
	return s.Kind == ShapeScalar
}

// Classify determines the shape of a type:
//  1. arrays are Array
//  2. string is always Scalar
//  3. list-like types are List
//  4. set-like types are Collection
//  5. sequence-like types are Enumerable
//  6. anything else is Scalar
//
// A type that only answers membership (Contains) is Scalar.
// Within one rank the first capability in declaration order supplies the element.
func Classify(ref TypeRef) Shape {
	info := ref.Info
	if info == nil {
		return Shape{Kind: ShapeScalar}
	}

	if info.Kind == TypeKindArray {
		return Shape{Kind: ShapeArray, Elem: info.Elem}
	}

	if info.IsString() {
		return Shape{Kind: ShapeScalar}
	}

	caps := info.AllCapabilities()
	if !slices.ContainsFunc(caps, Capability.Readable) {
		return Shape{Kind: ShapeScalar}
	}

	for _, rank := range []ShapeKind{ShapeList, ShapeCollection, ShapeEnumerable} {
		for _, c := range caps {
			if c.Shape == rank {
				return Shape{Kind: rank, Elem: c.Elem}
			}
		}
	}

	return Shape{Kind: ShapeScalar}
}

// AllCapabilities returns the intrinsic capability of the type's structure,
// if any, followed by the declared ones.
func (t *TypeInfo) AllCapabilities() []Capability {
	var caps []Capability

	switch t.Kind {
	case TypeKindSlice:
		caps = append(caps, Capability{Shape: ShapeList, Elem: t.Elem})
	case TypeKindMap:
		if isSetValue(t.Elem) {
			caps = append(caps, Capability{Shape: ShapeCollection, Elem: t.Key})
		}
	case TypeKindSequence:
		caps = append(caps, Capability{Shape: ShapeEnumerable, Elem: t.Elem})
	default:
	}

	return append(caps, t.Capabilities...)
}

func isSetValue(ref TypeRef) bool {
	if ref.Info == nil || ref.Nullable {
		return false
	}

	switch ref.Info.ID.Canonical {
	case "struct{}", "bool":
		return true
	default:
		return false
	}
}

// MaxShape returns the widest of the given shapes.
func MaxShape(kinds ...ShapeKind) ShapeKind {
	out := ShapeScalar
	for _, k := range kinds {
		out = max(out, k)
	}

	return out
}
