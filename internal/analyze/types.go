package analyze

import (
	"cmp"
	"strings"

	"projector-generator/internal/common"
	"projector-generator/primitive"
)

// TypeID identifies a type by its canonical form.
//
// A Go pointer *T is represented by the TypeID of T with Nullable set, so
// that a nullable and a non-nullable spelling of one type are the same type
// for graph purposes and differ only when conversion is decided.
type TypeID struct {
	Name      string // e.g., "Order", "[]OrderItem", "int"
	Namespace string // package path, empty for builtins and unnamed composites
	Canonical string // e.g., "projector-generator/store.Order"
	Nullable  bool
}

// NewTypeID builds the TypeID of a named type declared in namespace.
// An empty namespace denotes a predeclared type.
func NewTypeID(namespace, name string) TypeID {
	canonical := name
	if namespace != "" {
		canonical = namespace + "." + name
	}

	return TypeID{Name: name, Namespace: namespace, Canonical: canonical}
}

// ParseTypeID splits a qualified name ("path/to/pkg.Name") at its last dot
// outside of brackets.
func ParseTypeID(qualified string) TypeID {
	nullable := strings.HasPrefix(qualified, "*")
	qualified = strings.TrimPrefix(qualified, "*")

	depth := 0
	for i := len(qualified) - 1; i >= 0; i-- {
		switch qualified[i] {
		case ']':
			depth++
		case '[':
			depth--
		case '.':
			if depth == 0 && !strings.ContainsAny(qualified[:i], "[]*") {
				id := NewTypeID(qualified[:i], qualified[i+1:])
				id.Nullable = nullable
				return id
			}
		}
	}

	return TypeID{Name: qualified, Canonical: qualified, Nullable: nullable}
}

// String returns the canonical form, prefixed with "*" when nullable.
func (t TypeID) String() string {
	if t.Nullable {
		return "*" + t.Canonical
	}

	return t.Canonical
}

// IsZero reports whether the TypeID is unset.
func (t TypeID) IsZero() bool {
	return t.Canonical == ""
}

// Same reports whether both ids denote the same type, ignoring nullability.
func (t TypeID) Same(other TypeID) bool {
	return t.Canonical == other.Canonical
}

// Identical reports whether both ids denote the same type with the same nullability.
func (t TypeID) Identical(other TypeID) bool {
	return t.Canonical == other.Canonical && t.Nullable == other.Nullable
}

// NonNullable returns a copy of t with nullability stripped.
func (t TypeID) NonNullable() TypeID {
	t.Nullable = false
	return t
}

// WithNullable returns a copy of t with the given nullability.
func (t TypeID) WithNullable(nullable bool) TypeID {
	t.Nullable = nullable
	return t
}

// CompareTypeIDs orders ids by canonical form, non-nullable first.
func CompareTypeIDs(a, b TypeID) int {
	if c := cmp.Compare(a.Canonical, b.Canonical); c != 0 {
		return c
	}

	switch {
	case a.Nullable == b.Nullable:
		return 0
	case a.Nullable:
		return 1
	default:
		return -1
	}
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindBasic              // int, string, bool, and named types over them
	TypeKindStruct             // struct type
	TypeKindEnum               // named basic type with declared constants
	TypeKindSlice              // slice of another type
	TypeKindArray              // fixed-size array of another type
	TypeKindMap                // map type
	TypeKindSequence           // iter.Seq or channel
	TypeKindInterface          // interface type
	TypeKindPointer            // pointer to pointer; a single pointer level is a nullable TypeRef
	TypeKindExternal           // opaque type from the standard library (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindEnum:
		return "enum"
	case TypeKindSlice:
		return "slice"
	case TypeKindArray:
		return "array"
	case TypeKindMap:
		return "map"
	case TypeKindSequence:
		return "sequence"
	case TypeKindInterface:
		return "interface"
	case TypeKindPointer:
		return "pointer"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// ParseTypeKind is the inverse of TypeKind.String.
func ParseTypeKind(s string) TypeKind {
	for k := TypeKindBasic; k <= TypeKindExternal; k++ {
		if k.String() == s {
			return k
		}
	}

	return TypeKindUnknown
}

// TypeInfo describes a type in the descriptor table. TypeInfo values are
// shared between all uses of a type; nullability lives on TypeRef.
type TypeInfo struct {
	ID           TypeID             // Identity, never nullable
	Kind         TypeKind           // Kind of type
	Basic        primitive.KindEnum // Underlying primitive kind, if any
	Elem         TypeRef            // Element of slices, arrays, sequences and pointers; value of maps
	Key          TypeRef            // Key of maps
	Len          int64              // Length of arrays
	Capabilities []Capability       // Declared iteration capabilities, in declaration order
	Members      []Member           // Readable members: exported fields and niladic methods
	Constructors []Constructor      // Candidate constructors
	Enumerants   []Enumerant        // Named constants of an enum type
	Projection   *ProjectionDecl    // Set when the type is a projection target
}

// Ref returns a non-nullable reference to t.
func (t *TypeInfo) Ref() TypeRef {
	return TypeRef{Info: t}
}

// NullableRef returns a nullable reference to t.
func (t *TypeInfo) NullableRef() TypeRef {
	return TypeRef{Info: t, Nullable: true}
}

// IsNamed returns true if the type is declared in a package.
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Namespace != ""
}

// IsProjection returns true if the type declares a projection source.
func (t *TypeInfo) IsProjection() bool {
	return t.Projection != nil
}

// IsString returns true only for the predeclared string type.
func (t *TypeInfo) IsString() bool {
	return t.ID.Canonical == "string"
}

// IsNumeric returns true for numeric basic types and named types over them.
func (t *TypeInfo) IsNumeric() bool {
	return t.Basic.IsNumber()
}

// IsEnum returns true for named basic types with declared constants.
func (t *TypeInfo) IsEnum() bool {
	return t.Kind == TypeKindEnum
}

// Member returns the member with the given name.
func (t *TypeInfo) Member(name string) (Member, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}

	return Member{}, false
}

// Enumerant returns the enum constant with the given name.
func (t *TypeInfo) Enumerant(name string) (Enumerant, bool) {
	for _, e := range t.Enumerants {
		if e.Name == name {
			return e, true
		}
	}

	return Enumerant{}, false
}

// TypeRef is a use of a type: a field type, a parameter type, an element type.
type TypeRef struct {
	Info     *TypeInfo
	Nullable bool
}

// ID returns the TypeID of the referenced type carrying the reference's nullability.
func (r TypeRef) ID() TypeID {
	if r.Info == nil {
		return TypeID{}
	}

	return r.Info.ID.WithNullable(r.Nullable)
}

// IsZero reports whether the reference is unset.
func (r TypeRef) IsZero() bool {
	return r.Info == nil
}

// NonNullable strips one level of nullability.
func (r TypeRef) NonNullable() TypeRef {
	r.Nullable = false
	return r
}

// String returns the canonical form of the reference.
func (r TypeRef) String() string {
	return r.ID().String()
}

// MemberKind distinguishes how a member is read or written.
type MemberKind int

const (
	MemberField MemberKind = iota
	MemberMethod
	MemberParameter
)

// String returns a human-readable representation of the MemberKind.
func (k MemberKind) String() string {
	switch k {
	case MemberField:
		return "field"
	case MemberMethod:
		return "method"
	case MemberParameter:
		return "parameter"
	default:
		return common.UnknownStr
	}
}

// Member is a field, a niladic method or a constructor parameter.
type Member struct {
	Name     string
	Type     TypeRef
	Kind     MemberKind
	Settable bool      // exported field of a struct
	Config   RawConfig // attached raw configuration
}

// Access returns the expression suffix that reads the member from a value.
func (m Member) Access() string {
	if m.Kind == MemberMethod {
		return m.Name + "()"
	}

	return m.Name
}

// Constructor is a function building the type, or the implicit composite literal.
type Constructor struct {
	Name       string   // function name, empty for the composite literal
	Pointer    bool     // the function returns *T
	Params     []Member // parameters in declaration order
	Designated bool     // marked with //projector:constructor
}

// IsImplicit returns true for the composite-literal constructor.
func (c Constructor) IsImplicit() bool {
	return c.Name == ""
}

// Enumerant is a named constant of an enum type.
type Enumerant struct {
	Name  string
	Value string // exact constant value
}

// ProjectionDecl is the projection declaration attached to a target type.
type ProjectionDecl struct {
	Source  TypeID
	Context *TypeID
}

// Capability is a way a type can be iterated, either intrinsic (slices,
// sets, sequences) or declared through its method set.
type Capability struct {
	Shape ShapeKind
	Elem  TypeRef
	Via   string // method that provides the capability, empty if intrinsic
}

// Readable reports whether the elements can be read through the capability.
// A Contains method only answers membership.
func (c Capability) Readable() bool {
	switch c.Via {
	case "", "All", "At":
		return true
	default:
		return false
	}
}
