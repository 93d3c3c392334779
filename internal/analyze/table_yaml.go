package analyze

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"projector-generator/primitive"
)

// TableFile is the YAML description of a synthetic type table.
//
//	packages:
//	  - path: example.com/shop/entities
//	    types:
//	      - name: Person
//	        members:
//	          - {name: ID, type: int}
//	          - {name: Nick, type: "*string"}
//	  - path: example.com/shop/dto
//	    types:
//	      - name: PersonDTO
//	        from: example.com/shop/entities.Person
//	        members:
//	          - {name: ID, type: string, tag: 'project:"conv=FormatID"'}
type TableFile struct {
	Packages []PackageSpec `yaml:"packages"`
}

// PackageSpec describes one package of a synthetic table.
type PackageSpec struct {
	Path  string     `yaml:"path"`
	Name  string     `yaml:"name,omitempty"`
	Dir   string     `yaml:"dir,omitempty"`
	Types []TypeSpec `yaml:"types"`
}

// TypeSpec describes one named type. Kind defaults to "struct", or to the
// kind of Underlying when that is a composite type expression.
type TypeSpec struct {
	Name         string            `yaml:"name"`
	Kind         string            `yaml:"kind,omitempty"`
	Underlying   string            `yaml:"underlying,omitempty"`
	From         string            `yaml:"from,omitempty"`
	Context      string            `yaml:"context,omitempty"`
	Members      []MemberSpec      `yaml:"members,omitempty"`
	Capabilities []CapabilitySpec  `yaml:"capabilities,omitempty"`
	Constructors []ConstructorSpec `yaml:"constructors,omitempty"`
	Enumerants   []EnumerantSpec   `yaml:"enumerants,omitempty"`
	// Config holds type-level raw configuration. sourceType and contextType
	// stand in for From and Context.
	Config RawConfig `yaml:"config,omitempty"`
}

// MemberSpec describes a field, a method (Method set) or a constructor parameter.
type MemberSpec struct {
	Name   string    `yaml:"name"`
	Type   string    `yaml:"type"`
	Method bool      `yaml:"method,omitempty"`
	Tag    string    `yaml:"tag,omitempty"`
	Config RawConfig `yaml:"config,omitempty"`
}

// CapabilitySpec declares an iteration capability.
type CapabilitySpec struct {
	Shape string `yaml:"shape"`
	Elem  string `yaml:"elem"`
	Via   string `yaml:"via,omitempty"`
}

// ConstructorSpec declares a constructor function.
type ConstructorSpec struct {
	Name       string       `yaml:"name"`
	Pointer    bool         `yaml:"pointer,omitempty"`
	Designated bool         `yaml:"designated,omitempty"`
	Params     []MemberSpec `yaml:"params,omitempty"`
}

// EnumerantSpec is an enum constant; a plain string is a name with no value.
type EnumerantSpec struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value,omitempty"`
}

// UnmarshalYAML accepts either "Name" or {name: Name, value: "1"}.
func (e *EnumerantSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&e.Name)

	case yaml.MappingNode:
		type plain EnumerantSpec
		return node.Decode((*plain)(e))

	default:
		return fmt.Errorf("expected enumerant name or mapping, got %v", node.Kind)
	}
}

// LoadTableFile loads and parses a YAML type table from the given path.
func LoadTableFile(path string) (*TypeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read type table %s: %w", path, err)
	}

	return ParseTable(data)
}

// ParseTable parses YAML data into a TypeTable.
func ParseTable(data []byte) (*TypeTable, error) {
	var tf TableFile

	err := yaml.Unmarshal(data, &tf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse type table YAML: %w", err)
	}

	return BuildTable(&tf)
}

// BuildTable converts a parsed TableFile into a TypeTable.
func BuildTable(tf *TableFile) (*TypeTable, error) {
	b := &tableBuilder{table: NewTypeTable()}

	// Declare every named type first so that members may refer to types
	// declared later in the file.
	for _, pkg := range tf.Packages {
		if pkg.Path == "" {
			return nil, errors.New("package without path")
		}

		b.table.AddPackage(&PackageInfo{Path: pkg.Path, Name: pkg.Name, Dir: pkg.Dir})
		for _, ts := range pkg.Types {
			b.table.Add(&TypeInfo{ID: NewTypeID(pkg.Path, ts.Name), Kind: TypeKindStruct})
		}
	}

	var errs []error
	for _, pkg := range tf.Packages {
		for _, ts := range pkg.Types {
			if err := b.fill(pkg.Path, ts); err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", pkg.Path, ts.Name, err))
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return b.table, nil
}

type tableBuilder struct {
	table *TypeTable
}

func (b *tableBuilder) fill(pkgPath string, ts TypeSpec) error {
	info := b.table.Lookup(NewTypeID(pkgPath, ts.Name))

	kind := ParseTypeKind(ts.Kind)
	if ts.Kind == "" {
		kind = TypeKindStruct
	} else if kind == TypeKindUnknown {
		return fmt.Errorf("unknown kind %q", ts.Kind)
	}

	if ts.Underlying != "" {
		under, err := b.resolve(pkgPath, ts.Underlying)
		if err != nil {
			return err
		}

		info.Basic = under.Info.Basic
		info.Elem, info.Key, info.Len = under.Info.Elem, under.Info.Key, under.Info.Len
		if ts.Kind == "" {
			kind = under.Info.Kind
		}
	}
	info.Kind = kind
	if kind == TypeKindEnum && info.Basic == 0 {
		info.Basic = primitive.KindInt
	}

	for _, ms := range ts.Members {
		m, err := b.member(pkgPath, ms, MemberField)
		if err != nil {
			return err
		}

		info.Members = append(info.Members, m)
	}

	for _, cs := range ts.Capabilities {
		shape, err := ParseShapeKind(cs.Shape)
		if err != nil {
			return err
		}

		elem, err := b.resolve(pkgPath, cs.Elem)
		if err != nil {
			return err
		}

		info.Capabilities = append(info.Capabilities, Capability{Shape: shape, Elem: elem, Via: cs.Via})
	}

	for _, cs := range ts.Constructors {
		ctor := Constructor{Name: cs.Name, Pointer: cs.Pointer, Designated: cs.Designated}
		for _, ps := range cs.Params {
			p, err := b.member(pkgPath, ps, MemberParameter)
			if err != nil {
				return err
			}

			ctor.Params = append(ctor.Params, p)
		}

		info.Constructors = append(info.Constructors, ctor)
	}

	if len(info.Constructors) == 0 && info.Kind == TypeKindStruct {
		info.Constructors = []Constructor{{}}
	}

	for i, es := range ts.Enumerants {
		value := es.Value
		if value == "" {
			value = strconv.Itoa(i)
		}

		info.Enumerants = append(info.Enumerants, Enumerant{Name: es.Name, Value: value})
	}

	from, ctxName := ts.From, ts.Context
	if name, ok := ts.Config[KeySourceType].(string); ok && from == "" {
		from = name
	}
	if name, ok := ts.Config[KeyContextType].(string); ok && ctxName == "" {
		ctxName = name
	}

	if from != "" {
		src, err := b.named(pkgPath, from)
		if err != nil {
			return fmt.Errorf("projection source: %w", err)
		}

		info.Projection = &ProjectionDecl{Source: src.Info.ID}
		if ctxName != "" {
			ctx, err := b.named(pkgPath, ctxName)
			if err != nil {
				return fmt.Errorf("projection context: %w", err)
			}

			ctxID := ctx.ID()
			info.Projection.Context = &ctxID
		}
	}

	return nil
}

// named resolves a projection source or context. Besides type expressions
// it accepts "pkg.Type" and unambiguous bare names from any package.
func (b *tableBuilder) named(pkgPath, expr string) (TypeRef, error) {
	if info := b.table.LookupName(expr); info != nil && info.IsNamed() {
		return TypeRef{Info: info, Nullable: strings.HasPrefix(strings.TrimSpace(expr), "*")}, nil
	}

	return b.resolve(pkgPath, expr)
}

func (b *tableBuilder) member(pkgPath string, ms MemberSpec, kind MemberKind) (Member, error) {
	ref, err := b.resolve(pkgPath, ms.Type)
	if err != nil {
		return Member{}, fmt.Errorf("member %s: %w", ms.Name, err)
	}

	if ms.Method {
		kind = MemberMethod
	}

	cfg := ms.Config.Clone()
	if tagged := ParseTag(reflect.StructTag(ms.Tag)); tagged != nil {
		if cfg == nil {
			cfg = RawConfig{}
		}
		for k, v := range tagged {
			cfg[k] = v
		}
	}

	return Member{
		Name:     ms.Name,
		Type:     ref,
		Kind:     kind,
		Settable: kind == MemberField,
		Config:   cfg,
	}, nil
}

// resolve parses a type expression:
//
//	*T  []T  [N]T  map[K]V  set[T]  seq[T]  struct{}  int  path/pkg.Name  Name
//
// Bare names are looked up among builtins, then in the current package.
// Unknown qualified names become opaque external types.
func (b *tableBuilder) resolve(pkgPath, expr string) (TypeRef, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return TypeRef{}, errors.New("empty type expression")
	}

	if rest, ok := strings.CutPrefix(expr, "*"); ok {
		inner, err := b.resolve(pkgPath, rest)
		if err != nil {
			return TypeRef{}, err
		}

		if !inner.Nullable {
			inner.Nullable = true
			return inner, nil
		}

		return b.composite(&TypeInfo{Kind: TypeKindPointer, Elem: inner}, "*"+inner.String()), nil
	}

	if rest, ok := strings.CutPrefix(expr, "[]"); ok {
		elem, err := b.resolve(pkgPath, rest)
		if err != nil {
			return TypeRef{}, err
		}

		return b.composite(&TypeInfo{Kind: TypeKindSlice, Elem: elem}, "[]"+elem.String()), nil
	}

	if strings.HasPrefix(expr, "[") {
		end := strings.Index(expr, "]")
		n, err := strconv.ParseInt(expr[1:max(end, 1)], 10, 64)
		if end < 0 || err != nil {
			return TypeRef{}, fmt.Errorf("bad array type %q", expr)
		}

		elem, err := b.resolve(pkgPath, expr[end+1:])
		if err != nil {
			return TypeRef{}, err
		}

		return b.composite(&TypeInfo{Kind: TypeKindArray, Elem: elem, Len: n},
			fmt.Sprintf("[%d]%s", n, elem.String())), nil
	}

	for _, prefix := range []string{"map[", "set[", "seq["} {
		rest, ok := strings.CutPrefix(expr, prefix)
		if !ok {
			continue
		}

		end := matchingBracket(rest)
		if end < 0 {
			return TypeRef{}, fmt.Errorf("unbalanced brackets in %q", expr)
		}

		inner, err := b.resolve(pkgPath, rest[:end])
		if err != nil {
			return TypeRef{}, err
		}

		switch prefix {
		case "map[":
			val, err := b.resolve(pkgPath, rest[end+1:])
			if err != nil {
				return TypeRef{}, err
			}

			return b.composite(&TypeInfo{Kind: TypeKindMap, Key: inner, Elem: val},
				"map["+inner.String()+"]"+val.String()), nil

		case "set[":
			empty := b.composite(&TypeInfo{Kind: TypeKindStruct}, "struct{}")
			return b.composite(&TypeInfo{Kind: TypeKindMap, Key: inner, Elem: empty},
				"map["+inner.String()+"]struct{}"), nil

		default:
			id := NewTypeID("iter", "Seq["+inner.String()+"]")
			return b.table.Intern(&TypeInfo{ID: id, Kind: TypeKindSequence, Elem: inner}).Ref(), nil
		}
	}

	if expr == "struct{}" {
		return b.composite(&TypeInfo{Kind: TypeKindStruct}, expr), nil
	}

	if info := b.table.Types[expr]; info != nil {
		return info.Ref(), nil
	}

	if !strings.Contains(expr, ".") {
		if info := b.table.Lookup(NewTypeID(pkgPath, expr)); info != nil {
			return info.Ref(), nil
		}

		return TypeRef{}, fmt.Errorf("unknown type %q", expr)
	}

	id := ParseTypeID(expr)
	return b.table.Intern(&TypeInfo{ID: id, Kind: TypeKindExternal}).Ref(), nil
}

func (b *tableBuilder) composite(info *TypeInfo, canonical string) TypeRef {
	info.ID = TypeID{Name: canonical, Canonical: canonical}
	return b.table.Intern(info).Ref()
}

// matchingBracket returns the index of the "]" closing an already opened "[".
func matchingBracket(s string) int {
	depth := 1
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
