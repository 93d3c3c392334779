package plan

import (
	"strconv"

	"projector-generator/internal/analyze"
	"projector-generator/primitive"
)

const (
	testStore     = "example.com/store"
	testWarehouse = "example.com/warehouse"
	rt            = primitive.RuntimePkgPath + "."
)

// fixture is a small descriptor table built in code.
type fixture struct {
	table *analyze.TypeTable
}

func newFixture() *fixture {
	return &fixture{table: analyze.NewTypeTable()}
}

func (f *fixture) builtin(name string) *analyze.TypeInfo {
	return f.table.Builtin(name)
}

func (f *fixture) sliceOf(elem analyze.TypeRef) *analyze.TypeInfo {
	return f.table.Intern(&analyze.TypeInfo{
		ID:   analyze.TypeID{Name: "[]" + elem.String(), Canonical: "[]" + elem.String()},
		Kind: analyze.TypeKindSlice,
		Elem: elem,
	})
}

func (f *fixture) setOf(elem analyze.TypeRef) *analyze.TypeInfo {
	canonical := "map[" + elem.String() + "]struct{}"
	return f.table.Intern(&analyze.TypeInfo{
		ID:   analyze.TypeID{Name: canonical, Canonical: canonical},
		Kind: analyze.TypeKindMap,
		Key:  elem,
		Elem: f.table.Intern(&analyze.TypeInfo{
			ID:   analyze.TypeID{Name: "struct{}", Canonical: "struct{}"},
			Kind: analyze.TypeKindStruct,
		}).Ref(),
	})
}

func (f *fixture) seqOf(elem analyze.TypeRef) *analyze.TypeInfo {
	canonical := "iter.Seq[" + elem.String() + "]"
	return f.table.Intern(&analyze.TypeInfo{
		ID:   analyze.TypeID{Name: canonical, Canonical: canonical},
		Kind: analyze.TypeKindSequence,
		Elem: elem,
	})
}

func (f *fixture) arrayOf(n int64, elem analyze.TypeRef) *analyze.TypeInfo {
	canonical := "[" + strconv.FormatInt(n, 10) + "]" + elem.String()
	return f.table.Intern(&analyze.TypeInfo{
		ID:   analyze.TypeID{Name: canonical, Canonical: canonical},
		Kind: analyze.TypeKindArray,
		Elem: elem,
		Len:  n,
	})
}

func (f *fixture) named(pkg, name string, kind analyze.TypeKind, basic primitive.KindEnum) *analyze.TypeInfo {
	info := &analyze.TypeInfo{ID: analyze.NewTypeID(pkg, name), Kind: kind, Basic: basic}
	f.table.Add(info)

	return info
}

// structType declares a struct with an implicit composite-literal constructor.
func (f *fixture) structType(pkg, name string, members ...analyze.Member) *analyze.TypeInfo {
	info := f.named(pkg, name, analyze.TypeKindStruct, 0)
	info.Members = members
	info.Constructors = []analyze.Constructor{{}}

	return info
}

// projection declares a projection struct from source.
func (f *fixture) projection(name string, source *analyze.TypeInfo, members ...analyze.Member) *analyze.TypeInfo {
	info := f.structType(testWarehouse, name, members...)
	info.Projection = &analyze.ProjectionDecl{Source: source.ID}

	return info
}

func field(name string, ref analyze.TypeRef, raw ...analyze.RawConfig) analyze.Member {
	m := analyze.Member{Name: name, Type: ref, Kind: analyze.MemberField, Settable: true}
	if len(raw) > 0 {
		m.Config = raw[0]
	}

	return m
}

func param(name string, ref analyze.TypeRef) analyze.Member {
	return analyze.Member{Name: name, Type: ref, Kind: analyze.MemberParameter}
}
