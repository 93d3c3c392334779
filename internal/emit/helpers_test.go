package emit

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"projector-generator/internal/analyze"
	"projector-generator/internal/plan"
)

const (
	testStore     = "example.com/store"
	testWarehouse = "example.com/warehouse"
)

type fixture struct {
	table *analyze.TypeTable
}

func newFixture() *fixture {
	return &fixture{table: analyze.NewTypeTable()}
}

func (f *fixture) builtin(name string) *analyze.TypeInfo {
	return f.table.Builtin(name)
}

func (f *fixture) composite(canonical string, kind analyze.TypeKind, elem analyze.TypeRef) *analyze.TypeInfo {
	return f.table.Intern(&analyze.TypeInfo{
		ID:   analyze.TypeID{Name: canonical, Canonical: canonical},
		Kind: kind,
		Elem: elem,
	})
}

func (f *fixture) sliceOf(elem analyze.TypeRef) *analyze.TypeInfo {
	return f.composite("[]"+elem.String(), analyze.TypeKindSlice, elem)
}

func (f *fixture) seqOf(elem analyze.TypeRef) *analyze.TypeInfo {
	return f.composite("iter.Seq["+elem.String()+"]", analyze.TypeKindSequence, elem)
}

func (f *fixture) arrayOf(n int64, elem analyze.TypeRef) *analyze.TypeInfo {
	info := f.composite("["+strconv.FormatInt(n, 10)+"]"+elem.String(), analyze.TypeKindArray, elem)
	info.Len = n

	return info
}

func (f *fixture) setOf(elem analyze.TypeRef) *analyze.TypeInfo {
	empty := f.composite("struct{}", analyze.TypeKindStruct, analyze.TypeRef{})
	info := f.composite("map["+elem.String()+"]struct{}", analyze.TypeKindMap, empty.Ref())
	info.Key = elem

	return info
}

func (f *fixture) structType(pkg, name string, members ...analyze.Member) *analyze.TypeInfo {
	info := &analyze.TypeInfo{ID: analyze.NewTypeID(pkg, name), Kind: analyze.TypeKindStruct, Members: members}
	info.Constructors = []analyze.Constructor{{}}
	f.table.Add(info)

	return info
}

func field(name string, ref analyze.TypeRef) analyze.Member {
	return analyze.Member{Name: name, Type: ref, Kind: analyze.MemberField, Settable: true}
}

func expr(name, expression string) plan.ExpressionMapping {
	return plan.ExpressionMapping{Name: name, Expression: expression}
}

func projection(target, source *analyze.TypeInfo, props ...plan.PropertyMapping) *plan.Projection {
	return &plan.Projection{
		Target:      target.ID,
		Source:      source.ID,
		Constructor: &plan.ConstructorMapping{},
		Properties:  props,
	}
}

// render plans every projection and renders the first one.
func render(t *testing.T, f *fixture, ps ...*plan.Projection) string {
	t.Helper()

	g, _ := plan.BuildGraph(ps)
	entry, ok := g.Lookup(ps[0].Target)
	require.True(t, ok)

	file, err := NewGenerator(f.table, DefaultConfig(), nil).Render(entry)
	require.NoError(t, err)

	return string(file.Content)
}
