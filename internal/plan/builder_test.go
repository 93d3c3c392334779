package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector-generator/internal/analyze"
	"projector-generator/internal/diagnostic"
	"projector-generator/primitive"
)

func TestSelectConstructor(t *testing.T) {
	t.Parallel()

	str := newFixture().builtin("string")
	withParams := func(name string, designated bool, n int) analyze.Constructor {
		c := analyze.Constructor{Name: name, Designated: designated}
		for range n {
			c.Params = append(c.Params, param("p", str.Ref()))
		}
		return c
	}

	tests := []struct {
		name     string
		ctors    []analyze.Constructor
		expected string
		ok       bool
	}{
		{"single", []analyze.Constructor{withParams("NewA", false, 2)}, "NewA", true},
		{"designated", []analyze.Constructor{withParams("NewA", false, 1), withParams("NewB", true, 2)}, "NewB", true},
		{"parameterless", []analyze.Constructor{withParams("NewA", false, 1), withParams("NewB", false, 0)}, "NewB", true},
		{
			"two designated fall back to parameterless",
			[]analyze.Constructor{withParams("NewA", true, 1), withParams("NewB", true, 1), withParams("NewC", false, 0)},
			"NewC", true,
		},
		{"none usable", []analyze.Constructor{withParams("NewA", false, 1), withParams("NewB", false, 2)}, "", false},
		{"no constructors", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := SelectConstructor(tt.ctors)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got.Name)
		})
	}
}

func TestBuild_Properties(t *testing.T) {
	t.Parallel()

	f := newFixture()
	str, i64 := f.builtin("string"), f.builtin("int64")
	customer := f.structType(testStore, "Customer",
		field("FullName", str.Ref()),
		field("Email", str.Ref()),
		field("Loyalty", i64.NullableRef()),
	)
	card := f.projection("CustomerCard", customer,
		field("Name", str.Ref(), analyze.RawConfig{analyze.KeySourceName: "FullName"}),
		field("Email", str.Ref()),
		field("Loyalty", i64.Ref(), analyze.RawConfig{analyze.KeyDefaultValue: "-1"}),
		field("Remarks", str.Ref(), analyze.RawConfig{analyze.KeyIgnore: true}),
	)

	p, diags := NewBuilder(f.table, nil).Build(card)
	require.NotNil(t, p)
	assert.Equal(t, 0, diags.Len())

	assert.Equal(t, card.ID, p.Target)
	assert.Equal(t, customer.ID, p.Source)
	assert.Nil(t, p.Context)
	require.NotNil(t, p.Constructor)
	assert.Empty(t, p.Constructor.Name)

	assert.Equal(t, []PropertyMapping{
		ExpressionMapping{Name: "Name", Expression: "$source.FullName"},
		ExpressionMapping{Name: "Email", Expression: "$source.Email"},
		ExpressionMapping{Name: "Loyalty", Expression: rt + "Deref($source.Loyalty, -1)"},
		IgnoredMapping{Name: "Remarks"},
	}, p.Properties)
}

func TestBuild_ConstructorParameters(t *testing.T) {
	t.Parallel()

	f := newFixture()
	str, i64 := f.builtin("string"), f.builtin("int64")
	product := f.structType(testStore, "Product",
		field("SKU", str.Ref()),
		field("Name", str.Ref()),
		field("ProductID", i64.Ref()),
	)
	card := f.projection("ProductCard", product,
		field("SKU", str.Ref()),
		field("Title", str.Ref(), analyze.RawConfig{analyze.KeySourceName: "Name"}),
		field("ID", i64.Ref(), analyze.RawConfig{analyze.KeySourceName: "ProductID"}),
	)
	card.Constructors = []analyze.Constructor{
		{Name: "NewProductCard", Pointer: true, Designated: true, Params: []analyze.Member{param("sku", str.Ref())}},
		{Name: "NewProductCardWithTitle", Params: []analyze.Member{param("sku", str.Ref()), param("title", str.Ref())}},
	}

	p, diags := NewBuilder(f.table, nil).Build(card)
	require.NotNil(t, p)
	assert.Equal(t, 0, diags.Len(), "%v", diags.Infos)

	require.NotNil(t, p.Constructor)
	assert.Equal(t, "NewProductCard", p.Constructor.Name)
	assert.True(t, p.Constructor.Pointer)
	assert.Equal(t, []PropertyMapping{
		ExpressionMapping{Name: "sku", Expression: "$source.SKU"},
	}, p.Constructor.Parameters)

	// SKU is set by the constructor
	assert.Equal(t, []PropertyMapping{
		ExpressionMapping{Name: "Title", Expression: "$source.Name"},
		ExpressionMapping{Name: "ID", Expression: "$source.ProductID"},
	}, p.Properties)
}

func TestBuild_NoConstructor(t *testing.T) {
	t.Parallel()

	f := newFixture()
	str := f.builtin("string")
	source := f.structType(testStore, "Product", field("Name", str.Ref()))
	shelf := f.projection("Shelf", source, field("Name", str.Ref()))
	shelf.Constructors = []analyze.Constructor{
		{Name: "NewShelf", Params: []analyze.Member{param("name", str.Ref()), param("size", str.Ref())}},
		{Name: "NewShelfAt", Params: []analyze.Member{param("name", str.Ref()), param("row", str.Ref())}},
	}

	p, _ := NewBuilder(f.table, nil).Build(shelf)
	require.NotNil(t, p)
	assert.Nil(t, p.Constructor)
	assert.Len(t, p.Properties, 1)

	g, diags := BuildGraph([]*Projection{p})
	assert.True(t, diags.HasErrorFor(diagnostic.CodeNoConstructor, shelf.ID.String()))
	assert.Empty(t, g.Emittable())
}

func TestBuild_MissingMemberSuggestion(t *testing.T) {
	t.Parallel()

	f := newFixture()
	str := f.builtin("string")
	customer := f.structType(testStore, "Customer", field("FullName", str.Ref()), field("Email", str.Ref()))
	card := f.projection("CustomerCard", customer, field("FulName", str.Ref()))

	p, diags := NewBuilder(f.table, nil).Build(card)
	require.NotNil(t, p)

	assert.Equal(t, []PropertyMapping{
		ExpressionMapping{Name: "FulName", Expression: "$source.FulName"},
	}, p.Properties)

	require.Len(t, diags.Infos, 1)
	info := diags.Infos[0]
	assert.Equal(t, diagnostic.CodeMissingSourceMember, info.Code)
	assert.Equal(t, "FulName", info.Member)
	assert.Equal(t, []string{"FullName"}, info.Suggestions)
}

func TestBuild_Warnings(t *testing.T) {
	t.Parallel()

	f := newFixture()
	str := f.builtin("string")
	card := f.structType(testWarehouse, "Orphan",
		field("Name", str.Ref(), analyze.RawConfig{analyze.KeyCollectionShape: "bag"}),
	)
	card.Projection = &analyze.ProjectionDecl{Source: analyze.NewTypeID(testStore, "Missing")}

	p, diags := NewBuilder(f.table, nil).Build(card)
	require.NotNil(t, p)
	assert.False(t, diags.HasErrors())

	var codes []string
	for _, w := range diags.Warnings {
		codes = append(codes, w.Code)
	}
	assert.ElementsMatch(t, []string{diagnostic.CodeMissingSourceType, diagnostic.CodeInvalidMemberConfig}, codes)

	assert.Equal(t, []PropertyMapping{
		ExpressionMapping{Name: "Name", Expression: "$source.Name"},
	}, p.Properties)
}

func TestBuild_LossyConversions(t *testing.T) {
	t.Parallel()

	f := newFixture()
	i, i32, i64, u8 := f.builtin("int"), f.builtin("int32"), f.builtin("int64"), f.builtin("uint8")
	level := f.named(testWarehouse, "Level", analyze.TypeKindEnum, primitive.KindInt8)

	item := f.structType(testStore, "OrderItem",
		field("Quantity", i.Ref()),
		field("Reserved", i32.NullableRef()),
		field("Rank", i64.Ref()),
	)
	line := f.projection("PickLine", item,
		field("Quantity", i32.Ref()),
		field("Reserved", i64.Ref()),
		field("Rank", level.Ref()),
		field("Bin", u8.Ref(), analyze.RawConfig{analyze.KeySourceName: "Rank"}),
		field("Count", i32.Ref(), analyze.RawConfig{
			analyze.KeySourceName:       "Quantity",
			analyze.KeyConversionMethod: "Clamp",
		}),
	)

	_, diags := NewBuilder(f.table, nil).Build(line)
	assert.False(t, diags.HasErrors())

	members := make(map[string]string)
	for _, w := range diags.Warnings {
		members[w.Member] = w.Code
	}

	assert.Equal(t, map[string]string{
		"Quantity": diagnostic.CodeLossyConversion,
		"Bin":      diagnostic.CodeLossyConversion,
	}, members)
}

func TestBuildAll(t *testing.T) {
	t.Parallel()

	f := newFixture()
	str := f.builtin("string")
	source := f.structType(testStore, "Product", field("Name", str.Ref()))
	f.projection("B", source, field("Name", str.Ref()))
	f.projection("A", source, field("Name", str.Ref()))

	ps, diags := NewBuilder(f.table, nil).BuildAll()
	assert.Equal(t, 0, diags.Len())
	require.Len(t, ps, 2)
	assert.Equal(t, "A", ps[0].Target.Name)
	assert.Equal(t, "B", ps[1].Target.Name)
}
