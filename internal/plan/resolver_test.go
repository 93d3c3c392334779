package plan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector-generator/internal/analyze"
	"projector-generator/internal/mapping"
	"projector-generator/primitive"
)

func TestResolveMember_Scalars(t *testing.T) {
	t.Parallel()

	f := newFixture()
	i32, i64, str := f.builtin("int32"), f.builtin("int64"), f.builtin("string")
	dec := f.table.Lookup(analyze.NewTypeID(primitive.DecimalPkgPath, primitive.DecimalTypeName))
	level := f.named(testWarehouse, "Level", analyze.TypeKindEnum, primitive.KindInt8)
	level.Enumerants = []analyze.Enumerant{{Name: "LevelLow", Value: "0"}, {Name: "LevelHigh", Value: "2"}}
	status := f.named(testStore, "Status", analyze.TypeKindEnum, primitive.KindString)
	label := f.named(testWarehouse, "Label", analyze.TypeKindBasic, primitive.KindString)

	source := f.structType(testStore, "Order",
		field("Count", i32.Ref()),
		field("MaybeCount", i32.NullableRef()),
		field("Total", i64.Ref()),
		field("MaybeTotal", i64.NullableRef()),
		field("Name", str.Ref()),
		field("MaybeName", str.NullableRef()),
		field("Amount", str.Ref()),
		field("Status", status.Ref()),
		field("MaybeStatus", status.NullableRef()),
	)

	tests := []struct {
		name     string
		target   analyze.TypeRef
		cfg      mapping.MemberConfig
		expected string
	}{
		{"identical", i64.Ref(), mapping.MemberConfig{SourceName: "Total"}, "$source.Total"},
		{"identical nullable", i64.NullableRef(), mapping.MemberConfig{SourceName: "MaybeTotal"}, "$source.MaybeTotal"},
		{"wrap pointer", i64.NullableRef(), mapping.MemberConfig{SourceName: "Total"}, rt + "Ptr($source.Total)"},
		{"deref with zero", i64.Ref(), mapping.MemberConfig{SourceName: "MaybeTotal"}, rt + "Deref($source.MaybeTotal, 0)"},
		{
			"deref with default", i64.Ref(),
			mapping.MemberConfig{SourceName: "MaybeTotal", DefaultValue: mapping.Literal{Kind: mapping.LiteralPrimitive, Text: "5"}},
			rt + "Deref($source.MaybeTotal, 5)",
		},
		{"widen", i64.Ref(), mapping.MemberConfig{SourceName: "Count"}, "int64($source.Count)"},
		{"widen to pointer", i64.NullableRef(), mapping.MemberConfig{SourceName: "Count"}, rt + "Ptr(int64($source.Count))"},
		{"widen from pointer", i64.Ref(), mapping.MemberConfig{SourceName: "MaybeCount"}, rt + "CastOr[int64]($source.MaybeCount, 0)"},
		{"widen both pointers", i64.NullableRef(), mapping.MemberConfig{SourceName: "MaybeCount"}, rt + "CastPtr[int64]($source.MaybeCount)"},
		{"numeric enum", level.Ref(), mapping.MemberConfig{SourceName: "Count"}, testWarehouse + ".Level($source.Count)"},
		{
			"numeric enum default", level.Ref(),
			mapping.MemberConfig{
				SourceName:   "MaybeCount",
				DefaultValue: mapping.Literal{Kind: mapping.LiteralEnum, Type: level.ID, Enumerant: "LevelHigh"},
			},
			rt + "CastOr[" + testWarehouse + ".Level]($source.MaybeCount, " + testWarehouse + ".LevelHigh)",
		},
		{"string copy", str.Ref(), mapping.MemberConfig{SourceName: "Name"}, "$source.Name"},
		{"string wrap", str.NullableRef(), mapping.MemberConfig{SourceName: "Name"}, rt + "Ptr($source.Name)"},
		{"string deref", str.Ref(), mapping.MemberConfig{SourceName: "MaybeName"}, rt + `Deref($source.MaybeName, "")`},
		{"stringify", str.Ref(), mapping.MemberConfig{SourceName: "Total"}, rt + "Stringify($source.Total)"},
		{"stringify to pointer", str.NullableRef(), mapping.MemberConfig{SourceName: "Total"}, rt + "Ptr(" + rt + "Stringify($source.Total))"},
		{
			"stringify with default", str.Ref(),
			mapping.MemberConfig{SourceName: "MaybeTotal", DefaultValue: mapping.Literal{Kind: mapping.LiteralPrimitive, Text: `"n/a"`}},
			rt + `StringifyOr($source.MaybeTotal, "n/a")`,
		},
		{"stringify both pointers", str.NullableRef(), mapping.MemberConfig{SourceName: "MaybeTotal"}, rt + "StringifyPtr($source.MaybeTotal)"},
		{"text enum", label.Ref(), mapping.MemberConfig{SourceName: "Status"}, testWarehouse + ".Label($source.Status)"},
		{"text enum from pointer", label.Ref(), mapping.MemberConfig{SourceName: "MaybeStatus"}, rt + "CastTextOr[" + testWarehouse + `.Label]($source.MaybeStatus, "")`},
		{"decimal", dec.Ref(), mapping.MemberConfig{SourceName: "Total"}, rt + "ToDecimal($source.Total)"},
		{
			"decimal from pointer", dec.Ref(), mapping.MemberConfig{SourceName: "MaybeTotal"},
			rt + "ConvertOr($source.MaybeTotal, " + rt + "ToDecimal, " + primitive.DecimalPkgPath + ".Zero)",
		},
		{"parse", i64.Ref(), mapping.MemberConfig{SourceName: "Amount"}, rt + "ToInt64($source.Amount)"},
		{"parse to pointer", i64.NullableRef(), mapping.MemberConfig{SourceName: "MaybeName"}, rt + "ConvertPtr($source.MaybeName, " + rt + "ToInt64)"},
		{"conversion method", str.Ref(), mapping.MemberConfig{SourceName: "Total", ConversionMethod: "FormatID"}, "$context.FormatID($source.Total)"},
		{"conversion method on identical", i64.Ref(), mapping.MemberConfig{SourceName: "Total", ConversionMethod: "Round"}, "$context.Round($source.Total)"},
	}

	r := NewResolver()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := r.ResolveMember("Target", tt.target, tt.cfg, source)
			assert.Equal(t, ExpressionMapping{Name: "Target", Expression: tt.expected}, got)
		})
	}
}

func TestResolveMember_DecisionOrder(t *testing.T) {
	t.Parallel()

	f := newFixture()
	i64, str := f.builtin("int64"), f.builtin("string")
	source := f.structType(testStore, "Customer", field("Email", str.Ref()), field("Loyalty", i64.NullableRef()))

	r := NewResolver()
	lit := mapping.Literal{Kind: mapping.LiteralPrimitive, Text: "7"}

	t.Run("ignore wins", func(t *testing.T) {
		t.Parallel()

		cfg := mapping.MemberConfig{
			SourceName:      "Email",
			Ignore:          true,
			UseDefaultValue: true,
			DefaultValue:    lit,
			Expression:      "$source.Email + \"x\"",
		}
		assert.Equal(t, IgnoredMapping{Name: "Email"}, r.ResolveMember("Email", str.Ref(), cfg, source))
	})

	t.Run("default before expression", func(t *testing.T) {
		t.Parallel()

		cfg := mapping.MemberConfig{SourceName: "Loyalty", UseDefaultValue: true, DefaultValue: lit, Expression: "1"}
		assert.Equal(t, ExpressionMapping{Name: "Loyalty", Expression: "7"}, r.ResolveMember("Loyalty", i64.Ref(), cfg, source))
	})

	t.Run("zero value without literal", func(t *testing.T) {
		t.Parallel()

		cfg := mapping.MemberConfig{SourceName: "Email", UseDefaultValue: true}
		assert.Equal(t, ExpressionMapping{Name: "Email", Expression: `""`}, r.ResolveMember("Email", str.Ref(), cfg, source))
		assert.Equal(t, ExpressionMapping{Name: "Email", Expression: "nil"}, r.ResolveMember("Email", str.NullableRef(), cfg, source))
	})

	t.Run("expression verbatim", func(t *testing.T) {
		t.Parallel()

		cfg := mapping.MemberConfig{SourceName: "Nothing", Expression: "len($source.Email)"}
		assert.Equal(t, ExpressionMapping{Name: "Size", Expression: "len($source.Email)"}, r.ResolveMember("Size", i64.Ref(), cfg, source))
	})

	t.Run("missing member dangles", func(t *testing.T) {
		t.Parallel()

		cfg := mapping.MemberConfig{SourceName: "Phone"}
		assert.Equal(t, ExpressionMapping{Name: "Phone", Expression: "$source.Phone"}, r.ResolveMember("Phone", str.Ref(), cfg, source))
		assert.Equal(t, ExpressionMapping{Name: "Phone", Expression: "$source.Phone"}, r.ResolveMember("Phone", str.Ref(), cfg, nil))
	})
}

func TestResolveMember_MethodMember(t *testing.T) {
	t.Parallel()

	f := newFixture()
	str := f.builtin("string")
	source := f.structType(testStore, "Order")
	source.Members = append(source.Members, analyze.Member{Name: "Reference", Type: str.Ref(), Kind: analyze.MemberMethod})

	got := NewResolver().ResolveMember("Reference", str.Ref(), mapping.MemberConfig{SourceName: "Reference"}, source)
	assert.Equal(t, ExpressionMapping{Name: "Reference", Expression: "$source.Reference()"}, got)
}

func TestResolveMember_NestedProjection(t *testing.T) {
	t.Parallel()

	f := newFixture()
	customer := f.structType(testStore, "Customer")
	order := f.structType(testStore, "Order", field("Customer", customer.Ref()), field("Buyer", customer.NullableRef()))
	card := f.projection("CustomerCard", customer)

	r := NewResolver()

	got := r.ResolveMember("Customer", card.Ref(), mapping.MemberConfig{SourceName: "Customer"}, order)
	assert.Equal(t, ProjectionMapping{
		Name:       "Customer",
		TargetType: card.ID,
		SourcePath: "$source.Customer",
		SourceType: customer.ID,
	}, got)

	got = r.ResolveMember("Buyer", card.NullableRef(), mapping.MemberConfig{SourceName: "Buyer"}, order)
	assert.Equal(t, ProjectionMapping{
		Name:       "Buyer",
		TargetType: card.ID.WithNullable(true),
		SourcePath: "$source.Buyer",
		SourceType: customer.ID.WithNullable(true),
	}, got)
}

func TestResolveMember_Collections(t *testing.T) {
	t.Parallel()

	f := newFixture()
	i32, i64, str := f.builtin("int32"), f.builtin("int64"), f.builtin("string")
	item := f.structType(testStore, "OrderItem")
	line := f.projection("PickLine", item)

	items := f.sliceOf(item.Ref())
	lines := f.sliceOf(line.Ref())
	strs := f.sliceOf(str.Ref())
	strSet := f.setOf(str.Ref())
	strSeq := f.seqOf(str.Ref())
	strArr := f.arrayOf(3, str.Ref())
	nested32 := f.sliceOf(f.sliceOf(i32.Ref()).Ref())
	nested64 := f.sliceOf(f.sliceOf(i64.Ref()).Ref())

	source := f.structType(testStore, "Order",
		field("Items", items.Ref()),
		field("Notes", strs.Ref()),
		field("Grid", nested32.Ref()),
		field("Codes", strArr.Ref()),
		field("Tags", strSeq.Ref()),
		field("Slots", f.arrayOf(3, item.Ref()).Ref()),
	)

	r := NewResolver()

	t.Run("list of projections", func(t *testing.T) {
		t.Parallel()

		got := r.ResolveMember("Lines", lines.Ref(), mapping.MemberConfig{SourceName: "Items"}, source)
		expected := CollectionMapping{
			Name:           "Lines",
			SourcePath:     "$source.Items",
			SourceType:     items.ID,
			SourceElemType: item.ID,
			SourceShape:    analyze.ShapeList,
			TargetType:     lines.ID,
			TargetElemType: line.ID,
			TargetShape:    analyze.ShapeList,
			Transform:      TransformToList,
			Item: ProjectionMapping{
				TargetType: line.ID,
				SourcePath: "$source",
				SourceType: item.ID,
			},
		}

		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("ResolveMember() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("same collection type is copied", func(t *testing.T) {
		t.Parallel()

		got := r.ResolveMember("Notes", strs.Ref(), mapping.MemberConfig{SourceName: "Notes"}, source)
		assert.Equal(t, ExpressionMapping{Name: "Notes", Expression: "$source.Notes"}, got)
	})

	t.Run("set from list", func(t *testing.T) {
		t.Parallel()

		got := r.ResolveMember("Notes", strSet.Ref(), mapping.MemberConfig{SourceName: "Notes"}, source)
		c, ok := got.(CollectionMapping)
		require.True(t, ok, "got %T", got)
		assert.Equal(t, TransformToSet, c.Transform)
		assert.Equal(t, ExpressionMapping{Expression: "$source"}, c.Item)
		assert.Equal(t, analyze.ShapeCollection, c.TargetShape)
	})

	t.Run("override wins over source shape", func(t *testing.T) {
		t.Parallel()

		cfg := mapping.MemberConfig{SourceName: "Codes", CollectionShape: analyze.ShapeCollection}
		got := r.ResolveMember("Codes", strSeq.Ref(), cfg, source)
		c, ok := got.(CollectionMapping)
		require.True(t, ok, "got %T", got)
		assert.Equal(t, TransformToSet, c.Transform)

		cfg = mapping.MemberConfig{SourceName: "Notes", CollectionShape: analyze.ShapeArray}
		got = r.ResolveMember("Notes", strs.Ref(), cfg, source)
		c, ok = got.(CollectionMapping)
		require.True(t, ok, "override disables the copy short-circuit, got %T", got)
		assert.Equal(t, TransformToArray, c.Transform)
	})

	t.Run("lazy target from sequence", func(t *testing.T) {
		t.Parallel()

		got := r.ResolveMember("Tags", strSeq.Ref(), mapping.MemberConfig{SourceName: "Tags", ConversionMethod: "Clean"}, source)
		c, ok := got.(CollectionMapping)
		require.True(t, ok, "got %T", got)
		assert.Equal(t, TransformNone, c.Transform)
		assert.Equal(t, ExpressionMapping{Expression: "$context.Clean($source)"}, c.Item)
	})

	t.Run("item expression", func(t *testing.T) {
		t.Parallel()

		cfg := mapping.MemberConfig{SourceName: "Notes", ItemExpression: "strings.ToUpper($source)"}
		got := r.ResolveMember("Notes", strs.Ref(), cfg, source)
		c, ok := got.(CollectionMapping)
		require.True(t, ok, "item expression disables the copy short-circuit, got %T", got)
		assert.Equal(t, ExpressionMapping{Expression: "strings.ToUpper($source)"}, c.Item)
	})

	t.Run("collection of collections", func(t *testing.T) {
		t.Parallel()

		got := r.ResolveMember("Grid", nested64.Ref(), mapping.MemberConfig{SourceName: "Grid"}, source)
		c, ok := got.(CollectionMapping)
		require.True(t, ok, "got %T", got)

		inner, ok := c.Item.(CollectionMapping)
		require.True(t, ok, "item %T", c.Item)
		assert.Equal(t, "$source", inner.SourcePath)
		assert.Equal(t, ExpressionMapping{Expression: "int64($source)"}, inner.Item)
	})

	t.Run("list of projections from array", func(t *testing.T) {
		t.Parallel()

		got := r.ResolveMember("Lines", lines.Ref(), mapping.MemberConfig{SourceName: "Slots"}, source)
		c, ok := got.(CollectionMapping)
		require.True(t, ok, "got %T", got)
		assert.Equal(t, analyze.ShapeArray, c.SourceShape)
		assert.Equal(t, TransformToList, c.Transform, "the source shape must not widen the target")
		assert.Equal(t, ProjectionMapping{
			TargetType: line.ID,
			SourcePath: "$source",
			SourceType: item.ID,
		}, c.Item)
	})

	t.Run("lazy target from list stays lazy", func(t *testing.T) {
		t.Parallel()

		cfg := mapping.MemberConfig{SourceName: "Notes", ConversionMethod: "Clean"}
		got := r.ResolveMember("Tags", strSeq.Ref(), cfg, source)
		c, ok := got.(CollectionMapping)
		require.True(t, ok, "got %T", got)
		assert.Equal(t, TransformNone, c.Transform)
	})

	t.Run("scalar target from collection is projected", func(t *testing.T) {
		t.Parallel()

		got := r.ResolveMember("Notes", str.Ref(), mapping.MemberConfig{SourceName: "Notes"}, source)
		assert.IsType(t, ExpressionMapping{}, got)
		assert.Equal(t, rt+"Stringify($source.Notes)", got.(ExpressionMapping).Expression)
	})
}

func TestResolveMember_Deterministic(t *testing.T) {
	t.Parallel()

	f := newFixture()
	item := f.structType(testStore, "OrderItem")
	line := f.projection("PickLine", item)
	items := f.sliceOf(item.NullableRef())
	lines := f.sliceOf(line.Ref())
	source := f.structType(testStore, "Order", field("Items", items.Ref()))

	cfg := mapping.MemberConfig{SourceName: "Items", CollectionShape: analyze.ShapeCollection}

	first := NewResolver().ResolveMember("Lines", lines.Ref(), cfg, source)
	second := NewResolver().ResolveMember("Lines", lines.Ref(), cfg, source)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("resolution is not deterministic (-first +second):\n%s", diff)
	}
}

func TestResolveMember_RecursiveCollectionStops(t *testing.T) {
	t.Parallel()

	f := newFixture()
	tree := f.named(testStore, "Tree", analyze.TypeKindSlice, 0)
	tree.Elem = tree.Ref()
	forest := f.named(testWarehouse, "Forest", analyze.TypeKindSlice, 0)
	forest.Elem = forest.Ref()
	source := f.structType(testStore, "Root", field("Children", tree.Ref()))

	r := &Resolver{MaxItemDepth: 2}
	got := r.ResolveMember("Children", forest.Ref(), mapping.MemberConfig{SourceName: "Children"}, source)

	depth := 0
	for {
		c, ok := got.(CollectionMapping)
		if !ok {
			break
		}
		depth++
		got = c.Item
	}

	assert.Equal(t, 3, depth)
	assert.IsType(t, ProjectionMapping{}, got)
}
