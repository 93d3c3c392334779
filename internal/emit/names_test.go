package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"projector-generator/internal/analyze"
)

func TestNames(t *testing.T) {
	t.Parallel()

	target := analyze.NewTypeID(testWarehouse, "PickList")
	assert.Equal(t, "ProjectPickList", FunctionName(target))
	assert.Equal(t, "ToPickList", ListingName(target))
	assert.Equal(t, "pick_list_projection.go", FileName(target, "_projection.go"))

	generic := analyze.NewTypeID(testWarehouse, "Page[example.com/store.Order]")
	assert.Equal(t, "ProjectPage", FunctionName(generic))
	assert.Equal(t, "page.go", FileName(generic, ".go"))
}

func TestVarName(t *testing.T) {
	t.Parallel()

	none := func(string) bool { return false }

	tests := []struct {
		typeName string
		taken    func(string) bool
		expected string
	}{
		{"OrderItem", none, "orderItem"},
		{"SKU", none, "sku"},
		{"HTTPRequest", none, "httpRequest"},
		{"Map", none, "mapValue"},
		{"Func", none, "funcValue"},
		{"Type", none, "typeValue"},
		{"String", none, "stringValue"},
		{"Out", none, "outValue"},
		{"Store", func(name string) bool { return name == "store" }, "storeValue"},
		{"Store", func(name string) bool { return name == "store" || name == "storeValue" }, "storeValue2"},
		{"[]int", none, "v"},
	}

	for _, tt := range tests {
		t.Run(tt.typeName+"/"+tt.expected, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, varName(tt.typeName, tt.taken))
		})
	}
}
