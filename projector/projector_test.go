package projector_test

import (
	"maps"
	"slices"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"projector-generator/projector"
)

type level int

type status string

func (s status) String() string { return "status:" + string(s) }

type label string

type ring []string

func (r ring) Len() int { return len(r) }
func (r ring) At(i int) string { return r[i] }

func TestProject(t *testing.T) {
	t.Parallel()

	p := projector.FromSlice([]int{1, 2, 3}, "#")
	got := slices.Collect(projector.Project(p, func(v int, prefix string) string {
		return prefix + strconv.Itoa(v)
	}))

	assert.Equal(t, []string{"#1", "#2", "#3"}, got)
}

func TestProject_StopsEarly(t *testing.T) {
	t.Parallel()

	calls := 0
	p := projector.FromSlice([]int{1, 2, 3}, struct{}{})
	for range projector.Project(p, func(v int, _ struct{}) int { calls++; return v }) {
		break
	}

	assert.Equal(t, 1, calls)
}

func TestPointerHelpers(t *testing.T) {
	t.Parallel()

	var nilInt *int
	five := 5

	assert.Equal(t, 5, *projector.Ptr(5))
	assert.Equal(t, 7, projector.Deref(nilInt, 7))
	assert.Equal(t, 5, projector.Deref(&five, 7))

	assert.Nil(t, projector.MapPtr(nilInt, strconv.Itoa))
	assert.Equal(t, "5", *projector.MapPtr(&five, strconv.Itoa))
	assert.Equal(t, "none", projector.MapValue(nilInt, strconv.Itoa, "none"))
	assert.Equal(t, "5", projector.MapValue(&five, strconv.Itoa, "none"))
}

func TestCasts(t *testing.T) {
	t.Parallel()

	var nilInt *int32
	v := int32(3)

	assert.Equal(t, level(9), projector.CastOr[level](nilInt, 9))
	assert.Equal(t, level(3), projector.CastOr[level](&v, 9))
	assert.Nil(t, projector.CastPtr[float64](nilInt))
	assert.InDelta(t, 3.0, *projector.CastPtr[float64](&v), 1e-9)

	var nilStatus *status
	s := status("PAID")
	assert.Equal(t, label("none"), projector.CastTextOr[label](nilStatus, "none"))
	assert.Equal(t, label("PAID"), *projector.CastTextPtr[label](&s))
}

func TestConversions(t *testing.T) {
	t.Parallel()

	var nilStr *string
	num := "42"

	assert.Equal(t, int64(42), projector.ToInt64("42"))
	assert.Equal(t, int64(3), projector.ToInt64(level(3)))
	assert.True(t, projector.ToBool("true"))
	assert.InDelta(t, 1.5, projector.ToFloat64("1.5"), 1e-9)
	assert.Equal(t, uint8(7), projector.ToUint8(7))

	assert.Equal(t, int64(-1), projector.ConvertOr(nilStr, projector.ToInt64, -1))
	assert.Equal(t, int64(42), projector.ConvertOr(&num, projector.ToInt64, -1))
	assert.Nil(t, projector.ConvertPtr(nilStr, projector.ToInt))
	assert.Equal(t, 42, *projector.ConvertPtr(&num, projector.ToInt))
}

func TestToDecimal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want decimal.Decimal
	}{
		{"int", 12, decimal.NewFromInt(12)},
		{"named int", level(4), decimal.NewFromInt(4)},
		{"string", "1.25", decimal.RequireFromString("1.25")},
		{"bad string", "abc", decimal.Zero},
		{"decimal", decimal.NewFromInt(3), decimal.NewFromInt(3)},
		{"bool", true, decimal.NewFromInt(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, tt.want.Equal(projector.ToDecimal(tt.in)), "got %s", projector.ToDecimal(tt.in))
		})
	}
}

func TestStringify(t *testing.T) {
	t.Parallel()

	var nilLevel *level
	l := level(2)

	assert.Equal(t, "42", projector.Stringify(42))
	assert.Equal(t, "2", projector.Stringify(level(2)))
	assert.Equal(t, "status:PAID", projector.Stringify(status("PAID")))
	assert.Equal(t, "true", projector.Stringify(true))
	assert.Equal(t, "n/a", projector.StringifyOr(nilLevel, "n/a"))
	assert.Equal(t, "2", projector.StringifyOr(&l, "n/a"))
	assert.Nil(t, projector.StringifyPtr(nilLevel))
	assert.Equal(t, "2", *projector.StringifyPtr(&l))
}

func TestSequences(t *testing.T) {
	t.Parallel()

	doubled := projector.Select(slices.Values([]int{1, 2, 2}), func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 4}, slices.Collect(doubled))

	set := projector.ToSet(slices.Values([]string{"a", "b", "a"}))
	assert.Equal(t, []string{"a", "b"}, slices.Sorted(maps.Keys(set)))

	boolSet := projector.ToBoolSet(slices.Values([]string{"a"}))
	assert.Equal(t, map[string]bool{"a": true}, boolSet)

	fixed := projector.ToFixed(slices.Values([]int{1, 2, 3}))
	require.Len(t, fixed, 3)
	assert.Equal(t, 3, cap(fixed))

	ch := make(chan int, 2)
	ch <- 1
	ch <- 2
	close(ch)
	assert.Equal(t, []int{1, 2}, slices.Collect(projector.Chan(ch)))

	assert.Equal(t, []string{"x", "y"}, slices.Collect(projector.Indexed[string](ring{"x", "y"})))
}
