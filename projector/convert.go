package projector

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ConvertOr applies conv to *p, or returns def when p is nil.
func ConvertOr[S, T any](p *S, conv func(any) T, def T) T {
	if p == nil {
		return def
	}

	return conv(*p)
}

// ConvertPtr applies conv to *p, keeping nil as nil.
func ConvertPtr[S, T any](p *S, conv func(any) T) *T {
	if p == nil {
		return nil
	}

	v := conv(*p)
	return &v
}

// Stringify renders v as a string. Named string and numeric types are
// rendered by their underlying value unless they implement fmt.Stringer.
func Stringify(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cast.ToString(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cast.ToString(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return cast.ToString(rv.Float())
	case reflect.Bool:
		return cast.ToString(rv.Bool())
	default:
		return fmt.Sprint(v)
	}
}

// StringifyOr renders *p, or returns def when p is nil.
func StringifyOr[S any](p *S, def string) string {
	if p == nil {
		return def
	}

	return Stringify(*p)
}

// StringifyPtr renders *p, keeping nil as nil.
func StringifyPtr[S any](p *S) *string {
	if p == nil {
		return nil
	}

	s := Stringify(*p)
	return &s
}

func ToBool(v any) bool       { return cast.ToBool(underlying(v)) }
func ToInt(v any) int         { return cast.ToInt(underlying(v)) }
func ToInt8(v any) int8       { return cast.ToInt8(underlying(v)) }
func ToInt16(v any) int16     { return cast.ToInt16(underlying(v)) }
func ToInt32(v any) int32     { return cast.ToInt32(underlying(v)) }
func ToInt64(v any) int64     { return cast.ToInt64(underlying(v)) }
func ToUint(v any) uint       { return cast.ToUint(underlying(v)) }
func ToUint8(v any) uint8     { return cast.ToUint8(underlying(v)) }
func ToUint16(v any) uint16   { return cast.ToUint16(underlying(v)) }
func ToUint32(v any) uint32   { return cast.ToUint32(underlying(v)) }
func ToUint64(v any) uint64   { return cast.ToUint64(underlying(v)) }
func ToFloat32(v any) float32 { return cast.ToFloat32(underlying(v)) }
func ToFloat64(v any) float64 { return cast.ToFloat64(underlying(v)) }

// ToDecimal converts numbers, numeric strings and decimals to a decimal.
// Values that cannot be converted yield decimal.Zero.
func ToDecimal(v any) decimal.Decimal {
	switch x := underlying(v).(type) {
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}
		return *x
	case string:
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Zero
		}
		return d
	case float32:
		return decimal.NewFromFloat32(x)
	case float64:
		return decimal.NewFromFloat(x)
	case bool:
		if x {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	default:
		if i, err := cast.ToInt64E(x); err == nil {
			return decimal.NewFromInt(i)
		}
		if u, err := cast.ToUint64E(x); err == nil {
			return decimal.NewFromUint64(u)
		}
		return decimal.Zero
	}
}

// underlying unwraps named basic types (enums) to their predeclared type
// so that cast recognizes them.
func underlying(v any) any {
	switch x := v.(type) {
	case nil, bool, string, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64, decimal.Decimal:
		return x
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	default:
		return v
	}
}
