package primitive

import "math"

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindBool
	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindDecimal // github.com/shopspring/decimal.Decimal

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// DecimalPkgPath and DecimalTypeName identify the decimal type backing KindDecimal.
const (
	DecimalPkgPath  = "github.com/shopspring/decimal"
	DecimalTypeName = "Decimal"
)

func (k KindEnum) IsNumber() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64,
		KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsInteger() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64,
		KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

func (k KindEnum) Bits() int {
	switch k {
	default:
		panic("only numeric kinds has meaningful bits amount, but requested for: " + k.String())
	case KindInt, KindUint:
		power := 0
		for n := uint(math.MaxUint); n > 0; n >>= 1 {
			power++
		}
		return power
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32:
		return 32
	case KindInt64, KindUint64:
		return 64
	case KindFloat32:
		return 32
	case KindFloat64:
		return 64
	}
}

// FromBasicName maps a Go predeclared type name (as printed by go/types) to its kind.
// Aliases byte and rune are folded into uint8 and int32.
func FromBasicName(name string) KindEnum {
	switch name {
	case "bool":
		return KindBool
	case "int":
		return KindInt
	case "int8":
		return KindInt8
	case "int16":
		return KindInt16
	case "int32", "rune":
		return KindInt32
	case "int64":
		return KindInt64
	case "uint":
		return KindUint
	case "uint8", "byte":
		return KindUint8
	case "uint16":
		return KindUint16
	case "uint32":
		return KindUint32
	case "uint64":
		return KindUint64
	case "float32":
		return KindFloat32
	case "float64":
		return KindFloat64
	case "string":
		return KindString
	case DecimalPkgPath + "." + DecimalTypeName:
		return KindDecimal
	default:
		return 0
	}
}

// Holds reports whether every value of kind from survives a conversion to k.
// Integers fit floats while they fit the mantissa; decimals hold any number.
func (k KindEnum) Holds(from KindEnum) bool {
	switch {
	case k == from:
		return true
	case !k.IsNumber() && k != KindDecimal, !from.IsNumber():
		return false
	case k == KindDecimal:
		return true
	case k.IsFloat() && from.IsFloat():
		return k.Bits() >= from.Bits()
	case k.IsFloat():
		return from.Bits() <= mantissaBits(k)
	case !from.IsInteger():
		return false
	case k.IsSigned() == from.IsSigned():
		return k.Bits() >= from.Bits()
	case from.IsUnsigned():
		return k.Bits() > from.Bits()
	default:
		// unsigned targets drop negative values
		return false
	}
}

func mantissaBits(k KindEnum) int {
	if k == KindFloat32 {
		return 24
	}

	return 53
}
