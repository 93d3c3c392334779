package primitive

// RuntimePkgPath is the import path of the package generated code calls into.
const RuntimePkgPath = "projector-generator/projector"

// Conversion describes how a value of any convertible kind is turned into a
// value of the target kind at run time.
type Conversion struct {
	// Routine is the qualified conversion function, e.g. "projector-generator/projector.ToInt64".
	Routine string
	// Zero is the qualified zero literal of the kind.
	Zero string
}

var conversions = map[KindEnum]Conversion{
	KindBool:    {Routine: RuntimePkgPath + ".ToBool", Zero: "false"},
	KindInt:     {Routine: RuntimePkgPath + ".ToInt", Zero: "0"},
	KindInt8:    {Routine: RuntimePkgPath + ".ToInt8", Zero: "0"},
	KindInt16:   {Routine: RuntimePkgPath + ".ToInt16", Zero: "0"},
	KindInt32:   {Routine: RuntimePkgPath + ".ToInt32", Zero: "0"},
	KindInt64:   {Routine: RuntimePkgPath + ".ToInt64", Zero: "0"},
	KindUint:    {Routine: RuntimePkgPath + ".ToUint", Zero: "0"},
	KindUint8:   {Routine: RuntimePkgPath + ".ToUint8", Zero: "0"},
	KindUint16:  {Routine: RuntimePkgPath + ".ToUint16", Zero: "0"},
	KindUint32:  {Routine: RuntimePkgPath + ".ToUint32", Zero: "0"},
	KindUint64:  {Routine: RuntimePkgPath + ".ToUint64", Zero: "0"},
	KindFloat32: {Routine: RuntimePkgPath + ".ToFloat32", Zero: "0"},
	KindFloat64: {Routine: RuntimePkgPath + ".ToFloat64", Zero: "0"},
	KindDecimal: {Routine: RuntimePkgPath + ".ToDecimal", Zero: DecimalPkgPath + ".Zero"},
}

// ConversionFor returns the canonical conversion of a kind. Strings are not
// part of the table: they are handled by the stringify rules.
func ConversionFor(k KindEnum) (Conversion, bool) {
	c, ok := conversions[k]
	return c, ok
}
