package plan

import (
	"projector-generator/internal/analyze"
	"projector-generator/internal/mapping"
	"projector-generator/primitive"
)

// runtime is the qualifier of the runtime helpers used in expressions.
const runtime = primitive.RuntimePkgPath + "."

// ConvertExpression renders the conversion of a source value into the target
// type. It returns false when no conversion applies and the value has to be
// projected instead.
//
// One level of nullability is stripped from both sides; the nullability
// combination picks the template:
//
//	target    source    numeric example
//	T         S         T(S)
//	*T        S         Ptr(T(S))
//	T         *S        CastOr[T](S, default)
//	*T        *S        CastPtr[T](S)
func ConvertExpression(target, source analyze.TypeRef, path string, cfg mapping.MemberConfig) (string, bool) {
	if cfg.ConversionMethod != "" {
		return ContextPlaceholder + "." + cfg.ConversionMethod + "(" + path + ")", true
	}

	t, s := target.Info, source.Info
	if t == nil || s == nil {
		return "", false
	}

	tn, sn := target.Nullable, source.Nullable
	def := cfg.DefaultValue

	switch {
	case t.IsString():
		if s.IsString() {
			return sameBase(target, source, path, cfg), true
		}

		return pick(tn, sn,
			runtime+"Stringify("+path+")",
			runtime+"Ptr("+runtime+"Stringify("+path+"))",
			runtime+"StringifyOr("+path+", "+RenderLiteral(def, `""`)+")",
			runtime+"StringifyPtr("+path+")",
		), true

	case t.ID.Same(s.ID):
		return sameBase(target, source, path, cfg), true

	case isText(t) && isText(s):
		name := t.ID.Canonical
		return pick(tn, sn,
			name+"("+path+")",
			runtime+"Ptr("+name+"("+path+"))",
			runtime+"CastTextOr["+name+"]("+path+", "+RenderLiteral(def, `""`)+")",
			runtime+"CastTextPtr["+name+"]("+path+")",
		), true

	case t.IsNumeric() && s.IsNumeric():
		name := t.ID.Canonical
		return pick(tn, sn,
			name+"("+path+")",
			runtime+"Ptr("+name+"("+path+"))",
			runtime+"CastOr["+name+"]("+path+", "+RenderLiteral(def, "0")+")",
			runtime+"CastPtr["+name+"]("+path+")",
		), true
	}

	conv, ok := primitive.ConversionFor(t.Basic)
	if !ok || (t.IsNamed() && t.Basic != primitive.KindDecimal) {
		return "", false
	}

	return pick(tn, sn,
		conv.Routine+"("+path+")",
		runtime+"Ptr("+conv.Routine+"("+path+"))",
		runtime+"ConvertOr("+path+", "+conv.Routine+", "+RenderLiteral(def, conv.Zero)+")",
		runtime+"ConvertPtr("+path+", "+conv.Routine+")",
	), true
}

// Lossy reports whether the numeric conversion of source into target can
// change the value. Enums are excluded: their numeric conversions are the
// declared way to build them.
func Lossy(target, source analyze.TypeRef) bool {
	t, s := target.Info, source.Info
	if t == nil || s == nil || t.IsEnum() || s.IsEnum() {
		return false
	}

	if !s.IsNumeric() || !t.IsNumeric() {
		return false
	}

	return !t.Basic.Holds(s.Basic)
}

// sameBase copies a value between two spellings of the same type.
func sameBase(target, source analyze.TypeRef, path string, cfg mapping.MemberConfig) string {
	switch {
	case target.Nullable == source.Nullable:
		return path
	case target.Nullable:
		return runtime + "Ptr(" + path + ")"
	default:
		return runtime + "Deref(" + path + ", " + RenderLiteral(cfg.DefaultValue, ZeroValue(target)) + ")"
	}
}

// pick selects a template by the target and source nullability.
func pick(targetNullable, sourceNullable bool, plain, wrap, fallback, both string) string {
	switch {
	case !targetNullable && !sourceNullable:
		return plain
	case targetNullable && !sourceNullable:
		return wrap
	case !targetNullable:
		return fallback
	default:
		return both
	}
}

// isText returns true for string enums and named string types, which
// convert to each other but are not numeric.
func isText(info *analyze.TypeInfo) bool {
	return info.Basic == primitive.KindString && (info.IsEnum() || info.IsNamed())
}
