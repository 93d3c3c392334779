package mapping

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"projector-generator/internal/analyze"
	"projector-generator/internal/match"
)

// TypeLiteralPrefix marks a default value naming a type.
const TypeLiteralPrefix = "type:"

// Extract normalizes the raw configuration of a member.
//
// A blank source name defaults to the declared name; constructor parameters
// are Pascalized first so that "full_name" looks for FullName. The default
// value is typed against memberType.
//
// Extract always returns a usable configuration. Values that cannot be
// interpreted are dropped and reported in the returned error.
func Extract(
	raw analyze.RawConfig,
	declaredName string,
	kind analyze.MemberKind,
	memberType analyze.TypeRef,
) (MemberConfig, error) {
	var (
		cfg  MemberConfig
		errs []error
	)

	str := func(key string) string {
		v, ok := raw[key]
		if !ok || v == nil {
			return ""
		}

		s, err := cast.ToStringE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return ""
		}

		return strings.TrimSpace(s)
	}

	flag := func(key string) bool {
		v, ok := raw[key]
		if !ok || v == nil {
			return false
		}

		b, err := cast.ToBoolE(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return false
		}

		return b
	}

	cfg.SourceName = str(analyze.KeySourceName)
	if cfg.SourceName == "" {
		cfg.SourceName = DefaultSourceName(declaredName, kind)
	}

	cfg.Ignore = flag(analyze.KeyIgnore)
	cfg.UseDefaultValue = flag(analyze.KeyUseDefaultValue)
	cfg.ConversionMethod = str(analyze.KeyConversionMethod)
	cfg.Expression = str(analyze.KeyExpression)
	cfg.ItemExpression = str(analyze.KeyItemExpression)

	shape, err := analyze.ParseShapeKind(str(analyze.KeyCollectionShape))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.CollectionShape = shape

	lit, err := ExtractLiteral(raw[analyze.KeyDefaultValue], memberType)
	if err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", analyze.KeyDefaultValue, err))
	}
	cfg.DefaultValue = lit

	if len(errs) > 0 {
		return cfg, fmt.Errorf("member %s: %w", declaredName, errors.Join(errs...))
	}

	return cfg, nil
}

// DefaultSourceName returns the source member looked up for a target member
// without an explicit source name.
func DefaultSourceName(declaredName string, kind analyze.MemberKind) string {
	if kind == analyze.MemberParameter {
		return match.Pascalize(declaredName)
	}

	return declaredName
}

// ExtractLiteral types a raw default value against the member type.
func ExtractLiteral(v any, memberType analyze.TypeRef) (Literal, error) {
	switch v := v.(type) {
	case nil:
		return Literal{}, nil
	case analyze.TypeRef:
		if v.IsZero() {
			return Literal{}, errors.New("empty type reference")
		}
		return Literal{Kind: LiteralType, Type: v.Info.ID}, nil
	case analyze.TypeID:
		return Literal{Kind: LiteralType, Type: v.NonNullable()}, nil
	case map[string]any:
		if name, ok := v["type"]; ok && len(v) == 1 {
			return typeLiteral(cast.ToString(name))
		}
		return Literal{}, fmt.Errorf("unsupported default value %v", v)
	}

	text, err := cast.ToStringE(v)
	if err != nil {
		return Literal{}, err
	}

	text = strings.TrimSpace(text)
	if name, ok := strings.CutPrefix(text, TypeLiteralPrefix); ok {
		return typeLiteral(name)
	}

	info := memberType.Info
	switch {
	case info == nil:
	case info.IsEnum():
		return enumLiteral(info, text), nil
	case info.IsString() && !isQuoted(text):
		return Literal{Kind: LiteralPrimitive, Text: strconv.Quote(text)}, nil
	}

	return Literal{Kind: LiteralPrimitive, Text: text}, nil
}

func typeLiteral(name string) (Literal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Literal{}, errors.New("empty type literal")
	}

	return Literal{Kind: LiteralType, Type: analyze.ParseTypeID(name).NonNullable()}, nil
}

// enumLiteral resolves an enumerant name, written bare or qualified, or an
// integer value. Anything else is kept verbatim.
func enumLiteral(info *analyze.TypeInfo, text string) Literal {
	name := text
	if i := strings.LastIndex(text, "."); i >= 0 {
		name = text[i+1:]
	}

	if e, ok := info.Enumerant(name); ok {
		return Literal{Kind: LiteralEnum, Type: info.ID, Enumerant: e.Name}
	}

	if _, err := strconv.ParseInt(text, 0, 64); err == nil {
		return Literal{Kind: LiteralEnum, Type: info.ID, Text: text}
	}

	return Literal{Kind: LiteralPrimitive, Text: text}
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}

	return (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '`' && s[len(s)-1] == '`')
}
