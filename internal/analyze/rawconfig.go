package analyze

import (
	"maps"
	"reflect"
	"strings"
)

// RawConfig is the key/value configuration attached to a type or a member,
// as written by the user. It is normalised by the mapping package.
type RawConfig map[string]any

// Raw configuration keys.
const (
	KeySourceType       = "sourceType"
	KeyContextType      = "contextType"
	KeySourceName       = "sourceName"
	KeyIgnore           = "ignore"
	KeyUseDefaultValue  = "useDefaultValue"
	KeyConversionMethod = "conversionMethod"
	KeyExpression       = "expression"
	KeyDefaultValue     = "defaultValue"
	KeyCollectionShape  = "collectionShape"
	KeyItemExpression   = "itemExpression"
)

// Struct tag names and the doc-comment directive prefix.
const (
	TagProject      = "project"
	TagCollection   = "collection"
	DirectivePrefix = "//projector:"
)

var optionAliases = map[string]string{
	"source":     KeySourceName,
	"ignore":     KeyIgnore,
	"usedefault": KeyUseDefaultValue,
	"default":    KeyDefaultValue,
	"conv":       KeyConversionMethod,
	"expr":       KeyExpression,
	"shape":      KeyCollectionShape,
	"item":       KeyItemExpression,
}

// Clone returns a shallow copy of the configuration.
func (c RawConfig) Clone() RawConfig {
	if c == nil {
		return nil
	}

	return maps.Clone(c)
}

// Has reports whether key is present.
func (c RawConfig) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// ParseTag extracts the `project` and `collection` options of a struct tag.
// Returns nil when the tag carries neither.
//
//	Name  string   `project:"source=FullName"`
//	Tags  []string `collection:"shape=set;item=strings.ToLower($source)"`
//	Notes string   `project:"-"`
func ParseTag(tag reflect.StructTag) RawConfig {
	var cfg RawConfig

	if value, ok := tag.Lookup(TagProject); ok {
		cfg = RawConfig{}
		if strings.TrimSpace(value) == "-" {
			cfg[KeyIgnore] = true
		} else {
			ParseOptions(value, cfg)
		}
	}

	if value, ok := tag.Lookup(TagCollection); ok {
		if cfg == nil {
			cfg = RawConfig{}
		}
		ParseOptions(value, cfg)
	}

	return cfg
}

// ParseOptions parses ";"-separated "key=value" options into cfg. A bare key
// is a boolean flag. Short keys (source, conv, expr, ...) are expanded to
// their raw configuration names; anything else is kept verbatim.
func ParseOptions(options string, cfg RawConfig) {
	for _, part := range strings.Split(options, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, hasValue := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if full, ok := optionAliases[strings.ToLower(key)]; ok {
			key = full
		}

		if !hasValue {
			cfg[key] = true
			continue
		}

		cfg[key] = strings.TrimSpace(value)
	}
}

// Directive is a parsed //projector: doc-comment line.
type Directive struct {
	Name string // "constructor", "param"
	Args string // remaining text
}

// ParseDirectives returns the //projector: directives found in comment lines.
func ParseDirectives(lines []string) []Directive {
	var out []Directive
	for _, line := range lines {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), DirectivePrefix)
		if !ok {
			continue
		}

		name, args, _ := strings.Cut(rest, " ")
		out = append(out, Directive{Name: strings.TrimSpace(name), Args: strings.TrimSpace(args)})
	}

	return out
}
