package emit

import (
	"go/token"
	"go/types"
	"strconv"
	"strings"

	"projector-generator/internal/analyze"
	"projector-generator/internal/match"
)

// Names used by every generated function body.
const (
	resultVar = "out"
	elemVar   = "elem"
)

// baseName strips type arguments from a type name.
func baseName(name string) string {
	if i := strings.IndexByte(name, '['); i >= 0 {
		return name[:i]
	}

	return name
}

// FunctionName returns the name of the function projecting into target.
func FunctionName(target analyze.TypeID) string {
	return "Project" + baseName(target.Name)
}

// ListingName returns the name of the listing wrapper for target.
func ListingName(target analyze.TypeID) string {
	return "To" + baseName(target.Name)
}

// FileName returns the snake_case file name for target.
func FileName(target analyze.TypeID, suffix string) string {
	return strings.Join(match.TokenizeIdent(baseName(target.Name)), "_") + suffix
}

// varName derives a local variable name from a type name. Names that are
// keywords, predeclared identifiers or rejected by taken get a suffix.
func varName(typeName string, taken func(string) bool) string {
	base := match.Camelize(baseName(typeName))
	if base == "" || !(token.IsIdentifier(base) || token.IsKeyword(base)) {
		base = "v"
	}

	name := base
	for i := 2; isReserved(name) || taken(name); i++ {
		name = base + "Value"
		if i > 2 {
			name += strconv.Itoa(i - 1)
		}
	}

	return name
}

func isReserved(name string) bool {
	switch name {
	case resultVar, elemVar:
		return true
	default:
	}

	return token.IsKeyword(name) || types.Universe.Lookup(name) != nil
}
