package analyze

import (
	"cmp"
	"slices"
	"strings"
)

// TypeStringer renders canonical type names with package names instead of
// import paths, e.g. "[]projector-generator/store.OrderItem" as "[]store.OrderItem".
type TypeStringer struct {
	replacer *strings.Replacer
}

// NewTypeStringer creates a TypeStringer for the packages known to table.
func NewTypeStringer(table *TypeTable) *TypeStringer {
	paths := make([]string, 0, len(table.Packages))
	for path := range table.Packages {
		if strings.Contains(path, "/") {
			paths = append(paths, path)
		}
	}

	// Longer paths first so that a path is never shadowed by one of its suffixes.
	slices.SortFunc(paths, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), cmp.Compare(a, b))
	})

	pairs := make([]string, 0, 2*len(paths))
	for _, path := range paths {
		pairs = append(pairs, path+".", table.PackageName(path)+".")
	}

	return &TypeStringer{replacer: strings.NewReplacer(pairs...)}
}

// TypeString returns the short form of id, prefixed with "*" when nullable.
func (s *TypeStringer) TypeString(id TypeID) string {
	return s.Short(id.String())
}

// Short rewrites every qualified name inside text.
func (s *TypeStringer) Short(text string) string {
	return s.replacer.Replace(text)
}
