package analyze

import (
	"slices"
	"strings"

	"projector-generator/internal/common"
	"projector-generator/primitive"
)

var builtinNames = []string{
	"bool", "string",
	"int", "int8", "int16", "int32", "int64",
	"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	"float32", "float64", "complex64", "complex128",
	"byte", "rune",
}

// TypeTable holds every type known to a planning run.
type TypeTable struct {
	// Types maps canonical forms to TypeInfo.
	Types map[string]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Dir   string   // Directory holding the package sources, if known
	Types []TypeID // Named types defined in this package
}

// NewTypeTable creates a table holding the predeclared types and the decimal type.
func NewTypeTable() *TypeTable {
	t := &TypeTable{
		Types:    make(map[string]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}

	for _, name := range builtinNames {
		t.Types[name] = &TypeInfo{
			ID:    NewTypeID("", name),
			Kind:  TypeKindBasic,
			Basic: primitive.FromBasicName(name),
		}
	}

	t.Types["any"] = &TypeInfo{ID: NewTypeID("", "any"), Kind: TypeKindInterface}
	t.Types["error"] = &TypeInfo{ID: NewTypeID("", "error"), Kind: TypeKindInterface}

	dec := NewTypeID(primitive.DecimalPkgPath, primitive.DecimalTypeName)
	t.Types[dec.Canonical] = &TypeInfo{ID: dec, Kind: TypeKindExternal, Basic: primitive.KindDecimal}
	t.AddPackage(&PackageInfo{Path: primitive.DecimalPkgPath, Name: "decimal"})

	return t
}

// Builtin returns a predeclared type by name, or nil.
func (t *TypeTable) Builtin(name string) *TypeInfo {
	info := t.Types[name]
	if info == nil || info.IsNamed() {
		return nil
	}

	return info
}

// Intern adds info unless a type with the same canonical form is already
// known, and returns the table's instance.
func (t *TypeTable) Intern(info *TypeInfo) *TypeInfo {
	if existing, ok := t.Types[info.ID.Canonical]; ok {
		return existing
	}

	t.Add(info)
	return info
}

// Add registers info, replacing any type with the same canonical form.
func (t *TypeTable) Add(info *TypeInfo) {
	info.ID.Nullable = false
	t.Types[info.ID.Canonical] = info

	if !info.IsNamed() {
		return
	}

	pkg := t.Packages[info.ID.Namespace]
	if pkg == nil {
		pkg = &PackageInfo{Path: info.ID.Namespace, Name: common.PkgAlias(info.ID.Namespace)}
		t.Packages[pkg.Path] = pkg
	}

	if !slices.ContainsFunc(pkg.Types, info.ID.Same) {
		pkg.Types = append(pkg.Types, info.ID)
	}
}

// AddPackage registers or updates package metadata.
func (t *TypeTable) AddPackage(pkg *PackageInfo) {
	if existing := t.Packages[pkg.Path]; existing != nil {
		if pkg.Name != "" {
			existing.Name = pkg.Name
		}
		if pkg.Dir != "" {
			existing.Dir = pkg.Dir
		}
		return
	}

	t.Packages[pkg.Path] = pkg
}

// Lookup returns the TypeInfo for a given TypeID, or nil if not found.
// Nullability is ignored.
func (t *TypeTable) Lookup(id TypeID) *TypeInfo {
	return t.Types[id.Canonical]
}

// LookupName resolves a type name written as a canonical form
// ("projector-generator/store.Order"), as "pkg.Type" using a package name, or
// as a bare type name when it is unambiguous.
func (t *TypeTable) LookupName(name string) *TypeInfo {
	name = strings.TrimPrefix(name, "*")
	if info, ok := t.Types[name]; ok {
		return info
	}

	var matches []*TypeInfo
	if pkgName, typeName, ok := strings.Cut(name, "."); ok {
		for _, pkg := range t.Packages {
			if t.PackageName(pkg.Path) == pkgName {
				if info := t.Types[pkg.Path+"."+typeName]; info != nil {
					matches = append(matches, info)
				}
			}
		}
	} else {
		for _, info := range t.Types {
			if info.IsNamed() && info.ID.Name == name {
				matches = append(matches, info)
			}
		}
	}

	if common.IsSingle(matches) {
		return matches[0]
	}

	return nil
}

// PackageName returns the declared name of a package, or its alias when unknown.
func (t *TypeTable) PackageName(path string) string {
	if pkg := t.Packages[path]; pkg != nil && pkg.Name != "" {
		return pkg.Name
	}

	return common.PkgAlias(path)
}

// Sorted returns all named types ordered by canonical form.
func (t *TypeTable) Sorted() []*TypeInfo {
	var out []*TypeInfo
	for _, key := range common.SortedKeys(t.Types) {
		if info := t.Types[key]; info.IsNamed() {
			out = append(out, info)
		}
	}

	return out
}

// Projections returns the projection target types ordered by canonical form.
func (t *TypeTable) Projections() []*TypeInfo {
	var out []*TypeInfo
	for _, info := range t.Sorted() {
		if info.IsProjection() {
			out = append(out, info)
		}
	}

	return out
}
