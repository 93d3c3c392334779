package analyze

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"log/slog"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"projector-generator/primitive"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

// Projection marker types declared by the runtime package.
const (
	markerFrom        = "From"
	markerFromContext = "FromContext"
)

// Analyzer loads Go packages and builds a type table.
type Analyzer struct {
	// Dir is the directory package patterns are resolved from. Empty means the
	// current directory.
	Dir string

	table     *TypeTable
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
	modules   []string                 // module paths of the loaded packages
	logger    *slog.Logger
}

// NewAnalyzer creates a new Analyzer. A nil logger falls back to slog.Default().
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{
		table:     NewTypeTable(),
		typeCache: make(map[types.Type]*TypeInfo),
		logger:    logger,
	}
}

// LoadPackages loads the specified packages and builds the type table.
// Patterns are standard Go package patterns (e.g., "./store", "projector-generator/warehouse").
func (a *Analyzer) LoadPackages(ctx context.Context, patterns ...string) (*TypeTable, error) {
	cfg := &packages.Config{
		Mode:    LoadMode,
		Context: ctx,
		Dir:     a.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	for _, pkg := range pkgs {
		if pkg.Module != nil && !slices.Contains(a.modules, pkg.Module.Path) {
			a.modules = append(a.modules, pkg.Module.Path)
		}
	}

	// Types first, so that enumerants and constructors find their owners.
	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	for _, pkg := range pkgs {
		a.processConstants(pkg)
		a.processConstructors(pkg)
	}

	for _, pkg := range pkgs {
		a.addImplicitConstructors(pkg.PkgPath)
	}

	a.logger.Debug("packages analyzed",
		slog.Int("packages", len(pkgs)),
		slog.Int("types", len(a.table.Types)),
		slog.Int("projections", len(a.table.Projections())))

	return a.table, nil
}

// Table returns the current type table.
func (a *Analyzer) Table() *TypeTable {
	return a.table
}

// processPackage extracts exported named types from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	info := &PackageInfo{
		Path: pkg.PkgPath,
		Name: pkg.Name,
	}
	if len(pkg.GoFiles) > 0 {
		info.Dir = filepath.Dir(pkg.GoFiles[0])
	}
	a.table.AddPackage(info)

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		if named, ok := typeName.Type().(*types.Named); ok && named.TypeParams().Len() > 0 {
			a.logger.Debug("skipping generic type", slog.String("type", pkg.PkgPath+"."+name))
			continue
		}

		a.analyzeType(typeName.Type())
	}
}

// refFor analyzes t and returns a reference to it. One pointer level is
// represented as nullability.
func (a *Analyzer) refFor(t types.Type) TypeRef {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		return TypeRef{Info: a.analyzeType(ptr.Elem()), Nullable: true}
	}

	return TypeRef{Info: a.analyzeType(t)}
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	t = types.Unalias(t)

	// Check cache to handle recursive types
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	canonical := types.TypeString(t, nil)
	if existing := a.table.Types[canonical]; existing != nil {
		a.typeCache[t] = existing
		return existing
	}

	info := &TypeInfo{ID: TypeID{Name: canonical, Canonical: canonical}}

	// Pre-register to handle recursive types (we'll fill in details)
	a.typeCache[t] = info
	a.table.Add(info)

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Basic:
		info.Kind = TypeKindBasic
		info.Basic = primitive.FromBasicName(tt.Name())

	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(tt, info)

	default:
		a.analyzeComposite(tt, info)
	}

	return info
}

// analyzeComposite fills the kind and element types of unnamed composite types.
func (a *Analyzer) analyzeComposite(t types.Type, info *TypeInfo) {
	switch tt := t.(type) {
	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.Elem = a.refFor(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.Elem = a.refFor(tt.Elem())

	case *types.Array:
		info.Kind = TypeKindArray
		info.Elem = a.refFor(tt.Elem())
		info.Len = tt.Len()

	case *types.Map:
		info.Kind = TypeKindMap
		info.Key = a.refFor(tt.Key())
		info.Elem = a.refFor(tt.Elem())

	case *types.Chan:
		info.Kind = TypeKindSequence
		info.Elem = a.refFor(tt.Elem())

	case *types.Signature:
		if elem, ok := seqElem(tt); ok {
			info.Kind = TypeKindSequence
			info.Elem = a.refFor(elem)
		}

	case *types.Interface:
		info.Kind = TypeKindInterface

	default:
		// Tuples, type parameters and the like never appear as member types
		info.Kind = TypeKindUnknown
	}
}

// seqElem recognizes the iter.Seq shape func(yield func(T) bool).
func seqElem(sig *types.Signature) (types.Type, bool) {
	if sig.Params().Len() != 1 || sig.Results().Len() != 0 {
		return nil, false
	}

	yield, ok := sig.Params().At(0).Type().Underlying().(*types.Signature)
	if !ok || yield.Params().Len() != 1 || yield.Results().Len() != 1 {
		return nil, false
	}

	if res, ok := yield.Results().At(0).Type().(*types.Basic); !ok || res.Kind() != types.Bool {
		return nil, false
	}

	return yield.Params().At(0).Type(), true
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	if obj.Pkg() != nil {
		info.ID.Namespace = obj.Pkg().Path()
		info.ID.Name = strings.TrimPrefix(info.ID.Canonical, info.ID.Namespace+".")
		a.table.Add(info)
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		if a.isExternalPackage(info.ID.Namespace) {
			info.Kind = TypeKindExternal
			return
		}

		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)

	case *types.Basic:
		info.Kind = TypeKindBasic
		info.Basic = primitive.FromBasicName(ut.Name())

	default:
		a.analyzeComposite(ut, info)
	}

	if !a.isExternalPackage(info.ID.Namespace) {
		a.analyzeMethods(named, info)
	}
}

// isExternalPackage returns true for packages outside the modules being
// analyzed whose first path element has no dot, i.e. the standard library.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	for _, mod := range a.modules {
		if pkgPath == mod || strings.HasPrefix(pkgPath, mod+"/") {
			return false
		}
	}

	first, _, _ := strings.Cut(pkgPath, "/")
	return !strings.Contains(first, ".")
}

// analyzeStructFields extracts exported fields from a struct type, promoting
// the fields of embedded structs. The blank projection marker field is
// recorded as the type's projection declaration.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	var promoted []*types.Struct

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)

		if field.Name() == "_" {
			if decl, ok := a.projectionMarker(field.Type()); ok {
				info.Projection = decl
			}
			continue
		}

		if field.Embedded() {
			if inner, ok := derefStruct(field.Type()); ok {
				promoted = append(promoted, inner)
			}
		}

		if !field.Exported() {
			continue
		}

		info.Members = append(info.Members, Member{
			Name:     field.Name(),
			Type:     a.refFor(field.Type()),
			Kind:     MemberField,
			Settable: true,
			Config:   ParseTag(reflect.StructTag(st.Tag(i))),
		})
	}

	// Fields of embedded structs never shadow the outer ones.
	for _, inner := range promoted {
		holder := &TypeInfo{}
		a.analyzeStructFields(inner, holder)

		for _, m := range holder.Members {
			if _, exists := info.Member(m.Name); !exists {
				info.Members = append(info.Members, m)
			}
		}
	}
}

func derefStruct(t types.Type) (*types.Struct, bool) {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}

	st, ok := t.Underlying().(*types.Struct)
	return st, ok
}

// projectionMarker recognizes projector.From[S] and projector.FromContext[S, C].
func (a *Analyzer) projectionMarker(t types.Type) (*ProjectionDecl, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil || named.Obj().Pkg().Path() != primitive.RuntimePkgPath {
		return nil, false
	}

	args := named.TypeArgs()
	switch {
	case named.Obj().Name() == markerFrom && args.Len() == 1:
		return &ProjectionDecl{Source: a.refFor(args.At(0)).Info.ID}, true

	case named.Obj().Name() == markerFromContext && args.Len() == 2:
		ctxID := a.refFor(args.At(1)).ID()
		return &ProjectionDecl{Source: a.refFor(args.At(0)).Info.ID, Context: &ctxID}, true

	default:
		return nil, false
	}
}

// analyzeMethods records exported niladic single-result methods as readable
// members and derives the iteration capabilities of the method set.
func (a *Analyzer) analyzeMethods(named *types.Named, info *TypeInfo) {
	hasLen := false
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		sig := m.Type().(*types.Signature)
		if m.Name() == "Len" && sig.Params().Len() == 0 && sig.Results().Len() == 1 {
			hasLen = true
		}
	}

	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if !m.Exported() {
			continue
		}

		sig := m.Type().(*types.Signature)
		params, results := sig.Params(), sig.Results()

		switch {
		case m.Name() == "At" && hasLen && params.Len() == 1 && isInt(params.At(0).Type()) && results.Len() == 1:
			info.Capabilities = append(info.Capabilities, Capability{
				Shape: ShapeList, Elem: a.refFor(results.At(0).Type()), Via: m.Name(),
			})

		case m.Name() == "Contains" && params.Len() == 1 && results.Len() == 1 && isBool(results.At(0).Type()):
			info.Capabilities = append(info.Capabilities, Capability{
				Shape: ShapeCollection, Elem: a.refFor(params.At(0).Type()), Via: m.Name(),
			})

		case m.Name() == "All" && params.Len() == 0 && results.Len() == 1:
			if seq, ok := results.At(0).Type().Underlying().(*types.Signature); ok {
				if elem, ok := seqElem(seq); ok {
					info.Capabilities = append(info.Capabilities, Capability{
						Shape: ShapeEnumerable, Elem: a.refFor(elem), Via: m.Name(),
					})
				}
			}
		}

		if params.Len() == 0 && results.Len() == 1 && !sig.Variadic() {
			if _, exists := info.Member(m.Name()); !exists {
				info.Members = append(info.Members, Member{
					Name: m.Name(),
					Type: a.refFor(results.At(0).Type()),
					Kind: MemberMethod,
				})
			}
		}
	}
}

func isInt(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.Int
}

func isBool(t types.Type) bool {
	b, ok := t.(*types.Basic)
	return ok && b.Kind() == types.Bool
}

// processConstants attaches package-level constants to their named basic types.
func (a *Analyzer) processConstants(pkg *packages.Package) {
	scope := pkg.Types.Scope()

	var consts []*types.Const
	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && c.Exported() {
			consts = append(consts, c)
		}
	}
	slices.SortFunc(consts, func(x, y *types.Const) int { return cmp.Compare(x.Pos(), y.Pos()) })

	for _, c := range consts {
		named, ok := c.Type().(*types.Named)
		if !ok || named.Obj().Pkg() != pkg.Types {
			continue
		}

		info := a.typeCache[named]
		if info == nil || info.Kind != TypeKindBasic && info.Kind != TypeKindEnum {
			continue
		}

		info.Kind = TypeKindEnum
		info.Enumerants = append(info.Enumerants, Enumerant{Name: c.Name(), Value: c.Val().ExactString()})
	}
}

// processConstructors records New* functions returning T or *T as
// constructors of T, reading //projector: directives from their doc comments.
func (a *Analyzer) processConstructors(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv != nil || !strings.HasPrefix(fd.Name.Name, "New") || !fd.Name.IsExported() {
				continue
			}

			fn, ok := pkg.TypesInfo.Defs[fd.Name].(*types.Func)
			if !ok {
				continue
			}

			a.addConstructor(pkg, fn, docLines(fd.Doc))
		}
	}
}

func docLines(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}

	lines := make([]string, 0, len(doc.List))
	for _, c := range doc.List {
		lines = append(lines, c.Text)
	}

	return lines
}

func (a *Analyzer) addConstructor(pkg *packages.Package, fn *types.Func, doc []string) {
	sig := fn.Type().(*types.Signature)
	if sig.Variadic() || sig.TypeParams().Len() > 0 || sig.Results().Len() != 1 {
		return
	}

	result := sig.Results().At(0).Type()
	pointer := false
	if ptr, ok := result.(*types.Pointer); ok {
		result, pointer = ptr.Elem(), true
	}

	named, ok := result.(*types.Named)
	if !ok || named.Obj().Pkg() != pkg.Types {
		return
	}

	owner := a.typeCache[named]
	if owner == nil || owner.Kind != TypeKindStruct {
		return
	}

	ctor := Constructor{Name: fn.Name(), Pointer: pointer}
	paramConfig := map[string]RawConfig{}
	for _, d := range ParseDirectives(doc) {
		switch d.Name {
		case "constructor":
			ctor.Designated = true
		case "param":
			name, options, _ := strings.Cut(d.Args, " ")
			cfg := RawConfig{}
			ParseOptions(options, cfg)
			paramConfig[name] = cfg
		default:
			a.logger.Warn("unknown directive",
				slog.String("func", fn.FullName()), slog.String("directive", d.Name))
		}
	}

	for i := 0; i < sig.Params().Len(); i++ {
		p := sig.Params().At(i)
		ctor.Params = append(ctor.Params, Member{
			Name:   p.Name(),
			Type:   a.refFor(p.Type()),
			Kind:   MemberParameter,
			Config: paramConfig[p.Name()],
		})
	}

	owner.Constructors = append(owner.Constructors, ctor)
}

// addImplicitConstructors gives structs without New* functions the
// composite-literal constructor.
func (a *Analyzer) addImplicitConstructors(pkgPath string) {
	pkg := a.table.Packages[pkgPath]
	if pkg == nil {
		return
	}

	for _, id := range pkg.Types {
		info := a.table.Lookup(id)
		if info != nil && info.Kind == TypeKindStruct && len(info.Constructors) == 0 {
			info.Constructors = []Constructor{{}}
		}
	}
}
