package emit

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"projector-generator/internal/analyze"
	"projector-generator/internal/plan"
	"projector-generator/primitive"
)

// maxNestingDepth bounds inline function literals. The graph never holds
// cycles, so hitting it means a corrupted plan.
const maxNestingDepth = 64

const rt = primitive.RuntimePkgPath + "."

var (
	errNoContext   = errors.New("expression uses $context but the projection has no context")
	errTooDeep     = errors.New("nested projections exceed maximum depth")
	simpleSelector = regexp.MustCompile(`^[\pL\d_.]+$`)
)

// renderer turns the mappings of one graph entry into Go expressions.
// Every name it produces is path-qualified.
type renderer struct {
	table  *analyze.TypeTable
	deps   map[analyze.TypeID]*plan.Projection
	ctxVar string
	taken  func(string) bool
	depth  int
}

// body renders the statements building p from the value in sourceVar.
func (r *renderer) body(p *plan.Projection, sourceVar string) (string, error) {
	if p.Constructor == nil {
		return "", fmt.Errorf("%s has no constructor", p.Target)
	}

	var sb strings.Builder

	init, err := r.construct(p, sourceVar)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "%s := %s\n", resultVar, init)

	for _, m := range p.Properties {
		if _, ok := m.(plan.IgnoredMapping); ok {
			continue
		}

		expr, err := r.mapping(m, sourceVar)
		if err != nil {
			return "", fmt.Errorf("member %s: %w", m.MemberName(), err)
		}
		fmt.Fprintf(&sb, "%s.%s = %s\n", resultVar, m.MemberName(), expr)
	}

	fmt.Fprintf(&sb, "return %s\n", resultVar)

	return sb.String(), nil
}

// construct renders the composite literal or constructor call.
func (r *renderer) construct(p *plan.Projection, sourceVar string) (string, error) {
	ctor := p.Constructor
	if ctor.Name == "" {
		return p.Target.Canonical + "{}", nil
	}

	params := r.constructorParams(p.Target, ctor.Name)

	args := make([]string, 0, len(ctor.Parameters))
	for i, m := range ctor.Parameters {
		if _, ok := m.(plan.IgnoredMapping); ok {
			zero := "nil"
			if i < len(params) {
				zero = plan.ZeroValue(params[i].Type)
			}
			args = append(args, zero)
			continue
		}

		expr, err := r.mapping(m, sourceVar)
		if err != nil {
			return "", fmt.Errorf("parameter %s: %w", m.MemberName(), err)
		}
		args = append(args, expr)
	}

	call := qualified(p.Target.Namespace, ctor.Name) + "(" + strings.Join(args, ", ") + ")"
	if ctor.Pointer {
		return "*" + call, nil
	}

	return call, nil
}

func (r *renderer) constructorParams(target analyze.TypeID, name string) []analyze.Member {
	info := r.table.Lookup(target)
	if info == nil {
		return nil
	}

	for _, c := range info.Constructors {
		if c.Name == name {
			return c.Params
		}
	}

	return nil
}

// mapping renders one member mapping with $source bound to source.
func (r *renderer) mapping(m plan.PropertyMapping, source string) (string, error) {
	switch m := m.(type) {
	case plan.ExpressionMapping:
		return r.substitute(m.Expression, source)

	case plan.ProjectionMapping:
		path, err := r.substitute(m.SourcePath, source)
		if err != nil {
			return "", err
		}
		return r.projection(m, path)

	case plan.CollectionMapping:
		path, err := r.substitute(m.SourcePath, source)
		if err != nil {
			return "", err
		}
		return r.collection(m, path)

	case plan.IgnoredMapping:
		return "", fmt.Errorf("ignored member %s has no value", m.Name)

	default:
		return "", fmt.Errorf("unsupported mapping %T", m)
	}
}

func (r *renderer) substitute(expr, source string) (string, error) {
	if strings.Contains(expr, plan.ContextPlaceholder) {
		if r.ctxVar == "" {
			return "", errNoContext
		}
		expr = strings.ReplaceAll(expr, plan.ContextPlaceholder, r.ctxVar)
	}

	return strings.ReplaceAll(expr, plan.SourcePlaceholder, source), nil
}

// projection renders a nested projection of path, lifting or lowering
// nullability as the two sides require.
func (r *renderer) projection(m plan.ProjectionMapping, path string) (string, error) {
	target, source := m.TargetType.NonNullable(), m.SourceType.NonNullable()

	var fn string
	if dep := r.deps[target]; dep != nil {
		lit, err := r.literal(dep)
		if err != nil {
			return "", err
		}
		fn = lit
	} else if !target.Same(source) {
		fn = fmt.Sprintf("func(v %s) %s { return %s(v) }", source.Canonical, target.Canonical, target.Canonical)
	}

	tn, sn := m.TargetType.Nullable, m.SourceType.Nullable

	switch {
	case fn == "" && tn == sn:
		return path, nil
	case fn == "" && tn:
		return rt + "Ptr(" + path + ")", nil
	case fn == "":
		return rt + "Deref(" + path + ", " + r.zero(target) + ")", nil
	case tn && sn:
		return rt + "MapPtr(" + path + ", " + fn + ")", nil
	case sn:
		return rt + "MapValue(" + path + ", " + fn + ", " + r.zero(target) + ")", nil
	case tn:
		return rt + "Ptr(" + fn + "(" + path + "))", nil
	default:
		return fn + "(" + path + ")", nil
	}
}

// literal renders dep as a function literal from its source to its target.
func (r *renderer) literal(dep *plan.Projection) (string, error) {
	if r.depth >= maxNestingDepth {
		return "", errTooDeep
	}

	r.depth++
	defer func() { r.depth-- }()

	v := varName(dep.Source.Name, func(name string) bool {
		return name == r.ctxVar || r.taken(name)
	})

	body, err := r.body(dep, v)
	if err != nil {
		return "", fmt.Errorf("projecting %s: %w", dep.Target, err)
	}

	return fmt.Sprintf("func(%s %s) %s {\n%s}", v, dep.Source.Canonical, dep.Target.Canonical, body), nil
}

func (r *renderer) zero(id analyze.TypeID) string {
	if info := r.table.Lookup(id); info != nil {
		return plan.ZeroValue(analyze.TypeRef{Info: info, Nullable: id.Nullable})
	}

	return "*new(" + id.String() + ")"
}

// collection renders a collection mapping: a lazy sequence over the
// source, an optional per-element mapping, then the materialization the
// target type needs.
func (r *renderer) collection(m plan.CollectionMapping, path string) (string, error) {
	sourceInfo, targetInfo := r.table.Lookup(m.SourceType), r.table.Lookup(m.TargetType)
	if sourceInfo == nil {
		return "", fmt.Errorf("unknown collection type %s", m.SourceType)
	}
	if targetInfo == nil {
		return "", fmt.Errorf("unknown collection type %s", m.TargetType)
	}

	if m.SourceType.Nullable {
		path = fmt.Sprintf("%sDeref[%s](%s, %s)", rt, sourceInfo.ID.Canonical, path, plan.ZeroValue(sourceInfo.Ref()))
	}

	seq, err := r.sequence(sourceInfo, m.SourceShape, path)
	if err != nil {
		return "", err
	}

	if !isIdentity(m.Item) {
		item, err := r.mapping(m.Item, elemVar)
		if err != nil {
			return "", fmt.Errorf("element: %w", err)
		}

		seq = fmt.Sprintf("%sSelect(%s, func(%s %s) %s {\nreturn %s\n})",
			rt, seq, elemVar, m.SourceElemType, m.TargetElemType, item)
	}

	out, err := materialize(targetInfo, m.Transform, seq)
	if err != nil {
		return "", err
	}

	if m.TargetType.Nullable {
		return rt + "Ptr(" + out + ")", nil
	}

	return out, nil
}

func isIdentity(m plan.PropertyMapping) bool {
	e, ok := m.(plan.ExpressionMapping)
	return ok && e.Expression == plan.SourcePlaceholder
}

// sequence renders an iter.Seq over the elements of path.
func (r *renderer) sequence(info *analyze.TypeInfo, shape analyze.ShapeKind, path string) (string, error) {
	if info.Kind == analyze.TypeKindArray {
		if simpleSelector.MatchString(path) {
			return "slices.Values(" + path + "[:])", nil
		}
		return fmt.Sprintf("func(a %s) iter.Seq[%s] { return slices.Values(a[:]) }(%s)",
			info.ID.Canonical, info.Elem, path), nil
	}

	c, ok := iterable(info, shape)
	if !ok {
		return "", fmt.Errorf("%s cannot be iterated", info.ID)
	}

	switch c.Via {
	case "All":
		return path + ".All()", nil
	case "At":
		return fmt.Sprintf("%sIndexed[%s](%s)", rt, c.Elem, path), nil
	default:
	}

	switch info.Kind {
	case analyze.TypeKindSlice:
		return "slices.Values(" + path + ")", nil
	case analyze.TypeKindMap:
		return "maps.Keys(" + path + ")", nil
	case analyze.TypeKindSequence:
		if isChan(info) {
			return rt + "Chan(" + path + ")", nil
		}
		return path, nil
	default:
		return "", fmt.Errorf("%s cannot be iterated", info.ID)
	}
}

// iterable picks the capability used to read the elements: the one
// matching the classified shape, else any readable one.
func iterable(info *analyze.TypeInfo, shape analyze.ShapeKind) (analyze.Capability, bool) {
	caps := info.AllCapabilities()
	for _, c := range caps {
		if c.Shape == shape && c.Readable() {
			return c, true
		}
	}

	for _, c := range caps {
		if c.Readable() {
			return c, true
		}
	}

	return analyze.Capability{}, false
}

func isChan(info *analyze.TypeInfo) bool {
	canonical := info.ID.Canonical
	return strings.HasPrefix(canonical, "chan ") || strings.HasPrefix(canonical, "<-chan ")
}

// materialize turns seq into a value of the target collection type.
func materialize(target *analyze.TypeInfo, transform plan.CollectionTransform, seq string) (string, error) {
	var out string

	switch target.Kind {
	case analyze.TypeKindArray:
		return fmt.Sprintf("func() (a %s) {\ncopy(a[:], slices.Collect(%s))\nreturn a\n}()", target.ID.Canonical, seq), nil

	case analyze.TypeKindSlice:
		switch transform {
		case plan.TransformToArray:
			out = rt + "ToFixed(" + seq + ")"
		case plan.TransformToSet:
			out = "slices.Collect(maps.Keys(" + rt + "ToSet(" + seq + ")))"
		default:
			out = "slices.Collect(" + seq + ")"
		}

	case analyze.TypeKindMap:
		switch {
		case target.Elem.Info == nil || target.Elem.Nullable:
			return "", fmt.Errorf("%s is not a set", target.ID)
		case target.Elem.Info.ID.Canonical == "bool":
			out = rt + "ToBoolSet(" + seq + ")"
		case target.Elem.Info.ID.Canonical == "struct{}":
			out = rt + "ToSet(" + seq + ")"
		default:
			return "", fmt.Errorf("%s is not a set", target.ID)
		}

	case analyze.TypeKindSequence:
		if isChan(target) {
			return "", fmt.Errorf("cannot materialize into channel %s", target.ID)
		}

		switch transform {
		case plan.TransformToList:
			out = "slices.Values(slices.Collect(" + seq + "))"
		case plan.TransformToSet:
			out = "maps.Keys(" + rt + "ToSet(" + seq + "))"
		case plan.TransformToArray:
			out = "slices.Values(" + rt + "ToFixed(" + seq + "))"
		default:
			out = seq
		}

	default:
		return "", fmt.Errorf("cannot materialize into %s", target.ID)
	}

	if target.IsNamed() {
		return target.ID.Canonical + "(" + out + ")", nil
	}

	return out, nil
}

func qualified(namespace, name string) string {
	if namespace == "" {
		return name
	}

	return namespace + "." + name
}
