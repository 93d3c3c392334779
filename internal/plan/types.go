package plan

import (
	"iter"

	"projector-generator/internal/analyze"
	"projector-generator/internal/common"
)

// Expression placeholders.
const (
	// SourcePlaceholder stands for the value being projected, or for one
	// element inside an item mapping.
	SourcePlaceholder = "$source"
	// ContextPlaceholder stands for the projection context.
	ContextPlaceholder = "$context"
)

// PropertyMapping is the plan for one target member. It is one of
// IgnoredMapping, ExpressionMapping, ProjectionMapping or CollectionMapping.
type PropertyMapping interface {
	// MemberName returns the target member name; empty for item mappings.
	MemberName() string

	isPropertyMapping()
}

// IgnoredMapping leaves the member unset.
type IgnoredMapping struct {
	Name string
}

// ExpressionMapping sets the member to an expression.
type ExpressionMapping struct {
	Name       string
	Expression string
}

// ProjectionMapping projects a nested source value into a nested projection type.
type ProjectionMapping struct {
	Name       string
	TargetType analyze.TypeID
	SourcePath string
	SourceType analyze.TypeID
}

// CollectionMapping maps every element of a source collection.
type CollectionMapping struct {
	Name           string
	SourcePath     string
	SourceType     analyze.TypeID // whole source collection
	SourceElemType analyze.TypeID
	SourceShape    analyze.ShapeKind
	TargetType     analyze.TypeID // whole target collection
	TargetElemType analyze.TypeID
	TargetShape    analyze.ShapeKind
	Transform      CollectionTransform
	// Item maps one element bound to $source; never nil.
	Item PropertyMapping
}

func (m IgnoredMapping) MemberName() string    { return m.Name }
func (m ExpressionMapping) MemberName() string { return m.Name }
func (m ProjectionMapping) MemberName() string { return m.Name }
func (m CollectionMapping) MemberName() string { return m.Name }

func (IgnoredMapping) isPropertyMapping()    {}
func (ExpressionMapping) isPropertyMapping() {}
func (ProjectionMapping) isPropertyMapping() {}
func (CollectionMapping) isPropertyMapping() {}

// CollectionTransform is the materialization implied by the output shape.
type CollectionTransform int

const (
	TransformNone    CollectionTransform = iota // lazy sequence
	TransformToSet                              // distinct elements
	TransformToList                             // order-preserving copy
	TransformToArray                            // fixed-size copy
)

// String returns a human-readable transform name.
func (t CollectionTransform) String() string {
	switch t {
	case TransformNone:
		return "none"
	case TransformToSet:
		return "to_set"
	case TransformToList:
		return "to_list"
	case TransformToArray:
		return "to_array"
	default:
		return common.UnknownStr
	}
}

// TransformFor returns the transform materializing a shape.
func TransformFor(shape analyze.ShapeKind) CollectionTransform {
	switch shape {
	case analyze.ShapeCollection:
		return TransformToSet
	case analyze.ShapeList:
		return TransformToList
	case analyze.ShapeArray:
		return TransformToArray
	default:
		return TransformNone
	}
}

// Projection is the complete plan for populating a target type from a source type.
type Projection struct {
	Target  analyze.TypeID
	Source  analyze.TypeID
	Context *analyze.TypeID
	// Properties are the member mappings in declaration order.
	Properties []PropertyMapping
	// Constructor is nil when no usable constructor was found.
	Constructor *ConstructorMapping
}

// ConstructorMapping is the selected constructor and its argument mappings.
type ConstructorMapping struct {
	// Name of the constructor function, empty for a composite literal.
	Name string
	// Pointer is true when the constructor returns *T.
	Pointer bool
	// Parameters are the argument mappings in declaration order.
	Parameters []PropertyMapping
}

// HasContext returns true if the projection takes a context value.
func (p *Projection) HasContext() bool {
	return p.Context != nil
}

// AllMappings yields constructor parameter mappings, then property
// mappings, descending into collection item mappings.
func (p *Projection) AllMappings() iter.Seq[PropertyMapping] {
	return func(yield func(PropertyMapping) bool) {
		var groups [][]PropertyMapping
		if p.Constructor != nil {
			groups = append(groups, p.Constructor.Parameters)
		}
		groups = append(groups, p.Properties)

		for _, group := range groups {
			for _, m := range group {
				if !yieldFlat(m, yield) {
					return
				}
			}
		}
	}
}

func yieldFlat(m PropertyMapping, yield func(PropertyMapping) bool) bool {
	if !yield(m) {
		return false
	}

	if c, ok := m.(CollectionMapping); ok && c.Item != nil {
		return yieldFlat(c.Item, yield)
	}

	return true
}

// NestedTargets returns the distinct non-nullable projection targets
// referenced by the projection, in mapping order.
func (p *Projection) NestedTargets() []analyze.TypeID {
	var (
		out  []analyze.TypeID
		seen = make(map[string]bool)
	)

	for m := range p.AllMappings() {
		pm, ok := m.(ProjectionMapping)
		if !ok || seen[pm.TargetType.Canonical] {
			continue
		}

		seen[pm.TargetType.Canonical] = true
		out = append(out, pm.TargetType.NonNullable())
	}

	return out
}

// ProjectionDependencies is a projection with its resolved nested projections.
type ProjectionDependencies struct {
	Projection *Projection
	// Dependencies maps every nested target reachable from the projection to
	// its projection, or to nil for a type that is not a projection.
	// A nil map means the projection reaches a cycle.
	Dependencies map[analyze.TypeID]*Projection
}

// HasCycle returns true if the projection reaches a circular dependency.
func (d ProjectionDependencies) HasCycle() bool {
	return d.Dependencies == nil
}

// Emittable returns true if code can be generated for the entry: it has a
// constructor, no cycle, and every nested projection has a constructor.
func (d ProjectionDependencies) Emittable() bool {
	if d.Projection == nil || d.Projection.Constructor == nil || d.HasCycle() {
		return false
	}

	for _, dep := range d.Dependencies {
		if dep != nil && dep.Constructor == nil {
			return false
		}
	}

	return true
}
