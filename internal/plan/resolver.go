package plan

import (
	"projector-generator/internal/analyze"
	"projector-generator/internal/mapping"
)

// DefaultMaxItemDepth limits how deep collections of collections are resolved.
const DefaultMaxItemDepth = 8

// Resolver decides the mapping of single target members.
type Resolver struct {
	// MaxItemDepth limits nested collection resolution (0 = DefaultMaxItemDepth).
	MaxItemDepth int
}

// NewResolver creates a Resolver with default limits.
func NewResolver() *Resolver {
	return &Resolver{MaxItemDepth: DefaultMaxItemDepth}
}

// ResolveMember produces exactly one mapping for a target member. The first
// applicable rule wins:
//  1. ignored members are left unset
//  2. useDefaultValue sets the default, or the zero value
//  3. an expression is used verbatim
//  4. a missing source member is referenced anyway, so the compiler reports it
//  5. iterable target and source members go through the collection path
//  6. identical types are copied
//  7. convertible types are converted, anything else is projected
func (r *Resolver) ResolveMember(
	name string,
	target analyze.TypeRef,
	cfg mapping.MemberConfig,
	source *analyze.TypeInfo,
) PropertyMapping {
	if cfg.Ignore {
		return IgnoredMapping{Name: name}
	}

	if cfg.UseDefaultValue {
		return ExpressionMapping{Name: name, Expression: RenderLiteral(cfg.DefaultValue, ZeroValue(target))}
	}

	if cfg.Expression != "" {
		return ExpressionMapping{Name: name, Expression: cfg.Expression}
	}

	member, ok := lookupMember(source, cfg.SourceName)
	if !ok {
		return ExpressionMapping{Name: name, Expression: SourcePlaceholder + "." + cfg.SourceName}
	}

	path := SourcePlaceholder + "." + member.Access()

	targetShape := analyze.Classify(target)
	sourceShape := analyze.Classify(member.Type)
	if !targetShape.IsScalar() && !sourceShape.IsScalar() {
		return r.resolveCollection(name, path, target, member.Type, cfg, 0)
	}

	return r.resolveValue(name, path, target, member.Type, cfg)
}

// resolveValue applies the direct copy, conversion and projection rules.
func (r *Resolver) resolveValue(
	name, path string,
	target, source analyze.TypeRef,
	cfg mapping.MemberConfig,
) PropertyMapping {
	if cfg.ConversionMethod == "" && target.ID().Identical(source.ID()) {
		return ExpressionMapping{Name: name, Expression: path}
	}

	if expr, ok := ConvertExpression(target, source, path, cfg); ok {
		return ExpressionMapping{Name: name, Expression: expr}
	}

	return ProjectionMapping{
		Name:       name,
		TargetType: target.ID(),
		SourcePath: path,
		SourceType: source.ID(),
	}
}

// resolveCollection maps iterable members. The element mapping is bound to
// $source. The output shape is the target's own shape, raised to the
// configured shape when one is set; the source shape never widens it.
func (r *Resolver) resolveCollection(
	name, path string,
	target, source analyze.TypeRef,
	cfg mapping.MemberConfig,
	depth int,
) PropertyMapping {
	targetShape := analyze.Classify(target)
	sourceShape := analyze.Classify(source)

	var item PropertyMapping

	switch {
	case cfg.ItemExpression != "":
		item = ExpressionMapping{Expression: cfg.ItemExpression}

	case cfg.ConversionMethod == "" && !cfg.HasShapeOverride() &&
		target.Info.ID.Same(source.Info.ID) &&
		(targetShape.Elem.Nullable || targetShape.Elem.Nullable == sourceShape.Elem.Nullable):
		return ExpressionMapping{Name: name, Expression: sameBase(target, source, path, cfg)}

	default:
		item = r.resolveItem(targetShape.Elem, sourceShape.Elem, cfg, depth)
	}

	shape := targetShape.Kind
	if cfg.HasShapeOverride() {
		shape = analyze.MaxShape(targetShape.Kind, cfg.CollectionShape)
	}

	return CollectionMapping{
		Name:           name,
		SourcePath:     path,
		SourceType:     source.ID(),
		SourceElemType: sourceShape.Elem.ID(),
		SourceShape:    sourceShape.Kind,
		TargetType:     target.ID(),
		TargetElemType: targetShape.Elem.ID(),
		TargetShape:    targetShape.Kind,
		Transform:      TransformFor(shape),
		Item:           item,
	}
}

func (r *Resolver) resolveItem(target, source analyze.TypeRef, cfg mapping.MemberConfig, depth int) PropertyMapping {
	maxDepth := r.MaxItemDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxItemDepth
	}

	itemCfg := mapping.MemberConfig{
		ConversionMethod: cfg.ConversionMethod,
		DefaultValue:     cfg.DefaultValue,
	}

	if depth < maxDepth && !analyze.Classify(target).IsScalar() && !analyze.Classify(source).IsScalar() {
		return r.resolveCollection("", SourcePlaceholder, target, source, itemCfg, depth+1)
	}

	return r.resolveValue("", SourcePlaceholder, target, source, itemCfg)
}

// lookupMember finds a readable source member by exact name.
func lookupMember(source *analyze.TypeInfo, name string) (analyze.Member, bool) {
	if source == nil || name == "" {
		return analyze.Member{}, false
	}

	return source.Member(name)
}
