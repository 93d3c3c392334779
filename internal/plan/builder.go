package plan

import (
	"fmt"
	"log/slog"

	"projector-generator/internal/analyze"
	"projector-generator/internal/diagnostic"
	"projector-generator/internal/mapping"
	"projector-generator/internal/match"
)

// Suggestion thresholds for missing source members.
const (
	SuggestionMinScore = 0.5
	MaxSuggestions     = 3
)

// Builder turns projection types into projections.
type Builder struct {
	table    *analyze.TypeTable
	resolver *Resolver
	logger   *slog.Logger
}

// NewBuilder creates a Builder over a type table.
func NewBuilder(table *analyze.TypeTable, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		table:    table,
		resolver: NewResolver(),
		logger:   logger,
	}
}

// BuildAll builds every projection type of the table, in canonical order.
func (b *Builder) BuildAll() ([]*Projection, diagnostic.Diagnostics) {
	var (
		out   []*Projection
		diags diagnostic.Diagnostics
	)

	for _, info := range b.table.Projections() {
		p, d := b.Build(info)
		diags.Merge(d)

		if p != nil {
			out = append(out, p)
		}
	}

	return out, diags
}

// Build resolves one projection type. It returns nil for types that do not
// declare a projection. A projection without a usable constructor is
// returned with a nil Constructor; the graph reports it.
func (b *Builder) Build(info *analyze.TypeInfo) (*Projection, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	if info == nil || info.Projection == nil {
		return nil, diags
	}

	target := info.ID.String()
	decl := info.Projection

	source := b.table.Lookup(decl.Source)
	if source == nil {
		diags.AddWarning(diagnostic.CodeMissingSourceType,
			fmt.Sprintf("source type %s is not known; every member is referenced as written", decl.Source),
			target, "")
	}

	p := &Projection{
		Target:  info.ID,
		Source:  decl.Source.NonNullable(),
		Context: decl.Context,
	}

	ctor, ok := SelectConstructor(info.Constructors)
	if ok {
		p.Constructor = &ConstructorMapping{
			Name:    ctor.Name,
			Pointer: ctor.Pointer,
		}

		for _, param := range ctor.Params {
			m := b.resolve(param, analyze.MemberParameter, source, target, &diags)
			p.Constructor.Parameters = append(p.Constructor.Parameters, m)
		}
	}

	for _, member := range info.Members {
		if !member.Settable || member.Kind != analyze.MemberField {
			continue
		}

		if ok && boundToParameter(member.Name, ctor) {
			b.logger.Debug("member set by constructor", "target", target, "member", member.Name)
			continue
		}

		m := b.resolve(member, analyze.MemberField, source, target, &diags)
		p.Properties = append(p.Properties, m)
	}

	b.logger.Debug("projection built",
		"target", target,
		"source", p.Source.String(),
		"properties", len(p.Properties),
		"constructor", p.Constructor != nil,
	)

	return p, diags
}

func (b *Builder) resolve(
	member analyze.Member,
	kind analyze.MemberKind,
	source *analyze.TypeInfo,
	target string,
	diags *diagnostic.Diagnostics,
) PropertyMapping {
	cfg, err := mapping.Extract(member.Config, member.Name, kind, member.Type)
	if err != nil {
		diags.AddWarning(diagnostic.CodeInvalidMemberConfig, err.Error(), target, member.Name)
	}

	if needsSource(cfg) && source != nil {
		if _, found := source.Member(cfg.SourceName); !found {
			names := memberNames(source)

			// parameters fall back to the source member that normalizes to the same identifier
			name, ok := "", false
			if kind == analyze.MemberParameter && !member.Config.Has(analyze.KeySourceName) {
				name, ok = match.FindNormalized(member.Name, names)
			}

			if ok {
				cfg.SourceName = name
			} else {
				suggestions := match.RankCandidates(cfg.SourceName, names).
					Above(SuggestionMinScore).
					Top(MaxSuggestions).
					Names()
				diags.AddInfo(diagnostic.CodeMissingSourceMember,
					fmt.Sprintf("source type %s has no member %s", source.ID, cfg.SourceName),
					target, member.Name, suggestions...)
			}
		}
	}

	if needsSource(cfg) && cfg.ConversionMethod == "" {
		if from, ok := lookupMember(source, cfg.SourceName); ok && Lossy(member.Type, from.Type) {
			diags.AddWarning(diagnostic.CodeLossyConversion,
				diagnostic.LossyConversionMessage(from.Type.String(), member.Type.String()),
				target, member.Name)
		}
	}

	return b.resolver.ResolveMember(member.Name, member.Type, cfg, source)
}

// SelectConstructor picks the constructor used to build a projection:
// the only one, else the only designated one, else the first parameterless one.
func SelectConstructor(ctors []analyze.Constructor) (analyze.Constructor, bool) {
	if len(ctors) == 1 {
		return ctors[0], true
	}

	var designated []analyze.Constructor
	for _, c := range ctors {
		if c.Designated {
			designated = append(designated, c)
		}
	}

	if len(designated) == 1 {
		return designated[0], true
	}

	for _, c := range ctors {
		if len(c.Params) == 0 {
			return c, true
		}
	}

	return analyze.Constructor{}, false
}

func boundToParameter(name string, ctor analyze.Constructor) bool {
	norm := match.NormalizeIdent(name)
	for _, p := range ctor.Params {
		if match.NormalizeIdent(p.Name) == norm {
			return true
		}
	}

	return false
}

func needsSource(cfg mapping.MemberConfig) bool {
	return !cfg.Ignore && !cfg.UseDefaultValue && cfg.Expression == ""
}

func memberNames(info *analyze.TypeInfo) []string {
	names := make([]string, 0, len(info.Members))
	for _, m := range info.Members {
		names = append(names, m.Name)
	}

	return names
}
