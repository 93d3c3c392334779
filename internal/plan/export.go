package plan

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"projector-generator/internal/analyze"
	"projector-generator/internal/common"
	"projector-generator/internal/diagnostic"
)

// Document is the YAML rendering of a planned compilation unit.
type Document struct {
	Projections []ProjectionDoc `yaml:"projections"`
	Diagnostics []string        `yaml:"diagnostics,omitempty"`
}

// ProjectionDoc is the YAML rendering of a projection.
type ProjectionDoc struct {
	Target       string          `yaml:"target"`
	Source       string          `yaml:"source"`
	Context      string          `yaml:"context,omitempty"`
	Root         bool            `yaml:"root,omitempty"`
	Status       string          `yaml:"status,omitempty"`
	Constructor  *ConstructorDoc `yaml:"constructor,omitempty"`
	Properties   []MappingDoc    `yaml:"properties,omitempty"`
	Dependencies []string        `yaml:"dependencies,omitempty"`
}

// ConstructorDoc is the YAML rendering of a constructor mapping.
type ConstructorDoc struct {
	Name       string       `yaml:"name,omitempty"`
	Pointer    bool         `yaml:"pointer,omitempty"`
	Parameters []MappingDoc `yaml:"parameters,omitempty"`
}

// MappingDoc is the YAML rendering of a property mapping.
type MappingDoc struct {
	Name       string      `yaml:"name,omitempty"`
	Kind       string      `yaml:"kind"`
	Expression string      `yaml:"expression,omitempty"`
	SourcePath string      `yaml:"sourcePath,omitempty"`
	SourceType string      `yaml:"sourceType,omitempty"`
	TargetType string      `yaml:"targetType,omitempty"`
	Transform  string      `yaml:"transform,omitempty"`
	Item       *MappingDoc `yaml:"item,omitempty"`
}

// Entry statuses.
const (
	StatusOK            = "ok"
	StatusNoConstructor = "no-constructor"
	StatusCycle         = "cycle"
	StatusBlocked       = "blocked"
)

// Status describes whether an entry can be emitted, and why not.
func Status(e ProjectionDependencies) string {
	switch {
	case e.Projection.Constructor == nil:
		return StatusNoConstructor
	case e.HasCycle():
		return StatusCycle
	case !e.Emittable():
		return StatusBlocked
	default:
		return StatusOK
	}
}

// ExportProjection renders a single projection.
func ExportProjection(p *Projection) ProjectionDoc {
	doc := ProjectionDoc{
		Target: p.Target.String(),
		Source: p.Source.String(),
	}

	if p.Context != nil {
		doc.Context = p.Context.String()
	}

	if p.Constructor != nil {
		doc.Constructor = &ConstructorDoc{
			Name:       p.Constructor.Name,
			Pointer:    p.Constructor.Pointer,
			Parameters: exportMappings(p.Constructor.Parameters),
		}
	}

	doc.Properties = exportMappings(p.Properties)

	return doc
}

// ExportGraph renders every entry of a graph in canonical order.
func ExportGraph(g *Graph, diags diagnostic.Diagnostics) Document {
	var doc Document

	for _, e := range g.Sorted() {
		pd := ExportProjection(e.Projection)
		pd.Root = g.IsRoot(e.Projection.Target)
		pd.Status = Status(e)

		for _, id := range common.SortedKeysFunc(e.Dependencies, analyze.CompareTypeIDs) {
			pd.Dependencies = append(pd.Dependencies, id.String())
		}

		doc.Projections = append(doc.Projections, pd)
	}

	for d := range diags.All() {
		doc.Diagnostics = append(doc.Diagnostics, d.String())
	}

	return doc
}

// ExportYAML renders a graph as YAML.
func ExportYAML(g *Graph, diags diagnostic.Diagnostics) ([]byte, error) {
	out, err := yaml.Marshal(ExportGraph(g, diags))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan: %w", err)
	}

	return out, nil
}

func exportMappings(ms []PropertyMapping) []MappingDoc {
	out := make([]MappingDoc, 0, len(ms))
	for _, m := range ms {
		out = append(out, exportMapping(m))
	}

	return out
}

func exportMapping(m PropertyMapping) MappingDoc {
	switch m := m.(type) {
	case IgnoredMapping:
		return MappingDoc{Name: m.Name, Kind: "ignored"}
	case ExpressionMapping:
		return MappingDoc{Name: m.Name, Kind: "expression", Expression: m.Expression}
	case ProjectionMapping:
		return MappingDoc{
			Name:       m.Name,
			Kind:       "projection",
			SourcePath: m.SourcePath,
			SourceType: m.SourceType.String(),
			TargetType: m.TargetType.String(),
		}
	case CollectionMapping:
		doc := MappingDoc{
			Name:       m.Name,
			Kind:       "collection",
			SourcePath: m.SourcePath,
			SourceType: m.SourceElemType.String(),
			TargetType: m.TargetElemType.String(),
			Transform:  m.Transform.String(),
		}
		if m.Item != nil {
			item := exportMapping(m.Item)
			doc.Item = &item
		}
		return doc
	default:
		return MappingDoc{Kind: common.UnknownStr}
	}
}
