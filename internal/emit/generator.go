package emit

import (
	"bytes"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"text/template"

	"projector-generator/internal/analyze"
	"projector-generator/internal/plan"
)

// Config holds configuration for code generation.
type Config struct {
	// OutputDir, when set, receives every file instead of the directory of
	// the target's package.
	OutputDir string
	// Suffix is appended to the snake_case target name to form file names.
	Suffix string
	// ListingFile names the per-package listing file; empty disables listings.
	ListingFile string
	// LangVersion is the Go version gofumpt formats for.
	LangVersion string
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{
		Suffix:      "_projection.go",
		ListingFile: "projections_listing.go",
		LangVersion: "go1.24",
	}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "pick_list_projection.go").
	Filename string
	// Dir is the directory the file is written to.
	Dir string
	// Package is the import path of the package the file belongs to.
	Package string
	// Target is the projected type, zero for listing files.
	Target analyze.TypeID
	// Content is the formatted Go source code.
	Content []byte
}

// Path returns the full output path of the file.
func (f GeneratedFile) Path() string {
	return filepath.Join(f.Dir, f.Filename)
}

// Generator renders emittable graph entries into Go files. It only reads
// the type table, so one Generator may render entries concurrently.
type Generator struct {
	config Config
	table  *analyze.TypeTable
	logger *slog.Logger
}

// NewGenerator creates a new Generator. A nil logger uses slog.Default.
func NewGenerator(table *analyze.TypeTable, config Config, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{config: config, table: table, logger: logger}
}

// Generate renders every emittable entry of graph, dependencies first,
// followed by one listing file per target package.
func (g *Generator) Generate(graph *plan.Graph) ([]GeneratedFile, error) {
	entries, err := Order(graph.Emittable())
	if err != nil {
		return nil, err
	}

	var files []GeneratedFile
	for _, entry := range entries {
		file, err := g.Render(entry)
		if err != nil {
			return nil, err
		}

		files = append(files, *file)
	}

	listings, err := g.Listings(entries)
	if err != nil {
		return nil, err
	}

	return append(files, listings...), nil
}

// projectionData feeds projectionTemplate.
type projectionData struct {
	PackageName  string
	Imports      []importSpec
	FunctionName string
	SourceVar    string
	SourceType   string
	ContextVar   string
	ContextType  string
	TargetType   string
	Body         string
}

var projectionTemplate = template.Must(template.New("projection").Parse(`// Code generated by projector-generator. DO NOT EDIT.

package {{.PackageName}}
{{if .Imports}}
import (
{{range .Imports}}	{{.}}
{{end}})
{{end}}
// {{.FunctionName}} projects {{.SourceType}} into {{.TargetType}}.
func {{.FunctionName}}({{.SourceVar}} {{.SourceType}}{{if .ContextVar}}, {{.ContextVar}} {{.ContextType}}{{end}}) {{.TargetType}} {
{{.Body}}}
`))

// Render generates the file for one graph entry.
func (g *Generator) Render(entry plan.ProjectionDependencies) (*GeneratedFile, error) {
	if !entry.Emittable() {
		return nil, fmt.Errorf("%s is not emittable", entryName(entry))
	}

	p := entry.Projection
	q := newQualifier(g.table, p.Target.Namespace)
	taken := func(name string) bool { return q.Taken(name) }

	r := &renderer{table: g.table, deps: entry.Dependencies, taken: taken}

	data := projectionData{
		PackageName:  g.table.PackageName(p.Target.Namespace),
		FunctionName: FunctionName(p.Target),
	}

	if p.Context != nil {
		data.ContextVar = varName(p.Context.Name, taken)
		data.ContextType = q.Qualify(p.Context.String())
		r.ctxVar = data.ContextVar
	}

	data.SourceVar = varName(p.Source.Name, func(name string) bool {
		return name == data.ContextVar || taken(name)
	})

	body, err := r.body(p, data.SourceVar)
	if err != nil {
		return nil, fmt.Errorf("generating %s: %w", p.Target, err)
	}

	data.SourceType = q.Qualify(p.Source.Canonical)
	data.TargetType = q.Qualify(p.Target.Canonical)
	data.Body = q.Qualify(body)
	data.Imports = q.Imports()

	file := &GeneratedFile{
		Filename: FileName(p.Target, g.config.Suffix),
		Dir:      g.dir(p.Target.Namespace),
		Package:  p.Target.Namespace,
		Target:   p.Target,
	}

	content, err := g.execute(projectionTemplate, data, file)
	file.Content = content
	if err != nil {
		return file, fmt.Errorf("generating %s: %w", p.Target, err)
	}

	g.logger.Debug("rendered projection", "target", p.Target.String(), "file", file.Filename)

	return file, nil
}

// listingData feeds listingTemplate.
type listingData struct {
	PackageName string
	Imports     []importSpec
	Wrappers    []wrapper
}

type wrapper struct {
	Name       string
	Projection string
	Param      string
	TargetType string
	Body       string
}

var listingTemplate = template.Must(template.New("listing").Parse(`// Code generated by projector-generator. DO NOT EDIT.

package {{.PackageName}}
{{if .Imports}}
import (
{{range .Imports}}	{{.}}
{{end}})
{{end}}{{range .Wrappers}}
// {{.Name}} lazily applies {{.Projection}} to every source value.
func {{.Name}}({{.Param}}) iter.Seq[{{.TargetType}}] {
	return {{.Body}}
}
{{end}}`))

// Listings renders one listing file per package holding emitted projections.
func (g *Generator) Listings(entries []plan.ProjectionDependencies) ([]GeneratedFile, error) {
	if g.config.ListingFile == "" {
		return nil, nil
	}

	byPackage := make(map[string][]plan.ProjectionDependencies)
	for _, e := range entries {
		if e.Emittable() {
			ns := e.Projection.Target.Namespace
			byPackage[ns] = append(byPackage[ns], e)
		}
	}

	var files []GeneratedFile
	for _, ns := range slices.Sorted(maps.Keys(byPackage)) {
		file, err := g.Listing(ns, byPackage[ns])
		if err != nil {
			return nil, err
		}

		files = append(files, *file)
	}

	return files, nil
}

// Listing renders the listing file of one package: a wrapper per
// projection mapping a whole source sequence.
func (g *Generator) Listing(pkgPath string, entries []plan.ProjectionDependencies) (*GeneratedFile, error) {
	q := newQualifier(g.table, pkgPath)
	data := listingData{PackageName: g.table.PackageName(pkgPath)}

	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b plan.ProjectionDependencies) int {
		return analyze.CompareTypeIDs(a.Projection.Target, b.Projection.Target)
	})

	for _, e := range sorted {
		p := e.Projection
		w := wrapper{
			Name:       ListingName(p.Target),
			Projection: FunctionName(p.Target),
			TargetType: q.Qualify(p.Target.Canonical),
		}

		if p.Context != nil {
			w.Param = "p " + q.Qualify(fmt.Sprintf("%sProjector[%s, %s]", rt, p.Source.Canonical, p.Context))
			w.Body = q.Qualify(rt+"Project(p, ") + w.Projection + ")"
		} else {
			w.Param = "source " + q.Qualify("iter.Seq["+p.Source.Canonical+"]")
			w.Body = q.Qualify(rt+"Select(source, ") + w.Projection + ")"
		}

		data.Wrappers = append(data.Wrappers, w)
	}
	data.Imports = q.Imports()

	file := &GeneratedFile{
		Filename: g.config.ListingFile,
		Dir:      g.dir(pkgPath),
		Package:  pkgPath,
	}

	content, err := g.execute(listingTemplate, data, file)
	file.Content = content
	if err != nil {
		return file, fmt.Errorf("generating listing for %s: %w", pkgPath, err)
	}

	return file, nil
}

func (g *Generator) execute(tmpl *template.Template, data any, file *GeneratedFile) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return g.format(file.Dir, file.Filename, buf.Bytes())
}

// OutputPath returns the path Render writes the projection of target to.
func (g *Generator) OutputPath(target analyze.TypeID) string {
	return filepath.Join(g.dir(target.Namespace), FileName(target, g.config.Suffix))
}

// dir returns the output directory for files of a package.
func (g *Generator) dir(pkgPath string) string {
	if g.config.OutputDir != "" {
		return g.config.OutputDir
	}

	if pkg := g.table.Packages[pkgPath]; pkg != nil && pkg.Dir != "" {
		return pkg.Dir
	}

	return "."
}

func entryName(e plan.ProjectionDependencies) string {
	if e.Projection == nil {
		return "<nil>"
	}

	return e.Projection.Target.String()
}
