// Package pipeline runs the load, plan and emit stages over independent
// compilation units.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"projector-generator/internal/analyze"
	"projector-generator/internal/diagnostic"
	"projector-generator/internal/emit"
	"projector-generator/internal/plan"
)

// Options configures a pipeline run.
type Options struct {
	// Units are package pattern groups loaded and planned independently.
	Units [][]string
	// Table, when set, is a YAML descriptor table planned instead of Units.
	Table string
	// Dir is the directory package patterns are resolved from.
	Dir string
	// Workers bounds the number of units processed at once.
	Workers int
	// Emit configures generated files.
	Emit emit.Config
}

// Unit is the outcome of planning one compilation unit.
type Unit struct {
	// Name identifies the unit: its patterns, or the table file.
	Name        string
	Table       *analyze.TypeTable
	Projections []*plan.Projection
	Graph       *plan.Graph
	Diagnostics diagnostic.Diagnostics
}

// Pipeline drives planning and generation.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Pipeline. A nil logger uses slog.Default.
func New(opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Workers < 1 {
		opts.Workers = 1
	}

	return &Pipeline{opts: opts, logger: logger}
}

// Plan loads and plans every unit. Units run in parallel; the result keeps
// the configured unit order.
func (p *Pipeline) Plan(ctx context.Context) ([]*Unit, error) {
	if p.opts.Table != "" {
		table, err := analyze.LoadTableFile(p.opts.Table)
		if err != nil {
			return nil, err
		}

		return []*Unit{p.planTable(p.opts.Table, table)}, nil
	}

	if len(p.opts.Units) == 0 {
		return nil, errors.New("no packages to load")
	}

	units := make([]*Unit, len(p.opts.Units))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for i, patterns := range p.opts.Units {
		g.Go(func() error {
			analyzer := analyze.NewAnalyzer(p.logger)
			analyzer.Dir = p.opts.Dir

			name := strings.Join(patterns, " ")
			table, err := analyzer.LoadPackages(ctx, patterns...)
			if err != nil {
				return fmt.Errorf("loading %s: %w", name, err)
			}

			units[i] = p.planTable(name, table)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return units, nil
}

func (p *Pipeline) planTable(name string, table *analyze.TypeTable) *Unit {
	logger := p.logger.With("unit", name)

	projections, diags := plan.NewBuilder(table, logger).BuildAll()
	graph, graphDiags := plan.BuildGraph(projections)
	diags.Merge(graphDiags)
	diags.Sort()

	logger.Info("planned unit",
		slog.Int("projections", len(projections)),
		slog.Int("roots", len(graph.Roots)),
		slog.Int("errors", len(diags.Errors)),
		slog.Int("warnings", len(diags.Warnings)))

	return &Unit{
		Name:        name,
		Table:       table,
		Projections: projections,
		Graph:       graph,
		Diagnostics: diags,
	}
}

// Report summarizes a generation run.
type Report struct {
	Written []string
	Skipped []string
}

// Generate renders and writes the emittable entries of every unit. With a
// cache, entries whose plan is unchanged and whose file is intact are not
// rendered again unless force is set. Rendering failures of single entries
// do not stop the others; they are joined into the returned error.
func (p *Pipeline) Generate(ctx context.Context, units []*Unit, cache *emit.Cache, force bool) (*Report, error) {
	var (
		report Report
		errs   []error
	)

	fresh := func(path, fingerprint string) bool {
		return cache != nil && !force && cache.Fresh(path, fingerprint)
	}

	for _, unit := range units {
		gen := emit.NewGenerator(unit.Table, p.opts.Emit, p.logger.With("unit", unit.Name))

		entries, err := emit.Order(unit.Graph.Emittable())
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", unit.Name, err)
		}

		var (
			mu  sync.Mutex
			out []emit.GeneratedFile
		)
		files := make([]*emit.GeneratedFile, len(entries))
		fingerprints := make([]string, len(entries))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.opts.Workers)

		for i, entry := range entries {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}

				fingerprints[i] = emit.EntryFingerprint(entry)
				if path := gen.OutputPath(entry.Projection.Target); fresh(path, fingerprints[i]) {
					mu.Lock()
					report.Skipped = append(report.Skipped, path)
					mu.Unlock()
					return nil
				}

				file, err := gen.Render(entry)
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					return nil
				}

				files[i] = file
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		for _, file := range files {
			if file != nil {
				out = append(out, *file)
			}
		}

		listings, err := gen.Listings(entries)
		if err != nil {
			errs = append(errs, err)
		}

		for _, file := range listings {
			if fresh(file.Path(), emit.ContentHash(file.Content)) {
				report.Skipped = append(report.Skipped, file.Path())
				continue
			}
			out = append(out, file)
		}

		if err := emit.WriteFiles(out); err != nil {
			return nil, fmt.Errorf("unit %s: %w", unit.Name, err)
		}

		for i, file := range files {
			if file != nil && cache != nil {
				cache.Record(file.Path(), fingerprints[i], file.Content)
			}
		}

		for _, file := range out {
			report.Written = append(report.Written, file.Path())
			if cache != nil && file.Target.IsZero() {
				cache.Record(file.Path(), emit.ContentHash(file.Content), file.Content)
			}
		}

		p.logger.Info("generated unit",
			slog.String("unit", unit.Name),
			slog.Int("entries", len(entries)),
			slog.Int("written", len(out)))
	}

	if cache != nil {
		cache.Prune(append(slices.Clone(report.Written), report.Skipped...))
	}

	slices.Sort(report.Written)
	slices.Sort(report.Skipped)

	return &report, errors.Join(errs...)
}
