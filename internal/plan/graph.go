package plan

import (
	"fmt"
	"maps"
	"slices"

	"projector-generator/internal/analyze"
	"projector-generator/internal/common"
	"projector-generator/internal/diagnostic"
)

// Graph is the dependency graph of every projection of a compilation unit.
type Graph struct {
	// Entries maps canonical target names to their resolved dependencies.
	Entries map[string]ProjectionDependencies
	// Roots are the projections not used as a nested target, in canonical order.
	Roots []analyze.TypeID
}

// Lookup returns the entry of a target type.
func (g *Graph) Lookup(id analyze.TypeID) (ProjectionDependencies, bool) {
	e, ok := g.Entries[id.Canonical]
	return e, ok
}

// IsRoot reports whether id is a root projection.
func (g *Graph) IsRoot(id analyze.TypeID) bool {
	return slices.ContainsFunc(g.Roots, id.Same)
}

// Sorted returns the entries ordered by canonical target name.
func (g *Graph) Sorted() []ProjectionDependencies {
	out := make([]ProjectionDependencies, 0, len(g.Entries))
	for _, key := range common.SortedKeys(g.Entries) {
		out = append(out, g.Entries[key])
	}

	return out
}

// Emittable returns the entries code can be generated for, in canonical order.
func (g *Graph) Emittable() []ProjectionDependencies {
	var out []ProjectionDependencies
	for _, e := range g.Sorted() {
		if e.Emittable() {
			out = append(out, e)
		}
	}

	return out
}

// BuildGraph finds the root projections and resolves the nested projections
// reachable from each of them. A projection reaching a cycle gets a nil
// dependency map, and so does every projection reaching it.
//
// Failures are reported per projection and never abort the batch:
// a missing constructor raises PN0001, a cycle raises PN0002.
func BuildGraph(projections []*Projection) (*Graph, diagnostic.Diagnostics) {
	sorted := slices.Clone(projections)
	slices.SortFunc(sorted, func(a, b *Projection) int {
		return analyze.CompareTypeIDs(a.Target, b.Target)
	})

	known := make(map[string]*Projection, len(sorted))
	nonRoot := make(map[string]bool)

	for _, p := range sorted {
		known[p.Target.Canonical] = p

		for _, id := range p.NestedTargets() {
			nonRoot[id.Canonical] = true
		}
	}

	g := &Graph{Entries: make(map[string]ProjectionDependencies, len(sorted))}
	w := &graphWalker{
		known:    known,
		memo:     make(map[string]map[analyze.TypeID]*Projection),
		visiting: newOrderedSet(),
	}

	for _, p := range sorted {
		if !nonRoot[p.Target.Canonical] {
			g.Roots = append(g.Roots, p.Target)
			w.visit(p)
		}
	}

	// projections only reachable through a cycle have no root
	for _, p := range sorted {
		if _, done := w.memo[p.Target.Canonical]; !done {
			w.visit(p)
		}
	}

	var diags diagnostic.Diagnostics

	for _, p := range sorted {
		entry := ProjectionDependencies{Projection: p, Dependencies: w.memo[p.Target.Canonical]}
		g.Entries[p.Target.Canonical] = entry

		target := p.Target.String()
		if p.Constructor == nil {
			diags.AddError(diagnostic.CodeNoConstructor, diagnostic.NoConstructorMessage(target), target, "")
		}

		if entry.HasCycle() {
			diags.AddError(diagnostic.CodeCircularDependency, diagnostic.CircularDependencyMessage(target), target, "")
			continue
		}

		for _, id := range common.SortedKeysFunc(entry.Dependencies, analyze.CompareTypeIDs) {
			if dep := entry.Dependencies[id]; dep != nil && dep.Constructor == nil {
				diags.AddWarning(diagnostic.CodeBlockedDependency,
					fmt.Sprintf("The type %s is not projected because it depends on %s", target, id),
					target, "")
			}
		}
	}

	return g, diags
}

// graphWalker keeps the memoized results apart from the path being visited.
type graphWalker struct {
	known    map[string]*Projection
	memo     map[string]map[analyze.TypeID]*Projection // nil value: cycle
	visiting *orderedSet
}

func (w *graphWalker) visit(p *Projection) map[analyze.TypeID]*Projection {
	key := p.Target.Canonical

	if deps, ok := w.memo[key]; ok {
		return deps
	}

	if w.visiting.Contains(key) {
		return nil
	}

	w.visiting.Push(key)
	defer w.visiting.Pop()

	deps := make(map[analyze.TypeID]*Projection)
	poisoned := false

	for _, id := range p.NestedTargets() {
		child, ok := w.known[id.Canonical]
		if !ok {
			deps[id] = nil
			continue
		}

		childDeps := w.visit(child)
		if childDeps == nil {
			poisoned = true
			continue
		}

		maps.Copy(deps, childDeps)
		deps[id] = child
	}

	if poisoned {
		deps = nil
	}

	w.memo[key] = deps

	return deps
}

// orderedSet is the current DFS path.
type orderedSet struct {
	items []string
	index map[string]int
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]int)}
}

func (s *orderedSet) Contains(key string) bool {
	_, ok := s.index[key]
	return ok
}

func (s *orderedSet) Push(key string) {
	s.index[key] = len(s.items)
	s.items = append(s.items, key)
}

func (s *orderedSet) Pop() {
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	delete(s.index, last)
}
