package emit

import (
	"errors"
	"fmt"
	"sort"

	"projector-generator/internal/plan"
)

// Order returns entries with every projection after the projections it
// depends on. Ties keep the input order.
func Order(entries []plan.ProjectionDependencies) ([]plan.ProjectionDependencies, error) {
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[e.Projection.Target.Canonical] = i
	}

	order, err := topoSort(len(entries), func(i int) []int {
		var deps []int
		for id := range entries[i].Dependencies {
			if j, ok := index[id.Canonical]; ok && j != i {
				deps = append(deps, j)
			}
		}
		return deps
	})
	if err != nil {
		return nil, fmt.Errorf("ordering projections: %w", err)
	}

	out := make([]plan.ProjectionDependencies, 0, len(order))
	for _, i := range order {
		out = append(out, entries[i])
	}

	return out, nil
}

// topoSort returns indices in dependency order.
//
// Nodes are by index in the input slice.
// depsFn(i) yields indices that must come before i.
//
// The result is deterministic: when multiple nodes are available, we pick the
// smallest index. If a cycle exists, an error is returned.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	for i := range out {
		sort.Ints(out[i])
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)
		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				// Insert while keeping ready sorted.
				k := sort.SearchInts(ready, j)
				ready = append(ready, 0)
				copy(ready[k+1:], ready[k:])
				ready[k] = j
			}
		}
	}

	if len(order) != n {
		return nil, errors.New("cycle detected")
	}

	return order, nil
}
