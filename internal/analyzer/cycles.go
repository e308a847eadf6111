package analyzer

import (
	"sort"
	"strings"

	"github.com/uplift-tools/uplift/domain"
)

// DetectCycles finds every distinct dependency cycle among internal nodes
// using depth-first traversal: an edge back into the active recursion stack
// closes a cycle. External package nodes cannot participate.
func DetectCycles(g *domain.DependencyGraph) []domain.DependencyCycle {
	const (
		white = iota // unvisited
		gray         // on the recursion stack
		black        // fully explored
	)
	color := make(map[string]int, len(g.Nodes))
	var stack []string
	seen := make(map[string]bool)
	var cycles []domain.DependencyCycle

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		stack = append(stack, id)

		for _, next := range g.OutNeighbors(id) {
			node, ok := g.Nodes[next]
			if !ok || node.External {
				continue
			}
			switch color[next] {
			case white:
				visit(next)
			case gray:
				cycle := extractCycle(stack, next)
				key := cycleKey(cycle)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, domain.DependencyCycle{
						Components:  cycle,
						Description: strings.Join(append(append([]string{}, cycle...), cycle[0]), " -> "),
					})
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range sortedNodeIDs(g) {
		if node := g.Nodes[id]; node.External {
			continue
		}
		if color[id] == white {
			visit(id)
		}
	}
	return cycles
}

// extractCycle slices the recursion stack from the re-entered node to the top
func extractCycle(stack []string, entry string) []string {
	for i, id := range stack {
		if id == entry {
			cycle := make([]string, len(stack)-i)
			copy(cycle, stack[i:])
			return cycle
		}
	}
	return []string{entry}
}

// cycleKey canonicalizes a cycle so rotations of the same ring dedupe
func cycleKey(cycle []string) string {
	sorted := append([]string{}, cycle...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}
