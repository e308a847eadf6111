package analyzer

import (
	"sort"
	"strings"

	"github.com/uplift-tools/uplift/domain"
)

// BuildGraph assembles the dependency graph: one node per discovered
// component plus one per referenced target, one edge per analyzed dependency.
func BuildGraph(components []*domain.ComponentDefinition, details []*domain.DependencyDetail) *domain.DependencyGraph {
	graph := domain.NewDependencyGraph()

	for _, def := range components {
		graph.AddNode(&domain.GraphNode{
			ID:    def.ID,
			Label: def.Name,
		})
	}

	for _, d := range details {
		if d.TargetID == "" {
			continue
		}
		graph.AddNode(&domain.GraphNode{
			ID:       d.TargetID,
			Label:    nodeLabel(d.TargetID),
			External: d.TargetKind == domain.DependencyExternal,
		})
		graph.AddEdge(&domain.GraphEdge{
			From:         d.SourceID,
			To:           d.TargetID,
			Relationship: d.Relationship,
		})
	}

	graph.ComputeCentrality()
	return graph
}

func nodeLabel(id string) string {
	if idx := strings.LastIndex(id, "#"); idx >= 0 {
		return id[idx+1:]
	}
	return id
}

// sortedNodeIDs returns the graph's node IDs in lexical order so traversal
// output is deterministic
func sortedNodeIDs(g *domain.DependencyGraph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
