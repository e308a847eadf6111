package analyzer

import (
	"sort"

	"github.com/uplift-tools/uplift/domain"
)

// DetectClusters groups internal components into connected groups and rates
// each group's cohesion: the fraction of possible directed edges actually
// present. Groups below the cohesion threshold are reported with the
// individual strategy so their members migrate one at a time.
func DetectClusters(g *domain.DependencyGraph, cfg Config) []domain.ComponentCluster {
	adjacency := make(map[string]map[string]bool)
	undirected := make(map[string][]string)
	for _, e := range g.Edges {
		from, okFrom := g.Nodes[e.From]
		to, okTo := g.Nodes[e.To]
		if !okFrom || !okTo || from.External || to.External {
			continue
		}
		if adjacency[e.From] == nil {
			adjacency[e.From] = make(map[string]bool)
		}
		if !adjacency[e.From][e.To] {
			adjacency[e.From][e.To] = true
			undirected[e.From] = append(undirected[e.From], e.To)
			undirected[e.To] = append(undirected[e.To], e.From)
		}
	}

	visited := make(map[string]bool)
	var clusters []domain.ComponentCluster

	for _, id := range sortedNodeIDs(g) {
		node := g.Nodes[id]
		if node.External || visited[id] {
			continue
		}
		members := collectComponent(id, undirected, visited)
		if len(members) < 2 {
			continue
		}
		cohesion := groupCohesion(members, adjacency)
		sort.Strings(members)
		clusters = append(clusters, domain.ComponentCluster{
			Components: members,
			Cohesion:   cohesion,
			Strategy:   clusterStrategy(cohesion, cfg),
		})
	}
	return clusters
}

// collectComponent walks the undirected adjacency from one seed node
func collectComponent(seed string, undirected map[string][]string, visited map[string]bool) []string {
	var members []string
	queue := []string{seed}
	visited[seed] = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		members = append(members, id)
		for _, next := range undirected[id] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}
	return members
}

// groupCohesion is directed edge density: edges present over n*(n-1) possible
func groupCohesion(members []string, adjacency map[string]map[string]bool) float64 {
	n := len(members)
	if n < 2 {
		return 0
	}
	inGroup := make(map[string]bool, n)
	for _, m := range members {
		inGroup[m] = true
	}
	edges := 0
	for _, m := range members {
		for to := range adjacency[m] {
			if inGroup[to] {
				edges++
			}
		}
	}
	return float64(edges) / float64(n*(n-1))
}

func clusterStrategy(cohesion float64, cfg Config) domain.ClusterStrategy {
	switch {
	case cohesion >= cfg.TogetherThreshold:
		return domain.ClusterTogether
	case cohesion >= cfg.CohesionThreshold:
		return domain.ClusterStaged
	default:
		return domain.ClusterIndividual
	}
}
