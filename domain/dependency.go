package domain

// RelationshipType describes how one unit depends on another
type RelationshipType string

const (
	RelationshipImport      RelationshipType = "import"
	RelationshipProps       RelationshipType = "props"
	RelationshipContext     RelationshipType = "context"
	RelationshipHook        RelationshipType = "hook"
	RelationshipHigherOrder RelationshipType = "higher-order"
	RelationshipRenderProp  RelationshipType = "render-prop"
	RelationshipChildren    RelationshipType = "children"
)

// DependencyLevel describes how directly a dependency is reached
type DependencyLevel string

const (
	LevelDirect     DependencyLevel = "direct"
	LevelTransitive DependencyLevel = "transitive"
	LevelCircular   DependencyLevel = "circular"
)

// ExtractionRisk rates how risky it is to sever a dependency during migration
type ExtractionRisk string

const (
	ExtractionRiskLow      ExtractionRisk = "low"
	ExtractionRiskMedium   ExtractionRisk = "medium"
	ExtractionRiskHigh     ExtractionRisk = "high"
	ExtractionRiskCritical ExtractionRisk = "critical"
)

// UsageContext records one place a dependency's binding is used
type UsageContext struct {
	// Location is where the usage occurs
	Location SourceLocation `json:"location"`

	// Kind is the usage form (call, jsx-element, member-access, reference)
	Kind string `json:"kind"`
}

// DependencyDetail is one analyzed edge between a source unit and a target.
// Every detail's SourceID must refer to a discovered component.
type DependencyDetail struct {
	// SourceID is the depending component's ID
	SourceID string `json:"source_id"`

	// TargetID is the resolved internal component ID or the external
	// package name
	TargetID string `json:"target_id"`

	// TargetKind classifies the target as internal or external
	TargetKind DependencyKind `json:"target_kind"`

	// ImportPath is the specifier as written in the import statement
	ImportPath string `json:"import_path"`

	// Relationship is the inferred relationship type
	Relationship RelationshipType `json:"relationship"`

	// Level is direct, transitive, or circular
	Level DependencyLevel `json:"level"`

	// Specifiers are the named bindings pulled by the import
	Specifiers []string `json:"specifiers,omitempty"`

	// Usages are the observed usage sites of the imported bindings
	Usages []UsageContext `json:"usages,omitempty"`

	// Risk rates the difficulty of extracting the source without the target
	Risk ExtractionRisk `json:"risk"`
}

// PackageClass classifies an external package by its role
type PackageClass string

const (
	PackageClassFramework PackageClass = "framework"
	PackageClassUILibrary PackageClass = "ui-library"
	PackageClassUtility   PackageClass = "utility"
	PackageClassTesting   PackageClass = "testing"
	PackageClassBuildTool PackageClass = "build-tool"
	PackageClassUnknown   PackageClass = "unknown"
)

// PackageDisposition is the suggested handling of an external package
type PackageDisposition string

const (
	DispositionKeep     PackageDisposition = "keep"
	DispositionReplace  PackageDisposition = "replace"
	DispositionRemove   PackageDisposition = "remove"
	DispositionEvaluate PackageDisposition = "evaluate"
)

// ExternalDependency aggregates all usage of one external package
type ExternalDependency struct {
	// Name is the canonical package name (scope preserved, subpath dropped)
	Name string `json:"name"`

	// Class is the package's role classification
	Class PackageClass `json:"class"`

	// UsageCount is the total number of importing statements
	UsageCount int `json:"usage_count"`

	// Consumers are the IDs of components importing the package
	Consumers []string `json:"consumers"`

	// Disposition is the suggested migration handling
	Disposition PackageDisposition `json:"disposition"`
}

// GraphNode is one vertex of the dependency graph
type GraphNode struct {
	// ID is the component ID or external package name
	ID string `json:"id"`

	// Label is a short display name
	Label string `json:"label"`

	// External is true for package nodes
	External bool `json:"external"`

	// InDegree is the number of incoming edges
	InDegree int `json:"in_degree"`

	// OutDegree is the number of outgoing edges
	OutDegree int `json:"out_degree"`

	// Centrality is (InDegree+OutDegree)/(nodeCount-1), 0 for a lone node
	Centrality float64 `json:"centrality"`
}

// GraphEdge is one directed edge of the dependency graph
type GraphEdge struct {
	From         string           `json:"from"`
	To           string           `json:"to"`
	Relationship RelationshipType `json:"relationship"`
}

// DependencyCycle is an ordered list of component IDs that import each other
// transitively back to the start
type DependencyCycle struct {
	// Components are the cycle members in traversal order
	Components []string `json:"components"`

	// Description is a human-readable rendering of the cycle
	Description string `json:"description"`
}

// ClusterStrategy is the recommended extraction approach for a cluster
type ClusterStrategy string

const (
	ClusterTogether   ClusterStrategy = "together"
	ClusterStaged     ClusterStrategy = "staged"
	ClusterIndividual ClusterStrategy = "individual"
)

// ComponentCluster is a cohesive group recommended for joint extraction
type ComponentCluster struct {
	// Components are the member component IDs
	Components []string `json:"components"`

	// Cohesion is the pairwise edge density within the group (0-1)
	Cohesion float64 `json:"cohesion"`

	// Strategy is the recommended extraction approach
	Strategy ClusterStrategy `json:"strategy"`
}

// DependencyGraph is the full graph over components and their targets.
// Every edge endpoint has a corresponding node.
type DependencyGraph struct {
	Nodes    map[string]*GraphNode `json:"nodes"`
	Edges    []*GraphEdge          `json:"edges"`
	Cycles   []DependencyCycle     `json:"cycles"`
	Clusters []ComponentCluster    `json:"clusters"`
}

// NewDependencyGraph creates an empty graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Nodes: make(map[string]*GraphNode),
		Edges: make([]*GraphEdge, 0),
	}
}

// AddNode registers a node, keeping the first registration for an ID
func (g *DependencyGraph) AddNode(node *GraphNode) {
	if node == nil {
		return
	}
	if _, ok := g.Nodes[node.ID]; !ok {
		g.Nodes[node.ID] = node
	}
}

// AddEdge appends an edge and updates endpoint degrees. Both endpoints must
// already be registered.
func (g *DependencyGraph) AddEdge(edge *GraphEdge) bool {
	if edge == nil {
		return false
	}
	from, okFrom := g.Nodes[edge.From]
	to, okTo := g.Nodes[edge.To]
	if !okFrom || !okTo {
		return false
	}
	g.Edges = append(g.Edges, edge)
	from.OutDegree++
	to.InDegree++
	return true
}

// OutNeighbors returns the distinct targets of a node's outgoing edges
func (g *DependencyGraph) OutNeighbors(id string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range g.Edges {
		if e.From == id && !seen[e.To] {
			seen[e.To] = true
			out = append(out, e.To)
		}
	}
	return out
}

// NodeCount returns the number of nodes
func (g *DependencyGraph) NodeCount() int { return len(g.Nodes) }

// ComputeCentrality fills in the centrality score for every node
func (g *DependencyGraph) ComputeCentrality() {
	n := len(g.Nodes)
	for _, node := range g.Nodes {
		if n <= 1 {
			node.Centrality = 0
			continue
		}
		node.Centrality = float64(node.InDegree+node.OutDegree) / float64(n-1)
	}
}

// DependencyMetrics summarizes the analysis phase
type DependencyMetrics struct {
	TotalDependencies    int     `json:"total_dependencies"`
	InternalDependencies int     `json:"internal_dependencies"`
	ExternalPackages     int     `json:"external_packages"`
	CircularCount        int     `json:"circular_count"`
	ClusterCount         int     `json:"cluster_count"`
	AverageFanOut        float64 `json:"average_fan_out"`
}

// DependencyAnalysisResult is the output of the dependency-analysis phase
type DependencyAnalysisResult struct {
	// Dependencies are all analyzed edges
	Dependencies []*DependencyDetail `json:"dependencies"`

	// Externals is the external package registry, sorted by name
	Externals []*ExternalDependency `json:"externals"`

	// Graph is the constructed dependency graph
	Graph *DependencyGraph `json:"graph"`

	// Metrics are aggregate statistics
	Metrics DependencyMetrics `json:"metrics"`

	// Recommendations are human-readable migration suggestions
	Recommendations []string `json:"recommendations,omitempty"`

	// Warnings are per-unit analysis failures (those units have no edges)
	Warnings []string `json:"warnings,omitempty"`
}

// DependenciesOf returns the analyzed edges originating at the component
func (r *DependencyAnalysisResult) DependenciesOf(componentID string) []*DependencyDetail {
	var out []*DependencyDetail
	for _, d := range r.Dependencies {
		if d.SourceID == componentID {
			out = append(out, d)
		}
	}
	return out
}
