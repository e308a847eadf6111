package domain

// ComponentKind represents how a component is authored
type ComponentKind string

const (
	// KindFunctional represents function components: const X = () => <div/>
	KindFunctional ComponentKind = "functional"

	// KindClass represents class components: class X extends React.Component
	KindClass ComponentKind = "class"

	// KindHook represents custom hooks: function useX()
	KindHook ComponentKind = "hook"

	// KindHigherOrder represents HOCs: const X = withRouter(Y)
	KindHigherOrder ComponentKind = "higher-order"
)

// ComplexityLevel is the coarse complexity classification of a component
type ComplexityLevel string

const (
	ComplexitySimple   ComplexityLevel = "simple"
	ComplexityModerate ComplexityLevel = "moderate"
	ComplexityComplex  ComplexityLevel = "complex"
	ComplexityCritical ComplexityLevel = "critical"
)

// DependencyKind distinguishes project-internal from package dependencies
type DependencyKind string

const (
	DependencyInternal DependencyKind = "internal"
	DependencyExternal DependencyKind = "external"
)

// SourceLocation represents a position range in the source code
type SourceLocation struct {
	FilePath  string `json:"file_path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	StartCol  int    `json:"start_col"`
	EndCol    int    `json:"end_col"`
}

// PropDefinition describes a single component prop
type PropDefinition struct {
	// Name is the prop name as declared
	Name string `json:"name"`

	// Type is the declared or inferred type (empty when untyped)
	Type string `json:"type,omitempty"`

	// Required indicates the prop has no default and is not optional
	Required bool `json:"required"`

	// Description is the doc text attached to the prop, if any
	Description string `json:"description,omitempty"`
}

// ComponentDependency is one import relationship declared by a component
type ComponentDependency struct {
	// Name is the local binding or package name
	Name string `json:"name"`

	// Kind classifies the target as internal or external
	Kind DependencyKind `json:"kind"`

	// ImportPath is the module specifier as written in the source
	ImportPath string `json:"import_path"`
}

// BusinessLogicDefinition describes an embedded logic block that is a
// candidate for extraction into a standalone hook
type BusinessLogicDefinition struct {
	// Name is the function or handler name
	Name string `json:"name"`

	// Complexity is the structural complexity of the block
	Complexity int `json:"complexity"`
}

// ComponentMetadata carries auxiliary signals collected during discovery
type ComponentMetadata struct {
	// HasDocumentation is true when a doc comment precedes the component
	HasDocumentation bool `json:"has_documentation"`

	// TestCoverage is the estimated coverage percentage (0-100)
	TestCoverage int `json:"test_coverage"`

	// BundleSize is the source file size in bytes
	BundleSize int64 `json:"bundle_size"`
}

// ComponentDefinition is the structural description of one discovered
// component. It is created by the discovery engine and treated as immutable
// by every downstream stage.
type ComponentDefinition struct {
	// ID uniquely identifies the component within a run (path#name)
	ID string `json:"id"`

	// Name is the component's declared name
	Name string `json:"name"`

	// FilePath is the path to the source file, relative to the root
	FilePath string `json:"file_path"`

	// Location is the declaration position in the source file
	Location SourceLocation `json:"location"`

	// Kind is the authoring style
	Kind ComponentKind `json:"kind"`

	// Complexity is the coarse complexity classification
	Complexity ComplexityLevel `json:"complexity"`

	// Props are the declared props, in declaration order
	Props []PropDefinition `json:"props"`

	// Dependencies are the import relationships declared by the source file
	Dependencies []ComponentDependency `json:"dependencies"`

	// BusinessLogic lists embedded logic blocks
	BusinessLogic []BusinessLogicDefinition `json:"business_logic"`

	// Patterns are detected usage pattern tags (render-prop, context, ...)
	Patterns []string `json:"patterns,omitempty"`

	// Metadata carries auxiliary discovery signals
	Metadata ComponentMetadata `json:"metadata"`
}

// HasPattern reports whether the component carries the given pattern tag
func (c *ComponentDefinition) HasPattern(tag string) bool {
	for _, p := range c.Patterns {
		if p == tag {
			return true
		}
	}
	return false
}

// Pattern tags attached during discovery
const (
	PatternRenderProp         = "render-prop"
	PatternChildrenAsFunction = "children-as-function"
	PatternContextConsumer    = "context-consumer"
	PatternContextProvider    = "context-provider"
	PatternHigherOrderUsage   = "higher-order-usage"
	PatternPresentational     = "presentational"
	PatternStateful           = "stateful"
	PatternEffectful          = "effectful"
)

// DiscoveryRequest configures a discovery run
type DiscoveryRequest struct {
	// Root is the directory to scan
	Root string `json:"root"`

	// IncludePatterns are glob patterns for files to include
	IncludePatterns []string `json:"include_patterns,omitempty"`

	// ExcludePatterns are glob patterns for files to exclude
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`

	// UseGitIgnore applies the root's .gitignore as an exclusion source
	UseGitIgnore bool `json:"use_gitignore"`

	// SkipUnclassified drops files that cannot be classified instead of
	// recording a warning for them
	SkipUnclassified bool `json:"skip_unclassified"`
}

// DiscoveryResult is the output of the discovery phase
type DiscoveryResult struct {
	// Components are the discovered units, in stable path order
	Components []*ComponentDefinition `json:"components"`

	// Sources maps component ID to the raw source text of its file
	Sources map[string][]byte `json:"-"`

	// Errors are per-file failures (the files are excluded downstream)
	Errors []string `json:"errors,omitempty"`

	// Warnings are non-fatal findings (unclassified files, empty files)
	Warnings []string `json:"warnings,omitempty"`
}

// ParseResult is the per-component output of the structural parsing phase
type ParseResult struct {
	// ComponentID references the parsed component
	ComponentID string `json:"component_id"`

	// Success is false when the source failed to parse
	Success bool `json:"success"`

	// StructuralComplexity is the linear branching metric, seeded at 1
	StructuralComplexity int `json:"structural_complexity"`

	// Documentation is the extracted leading doc comment, if any
	Documentation string `json:"documentation,omitempty"`

	// Error holds the parse failure message when Success is false
	Error string `json:"error,omitempty"`
}
