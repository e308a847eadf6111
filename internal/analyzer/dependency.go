package analyzer

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/parser"
)

// DefaultParseCacheSize bounds the AST cache. Components sharing a file hit
// the cache instead of re-parsing.
const DefaultParseCacheSize = 256

// Config tunes the dependency analyzer
type Config struct {
	// CohesionThreshold is the density below which a group's members
	// migrate individually
	CohesionThreshold float64

	// TogetherThreshold is the density at which a cluster migrates jointly
	TogetherThreshold float64

	// HighRiskSpecifierCount flags imports pulling many named bindings
	HighRiskSpecifierCount int
}

// DefaultConfig returns the analyzer defaults
func DefaultConfig() Config {
	return Config{
		CohesionThreshold:      0.30,
		TogetherThreshold:      0.60,
		HighRiskSpecifierCount: 5,
	}
}

// Analyzer builds the dependency analysis result over a discovered set.
// The external-package registry is append-only by key during one invocation;
// mutation is serialized through mu.
type Analyzer struct {
	cfg   Config
	cache *lru.Cache[string, *parser.Node]

	mu        sync.Mutex
	externals map[string]*domain.ExternalDependency
}

// New creates a dependency analyzer
func New(cfg Config) *Analyzer {
	cache, _ := lru.New[string, *parser.Node](DefaultParseCacheSize)
	return &Analyzer{
		cfg:   cfg,
		cache: cache,
	}
}

// AnalyzeAll analyzes every discovered component and assembles the result.
// A single unit's failure is recorded as a warning; the unit contributes no
// edges but remains a graph node.
func (a *Analyzer) AnalyzeAll(ctx context.Context, components []*domain.ComponentDefinition, sources map[string][]byte) (*domain.DependencyAnalysisResult, error) {
	a.externals = make(map[string]*domain.ExternalDependency)

	byFile := indexByFile(components)
	result := &domain.DependencyAnalysisResult{}

	for _, def := range components {
		select {
		case <-ctx.Done():
			return nil, domain.NewRuntimeError("dependency analysis cancelled", ctx.Err())
		default:
		}

		details, err := a.analyzeComponent(ctx, def, sources[def.ID], byFile)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", def.ID, err))
			continue
		}
		result.Dependencies = append(result.Dependencies, details...)
	}

	result.Graph = BuildGraph(components, result.Dependencies)
	result.Graph.Cycles = DetectCycles(result.Graph)
	result.Graph.Clusters = DetectClusters(result.Graph, a.cfg)
	markCircular(result)

	result.Externals = a.sortedExternals()
	result.Metrics = computeMetrics(components, result)
	result.Recommendations = buildRecommendations(result)
	return result, nil
}

// analyzeComponent extracts and classifies one component's dependencies
func (a *Analyzer) analyzeComponent(ctx context.Context, def *domain.ComponentDefinition, source []byte, byFile map[string]string) ([]*domain.DependencyDetail, error) {
	if source == nil {
		return nil, fmt.Errorf("no source recorded")
	}
	ast, err := a.parse(ctx, def.FilePath, source)
	if err != nil {
		// Parse failures were already surfaced by the parsing phase; the
		// unit simply contributes no edges.
		return nil, nil
	}

	var details []*domain.DependencyDetail
	ast.Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindImport {
			return n.Kind == parser.KindProgram
		}
		detail := a.buildDetail(def, n, byFile)
		if detail != nil {
			detail.Usages = findUsages(ast, detail.Specifiers)
			details = append(details, detail)
		}
		return false
	})
	return details, nil
}

// parse returns the cached AST for a file, parsing on miss
func (a *Analyzer) parse(ctx context.Context, filePath string, source []byte) (*parser.Node, error) {
	if ast, ok := a.cache.Get(filePath); ok {
		return ast, nil
	}
	ast, err := parser.ParseForFile(ctx, filePath, source)
	if err != nil {
		return nil, err
	}
	a.cache.Add(filePath, ast)
	return ast, nil
}

// buildDetail converts one import statement into a dependency detail
func (a *Analyzer) buildDetail(def *domain.ComponentDefinition, imp *parser.Node, byFile map[string]string) *domain.DependencyDetail {
	src := imp.Field("source")
	if src == nil {
		return nil
	}
	importPath := strings.Trim(src.Raw, "`'\"")
	if importPath == "" {
		return nil
	}

	var specifiers []string
	for _, spec := range imp.Children {
		if spec.Kind == parser.KindImportSpecifier && spec.Name != "" {
			specifiers = append(specifiers, spec.Name)
		}
	}

	detail := &domain.DependencyDetail{
		SourceID:   def.ID,
		ImportPath: importPath,
		Specifiers: specifiers,
		Level:      domain.LevelDirect,
	}

	if strings.HasPrefix(importPath, ".") {
		detail.TargetKind = domain.DependencyInternal
		detail.TargetID = resolveInternal(def.FilePath, importPath, byFile)
	} else {
		detail.TargetKind = domain.DependencyExternal
		detail.TargetID = packageName(importPath)
		a.registerExternal(detail.TargetID, def.ID)
	}

	detail.Relationship = inferRelationship(importPath, specifiers, def)
	detail.Risk = a.classifyRisk(detail)
	return detail
}

// resolveInternal resolves a relative import against the discovered file set,
// trying the common extension and index-file forms
func resolveInternal(fromFile, importPath string, byFile map[string]string) string {
	base := path.Clean(path.Join(path.Dir(fromFile), importPath))
	candidates := []string{base}
	for _, ext := range []string{".tsx", ".ts", ".jsx", ".js"} {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range []string{".tsx", ".ts", ".jsx", ".js"} {
		candidates = append(candidates, path.Join(base, "index"+ext))
	}
	for _, c := range candidates {
		if id, ok := byFile[c]; ok {
			return id
		}
	}
	// Unresolved internal targets keep their cleaned path so the graph can
	// still show them as leaf nodes
	return base
}

// packageName canonicalizes an external specifier: scope preserved, deep
// subpath dropped
func packageName(importPath string) string {
	parts := strings.Split(importPath, "/")
	if strings.HasPrefix(importPath, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// inferRelationship maps import shape to a relationship type
func inferRelationship(importPath string, specifiers []string, def *domain.ComponentDefinition) domain.RelationshipType {
	for _, s := range specifiers {
		if strings.Contains(s, "Context") || strings.HasSuffix(s, "Provider") {
			return domain.RelationshipContext
		}
	}
	for _, s := range specifiers {
		if strings.HasPrefix(s, "use") && len(s) > 3 && s[3] >= 'A' && s[3] <= 'Z' {
			return domain.RelationshipHook
		}
	}
	for _, s := range specifiers {
		if strings.HasPrefix(s, "with") && len(s) > 4 && s[4] >= 'A' && s[4] <= 'Z' {
			return domain.RelationshipHigherOrder
		}
	}
	if def.HasPattern(domain.PatternRenderProp) {
		return domain.RelationshipRenderProp
	}
	if def.HasPattern(domain.PatternChildrenAsFunction) {
		return domain.RelationshipChildren
	}
	return domain.RelationshipImport
}

// classifyRisk rates an edge: high when the import pulls many named bindings
// or a context abstraction, medium when the path climbs out of the directory,
// low otherwise
func (a *Analyzer) classifyRisk(d *domain.DependencyDetail) domain.ExtractionRisk {
	if len(d.Specifiers) > a.cfg.HighRiskSpecifierCount || d.Relationship == domain.RelationshipContext {
		return domain.ExtractionRiskHigh
	}
	if strings.Contains(d.ImportPath, "../") {
		return domain.ExtractionRiskMedium
	}
	return domain.ExtractionRiskLow
}

// registerExternal records one more import of an external package.
// Serialized: concurrent units within a batch share the registry.
func (a *Analyzer) registerExternal(name, consumerID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ext, ok := a.externals[name]
	if !ok {
		ext = &domain.ExternalDependency{
			Name:  name,
			Class: classifyPackage(name),
		}
		ext.Disposition = suggestDisposition(ext.Class)
		a.externals[name] = ext
	}
	ext.UsageCount++
	for _, c := range ext.Consumers {
		if c == consumerID {
			return
		}
	}
	ext.Consumers = append(ext.Consumers, consumerID)
}

var packageClasses = map[domain.PackageClass][]string{
	domain.PackageClassFramework: {"react", "react-dom", "react-native", "next", "preact", "vue", "@angular"},
	domain.PackageClassUILibrary: {"antd", "@mui", "@material-ui", "@chakra-ui", "styled-components", "emotion", "@emotion", "bootstrap", "semantic-ui"},
	domain.PackageClassTesting:   {"jest", "enzyme", "@testing-library", "vitest", "mocha", "chai", "sinon"},
	domain.PackageClassBuildTool: {"webpack", "babel", "@babel", "vite", "rollup", "eslint", "prettier", "typescript"},
	domain.PackageClassUtility:   {"lodash", "axios", "moment", "date-fns", "ramda", "classnames", "uuid", "qs", "immer", "redux", "react-redux", "react-router", "react-router-dom", "prop-types"},
}

func classifyPackage(name string) domain.PackageClass {
	for class, names := range packageClasses {
		for _, candidate := range names {
			if name == candidate || strings.HasPrefix(name, candidate+"-") || strings.HasPrefix(name, candidate+"/") {
				return class
			}
		}
	}
	return domain.PackageClassUnknown
}

func suggestDisposition(class domain.PackageClass) domain.PackageDisposition {
	switch class {
	case domain.PackageClassFramework, domain.PackageClassTesting:
		return domain.DispositionKeep
	case domain.PackageClassUILibrary:
		return domain.DispositionReplace
	case domain.PackageClassBuildTool:
		return domain.DispositionRemove
	default:
		return domain.DispositionEvaluate
	}
}

// findUsages locates usage sites of imported bindings within the file
func findUsages(ast *parser.Node, specifiers []string) []domain.UsageContext {
	if len(specifiers) == 0 {
		return nil
	}
	wanted := make(map[string]bool, len(specifiers))
	for _, s := range specifiers {
		wanted[s] = true
	}
	var usages []domain.UsageContext
	ast.Walk(func(n *parser.Node) bool {
		var kind string
		switch n.Kind {
		case parser.KindJSXElement:
			if wanted[n.Name] {
				kind = "jsx-element"
			}
		case parser.KindCall:
			if wanted[n.Name] {
				kind = "call"
			}
		case parser.KindMember:
			if obj := n.Field("object"); obj != nil && wanted[obj.Name] {
				kind = "member-access"
			}
		}
		if kind != "" {
			usages = append(usages, domain.UsageContext{
				Location: domain.SourceLocation{
					FilePath:  n.Location.File,
					StartLine: n.Location.StartLine,
					EndLine:   n.Location.EndLine,
					StartCol:  n.Location.StartCol,
					EndCol:    n.Location.EndCol,
				},
				Kind: kind,
			})
		}
		return true
	})
	return usages
}

// markCircular upgrades the level of every edge that participates in a cycle
func markCircular(result *domain.DependencyAnalysisResult) {
	inCycle := make(map[string]map[string]bool)
	for _, cycle := range result.Graph.Cycles {
		members := cycle.Components
		for i, from := range members {
			to := members[(i+1)%len(members)]
			if inCycle[from] == nil {
				inCycle[from] = make(map[string]bool)
			}
			inCycle[from][to] = true
		}
	}
	for _, d := range result.Dependencies {
		if inCycle[d.SourceID][d.TargetID] {
			d.Level = domain.LevelCircular
			if d.Risk != domain.ExtractionRiskCritical {
				d.Risk = domain.ExtractionRiskCritical
			}
		}
	}
}

func (a *Analyzer) sortedExternals() []*domain.ExternalDependency {
	out := make([]*domain.ExternalDependency, 0, len(a.externals))
	for _, ext := range a.externals {
		sort.Strings(ext.Consumers)
		out = append(out, ext)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func computeMetrics(components []*domain.ComponentDefinition, result *domain.DependencyAnalysisResult) domain.DependencyMetrics {
	m := domain.DependencyMetrics{
		TotalDependencies: len(result.Dependencies),
		ExternalPackages:  len(result.Externals),
		CircularCount:     len(result.Graph.Cycles),
		ClusterCount:      len(result.Graph.Clusters),
	}
	for _, d := range result.Dependencies {
		if d.TargetKind == domain.DependencyInternal {
			m.InternalDependencies++
		}
	}
	if len(components) > 0 {
		m.AverageFanOut = float64(len(result.Dependencies)) / float64(len(components))
	}
	return m
}

func buildRecommendations(result *domain.DependencyAnalysisResult) []string {
	var recs []string
	for _, cycle := range result.Graph.Cycles {
		recs = append(recs, fmt.Sprintf("break the circular dependency: %s", cycle.Description))
	}
	for _, cluster := range result.Graph.Clusters {
		if cluster.Strategy == domain.ClusterTogether {
			recs = append(recs, fmt.Sprintf("migrate %s as a unit (cohesion %.2f)",
				strings.Join(shortNames(cluster.Components), ", "), cluster.Cohesion))
		}
	}
	for _, ext := range result.Externals {
		if ext.Disposition == domain.DispositionReplace {
			recs = append(recs, fmt.Sprintf("plan a replacement for %s (%d usages)", ext.Name, ext.UsageCount))
		}
	}
	return recs
}

func shortNames(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		if idx := strings.LastIndex(id, "#"); idx >= 0 {
			out[i] = id[idx+1:]
		} else {
			out[i] = id
		}
	}
	return out
}

// indexByFile maps file path to the first component declared in it
func indexByFile(components []*domain.ComponentDefinition) map[string]string {
	byFile := make(map[string]string)
	for _, def := range components {
		if _, ok := byFile[def.FilePath]; !ok {
			byFile[def.FilePath] = def.ID
		}
	}
	return byFile
}
