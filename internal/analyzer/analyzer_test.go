package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/parser"
	"github.com/uplift-tools/uplift/internal/testutil"
)

func parseSource(t *testing.T, rel, source string) *parser.Node {
	t.Helper()
	ast, err := parser.ParseForFile(context.Background(), rel, []byte(source))
	require.NoError(t, err)
	return ast
}

func TestStructuralComplexity(t *testing.T) {
	source := `
function decide(a, b) {
	if (a) { return 1; }
	for (let i = 0; i < 3; i++) { b++; }
	const c = a ? 1 : 2;
	const d = a && b;
	switch (c) {
	case 1:
		return 1;
	case 2:
		return 2;
	default:
		return 0;
	}
}`
	ast := testutil.CreateTestAST(t, source)
	assert.Equal(t, 3, testutil.CountNodesOfKind(ast, parser.KindSwitchCase))

	fn := testutil.FindFunctionInAST(ast, "decide")
	require.NotNil(t, fn)

	// 1 + if + for + ternary + logical + two case arms (default free)
	assert.Equal(t, 7, StructuralComplexity(fn))
}

func TestStructuralComplexity_Catch(t *testing.T) {
	ast := testutil.CreateTestAST(t, `try { a(); } catch (e) { b(); }`)
	assert.Equal(t, 2, StructuralComplexity(ast))
}

func TestStructuralComplexity_Nil(t *testing.T) {
	assert.Equal(t, 1, StructuralComplexity(nil))
}

func TestExtractDocumentation(t *testing.T) {
	source := `/**
 * Button renders a clickable label.
 * Used everywhere.
 */
export const Button = () => <button />;`
	ast := parseSource(t, "Button.jsx", source)

	doc := ExtractDocumentation(ast)
	assert.Equal(t, "Button renders a clickable label.\nUsed everywhere.", doc)
}

func TestExtractDocumentation_LineCommentIgnored(t *testing.T) {
	ast := parseSource(t, "x.js", "// not a doc comment\nconst a = 1;")
	assert.Equal(t, "", ExtractDocumentation(ast))
}

func TestParseComponent(t *testing.T) {
	def := &domain.ComponentDefinition{ID: "a#A"}
	ast := parseSource(t, "a.js", "if (x) { y(); }")

	result := ParseComponent(def, ast, nil)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.StructuralComplexity)

	failed := ParseComponent(def, nil, errors.New("syntax error"))
	assert.False(t, failed.Success)
	assert.Equal(t, "syntax error", failed.Error)
}

func fixtureComponents() ([]*domain.ComponentDefinition, map[string][]byte) {
	a := &domain.ComponentDefinition{
		ID: "src/A.tsx#A", Name: "A", FilePath: "src/A.tsx", Kind: domain.KindFunctional,
	}
	b := &domain.ComponentDefinition{
		ID: "src/B.tsx#B", Name: "B", FilePath: "src/B.tsx", Kind: domain.KindFunctional,
	}
	sources := map[string][]byte{
		a.ID: []byte(`
import { B } from './B';
export const A = () => <B />;
`),
		b.ID: []byte(`
import React from 'react';
export const B = () => <div />;
`),
	}
	return []*domain.ComponentDefinition{a, b}, sources
}

func TestAnalyzeAll(t *testing.T) {
	components, sources := fixtureComponents()
	a := New(DefaultConfig())

	result, err := a.AnalyzeAll(context.Background(), components, sources)
	require.NoError(t, err)

	require.Len(t, result.Dependencies, 2)

	var internal, external *domain.DependencyDetail
	for _, d := range result.Dependencies {
		switch d.TargetKind {
		case domain.DependencyInternal:
			internal = d
		case domain.DependencyExternal:
			external = d
		}
	}
	require.NotNil(t, internal)
	assert.Equal(t, "src/A.tsx#A", internal.SourceID)
	assert.Equal(t, "src/B.tsx#B", internal.TargetID, "relative import resolves to the discovered component")
	assert.Equal(t, domain.LevelDirect, internal.Level)
	assert.Equal(t, domain.ExtractionRiskLow, internal.Risk)

	require.NotNil(t, external)
	assert.Equal(t, "react", external.TargetID)

	require.Len(t, result.Externals, 1)
	assert.Equal(t, "react", result.Externals[0].Name)
	assert.Equal(t, domain.PackageClassFramework, result.Externals[0].Class)
	assert.Equal(t, domain.DispositionKeep, result.Externals[0].Disposition)
	assert.Equal(t, 1, result.Externals[0].UsageCount)

	assert.Equal(t, 2, result.Metrics.TotalDependencies)
	assert.Equal(t, 1, result.Metrics.InternalDependencies)
	assert.Equal(t, 1, result.Metrics.ExternalPackages)
	assert.InDelta(t, 1.0, result.Metrics.AverageFanOut, 0.001)
	assert.Empty(t, result.Graph.Cycles)
}

func TestAnalyzeAll_MissingSourceIsWarning(t *testing.T) {
	components, _ := fixtureComponents()
	a := New(DefaultConfig())

	result, err := a.AnalyzeAll(context.Background(), components, map[string][]byte{})
	require.NoError(t, err)
	assert.Len(t, result.Warnings, 2)
	assert.Empty(t, result.Dependencies)
}

func cyclePair() ([]*domain.ComponentDefinition, map[string][]byte) {
	a := &domain.ComponentDefinition{
		ID: "src/A.tsx#A", Name: "A", FilePath: "src/A.tsx", Kind: domain.KindFunctional,
	}
	b := &domain.ComponentDefinition{
		ID: "src/B.tsx#B", Name: "B", FilePath: "src/B.tsx", Kind: domain.KindFunctional,
	}
	sources := map[string][]byte{
		a.ID: []byte(`import { B } from './B'; export const A = () => <B />;`),
		b.ID: []byte(`import { A } from './A'; export const B = () => <A />;`),
	}
	return []*domain.ComponentDefinition{a, b}, sources
}

func TestAnalyzeAll_CircularDependency(t *testing.T) {
	components, sources := cyclePair()
	a := New(DefaultConfig())

	result, err := a.AnalyzeAll(context.Background(), components, sources)
	require.NoError(t, err)

	require.Len(t, result.Graph.Cycles, 1, "rotations of the same ring dedupe")
	assert.Len(t, result.Graph.Cycles[0].Components, 2)
	assert.Equal(t, "src/A.tsx#A -> src/B.tsx#B -> src/A.tsx#A", result.Graph.Cycles[0].Description)

	for _, d := range result.Dependencies {
		assert.Equal(t, domain.LevelCircular, d.Level)
		assert.Equal(t, domain.ExtractionRiskCritical, d.Risk)
	}

	require.NotEmpty(t, result.Recommendations)
	assert.Contains(t, result.Recommendations[0], "circular")
}

func TestAnalyzeAll_ClusterDetection(t *testing.T) {
	components, sources := cyclePair()
	a := New(DefaultConfig())

	result, err := a.AnalyzeAll(context.Background(), components, sources)
	require.NoError(t, err)

	require.Len(t, result.Graph.Clusters, 1)
	cluster := result.Graph.Clusters[0]
	assert.InDelta(t, 1.0, cluster.Cohesion, 0.001, "both directed edges present")
	assert.Equal(t, domain.ClusterTogether, cluster.Strategy)
	assert.Equal(t, []string{"src/A.tsx#A", "src/B.tsx#B"}, cluster.Components)
}

func TestDetectClusters_StrategyByCohesion(t *testing.T) {
	chain := func(ids ...string) *domain.DependencyGraph {
		g := domain.NewDependencyGraph()
		for _, id := range ids {
			g.AddNode(&domain.GraphNode{ID: id})
		}
		for i := 0; i+1 < len(ids); i++ {
			g.AddEdge(&domain.GraphEdge{From: ids[i], To: ids[i+1]})
		}
		return g
	}

	// 2 of 6 possible edges
	clusters := DetectClusters(chain("A", "B", "C"), DefaultConfig())
	require.Len(t, clusters, 1)
	assert.InDelta(t, 1.0/3, clusters[0].Cohesion, 0.001)
	assert.Equal(t, domain.ClusterStaged, clusters[0].Strategy)

	// 3 of 12 possible edges: too sparse to migrate as a unit
	clusters = DetectClusters(chain("A", "B", "C", "D"), DefaultConfig())
	require.Len(t, clusters, 1)
	assert.InDelta(t, 0.25, clusters[0].Cohesion, 0.001)
	assert.Equal(t, domain.ClusterIndividual, clusters[0].Strategy)
}

func TestBuildGraph_Centrality(t *testing.T) {
	def := &domain.ComponentDefinition{ID: "src/A.tsx#A", Name: "A", FilePath: "src/A.tsx"}
	graph := BuildGraph([]*domain.ComponentDefinition{def}, nil)

	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, 0.0, graph.Nodes["src/A.tsx#A"].Centrality, "a single node has no neighbors")
}

func TestPackageName(t *testing.T) {
	assert.Equal(t, "react", packageName("react"))
	assert.Equal(t, "lodash", packageName("lodash/fp"))
	assert.Equal(t, "@mui/material", packageName("@mui/material/Button"))
}

func TestClassifyPackage(t *testing.T) {
	assert.Equal(t, domain.PackageClassFramework, classifyPackage("react"))
	assert.Equal(t, domain.PackageClassFramework, classifyPackage("react-dom"))
	assert.Equal(t, domain.PackageClassUILibrary, classifyPackage("styled-components"))
	assert.Equal(t, domain.PackageClassTesting, classifyPackage("@testing-library/react"))
	assert.Equal(t, domain.PackageClassBuildTool, classifyPackage("webpack"))
	assert.Equal(t, domain.PackageClassUtility, classifyPackage("lodash"))
	assert.Equal(t, domain.PackageClassUnknown, classifyPackage("left-pad"))
}

func TestClassifyRisk(t *testing.T) {
	a := New(DefaultConfig())

	low := &domain.DependencyDetail{ImportPath: "./Button", Specifiers: []string{"Button"}}
	assert.Equal(t, domain.ExtractionRiskLow, a.classifyRisk(low))

	medium := &domain.DependencyDetail{ImportPath: "../shared/Button", Specifiers: []string{"Button"}}
	assert.Equal(t, domain.ExtractionRiskMedium, a.classifyRisk(medium))

	many := &domain.DependencyDetail{
		ImportPath: "./utils",
		Specifiers: []string{"a", "b", "c", "d", "e", "f"},
	}
	assert.Equal(t, domain.ExtractionRiskHigh, a.classifyRisk(many))

	ctx := &domain.DependencyDetail{ImportPath: "./theme", Relationship: domain.RelationshipContext}
	assert.Equal(t, domain.ExtractionRiskHigh, a.classifyRisk(ctx))
}

func TestInferRelationship(t *testing.T) {
	def := &domain.ComponentDefinition{}

	assert.Equal(t, domain.RelationshipContext,
		inferRelationship("./theme", []string{"ThemeContext"}, def))
	assert.Equal(t, domain.RelationshipContext,
		inferRelationship("./theme", []string{"ThemeProvider"}, def))
	assert.Equal(t, domain.RelationshipHook,
		inferRelationship("./hooks", []string{"useToggle"}, def))
	assert.Equal(t, domain.RelationshipHigherOrder,
		inferRelationship("./hoc", []string{"withRouter"}, def))
	assert.Equal(t, domain.RelationshipImport,
		inferRelationship("./Button", []string{"Button"}, def))

	renderProp := &domain.ComponentDefinition{Patterns: []string{domain.PatternRenderProp}}
	assert.Equal(t, domain.RelationshipRenderProp,
		inferRelationship("./Tracker", []string{"Tracker"}, renderProp))
}

func TestResolveInternal(t *testing.T) {
	byFile := map[string]string{
		"src/B.tsx":          "src/B.tsx#B",
		"src/Card/index.jsx": "src/Card/index.jsx#Card",
	}

	assert.Equal(t, "src/B.tsx#B", resolveInternal("src/A.tsx", "./B", byFile))
	assert.Equal(t, "src/Card/index.jsx#Card", resolveInternal("src/A.tsx", "./Card", byFile))
	assert.Equal(t, "src/Missing", resolveInternal("src/A.tsx", "./Missing", byFile),
		"unresolved targets keep their cleaned path")
}

func TestFindUsages(t *testing.T) {
	ast := parseSource(t, "Page.jsx", `
import { Card, helper } from './Card';
export const Page = () => {
	helper();
	return <Card />;
};`)

	usages := findUsages(ast, []string{"Card", "helper"})
	require.Len(t, usages, 2)

	kinds := map[string]bool{}
	for _, u := range usages {
		kinds[u.Kind] = true
	}
	assert.True(t, kinds["call"])
	assert.True(t, kinds["jsx-element"])
}
