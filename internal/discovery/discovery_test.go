package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/parser"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

const buttonSource = `
import React from 'react';

interface ButtonProps {
	label: string;
	onClick?: () => void;
}

/** Button renders a clickable label. */
export const Button = ({ label, onClick }: ButtonProps) => (
	<button onClick={onClick}>{label}</button>
);
`

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Button.tsx", buttonSource)
	writeFile(t, root, "src/util.ts", "export const clamp = (n) => n;")
	writeFile(t, root, "src/Button.test.tsx", "test('noop', () => {});")
	writeFile(t, root, "node_modules/react/index.js", "module.exports = {};")
	writeFile(t, root, "README.md", "# demo")

	engine := NewEngine(domain.DiscoveryRequest{Root: root})
	result, err := engine.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	def := result.Components[0]
	assert.Equal(t, "src/Button.tsx#Button", def.ID)
	assert.Equal(t, "Button", def.Name)
	assert.Equal(t, domain.KindFunctional, def.Kind)
	assert.Contains(t, result.Sources, def.ID)

	// util.ts declares no component and is reported as a warning
	assert.NotEmpty(t, result.Warnings)
}

func TestDiscover_RootMissing(t *testing.T) {
	engine := NewEngine(domain.DiscoveryRequest{Root: filepath.Join(t.TempDir(), "nope")})
	_, err := engine.Discover(context.Background())
	require.Error(t, err)

	var perr *domain.PipelineError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, domain.CategoryFileSystem, perr.Category)
}

func TestDiscover_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Button.tsx", buttonSource)
	writeFile(t, root, "legacy/Old.tsx", buttonSource)

	engine := NewEngine(domain.DiscoveryRequest{
		Root:            root,
		ExcludePatterns: []string{"legacy/"},
	})
	result, err := engine.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	assert.Equal(t, "src/Button.tsx", result.Components[0].FilePath)
}

func TestDiscover_GitIgnore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\n")
	writeFile(t, root, "src/Button.tsx", buttonSource)
	writeFile(t, root, "generated/Gen.tsx", buttonSource)

	engine := NewEngine(domain.DiscoveryRequest{Root: root, UseGitIgnore: true})
	result, err := engine.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	assert.Equal(t, "src/Button.tsx", result.Components[0].FilePath)
}

func TestDiscover_IncludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Button.tsx", buttonSource)
	writeFile(t, root, "src/Header.jsx", `export const Header = () => <h1>hi</h1>;`)

	engine := NewEngine(domain.DiscoveryRequest{
		Root:            root,
		IncludePatterns: []string{"*.tsx"},
	})
	result, err := engine.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	assert.Equal(t, "Button", result.Components[0].Name)
}

func TestDiscover_ParseFailureFallsBack(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Broken.tsx", "const Broken = => => {{{")

	engine := NewEngine(domain.DiscoveryRequest{Root: root})
	result, err := engine.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	def := result.Components[0]
	assert.Equal(t, "Broken", def.Name)
	assert.Equal(t, domain.KindFunctional, def.Kind)
	assert.NotEmpty(t, result.Warnings)
}

func TestDiscover_TestCoverageHeuristic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/Button.tsx", buttonSource)
	writeFile(t, root, "src/Button.test.tsx", "test('noop', () => {});")

	engine := NewEngine(domain.DiscoveryRequest{Root: root})
	result, err := engine.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Components, 1)
	assert.Equal(t, 80, result.Components[0].Metadata.TestCoverage)
}

func parseSource(t *testing.T, rel, source string) *parser.Node {
	t.Helper()
	ast, err := parser.ParseForFile(context.Background(), rel, []byte(source))
	require.NoError(t, err)
	return ast
}

func TestExtract_TypedProps(t *testing.T) {
	ast := parseSource(t, "Button.tsx", buttonSource)
	defs := extractComponents("Button.tsx", []byte(buttonSource), ast)

	require.Len(t, defs, 1)
	def := defs[0]
	require.Len(t, def.Props, 2)
	assert.Equal(t, "label", def.Props[0].Name)
	assert.True(t, def.Props[0].Required)
	assert.Equal(t, "onClick", def.Props[1].Name)
	assert.False(t, def.Props[1].Required)
	assert.True(t, def.Metadata.HasDocumentation)
}

func TestExtract_Hook(t *testing.T) {
	source := `
export function useToggle(initial) {
	const value = initial;
	return value;
}`
	ast := parseSource(t, "useToggle.js", source)
	defs := extractComponents("useToggle.js", []byte(source), ast)

	require.Len(t, defs, 1)
	assert.Equal(t, domain.KindHook, defs[0].Kind)
}

func TestExtract_ClassComponent(t *testing.T) {
	source := `
import React from 'react';
export class Panel extends React.Component {
	render() { return <div />; }
}`
	ast := parseSource(t, "Panel.jsx", source)
	defs := extractComponents("Panel.jsx", []byte(source), ast)

	require.Len(t, defs, 1)
	assert.Equal(t, domain.KindClass, defs[0].Kind)
}

func TestExtract_PlainClassIgnored(t *testing.T) {
	source := `export class Store { get() { return 1; } }`
	ast := parseSource(t, "Store.js", source)
	defs := extractComponents("Store.js", []byte(source), ast)
	assert.Empty(t, defs)
}

func TestExtract_HigherOrderWrapper(t *testing.T) {
	source := `
const Inner = () => <div />;
export const Wrapped = memo(Inner);
`
	ast := parseSource(t, "Wrapped.jsx", source)
	defs := extractComponents("Wrapped.jsx", []byte(source), ast)

	var wrapped *domain.ComponentDefinition
	for _, d := range defs {
		if d.Name == "Wrapped" {
			wrapped = d
		}
	}
	require.NotNil(t, wrapped)
	assert.Equal(t, domain.KindHigherOrder, wrapped.Kind)
	assert.Contains(t, wrapped.Patterns, domain.PatternHigherOrderUsage)
}

func TestExtract_NonComponentIgnored(t *testing.T) {
	source := `export const formatDate = (d) => d.toISOString();`
	ast := parseSource(t, "format.js", source)
	defs := extractComponents("format.js", []byte(source), ast)
	assert.Empty(t, defs)
}

func TestDetectPatterns_StatefulEffectful(t *testing.T) {
	source := `
import { useState, useEffect } from 'react';
export const Clock = () => {
	const [now, setNow] = useState(0);
	useEffect(() => { setNow(Date.now()); }, []);
	return <span>{now}</span>;
};`
	ast := parseSource(t, "Clock.jsx", source)
	defs := extractComponents("Clock.jsx", []byte(source), ast)

	require.Len(t, defs, 1)
	assert.Contains(t, defs[0].Patterns, domain.PatternStateful)
	assert.Contains(t, defs[0].Patterns, domain.PatternEffectful)
	assert.NotContains(t, defs[0].Patterns, domain.PatternPresentational)
}

func TestDetectPatterns_Presentational(t *testing.T) {
	source := `export const Badge = ({ text }) => <span>{text}</span>;`
	ast := parseSource(t, "Badge.jsx", source)
	defs := extractComponents("Badge.jsx", []byte(source), ast)

	require.Len(t, defs, 1)
	assert.Contains(t, defs[0].Patterns, domain.PatternPresentational)
}

func TestDetectPatterns_ContextProvider(t *testing.T) {
	source := `
export const ThemeProvider = ({ children }) => (
	<Theme.Provider value="dark">{children}</Theme.Provider>
);`
	ast := parseSource(t, "ThemeProvider.jsx", source)
	defs := extractComponents("ThemeProvider.jsx", []byte(source), ast)

	require.Len(t, defs, 1)
	assert.Contains(t, defs[0].Patterns, domain.PatternContextProvider)
}

func TestDetectPatterns_RenderProp(t *testing.T) {
	source := `
export const Mouse = ({ render }) => (
	<Tracker render={render} />
);`
	ast := parseSource(t, "Mouse.jsx", source)
	defs := extractComponents("Mouse.jsx", []byte(source), ast)

	require.Len(t, defs, 1)
	assert.Contains(t, defs[0].Patterns, domain.PatternRenderProp)
}

func TestDetectPatterns_ChildrenAsFunction(t *testing.T) {
	source := `
export const Sizer = () => (
	<Measure>{(size) => <div>{size}</div>}</Measure>
);`
	ast := parseSource(t, "Sizer.jsx", source)
	defs := extractComponents("Sizer.jsx", []byte(source), ast)

	require.Len(t, defs, 1)
	assert.Contains(t, defs[0].Patterns, domain.PatternChildrenAsFunction)
}

func TestExtractBusinessLogic(t *testing.T) {
	source := `
export const Form = () => {
	const validate = (value) => {
		if (!value) { return false; }
		return value.length > 3;
	};
	return <input onChange={validate} />;
};`
	ast := parseSource(t, "Form.jsx", source)
	defs := extractComponents("Form.jsx", []byte(source), ast)

	require.Len(t, defs, 1)
	require.Len(t, defs[0].BusinessLogic, 1)
	assert.Equal(t, "validate", defs[0].BusinessLogic[0].Name)
	assert.GreaterOrEqual(t, defs[0].BusinessLogic[0].Complexity, 2)
}

func TestCollectImports(t *testing.T) {
	source := `
import React from 'react';
import { Card } from './Card';
export const Page = () => <Card />;
`
	ast := parseSource(t, "Page.jsx", source)
	defs := extractComponents("Page.jsx", []byte(source), ast)

	require.Len(t, defs, 1)
	deps := defs[0].Dependencies
	require.Len(t, deps, 2)
	assert.Equal(t, "React", deps[0].Name)
	assert.Equal(t, domain.DependencyExternal, deps[0].Kind)
	assert.Equal(t, "react", deps[0].ImportPath)
	assert.Equal(t, "Card", deps[1].Name)
	assert.Equal(t, domain.DependencyInternal, deps[1].Kind)
}

func TestComponentNameFromPath(t *testing.T) {
	assert.Equal(t, "Button", componentNameFromPath("src/Button.tsx"))
	assert.Equal(t, "Card", componentNameFromPath("src/Card/index.tsx"))
	assert.Equal(t, "useToggle", componentNameFromPath("hooks/useToggle.ts"))
	assert.Equal(t, "", componentNameFromPath("src/util.ts"))
}

func TestIsTestFile(t *testing.T) {
	assert.True(t, isTestFile("src/Button.test.tsx"))
	assert.True(t, isTestFile("src/Button.spec.js"))
	assert.True(t, isTestFile("src/__tests__/Button.tsx"))
	assert.False(t, isTestFile("src/Button.tsx"))
}

func TestClassifyComplexity(t *testing.T) {
	def := &domain.ComponentDefinition{}
	node := parser.NewNode(parser.KindArrowFunction)
	assert.Equal(t, domain.ComplexitySimple, classifyComplexity(def, node))

	def.BusinessLogic = make([]domain.BusinessLogicDefinition, 4)
	assert.Equal(t, domain.ComplexityModerate, classifyComplexity(def, node))

	def.BusinessLogic = make([]domain.BusinessLogicDefinition, 7)
	assert.Equal(t, domain.ComplexityComplex, classifyComplexity(def, node))

	def.BusinessLogic = make([]domain.BusinessLogicDefinition, 12)
	assert.Equal(t, domain.ComplexityCritical, classifyComplexity(def, node))
}
