// Package transform generates migrated component source from a structural
// definition: a function component, extracted hooks, and type declarations.
package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/parser"
)

// Transformer generates target-platform component source
type Transformer struct {
	target domain.TargetPlatform
}

// NewTransformer creates a transformer for the given target platform
func NewTransformer(target domain.TargetPlatform) *Transformer {
	if target == "" {
		target = domain.TargetWeb
	}
	return &Transformer{target: target}
}

// Transform generates migrated source for one component, carrying the
// original logic and markup out of the raw source. A panic inside generation
// is converted into a failed result rather than unwinding the pipeline.
func (t *Transformer) Transform(def *domain.ComponentDefinition, source []byte, parse *domain.ParseResult, deps []*domain.DependencyDetail) (result *domain.TransformationResult) {
	result = &domain.TransformationResult{Component: def}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Body = ""
			result.Hooks = nil
			result.Metrics = domain.TransformationMetrics{}
			result.Effort = domain.MigrationEffortCritical
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("transformation aborted: %v", r))
		}
	}()

	if parse != nil && !parse.Success {
		result.Success = false
		result.Effort = domain.MigrationEffortCritical
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("cannot transform unparsed source: %s", parse.Error))
		return result
	}

	model := buildSourceModel(def, source)
	result.Hooks = t.extractHooks(def, model)
	result.TypeDeclarations = t.generateTypes(def)
	result.Imports = t.generateImports(def, result.Hooks)
	result.Body = t.generateComponent(def, result.Hooks, model.markup)
	result.Exports = []string{def.Name}
	result.CompatibilityScore = compatibility(def, deps)
	result.Effort = classifyEffort(def)
	result.Metrics = computeTransformMetrics(def, parse, result)
	result.Success = true

	if def.Kind == domain.KindClass {
		result.Warnings = append(result.Warnings,
			"class component converted to a function component; verify lifecycle behavior")
	}
	if def.HasPattern(domain.PatternHigherOrderUsage) {
		result.Warnings = append(result.Warnings,
			"higher-order wrapper flattened; verify injected props")
	}
	return result
}

// sourceModel is the structural view of the raw source that generation
// consumes: the component's rendered markup and the text of each embedded
// logic block, keyed by name.
type sourceModel struct {
	markup string
	logic  map[string]string
}

// buildSourceModel re-parses the raw source and slices out the pieces the
// generators carry over. A missing or unparsable source yields an empty model
// and the generators fall back to scaffolding.
func buildSourceModel(def *domain.ComponentDefinition, source []byte) sourceModel {
	model := sourceModel{logic: make(map[string]string)}
	if len(source) == 0 {
		return model
	}
	var p *parser.Parser
	if parser.IsTypeScriptFile(def.FilePath) {
		p = parser.NewTypeScriptParser()
	} else {
		p = parser.NewParser()
	}
	defer p.Close()
	ast, err := p.ParseString(string(source))
	if err != nil {
		return model
	}

	wanted := make(map[string]bool, len(def.BusinessLogic))
	for _, l := range def.BusinessLogic {
		wanted[l.Name] = true
	}
	lines := strings.Split(string(source), "\n")
	inComponent := func(n *parser.Node) bool {
		return n.Location.StartLine >= def.Location.StartLine &&
			n.Location.EndLine <= def.Location.EndLine
	}

	ast.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindJSXElement, parser.KindJSXFragment:
			// the first in-range element is the outermost rendered markup
			if model.markup == "" && inComponent(n) {
				model.markup = sliceLines(lines, n.Location)
			}
		case parser.KindDeclarator:
			if wanted[n.Name] && model.logic[n.Name] == "" {
				if v := n.Field("value"); v != nil && v.IsFunction() {
					model.logic[n.Name] = "const " + strings.TrimSpace(sliceLines(lines, n.Location)) + ";"
				}
			}
		case parser.KindFunctionDecl:
			if wanted[n.Name] && model.logic[n.Name] == "" {
				model.logic[n.Name] = sliceLines(lines, n.Location)
			}
		}
		return true
	})
	return model
}

// sliceLines cuts the text covered by a node location out of the source
func sliceLines(lines []string, loc parser.Location) string {
	if loc.StartLine < 1 || loc.EndLine > len(lines) || loc.StartLine > loc.EndLine {
		return ""
	}
	if loc.StartLine == loc.EndLine {
		line := lines[loc.StartLine-1]
		if loc.StartCol <= loc.EndCol && loc.EndCol <= len(line) {
			return line[loc.StartCol:loc.EndCol]
		}
		return line
	}
	out := make([]string, 0, loc.EndLine-loc.StartLine+1)
	for i := loc.StartLine; i <= loc.EndLine; i++ {
		line := lines[i-1]
		switch i {
		case loc.StartLine:
			if loc.StartCol <= len(line) {
				line = line[loc.StartCol:]
			}
		case loc.EndLine:
			if loc.EndCol <= len(line) {
				line = line[:loc.EndCol]
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func indent(text, prefix string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// extractHooks lifts each embedded business-logic block into a standalone
// custom hook wrapping the original block text
func (t *Transformer) extractHooks(def *domain.ComponentDefinition, model sourceModel) []domain.ExtractedHook {
	hooks := make([]domain.ExtractedHook, 0, len(def.BusinessLogic))
	for _, logic := range def.BusinessLogic {
		name := hookName(logic.Name)
		var b strings.Builder
		fmt.Fprintf(&b, "export function %s() {\n", name)
		if text := model.logic[logic.Name]; text != "" {
			b.WriteString(indent(text, "  "))
			fmt.Fprintf(&b, "  return { %s };\n", logic.Name)
		} else {
			fmt.Fprintf(&b, "  // TODO: move the body of %s here from %s\n", logic.Name, def.FilePath)
			b.WriteString("  return {};\n")
		}
		b.WriteString("}\n")
		hooks = append(hooks, domain.ExtractedHook{
			Name:                name,
			Body:                b.String(),
			Origin:              logic.Name,
			ComplexityReduction: logic.Complexity,
		})
	}
	return hooks
}

func hookName(origin string) string {
	trimmed := strings.TrimPrefix(origin, "handle")
	trimmed = strings.TrimPrefix(trimmed, "on")
	if trimmed == "" {
		trimmed = origin
	}
	return "use" + strings.ToUpper(trimmed[:1]) + trimmed[1:]
}

// generateTypes emits the Props interface when the component declares props
func (t *Transformer) generateTypes(def *domain.ComponentDefinition) string {
	if len(def.Props) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "export interface %sProps {\n", def.Name)
	for _, p := range def.Props {
		typ := p.Type
		if typ == "" {
			typ = "unknown"
		}
		optional := ""
		if !p.Required {
			optional = "?"
		}
		fmt.Fprintf(&b, "  %s%s: %s;\n", p.Name, optional, typ)
	}
	b.WriteString("}\n")
	return b.String()
}

// generateImports assembles the import block: framework, kept externals, and
// the extracted hooks
func (t *Transformer) generateImports(def *domain.ComponentDefinition, hooks []domain.ExtractedHook) []string {
	imports := []string{`import React from "react";`}
	if t.target == domain.TargetNative {
		imports = append(imports, `import { View, Text, StyleSheet } from "react-native";`)
	}

	external := make(map[string][]string)
	for _, dep := range def.Dependencies {
		if dep.Kind != domain.DependencyExternal || dep.ImportPath == "react" {
			continue
		}
		external[dep.ImportPath] = append(external[dep.ImportPath], dep.Name)
	}
	paths := make([]string, 0, len(external))
	for p := range external {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		names := external[p]
		sort.Strings(names)
		imports = append(imports, fmt.Sprintf("import { %s } from %q;", strings.Join(names, ", "), p))
	}

	for _, h := range hooks {
		imports = append(imports, fmt.Sprintf("import { %s } from \"./hooks/%s\";", h.Name, h.Name))
	}
	return imports
}

// generateComponent emits the function component body, reusing the original
// markup when the source model captured it
func (t *Transformer) generateComponent(def *domain.ComponentDefinition, hooks []domain.ExtractedHook, markup string) string {
	var b strings.Builder

	params := ""
	if len(def.Props) > 0 {
		names := make([]string, 0, len(def.Props))
		for _, p := range def.Props {
			names = append(names, p.Name)
		}
		params = fmt.Sprintf("{ %s }: %sProps", strings.Join(names, ", "), def.Name)
	}

	fmt.Fprintf(&b, "export function %s(%s) {\n", def.Name, params)
	for _, h := range hooks {
		fmt.Fprintf(&b, "  const %s = %s();\n", lowerFirst(strings.TrimPrefix(h.Name, "use")), h.Name)
	}
	if def.HasPattern(domain.PatternStateful) {
		b.WriteString("  // TODO: port state from the source component\n")
	}
	if def.HasPattern(domain.PatternEffectful) {
		b.WriteString("  // TODO: port effects from the source component\n")
	}
	b.WriteString("  return (\n")
	switch {
	case t.target == domain.TargetNative:
		fmt.Fprintf(&b, "    <View testID=%q>\n      <Text>%s</Text>\n    </View>\n", def.Name, def.Name)
	case markup != "":
		b.WriteString(indent(markup, "    "))
	default:
		fmt.Fprintf(&b, "    <div data-component=%q>\n      {/* TODO: port markup from %s */}\n    </div>\n", def.Name, def.FilePath)
	}
	b.WriteString("  );\n")
	b.WriteString("}\n")
	return b.String()
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// compatibility rates how directly the unit maps onto the target: complexity,
// incompatible patterns, and external surface each subtract from 100
func compatibility(def *domain.ComponentDefinition, deps []*domain.DependencyDetail) int {
	score := 100
	switch def.Complexity {
	case domain.ComplexityCritical:
		score -= 30
	case domain.ComplexityComplex:
		score -= 20
	case domain.ComplexityModerate:
		score -= 10
	}
	for _, p := range []string{
		domain.PatternRenderProp,
		domain.PatternChildrenAsFunction,
		domain.PatternHigherOrderUsage,
		domain.PatternContextProvider,
	} {
		if def.HasPattern(p) {
			score -= 15
		}
	}
	for _, d := range deps {
		if d.TargetKind == domain.DependencyExternal {
			score -= 5
		}
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func classifyEffort(def *domain.ComponentDefinition) domain.MigrationEffort {
	switch def.Complexity {
	case domain.ComplexitySimple:
		return domain.MigrationEffortLow
	case domain.ComplexityModerate:
		return domain.MigrationEffortMedium
	case domain.ComplexityComplex:
		return domain.MigrationEffortHigh
	default:
		return domain.MigrationEffortCritical
	}
}

func computeTransformMetrics(def *domain.ComponentDefinition, parse *domain.ParseResult, result *domain.TransformationResult) domain.TransformationMetrics {
	m := domain.TransformationMetrics{
		LinesBefore: def.Location.EndLine - def.Location.StartLine + 1,
		LinesAfter:  strings.Count(result.Body, "\n"),
	}
	if parse != nil {
		m.ComplexityBefore = parse.StructuralComplexity
	}
	m.ComplexityAfter = m.ComplexityBefore
	for _, h := range result.Hooks {
		m.ComplexityAfter -= h.ComplexityReduction
	}
	if m.ComplexityAfter < 1 {
		m.ComplexityAfter = 1
	}
	return m
}
