package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uplift-tools/uplift/domain"
)

func definition() *domain.ComponentDefinition {
	return &domain.ComponentDefinition{
		ID:         "src/Button.tsx#Button",
		Name:       "Button",
		FilePath:   "src/Button.tsx",
		Kind:       domain.KindFunctional,
		Complexity: domain.ComplexitySimple,
		Props: []domain.PropDefinition{
			{Name: "label", Type: "string", Required: true},
			{Name: "onClick", Type: "() => void"},
		},
		Location: domain.SourceLocation{StartLine: 10, EndLine: 29},
	}
}

func TestTransform(t *testing.T) {
	tr := NewTransformer(domain.TargetWeb)
	parse := &domain.ParseResult{Success: true, StructuralComplexity: 3}

	result := tr.Transform(definition(), nil, parse, nil)

	require.True(t, result.Success)
	assert.Equal(t, []string{"Button"}, result.Exports)
	assert.Equal(t, domain.MigrationEffortLow, result.Effort)
	assert.Equal(t, 100, result.CompatibilityScore)

	assert.Contains(t, result.Body, "export function Button({ label, onClick }: ButtonProps)")
	assert.Contains(t, result.Body, `<div data-component="Button">`)

	assert.Contains(t, result.TypeDeclarations, "export interface ButtonProps {")
	assert.Contains(t, result.TypeDeclarations, "label: string;")
	assert.Contains(t, result.TypeDeclarations, "onClick?: () => void;")

	require.NotEmpty(t, result.Imports)
	assert.Equal(t, `import React from "react";`, result.Imports[0])

	assert.Equal(t, 20, result.Metrics.LinesBefore)
	assert.Equal(t, 3, result.Metrics.ComplexityBefore)
	assert.Equal(t, 3, result.Metrics.ComplexityAfter)
}

func TestTransform_NativeTarget(t *testing.T) {
	tr := NewTransformer(domain.TargetNative)

	result := tr.Transform(definition(), nil, nil, nil)

	require.True(t, result.Success)
	assert.Contains(t, result.Imports, `import { View, Text, StyleSheet } from "react-native";`)
	assert.Contains(t, result.Body, `<View testID="Button">`)
	assert.NotContains(t, result.Body, "<div")
}

func TestTransform_UnparsedSourceFails(t *testing.T) {
	tr := NewTransformer(domain.TargetWeb)
	parse := &domain.ParseResult{Success: false, Error: "syntax error"}

	result := tr.Transform(definition(), nil, parse, nil)

	assert.False(t, result.Success)
	assert.Equal(t, domain.MigrationEffortCritical, result.Effort)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "cannot transform unparsed source")
}

func TestTransform_HookExtraction(t *testing.T) {
	def := definition()
	def.BusinessLogic = []domain.BusinessLogicDefinition{
		{Name: "handleSubmit", Complexity: 2},
		{Name: "validate", Complexity: 1},
	}
	tr := NewTransformer(domain.TargetWeb)
	parse := &domain.ParseResult{Success: true, StructuralComplexity: 6}

	result := tr.Transform(def, nil, parse, nil)

	require.Len(t, result.Hooks, 2)
	assert.Equal(t, "useSubmit", result.Hooks[0].Name)
	assert.Equal(t, "handleSubmit", result.Hooks[0].Origin)
	assert.Equal(t, "useValidate", result.Hooks[1].Name)
	assert.Contains(t, result.Hooks[0].Body, "export function useSubmit()")

	assert.Contains(t, result.Imports, `import { useSubmit } from "./hooks/useSubmit";`)
	assert.Contains(t, result.Body, "const submit = useSubmit();")

	// 6 - 2 - 1
	assert.Equal(t, 3, result.Metrics.ComplexityAfter)
}

func TestTransform_CarriesSourceLogicAndMarkup(t *testing.T) {
	source := `const Form = ({ label }: FormProps) => {
  const handleSubmit = () => {
    if (!label) {
      return;
    }
    submit(label);
  };
  return <button onClick={handleSubmit}>{label}</button>;
};`
	def := &domain.ComponentDefinition{
		ID:       "src/Form.tsx#Form",
		Name:     "Form",
		FilePath: "src/Form.tsx",
		Kind:     domain.KindFunctional,
		Props: []domain.PropDefinition{
			{Name: "label", Type: "string", Required: true},
		},
		BusinessLogic: []domain.BusinessLogicDefinition{
			{Name: "handleSubmit", Complexity: 2},
		},
		Location: domain.SourceLocation{StartLine: 1, EndLine: 9},
	}
	tr := NewTransformer(domain.TargetWeb)
	parse := &domain.ParseResult{Success: true, StructuralComplexity: 4}

	result := tr.Transform(def, []byte(source), parse, nil)

	require.True(t, result.Success)
	require.Len(t, result.Hooks, 1)
	hook := result.Hooks[0]
	assert.Contains(t, hook.Body, "submit(label);", "original logic is carried into the hook")
	assert.Contains(t, hook.Body, "return { handleSubmit };")
	assert.NotContains(t, hook.Body, "TODO")

	assert.Contains(t, result.Body, "<button onClick={handleSubmit}>{label}</button>",
		"original markup is carried into the component body")
	assert.NotContains(t, result.Body, "TODO: port markup")
}

func TestTransform_ClassComponentWarning(t *testing.T) {
	def := definition()
	def.Kind = domain.KindClass
	tr := NewTransformer(domain.TargetWeb)

	result := tr.Transform(def, nil, nil, nil)

	require.True(t, result.Success)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "class component converted")
}

func TestTransform_ExternalImportsGrouped(t *testing.T) {
	def := definition()
	def.Dependencies = []domain.ComponentDependency{
		{Name: "React", Kind: domain.DependencyExternal, ImportPath: "react"},
		{Name: "sortBy", Kind: domain.DependencyExternal, ImportPath: "lodash"},
		{Name: "uniq", Kind: domain.DependencyExternal, ImportPath: "lodash"},
		{Name: "Card", Kind: domain.DependencyInternal, ImportPath: "./Card"},
	}
	tr := NewTransformer(domain.TargetWeb)

	result := tr.Transform(def, nil, nil, nil)

	assert.Contains(t, result.Imports, `import { sortBy, uniq } from "lodash";`)
	for _, imp := range result.Imports {
		assert.NotContains(t, imp, "./Card", "internal imports are not carried over")
	}
}

func TestHookName(t *testing.T) {
	assert.Equal(t, "useSubmit", hookName("handleSubmit"))
	assert.Equal(t, "useClick", hookName("onClick"))
	assert.Equal(t, "useValidate", hookName("validate"))
}

func TestCompatibility(t *testing.T) {
	def := &domain.ComponentDefinition{
		Complexity: domain.ComplexityModerate,
		Patterns:   []string{domain.PatternContextProvider},
	}
	deps := []*domain.DependencyDetail{{TargetKind: domain.DependencyExternal}}
	// 100 - 10 - 15 - 5
	assert.Equal(t, 70, compatibility(def, deps))
}

func TestClassifyEffort(t *testing.T) {
	assert.Equal(t, domain.MigrationEffortLow, classifyEffort(&domain.ComponentDefinition{Complexity: domain.ComplexitySimple}))
	assert.Equal(t, domain.MigrationEffortMedium, classifyEffort(&domain.ComponentDefinition{Complexity: domain.ComplexityModerate}))
	assert.Equal(t, domain.MigrationEffortHigh, classifyEffort(&domain.ComponentDefinition{Complexity: domain.ComplexityComplex}))
	assert.Equal(t, domain.MigrationEffortCritical, classifyEffort(&domain.ComponentDefinition{Complexity: domain.ComplexityCritical}))
}
