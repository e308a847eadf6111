// Package analyzer computes structural metrics and inter-component
// dependency information over discovered components.
package analyzer

import (
	"strings"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/parser"
)

// StructuralComplexity computes the linear branching metric for a subtree:
// seeded at 1, plus one for every conditional branch, loop, case arm,
// exception handler, ternary, and short-circuit logical operator.
func StructuralComplexity(ast *parser.Node) int {
	complexity := 1
	if ast == nil {
		return complexity
	}
	ast.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindIf,
			parser.KindFor, parser.KindForIn, parser.KindWhile, parser.KindDoWhile,
			parser.KindCatch,
			parser.KindConditional,
			parser.KindLogical:
			complexity++
		case parser.KindSwitchCase:
			if n.Raw == "case" {
				complexity++
			}
		}
		return true
	})
	return complexity
}

// ExtractDocumentation returns the leading block doc comment of a file, with
// comment markers stripped
func ExtractDocumentation(ast *parser.Node) string {
	if ast == nil {
		return ""
	}
	for _, child := range ast.Children {
		if child.Kind != parser.KindComment {
			continue
		}
		if strings.HasPrefix(child.Raw, "/**") {
			return cleanDocComment(child.Raw)
		}
		continue
	}
	return ""
}

func cleanDocComment(raw string) string {
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimSuffix(raw, "*/")
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// ParseComponent produces the structural parse result for one component
func ParseComponent(def *domain.ComponentDefinition, ast *parser.Node, parseErr error) *domain.ParseResult {
	if parseErr != nil {
		return &domain.ParseResult{
			ComponentID: def.ID,
			Success:     false,
			Error:       parseErr.Error(),
		}
	}
	return &domain.ParseResult{
		ComponentID:          def.ID,
		Success:              true,
		StructuralComplexity: StructuralComplexity(ast),
		Documentation:        ExtractDocumentation(ast),
	}
}
