// Package testutil provides helper functions for testing uplift components
package testutil

import (
	"testing"

	"github.com/uplift-tools/uplift/internal/parser"
)

// CreateTestAST creates a test AST from JavaScript/JSX source code
func CreateTestAST(t *testing.T, source string) *parser.Node {
	t.Helper()
	p := parser.NewParser()
	defer p.Close()

	ast, err := p.ParseString(source)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return ast
}

// CreateTestTSAST creates a test AST from TSX source code
func CreateTestTSAST(t *testing.T, source string) *parser.Node {
	t.Helper()
	p := parser.NewTypeScriptParser()
	defer p.Close()

	ast, err := p.ParseString(source)
	if err != nil {
		t.Fatalf("Failed to parse test code: %v", err)
	}
	return ast
}

// FindFunctionInAST finds a function node by name in the AST
func FindFunctionInAST(ast *parser.Node, name string) *parser.Node {
	var found *parser.Node
	ast.Walk(func(n *parser.Node) bool {
		if n.IsFunction() && n.Name == name {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountNodesOfKind counts nodes of a specific kind in an AST
func CountNodesOfKind(ast *parser.Node, kind parser.NodeKind) int {
	count := 0
	ast.Walk(func(n *parser.Node) bool {
		if n.Kind == kind {
			count++
		}
		return true
	})
	return count
}
