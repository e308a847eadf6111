package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// Parser wraps a tree-sitter parser for JavaScript or TSX sources
type Parser struct {
	parser *sitter.Parser
	isTS   bool
}

// NewParser creates a JavaScript/JSX parser
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	return &Parser{parser: p}
}

// NewTypeScriptParser creates a TSX parser (also handles plain TS)
func NewTypeScriptParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(tsx.GetLanguage())
	return &Parser{parser: p, isTS: true}
}

// ParseFile parses source text into the tagged AST
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("parse %s: no root node", filename)
	}
	if root.HasError() {
		return nil, fmt.Errorf("parse %s: syntax error", filename)
	}

	return NewBuilder(filename, source).Build(root), nil
}

// ParseString parses source from a string, for tests and tooling
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.ParseFile(context.Background(), "<input>", []byte(source))
}

// IsTypeScript reports the configured grammar
func (p *Parser) IsTypeScript() bool { return p.isTS }

// Close frees the underlying parser
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// IsTypeScriptFile reports whether the filename selects the TSX grammar
func IsTypeScriptFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return true
	}
	return false
}

// ParseForFile parses with the grammar selected by the file extension
func ParseForFile(ctx context.Context, filename string, source []byte) (*Node, error) {
	var p *Parser
	if IsTypeScriptFile(filename) {
		p = NewTypeScriptParser()
	} else {
		p = NewParser()
	}
	defer p.Close()
	return p.ParseFile(ctx, filename, source)
}
