package parser

import "fmt"

// NodeKind tags an AST node. Traversal dispatches on the tag through the
// fieldOrder table, never by probing arbitrary fields.
type NodeKind string

const (
	KindProgram NodeKind = "Program"

	// Declarations
	KindFunctionDecl  NodeKind = "FunctionDeclaration"
	KindFunctionExpr  NodeKind = "FunctionExpression"
	KindArrowFunction NodeKind = "ArrowFunction"
	KindMethod        NodeKind = "MethodDefinition"
	KindClassDecl     NodeKind = "ClassDeclaration"
	KindVariableDecl  NodeKind = "VariableDeclaration"
	KindDeclarator    NodeKind = "VariableDeclarator"

	// Control flow
	KindIf         NodeKind = "IfStatement"
	KindSwitch     NodeKind = "SwitchStatement"
	KindSwitchCase NodeKind = "SwitchCase"
	KindFor        NodeKind = "ForStatement"
	KindForIn      NodeKind = "ForInStatement"
	KindWhile      NodeKind = "WhileStatement"
	KindDoWhile    NodeKind = "DoWhileStatement"
	KindTry        NodeKind = "TryStatement"
	KindCatch      NodeKind = "CatchClause"
	KindReturn     NodeKind = "ReturnStatement"
	KindThrow      NodeKind = "ThrowStatement"
	KindBlock      NodeKind = "Block"
	KindExprStmt   NodeKind = "ExpressionStatement"
	KindOtherStmt  NodeKind = "Statement"

	// Expressions
	KindCall        NodeKind = "CallExpression"
	KindMember      NodeKind = "MemberExpression"
	KindBinary      NodeKind = "BinaryExpression"
	KindLogical     NodeKind = "LogicalExpression"
	KindConditional NodeKind = "ConditionalExpression"
	KindAssignment  NodeKind = "AssignmentExpression"
	KindIdentifier  NodeKind = "Identifier"
	KindString      NodeKind = "StringLiteral"
	KindTemplate    NodeKind = "TemplateLiteral"
	KindNumber      NodeKind = "NumberLiteral"
	KindObject      NodeKind = "ObjectExpression"
	KindProperty    NodeKind = "Property"
	KindArray       NodeKind = "ArrayExpression"
	KindSpread      NodeKind = "SpreadElement"
	KindOtherExpr   NodeKind = "Expression"

	// Modules
	KindImport          NodeKind = "ImportDeclaration"
	KindImportSpecifier NodeKind = "ImportSpecifier"
	KindExport          NodeKind = "ExportDeclaration"

	// JSX
	KindJSXElement   NodeKind = "JSXElement"
	KindJSXFragment  NodeKind = "JSXFragment"
	KindJSXAttribute NodeKind = "JSXAttribute"
	KindJSXExprChild NodeKind = "JSXExpression"

	// TypeScript
	KindInterface      NodeKind = "InterfaceDeclaration"
	KindTypeAlias      NodeKind = "TypeAliasDeclaration"
	KindTypeAnnotation NodeKind = "TypeAnnotation"
	KindPropertySig    NodeKind = "PropertySignature"

	KindComment NodeKind = "Comment"
)

// Location is a node's position in the source
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String renders file:line:col
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Node is a tagged AST node. Semantic slots (condition, body, callee, ...)
// live in Fields keyed by role; ordered children live in Children.
type Node struct {
	Kind     NodeKind
	Name     string // declared name, binding, or attribute name
	Raw      string // literal/source text where relevant
	Operator string // binary/logical/assignment operator
	Location Location

	// Fields holds role-named subtrees: "condition", "consequence",
	// "alternative", "body", "callee", "object", "property", "left",
	// "right", "source", "init", "value", "type", "handler", "finalizer".
	Fields map[string]*Node

	// Children holds ordered subtrees without a distinguished role
	// (statement lists, arguments, specifiers, cases, attributes).
	Children []*Node
}

// NewNode creates a node of the given kind
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// Field returns the named semantic slot, or nil
func (n *Node) Field(role string) *Node {
	if n == nil || n.Fields == nil {
		return nil
	}
	return n.Fields[role]
}

// SetField assigns a semantic slot, ignoring nil values
func (n *Node) SetField(role string, child *Node) {
	if child == nil {
		return
	}
	if n.Fields == nil {
		n.Fields = make(map[string]*Node, 4)
	}
	n.Fields[role] = child
}

// Append adds ordered children, skipping nils
func (n *Node) Append(children ...*Node) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}

// fieldOrder fixes the traversal order of semantic slots per node kind.
// Kinds absent from the table traverse Children only.
var fieldOrder = map[NodeKind][]string{
	KindFunctionDecl:  {"body"},
	KindFunctionExpr:  {"body"},
	KindArrowFunction: {"body"},
	KindMethod:        {"body"},
	KindClassDecl:     {"body"},
	KindDeclarator:    {"type", "value"},
	KindIf:            {"condition", "consequence", "alternative"},
	KindSwitch:        {"condition", "body"},
	KindFor:           {"init", "condition", "body"},
	KindForIn:         {"left", "right", "body"},
	KindWhile:         {"condition", "body"},
	KindDoWhile:       {"body", "condition"},
	KindTry:           {"body", "handler", "finalizer"},
	KindCatch:         {"body"},
	KindReturn:        {"value"},
	KindThrow:         {"value"},
	KindExprStmt:      {"value"},
	KindCall:          {"callee"},
	KindMember:        {"object", "property"},
	KindBinary:        {"left", "right"},
	KindLogical:       {"left", "right"},
	KindConditional:   {"condition", "consequence", "alternative"},
	KindAssignment:    {"left", "right"},
	KindProperty:      {"value"},
	KindSpread:        {"value"},
	KindImport:        {"source"},
	KindExport:        {"value", "source"},
	KindJSXAttribute:  {"value"},
	KindJSXExprChild:  {"value"},
	KindPropertySig:   {"type"},
}

// childrenOf returns a node's subtrees in traversal order: semantic slots
// per the dispatch table first, then ordered children.
func childrenOf(n *Node) []*Node {
	if n == nil {
		return nil
	}
	roles := fieldOrder[n.Kind]
	out := make([]*Node, 0, len(roles)+len(n.Children))
	for _, role := range roles {
		if c := n.Field(role); c != nil {
			out = append(out, c)
		}
	}
	return append(out, n.Children...)
}

// Visitor is called for every node during a walk. Returning false prunes
// the node's subtree.
type Visitor func(*Node) bool

// Walk traverses the tree depth-first using the dispatch table
func (n *Node) Walk(visit Visitor) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range childrenOf(n) {
		c.Walk(visit)
	}
}

// IsFunction reports whether the node introduces a function scope
func (n *Node) IsFunction() bool {
	switch n.Kind {
	case KindFunctionDecl, KindFunctionExpr, KindArrowFunction, KindMethod:
		return true
	}
	return false
}

// String renders the node for diagnostics
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Kind, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Kind, n.Location)
}
