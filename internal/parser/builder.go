package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// builderFunc converts one tree-sitter CST node into an AST node
type builderFunc func(b *Builder, ts *sitter.Node) *Node

// Builder converts a tree-sitter CST into the tagged AST. Conversion is
// table-driven: each grammar node type maps to one builderFunc, and unknown
// statement/expression types collapse into generic wrappers that still carry
// their named children.
type Builder struct {
	filename string
	source   []byte
}

// NewBuilder creates a Builder for one file
func NewBuilder(filename string, source []byte) *Builder {
	return &Builder{filename: filename, source: source}
}

// Build converts the CST root into an AST
func (b *Builder) Build(root *sitter.Node) *Node {
	return b.convert(root)
}

var conversions map[string]builderFunc

func init() {
	conversions = map[string]builderFunc{
		"program": buildContainer(KindProgram),

		"function_declaration":           buildFunction(KindFunctionDecl),
		"generator_function_declaration": buildFunction(KindFunctionDecl),
		"function_expression":            buildFunction(KindFunctionExpr),
		"function":                       buildFunction(KindFunctionExpr),
		"arrow_function":                 buildFunction(KindArrowFunction),
		"method_definition":              buildFunction(KindMethod),
		"class_declaration":              (*Builder).buildClass,
		"class":                          (*Builder).buildClass,

		"variable_declaration": buildContainer(KindVariableDecl),
		"lexical_declaration":  buildContainer(KindVariableDecl),
		"variable_declarator":  (*Builder).buildDeclarator,

		"if_statement":     (*Builder).buildIf,
		"switch_statement": (*Builder).buildSwitch,
		"switch_case":      (*Builder).buildSwitchCase,
		"switch_default":   (*Builder).buildSwitchDefault,
		"for_statement":    (*Builder).buildFor,
		"for_in_statement": (*Builder).buildForIn,
		"while_statement":  (*Builder).buildWhile,
		"do_statement":     (*Builder).buildDoWhile,
		"try_statement":    (*Builder).buildTry,
		"catch_clause":     (*Builder).buildCatch,
		"return_statement": buildValueStmt(KindReturn),
		"throw_statement":  buildValueStmt(KindThrow),
		"statement_block":  buildContainer(KindBlock),

		"expression_statement":            (*Builder).buildExprStmt,
		"call_expression":                 (*Builder).buildCall,
		"member_expression":               (*Builder).buildMember,
		"binary_expression":               (*Builder).buildBinary,
		"ternary_expression":              (*Builder).buildTernary,
		"assignment_expression":           (*Builder).buildAssignment,
		"augmented_assignment_expression": (*Builder).buildAssignment,

		"identifier":                    (*Builder).buildIdentifier,
		"property_identifier":           (*Builder).buildIdentifier,
		"shorthand_property_identifier": (*Builder).buildIdentifier,
		"string":                        buildLiteral(KindString),
		"template_string":               buildLiteral(KindTemplate),
		"number":                        buildLiteral(KindNumber),
		"object":                        buildContainer(KindObject),
		"pair":                          (*Builder).buildPair,
		"array":                         buildContainer(KindArray),
		"spread_element":                (*Builder).buildSpread,

		"import_statement": (*Builder).buildImport,
		"import_specifier": (*Builder).buildImportSpecifier,
		"export_statement": (*Builder).buildExport,

		"jsx_element":              (*Builder).buildJSXElement,
		"jsx_self_closing_element": (*Builder).buildJSXElement,
		"jsx_fragment":             buildContainer(KindJSXFragment),
		"jsx_attribute":            (*Builder).buildJSXAttribute,
		"jsx_expression":           (*Builder).buildJSXExpression,

		"interface_declaration":  buildNamedContainer(KindInterface),
		"type_alias_declaration": buildNamedContainer(KindTypeAlias),
		"type_annotation":        buildContainer(KindTypeAnnotation),
		"property_signature":     (*Builder).buildPropertySig,

		"comment": (*Builder).buildComment,
	}
}

// convert dispatches on the CST node type
func (b *Builder) convert(ts *sitter.Node) *Node {
	if ts == nil {
		return nil
	}
	if ts.Type() == "parenthesized_expression" && ts.NamedChildCount() > 0 {
		return b.convert(ts.NamedChild(0))
	}
	if fn, ok := conversions[ts.Type()]; ok {
		return fn(b, ts)
	}
	return b.buildGeneric(ts)
}

func (b *Builder) locate(ts *sitter.Node) Location {
	return Location{
		File:      b.filename,
		StartLine: int(ts.StartPoint().Row) + 1,
		StartCol:  int(ts.StartPoint().Column),
		EndLine:   int(ts.EndPoint().Row) + 1,
		EndCol:    int(ts.EndPoint().Column),
	}
}

func (b *Builder) text(ts *sitter.Node) string {
	if ts == nil {
		return ""
	}
	return ts.Content(b.source)
}

func (b *Builder) node(kind NodeKind, ts *sitter.Node) *Node {
	n := NewNode(kind)
	n.Location = b.locate(ts)
	return n
}

// convertNamedChildren converts all named children into ordered children
func (b *Builder) convertNamedChildren(n *Node, ts *sitter.Node) {
	for i := 0; i < int(ts.NamedChildCount()); i++ {
		n.Append(b.convert(ts.NamedChild(i)))
	}
}

func (b *Builder) convertField(ts *sitter.Node, field string) *Node {
	return b.convert(ts.ChildByFieldName(field))
}

// buildContainer returns a builderFunc producing a kind whose named children
// all become ordered children
func buildContainer(kind NodeKind) builderFunc {
	return func(b *Builder, ts *sitter.Node) *Node {
		n := b.node(kind, ts)
		b.convertNamedChildren(n, ts)
		return n
	}
}

// buildNamedContainer is buildContainer plus the "name" field
func buildNamedContainer(kind NodeKind) builderFunc {
	return func(b *Builder, ts *sitter.Node) *Node {
		n := b.node(kind, ts)
		n.Name = b.text(ts.ChildByFieldName("name"))
		if body := ts.ChildByFieldName("body"); body != nil {
			b.convertNamedChildren(n, body)
		} else {
			b.convertNamedChildren(n, ts)
		}
		return n
	}
}

func buildFunction(kind NodeKind) builderFunc {
	return func(b *Builder, ts *sitter.Node) *Node {
		n := b.node(kind, ts)
		n.Name = b.text(ts.ChildByFieldName("name"))
		if params := ts.ChildByFieldName("parameters"); params != nil {
			for i := 0; i < int(params.NamedChildCount()); i++ {
				n.Append(b.convert(params.NamedChild(i)))
			}
		} else if p := ts.ChildByFieldName("parameter"); p != nil {
			n.Append(b.convert(p))
		}
		n.SetField("body", b.convertField(ts, "body"))
		return n
	}
}

func (b *Builder) buildClass(ts *sitter.Node) *Node {
	n := b.node(KindClassDecl, ts)
	n.Name = b.text(ts.ChildByFieldName("name"))
	// Raw keeps the heritage clause so callers can see what the class extends
	for i := 0; i < int(ts.NamedChildCount()); i++ {
		child := ts.NamedChild(i)
		if child.Type() == "class_heritage" {
			n.Raw = strings.TrimSpace(strings.TrimPrefix(b.text(child), "extends"))
		}
	}
	n.SetField("body", b.convertField(ts, "body"))
	return n
}

func (b *Builder) buildDeclarator(ts *sitter.Node) *Node {
	n := b.node(KindDeclarator, ts)
	if name := ts.ChildByFieldName("name"); name != nil {
		n.Name = b.text(name)
	}
	n.SetField("type", b.convertField(ts, "type"))
	n.SetField("value", b.convertField(ts, "value"))
	return n
}

func (b *Builder) buildIf(ts *sitter.Node) *Node {
	n := b.node(KindIf, ts)
	n.SetField("condition", b.convertField(ts, "condition"))
	n.SetField("consequence", b.convertField(ts, "consequence"))
	if alt := ts.ChildByFieldName("alternative"); alt != nil {
		// else_clause wraps the actual statement
		if alt.Type() == "else_clause" && alt.NamedChildCount() > 0 {
			n.SetField("alternative", b.convert(alt.NamedChild(0)))
		} else {
			n.SetField("alternative", b.convert(alt))
		}
	}
	return n
}

func (b *Builder) buildSwitch(ts *sitter.Node) *Node {
	n := b.node(KindSwitch, ts)
	n.SetField("condition", b.convertField(ts, "value"))
	n.SetField("body", b.convertField(ts, "body"))
	return n
}

func (b *Builder) buildSwitchCase(ts *sitter.Node) *Node {
	n := b.node(KindSwitchCase, ts)
	n.Raw = "case"
	b.convertNamedChildren(n, ts)
	return n
}

func (b *Builder) buildSwitchDefault(ts *sitter.Node) *Node {
	n := b.node(KindSwitchCase, ts)
	n.Raw = "default"
	b.convertNamedChildren(n, ts)
	return n
}

func (b *Builder) buildFor(ts *sitter.Node) *Node {
	n := b.node(KindFor, ts)
	n.SetField("init", b.convertField(ts, "initializer"))
	n.SetField("condition", b.convertField(ts, "condition"))
	n.SetField("body", b.convertField(ts, "body"))
	return n
}

func (b *Builder) buildForIn(ts *sitter.Node) *Node {
	n := b.node(KindForIn, ts)
	n.SetField("left", b.convertField(ts, "left"))
	n.SetField("right", b.convertField(ts, "right"))
	n.SetField("body", b.convertField(ts, "body"))
	return n
}

func (b *Builder) buildWhile(ts *sitter.Node) *Node {
	n := b.node(KindWhile, ts)
	n.SetField("condition", b.convertField(ts, "condition"))
	n.SetField("body", b.convertField(ts, "body"))
	return n
}

func (b *Builder) buildDoWhile(ts *sitter.Node) *Node {
	n := b.node(KindDoWhile, ts)
	n.SetField("body", b.convertField(ts, "body"))
	n.SetField("condition", b.convertField(ts, "condition"))
	return n
}

func (b *Builder) buildTry(ts *sitter.Node) *Node {
	n := b.node(KindTry, ts)
	n.SetField("body", b.convertField(ts, "body"))
	n.SetField("handler", b.convertField(ts, "handler"))
	if fin := ts.ChildByFieldName("finalizer"); fin != nil {
		n.SetField("finalizer", b.convert(fin))
	}
	return n
}

func (b *Builder) buildCatch(ts *sitter.Node) *Node {
	n := b.node(KindCatch, ts)
	if p := ts.ChildByFieldName("parameter"); p != nil {
		n.Name = b.text(p)
	}
	n.SetField("body", b.convertField(ts, "body"))
	return n
}

func buildValueStmt(kind NodeKind) builderFunc {
	return func(b *Builder, ts *sitter.Node) *Node {
		n := b.node(kind, ts)
		if ts.NamedChildCount() > 0 {
			n.SetField("value", b.convert(ts.NamedChild(0)))
		}
		return n
	}
}

func (b *Builder) buildExprStmt(ts *sitter.Node) *Node {
	n := b.node(KindExprStmt, ts)
	if ts.NamedChildCount() > 0 {
		n.SetField("value", b.convert(ts.NamedChild(0)))
	}
	return n
}

func (b *Builder) buildCall(ts *sitter.Node) *Node {
	n := b.node(KindCall, ts)
	n.SetField("callee", b.convertField(ts, "function"))
	if callee := n.Field("callee"); callee != nil {
		n.Name = callee.Name
	}
	if args := ts.ChildByFieldName("arguments"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			n.Append(b.convert(args.NamedChild(i)))
		}
	}
	return n
}

func (b *Builder) buildMember(ts *sitter.Node) *Node {
	n := b.node(KindMember, ts)
	n.SetField("object", b.convertField(ts, "object"))
	n.SetField("property", b.convertField(ts, "property"))
	if prop := n.Field("property"); prop != nil {
		n.Name = prop.Name
	}
	n.Raw = b.text(ts)
	return n
}

var logicalOperators = map[string]bool{"&&": true, "||": true, "??": true}

func (b *Builder) buildBinary(ts *sitter.Node) *Node {
	op := b.text(ts.ChildByFieldName("operator"))
	kind := KindBinary
	if logicalOperators[op] {
		kind = KindLogical
	}
	n := b.node(kind, ts)
	n.Operator = op
	n.SetField("left", b.convertField(ts, "left"))
	n.SetField("right", b.convertField(ts, "right"))
	return n
}

func (b *Builder) buildTernary(ts *sitter.Node) *Node {
	n := b.node(KindConditional, ts)
	n.SetField("condition", b.convertField(ts, "condition"))
	n.SetField("consequence", b.convertField(ts, "consequence"))
	n.SetField("alternative", b.convertField(ts, "alternative"))
	return n
}

func (b *Builder) buildAssignment(ts *sitter.Node) *Node {
	n := b.node(KindAssignment, ts)
	n.SetField("left", b.convertField(ts, "left"))
	n.SetField("right", b.convertField(ts, "right"))
	return n
}

func (b *Builder) buildIdentifier(ts *sitter.Node) *Node {
	n := b.node(KindIdentifier, ts)
	n.Name = b.text(ts)
	return n
}

func buildLiteral(kind NodeKind) builderFunc {
	return func(b *Builder, ts *sitter.Node) *Node {
		n := b.node(kind, ts)
		n.Raw = b.text(ts)
		return n
	}
}

func (b *Builder) buildPair(ts *sitter.Node) *Node {
	n := b.node(KindProperty, ts)
	n.Name = strings.Trim(b.text(ts.ChildByFieldName("key")), `"'`)
	n.SetField("value", b.convertField(ts, "value"))
	return n
}

func (b *Builder) buildSpread(ts *sitter.Node) *Node {
	n := b.node(KindSpread, ts)
	if ts.NamedChildCount() > 0 {
		n.SetField("value", b.convert(ts.NamedChild(0)))
	}
	return n
}

func (b *Builder) buildImport(ts *sitter.Node) *Node {
	n := b.node(KindImport, ts)
	n.SetField("source", b.convertField(ts, "source"))
	// Specifiers hide inside the import_clause
	for i := 0; i < int(ts.NamedChildCount()); i++ {
		child := ts.NamedChild(i)
		if child.Type() != "import_clause" {
			continue
		}
		b.collectImportSpecifiers(n, child)
	}
	return n
}

// collectImportSpecifiers flattens default, namespace, and named specifiers
// into ImportSpecifier children. The Raw field records the specifier form.
func (b *Builder) collectImportSpecifiers(imp *Node, clause *sitter.Node) {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(i)
		switch child.Type() {
		case "identifier":
			spec := b.node(KindImportSpecifier, child)
			spec.Name = b.text(child)
			spec.Raw = "default"
			imp.Append(spec)
		case "namespace_import":
			spec := b.node(KindImportSpecifier, child)
			if child.NamedChildCount() > 0 {
				spec.Name = b.text(child.NamedChild(0))
			}
			spec.Raw = "namespace"
			imp.Append(spec)
		case "named_imports":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				imp.Append(b.convert(child.NamedChild(j)))
			}
		}
	}
}

func (b *Builder) buildImportSpecifier(ts *sitter.Node) *Node {
	n := b.node(KindImportSpecifier, ts)
	n.Raw = "named"
	if alias := ts.ChildByFieldName("alias"); alias != nil {
		n.Name = b.text(alias)
	} else if name := ts.ChildByFieldName("name"); name != nil {
		n.Name = b.text(name)
	} else {
		n.Name = b.text(ts)
	}
	return n
}

func (b *Builder) buildExport(ts *sitter.Node) *Node {
	n := b.node(KindExport, ts)
	n.SetField("source", b.convertField(ts, "source"))
	if decl := ts.ChildByFieldName("declaration"); decl != nil {
		converted := b.convert(decl)
		n.SetField("value", converted)
		if converted != nil {
			n.Name = converted.Name
		}
	}
	if v := ts.ChildByFieldName("value"); v != nil {
		n.SetField("value", b.convert(v))
		n.Raw = "default"
	}
	for i := 0; i < int(ts.NamedChildCount()); i++ {
		child := ts.NamedChild(i)
		if child.Type() == "export_clause" {
			b.convertNamedChildren(n, child)
		}
	}
	return n
}

func (b *Builder) buildJSXElement(ts *sitter.Node) *Node {
	n := b.node(KindJSXElement, ts)
	if ts.Type() == "jsx_self_closing_element" {
		n.Name = b.text(ts.ChildByFieldName("name"))
		for i := 0; i < int(ts.NamedChildCount()); i++ {
			child := ts.NamedChild(i)
			if child.Type() == "jsx_attribute" {
				n.Append(b.convert(child))
			}
		}
		return n
	}
	for i := 0; i < int(ts.NamedChildCount()); i++ {
		child := ts.NamedChild(i)
		switch child.Type() {
		case "jsx_opening_element":
			n.Name = b.text(child.ChildByFieldName("name"))
			for j := 0; j < int(child.NamedChildCount()); j++ {
				attr := child.NamedChild(j)
				if attr.Type() == "jsx_attribute" {
					n.Append(b.convert(attr))
				}
			}
		case "jsx_closing_element":
			// nothing to keep
		default:
			n.Append(b.convert(child))
		}
	}
	return n
}

func (b *Builder) buildJSXAttribute(ts *sitter.Node) *Node {
	n := b.node(KindJSXAttribute, ts)
	if ts.NamedChildCount() > 0 {
		n.Name = b.text(ts.NamedChild(0))
	}
	if ts.NamedChildCount() > 1 {
		n.SetField("value", b.convert(ts.NamedChild(1)))
	}
	return n
}

func (b *Builder) buildJSXExpression(ts *sitter.Node) *Node {
	n := b.node(KindJSXExprChild, ts)
	if ts.NamedChildCount() > 0 {
		n.SetField("value", b.convert(ts.NamedChild(0)))
	}
	return n
}

func (b *Builder) buildPropertySig(ts *sitter.Node) *Node {
	n := b.node(KindPropertySig, ts)
	n.Name = b.text(ts.ChildByFieldName("name"))
	n.SetField("type", b.convertField(ts, "type"))
	n.Raw = b.text(ts)
	return n
}

func (b *Builder) buildComment(ts *sitter.Node) *Node {
	n := b.node(KindComment, ts)
	n.Raw = b.text(ts)
	return n
}

// buildGeneric collapses unmapped grammar types into generic statement or
// expression wrappers so traversal still reaches their subtrees
func (b *Builder) buildGeneric(ts *sitter.Node) *Node {
	kind := KindOtherExpr
	if strings.HasSuffix(ts.Type(), "_statement") || strings.HasSuffix(ts.Type(), "_declaration") {
		kind = KindOtherStmt
	}
	n := b.node(kind, ts)
	n.Raw = ts.Type()
	b.convertNamedChildren(n, ts)
	return n
}
