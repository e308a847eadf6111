package discovery

import (
	"strings"

	"github.com/uplift-tools/uplift/domain"
	"github.com/uplift-tools/uplift/internal/parser"
)

// extractComponents finds every component declared at the top level of a
// parsed file and builds its definition
func extractComponents(rel string, source []byte, ast *parser.Node) []*domain.ComponentDefinition {
	var defs []*domain.ComponentDefinition
	imports := collectImports(ast)
	interfaces := collectInterfaces(ast)
	docs := collectDocLines(ast)

	for _, decl := range topLevelDeclarations(ast) {
		def := classify(rel, decl.node, decl.name)
		if def == nil {
			continue
		}
		def.Dependencies = imports
		def.Props = extractProps(decl.node, def.Name, interfaces)
		def.BusinessLogic = extractBusinessLogic(decl.node)
		def.Patterns = detectPatterns(decl.node, def)
		def.Complexity = classifyComplexity(def, decl.node)
		def.Metadata.HasDocumentation = docs[decl.node.Location.StartLine]
		def.Metadata.BundleSize = int64(len(source))
		defs = append(defs, def)
	}
	return defs
}

type declaration struct {
	name string
	node *parser.Node
}

// topLevelDeclarations lists named declarations directly under the program,
// unwrapping export statements and variable declarations
func topLevelDeclarations(ast *parser.Node) []declaration {
	var decls []declaration
	if ast == nil {
		return nil
	}
	add := func(n *parser.Node) {
		if n == nil {
			return
		}
		switch n.Kind {
		case parser.KindFunctionDecl, parser.KindClassDecl:
			if n.Name != "" {
				decls = append(decls, declaration{name: n.Name, node: n})
			}
		case parser.KindVariableDecl:
			for _, d := range n.Children {
				if d.Kind != parser.KindDeclarator || d.Name == "" {
					continue
				}
				value := d.Field("value")
				if value == nil {
					continue
				}
				switch value.Kind {
				case parser.KindArrowFunction, parser.KindFunctionExpr, parser.KindCall:
					decls = append(decls, declaration{name: d.Name, node: value})
				}
			}
		}
	}
	for _, child := range ast.Children {
		if child.Kind == parser.KindExport {
			add(child.Field("value"))
			continue
		}
		add(child)
	}
	return decls
}

// classify determines whether a declaration is a component and of what kind
func classify(rel string, node *parser.Node, name string) *domain.ComponentDefinition {
	var kind domain.ComponentKind
	switch {
	case strings.HasPrefix(name, "use") && len(name) > 3 && isUpper(name[3]):
		kind = domain.KindHook
	case node.Kind == parser.KindClassDecl:
		if !extendsComponent(node) {
			return nil
		}
		kind = domain.KindClass
	case node.Kind == parser.KindCall:
		// const X = withRouter(connect(...)(Y)) style wrappers
		if !isUpper(name[0]) || !looksLikeHOCWrapper(node) {
			return nil
		}
		kind = domain.KindHigherOrder
	default:
		if !isUpper(name[0]) || !rendersJSX(node) {
			return nil
		}
		kind = domain.KindFunctional
	}

	return &domain.ComponentDefinition{
		ID:       rel + "#" + name,
		Name:     name,
		FilePath: rel,
		Location: domain.SourceLocation{
			FilePath:  rel,
			StartLine: node.Location.StartLine,
			EndLine:   node.Location.EndLine,
			StartCol:  node.Location.StartCol,
			EndCol:    node.Location.EndCol,
		},
		Kind: kind,
	}
}

func extendsComponent(class *parser.Node) bool {
	heritage := class.Raw
	return strings.Contains(heritage, "Component") || strings.Contains(heritage, "PureComponent")
}

func looksLikeHOCWrapper(call *parser.Node) bool {
	name := call.Name
	return strings.HasPrefix(name, "with") || name == "memo" || name == "forwardRef" ||
		name == "connect" || strings.HasSuffix(call.Raw, ")")
}

// rendersJSX reports whether a function body produces JSX anywhere
func rendersJSX(fn *parser.Node) bool {
	found := false
	fn.Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindJSXElement || n.Kind == parser.KindJSXFragment {
			found = true
			return false
		}
		return !found
	})
	return found
}

// collectImports converts the file's import statements into component
// dependencies
func collectImports(ast *parser.Node) []domain.ComponentDependency {
	var deps []domain.ComponentDependency
	ast.Walk(func(n *parser.Node) bool {
		if n.Kind != parser.KindImport {
			return n.Kind == parser.KindProgram
		}
		source := importSource(n)
		if source == "" {
			return false
		}
		kind := domain.DependencyExternal
		if strings.HasPrefix(source, ".") {
			kind = domain.DependencyInternal
		}
		if len(n.Children) == 0 {
			deps = append(deps, domain.ComponentDependency{Name: source, Kind: kind, ImportPath: source})
			return false
		}
		for _, spec := range n.Children {
			if spec.Kind != parser.KindImportSpecifier {
				continue
			}
			deps = append(deps, domain.ComponentDependency{
				Name:       spec.Name,
				Kind:       kind,
				ImportPath: source,
			})
		}
		return false
	})
	return deps
}

func importSource(imp *parser.Node) string {
	src := imp.Field("source")
	if src == nil {
		return ""
	}
	return strings.Trim(src.Raw, "`'\"")
}

// collectInterfaces maps interface name to its property signatures, used for
// typed prop extraction
func collectInterfaces(ast *parser.Node) map[string][]*parser.Node {
	out := make(map[string][]*parser.Node)
	ast.Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindInterface && n.Name != "" {
			var sigs []*parser.Node
			for _, c := range n.Children {
				if c.Kind == parser.KindPropertySig {
					sigs = append(sigs, c)
				}
			}
			out[n.Name] = sigs
			return false
		}
		return true
	})
	return out
}

// extractProps derives prop definitions from a Props interface when one
// exists, falling back to the destructured first parameter
func extractProps(node *parser.Node, name string, interfaces map[string][]*parser.Node) []domain.PropDefinition {
	for _, candidate := range []string{name + "Props", "Props"} {
		if sigs, ok := interfaces[candidate]; ok {
			props := make([]domain.PropDefinition, 0, len(sigs))
			for _, sig := range sigs {
				props = append(props, domain.PropDefinition{
					Name:     sig.Name,
					Type:     propType(sig),
					Required: !strings.Contains(sig.Raw, "?:"),
				})
			}
			return props
		}
	}
	return destructuredParams(node)
}

func propType(sig *parser.Node) string {
	if t := sig.Field("type"); t != nil {
		return strings.TrimPrefix(strings.TrimSpace(typeText(t)), ": ")
	}
	return ""
}

func typeText(t *parser.Node) string {
	if t.Raw != "" {
		return strings.TrimPrefix(t.Raw, ":")
	}
	if len(t.Children) > 0 {
		return typeText(t.Children[0])
	}
	return ""
}

// destructuredParams reads `{ a, b = 1, onClick }` style parameters
func destructuredParams(fn *parser.Node) []domain.PropDefinition {
	var props []domain.PropDefinition
	for _, param := range fn.Children {
		if param.Kind != parser.KindObject && param.Raw != "object_pattern" {
			continue
		}
		param.Walk(func(n *parser.Node) bool {
			switch n.Kind {
			case parser.KindIdentifier:
				props = append(props, domain.PropDefinition{Name: n.Name, Required: true})
				return false
			case parser.KindProperty:
				props = append(props, domain.PropDefinition{Name: n.Name, Required: n.Field("value") == nil})
				return false
			}
			return true
		})
		break
	}
	return props
}

// extractBusinessLogic finds embedded handlers and logic blocks: nested
// functions that do not render JSX
func extractBusinessLogic(node *parser.Node) []domain.BusinessLogicDefinition {
	var logic []domain.BusinessLogicDefinition
	node.Walk(func(n *parser.Node) bool {
		if n == node {
			return true
		}
		if n.Kind == parser.KindDeclarator && n.Name != "" {
			if value := n.Field("value"); value != nil && value.IsFunction() && !rendersJSX(value) {
				logic = append(logic, domain.BusinessLogicDefinition{
					Name:       n.Name,
					Complexity: countBranches(value),
				})
				return false
			}
		}
		if n.Kind == parser.KindFunctionDecl && n.Name != "" && !rendersJSX(n) {
			logic = append(logic, domain.BusinessLogicDefinition{
				Name:       n.Name,
				Complexity: countBranches(n),
			})
			return false
		}
		return true
	})
	return logic
}

// countBranches is a cheap per-block complexity: 1 plus branch constructs
func countBranches(fn *parser.Node) int {
	count := 1
	fn.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindIf, parser.KindFor, parser.KindForIn, parser.KindWhile,
			parser.KindDoWhile, parser.KindConditional, parser.KindLogical:
			count++
		}
		return true
	})
	return count
}

// detectPatterns tags the component with structural usage patterns
func detectPatterns(node *parser.Node, def *domain.ComponentDefinition) []string {
	var tags []string
	seen := make(map[string]bool)
	tag := func(t string) {
		if !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}

	hasState := false
	hasEffect := false
	node.Walk(func(n *parser.Node) bool {
		switch n.Kind {
		case parser.KindCall:
			switch n.Name {
			case "useState", "useReducer", "setState":
				hasState = true
			case "useEffect", "useLayoutEffect":
				hasEffect = true
			case "useContext":
				tag(domain.PatternContextConsumer)
			}
		case parser.KindJSXElement:
			if strings.HasSuffix(n.Name, ".Provider") {
				tag(domain.PatternContextProvider)
			}
			if strings.HasSuffix(n.Name, ".Consumer") {
				tag(domain.PatternContextConsumer)
			}
			for _, attr := range n.Children {
				if attr.Kind == parser.KindJSXAttribute && attr.Name == "render" {
					tag(domain.PatternRenderProp)
				}
			}
			// children-as-function: a JSX child that is a lone function
			for _, child := range n.Children {
				if child.Kind == parser.KindJSXExprChild {
					if v := child.Field("value"); v != nil && v.IsFunction() {
						tag(domain.PatternChildrenAsFunction)
					}
				}
			}
		}
		return true
	})

	if hasState {
		tag(domain.PatternStateful)
	}
	if hasEffect {
		tag(domain.PatternEffectful)
	}
	if def.Kind == domain.KindHigherOrder {
		tag(domain.PatternHigherOrderUsage)
	}
	if !hasState && !hasEffect && len(def.BusinessLogic) == 0 {
		tag(domain.PatternPresentational)
	}
	return tags
}

// classifyComplexity maps structural signals to the coarse complexity level
func classifyComplexity(def *domain.ComponentDefinition, node *parser.Node) domain.ComplexityLevel {
	score := countBranches(node)
	score += len(def.BusinessLogic) * 2
	score += len(def.Dependencies) / 3
	if def.Kind == domain.KindClass {
		score += 2
	}
	switch {
	case score <= 4:
		return domain.ComplexitySimple
	case score <= 10:
		return domain.ComplexityModerate
	case score <= 20:
		return domain.ComplexityComplex
	default:
		return domain.ComplexityCritical
	}
}

// collectDocLines records which lines are immediately preceded by a block
// doc comment
func collectDocLines(ast *parser.Node) map[int]bool {
	out := make(map[int]bool)
	ast.Walk(func(n *parser.Node) bool {
		if n.Kind == parser.KindComment && strings.HasPrefix(n.Raw, "/**") {
			// The comment documents whatever starts on the next line
			out[n.Location.EndLine+1] = true
		}
		return true
	})
	return out
}
