package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractJS handles JavaScript and TSX node kinds. TypeScript shares all of
// these and adds its own on top (see typescript.go).
func (w *walker) extractJS(node *tree_sitter.Node, kind, scope string) {
	switch kind {
	case "function_declaration":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindFunction, scope)
		}
	case "class_declaration":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindClass, "")
		}
	case "method_definition":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindMethod, scope)
		}
	case "lexical_declaration", "variable_declaration":
		w.extractJSVariableDeclaration(node, scope)
	case "import_statement":
		w.extractJSImport(node)
	case "export_statement":
		// Exports may wrap a declaration; children handle extraction.
	case "call_expression":
		w.emitCall(node, scope)
	}
}

// extractJSVariableDeclaration handles `const foo = () => {}` and
// `const FOO = "bar"` style top-level declarations.
func (w *walker) extractJSVariableDeclaration(node *tree_sitter.Node, scope string) {
	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		decl := node.Child(i)
		if decl == nil || decl.Kind() != "variable_declarator" {
			continue
		}
		name, ok := nodeName(decl, w.source)
		value := decl.ChildByFieldName("value")
		if !ok || value == nil {
			continue
		}

		k := KindVariable
		switch value.Kind() {
		case "arrow_function", "function":
			k = KindFunction
		default:
			if isAllCapsConstant(name) {
				k = KindConstant
			}
		}
		w.emitSymbol(node, name, k, scope)
	}
}

func (w *walker) extractJSImport(node *tree_sitter.Node) {
	path, syms := parseJSImport(nodeText(node, w.source))
	if path == "" {
		return
	}
	line, _ := lineRange(node)
	w.out.Imports = append(w.out.Imports, Import{Path: path, Symbols: syms, Line: line})
}
