package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func (w *walker) extractPython(node *tree_sitter.Node, kind, scope string) {
	switch kind {
	case "function_definition":
		name, ok := nodeName(node, w.source)
		if !ok {
			return
		}
		k := KindFunction
		parent := ""
		if scope != "" {
			k = KindMethod
			parent = scope
		}
		w.emitSymbol(node, name, k, parent)

	case "class_definition":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindClass, "")
		}

	case "import_statement":
		path := parsePyImport(nodeText(node, w.source))
		if path != "" {
			line, _ := lineRange(node)
			w.out.Imports = append(w.out.Imports, Import{Path: path, Line: line})
		}

	case "import_from_statement":
		path, syms := parsePyFromImport(nodeText(node, w.source))
		line, _ := lineRange(node)
		w.out.Imports = append(w.out.Imports, Import{Path: path, Symbols: syms, Line: line})

	case "call":
		w.emitCall(node, scope)
	}
}
