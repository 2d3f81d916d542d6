package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractTS handles TypeScript-specific node kinds and delegates everything
// else to the shared JS extractor (interfaces and type aliases have no JS
// equivalent, everything else is identical).
func (w *walker) extractTS(node *tree_sitter.Node, kind, scope string) {
	switch kind {
	case "interface_declaration":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindInterface, "")
		}
	case "type_alias_declaration":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindType, "")
		}
	case "enum_declaration":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindEnum, "")
		}
	default:
		w.extractJS(node, kind, scope)
	}
}
