package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// extractGeneric is the tier-2 extractor used for languages without a
// dedicated extractor (spec.md §4.2): it classifies nodes against three
// plain lists of node kinds rather than a per-language switch. Symbol kind
// is inferred from the node kind's name and from whether it falls inside an
// enclosing scope.
func (w *walker) extractGeneric(node *tree_sitter.Node, kind, scope string, scopeKinds, importKinds, callKinds []string) {
	switch {
	case contains(scopeKinds, kind):
		w.extractGenericScope(node, kind, scope)
	case contains(importKinds, kind):
		w.extractGenericImport(node)
	case contains(callKinds, kind):
		w.emitCall(node, scope)
	}
}

func (w *walker) extractGenericScope(node *tree_sitter.Node, kind, scope string) {
	name, ok := nodeName(node, w.source)
	if !ok {
		return
	}

	switch {
	case strings.Contains(kind, "interface"):
		w.emitSymbol(node, name, KindInterface, "")
	case strings.Contains(kind, "class") || kind == "module":
		w.emitSymbol(node, name, KindClass, "")
	default:
		k := KindFunction
		parent := ""
		if scope != "" {
			k = KindMethod
			parent = scope
		}
		w.emitSymbol(node, name, k, parent)
	}
}

// extractGenericImport records the whole import/use/include statement text
// as the import path; tier-2 languages don't get per-symbol import
// resolution, only path-level edges (spec.md §4.3).
func (w *walker) extractGenericImport(node *tree_sitter.Node) {
	text := strings.TrimSpace(nodeText(node, w.source))
	text = strings.Trim(text, ";")
	if text == "" {
		return
	}
	line, _ := lineRange(node)
	w.out.Imports = append(w.out.Imports, Import{Path: text, Line: line})
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
