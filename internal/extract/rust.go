package extract

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func (w *walker) extractRust(node *tree_sitter.Node, kind, scope string) {
	switch kind {
	case "function_item":
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

	case "struct_item":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindStruct, "")
		}
	case "enum_item":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindEnum, "")
		}
	case "trait_item":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindTrait, "")
		}
	case "impl_item":
		if name := rustImplName(node, w.source); name != "" {
			w.emitSymbol(node, name, KindImpl, "")
		}
	case "const_item", "static_item":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindConstant, scope)
		}
	case "type_item":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindType, "")
		}
	case "mod_item":
		if name, ok := nodeName(node, w.source); ok {
			w.emitSymbol(node, name, KindModule, "")
		}
	case "use_declaration":
		path := parseRustUse(nodeText(node, w.source))
		if path != "" {
			line, _ := lineRange(node)
			w.out.Imports = append(w.out.Imports, Import{Path: path, Line: line})
		}
	case "call_expression":
		w.emitCall(node, scope)
	}
}

// emitSymbol appends a Symbol built from node's line range and bounded
// snippet. Shared across all per-language extractors.
func (w *walker) emitSymbol(node *tree_sitter.Node, name string, kind SymbolKind, parent string) {
	start, end := lineRange(node)
	w.out.Symbols = append(w.out.Symbols, Symbol{
		Name:      name,
		Kind:      kind,
		LineStart: start,
		LineEnd:   end,
		Snippet:   boundedSnippet(node, w.source),
		Parent:    parent,
	})
}

// emitCall appends a Call if the call target resolves to a short name and
// the call occurs inside a named scope; calls outside any scope are
// discarded (spec.md §4.2).
func (w *walker) emitCall(node *tree_sitter.Node, scope string) {
	if scope == "" {
		return
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}
	name := callName(nodeText(fn, w.source))
	if name == "" {
		return
	}
	line, _ := lineRange(node)
	w.out.Calls = append(w.out.Calls, Call{Caller: scope, Callee: name, Line: line})
}
