package extract

import (
	"github.com/anchorhq/anchord/internal/anchorerr"
	"github.com/anchorhq/anchord/internal/lang"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// File extracts symbols, imports, and calls from a single source file.
// Empty source is valid and yields an empty extraction. Malformed source is
// tolerated: tree-sitter returns a best-effort tree and extraction proceeds
// on whatever named nodes are present.
func File(path string, source []byte) (*FileExtractions, error) {
	l, ok := lang.FromPath(path)
	if !ok {
		return nil, anchorerr.New(anchorerr.UnsupportedLanguage, path, nil)
	}

	grammar := lang.Grammar(l)
	if grammar == nil {
		return nil, anchorerr.New(anchorerr.ParserInitFailure, path, nil)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(grammar); err != nil {
		return nil, anchorerr.New(anchorerr.ParserInitFailure, path, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, anchorerr.New(anchorerr.ParseFailed, path, nil)
	}
	defer tree.Close()

	fe := &FileExtractions{FilePath: path}
	root := tree.RootNode()
	w := &walker{lang: l, source: source, out: fe}
	w.walk(&root, "")
	return fe, nil
}

// walker performs the single depth-first scan described in spec.md §4.2: a
// stack of enclosing scope names is threaded through the recursion (as the
// current parameter) rather than held in a field, so no push/pop bookkeeping
// is needed around the per-node dispatch.
type walker struct {
	lang   lang.Language
	source []byte
	out    *FileExtractions
}

func (w *walker) walk(node *tree_sitter.Node, scope string) {
	kind := node.Kind()

	switch w.lang {
	case lang.Rust:
		w.extractRust(node, kind, scope)
	case lang.Python:
		w.extractPython(node, kind, scope)
	case lang.JavaScript, lang.TSX:
		w.extractJS(node, kind, scope)
	case lang.TypeScript:
		w.extractTS(node, kind, scope)
	case lang.Go:
		w.extractGeneric(node, kind, scope,
			[]string{"function_declaration", "method_declaration"},
			[]string{"import_spec"},
			[]string{"call_expression"})
	case lang.Java:
		w.extractGeneric(node, kind, scope,
			[]string{"method_declaration", "class_declaration", "interface_declaration"},
			[]string{"import_declaration"},
			[]string{"method_invocation"})
	case lang.CSharp:
		w.extractGeneric(node, kind, scope,
			[]string{"method_declaration", "class_declaration", "interface_declaration"},
			[]string{"using_directive"},
			[]string{"invocation_expression"})
	case lang.Ruby:
		w.extractGeneric(node, kind, scope,
			[]string{"method", "class", "module"},
			[]string{"call"},
			[]string{"call", "method_call"})
	case lang.Cpp, lang.Swift:
		w.extractGeneric(node, kind, scope,
			[]string{"function_definition", "class_specifier"},
			[]string{"preproc_include"},
			[]string{"call_expression"})
	}

	childScope := scope
	if newScope, ok := w.opensScope(node, kind); ok {
		childScope = newScope
	}

	count := node.ChildCount()
	for i := uint(0); i < count; i++ {
		child := node.Child(i)
		if child != nil {
			w.walk(child, childScope)
		}
	}
}

// opensScope reports whether a node of kind introduces a new enclosing
// scope for its children, and if so, that scope's short name. A language's
// scope-defining kinds are the same as its function/class/impl/module kinds
// (spec.md §9), with one exception: a Rust mod_item does not open a scope,
// so items inside a Rust module keep the scope that encloses the module.
func (w *walker) opensScope(node *tree_sitter.Node, kind string) (string, bool) {
	switch w.lang {
	case lang.Rust:
		switch kind {
		case "impl_item":
			if name := rustImplName(node, w.source); name != "" {
				return name, true
			}
			return "", false
		case "function_item", "struct_item", "enum_item", "trait_item":
			return nodeName(node, w.source)
		}
	case lang.Python:
		switch kind {
		case "class_definition", "function_definition":
			return nodeName(node, w.source)
		}
	case lang.JavaScript, lang.TypeScript, lang.TSX:
		switch kind {
		case "class_declaration", "function_declaration", "method_definition":
			return nodeName(node, w.source)
		}
	case lang.Go:
		switch kind {
		case "function_declaration", "method_declaration":
			return nodeName(node, w.source)
		}
	case lang.Java, lang.CSharp:
		switch kind {
		case "method_declaration", "class_declaration", "interface_declaration":
			return nodeName(node, w.source)
		}
	case lang.Ruby:
		switch kind {
		case "method", "class", "module":
			return nodeName(node, w.source)
		}
	case lang.Cpp, lang.Swift:
		switch kind {
		case "function_definition", "class_specifier":
			return nodeName(node, w.source)
		}
	}
	return "", false
}
