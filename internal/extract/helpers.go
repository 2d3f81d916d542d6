package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// nodeName returns the text of node's "name" field, or ("", false) if the
// field is absent. A node whose name field is absent is skipped, not an
// error (spec.md §4.2).
func nodeName(node *tree_sitter.Node, source []byte) (string, bool) {
	n := node.ChildByFieldName("name")
	if n == nil {
		return "", false
	}
	return n.Utf8Text(source), true
}

func nodeText(node *tree_sitter.Node, source []byte) string {
	return node.Utf8Text(source)
}

func lineRange(node *tree_sitter.Node) (int, int) {
	return int(node.StartPosition().Row) + 1, int(node.EndPosition().Row) + 1
}

// rustImplName extracts the target type name from a Rust impl_item: the
// "type" field for `impl Type`, or a textual fallback handling
// `impl Trait for Type` (spec.md §4.2 edge case).
func rustImplName(node *tree_sitter.Node, source []byte) string {
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		return typeNode.Utf8Text(source)
	}

	text := nodeText(node, source)
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return ""
	}
	for i, p := range parts {
		if p == "for" && i+1 < len(parts) {
			return strings.TrimRight(strings.TrimSuffix(parts[i+1], "{"), " ")
		}
	}
	name := strings.TrimSuffix(parts[1], "{")
	if idx := strings.IndexByte(name, '<'); idx >= 0 {
		name = name[:idx]
	}
	return strings.TrimSpace(name)
}

// callName extracts the short callee name from a call's "function" field
// text: the last identifier after a '.' or '::' separator.
func callName(funcText string) string {
	name := funcText
	if idx := strings.LastIndexAny(funcText, ".:"); idx >= 0 {
		name = funcText[idx+1:]
	}
	name = strings.TrimSpace(name)
	return name
}

// parseRustUse turns `use foo::bar::Baz;` into its module path.
func parseRustUse(text string) string {
	text = strings.TrimPrefix(text, "use ")
	text = strings.TrimSuffix(strings.TrimSpace(text), ";")
	return strings.TrimSpace(text)
}

// parsePyImport turns `import os` into its module path.
func parsePyImport(text string) string {
	return strings.TrimSpace(strings.TrimPrefix(text, "import "))
}

// parsePyFromImport turns `from foo import bar, baz` into (path, symbols).
func parsePyFromImport(text string) (string, []string) {
	parts := strings.SplitN(text, "import", 2)
	path := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[0]), "from "))

	var syms []string
	if len(parts) == 2 {
		for _, s := range strings.Split(parts[1], ",") {
			s = strings.TrimSpace(s)
			if s != "" {
				syms = append(syms, s)
			}
		}
	}
	return path, syms
}

// parseJSImport turns `import { x as y } from 'path'` (or an unbraced
// default import) into (path, symbols), resolving `as` aliases to the
// original name.
func parseJSImport(text string) (string, []string) {
	rest := text
	if idx := strings.LastIndex(text, "from"); idx >= 0 {
		rest = text[idx+len("from"):]
	}
	path := strings.Trim(strings.TrimSpace(rest), "'\";")

	var syms []string
	if open := strings.Index(text, "{"); open >= 0 {
		if close := strings.Index(text[open:], "}"); close >= 0 {
			inner := text[open+1 : open+close]
			for _, s := range strings.Split(inner, ",") {
				s = strings.TrimSpace(s)
				if s == "" {
					continue
				}
				if asIdx := strings.Index(s, " as "); asIdx >= 0 {
					s = s[:asIdx]
				}
				s = strings.TrimSpace(s)
				if s != "" {
					syms = append(syms, s)
				}
			}
		}
	}
	return path, syms
}

// isAllCapsConstant reports whether name looks like a SCREAMING_SNAKE_CASE
// constant identifier.
func isAllCapsConstant(name string) bool {
	seenLetter := false
	for _, r := range name {
		switch {
		case r == '_' || (r >= '0' && r <= '9'):
			continue
		case r >= 'A' && r <= 'Z':
			seenLetter = true
		default:
			return false
		}
	}
	return seenLetter
}
