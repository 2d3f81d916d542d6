package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxSnippetLines and maxSnippetBytes bound the code snippet captured for
// every symbol: at most 2048 bytes, then at most 10 lines (see
// boundedSnippet for the order they are applied in).
const (
	maxSnippetLines = 10
	maxSnippetBytes = 2048
	truncationLines = "\n    // ..."
	truncationBytes = "\n    // ... (truncated)"
)

// boundedSnippet returns node's source text truncated to maxSnippetBytes
// (on a UTF-8 boundary) and then to maxSnippetLines, with a truncation
// marker appended whenever either limit cuts the text.
func boundedSnippet(node *tree_sitter.Node, source []byte) string {
	raw := node.Utf8Text(source)

	byteBounded := raw
	if len(raw) > maxSnippetBytes {
		end := maxSnippetBytes
		for end > 0 && !utf8Boundary(raw, end) {
			end--
		}
		byteBounded = raw[:end] + truncationBytes
	}

	lines := strings.Split(byteBounded, "\n")
	if len(lines) <= maxSnippetLines {
		return byteBounded
	}
	return strings.Join(lines[:maxSnippetLines], "\n") + truncationLines
}

// utf8Boundary reports whether byte offset i in s falls on a UTF-8
// code-point boundary (i.e. is not a continuation byte).
func utf8Boundary(s string, i int) bool {
	if i <= 0 || i >= len(s) {
		return true
	}
	return s[i]&0xC0 != 0x80
}
