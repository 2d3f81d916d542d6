package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchord/internal/lang"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func parseRoot(t *testing.T, l lang.Language, source string) (*tree_sitter.Node, []byte) {
	t.Helper()
	grammar := lang.Grammar(l)
	require.NotNil(t, grammar)

	parser := tree_sitter.NewParser()
	t.Cleanup(parser.Close)
	require.NoError(t, parser.SetLanguage(grammar))

	src := []byte(source)
	tree := parser.Parse(src, nil)
	require.NotNil(t, tree)
	t.Cleanup(tree.Close)

	root := tree.RootNode()
	return &root, src
}

func TestBoundedSnippetShortNodeUnchanged(t *testing.T) {
	root, src := parseRoot(t, lang.Go, "package main\nfunc f() {}\n")
	got := boundedSnippet(root, src)
	require.Equal(t, string(src), got)
}

func TestBoundedSnippetTruncatesLongLineCount(t *testing.T) {
	var b strings.Builder
	b.WriteString("package main\n")
	for i := 0; i < 20; i++ {
		b.WriteString("// line\n")
	}
	root, src := parseRoot(t, lang.Go, b.String())
	got := boundedSnippet(root, src)
	require.LessOrEqual(t, strings.Count(got, "\n")-1, maxSnippetLines)
	require.Contains(t, got, "...")
}

func TestBoundedSnippetTruncatesLongBytes(t *testing.T) {
	var b strings.Builder
	b.WriteString("package main\nvar x = \"")
	b.WriteString(strings.Repeat("a", 3000))
	b.WriteString("\"\n")
	root, src := parseRoot(t, lang.Go, b.String())
	got := boundedSnippet(root, src)
	require.LessOrEqual(t, len(got), maxSnippetBytes+len(truncationBytes)+len(truncationLines))
	require.Contains(t, got, "truncated")
}

func TestUtf8BoundaryRejectsContinuationByte(t *testing.T) {
	s := "a\xE2\x82\xACb" // a, euro sign (3 bytes), b
	require.True(t, utf8Boundary(s, 0))
	require.True(t, utf8Boundary(s, 1))
	require.False(t, utf8Boundary(s, 2))
	require.False(t, utf8Boundary(s, 3))
	require.True(t, utf8Boundary(s, 4))
}
