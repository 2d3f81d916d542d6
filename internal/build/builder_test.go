package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchord/internal/graph"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestBuildExtractsSupportedFilesOnly(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "main.go", "package main\n\nfunc main() {}\n")
	writeTestFile(t, root, "README.md", "# not code\n")
	writeTestFile(t, root, "node_modules/dep/index.js", "function dep() {}\n")
	writeTestFile(t, root, ".git/config", "junk")

	g, err := Build(context.Background(), root, Options{})
	require.NoError(t, err)

	stats := g.Stats()
	require.Equal(t, 1, stats.FileCount)

	results := g.Search("main", 10)
	require.Len(t, results, 1)
}

func TestBuildAcceptsEmptySourceFile(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "good.go", "package main\nfunc ok() {}\n")
	// a zero-byte .go file should still parse to an empty extraction rather
	// than error, exercising the "empty source is valid" edge case.
	writeTestFile(t, root, "empty.go", "")

	g, err := Build(context.Background(), root, Options{})
	require.NoError(t, err)
	require.GreaterOrEqual(t, g.Stats().FileCount, 1)
}

func TestBuildHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, ".gitignore", "vendor\n")
	writeTestFile(t, root, "vendor/lib.go", "package vendor\nfunc V() {}\n")
	writeTestFile(t, root, "main.go", "package main\nfunc main() {}\n")

	g, err := Build(context.Background(), root, Options{})
	require.NoError(t, err)

	require.Empty(t, g.Search("V", 10))
	require.Len(t, g.Search("main", 10), 1)
}

func TestExtractThenApplyFileReplacesSymbols(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	writeTestFile(t, root, "main.go", "package main\nfunc old() {}\n")

	g := graph.New()
	fe, err := ExtractFile(path)
	require.NoError(t, err)
	ApplyFile(g, path, fe)
	require.Len(t, g.Search("old", 10), 1)

	writeTestFile(t, root, "main.go", "package main\nfunc fresh() {}\n")
	fe, err = ExtractFile(path)
	require.NoError(t, err)
	ApplyFile(g, path, fe)

	require.Empty(t, g.Search("old", 10))
	require.Len(t, g.Search("fresh", 10), 1)
}
