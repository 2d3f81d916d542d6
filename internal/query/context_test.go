package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchord/internal/extract"
	"github.com/anchorhq/anchord/internal/graph"
)

func TestGetContextExploreIntent(t *testing.T) {
	g := buildTestGraph(t)
	resp := GetContext(g, "helper", "explore", "")
	require.True(t, resp.Found)
	require.Len(t, resp.UsedBy, 1)
	require.Equal(t, "main", resp.UsedBy[0].Name)
}

func TestGetContextOverviewIntentFallsBackToExplore(t *testing.T) {
	g := buildTestGraph(t)
	resp := GetContext(g, "helper", "overview", "")
	require.Len(t, resp.UsedBy, 1)
	require.Equal(t, "main", resp.UsedBy[0].Name)
}

func TestGetContextNotFound(t *testing.T) {
	g := buildTestGraph(t)
	resp := GetContext(g, "nonexistent", "explore", "")
	require.False(t, resp.Found)
}

func TestGetContextCreateIntent(t *testing.T) {
	g := graph.New()
	batch := []*extract.FileExtractions{
		{
			FilePath: "handlers/foo.go",
			Symbols: []extract.Symbol{
				{Name: "FooHandler", Kind: extract.KindFunction, LineStart: 1, LineEnd: 3},
			},
		},
		{
			FilePath: "handlers/bar.go",
			Symbols: []extract.Symbol{
				{Name: "BarHandler", Kind: extract.KindFunction, LineStart: 1, LineEnd: 3},
			},
		},
	}
	g.BuildFromExtractions(batch)

	resp := GetContext(g, "FooHandler", "create", "")
	require.Len(t, resp.Patterns, 1)
	require.Equal(t, "BarHandler", resp.Patterns[0].Name)
}

func TestGetContextChangeIntentWithNewSignature(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.go")
	mainSrc := "package main\n\nfunc main() {\n\thelper(1)\n}\n"
	require.NoError(t, os.WriteFile(mainPath, []byte(mainSrc), 0o644))

	g := graph.New()
	batch := []*extract.FileExtractions{
		{
			FilePath: mainPath,
			Symbols: []extract.Symbol{
				{Name: "main", Kind: extract.KindFunction, LineStart: 3, LineEnd: 5, Snippet: "func main() {\n\thelper(1)\n}"},
			},
			Calls: []extract.Call{{Caller: "main", Callee: "helper", Line: 4}},
		},
		{
			FilePath: "util.go",
			Symbols: []extract.Symbol{
				{Name: "helper", Kind: extract.KindFunction, LineStart: 1, LineEnd: 1, Snippet: "fn helper(x: int) {}"},
			},
		},
	}
	g.BuildFromExtractions(batch)

	resp := GetContext(g, "helper", "change", "helper(x: int, y: int)")
	require.Len(t, resp.Edits, 1)
	edit := resp.Edits[0]
	require.Equal(t, mainPath, edit.File)
	require.Contains(t, edit.Usage, "helper(1)")
	require.Equal(t, "helper(1, <y>)", edit.Suggested)
	require.Equal(t, []string{"y: int"}, edit.NewArgs)
	require.Empty(t, edit.RemovedArgs)
}

func TestGetContextTestsHeuristic(t *testing.T) {
	g := graph.New()
	batch := []*extract.FileExtractions{
		{
			FilePath: "widget.go",
			Symbols: []extract.Symbol{
				{Name: "Render", Kind: extract.KindFunction, LineStart: 1, LineEnd: 3, Snippet: "func Render() {}"},
			},
		},
		{
			FilePath: "widget_test.go",
			Symbols: []extract.Symbol{
				{Name: "TestRender", Kind: extract.KindFunction, LineStart: 1, LineEnd: 3, Snippet: "func TestRender(t *testing.T) {\n\tRender()\n}"},
			},
		},
	}
	g.BuildFromExtractions(batch)

	resp := GetContext(g, "Render", "change", "")
	require.Len(t, resp.Tests, 1)
	require.Equal(t, "TestRender", resp.Tests[0].Name)
}
