package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchord/internal/extract"
	"github.com/anchorhq/anchord/internal/graph"
)

func buildTestGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	batch := []*extract.FileExtractions{
		{
			FilePath: "main.go",
			Symbols: []extract.Symbol{
				{Name: "main", Kind: extract.KindFunction, LineStart: 1, LineEnd: 5, Snippet: "func main() {\n\thelper()\n}"},
			},
			Calls: []extract.Call{{Caller: "main", Callee: "helper", Line: 2}},
		},
		{
			FilePath: "util.go",
			Symbols: []extract.Symbol{
				{Name: "helper", Kind: extract.KindFunction, LineStart: 1, LineEnd: 3, Snippet: "func helper() {}"},
			},
		},
	}
	g.BuildFromExtractions(batch)
	return g
}

func TestSearchReturnsSymbolRefs(t *testing.T) {
	g := buildTestGraph(t)
	results := Search(g, "main", 10)
	require.Len(t, results, 1)
	require.Equal(t, "main", results[0].Name)
	require.Equal(t, "main.go", results[0].File)
}

func TestGraphStats(t *testing.T) {
	g := buildTestGraph(t)
	stats := GraphStats(g)
	require.Equal(t, 2, stats.FileCount)
	require.Equal(t, 2, stats.SymbolCount)
}

func TestBuildOverviewListsFilesAndEntryPoints(t *testing.T) {
	g := buildTestGraph(t)
	ov := BuildOverview(g)
	require.ElementsMatch(t, []string{"main.go", "util.go"}, ov.Files)
	require.Len(t, ov.EntryPoints, 1)
	require.Equal(t, "main", ov.EntryPoints[0].Name)
}

func TestDepsReportsCallersAndCallees(t *testing.T) {
	g := buildTestGraph(t)
	d := Deps(g, "helper")
	require.Len(t, d.Dependents, 1)
	require.Equal(t, "main", d.Dependents[0].Name)
	require.Empty(t, d.Dependencies)

	d = Deps(g, "main")
	require.Len(t, d.Dependencies, 1)
	require.Equal(t, "helper", d.Dependencies[0].Name)
}

func TestSearchGraphFindsConnection(t *testing.T) {
	g := buildTestGraph(t)
	r := SearchGraph(g, "main", 1)
	found := false
	for _, c := range r.Connections {
		if c.Relationship == "calls" {
			found = true
		}
	}
	require.True(t, found)
}
