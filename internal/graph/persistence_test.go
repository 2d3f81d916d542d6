package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anchorhq/anchord/internal/anchorerr"
	"github.com/anchorhq/anchord/internal/extract"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	g := New()
	batch := []*extract.FileExtractions{
		{
			FilePath: "main.go",
			Symbols: []extract.Symbol{
				{Name: "main", Kind: extract.KindFunction, LineStart: 1, LineEnd: 5, Snippet: "func main() {}"},
			},
			Calls: []extract.Call{{Caller: "main", Callee: "helper", Line: 2}},
		},
		{
			FilePath: "util.go",
			Symbols: []extract.Symbol{
				{Name: "helper", Kind: extract.KindFunction, LineStart: 1, LineEnd: 3},
			},
		},
	}
	g.BuildFromExtractions(batch)
	g.RemoveFile("util.go") // exercise tombstone round-trip

	path := filepath.Join(t.TempDir(), "graph.bin")
	require.NoError(t, Save(g, path))

	loaded, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, g.Stats(), loaded.Stats())
	require.Len(t, loaded.SymbolsInFile("main.go"), 1)
	require.Empty(t, loaded.SymbolsInFile("util.go"))
}

func TestLoadMissingFileIsNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bin"))
	require.True(t, anchorerr.Is(err, anchorerr.NotFound))
}

func TestLoadCorruptFileIsDeserializeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a gob stream"), 0o644))

	_, err := Load(path)
	require.True(t, anchorerr.Is(err, anchorerr.Deserialize))
}
