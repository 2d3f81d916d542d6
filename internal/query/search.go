package query

import (
	"github.com/anchorhq/anchord/internal/graph"
)

// ToSymbolRef converts a graph.Node (must be a symbol) into its wire
// representation.
func ToSymbolRef(n graph.Node) SymbolRef {
	return SymbolRef{
		Name:      n.Name,
		Kind:      string(n.SymKind),
		File:      n.FilePath,
		LineStart: n.LineStart,
		LineEnd:   n.LineEnd,
		Snippet:   n.Snippet,
		Parent:    n.Parent,
	}
}

func toSymbolRefs(nodes []graph.Node) []SymbolRef {
	out := make([]SymbolRef, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind == graph.NodeSymbol {
			out = append(out, ToSymbolRef(n))
		}
	}
	return out
}

// Search runs a plain substring search and returns up to limit matches.
func Search(g *graph.Graph, queryStr string, limit int) []SymbolRef {
	return toSymbolRefs(g.Search(queryStr, limit))
}

// SearchGraph runs the BFS search described in spec.md §4.3 and shapes its
// result for the wire.
func SearchGraph(g *graph.Graph, queryStr string, depth int) SearchResult {
	r := g.SearchGraph(queryStr, depth)

	var files []string
	for _, n := range r.MatchedFiles {
		files = append(files, n.Path)
	}

	var conns []Connection
	for _, c := range r.Connections {
		conns = append(conns, Connection{From: c.From, To: c.To, Relationship: c.Relationship})
	}

	return SearchResult{
		MatchedFiles: files,
		Symbols:      toSymbolRefs(r.Symbols),
		Connections:  conns,
	}
}

// GraphStats reports file/symbol/edge counts over visible content.
func GraphStats(g *graph.Graph) Stats {
	s := g.Stats()
	return Stats{FileCount: s.FileCount, SymbolCount: s.SymbolCount, TotalEdges: s.TotalEdges}
}

// FileSymbols returns every non-tombstoned symbol defined in path.
func FileSymbols(g *graph.Graph, path string) []SymbolRef {
	return toSymbolRefs(g.SymbolsInFile(path))
}

// DepsResult is the "deps" command's response: the symbols a name calls and
// the symbols that call it.
type DepsResult struct {
	Symbol       string      `json:"symbol"`
	Dependencies []SymbolRef `json:"dependencies"`
	Dependents   []SymbolRef `json:"dependents"`
}

// Deps assembles the dependency response for the "deps" socket command
// (spec.md §6): callees and callers of symbol.
func Deps(g *graph.Graph, symbol string) DepsResult {
	return DepsResult{
		Symbol:       symbol,
		Dependencies: toSymbolRefs(g.Dependencies(symbol)),
		Dependents:   toSymbolRefs(g.Dependents(symbol)),
	}
}

// Overview reports the whole-repo summary served by the "overview" command:
// stats, every indexed file path, and entry points (symbols literally named
// "main"), per original_source/src/daemon/server.rs's Overview handler
// (SPEC_FULL.md §12 supplement — "overview" isn't a named intent handler in
// §4.7, only a top-level daemon command).
type Overview struct {
	Stats       Stats           `json:"stats"`
	Files       []string        `json:"files"`
	EntryPoints []SymbolRef     `json:"entry_points"`
	Clusters    []ClusterRef    `json:"clusters,omitempty"`
}

// ClusterRef is the wire shape of a graph.Cluster: a connected group of
// files (by Imports edges) with a cohesion score. Additive enrichment over
// spec.md §6's overview row (SPEC_FULL.md §12's "Clustering enrichment"
// supplement); omitted from the response when the graph has no files.
type ClusterRef struct {
	Files    []string `json:"files"`
	Cohesion float64  `json:"cohesion"`
}

// BuildOverview assembles the Overview response.
func BuildOverview(g *graph.Graph) Overview {
	var paths []string
	for _, f := range g.Files() {
		paths = append(paths, f.Path)
	}

	var entry []SymbolRef
	for _, n := range g.Search("main", 0) {
		if n.Name == "main" {
			entry = append(entry, ToSymbolRef(n))
		}
	}

	var clusters []ClusterRef
	for _, c := range g.Clusters() {
		clusters = append(clusters, ClusterRef{Files: c.Files, Cohesion: c.Cohesion})
	}

	return Overview{Stats: GraphStats(g), Files: paths, EntryPoints: entry, Clusters: clusters}
}
