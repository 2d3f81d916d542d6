package graph

import (
	"strings"

	"github.com/anchorhq/anchord/internal/extract"
)

// Graph is the in-memory typed relationship graph described by spec.md §3.
// It holds no lock of its own: callers needing concurrent access wrap a
// *Graph in their own synchronization (internal/daemon does this, mirroring
// the original's Arc<RwLock<CodeGraph>> split between container and
// contents).
type Graph struct {
	nodes []Node
	edges []Edge

	nameIndex map[string]map[NodeID]struct{}
	fileIndex map[string]map[NodeID]struct{}
	fileByPath map[string]NodeID

	outAdj map[NodeID][]int // indexes into g.edges, outgoing
	inAdj  map[NodeID][]int // indexes into g.edges, incoming
}

// New returns an empty graph ready for incremental construction.
func New() *Graph {
	return &Graph{
		nameIndex:  make(map[string]map[NodeID]struct{}),
		fileIndex:  make(map[string]map[NodeID]struct{}),
		fileByPath: make(map[string]NodeID),
		outAdj:     make(map[NodeID][]int),
		inAdj:      make(map[NodeID][]int),
	}
}

// AddFile is idempotent on path: it returns the existing file node's id if
// one already exists.
func (g *Graph) AddFile(path string) NodeID {
	if id, ok := g.fileByPath[path]; ok {
		if g.nodes[id].Removed {
			g.nodes[id].Removed = false
			g.indexNode(g.nodes[id])
		}
		return id
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Kind: NodeFile, Path: path})
	g.fileByPath[path] = id
	g.indexNode(g.nodes[id])
	return id
}

// AddSymbol always creates a new node.
func (g *Graph) AddSymbol(name string, kind SymbolKind, file string, lineStart, lineEnd int, snippet, parent string) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		ID:        id,
		Kind:      NodeSymbol,
		Name:      name,
		SymKind:   kind,
		FilePath:  file,
		LineStart: lineStart,
		LineEnd:   lineEnd,
		Snippet:   snippet,
		Parent:    parent,
	})
	g.indexNode(g.nodes[id])
	return id
}

// AddEdge appends src->dst, skipping an exact duplicate (same src, dst, and
// kind) already present and visible.
func (g *Graph) AddEdge(src, dst NodeID, kind EdgeKind) {
	for _, i := range g.outAdj[src] {
		e := g.edges[i]
		if !e.Removed && e.Dst == dst && e.Kind == kind {
			return
		}
	}
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{Src: src, Dst: dst, Kind: kind})
	g.outAdj[src] = append(g.outAdj[src], idx)
	g.inAdj[dst] = append(g.inAdj[dst], idx)
}

func (g *Graph) indexNode(n Node) {
	switch n.Kind {
	case NodeSymbol:
		g.addToIndex(g.nameIndex, n.Name, n.ID)
		g.addToIndex(g.fileIndex, n.FilePath, n.ID)
	case NodeFile:
		g.addToIndex(g.fileIndex, n.Path, n.ID)
	}
}

func (g *Graph) addToIndex(idx map[string]map[NodeID]struct{}, key string, id NodeID) {
	set, ok := idx[key]
	if !ok {
		set = make(map[NodeID]struct{})
		idx[key] = set
	}
	set[id] = struct{}{}
}

func (g *Graph) removeFromIndex(idx map[string]map[NodeID]struct{}, key string, id NodeID) {
	set, ok := idx[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(idx, key)
	}
}

// RemoveFile tombstones the file node and every symbol defined in it,
// drops incident edges from visible adjacency, and purges index entries.
// Tombstones are retained (not deleted) for id stability (spec.md §3).
func (g *Graph) RemoveFile(path string) {
	fileID, ok := g.fileByPath[path]
	if !ok {
		return
	}

	g.removeFromIndex(g.fileIndex, path, fileID)
	g.nodes[fileID].Removed = true
	g.tombstoneEdgesIncident(fileID)

	for id := range g.fileIndex[path] {
		g.tombstoneSymbol(id)
	}
}

func (g *Graph) tombstoneSymbol(id NodeID) {
	n := &g.nodes[id]
	if n.Removed {
		return
	}
	g.removeFromIndex(g.nameIndex, n.Name, id)
	g.removeFromIndex(g.fileIndex, n.FilePath, id)
	n.Removed = true
	g.tombstoneEdgesIncident(id)
}

func (g *Graph) tombstoneEdgesIncident(id NodeID) {
	for _, i := range g.outAdj[id] {
		g.edges[i].Removed = true
	}
	for _, i := range g.inAdj[id] {
		g.edges[i].Removed = true
	}
}

// BuildFromExtractions merges a batch of per-file extraction results into
// the graph in one pass: files and symbols first, then Calls resolved
// against the name index (approximate: all same-named candidates get an
// edge), then Imports resolved against file paths by suffix match
// (spec.md §4.3).
func (g *Graph) BuildFromExtractions(batch []*extract.FileExtractions) {
	type pendingCall struct {
		callerID NodeID
		callee   string
	}
	var pendingCalls []pendingCall
	type pendingImport struct {
		fileID   NodeID
		filePath string
		path     string
	}
	var pendingImports []pendingImport

	for _, fe := range batch {
		fileID := g.AddFile(fe.FilePath)

		scopeIDs := make(map[string][]NodeID)
		for _, sym := range fe.Symbols {
			symID := g.AddSymbol(sym.Name, SymbolKind(sym.Kind), fe.FilePath, sym.LineStart, sym.LineEnd, sym.Snippet, sym.Parent)
			g.AddEdge(fileID, symID, EdgeDefines)
			scopeIDs[sym.Name] = append(scopeIDs[sym.Name], symID)
			if sym.Parent != "" {
				for _, parentID := range scopeIDs[sym.Parent] {
					g.AddEdge(parentID, symID, EdgeContains)
				}
			}
		}

		for _, call := range fe.Calls {
			for _, callerID := range scopeIDs[call.Caller] {
				pendingCalls = append(pendingCalls, pendingCall{callerID: callerID, callee: call.Callee})
			}
		}

		for _, imp := range fe.Imports {
			pendingImports = append(pendingImports, pendingImport{fileID: fileID, filePath: fe.FilePath, path: imp.Path})
		}
	}

	for _, pc := range pendingCalls {
		for id := range g.nameIndex[pc.callee] {
			if id == pc.callerID {
				continue
			}
			g.AddEdge(pc.callerID, id, EdgeCalls)
		}
	}

	for _, pi := range pendingImports {
		for otherPath, id := range g.fileByPath {
			if g.nodes[id].Removed || otherPath == pi.filePath {
				continue
			}
			if strings.HasSuffix(otherPath, pi.path) || strings.HasSuffix(trimExt(otherPath), pi.path) {
				g.AddEdge(pi.fileID, id, EdgeImports)
			}
		}
	}
}

func trimExt(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

// matchRank classifies how query matches name: 0 exact, 1 prefix, 2 contains.
func matchRank(query, name string) int {
	switch {
	case name == query:
		return 0
	case strings.HasPrefix(name, query):
		return 1
	default:
		return 2
	}
}

// Search returns up to limit symbols whose name contains query
// (case-sensitive substring), ranked exact > prefix > contains, ties broken
// by shorter name then lexicographic file path. An empty query returns up
// to limit arbitrary visible symbols.
func (g *Graph) Search(query string, limit int) []Node {
	var matches []Node
	for _, n := range g.nodes {
		if n.Kind != NodeSymbol || n.Removed {
			continue
		}
		if query == "" || strings.Contains(n.Name, query) {
			matches = append(matches, n)
		}
	}

	if query != "" {
		sortSymbols(matches, func(a, b Node) bool {
			ra, rb := matchRank(query, a.Name), matchRank(query, b.Name)
			if ra != rb {
				return ra < rb
			}
			if len(a.Name) != len(b.Name) {
				return len(a.Name) < len(b.Name)
			}
			return a.FilePath < b.FilePath
		})
	}

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func sortSymbols(nodes []Node, less func(a, b Node) bool) {
	// Insertion sort: result sets are small (bounded by limit in practice,
	// and symbol tables in a single repo rarely run to the point where
	// O(n^2) matters here).
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && less(nodes[j], nodes[j-1]); j-- {
			nodes[j], nodes[j-1] = nodes[j-1], nodes[j]
		}
	}
}

// SymbolsInFile returns all non-tombstoned symbols owned by path.
func (g *Graph) SymbolsInFile(path string) []Node {
	var out []Node
	for id := range g.fileIndex[path] {
		n := g.nodes[id]
		if n.Kind == NodeSymbol && !n.Removed {
			out = append(out, n)
		}
	}
	return out
}

// Dependents returns all symbols with an outgoing Calls edge whose callee
// is name, plus importers of a matching file/module.
func (g *Graph) Dependents(name string) []Node {
	var out []Node
	seen := make(map[NodeID]struct{})
	for id := range g.nameIndex[name] {
		for _, i := range g.inAdj[id] {
			e := g.edges[i]
			if e.Removed || e.Kind != EdgeCalls {
				continue
			}
			if _, ok := seen[e.Src]; ok {
				continue
			}
			seen[e.Src] = struct{}{}
			out = append(out, g.nodes[e.Src])
		}
	}

	if fileID, ok := g.fileByPath[name]; ok {
		for _, i := range g.inAdj[fileID] {
			e := g.edges[i]
			if e.Removed || e.Kind != EdgeImports {
				continue
			}
			if _, ok := seen[e.Src]; ok {
				continue
			}
			seen[e.Src] = struct{}{}
			out = append(out, g.nodes[e.Src])
		}
	}
	return out
}

// Dependencies returns the callees of the given symbol, unioned across all
// same-named nodes.
func (g *Graph) Dependencies(name string) []Node {
	var out []Node
	seen := make(map[NodeID]struct{})
	for id := range g.nameIndex[name] {
		for _, i := range g.outAdj[id] {
			e := g.edges[i]
			if e.Removed || e.Kind != EdgeCalls {
				continue
			}
			if _, ok := seen[e.Dst]; ok {
				continue
			}
			seen[e.Dst] = struct{}{}
			out = append(out, g.nodes[e.Dst])
		}
	}
	return out
}

// Connection is one BFS hop surfaced by SearchGraph.
type Connection struct {
	From         string
	To           string
	Relationship string
}

// SearchGraphResult is the structured BFS result.
type SearchGraphResult struct {
	MatchedFiles []Node
	Symbols      []Node
	Connections  []Connection
}

// SearchGraph runs a BFS from the seed set matched by query, up to depth
// hops over any edge kind.
func (g *Graph) SearchGraph(query string, depth int) SearchGraphResult {
	seeds := g.Search(query, 0)

	visited := make(map[NodeID]struct{})
	var frontier []NodeID
	for _, s := range seeds {
		visited[s.ID] = struct{}{}
		frontier = append(frontier, s.ID)
	}

	var result SearchGraphResult
	for _, s := range seeds {
		if s.Kind == NodeFile {
			result.MatchedFiles = append(result.MatchedFiles, s)
		} else {
			result.Symbols = append(result.Symbols, s)
		}
	}

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []NodeID
		for _, id := range frontier {
			for _, i := range g.outAdj[id] {
				e := g.edges[i]
				if e.Removed {
					continue
				}
				result.Connections = append(result.Connections, Connection{
					From:         g.label(id),
					To:           g.label(e.Dst),
					Relationship: string(e.Kind),
				})
				if _, ok := visited[e.Dst]; !ok {
					visited[e.Dst] = struct{}{}
					next = append(next, e.Dst)
					n := g.nodes[e.Dst]
					if n.Kind == NodeFile {
						result.MatchedFiles = append(result.MatchedFiles, n)
					} else {
						result.Symbols = append(result.Symbols, n)
					}
				}
			}
		}
		frontier = next
	}
	return result
}

func (g *Graph) label(id NodeID) string {
	n := g.nodes[id]
	if n.Kind == NodeFile {
		return n.Path
	}
	return n.Name
}

// Files returns every non-tombstoned file node.
func (g *Graph) Files() []Node {
	var out []Node
	for _, n := range g.nodes {
		if n.Kind == NodeFile && !n.Removed {
			out = append(out, n)
		}
	}
	return out
}

// Stats returns counts over visible nodes and edges only.
func (g *Graph) Stats() Stats {
	var s Stats
	for _, n := range g.nodes {
		if n.Removed {
			continue
		}
		switch n.Kind {
		case NodeFile:
			s.FileCount++
		case NodeSymbol:
			s.SymbolCount++
		}
	}
	for _, e := range g.edges {
		if !e.Removed {
			s.TotalEdges++
		}
	}
	return s
}

// Nodes returns the graph's own node slice (not a copy), including
// tombstones.
func (g *Graph) Nodes() []Node {
	return g.nodes
}

// Edges returns the graph's own edge slice (not a copy), including
// tombstones.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// RebuildIndexes recomputes all derived indexes and adjacency lists from
// the current nodes/edges slices; used after Load restores raw node/edge
// data (spec.md §4.5).
func (g *Graph) RebuildIndexes() {
	g.nameIndex = make(map[string]map[NodeID]struct{})
	g.fileIndex = make(map[string]map[NodeID]struct{})
	g.fileByPath = make(map[string]NodeID)
	g.outAdj = make(map[NodeID][]int)
	g.inAdj = make(map[NodeID][]int)

	for _, n := range g.nodes {
		if n.Kind == NodeFile {
			g.fileByPath[n.Path] = n.ID
		}
		if !n.Removed {
			g.indexNode(n)
		}
	}
	for i, e := range g.edges {
		g.outAdj[e.Src] = append(g.outAdj[e.Src], i)
		g.inAdj[e.Dst] = append(g.inAdj[e.Dst], i)
	}
}

// LoadFrom replaces g's nodes and edges wholesale (used by persistence.Load)
// and rebuilds indexes.
func (g *Graph) LoadFrom(nodes []Node, edges []Edge) {
	g.nodes = nodes
	g.edges = edges
	g.RebuildIndexes()
}
