// Package extract walks a parsed tree-sitter AST and emits the flat
// symbol/import/call record streams the graph builder consumes.
package extract

// SymbolKind classifies an extracted symbol definition.
type SymbolKind string

const (
	KindFunction SymbolKind = "function"
	KindMethod   SymbolKind = "method"
	KindStruct   SymbolKind = "struct"
	KindEnum     SymbolKind = "enum"
	KindTrait    SymbolKind = "trait"
	KindImpl     SymbolKind = "impl"
	KindClass    SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindType     SymbolKind = "type"
	KindConstant SymbolKind = "constant"
	KindModule   SymbolKind = "module"
	KindVariable SymbolKind = "variable"
	KindImport   SymbolKind = "import"
)

// Symbol is a single named definition found while walking a file's AST.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	LineStart int
	LineEnd   int
	Snippet   string
	Parent    string // short name of the enclosing scope, empty if top-level
}

// Import is a single import/use/require statement.
type Import struct {
	Path    string
	Symbols []string
	Line    int
}

// Call is a single call expression found inside a named scope.
type Call struct {
	Caller string
	Callee string
	Line   int
}

// FileExtractions is the complete per-file extraction record the builder
// folds into the graph.
type FileExtractions struct {
	FilePath string
	Symbols  []Symbol
	Imports  []Import
	Calls    []Call
}
