// Package lang maps source file paths to the eleven languages anchord
// understands and wires each one to its tree-sitter grammar.
package lang

import (
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_swift "github.com/alex-pinkus/tree-sitter-swift/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language identifies one of the eleven source languages anchord extracts
// structure from.
type Language string

const (
	Rust       Language = "rust"
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
	Go         Language = "go"
	Java       Language = "java"
	CSharp     Language = "csharp"
	Ruby       Language = "ruby"
	Cpp        Language = "cpp"
	Swift      Language = "swift"
)

// Tier1 languages get a dedicated hand-written extractor. Tier2 languages
// share the generic tuple-of-node-kinds extractor.
var Tier1 = map[Language]bool{
	Rust: true, Python: true, JavaScript: true, TypeScript: true, TSX: true,
}

// extByExt maps a lowercased file extension (including the leading dot) to
// the language that owns it.
var extByExt = map[string]Language{
	".rs":    Rust,
	".py":    Python,
	".js":    JavaScript,
	".mjs":   JavaScript,
	".cjs":   JavaScript,
	".ts":    TypeScript,
	".tsx":   TSX,
	".go":    Go,
	".java":  Java,
	".cs":    CSharp,
	".rb":    Ruby,
	".cc":    Cpp,
	".cpp":   Cpp,
	".cxx":   Cpp,
	".hpp":   Cpp,
	".h":     Cpp,
	".swift": Swift,
}

// FromPath returns the language registered for path's extension. ok is
// false when the extension is unrecognized.
func FromPath(path string) (Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := extByExt[ext]
	return l, ok
}

// Grammar returns the tree-sitter grammar for l. The TSX variant of the
// TypeScript grammar is used for Language TSX.
func Grammar(l Language) *tree_sitter.Language {
	switch l {
	case Rust:
		return tree_sitter.NewLanguage(tree_sitter_rust.Language())
	case Python:
		return tree_sitter.NewLanguage(tree_sitter_python.Language())
	case JavaScript:
		return tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	case TypeScript:
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case TSX:
		return tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	case Go:
		return tree_sitter.NewLanguage(tree_sitter_go.Language())
	case Java:
		return tree_sitter.NewLanguage(tree_sitter_java.Language())
	case CSharp:
		return tree_sitter.NewLanguage(tree_sitter_csharp.Language())
	case Ruby:
		return tree_sitter.NewLanguage(tree_sitter_ruby.Language())
	case Cpp:
		return tree_sitter.NewLanguage(tree_sitter_cpp.Language())
	case Swift:
		return tree_sitter.NewLanguage(tree_sitter_swift.Language())
	default:
		return nil
	}
}
