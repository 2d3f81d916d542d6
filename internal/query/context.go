package query

import (
	"os"
	"strings"

	"github.com/anchorhq/anchord/internal/graph"
)

const maxPatterns = 5
const maxTests = 5

// GetContext implements the get_context operation of spec.md §4.7: an
// intent-driven bundle of search results shaped for an editing agent.
// newSignature is the optional replacement signature text supplied for a
// change/modify/refactor intent; pass "" when none is given.
func GetContext(g *graph.Graph, name, intent, newSignature string) ContextResponse {
	resp := ContextResponse{Query: name, Intent: intent}

	matches := g.Search(name, 0)
	var exact []graph.Node
	for _, m := range matches {
		if m.Name == name {
			exact = append(exact, m)
		}
	}
	if len(exact) == 0 {
		exact = matches
	}
	resp.Found = len(exact) > 0

	switch intent {
	case "create":
		resp.Patterns = patternsFor(g, exact)
	case "change", "modify", "refactor":
		dependents := g.Dependents(name)
		resp.UsedBy = toSymbolRefs(dependents)
		resp.Tests = testsFor(g, name, dependents)
		resp.Edits = editsFor(g, name, dependents, newSignature)
	default: // explore, understand, find, overview, and anything unrecognized
		resp.UsedBy = toSymbolRefs(g.Dependents(name))
		resp.Uses = toSymbolRefs(g.Dependencies(name))
		resp.Symbols = toSymbolRefs(g.Search(name, 10))
	}

	return resp
}

// patternsFor returns up to maxPatterns symbols of the same kind as the
// first match, preferring those in the same directory (spec.md §4.7).
func patternsFor(g *graph.Graph, exact []graph.Node) []SymbolRef {
	if len(exact) == 0 {
		return nil
	}
	first := exact[0]
	dir := dirOf(first.FilePath)

	var sameDir, elsewhere []graph.Node
	for _, n := range g.Search("", 0) {
		if n.Kind != graph.NodeSymbol || n.SymKind != first.SymKind || n.ID == first.ID {
			continue
		}
		if dirOf(n.FilePath) == dir {
			sameDir = append(sameDir, n)
		} else {
			elsewhere = append(elsewhere, n)
		}
	}

	all := append(sameDir, elsewhere...)
	if len(all) > maxPatterns {
		all = all[:maxPatterns]
	}
	return toSymbolRefs(all)
}

func dirOf(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[:i]
	}
	return ""
}

// testsFor enumerates symbols whose name contains "test" (case-insensitive)
// and whose snippet mentions name, plus dependents whose name contains
// "test", capped at maxTests (spec.md §4.7).
func testsFor(g *graph.Graph, name string, dependents []graph.Node) []SymbolRef {
	seen := make(map[graph.NodeID]bool)
	var out []graph.Node

	for _, n := range g.Search("", 0) {
		if n.Kind != graph.NodeSymbol {
			continue
		}
		if !strings.Contains(strings.ToLower(n.Name), "test") {
			continue
		}
		if !strings.Contains(n.Snippet, name) {
			continue
		}
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}

	for _, d := range dependents {
		if strings.Contains(strings.ToLower(d.Name), "test") && !seen[d.ID] {
			seen[d.ID] = true
			out = append(out, d)
		}
	}

	if len(out) > maxTests {
		out = out[:maxTests]
	}
	return toSymbolRefs(out)
}

// editsFor builds one Edit per dependent via call-site prediction, adding
// suggested/new_args/removed_args when newSignature is non-empty.
func editsFor(g *graph.Graph, name string, dependents []graph.Node, newSignature string) []Edit {
	var newSig Signature
	var oldSig Signature
	haveNewSig := false
	if newSignature != "" {
		if s, ok := parseSignature(newSignature); ok {
			newSig = s
			haveNewSig = true
		}
	}
	if haveNewSig {
		if m := g.Search(name, 1); len(m) > 0 {
			if s, ok := extractSignature(m[0].Snippet); ok {
				oldSig = s
			}
		}
	}

	var edits []Edit
	for _, dep := range dependents {
		edit, ok := predictCallSite(dep, name)
		if !ok {
			continue
		}

		if haveNewSig {
			diff := diffSignatures(oldSig, newSig)
			edit.Suggested = buildSuggested(name, edit.Usage, diff.Added)
			for _, p := range diff.Added {
				edit.NewArgs = append(edit.NewArgs, paramText(p))
			}
			for _, p := range diff.Removed {
				edit.RemovedArgs = append(edit.RemovedArgs, p.Name)
			}
		}
		edits = append(edits, edit)
	}
	return edits
}

func paramText(p Param) string {
	if p.Type == "" {
		return p.Name
	}
	return p.Name + ": " + p.Type
}

// buildSuggested constructs NAME(existing_args..., <added_param_names>...)
// from the dependent's existing call usage text and the newly added
// parameters (spec.md §4.7).
func buildSuggested(name, usage string, added []Param) string {
	existing := existingArgs(usage)
	for _, p := range added {
		existing = append(existing, "<"+p.Name+">")
	}
	return name + "(" + strings.Join(existing, ", ") + ")"
}

// existingArgs extracts the argument list text from a captured "NAME(args)"
// usage string.
func existingArgs(usage string) []string {
	open := strings.IndexByte(usage, '(')
	if open < 0 {
		return nil
	}
	closeIdx := matchingParen(usage, open)
	if closeIdx < 0 {
		return nil
	}
	var args []string
	for _, raw := range splitTopLevelCommas(usage[open+1 : closeIdx]) {
		a := strings.TrimSpace(raw)
		if a != "" {
			args = append(args, a)
		}
	}
	return args
}

// extractSignature scans a symbol's snippet linewise for a Rust/Python/JS
// function header and parses it (spec.md §4.7's "Signature extraction").
func extractSignature(snippet string) (Signature, bool) {
	for _, line := range strings.Split(snippet, "\n") {
		switch {
		case strings.HasPrefix(strings.TrimSpace(line), "fn ") || strings.Contains(line, " fn "):
			idx := strings.Index(line, "fn ")
			rest := line[idx+len("fn "):]
			if end := strings.IndexByte(rest, '{'); end >= 0 {
				rest = rest[:end]
			}
			return parseSignature(strings.TrimSpace(rest))
		case strings.HasPrefix(strings.TrimSpace(line), "def "):
			rest := strings.TrimPrefix(strings.TrimSpace(line), "def ")
			if end := strings.LastIndexByte(rest, ':'); end >= 0 {
				rest = rest[:end]
			}
			return parseSignature(strings.TrimSpace(rest))
		case strings.HasPrefix(strings.TrimSpace(line), "function "):
			rest := strings.TrimPrefix(strings.TrimSpace(line), "function ")
			if end := strings.IndexByte(rest, '{'); end >= 0 {
				rest = rest[:end]
			}
			return parseSignature(strings.TrimSpace(rest))
		}
	}
	return Signature{}, false
}

// predictCallSite locates the first TARGET( occurrence in dep's snippet,
// extracts its balanced argument list, and builds the Edit with file
// context lines (spec.md §4.7's "Call-site prediction").
func predictCallSite(dep graph.Node, target string) (Edit, bool) {
	needle := target + "("
	lines := strings.Split(dep.Snippet, "\n")
	for offset, line := range lines {
		idx := strings.Index(line, needle)
		if idx < 0 {
			continue
		}
		open := idx + len(target)
		closeIdx := matchingParen(line, open)
		usage := line[idx:]
		if closeIdx >= 0 {
			usage = line[idx : closeIdx+1]
		}

		edit := Edit{
			File:        dep.FilePath,
			Line:        dep.LineStart + offset,
			InSymbol:    dep.Name,
			Usage:       strings.TrimSpace(usage),
			LineContent: contextLines(dep.FilePath, dep.LineStart+offset),
		}
		return edit, true
	}
	return Edit{}, false
}

// contextLines reads path and returns line±2 around line, prefixed with "> "
// on the exact line and "  " otherwise; on read failure, returns nil
// (spec.md §4.7).
func contextLines(path string, line int) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	all := strings.Split(string(data), "\n")

	start := line - 2
	if start < 1 {
		start = 1
	}
	end := line + 2
	if end > len(all) {
		end = len(all)
	}

	var out []string
	for i := start; i <= end; i++ {
		prefix := "  "
		if i == line {
			prefix = "> "
		}
		out = append(out, prefix+all[i-1])
	}
	return out
}
