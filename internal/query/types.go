// Package query implements the structural search and context-composition
// layer served over the daemon's socket: plain search, graph BFS, and the
// intent-driven get_context response (spec.md §4.7).
package query

import (
	"strings"
)

// SymbolRef is a lightweight symbol reference surfaced in query responses.
type SymbolRef struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	File      string `json:"file"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
	Snippet   string `json:"snippet,omitempty"`
	Parent    string `json:"parent,omitempty"`
}

// Edit describes one predicted call-site edit for a change/modify/refactor
// intent.
type Edit struct {
	File         string   `json:"file"`
	Line         int      `json:"line"`
	InSymbol     string   `json:"in_symbol"`
	Usage        string   `json:"usage"`
	LineContent  []string `json:"line_content,omitempty"`
	Suggested    string   `json:"suggested,omitempty"`
	NewArgs      []string `json:"new_args,omitempty"`
	RemovedArgs  []string `json:"removed_args,omitempty"`
}

// Connection is one BFS hop surfaced by a search response.
type Connection struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Relationship string `json:"relationship"`
}

// SearchResult is the structured result of a graph-BFS search.
type SearchResult struct {
	MatchedFiles []string     `json:"matched_files"`
	Symbols      []SymbolRef  `json:"symbols"`
	Connections  []Connection `json:"connections"`
}

// Stats mirrors graph.Stats for JSON responses.
type Stats struct {
	FileCount   int `json:"file_count"`
	SymbolCount int `json:"symbol_count"`
	TotalEdges  int `json:"total_edges"`
}

// ContextResponse is the get_context result (spec.md §4.7). Fields are
// omitted from the wire encoding when empty via omitempty.
type ContextResponse struct {
	Query    string      `json:"query"`
	Intent   string      `json:"intent"`
	Found    bool        `json:"found"`
	Symbols  []SymbolRef `json:"symbols,omitempty"`
	UsedBy   []SymbolRef `json:"used_by,omitempty"`
	Uses     []SymbolRef `json:"uses,omitempty"`
	Edits    []Edit      `json:"edits,omitempty"`
	Patterns []SymbolRef `json:"patterns,omitempty"`
	Tests    []SymbolRef `json:"tests,omitempty"`
	Stats    *Stats      `json:"stats,omitempty"`
}

// Param is one parameter of a parsed signature.
type Param struct {
	Name string
	Type string
}

// Signature is a parsed function/method signature: name, params, and an
// optional return type.
type Signature struct {
	Name   string
	Params []Param
	Return string
}

// Diff is the result of comparing two signatures by parameter name.
type Diff struct {
	Added   []Param
	Removed []Param
}

// diffSignatures compares old and new by parameter name (not position, not
// type): added = new \ old, removed = old \ new (spec.md §4.7).
func diffSignatures(oldSig, newSig Signature) Diff {
	oldNames := make(map[string]bool, len(oldSig.Params))
	for _, p := range oldSig.Params {
		oldNames[p.Name] = true
	}
	newNames := make(map[string]bool, len(newSig.Params))
	for _, p := range newSig.Params {
		newNames[p.Name] = true
	}

	var d Diff
	for _, p := range newSig.Params {
		if !oldNames[p.Name] {
			d.Added = append(d.Added, p)
		}
	}
	for _, p := range oldSig.Params {
		if !newNames[p.Name] {
			d.Removed = append(d.Removed, p)
		}
	}
	return d
}

// parseSignature parses "NAME ( PARAMS ) [ -> RETURN ]" captured text, where
// PARAMS is split on top-level commas and each param split at its first
// ':' into {name, type} (type may be empty). Spec.md §4.7.
func parseSignature(captured string) (Signature, bool) {
	open := strings.IndexByte(captured, '(')
	if open < 0 {
		return Signature{}, false
	}
	name := strings.TrimSpace(captured[:open])
	if name == "" {
		return Signature{}, false
	}

	closeIdx := matchingParen(captured, open)
	if closeIdx < 0 {
		return Signature{}, false
	}

	paramsText := captured[open+1 : closeIdx]
	ret := ""
	if arrow := strings.Index(captured[closeIdx:], "->"); arrow >= 0 {
		ret = strings.TrimSpace(strings.TrimSuffix(captured[closeIdx+arrow+2:], "{"))
	}

	sig := Signature{Name: name, Return: ret}
	for _, raw := range splitTopLevelCommas(paramsText) {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		if idx := strings.IndexByte(p, ':'); idx >= 0 {
			sig.Params = append(sig.Params, Param{
				Name: strings.TrimSpace(p[:idx]),
				Type: strings.TrimSpace(p[idx+1:]),
			})
		} else {
			sig.Params = append(sig.Params, Param{Name: p})
		}
	}
	return sig, true
}

// matchingParen returns the index of the ')' matching the '(' at open, or
// -1 if unbalanced.
func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevelCommas splits s on commas that aren't nested inside
// (), [], or {}.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
