// Package build turns a directory tree into a fresh graph.Graph: walk,
// extract in parallel, merge.
package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/anchorhq/anchord/internal/extract"
	"github.com/anchorhq/anchord/internal/graph"
	"github.com/anchorhq/anchord/internal/lang"
)

// ignoredDirs mirrors internal/watch's always-ignored directory names
// (spec.md §4.6); the builder applies the same list so a full scan and an
// incremental watch rebuild never disagree about what's in scope.
var ignoredDirs = map[string]bool{
	".git": true, "target": true, "node_modules": true, ".anchor": true,
	"__pycache__": true, ".venv": true, "dist": true, "build": true,
}

// Options configures a Build.
type Options struct {
	// Ignore holds additional gitignore-style glob patterns (relative to
	// Root) to exclude, beyond the always-ignored directory names and
	// hidden files.
	Ignore []string
	Logger *slog.Logger
}

// Build enumerates supported source files under root, honoring
// .gitignore-style patterns and the always-ignored directory list, extracts
// each file in parallel (one task per file, failures logged and dropped, per
// spec.md §4.4), and returns a fresh graph built from the union of all
// per-file extractions.
func Build(ctx context.Context, root string, opts Options) (*graph.Graph, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	files, err := discoverFiles(root, append(readGitignore(root), opts.Ignore...))
	if err != nil {
		return nil, err
	}

	g := graph.New()
	extractions := extractAll(ctx, root, files, logger)
	g.BuildFromExtractions(extractions)
	return g, nil
}

// discoverFiles walks root, skipping always-ignored directories, hidden
// entries, and anything matched by an Ignore pattern (matched against the
// path relative to root), and returns the paths (root joined with the
// relative path, as WalkDir yields them) of every file with a supported
// extension.
func discoverFiles(root string, ignore []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal (spec.md §4.4)
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if rel == "." {
			return nil
		}

		base := filepath.Base(path)
		if d.IsDir() {
			if ignoredDirs[base] || (strings.HasPrefix(base, ".") && base != ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(base, ".") {
			return nil
		}
		if _, ok := lang.FromPath(path); !ok {
			return nil
		}
		if matchesAny(ignore, filepath.ToSlash(rel)) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	return files, err
}

// readGitignore returns the non-comment, non-blank lines of root's
// top-level .gitignore as doublestar patterns, or nil if there isn't one.
func readGitignore(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "/")
		if !strings.Contains(line, "*") {
			line = line + "/**"
		}
		patterns = append(patterns, line)
	}
	return patterns
}

func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// extractAll fans out one extraction task per file over an errgroup worker
// pool; a file that fails to read or parse is logged and dropped, never
// fatal to the build (spec.md §4.4).
func extractAll(ctx context.Context, root string, files []string, logger *slog.Logger) []*extract.FileExtractions {
	results := make([]*extract.FileExtractions, len(files))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			source, err := os.ReadFile(path)
			if err != nil {
				logger.Warn("skipping unreadable file", "path", path, "err", err)
				return nil
			}
			fe, err := extract.File(path, source)
			if err != nil {
				logger.Warn("skipping unparseable file", "path", path, "err", err)
				return nil
			}
			results[i] = fe
			return nil
		})
	}
	_ = g.Wait() // extractAll's tasks never return an error; this can't fail

	out := make([]*extract.FileExtractions, 0, len(results))
	for _, fe := range results {
		if fe != nil {
			out = append(out, fe)
		}
	}
	return out
}

// ExtractFile reads and extracts a single file off-lock: the file read and
// tree-sitter parse are suspension points that spec.md §5 forbids happening
// inside the graph lock, so this step is split from the graph mutation
// below and meant to run before any lock is taken.
func ExtractFile(path string) (*extract.FileExtractions, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return extract.File(path, source)
}

// ApplyFile merges a single file's already-computed extraction into g:
// tombstones the file's previous symbols, then inserts the fresh
// extraction. Used by the watcher for incremental updates (spec.md §4.6).
// Callers are responsible for holding the graph's write lock across this
// call, and only this call — fe must already be computed off-lock via
// ExtractFile.
func ApplyFile(g *graph.Graph, path string, fe *extract.FileExtractions) {
	g.RemoveFile(path)
	g.BuildFromExtractions([]*extract.FileExtractions{fe})
}
