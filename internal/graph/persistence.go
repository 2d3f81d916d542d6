package graph

import (
	"bytes"
	"encoding/gob"
	"errors"
	"os"
	"path/filepath"

	"github.com/anchorhq/anchord/internal/anchorerr"
)

// serializable mirrors the on-disk shape from spec.md §4.5: nodes in index
// order (their position serves as their id) and each edge as a plain
// (src, dst, kind) tuple plus the removed bit.
type serializable struct {
	Nodes []Node
	Edges []Edge
}

// Save serializes g as {nodes[], edges[]} via encoding/gob, writes to
// path+".tmp", fsyncs, then atomically renames over path.
func Save(g *Graph, path string) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(serializable{Nodes: g.nodes, Edges: g.edges}); err != nil {
		return anchorerr.New(anchorerr.Serialize, path, err)
	}

	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return anchorerr.New(anchorerr.IO, path, err)
	}

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return anchorerr.New(anchorerr.IO, tmp, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return anchorerr.New(anchorerr.IO, tmp, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return anchorerr.New(anchorerr.IO, tmp, err)
	}
	if err := f.Close(); err != nil {
		return anchorerr.New(anchorerr.IO, tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return anchorerr.New(anchorerr.IO, path, err)
	}
	return nil
}

// Load deserializes a graph previously written by Save. A missing file is
// reported as anchorerr.NotFound (the caller decides whether to rebuild
// instead); any other read failure is anchorerr.IO, and a decode failure is
// anchorerr.Deserialize.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, anchorerr.New(anchorerr.NotFound, path, err)
		}
		return nil, anchorerr.New(anchorerr.IO, path, err)
	}

	var s serializable
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return nil, anchorerr.New(anchorerr.Deserialize, path, err)
	}

	g := New()
	g.LoadFrom(s.Nodes, s.Edges)
	return g, nil
}
