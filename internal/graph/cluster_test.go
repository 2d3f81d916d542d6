package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClustersGroupsConnectedFiles(t *testing.T) {
	g := New()
	a := g.AddFile("a.go")
	b := g.AddFile("b.go")
	c := g.AddFile("c.go")
	lonely := g.AddFile("lonely.go")
	_ = lonely

	g.AddEdge(a, b, EdgeImports)
	g.AddEdge(b, c, EdgeImports)

	clusters := g.Clusters()
	require.Len(t, clusters, 2)
	require.Len(t, clusters[0].Files, 3)
	require.Greater(t, clusters[0].Cohesion, 0.0)
	require.Len(t, clusters[1].Files, 1)
	require.Equal(t, 0.0, clusters[1].Cohesion)
}
