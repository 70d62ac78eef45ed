package generator

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netpath/internal/graph"
	"github.com/vanshika/netpath/internal/pathfinder"
	"github.com/vanshika/netpath/internal/repository"
)

func TestGenerate_Connected(t *testing.T) {
	cfg := Config{NumNodes: 60, NumEdges: 100, MaxWeight: 9, SpanningTree: true, Seed: 7}
	ds, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Nodes, 60)
	require.Len(t, ds.Edges, 100)
	for _, e := range ds.Edges {
		assert.GreaterOrEqual(t, e.Weight, int64(1))
		assert.LessOrEqual(t, e.Weight, int64(9))
	}

	store := graph.New(ds.Nodes, ds.Edges)
	assert.Equal(t, 100, store.EdgeCount())
	finder := pathfinder.New(store)
	for _, n := range ds.Nodes {
		res := finder.ShortestPath(1, n.ID)
		assert.True(t, res.Distance.Reachable, "node %d unreachable", n.ID)
	}
}

func TestGenerate_SpanningTreeRaisesEdgeCount(t *testing.T) {
	ds, err := New(Config{NumNodes: 10, NumEdges: 2, SpanningTree: true, Seed: 1}).Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Edges, 9)
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := Config{NumNodes: 20, NumEdges: 40, Seed: 99}
	a, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	b, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(Config{NumNodes: 5, NumEdges: 5, Seed: 1}).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestColumnLabel(t *testing.T) {
	cases := map[int]string{0: "A", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA", 701: "ZZ", 702: "AAA"}
	for in, want := range cases {
		assert.Equal(t, want, columnLabel(in), "index %d", in)
	}
}

func TestWriteDataset_RoundTripsThroughCSVSource(t *testing.T) {
	ds, err := New(Config{NumNodes: 15, NumEdges: 30, SpanningTree: true, Seed: 3}).Generate(context.Background())
	require.NoError(t, err)

	nodesPath, edgesPath, err := WriteDataset(ds, t.TempDir())
	require.NoError(t, err)
	_, err = os.Stat(nodesPath)
	require.NoError(t, err)

	src := repository.NewCSVSource(nodesPath, edgesPath)
	nodes, err := src.LoadNodes(context.Background())
	require.NoError(t, err)
	edges, err := src.LoadEdges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ds.Nodes, nodes)
	assert.Equal(t, ds.Edges, edges)
}
