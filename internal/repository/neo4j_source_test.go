package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netpath/internal/domain"
	"github.com/vanshika/netpath/internal/graphdb"
)

func TestNeo4jSource_LoadNodes(t *testing.T) {
	mem := graphdb.NewMemoryClient()
	mem.PushReadResult(
		graphdb.Record{"id": int64(1), "label": "A"},
		graphdb.Record{"id": int64(2), "label": "B"},
	)
	src := NewNeo4jSource(mem)

	nodes, err := src.LoadNodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.NodeRecord{{ID: 1, Label: "A"}, {ID: 2, Label: "B"}}, nodes)

	calls := mem.ReadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, loadNodesCypher, calls[0].Query)
}

func TestNeo4jSource_LoadEdges(t *testing.T) {
	mem := graphdb.NewMemoryClient()
	mem.PushReadResult(graphdb.Record{"source": int64(1), "target": int64(2), "weight": int64(5)})
	src := NewNeo4jSource(mem)

	edges, err := src.LoadEdges(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.EdgeRecord{{Source: 1, Target: 2, Weight: 5}}, edges)
}

func TestNeo4jSource_LoadRejectsNonIntegerID(t *testing.T) {
	mem := graphdb.NewMemoryClient()
	mem.PushReadResult(graphdb.Record{"id": "one", "label": "A"})

	_, err := NewNeo4jSource(mem).LoadNodes(context.Background())
	assert.ErrorIs(t, err, ErrMalformedRow)
}

func TestNeo4jSource_LoadPropagatesQueryError(t *testing.T) {
	boom := errors.New("connection reset")
	mem := graphdb.NewMemoryClient().WithError(boom)

	_, err := NewNeo4jSource(mem).LoadEdges(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestNeo4jSource_SaveNodesBatchesWithSequence(t *testing.T) {
	mem := graphdb.NewMemoryClient()
	mem.PushReadResult(graphdb.Record{"seq": int64(7)})
	src := NewNeo4jSource(mem)

	nodes := make([]domain.NodeRecord, neo4jBatchSize+2)
	for i := range nodes {
		nodes[i] = domain.NodeRecord{ID: int64(i + 1), Label: "n"}
	}
	require.NoError(t, src.SaveNodes(context.Background(), nodes))

	writes := mem.WriteCalls()
	require.Len(t, writes, 2)
	assert.Equal(t, saveNodesCypher, writes[0].Query)

	first := writes[0].Params["rows"].([]map[string]any)
	second := writes[1].Params["rows"].([]map[string]any)
	assert.Len(t, first, neo4jBatchSize)
	assert.Len(t, second, 2)
	assert.Equal(t, int64(8), first[0]["seq"])
	assert.Equal(t, int64(8+neo4jBatchSize+1), second[1]["seq"])
}

func TestNeo4jSource_SaveEdgesOnEmptyDatabase(t *testing.T) {
	mem := graphdb.NewMemoryClient()
	src := NewNeo4jSource(mem)

	require.NoError(t, src.SaveEdges(context.Background(), []domain.EdgeRecord{{Source: 1, Target: 2, Weight: 4}}))

	writes := mem.WriteCalls()
	require.Len(t, writes, 1)
	assert.Equal(t, saveEdgesCypher, writes[0].Query)
	rows := writes[0].Params["rows"].([]map[string]any)
	assert.Equal(t, int64(1), rows[0]["seq"])
	assert.Equal(t, int64(4), rows[0]["weight"])
}

func TestNeo4jSource_SaveEdgesResolvesDuplicateIDsOnce(t *testing.T) {
	mem := graphdb.NewMemoryClient()
	src := NewNeo4jSource(mem)

	require.NoError(t, src.SaveEdges(context.Background(), []domain.EdgeRecord{{Source: 1, Target: 2, Weight: 5}}))

	writes := mem.WriteCalls()
	require.Len(t, writes, 1)
	assert.Equal(t, saveEdgesCypher, writes[0].Query)
	assert.Contains(t, saveEdgesCypher, "WITH row, head(collect(a)) AS a")
	assert.Contains(t, saveEdgesCypher, "WITH row, a, head(collect(b)) AS b")
	assert.Contains(t, saveEdgesCypher, "ORDER BY a.seq")
	assert.Contains(t, saveEdgesCypher, "ORDER BY b.seq")

	rows := writes[0].Params["rows"].([]map[string]any)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["seq"])
}
