package pathfinder

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netpath/internal/domain"
	"github.com/vanshika/netpath/internal/graph"
)

func abcStore(extraNodes []domain.NodeRecord, edges []domain.EdgeRecord) *graph.Store {
	nodes := append([]domain.NodeRecord{
		{ID: 1, Label: "A"},
		{ID: 2, Label: "B"},
		{ID: 3, Label: "C"},
	}, extraNodes...)
	return graph.New(nodes, edges)
}

func triangle() []domain.EdgeRecord {
	return []domain.EdgeRecord{
		{Source: 1, Target: 2, Weight: 5},
		{Source: 2, Target: 3, Weight: 3},
		{Source: 1, Target: 3, Weight: 10},
	}
}

func TestShortestPath_PrefersCheaperDetour(t *testing.T) {
	f := New(abcStore(nil, triangle()))

	res := f.ShortestPath(1, 3)

	require.NoError(t, res.Err)
	assert.Equal(t, []int64{1, 2, 3}, res.Nodes)
	assert.Equal(t, []string{"e1", "e2"}, res.Edges)
	assert.Equal(t, []string{"A", "B", "C"}, res.Labels)
	assert.Equal(t, domain.Reached(8), res.Distance)
	assert.True(t, res.Found())
}

func TestShortestPath_SameNode(t *testing.T) {
	f := New(abcStore(nil, triangle()))

	res := f.ShortestPath(2, 2)

	require.NoError(t, res.Err)
	assert.Equal(t, []int64{2}, res.Nodes)
	assert.Empty(t, res.Edges)
	assert.NotNil(t, res.Edges)
	assert.Equal(t, []string{"B"}, res.Labels)
	assert.Equal(t, domain.Reached(0), res.Distance)
}

func TestShortestPath_UnknownEndpoint(t *testing.T) {
	f := New(abcStore(nil, triangle()))

	for _, pair := range []domain.NodePair{{Start: 1, End: 42}, {Start: 42, End: 1}, {Start: 41, End: 42}} {
		res := f.ShortestPath(pair.Start, pair.End)

		require.ErrorIs(t, res.Err, domain.ErrNodeNotFound)
		assert.Empty(t, res.Nodes)
		assert.Empty(t, res.Edges)
		assert.Empty(t, res.Labels)
		assert.False(t, res.Distance.Reachable)
		assert.False(t, res.Found())
	}
}

func TestShortestPath_UnknownEndpointOnEmptyGraph(t *testing.T) {
	f := New(graph.New(nil, nil))

	res := f.ShortestPath(1, 1)
	require.ErrorIs(t, res.Err, domain.ErrNodeNotFound)
}

func TestShortestPath_Disconnected(t *testing.T) {
	f := New(abcStore([]domain.NodeRecord{{ID: 9, Label: "I"}}, triangle()))

	res := f.ShortestPath(1, 9)

	assert.NoError(t, res.Err)
	assert.Empty(t, res.Nodes)
	assert.NotNil(t, res.Nodes)
	assert.Empty(t, res.Edges)
	assert.Empty(t, res.Labels)
	assert.False(t, res.Distance.Reachable)
	assert.False(t, res.Found())
}

func TestShortestPath_RejectedEdgeDoesNotShiftIDs(t *testing.T) {
	f := New(abcStore(nil, []domain.EdgeRecord{
		{Source: 4, Target: 2, Weight: 1},
		{Source: 2, Target: 3, Weight: 3},
	}))

	res := f.ShortestPath(2, 3)

	require.NoError(t, res.Err)
	assert.Equal(t, []string{"e1"}, res.Edges)
	assert.Equal(t, domain.Reached(3), res.Distance)
}

func TestShortestPath_ZeroWeightEdges(t *testing.T) {
	f := New(abcStore(nil, []domain.EdgeRecord{
		{Source: 1, Target: 2, Weight: 0},
		{Source: 2, Target: 3, Weight: 0},
		{Source: 3, Target: 3, Weight: 0},
	}))

	res := f.ShortestPath(3, 1)

	require.NoError(t, res.Err)
	assert.Equal(t, []int64{3, 2, 1}, res.Nodes)
	assert.Equal(t, []string{"e2", "e1"}, res.Edges)
	assert.Equal(t, domain.Reached(0), res.Distance)
}

func TestShortestPath_ParallelEdgesPickCheapest(t *testing.T) {
	f := New(abcStore(nil, []domain.EdgeRecord{
		{Source: 1, Target: 2, Weight: 7},
		{Source: 2, Target: 1, Weight: 2},
	}))

	res := f.ShortestPath(1, 2)

	require.NoError(t, res.Err)
	assert.Equal(t, []string{"e2"}, res.Edges)
	assert.Equal(t, domain.Reached(2), res.Distance)
}

// randomGraph builds a reproducible graph with a few isolated nodes.
func randomGraph(seed int64, nodes, edges int) (*graph.Store, map[string]domain.Edge) {
	rng := rand.New(rand.NewSource(seed))
	var nr []domain.NodeRecord
	for i := 1; i <= nodes; i++ {
		nr = append(nr, domain.NodeRecord{ID: int64(i), Label: string(rune('a' + i%26))})
	}
	var er []domain.EdgeRecord
	for i := 0; i < edges; i++ {
		er = append(er, domain.EdgeRecord{
			Source: int64(rng.Intn(nodes-3) + 1),
			Target: int64(rng.Intn(nodes-3) + 1),
			Weight: int64(rng.Intn(20)),
		})
	}
	s := graph.New(nr, er)
	byID := make(map[string]domain.Edge)
	for _, e := range s.AllEdgeRecords() {
		byID[e.ID] = e
	}
	return s, byID
}

// referenceDistances is a Bellman-Ford relaxation used as an oracle.
func referenceDistances(s *graph.Store, start int64) map[int64]int64 {
	dist := map[int64]int64{start: 0}
	for range s.AllNodes() {
		for _, e := range s.AllEdgeRecords() {
			if d, ok := dist[e.From]; ok {
				if cur, seen := dist[e.To]; !seen || d+e.Weight < cur {
					dist[e.To] = d + e.Weight
				}
			}
			if d, ok := dist[e.To]; ok {
				if cur, seen := dist[e.From]; !seen || d+e.Weight < cur {
					dist[e.From] = d + e.Weight
				}
			}
		}
	}
	return dist
}

func TestShortestPath_MatchesReferenceOnRandomGraphs(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		s, byID := randomGraph(seed, 40, 90)
		f := New(s)

		for _, start := range s.AllNodes() {
			want := referenceDistances(s, start)
			for _, end := range s.AllNodes() {
				res := f.ShortestPath(start, end)
				require.NoError(t, res.Err)

				d, reachable := want[end]
				require.Equal(t, reachable, res.Distance.Reachable, "seed %d %d->%d", seed, start, end)
				if !reachable {
					assert.Empty(t, res.Nodes)
					continue
				}
				require.Equal(t, d, res.Distance.Value, "seed %d %d->%d", seed, start, end)

				require.Len(t, res.Edges, len(res.Nodes)-1)
				require.Len(t, res.Labels, len(res.Nodes))
				assert.Equal(t, start, res.Nodes[0])
				assert.Equal(t, end, res.Nodes[len(res.Nodes)-1])

				var sum int64
				for i, id := range res.Edges {
					e := byID[id]
					a, b := res.Nodes[i], res.Nodes[i+1]
					joined := (e.From == a && e.To == b) || (e.From == b && e.To == a)
					require.True(t, joined, "edge %s does not join %d and %d", id, a, b)
					sum += e.Weight
				}
				assert.Equal(t, res.Distance.Value, sum)
			}
		}
	}
}

func TestShortestPath_WeightOverflow(t *testing.T) {
	f := New(abcStore(nil, []domain.EdgeRecord{
		{Source: 1, Target: 2, Weight: math.MaxInt64},
		{Source: 2, Target: 3, Weight: math.MaxInt64},
	}))

	res := f.ShortestPath(1, 3)
	require.NoError(t, res.Err)
	assert.False(t, res.Distance.Reachable)
	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Edges)

	res = f.ShortestPath(1, 2)
	assert.Equal(t, domain.Reached(math.MaxInt64), res.Distance)
}

func TestShortestPath_WeightSumAtMaxInt64(t *testing.T) {
	f := New(abcStore(nil, []domain.EdgeRecord{
		{Source: 1, Target: 2, Weight: math.MaxInt64 - 1},
		{Source: 2, Target: 3, Weight: 1},
		{Source: 1, Target: 3, Weight: math.MaxInt64},
	}))

	res := f.ShortestPath(1, 3)
	assert.Equal(t, domain.Reached(math.MaxInt64), res.Distance)
	assert.GreaterOrEqual(t, res.Distance.Value, int64(0))
	assert.Equal(t, []string{"e3"}, res.Edges)
}

func TestShortestPath_Symmetric(t *testing.T) {
	s, _ := randomGraph(11, 30, 60)
	f := New(s)

	for _, a := range s.AllNodes() {
		for _, b := range s.AllNodes() {
			assert.Equal(t, f.ShortestPath(a, b).Distance, f.ShortestPath(b, a).Distance, "%d<->%d", a, b)
		}
	}
}

func TestShortestPath_ConcurrentQueries(t *testing.T) {
	s, _ := randomGraph(3, 50, 120)
	f := New(s)
	want := f.ShortestPath(1, 20)

	done := make(chan domain.PathResult, 16)
	for i := 0; i < cap(done); i++ {
		go func() { done <- f.ShortestPath(1, 20) }()
	}
	for i := 0; i < cap(done); i++ {
		assert.Equal(t, want, <-done)
	}
}

func BenchmarkShortestPath(b *testing.B) {
	s, _ := randomGraph(7, 2000, 8000)
	f := New(s)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.ShortestPath(1, 1500)
	}
}
