// Package pathfinder answers single-pair shortest-path queries over a graph
// with non-negative integer weights.
//
// The search is Dijkstra's algorithm with a binary heap and lazy
// decrease-key: an improved distance is pushed as a new heap entry and the
// outdated entry is skipped when popped. Time O((V+E) log V), space O(V+E).
package pathfinder

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/vanshika/netpath/internal/domain"
)

// Graph is the read-only view the finder needs. *graph.Store implements it.
type Graph interface {
	Has(id int64) bool
	LabelOf(id int64) (string, bool)
	NeighborsOf(id int64) []domain.Adjacency
	AllNodes() []int64
}

// Finder runs shortest-path queries against a single graph. It holds no
// mutable state, so one Finder may serve concurrent queries.
type Finder struct {
	g Graph
}

// New returns a Finder over g.
func New(g Graph) *Finder {
	return &Finder{g: g}
}

// ShortestPath returns the minimum-weight path from start to end.
//
// An unknown start or end yields an empty path, an unreachable distance and
// Err wrapping domain.ErrNodeNotFound. When end cannot be reached the result
// has empty paths, an unreachable distance and no error.
func (f *Finder) ShortestPath(start, end int64) domain.PathResult {
	if !f.g.Has(start) || !f.g.Has(end) {
		return domain.PathResult{
			Nodes:    []int64{},
			Edges:    []string{},
			Labels:   []string{},
			Distance: domain.Unreachable(),
			Err:      fmt.Errorf("%w: start=%d end=%d", domain.ErrNodeNotFound, start, end),
		}
	}

	r := newRunner(f.g, start)
	r.run(end)
	return r.result(start, end)
}

// predecessor records how a node was reached on its best known path.
type predecessor struct {
	node   int64
	edgeID string
	ok     bool
}

// runner holds the working state of one query.
type runner struct {
	g    Graph
	dist map[int64]int64
	prev map[int64]predecessor
	pq   nodePQ
	seq  uint64
}

func newRunner(g Graph, start int64) *runner {
	nodes := g.AllNodes()
	r := &runner{
		g:    g,
		dist: make(map[int64]int64, len(nodes)),
		prev: make(map[int64]predecessor, len(nodes)),
		pq:   make(nodePQ, 0, len(nodes)),
	}
	// Absence from dist means infinity.
	r.dist[start] = 0
	heap.Init(&r.pq)
	r.push(start, 0)
	return r
}

func (r *runner) push(id, dist int64) {
	heap.Push(&r.pq, &nodeItem{id: id, dist: dist, seq: r.seq})
	r.seq++
}

// run settles nodes in order of distance until end is settled or the
// frontier is exhausted.
func (r *runner) run(end int64) {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u, d := item.id, item.dist

		if best, ok := r.dist[u]; ok && d > best {
			continue
		}
		if u == end {
			return
		}

		for _, a := range r.g.NeighborsOf(u) {
			// Distances past MaxInt64 are treated as unreachable through this edge.
			if a.Weight > math.MaxInt64-d {
				continue
			}
			candidate := d + a.Weight
			if best, ok := r.dist[a.Neighbor]; ok && candidate >= best {
				continue
			}
			r.dist[a.Neighbor] = candidate
			r.prev[a.Neighbor] = predecessor{node: u, edgeID: a.EdgeID, ok: true}
			r.push(a.Neighbor, candidate)
		}
	}
}

// result walks predecessor records back from end to start.
func (r *runner) result(start, end int64) domain.PathResult {
	total, reached := r.dist[end]
	if !reached {
		return domain.PathResult{
			Nodes:    []int64{},
			Edges:    []string{},
			Labels:   []string{},
			Distance: domain.Unreachable(),
		}
	}

	var nodes []int64
	var edges []string
	for cur := end; ; {
		nodes = append(nodes, cur)
		p := r.prev[cur]
		if !p.ok || cur == start {
			break
		}
		edges = append(edges, p.edgeID)
		cur = p.node
	}
	reverse(nodes)
	reverse(edges)
	if edges == nil {
		edges = []string{}
	}

	labels := make([]string, len(nodes))
	for i, id := range nodes {
		labels[i], _ = r.g.LabelOf(id)
	}

	return domain.PathResult{
		Nodes:    nodes,
		Edges:    edges,
		Labels:   labels,
		Distance: domain.Reached(total),
	}
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// nodeItem is a heap entry: a node and the distance it was pushed with.
type nodeItem struct {
	id   int64
	dist int64
	seq  uint64
}

// nodePQ is a min-heap of *nodeItem ordered by dist, then by push order.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].seq < pq[j].seq
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
