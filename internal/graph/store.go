// Package graph holds the immutable weighted undirected graph that shortest
// path queries run against.
package graph

import (
	"fmt"
	"strconv"

	"github.com/vanshika/netpath/internal/domain"
)

// Store is a read-only graph built once from node and edge records. All of
// its methods are pure reads, so a Store may be shared by any number of
// goroutines without locking.
type Store struct {
	order  []int64
	labels map[int64]string
	adj    map[int64][]domain.Adjacency
	edges  []domain.Edge
}

// New builds a Store from node and edge records.
//
// Node order is preserved for enumeration; a repeated id keeps its first
// position and takes the label of its last occurrence. Edges are accepted in
// input order when both endpoints are known and the weight is non-negative.
// Only accepted edges consume an id, so ids are e1, e2, ... without gaps.
// Rejected edges are dropped silently.
func New(nodes []domain.NodeRecord, edges []domain.EdgeRecord) *Store {
	s := &Store{
		order:  make([]int64, 0, len(nodes)),
		labels: make(map[int64]string, len(nodes)),
		adj:    make(map[int64][]domain.Adjacency, len(nodes)),
	}

	for _, n := range nodes {
		if _, seen := s.labels[n.ID]; !seen {
			s.order = append(s.order, n.ID)
			s.adj[n.ID] = nil
		}
		s.labels[n.ID] = n.Label
	}

	counter := 1
	for _, e := range edges {
		if !s.Has(e.Source) || !s.Has(e.Target) || e.Weight < 0 {
			continue
		}

		id := fmt.Sprintf("e%d", counter)
		s.edges = append(s.edges, domain.Edge{
			ID:     id,
			From:   e.Source,
			To:     e.Target,
			Label:  strconv.FormatInt(e.Weight, 10),
			Weight: e.Weight,
		})
		s.adj[e.Source] = append(s.adj[e.Source], domain.Adjacency{Neighbor: e.Target, Weight: e.Weight, EdgeID: id})
		s.adj[e.Target] = append(s.adj[e.Target], domain.Adjacency{Neighbor: e.Source, Weight: e.Weight, EdgeID: id})

		counter++
	}

	return s
}

// Has reports whether id is a node of the graph.
func (s *Store) Has(id int64) bool {
	_, ok := s.labels[id]
	return ok
}

// LabelOf returns the display label of a known node.
func (s *Store) LabelOf(id int64) (string, bool) {
	label, ok := s.labels[id]
	return label, ok
}

// NeighborsOf returns the adjacency list of id. Unknown and isolated nodes
// yield an empty list. The returned slice must not be modified.
func (s *Store) NeighborsOf(id int64) []domain.Adjacency {
	return s.adj[id]
}

// AllNodes returns node ids in input order.
func (s *Store) AllNodes() []int64 {
	ids := make([]int64, len(s.order))
	copy(ids, s.order)
	return ids
}

// AllNodeRecords returns every node with its label in input order.
func (s *Store) AllNodeRecords() []domain.Node {
	nodes := make([]domain.Node, 0, len(s.order))
	for _, id := range s.order {
		nodes = append(nodes, domain.Node{ID: id, Label: s.labels[id]})
	}
	return nodes
}

// AllEdgeRecords returns every accepted edge in acceptance order.
func (s *Store) AllEdgeRecords() []domain.Edge {
	edges := make([]domain.Edge, len(s.edges))
	copy(edges, s.edges)
	return edges
}

// Data returns the full node and edge dump.
func (s *Store) Data() domain.GraphData {
	return domain.GraphData{
		Nodes: s.AllNodeRecords(),
		Edges: s.AllEdgeRecords(),
	}
}

// NodeCount is the number of distinct node ids.
func (s *Store) NodeCount() int { return len(s.order) }

// EdgeCount is the number of accepted edges.
func (s *Store) EdgeCount() int { return len(s.edges) }
