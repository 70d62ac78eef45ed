package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/vanshika/netpath/internal/domain"
)

// Dataset contains the generated node and edge tables.
type Dataset struct {
	Nodes []domain.NodeRecord
	Edges []domain.EdgeRecord
}

// Generator produces synthetic node and edge tables.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance. Non-positive sizes fall back
// to DefaultConfig; a zero seed picks one from the clock.
func New(cfg Config) *Generator {
	if cfg.NumNodes <= 0 {
		cfg.NumNodes = DefaultConfig().NumNodes
	}
	if cfg.NumEdges < 0 {
		cfg.NumEdges = DefaultConfig().NumEdges
	}
	if cfg.MaxWeight <= 0 {
		cfg.MaxWeight = DefaultConfig().MaxWeight
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate synthesises the tables. It respects context cancellation.
//
// Node ids run from 1 to NumNodes with spreadsheet-column labels (A, B, ...,
// Z, AA, AB, ...). With SpanningTree set the first NumNodes-1 edges connect
// each node to a random earlier node; the rest join random pairs, so
// self-loops and parallel edges can appear.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	nodes := make([]domain.NodeRecord, g.cfg.NumNodes)
	for i := range nodes {
		nodes[i] = domain.NodeRecord{ID: int64(i + 1), Label: columnLabel(i)}
	}

	edges := make([]domain.EdgeRecord, 0, g.edgeCount())
	if g.cfg.SpanningTree {
		for i := 1; i < len(nodes); i++ {
			if err := ctx.Err(); err != nil {
				return Dataset{}, err
			}
			parent := nodes[g.rand.Intn(i)]
			edges = append(edges, domain.EdgeRecord{
				Source: parent.ID,
				Target: nodes[i].ID,
				Weight: g.weight(),
			})
		}
	}

	for len(edges) < cap(edges) {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		edges = append(edges, domain.EdgeRecord{
			Source: nodes[g.rand.Intn(len(nodes))].ID,
			Target: nodes[g.rand.Intn(len(nodes))].ID,
			Weight: g.weight(),
		})
	}

	return Dataset{Nodes: nodes, Edges: edges}, nil
}

func (g *Generator) edgeCount() int {
	if g.cfg.SpanningTree {
		return max(g.cfg.NumEdges, g.cfg.NumNodes-1)
	}
	return g.cfg.NumEdges
}

func (g *Generator) weight() int64 {
	return 1 + g.rand.Int63n(g.cfg.MaxWeight)
}

// columnLabel maps 0 -> A, 25 -> Z, 26 -> AA.
func columnLabel(i int) string {
	var buf []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		buf = append([]byte{byte('A' + (n-1)%26)}, buf...)
	}
	return string(buf)
}
