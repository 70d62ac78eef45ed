package repository

import (
	"context"
	"fmt"

	"github.com/vanshika/netpath/internal/domain"
	"github.com/vanshika/netpath/internal/graphdb"
)

const (
	loadNodesCypher = `
MATCH (n:Node)
RETURN n.id AS id, n.label AS label
ORDER BY n.seq`

	loadEdgesCypher = `
MATCH (a:Node)-[r:LINK]->(b:Node)
RETURN a.id AS source, b.id AS target, r.weight AS weight
ORDER BY r.seq`

	nextNodeSeqCypher = `MATCH (n:Node) RETURN coalesce(max(n.seq), 0) AS seq`
	nextEdgeSeqCypher = `MATCH ()-[r:LINK]->() RETURN coalesce(max(r.seq), 0) AS seq`

	saveNodesCypher = `
UNWIND $rows AS row
CREATE (n:Node {id: row.id, label: row.label, seq: row.seq})`

	// Rows whose endpoints do not exist match nothing and are skipped. A
	// repeated node id resolves to its lowest seq, so each row creates one LINK.
	saveEdgesCypher = `
UNWIND $rows AS row
MATCH (a:Node {id: row.source})
WITH row, a ORDER BY a.seq
WITH row, head(collect(a)) AS a
MATCH (b:Node {id: row.target})
WITH row, a, b ORDER BY b.seq
WITH row, a, head(collect(b)) AS b
CREATE (a)-[:LINK {weight: row.weight, seq: row.seq}]->(b)`
)

const neo4jBatchSize = 500

// Neo4jSource stores nodes as (:Node {id, label, seq}) and edges as
// [:LINK {weight, seq}] relationships; seq preserves table order.
type Neo4jSource struct {
	client graphdb.Client
}

// NewNeo4jSource wraps client. The source owns the client and closes it.
func NewNeo4jSource(client graphdb.Client) *Neo4jSource {
	return &Neo4jSource{client: client}
}

// Client exposes the underlying connection for health probes.
func (s *Neo4jSource) Client() graphdb.Client {
	return s.client
}

// Close closes the underlying client.
func (s *Neo4jSource) Close() error {
	return s.client.Close(context.Background())
}

// LoadNodes returns every node in seq order.
func (s *Neo4jSource) LoadNodes(ctx context.Context) ([]domain.NodeRecord, error) {
	rows, err := s.client.Read(ctx, loadNodesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load nodes query: %w", err)
	}

	nodes := make([]domain.NodeRecord, 0, len(rows))
	for i, row := range rows {
		id, ok := row.Int64("id")
		if !ok {
			return nil, malformed("neo4j nodes", i+1, "id %v is not an integer", row["id"])
		}
		label, _ := row.String("label")
		nodes = append(nodes, domain.NodeRecord{ID: id, Label: label})
	}
	return nodes, nil
}

// LoadEdges returns every LINK relationship in seq order.
func (s *Neo4jSource) LoadEdges(ctx context.Context) ([]domain.EdgeRecord, error) {
	rows, err := s.client.Read(ctx, loadEdgesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("load edges query: %w", err)
	}

	edges := make([]domain.EdgeRecord, 0, len(rows))
	for i, row := range rows {
		var vals [3]int64
		for j, col := range []string{"source", "target", "weight"} {
			v, ok := row.Int64(col)
			if !ok {
				return nil, malformed("neo4j edges", i+1, "%s %v is not an integer", col, row[col])
			}
			vals[j] = v
		}
		edges = append(edges, domain.EdgeRecord{Source: vals[0], Target: vals[1], Weight: vals[2]})
	}
	return edges, nil
}

// SaveNodes appends nodes after the highest stored seq.
func (s *Neo4jSource) SaveNodes(ctx context.Context, nodes []domain.NodeRecord) error {
	seq, err := s.nextSeq(ctx, nextNodeSeqCypher)
	if err != nil {
		return err
	}
	rows := make([]map[string]any, len(nodes))
	for i, n := range nodes {
		rows[i] = map[string]any{"id": n.ID, "label": n.Label, "seq": seq + int64(i)}
	}
	return s.writeBatches(ctx, saveNodesCypher, rows)
}

// SaveEdges appends edges after the highest stored seq.
func (s *Neo4jSource) SaveEdges(ctx context.Context, edges []domain.EdgeRecord) error {
	seq, err := s.nextSeq(ctx, nextEdgeSeqCypher)
	if err != nil {
		return err
	}
	rows := make([]map[string]any, len(edges))
	for i, e := range edges {
		rows[i] = map[string]any{"source": e.Source, "target": e.Target, "weight": e.Weight, "seq": seq + int64(i)}
	}
	return s.writeBatches(ctx, saveEdgesCypher, rows)
}

func (s *Neo4jSource) nextSeq(ctx context.Context, cypher string) (int64, error) {
	rows, err := s.client.Read(ctx, cypher, nil)
	if err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}
	if len(rows) == 0 {
		return 1, nil
	}
	last, _ := rows[0].Int64("seq")
	return last + 1, nil
}

func (s *Neo4jSource) writeBatches(ctx context.Context, cypher string, rows []map[string]any) error {
	for start := 0; start < len(rows); start += neo4jBatchSize {
		end := min(start+neo4jBatchSize, len(rows))
		if _, err := s.client.Write(ctx, cypher, map[string]any{"rows": rows[start:end]}); err != nil {
			return fmt.Errorf("write rows %d-%d: %w", start+1, end, err)
		}
	}
	return nil
}
