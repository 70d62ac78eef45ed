package domain

// NodeRecord is a raw row of the node table.
type NodeRecord struct {
	ID    int64
	Label string
}

// EdgeRecord is a raw row of the edge table. Source and Target may reference
// ids that are not in the node table; such rows are dropped at load time.
type EdgeRecord struct {
	Source int64
	Target int64
	Weight int64
}

// Node is a vertex retained by the graph store.
type Node struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Edge is an accepted undirected edge with its sequential identifier.
type Edge struct {
	ID     string `json:"id"`
	From   int64  `json:"from"`
	To     int64  `json:"to"`
	Label  string `json:"label"`
	Weight int64  `json:"weight"`
}

// Adjacency is one entry of a node's neighbor list.
type Adjacency struct {
	Neighbor int64
	Weight   int64
	EdgeID   string
}

// GraphData is the full dump consumed by visualization clients.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodePair names the endpoints of a single shortest-path query.
type NodePair struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}
