package generator

// Config drives the synthetic graph generator.
type Config struct {
	NumNodes  int
	NumEdges  int
	MaxWeight int64
	// SpanningTree links every node to an earlier one before random edges
	// are added, so the generated graph is connected.
	SpanningTree bool
	Seed         int64
}

// DefaultConfig returns settings that produce a small connected road-map
// style graph.
func DefaultConfig() Config {
	return Config{
		NumNodes:     1000,
		NumEdges:     3000,
		MaxWeight:    100,
		SpanningTree: true,
		Seed:         42,
	}
}
