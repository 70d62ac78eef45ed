package service

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vanshika/netpath/internal/domain"
)

var (
	// Labels: "found", "unreachable", "not_found"
	pathQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netpath_shortest_path_queries_total",
		Help: "Shortest-path queries by outcome",
	}, []string{"result"})

	pathQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "netpath_shortest_path_duration_seconds",
		Help:    "Shortest-path query duration",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	})

	pathLength = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "netpath_shortest_path_hops",
		Help:    "Number of edges in returned paths",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
	})

	graphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "netpath_graph_nodes",
		Help: "Nodes in the served graph",
	})

	graphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "netpath_graph_edges",
		Help: "Accepted edges in the served graph",
	})

	graphLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "netpath_graph_loads_total",
		Help: "Graph loads and reloads by result",
	}, []string{"result"})
)

func queryOutcome(res domain.PathResult) string {
	switch {
	case errors.Is(res.Err, domain.ErrNodeNotFound):
		return "not_found"
	case !res.Distance.Reachable:
		return "unreachable"
	default:
		return "found"
	}
}

func observeQuery(res domain.PathResult, took time.Duration) {
	outcome := queryOutcome(res)
	pathQueries.WithLabelValues(outcome).Inc()
	pathQueryDuration.Observe(took.Seconds())
	if outcome == "found" {
		pathLength.Observe(float64(len(res.Edges)))
	}
}
