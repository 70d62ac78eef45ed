package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/netpath/internal/domain"
	"github.com/vanshika/netpath/internal/graph"
	"github.com/vanshika/netpath/internal/pathfinder"
)

// ErrNotLoaded is returned by queries issued before the first successful Load.
var ErrNotLoaded = errors.New("graph not loaded")

// RecordSource is the storage contract the graph service loads from.
type RecordSource interface {
	LoadNodes(ctx context.Context) ([]domain.NodeRecord, error)
	LoadEdges(ctx context.Context) ([]domain.EdgeRecord, error)
}

// snapshot pairs an immutable store with the finder that reads it.
type snapshot struct {
	store    *graph.Store
	finder   *pathfinder.Finder
	loadedAt time.Time
}

// Stats describes the currently served graph.
type Stats struct {
	Loaded   bool
	Nodes    int
	Edges    int
	LoadedAt time.Time
}

// Options tunes batch query execution.
type Options struct {
	BatchWorkers  int
	BatchMaxPairs int
}

// GraphService owns the graph currently being served. A load builds a new
// immutable store and publishes it with an atomic pointer swap, so queries
// never observe a partially built graph and never need a lock.
type GraphService struct {
	source  RecordSource
	logger  *slog.Logger
	opts    Options
	current atomic.Pointer[snapshot]
	nowFn   func() time.Time
}

// NewGraphService constructs a GraphService. Nothing is loaded until Load is called.
func NewGraphService(source RecordSource, logger *slog.Logger, opts Options) *GraphService {
	if opts.BatchWorkers <= 0 {
		opts.BatchWorkers = 4
	}
	if opts.BatchMaxPairs <= 0 {
		opts.BatchMaxPairs = 1000
	}
	return &GraphService{
		source: source,
		logger: logger.With("component", "graph-service"),
		opts:   opts,
		nowFn:  time.Now,
	}
}

// Load reads the node and edge tables and replaces the served graph. On
// error the previous graph, if any, stays in place.
func (s *GraphService) Load(ctx context.Context) error {
	start := s.nowFn()

	var (
		nodes []domain.NodeRecord
		edges []domain.EdgeRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		nodes, err = s.source.LoadNodes(gctx)
		if err != nil {
			return fmt.Errorf("load nodes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		edges, err = s.source.LoadEdges(gctx)
		if err != nil {
			return fmt.Errorf("load edges: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		graphLoads.WithLabelValues("error").Inc()
		return err
	}

	store := graph.New(nodes, edges)
	s.Publish(store)

	dropped := len(edges) - store.EdgeCount()
	graphLoads.WithLabelValues("ok").Inc()
	s.logger.Info("graph loaded",
		"nodes", store.NodeCount(),
		"edges", store.EdgeCount(),
		"dropped_edges", dropped,
		"duration_ms", s.nowFn().Sub(start).Milliseconds(),
	)
	return nil
}

// Publish makes store the served graph.
func (s *GraphService) Publish(store *graph.Store) {
	s.current.Store(&snapshot{
		store:    store,
		finder:   pathfinder.New(store),
		loadedAt: s.nowFn().UTC(),
	})
	graphNodes.Set(float64(store.NodeCount()))
	graphEdges.Set(float64(store.EdgeCount()))
}

func (s *GraphService) snapshot() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// ShortestPath answers a single query. Unknown endpoints are reported in the
// result's Err field, not as the returned error.
func (s *GraphService) ShortestPath(ctx context.Context, start, end int64) (domain.PathResult, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.PathResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.PathResult{}, err
	}
	return query(snap, start, end), nil
}

func query(snap *snapshot, start, end int64) domain.PathResult {
	began := time.Now()
	res := snap.finder.ShortestPath(start, end)
	observeQuery(res, time.Since(began))
	return res
}

// Nodes returns every node with its label in input order.
func (s *GraphService) Nodes(context.Context) ([]domain.Node, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.store.AllNodeRecords(), nil
}

// Graph returns the full node and edge dump.
func (s *GraphService) Graph(context.Context) (domain.GraphData, error) {
	snap, err := s.snapshot()
	if err != nil {
		return domain.GraphData{}, err
	}
	return snap.store.Data(), nil
}

// Stats reports the size of the served graph.
func (s *GraphService) Stats() Stats {
	snap := s.current.Load()
	if snap == nil {
		return Stats{}
	}
	return Stats{
		Loaded:   true,
		Nodes:    snap.store.NodeCount(),
		Edges:    snap.store.EdgeCount(),
		LoadedAt: snap.loadedAt,
	}
}

// MaxBatchPairs is the largest batch BatchShortestPaths accepts.
func (s *GraphService) MaxBatchPairs() int {
	return s.opts.BatchMaxPairs
}
