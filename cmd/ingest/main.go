package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vanshika/netpath/internal/config"
	"github.com/vanshika/netpath/internal/logging"
	"github.com/vanshika/netpath/internal/repository"
)

var errNotSink = errors.New("target does not accept writes")

func main() {
	var (
		nodesPath = flag.String("nodes", "nodes.csv", "Path to the node table")
		edgesPath = flag.String("edges", "edges.csv", "Path to the edge table")
		target    = flag.String("target", config.SourceSQLite, "Ingestion target: sqlite or neo4j")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	if *target != config.SourceSQLite && *target != config.SourceNeo4j {
		logger.Error("unsupported target", "target", *target)
		os.Exit(2)
	}
	cfg.Graph.Source = *target
	if err := config.Validate(cfg); err != nil {
		logger.Error("invalid target configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	csvSource := repository.NewCSVSource(*nodesPath, *edgesPath)
	nodes, err := csvSource.LoadNodes(ctx)
	if err != nil {
		logger.Error("failed to read nodes", "error", err, "path", *nodesPath)
		os.Exit(1)
	}
	if len(nodes) == 0 {
		logger.Error("node table empty", "path", *nodesPath)
		os.Exit(1)
	}
	edges, err := csvSource.LoadEdges(ctx)
	if err != nil {
		logger.Error("failed to read edges", "error", err, "path", *edgesPath)
		os.Exit(1)
	}

	dest, err := repository.Open(ctx, cfg.Graph)
	if err != nil {
		logger.Error("failed to open target", "target", *target, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dest.Close(); err != nil {
			logger.Warn("closing target failed", "error", err)
		}
	}()

	sink, ok := dest.(repository.Sink)
	if !ok {
		logger.Error("ingestion failed", "target", *target, "error", errNotSink)
		os.Exit(1)
	}

	start := time.Now()
	logger.Info("ingesting nodes", "count", len(nodes), "target", *target)
	if err := sink.SaveNodes(ctx, nodes); err != nil {
		logger.Error("node ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingesting edges", "count", len(edges))
	if err := sink.SaveEdges(ctx, edges); err != nil {
		logger.Error("edge ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String(), "nodes", len(nodes), "edges", len(edges))
}
