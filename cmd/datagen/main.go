package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/netpath/internal/generator"
	"github.com/vanshika/netpath/internal/repository"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		nodes        = flag.Int("nodes", cfg.NumNodes, "number of nodes to generate")
		edges        = flag.Int("edges", cfg.NumEdges, "number of edges to generate")
		maxWeight    = flag.Int64("max-weight", cfg.MaxWeight, "largest edge weight; weights are drawn from [1, max-weight]")
		spanningTree = flag.Bool("connected", cfg.SpanningTree, "start from a random spanning tree so every node is reachable")
		seed         = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir    = flag.String("output-dir", "data", "directory to write nodes.csv and edges.csv")
		writeStdout  = flag.Bool("stdout", false, "write the edge table to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumNodes:     *nodes,
		NumEdges:     *edges,
		MaxWeight:    *maxWeight,
		SpanningTree: *spanningTree,
		Seed:         *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dataset, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := repository.WriteEdgesCSV(os.Stdout, dataset.Edges); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write edges to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	nodesPath, edgesPath, err := generator.WriteDataset(dataset, *outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d nodes and %d edges into %s and %s\n", len(dataset.Nodes), len(dataset.Edges), nodesPath, edgesPath)
}
