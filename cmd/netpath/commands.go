package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vanshika/netpath/internal/config"
	"github.com/vanshika/netpath/internal/domain"
	"github.com/vanshika/netpath/internal/logging"
	"github.com/vanshika/netpath/internal/repository"
	"github.com/vanshika/netpath/internal/service"
)

type cliOptions struct {
	source     string
	nodesPath  string
	edgesPath  string
	sqlitePath string
	asJSON     bool
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "netpath",
		Short:         "Query shortest paths over a weighted undirected graph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.source, "source", "", "graph source: csv, sqlite or neo4j (default from GRAPH_SOURCE)")
	flags.StringVar(&opts.nodesPath, "nodes", "", "path to the node table for the csv source")
	flags.StringVar(&opts.edgesPath, "edges", "", "path to the edge table for the csv source")
	flags.StringVar(&opts.sqlitePath, "sqlite", "", "path to the database for the sqlite source")
	flags.BoolVar(&opts.asJSON, "json", false, "print results as JSON")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "path <start> <end>",
			Short: "Print the shortest path between two node ids",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runPath(cmd, opts, args)
			},
		},
		&cobra.Command{
			Use:   "nodes",
			Short: "List every node in table order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runNodes(cmd, opts)
			},
		},
		&cobra.Command{
			Use:   "graph",
			Short: "Print the accepted nodes and edges",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runGraph(cmd, opts)
			},
		},
	)
	return rootCmd
}

// loadService resolves the graph configuration from the environment, applies
// flag overrides and loads the graph once.
func loadService(ctx context.Context, opts *cliOptions) (*service.GraphService, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if opts.source != "" {
		cfg.Graph.Source = opts.source
	}
	if opts.nodesPath != "" {
		cfg.Graph.NodesPath = opts.nodesPath
	}
	if opts.edgesPath != "" {
		cfg.Graph.EdgesPath = opts.edgesPath
	}
	if opts.sqlitePath != "" {
		cfg.Graph.SQLitePath = opts.sqlitePath
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}

	source, err := repository.Open(ctx, cfg.Graph)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = source.Close() }

	svc := service.NewGraphService(source, logging.Discard(), service.Options{
		BatchWorkers:  cfg.Graph.BatchWorkers,
		BatchMaxPairs: cfg.Graph.BatchMaxPairs,
	})
	if err := svc.Load(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	return svc, closeFn, nil
}

type pathOutput struct {
	PathNodes  []int64         `json:"path_nodes"`
	PathEdges  []string        `json:"path_edges"`
	Distance   domain.Distance `json:"distance"`
	PathLabels []string        `json:"path_labels"`
}

func runPath(cmd *cobra.Command, opts *cliOptions, args []string) error {
	start, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("start node id %q is not an integer", args[0])
	}
	end, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("end node id %q is not an integer", args[1])
	}

	svc, closeFn, err := loadService(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer closeFn()

	res, err := svc.ShortestPath(cmd.Context(), start, end)
	if err != nil {
		return err
	}
	if res.Err != nil {
		return res.Err
	}
	return printPath(cmd.OutOrStdout(), res, opts.asJSON)
}

func printPath(w io.Writer, res domain.PathResult, asJSON bool) error {
	if asJSON {
		out := pathOutput{
			PathNodes:  append([]int64{}, res.Nodes...),
			PathEdges:  append([]string{}, res.Edges...),
			Distance:   res.Distance,
			PathLabels: append([]string{}, res.Labels...),
		}
		return writeJSON(w, out)
	}
	if !res.Found() {
		_, err := fmt.Fprintln(w, "no path")
		return err
	}
	_, err := fmt.Fprintf(w, "%s\nedges: %s\ndistance: %s\n",
		strings.Join(res.Labels, " -> "), strings.Join(res.Edges, ", "), res.Distance)
	return err
}

func runNodes(cmd *cobra.Command, opts *cliOptions) error {
	svc, closeFn, err := loadService(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer closeFn()

	nodes, err := svc.Nodes(cmd.Context())
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), nodes)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL")
	for _, n := range nodes {
		fmt.Fprintf(tw, "%d\t%s\n", n.ID, n.Label)
	}
	return tw.Flush()
}

func runGraph(cmd *cobra.Command, opts *cliOptions) error {
	svc, closeFn, err := loadService(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer closeFn()

	data, err := svc.Graph(cmd.Context())
	if err != nil {
		return err
	}
	if opts.asJSON {
		return writeJSON(cmd.OutOrStdout(), data)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%d nodes, %d edges\n", len(data.Nodes), len(data.Edges))
	fmt.Fprintln(tw, "EDGE\tFROM\tTO\tWEIGHT")
	for _, e := range data.Edges {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", e.ID, e.From, e.To, e.Weight)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
