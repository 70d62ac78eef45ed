// Package repository reads and writes the node and edge tables the graph is
// built from. Sources return raw records in table order; validation of graph
// semantics (unknown endpoints, edge ids) happens in package graph.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/netpath/internal/config"
	"github.com/vanshika/netpath/internal/domain"
	"github.com/vanshika/netpath/internal/graphdb"
)

var (
	// ErrUnknownSource is returned by Open for an unsupported source kind.
	ErrUnknownSource = errors.New("unknown graph source")
	// ErrMalformedRow reports a table row that cannot be parsed into a record.
	ErrMalformedRow = errors.New("malformed row")
)

// Source loads node and edge records in table order.
type Source interface {
	LoadNodes(ctx context.Context) ([]domain.NodeRecord, error)
	LoadEdges(ctx context.Context) ([]domain.EdgeRecord, error)
	Close() error
}

// Sink appends node and edge records to a store.
type Sink interface {
	SaveNodes(ctx context.Context, nodes []domain.NodeRecord) error
	SaveEdges(ctx context.Context, edges []domain.EdgeRecord) error
}

// FileBacked is implemented by sources whose data lives in local files that
// can be watched for changes.
type FileBacked interface {
	Files() []string
}

// Open returns the Source selected by cfg.Source.
func Open(ctx context.Context, cfg config.GraphConfig) (Source, error) {
	switch cfg.Source {
	case config.SourceCSV:
		return NewCSVSource(cfg.NodesPath, cfg.EdgesPath), nil
	case config.SourceSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.SourceNeo4j:
		client, err := graphdb.NewNeo4jClient(ctx, graphdb.Options{
			URI:            cfg.URI,
			Database:       cfg.Database,
			Username:       cfg.Username,
			Password:       cfg.Password,
			MaxConnections: cfg.MaxConnections,
		})
		if err != nil {
			return nil, err
		}
		return NewNeo4jSource(client), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}
}

func malformed(where string, line int, format string, args ...any) error {
	return fmt.Errorf("%w: %s line %d: %s", ErrMalformedRow, where, line, fmt.Sprintf(format, args...))
}
