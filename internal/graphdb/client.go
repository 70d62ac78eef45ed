// Package graphdb talks to a Bolt-compatible graph database (Neo4j, or
// Neptune's openCypher endpoint) that stores node and edge tables.
package graphdb

import (
	"context"
	"errors"
)

// Client is the minimal contract the repository needs from a graph database.
type Client interface {
	Read(ctx context.Context, cypher string, params map[string]any) ([]Record, error)
	Write(ctx context.Context, cypher string, params map[string]any) (Summary, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Record is one row returned by a query, keyed by column name.
type Record map[string]any

// Int64 returns the integer value of column key. Drivers hand back int64,
// but fakes and other engines may use int or float64.
func (r Record) Int64(key string) (int64, bool) {
	switch v := r[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

// String returns the string value of column key.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key].(string)
	return v, ok
}

// Summary reports what a write changed.
type Summary struct {
	NodesCreated         int
	RelationshipsCreated int
	PropertiesSet        int
}

// Add accumulates counters from another summary.
func (s *Summary) Add(o Summary) {
	s.NodesCreated += o.NodesCreated
	s.RelationshipsCreated += o.RelationshipsCreated
	s.PropertiesSet += o.PropertiesSet
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
