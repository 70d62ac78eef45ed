package server

import (
	"context"

	"github.com/vanshika/netpath/internal/graphdb"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// GraphDBHealthService verifies graph database connectivity when the graph
// is served from Neo4j.
type GraphDBHealthService struct {
	Client graphdb.Client
}

// Probe implements the HealthService interface.
func (s GraphDBHealthService) Probe(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.VerifyConnectivity(ctx)
}
