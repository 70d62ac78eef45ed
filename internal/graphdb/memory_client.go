package graphdb

import (
	"context"
	"maps"
	"sync"
)

// MemoryClient is an in-memory Client used to test repository code without a
// running database. Reads return queued rows in FIFO order; writes are
// recorded and answered with queued summaries.
type MemoryClient struct {
	mu           sync.Mutex
	writeCalls   []ExecutedQuery
	readCalls    []ExecutedQuery
	readResults  [][]Record
	writeResults []Summary
	err          error
	connectivity error
}

// ExecutedQuery captures a cypher statement and its parameters.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient returns an empty client whose reads return no rows.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError makes every subsequent Read and Write fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return err.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// PushReadResult queues rows for the next Read call.
func (m *MemoryClient) PushReadResult(rows ...Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults = append(m.readResults, rows)
}

// PushWriteResult queues a summary for the next Write call.
func (m *MemoryClient) PushWriteResult(s Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeResults = append(m.writeResults, s)
}

func (m *MemoryClient) Read(_ context.Context, cypher string, params map[string]any) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	m.readCalls = append(m.readCalls, ExecutedQuery{Query: cypher, Params: maps.Clone(params)})

	if len(m.readResults) == 0 {
		return nil, nil
	}
	rows := m.readResults[0]
	m.readResults = m.readResults[1:]
	return rows, nil
}

func (m *MemoryClient) Write(_ context.Context, cypher string, params map[string]any) (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Summary{}, m.err
	}
	m.writeCalls = append(m.writeCalls, ExecutedQuery{Query: cypher, Params: maps.Clone(params)})

	if len(m.writeResults) == 0 {
		return Summary{}, nil
	}
	s := m.writeResults[0]
	m.writeResults = m.writeResults[1:]
	return s, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// WriteCalls returns a snapshot of executed writes.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writeCalls...)
}

// ReadCalls returns a snapshot of executed reads.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.readCalls...)
}
