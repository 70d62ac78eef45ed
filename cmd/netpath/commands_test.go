package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/netpath/internal/domain"
)

func writeTables(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	nodes := filepath.Join(dir, "nodes.csv")
	edges := filepath.Join(dir, "edges.csv")
	require.NoError(t, os.WriteFile(nodes, []byte("id,label\n1,A\n2,B\n3,C\n9,I\n"), 0o600))
	require.NoError(t, os.WriteFile(edges, []byte("source,target,weight\n1,2,5\n2,3,3\n1,3,10\n"), 0o600))
	return nodes, edges
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("GRAPH_SOURCE", "")
	nodes, edges := writeTables(t)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--source", "csv", "--nodes", nodes, "--edges", edges))
	err := cmd.Execute()
	return out.String(), err
}

func TestPathCommand(t *testing.T) {
	out, err := run(t, "path", "1", "3")
	require.NoError(t, err)
	assert.Equal(t, "A -> B -> C\nedges: e1, e2\ndistance: 8\n", out)
}

func TestPathCommand_JSON(t *testing.T) {
	out, err := run(t, "path", "1", "9", "--json")
	require.NoError(t, err)

	var got pathOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Empty(t, got.PathNodes)
	assert.NotNil(t, got.PathNodes)
	assert.False(t, got.Distance.Reachable)
	assert.Contains(t, out, `"distance": null`)
}

func TestPathCommand_Errors(t *testing.T) {
	_, err := run(t, "path", "1", "42")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	_, err = run(t, "path", "x", "1")
	assert.ErrorContains(t, err, "not an integer")

	_, err = run(t, "path", "1")
	assert.Error(t, err)
}

func TestNodesCommand(t *testing.T) {
	out, err := run(t, "nodes", "--json")
	require.NoError(t, err)

	var nodes []domain.Node
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	assert.Equal(t, []domain.Node{{ID: 1, Label: "A"}, {ID: 2, Label: "B"}, {ID: 3, Label: "C"}, {ID: 9, Label: "I"}}, nodes)
}

func TestGraphCommand(t *testing.T) {
	out, err := run(t, "graph")
	require.NoError(t, err)
	assert.Contains(t, out, "4 nodes, 3 edges")
	assert.Contains(t, out, "e3")
}
