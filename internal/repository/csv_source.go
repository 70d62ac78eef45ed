package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vanshika/netpath/internal/domain"
)

// CSVSource reads a node table (id,label) and an edge table
// (source,target,weight) from comma-separated files with a header row.
// Columns are located by header name; extra columns are ignored.
type CSVSource struct {
	nodesPath string
	edgesPath string
}

// NewCSVSource reads the node and edge tables from the given paths on every load.
func NewCSVSource(nodesPath, edgesPath string) *CSVSource {
	return &CSVSource{nodesPath: nodesPath, edgesPath: edgesPath}
}

// Files returns the node and edge table paths.
func (s *CSVSource) Files() []string {
	return []string{s.nodesPath, s.edgesPath}
}

// Close is a no-op; files are opened per load.
func (s *CSVSource) Close() error { return nil }

// LoadNodes parses the node table.
func (s *CSVSource) LoadNodes(ctx context.Context) ([]domain.NodeRecord, error) {
	f, err := os.Open(s.nodesPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.nodesPath, err)
	}
	defer f.Close()
	return ReadNodesCSV(ctx, s.nodesPath, f)
}

// LoadEdges parses the edge table.
func (s *CSVSource) LoadEdges(ctx context.Context) ([]domain.EdgeRecord, error) {
	f, err := os.Open(s.edgesPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.edgesPath, err)
	}
	defer f.Close()
	return ReadEdgesCSV(ctx, s.edgesPath, f)
}

// ReadNodesCSV parses a node table. name is used in error messages.
func ReadNodesCSV(ctx context.Context, name string, r io.Reader) ([]domain.NodeRecord, error) {
	var nodes []domain.NodeRecord
	err := readTable(ctx, name, r, []string{"id", "label"}, func(line int, row []string) error {
		id, err := parseInt(row[0])
		if err != nil {
			return malformed(name, line, "id %q is not an integer", row[0])
		}
		nodes = append(nodes, domain.NodeRecord{ID: id, Label: row[1]})
		return nil
	})
	return nodes, err
}

// ReadEdgesCSV parses an edge table. name is used in error messages.
func ReadEdgesCSV(ctx context.Context, name string, r io.Reader) ([]domain.EdgeRecord, error) {
	var edges []domain.EdgeRecord
	err := readTable(ctx, name, r, []string{"source", "target", "weight"}, func(line int, row []string) error {
		var vals [3]int64
		for i, col := range []string{"source", "target", "weight"} {
			v, err := parseInt(row[i])
			if err != nil {
				return malformed(name, line, "%s %q is not an integer", col, row[i])
			}
			vals[i] = v
		}
		if vals[2] < 0 {
			return malformed(name, line, "weight %d is negative", vals[2])
		}
		edges = append(edges, domain.EdgeRecord{Source: vals[0], Target: vals[1], Weight: vals[2]})
		return nil
	})
	return edges, err
}

// readTable calls fn with the requested columns of every data row, in the
// order given by columns.
func readTable(ctx context.Context, name string, r io.Reader, columns []string, fn func(line int, row []string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return malformed(name, 1, "missing header")
	}
	if err != nil {
		return fmt.Errorf("read %s header: %w", name, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	positions := make([]int, len(columns))
	for i, col := range columns {
		pos, ok := index[col]
		if !ok {
			return malformed(name, 1, "missing column %q", col)
		}
		positions[i] = pos
	}

	picked := make([]string, len(columns))
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		line, _ := reader.FieldPos(0)
		for i, pos := range positions {
			if pos >= len(record) {
				return malformed(name, line, "expected column %q", columns[i])
			}
			picked[i] = strings.TrimSpace(record[pos])
		}
		if err := fn(line, picked); err != nil {
			return err
		}
	}
}

// parseInt accepts integers and integral floats such as "5.0", which
// spreadsheet exports commonly produce.
func parseInt(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int64(f), nil
}

// WriteNodesCSV writes a node table with header.
func WriteNodesCSV(w io.Writer, nodes []domain.NodeRecord) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "label"})
	for _, n := range nodes {
		_ = cw.Write([]string{strconv.FormatInt(n.ID, 10), n.Label})
	}
	cw.Flush()
	return cw.Error()
}

// WriteEdgesCSV writes an edge table with header.
func WriteEdgesCSV(w io.Writer, edges []domain.EdgeRecord) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"source", "target", "weight"})
	for _, e := range edges {
		_ = cw.Write([]string{
			strconv.FormatInt(e.Source, 10),
			strconv.FormatInt(e.Target, 10),
			strconv.FormatInt(e.Weight, 10),
		})
	}
	cw.Flush()
	return cw.Error()
}
