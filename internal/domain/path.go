package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// ErrNodeNotFound reports a query whose start or end id is not in the graph.
var ErrNodeNotFound = errors.New("start or end node not found")

// Distance is the length of a shortest path. The zero value is unreachable.
type Distance struct {
	Value     int64
	Reachable bool
}

// Unreachable returns the marker used when no path exists.
func Unreachable() Distance {
	return Distance{}
}

// Reached returns a finite distance.
func Reached(v int64) Distance {
	return Distance{Value: v, Reachable: true}
}

func (d Distance) String() string {
	if !d.Reachable {
		return "unreachable"
	}
	return strconv.FormatInt(d.Value, 10)
}

// MarshalJSON encodes a reachable distance as a number and an unreachable one as null.
func (d Distance) MarshalJSON() ([]byte, error) {
	if !d.Reachable {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(d.Value, 10)), nil
}

// UnmarshalJSON accepts the forms produced by MarshalJSON.
func (d *Distance) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = Unreachable()
		return nil
	}
	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = Reached(v)
	return nil
}

// PathResult is the answer to a single shortest-path query.
//
// Nodes, Edges and Labels are empty when no path exists or when Err is set.
// When a path exists, len(Edges) == len(Nodes)-1 and Labels[i] is the label
// of Nodes[i].
type PathResult struct {
	Nodes    []int64
	Edges    []string
	Labels   []string
	Distance Distance
	Err      error
}

// Found reports whether the query produced a path.
func (r PathResult) Found() bool {
	return r.Err == nil && r.Distance.Reachable
}
