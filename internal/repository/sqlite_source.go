package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vanshika/netpath/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS nodes (
    id    INTEGER NOT NULL,
    label TEXT    NOT NULL
);
CREATE TABLE IF NOT EXISTS edges (
    source INTEGER NOT NULL,
    target INTEGER NOT NULL,
    weight INTEGER NOT NULL CHECK (weight >= 0)
);
`

// SQLiteSource keeps the node and edge tables in a SQLite database. Rows are
// read back in rowid order, which is insertion order.
type SQLiteSource struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLiteSource{db: db, path: path}, nil
}

// Files returns the database path so it can be watched.
func (s *SQLiteSource) Files() []string {
	return []string{s.path}
}

// Close closes the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// LoadNodes reads the nodes table in rowid order.
func (s *SQLiteSource) LoadNodes(ctx context.Context) ([]domain.NodeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, label FROM nodes ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.NodeRecord
	for rows.Next() {
		var n domain.NodeRecord
		if err := rows.Scan(&n.ID, &n.Label); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nodes: %w", err)
	}
	return nodes, nil
}

// LoadEdges reads the edges table in rowid order.
func (s *SQLiteSource) LoadEdges(ctx context.Context) ([]domain.EdgeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, target, weight FROM edges ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query edges: %w", err)
	}
	defer rows.Close()

	var edges []domain.EdgeRecord
	for rows.Next() {
		var e domain.EdgeRecord
		if err := rows.Scan(&e.Source, &e.Target, &e.Weight); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}
	return edges, nil
}

// SaveNodes appends nodes in one transaction.
func (s *SQLiteSource) SaveNodes(ctx context.Context, nodes []domain.NodeRecord) error {
	return s.insert(ctx, `INSERT INTO nodes (id, label) VALUES (?, ?)`, len(nodes), func(stmt *sql.Stmt, i int) error {
		_, err := stmt.ExecContext(ctx, nodes[i].ID, nodes[i].Label)
		return err
	})
}

// SaveEdges appends edges in one transaction.
func (s *SQLiteSource) SaveEdges(ctx context.Context, edges []domain.EdgeRecord) error {
	return s.insert(ctx, `INSERT INTO edges (source, target, weight) VALUES (?, ?, ?)`, len(edges), func(stmt *sql.Stmt, i int) error {
		_, err := stmt.ExecContext(ctx, edges[i].Source, edges[i].Target, edges[i].Weight)
		return err
	})
}

func (s *SQLiteSource) insert(ctx context.Context, query string, n int, exec func(*sql.Stmt, int) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := exec(stmt, i); err != nil {
			return fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	return tx.Commit()
}
