// Package duckdb persists variant identifier records in DuckDB.
// Rows are sharded into one table per chromosome, named after the routing
// rule for the identifier, and every write is attributed to an ingest run.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/omicsdb/varid/internal/vrs"
)

// knownIDCacheSize bounds the LRU of identifiers already written. Duplicate
// rows in cohort files (the same mutation across many samples) hit this cache
// instead of re-querying the shard table.
const knownIDCacheSize = 1 << 17

// reTableName accepts the shard table names this store will create. Routing
// interpolates table names into SQL, so anything outside this shape is
// rejected rather than quoted around.
var reTableName = regexp.MustCompile(`^variants_chr[a-z0-9_]+$`)

// IsRoutable reports whether an identifier maps to a shard table this store
// can create. Exotic contig names (dots, colons) fall outside the
// table-name shape and should be screened out before a batch write.
func IsRoutable(id string) bool {
	table, err := vrs.TableNameFor(id)
	return err == nil && reTableName.MatchString(table)
}

// Store manages a DuckDB connection holding variant identifier records.
type Store struct {
	db   *sql.DB
	path string

	mu     sync.Mutex
	tables map[string]bool // shard tables known to exist

	known *lru.Cache[string, struct{}]
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	known, err := lru.New[string, struct{}](knownIDCacheSize)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create id cache: %w", err)
	}

	s := &Store{
		db:     db,
		path:   path,
		tables: make(map[string]bool),
		known:  known,
	}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates the schema and the run-tracking table. Shard tables
// are created lazily, on the first write for their chromosome: the set of
// chromosomes is open-ended, so there is no fixed list to create up front.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE SCHEMA IF NOT EXISTS public`,
		`CREATE TABLE IF NOT EXISTS public.ingest_runs (
			run_id VARCHAR PRIMARY KEY,
			source_path VARCHAR NOT NULL,
			source_size BIGINT NOT NULL,
			source_mtime_ns BIGINT NOT NULL,
			format VARCHAR NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			variants BIGINT NOT NULL DEFAULT 0
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ensureTable creates the shard table for the given routing name if it does
// not exist yet. Names that do not match the routing shape are rejected.
func (s *Store) ensureTable(table string) error {
	if !reTableName.MatchString(table) {
		return fmt.Errorf("unroutable table name %q", table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tables[table] {
		return nil
	}

	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS public.%s (
		id VARCHAR PRIMARY KEY,
		chromosome VARCHAR NOT NULL,
		pos BIGINT NOT NULL,
		ref VARCHAR NOT NULL,
		alt VARCHAR NOT NULL,
		rsid VARCHAR,
		qual DOUBLE,
		filter VARCHAR,
		run_id VARCHAR
	)`, table)

	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	s.tables[table] = true
	return nil
}

// tableExists reports whether a shard table is present in the database,
// including tables created by earlier processes against the same file.
func (s *Store) tableExists(table string) (bool, error) {
	s.mu.Lock()
	if s.tables[table] {
		s.mu.Unlock()
		return true, nil
	}
	s.mu.Unlock()

	var name string
	err := s.db.QueryRow(
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_name = ?`, table).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}

	s.mu.Lock()
	s.tables[table] = true
	s.mu.Unlock()
	return true, nil
}

// shardTables returns the names of all variant shard tables in the database.
func (s *Store) shardTables() ([]string, error) {
	rows, err := s.db.Query(
		`SELECT table_name FROM information_schema.tables
		 WHERE table_schema = 'public' AND table_name LIKE 'variants_chr%'
		 ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list shard tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shard tables: %w", err)
	}
	return tables, nil
}
