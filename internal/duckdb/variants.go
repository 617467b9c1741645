package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/omicsdb/varid/internal/vrs"
)

// VariantRecord is one stored variant row. Chromosome holds the identifier's
// chromosome segment, so rows in a shard always agree with the lookup route
// derived from their id, including special-form identifiers.
type VariantRecord struct {
	ID         string
	Chromosome string
	Pos        int64
	Ref        string
	Alt        string
	Rsid       string
	Qual       float64
	Filter     string
	RunID      string
}

// existsChunkSize is how many ids one duplicate-check query carries.
const existsChunkSize = 512

// PutVariants batch-inserts records into their shard tables using the
// Appender API, creating tables on first use. Records whose id is already
// stored, or repeated within the batch, are skipped. Returns the number of
// rows written.
func (s *Store) PutVariants(records []VariantRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	// Dedupe within the batch, then bucket by shard table.
	byTable := make(map[string][]VariantRecord)
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true

		table, err := vrs.TableNameFor(r.ID)
		if err != nil {
			return 0, fmt.Errorf("route record: %w", err)
		}
		byTable[table] = append(byTable[table], r)
	}

	written := 0
	for table, recs := range byTable {
		if err := s.ensureTable(table); err != nil {
			return written, err
		}

		fresh, err := s.filterExisting(table, recs)
		if err != nil {
			return written, err
		}
		if len(fresh) == 0 {
			continue
		}

		if err := s.appendRecords(table, fresh); err != nil {
			return written, err
		}

		for _, r := range fresh {
			s.known.Add(r.ID, struct{}{})
		}
		written += len(fresh)
	}

	return written, nil
}

// filterExisting drops records whose id is already present in the shard
// table. The recently-written cache answers most repeats; the rest are
// checked against the table in chunks.
func (s *Store) filterExisting(table string, recs []VariantRecord) ([]VariantRecord, error) {
	unknown := recs[:0:0]
	for _, r := range recs {
		if _, ok := s.known.Get(r.ID); !ok {
			unknown = append(unknown, r)
		}
	}
	if len(unknown) == 0 {
		return nil, nil
	}

	stored := make(map[string]bool)
	for start := 0; start < len(unknown); start += existsChunkSize {
		end := start + existsChunkSize
		if end > len(unknown) {
			end = len(unknown)
		}
		chunk := unknown[start:end]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		args := make([]any, len(chunk))
		for i, r := range chunk {
			args[i] = r.ID
		}

		rows, err := s.db.Query(
			fmt.Sprintf("SELECT id FROM public.%s WHERE id IN (%s)", table, placeholders), args...)
		if err != nil {
			return nil, fmt.Errorf("check existing ids: %w", err)
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan existing id: %w", err)
			}
			stored[id] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("iterate existing ids: %w", err)
		}
		rows.Close()
	}

	fresh := make([]VariantRecord, 0, len(unknown))
	for _, r := range unknown {
		if stored[r.ID] {
			s.known.Add(r.ID, struct{}{})
			continue
		}
		fresh = append(fresh, r)
	}
	return fresh, nil
}

// appendRecords writes records into one shard table through an appender.
func (s *Store) appendRecords(table string, recs []VariantRecord) error {
	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "public", table)
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range recs {
		if err := appender.AppendRow(
			r.ID, r.Chromosome, r.Pos, r.Ref, r.Alt,
			r.Rsid, r.Qual, r.Filter, r.RunID,
		); err != nil {
			return fmt.Errorf("append record: %w", err)
		}
	}

	return appender.Flush()
}

// Lookup fetches the record stored under an identifier. The query is the one
// derived from the identifier's routing; a chromosome whose shard table was
// never created yields no record rather than an error. Returns nil, nil when
// nothing is stored under the id.
func (s *Store) Lookup(id string) (*VariantRecord, error) {
	lq, err := vrs.BuildLookupQuery(id)
	if err != nil {
		return nil, err
	}

	table, err := vrs.TableNameFor(id)
	if err != nil {
		return nil, err
	}
	exists, err := s.tableExists(table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	query, args, err := translateNamed(lq.Query, lq.Params)
	if err != nil {
		return nil, err
	}

	var r VariantRecord
	err = s.db.QueryRow(query, args...).Scan(
		&r.ID, &r.Chromosome, &r.Pos, &r.Ref, &r.Alt,
		&r.Rsid, &r.Qual, &r.Filter, &r.RunID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup variant: %w", err)
	}
	return &r, nil
}

// reNamedParam finds @name placeholders in a query template.
var reNamedParam = regexp.MustCompile(`@([A-Za-z][A-Za-z0-9_]*)`)

// translateNamed rewrites a template's @name placeholders to the driver's
// positional "?" binds, collecting argument values in order of appearance.
func translateNamed(query string, params map[string]string) (string, []any, error) {
	var args []any
	var missing string

	translated := reNamedParam.ReplaceAllStringFunc(query, func(m string) string {
		name := m[1:]
		value, ok := params[name]
		if !ok {
			missing = name
			return m
		}
		args = append(args, value)
		return "?"
	})

	if missing != "" {
		return "", nil, fmt.Errorf("query references unknown parameter @%s", missing)
	}
	return translated, args, nil
}

// TableCount pairs a shard table with its row count.
type TableCount struct {
	Table string
	Rows  int64
}

// TableCounts returns per-shard row counts, ordered by table name.
func (s *Store) TableCounts() ([]TableCount, error) {
	tables, err := s.shardTables()
	if err != nil {
		return nil, err
	}

	counts := make([]TableCount, 0, len(tables))
	for _, table := range tables {
		var n int64
		if err := s.db.QueryRow(fmt.Sprintf("SELECT count(*) FROM public.%s", table)).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

// CountVariants returns the total number of stored records across shards.
func (s *Store) CountVariants() (int64, error) {
	counts, err := s.TableCounts()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, c := range counts {
		total += c.Rows
	}
	return total, nil
}
