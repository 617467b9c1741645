package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a source file. Two ingests of
// a path with the same size and modtime are treated as the same input.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// IngestRun records one ingestion of a source file. FinishedAt is nil while
// the run is in flight or was abandoned.
type IngestRun struct {
	RunID         string
	SourcePath    string
	SourceSize    int64
	SourceModTime time.Time
	Format        string
	StartedAt     time.Time
	FinishedAt    *time.Time
	Variants      int64
}

// BeginRun inserts a run row before any variants are written, so partial
// ingests remain attributable.
func (s *Store) BeginRun(run IngestRun) error {
	_, err := s.db.Exec(
		`INSERT INTO public.ingest_runs
		 (run_id, source_path, source_size, source_mtime_ns, format, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SourcePath, run.SourceSize, run.SourceModTime.UnixNano(),
		run.Format, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("record run start: %w", err)
	}
	return nil
}

// FinishRun marks a run complete with its final variant count.
func (s *Store) FinishRun(runID string, variants int64, finishedAt time.Time) error {
	res, err := s.db.Exec(
		`UPDATE public.ingest_runs SET finished_at = ?, variants = ? WHERE run_id = ?`,
		finishedAt, variants, runID,
	)
	if err != nil {
		return fmt.Errorf("record run finish: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no run with id %s", runID)
	}
	return nil
}

// FindRunBySource returns the most recent finished run matching a source
// fingerprint, or nil when the file has not been fully ingested. Unfinished
// runs do not count; an aborted ingest should not block a retry.
func (s *Store) FindRunBySource(fp FileFingerprint) (*IngestRun, error) {
	row := s.db.QueryRow(
		`SELECT run_id, source_path, source_size, source_mtime_ns, format,
		        started_at, finished_at, variants
		 FROM public.ingest_runs
		 WHERE source_path = ? AND source_size = ? AND source_mtime_ns = ?
		 AND finished_at IS NOT NULL
		 ORDER BY started_at DESC
		 LIMIT 1`,
		fp.Path, fp.Size, fp.ModTime.UnixNano(),
	)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find run by source: %w", err)
	}
	return run, nil
}

// ListRuns returns all ingest runs, most recent first.
func (s *Store) ListRuns() ([]IngestRun, error) {
	rows, err := s.db.Query(
		`SELECT run_id, source_path, source_size, source_mtime_ns, format,
		        started_at, finished_at, variants
		 FROM public.ingest_runs
		 ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []IngestRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// scanRun reads one ingest_runs row from a Row or Rows.
func scanRun(row interface{ Scan(dest ...any) error }) (*IngestRun, error) {
	var run IngestRun
	var mtimeNs int64
	var finished sql.NullTime

	if err := row.Scan(
		&run.RunID, &run.SourcePath, &run.SourceSize, &mtimeNs, &run.Format,
		&run.StartedAt, &finished, &run.Variants,
	); err != nil {
		return nil, err
	}

	run.SourceModTime = time.Unix(0, mtimeNs)
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}
