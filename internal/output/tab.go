// Package output provides result formatters for lookup and ingest output.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/omicsdb/varid/internal/duckdb"
)

// TabWriter writes variant records in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Vrs_ID",
			"Location",
			"Ref",
			"Alt",
			"Rsid",
			"Qual",
			"Filter",
			"Run_ID",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single record. Blank alleles and missing values come out as
// "-", mirroring the MAF convention on the way back out.
func (tw *TabWriter) Write(r *duckdb.VariantRecord) error {
	location := fmt.Sprintf("%s:%d", r.Chromosome, r.Pos)

	ref := r.Ref
	if ref == "" {
		ref = "-"
	}
	alt := r.Alt
	if alt == "" {
		alt = "-"
	}

	rsid := r.Rsid
	if rsid == "" {
		rsid = "-"
	}

	filter := r.Filter
	if filter == "" {
		filter = "-"
	}

	runID := r.RunID
	if runID == "" {
		runID = "-"
	}

	values := []string{
		r.ID,
		location,
		ref,
		alt,
		rsid,
		fmt.Sprintf("%g", r.Qual),
		filter,
		runID,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
