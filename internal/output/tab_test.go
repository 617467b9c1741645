package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omicsdb/varid/internal/duckdb"
)

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	header := buf.String()

	expectedCols := []string{
		"#Vrs_ID",
		"Location",
		"Ref",
		"Alt",
		"Rsid",
		"Qual",
		"Filter",
		"Run_ID",
	}

	for _, col := range expectedCols {
		assert.Contains(t, header, col)
	}
}

func TestTabWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	r := &duckdb.VariantRecord{
		ID:         "ga4gh:VA:12:abcdefabcdefabcdefabcdefabcdefab",
		Chromosome: "12",
		Pos:        25245351,
		Ref:        "C",
		Alt:        "A",
		Rsid:       "rs121913530",
		Qual:       228.4,
		Filter:     "PASS",
		RunID:      "run-1",
	}

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Write(r))
	require.NoError(t, w.Flush())

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 2)

	dataLine := lines[1]
	fields := strings.Split(dataLine, "\t")
	require.Len(t, fields, 8)

	assert.Equal(t, "ga4gh:VA:12:abcdefabcdefabcdefabcdefabcdefab", fields[0])
	assert.Equal(t, "12:25245351", fields[1])
	assert.Equal(t, "C", fields[2])
	assert.Equal(t, "A", fields[3])
	assert.Equal(t, "rs121913530", fields[4])
	assert.Equal(t, "228.4", fields[5])
	assert.Equal(t, "PASS", fields[6])
	assert.Equal(t, "run-1", fields[7])
}

func TestTabWriter_BlankValues(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	// A deletion stored with a blank alt and no rsid.
	r := &duckdb.VariantRecord{
		ID:         "ga4gh:VA:7:v9TQXvNOQeG1vNRVJCWlD_a1tRf_m2AP",
		Chromosome: "7",
		Pos:        55174772,
		Ref:        "GGAATTAAGAGAAGC",
		Alt:        "",
		Rsid:       "",
	}

	require.NoError(t, w.Write(r))
	require.NoError(t, w.Flush())

	fields := strings.Split(strings.TrimRight(buf.String(), "\n"), "\t")
	require.Len(t, fields, 8)

	assert.Equal(t, "GGAATTAAGAGAAGC", fields[2])
	assert.Equal(t, "-", fields[3], "blank alt prints as a dash")
	assert.Equal(t, "-", fields[4], "missing rsid prints as a dash")
	assert.Equal(t, "0", fields[5])
	assert.Equal(t, "-", fields[6])
	assert.Equal(t, "-", fields[7])
}
