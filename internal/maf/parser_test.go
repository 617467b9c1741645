package maf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omicsdb/varid/internal/vcf"
)

var _ vcf.VariantParser = (*Parser)(nil)

func TestParser_ParseVariants(t *testing.T) {
	testFile := findTestFile(t, "sample.maf")

	parser, err := NewParser(testFile)
	require.NoError(t, err)
	defer parser.Close()

	// Verify column indices were parsed correctly
	cols := parser.Columns()
	assert.Equal(t, 4, cols.Chromosome)
	assert.Equal(t, 5, cols.StartPosition)
	assert.Equal(t, 10, cols.ReferenceAllele)
	assert.Equal(t, 12, cols.TumorSeqAllele2)
	assert.Equal(t, 13, cols.DbSNPRS)

	// First variant: EGFR exon 19 deletion, "-" allele becomes blank
	v, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "7", v.Chrom)
	assert.Equal(t, int64(55174772), v.Pos)
	assert.Equal(t, "GGAATTAAGAGAAGC", v.Ref)
	assert.Equal(t, "", v.Alt)
	assert.Equal(t, "", v.ID, "a novel variant has no rsid")

	// Second variant: KRAS G12C with a dbSNP entry
	v, err = parser.Next()
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "12", v.Chrom)
	assert.Equal(t, int64(25245351), v.Pos)
	assert.Equal(t, "C", v.Ref)
	assert.Equal(t, "A", v.Alt)
	assert.Equal(t, "rs121913530", v.ID)

	// Count remaining variants
	count := 2 // Already read 2
	var last *vcf.Variant
	for {
		v, err := parser.Next()
		require.NoError(t, err)
		if v == nil {
			break
		}
		last = v
		count++
	}

	assert.Equal(t, 5, count)

	// Last variant: PIK3CA insertion with a "-" reference allele
	require.NotNil(t, last)
	assert.Equal(t, "3", last.Chrom)
	assert.Equal(t, "", last.Ref)
	assert.Equal(t, "AGG", last.Alt)
	assert.True(t, last.IsInsertion())
}

func TestParser_DotRsid(t *testing.T) {
	testFile := findTestFile(t, "sample.maf")

	parser, err := NewParser(testFile)
	require.NoError(t, err)
	defer parser.Close()

	// Fourth row (TP53) carries "." in dbSNP_RS
	var v *vcf.Variant
	for i := 0; i < 4; i++ {
		v, err = parser.Next()
		require.NoError(t, err)
		require.NotNil(t, v)
	}

	assert.Equal(t, "17", v.Chrom)
	assert.Equal(t, "", v.ID)
}

func TestParser_MissingRequiredColumn(t *testing.T) {
	const input = "Hugo_Symbol\tChromosome\tStart_Position\tReference_Allele\n" +
		"KRAS\t12\t25245351\tC\n"

	_, err := NewParserFromReader(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tumor_Seq_Allele2")
}

func TestParser_BadPosition(t *testing.T) {
	const input = "Chromosome\tStart_Position\tReference_Allele\tTumor_Seq_Allele2\n" +
		"12\tnotanumber\tC\tA\n"

	parser, err := NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)
	defer parser.Close()

	_, err = parser.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid position")
}

func TestParser_SkipsComments(t *testing.T) {
	const input = "#version 2.4\n" +
		"Chromosome\tStart_Position\tReference_Allele\tTumor_Seq_Allele2\n" +
		"#another comment\n" +
		"12\t25245351\tC\tA\n"

	parser, err := NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)
	defer parser.Close()

	v, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(25245351), v.Pos)
}

func TestParseError(t *testing.T) {
	err := &ParseError{
		Line:    42,
		Message: "required column not found",
	}

	expected := "maf parse error at line 42: required column not found"
	assert.Equal(t, expected, err.Error())
}

// findTestFile locates a test file in the testdata directory.
func findTestFile(t *testing.T, name string) string {
	t.Helper()

	paths := []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	t.Fatalf("Test file not found: %s", name)
	return ""
}
