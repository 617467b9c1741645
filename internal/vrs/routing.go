package vrs

import (
	"fmt"
	"strings"
)

// tablePrefix opens every per-chromosome shard table name.
const tablePrefix = "variants_chr"

// LookupQuery pairs a query template with its named parameter values.
// Placeholders use the @name convention; executors substitute their own bind
// syntax before running the template.
type LookupQuery struct {
	Query  string
	Params map[string]string
}

// TableNameFor derives the shard table holding a variant from its identifier:
// one table per chromosome, with the chromosome lowercased. Identifiers that
// fail Parse fail here too.
func TableNameFor(id string) (string, error) {
	chrom, err := ExtractChromosome(id)
	if err != nil {
		return "", err
	}
	return tablePrefix + strings.ToLower(chrom), nil
}

// BuildLookupQuery derives the single-row lookup for an identifier. The
// template selects every column from the variant's shard table, filtered by
// identifier and chromosome through the named parameters vrsId and
// chromosome.
func BuildLookupQuery(id string) (*LookupQuery, error) {
	chrom, err := ExtractChromosome(id)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT *\nFROM public.%s%s\nWHERE id = @vrsId\nAND chromosome = @chromosome",
		tablePrefix, strings.ToLower(chrom))

	return &LookupQuery{
		Query: query,
		Params: map[string]string{
			"vrsId":      id,
			"chromosome": chrom,
		},
	}, nil
}
