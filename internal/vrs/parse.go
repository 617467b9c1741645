package vrs

import "regexp"

// idPattern recognizes "ga4gh:<tag>:<chrom>:<rest>".
// Example: ga4gh:VA:7:v9TQXvNOQeG1vNRVJCWlD_a1tRf_m2AP
// The tag between the first two colons is not compared against TypeAllele;
// any non-empty colon-free value is accepted. Special-form identifiers match
// as well, with SPECIAL in the chromosome slot and the dash-joined tuple as
// the rest.
var idPattern = regexp.MustCompile(`^ga4gh:[^:]+:([^:]+):(.+)$`)

// ParsedID holds the structural components of an identifier. The digest of a
// standard identifier is one-way; the position and alleles that produced it
// cannot be recovered.
type ParsedID struct {
	Chromosome string
	Digest     string
	Type       string
}

// IsValid reports whether id matches the identifier grammar.
func IsValid(id string) bool {
	return idPattern.MatchString(id)
}

// Parse splits an identifier into its components. The Type field is always
// TypeAllele, regardless of the tag the identifier actually carried. Fails
// with a *InvalidIdentifierError when id does not match the grammar.
func Parse(id string) (*ParsedID, error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return nil, &InvalidIdentifierError{ID: id}
	}

	return &ParsedID{
		Chromosome: m[1],
		Digest:     m[2],
		Type:       TypeAllele,
	}, nil
}

// ExtractChromosome returns the chromosome segment of an identifier.
func ExtractChromosome(id string) (string, error) {
	parsed, err := Parse(id)
	if err != nil {
		return "", err
	}
	return parsed.Chromosome, nil
}
