package vrs

import (
	"fmt"
	"regexp"
	"strings"
)

// Regexes for variant spec parsing.
var (
	// Colon form: 7:55174772:GGAATTAAGAGAAGC:-  chrX:100:GGA:  MT:1234:A:*
	// An allele may be letters, the wildcard sentinel "*", a lone dash, or
	// empty; the dash and the empty field both denote a blank allele.
	reSpecColon = regexp.MustCompile(`^([^:]+):(\d+):([A-Za-z*]*|-):([A-Za-z*]*|-)$`)
	// Dash form: 12-25245350-C-A. Blank alleles are empty fields here; a
	// lone dash would be ambiguous with the separator.
	reSpecDash = regexp.MustCompile(`^([^-]+)-(\d+)-([A-Za-z*]*)-([A-Za-z*]*)$`)
)

// VariantSpec is a variant tuple collected from text input. Pos keeps its
// original textual form so identifier generation hashes exactly the digits
// the user supplied.
type VariantSpec struct {
	Chrom string
	Pos   string
	Ref   string
	Alt   string
}

// ParseVariantSpec parses the "chrom:pos:ref:alt" input form, with
// "chrom-pos-ref-alt" accepted as well. Alleles are uppercased; a "-" allele
// (the MAF convention for insertions and deletions) is converted to the empty
// string. The chromosome is kept verbatim, so "chr7" and "7" both parse and
// canonicalize later, at generation time.
func ParseVariantSpec(input string) (*VariantSpec, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty variant spec")
	}

	if spec, ok := parseColonSpec(input); ok {
		return spec, nil
	}
	if spec, ok := parseDashSpec(input); ok {
		return spec, nil
	}

	return nil, fmt.Errorf("cannot parse variant spec %q: expected chrom:pos:ref:alt", input)
}

func parseColonSpec(input string) (*VariantSpec, bool) {
	m := reSpecColon.FindStringSubmatch(input)
	if m == nil {
		return nil, false
	}

	ref := m[3]
	if ref == "-" {
		ref = ""
	}
	alt := m[4]
	if alt == "-" {
		alt = ""
	}

	return &VariantSpec{
		Chrom: m[1],
		Pos:   m[2],
		Ref:   strings.ToUpper(ref),
		Alt:   strings.ToUpper(alt),
	}, true
}

func parseDashSpec(input string) (*VariantSpec, bool) {
	m := reSpecDash.FindStringSubmatch(input)
	if m == nil {
		return nil, false
	}

	return &VariantSpec{
		Chrom: m[1],
		Pos:   m[2],
		Ref:   strings.ToUpper(m[3]),
		Alt:   strings.ToUpper(m[4]),
	}, true
}
