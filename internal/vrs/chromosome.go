package vrs

import "strings"

// NormalizeChrom maps the accepted chromosome spellings onto one canonical
// token. The "chr" prefix is stripped only in its conventional lowercase
// form, so "ChrX" and "CHR7" pass through untouched. After stripping, the
// mitochondrial and unplaced-contig aliases are rewritten: "M" and "MT"
// become "MT", "Un" becomes "UN". Anything else is returned as given,
// including names this package has never seen.
func NormalizeChrom(chrom string) string {
	chrom = strings.TrimPrefix(chrom, "chr")

	switch chrom {
	case "M", "MT":
		return "MT"
	case "Un":
		return "UN"
	}

	return chrom
}
