// Package vcf provides VCF file parsing functionality.
package vcf

// Variant represents a single genomic variant from a VCF file. Alleles are
// carried exactly as written; chromosome canonicalization happens later, when
// the identifier is computed.
type Variant struct {
	Chrom  string  // Chromosome name (e.g., "12", "chr12")
	Pos    int64   // 1-based genomic position
	ID     string  // dbSNP identifier, "" when the column holds "."
	Ref    string  // Reference allele
	Alt    string  // Alternate allele (single allele after splitting)
	Qual   float64 // Quality score, 0 when missing
	Filter string  // Filter status (PASS or filter name)
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// IsInsertion returns true if the variant is an insertion.
func (v *Variant) IsInsertion() bool {
	return len(v.Alt) > len(v.Ref)
}

// IsDeletion returns true if the variant is a deletion.
func (v *Variant) IsDeletion() bool {
	return len(v.Ref) > len(v.Alt)
}
