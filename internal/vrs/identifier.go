// Package vrs computes content-derived identifiers for genomic variants and
// the storage routing values derived from them.
//
// An identifier is a function of the (chromosome, position, reference allele,
// alternate allele) tuple alone: the chromosome is canonicalized, the tuple
// is hashed with SHA-512, and the first 24 bytes of the digest are encoded as
// URL-safe base64 without padding, yielding a fixed 32-character digest
// segment:
//
//	ga4gh:VA:7:v9TQXvNOQeG1vNRVJCWlD_a1tRf_m2AP
//
// Tuples carrying the wildcard allele sentinel "*" instead get a special form
// that interpolates the raw fields verbatim and is not hashed:
//
//	ga4gh:VA:SPECIAL:7-55174772-*-A
//
// The special form is a passthrough label, not a content digest: it carries
// no collision resistance and cannot be reparsed unambiguously if one of the
// fields itself contains "-".
package vrs

import (
	"crypto/sha512"
	"encoding/base64"
	"strconv"
)

const (
	// idPrefix opens every identifier this package emits.
	idPrefix = "ga4gh:"

	// TypeAllele is the identifier type tag for variant alleles.
	TypeAllele = "VA"

	// SpecialChrom occupies the chromosome slot of special-form identifiers.
	SpecialChrom = "SPECIAL"

	// WildcardAllele routes a tuple to the special form when it appears as
	// the reference or alternate allele.
	WildcardAllele = "*"

	// digestSize is the number of SHA-512 bytes kept for the digest segment.
	// 24 bytes encode to exactly 32 base64 characters, never padded.
	digestSize = 24
)

// Generate computes the identifier for a variant tuple. The same tuple always
// produces the same identifier; the position is rendered in plain decimal.
// The returned error is a *GenerationError and only occurs if the hash
// primitive fails.
func Generate(chrom string, pos int64, ref, alt string) (string, error) {
	return GenerateRaw(chrom, strconv.FormatInt(pos, 10), ref, alt)
}

// GenerateRaw is Generate with the position in textual form. The text enters
// the hashed payload byte for byte, so "007" and "7" yield different
// identifiers even though they name the same coordinate.
func GenerateRaw(chrom, pos, ref, alt string) (string, error) {
	canonical := NormalizeChrom(chrom)

	// Wildcard alleles have no stable sequence content to digest, so the
	// identifier spells the tuple out instead of hashing it.
	if ref == WildcardAllele || alt == WildcardAllele {
		return idPrefix + TypeAllele + ":" + SpecialChrom + ":" +
			canonical + "-" + pos + "-" + ref + "-" + alt, nil
	}

	h := sha512.New()
	if _, err := h.Write([]byte(canonical + ":" + pos + ":" + ref + ":" + alt)); err != nil {
		return "", &GenerationError{Chrom: chrom, Pos: pos, Ref: ref, Alt: alt, Err: err}
	}

	digest := base64.RawURLEncoding.EncodeToString(h.Sum(nil)[:digestSize])
	return idPrefix + TypeAllele + ":" + canonical + ":" + digest, nil
}
