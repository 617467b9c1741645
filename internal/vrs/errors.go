package vrs

import "fmt"

// GenerationError reports a failure of the hash primitive while composing an
// identifier. It carries the offending input tuple for diagnosis; under
// normal conditions it is never produced.
type GenerationError struct {
	Chrom string
	Pos   string
	Ref   string
	Alt   string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate identifier for %s:%s:%s:%s: %v", e.Chrom, e.Pos, e.Ref, e.Alt, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// InvalidIdentifierError reports input that does not match the identifier
// grammar. Parse, ExtractChromosome, TableNameFor, and BuildLookupQuery all
// fail with it.
type InvalidIdentifierError struct {
	ID string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid variant identifier %q", e.ID)
}
