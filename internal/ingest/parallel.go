package ingest

import (
	"runtime"
	"sync"

	"github.com/omicsdb/varid/internal/duckdb"
	"github.com/omicsdb/varid/internal/vcf"
)

// WorkItem holds a parsed variant ready for identifier generation.
type WorkItem struct {
	Seq     int
	Variant *vcf.Variant
}

// WorkResult holds the record built for a single variant.
type WorkResult struct {
	Seq     int
	Variant *vcf.Variant
	Record  duckdb.VariantRecord
	Err     error
}

// parallelBuild turns work items into storable records using a pool of
// workers. Results arrive in completion order; use OrderedCollect to consume
// them in sequence-number order. If workers is 0, runtime.NumCPU() is used.
func (ing *Ingestor) parallelBuild(items <-chan WorkItem, runID string, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				record, err := buildRecord(item.Variant, runID)
				results <- WorkResult{
					Seq:     item.Seq,
					Variant: item.Variant,
					Record:  record,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
