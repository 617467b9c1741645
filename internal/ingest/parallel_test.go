package ingest

import (
	"errors"
	"testing"

	"github.com/omicsdb/varid/internal/vcf"
)

func TestOrderedCollect_ReordersResults(t *testing.T) {
	results := make(chan WorkResult, 4)
	for _, seq := range []int{2, 0, 3, 1} {
		results <- WorkResult{Seq: seq, Variant: &vcf.Variant{Pos: int64(seq)}}
	}
	close(results)

	var got []int
	err := OrderedCollect(results, func(r WorkResult) error {
		got = append(got, r.Seq)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{0, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("collected %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got seq %d, want %d", i, got[i], want[i])
		}
	}
}

func TestOrderedCollect_StopsOnError(t *testing.T) {
	results := make(chan WorkResult, 3)
	for seq := 0; seq < 3; seq++ {
		results <- WorkResult{Seq: seq}
	}
	close(results)

	boom := errors.New("boom")
	calls := 0
	err := OrderedCollect(results, func(r WorkResult) error {
		calls++
		if r.Seq == 1 {
			return boom
		}
		return nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
}

func TestParallelBuild_AllVariantsProcessed(t *testing.T) {
	ing := NewIngestor(nil)

	items := make(chan WorkItem)
	go func() {
		defer close(items)
		for i := 0; i < 50; i++ {
			items <- WorkItem{Seq: i, Variant: &vcf.Variant{Chrom: "1", Pos: int64(i + 1), Ref: "A", Alt: "G"}}
		}
	}()

	seen := make(map[int]bool)
	err := OrderedCollect(ing.parallelBuild(items, "run-1", 4), func(r WorkResult) error {
		if r.Err != nil {
			t.Errorf("seq %d: unexpected error %v", r.Seq, r.Err)
		}
		if r.Record.RunID != "run-1" {
			t.Errorf("seq %d: run id %q", r.Seq, r.Record.RunID)
		}
		if r.Record.Pos != int64(r.Seq+1) {
			t.Errorf("seq %d: pos %d", r.Seq, r.Record.Pos)
		}
		seen[r.Seq] = true
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != 50 {
		t.Errorf("processed %d items, want 50", len(seen))
	}
}
