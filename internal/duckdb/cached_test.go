package duckdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omicsdb/varid/internal/vrs"
)

// fakeLookup counts how often the backing store is hit.
type fakeLookup struct {
	records map[string]*VariantRecord
	calls   int
}

func (f *fakeLookup) Lookup(id string) (*VariantRecord, error) {
	f.calls++
	if r, ok := f.records[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, nil
}

func TestCachedStore_Lookup(t *testing.T) {
	backing := &fakeLookup{
		records: map[string]*VariantRecord{
			"ga4gh:VA:7:abc": {ID: "ga4gh:VA:7:abc", Chromosome: "7", Pos: 100, Ref: "A", Alt: "T"},
		},
	}

	cached, err := NewCachedStore(backing, 8)
	require.NoError(t, err)

	got, err := cached.Lookup("ga4gh:VA:7:abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, backing.calls)

	// Second lookup is served from the cache.
	got, err = cached.Lookup("ga4gh:VA:7:abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, backing.calls)
	assert.Equal(t, 1, cached.Len())
}

func TestCachedStore_MissesNotCached(t *testing.T) {
	backing := &fakeLookup{records: map[string]*VariantRecord{}}

	cached, err := NewCachedStore(backing, 8)
	require.NoError(t, err)

	got, err := cached.Lookup("ga4gh:VA:7:absent")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, backing.calls)

	// A later ingest may add the record, so the miss goes back to the store.
	got, err = cached.Lookup("ga4gh:VA:7:absent")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 2, backing.calls)
	assert.Equal(t, 0, cached.Len())
}

func TestCachedStore_CopyIsolation(t *testing.T) {
	backing := &fakeLookup{
		records: map[string]*VariantRecord{
			"ga4gh:VA:x:1": {ID: "ga4gh:VA:x:1", Chromosome: "X", Pos: 5, Ref: "C", Alt: "G"},
		},
	}

	cached, err := NewCachedStore(backing, 8)
	require.NoError(t, err)

	first, err := cached.Lookup("ga4gh:VA:x:1")
	require.NoError(t, err)
	first.Ref = "mutated"

	second, err := cached.Lookup("ga4gh:VA:x:1")
	require.NoError(t, err)
	assert.Equal(t, "C", second.Ref)
}

func TestCachedStore_AgainstDuckDB(t *testing.T) {
	s := openInMemory(t)

	rec := makeRecord(t, "12", 25245351, "C", "A", "rs121913530", "run-1")
	_, err := s.PutVariants([]VariantRecord{rec})
	require.NoError(t, err)

	cached, err := NewCachedStore(s, 8)
	require.NoError(t, err)

	got, err := cached.Lookup(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec, *got)

	// Remove the row underneath the cache; the cached record still serves.
	table, err := vrs.TableNameFor(rec.ID)
	require.NoError(t, err)
	_, err = s.DB().Exec("DELETE FROM public." + table)
	require.NoError(t, err)

	got, err = cached.Lookup(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}
