package search

import (
	"testing"

	"github.com/khanglvm/intent-hub-mcp/internal/samples"
)

func newTestIndexer(t *testing.T) *Indexer {
	t.Helper()

	idx, err := NewIndexer()
	if err != nil {
		t.Fatalf("failed to create indexer: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	if err := idx.IndexSamples(samples.Seed()); err != nil {
		t.Fatalf("failed to index seed corpus: %v", err)
	}
	return idx
}

func TestIndexSamples_Count(t *testing.T) {
	idx := newTestIndexer(t)

	count, err := idx.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != uint64(len(samples.Seed())) {
		t.Errorf("expected %d indexed samples, got %d", len(samples.Seed()), count)
	}
}

func TestSearch_FindsRelevantSamples(t *testing.T) {
	idx := newTestIndexer(t)

	results, err := idx.Search("parser module", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected results for 'parser module'")
	}
	if results[0].Intent != "write_code" {
		t.Errorf("expected top hit labeled write_code, got %s", results[0].Intent)
	}
}

func TestSearch_DefaultLimit(t *testing.T) {
	idx := newTestIndexer(t)

	results, err := idx.Search("run", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 10 {
		t.Errorf("default limit should cap results at 10, got %d", len(results))
	}
}

func TestSearchByIntent_Scoped(t *testing.T) {
	idx := newTestIndexer(t)

	results, err := idx.SearchByIntent("run", "run_command", 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Intent != "run_command" {
			t.Errorf("scoped search leaked intent %s", r.Intent)
		}
	}
}
