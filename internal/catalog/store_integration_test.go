//go:build integration

package catalog_test

import (
	"context"
	"testing"

	"github.com/flowfind/flowfind/internal/catalog"
	"github.com/flowfind/flowfind/internal/log"
	"github.com/flowfind/flowfind/internal/testutil"
)

// unitVector returns a vector with a 1 at the given position. Cosine
// similarity between two such vectors is 1 when the positions match and 0
// otherwise, which makes threshold behavior easy to assert.
func unitVector(pos int) []float32 {
	v := make([]float32, catalog.VectorDimension)
	v[pos] = 1
	return v
}

func record(name string, pos int) catalog.WorkflowRecord {
	return catalog.WorkflowRecord{
		Name:        name,
		Description: "does " + name,
		Link:        "https://example.com/" + name,
		Embedding:   unitVector(pos),
	}
}

func TestStoreIntegration(t *testing.T) {
	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store, err := catalog.NewStore(tdb.Pool, log.NewNop())
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}

	t.Run("upsert and count", func(t *testing.T) {
		for i, name := range []string{"A", "B", "C"} {
			written, err := store.Upsert(ctx, record(name, i))
			if err != nil {
				t.Fatalf("Upsert(%s) failed: %v", name, err)
			}
			if !written {
				t.Errorf("Upsert(%s) = false on first insert", name)
			}
		}

		count, err := store.Count(ctx)
		if err != nil {
			t.Fatalf("Count() failed: %v", err)
		}
		if count != 3 {
			t.Errorf("Count() = %d, want 3", count)
		}
	})

	t.Run("upsert is idempotent by name", func(t *testing.T) {
		written, err := store.Upsert(ctx, record("A", 5))
		if err != nil {
			t.Fatalf("Upsert() failed: %v", err)
		}
		if written {
			t.Error("second Upsert of the same name should not write")
		}

		count, _ := store.Count(ctx)
		if count != 3 {
			t.Errorf("Count() = %d after duplicate upsert, want 3", count)
		}
	})

	t.Run("list names", func(t *testing.T) {
		names, err := store.ListNames(ctx)
		if err != nil {
			t.Fatalf("ListNames() failed: %v", err)
		}
		for _, want := range []string{"A", "B", "C"} {
			if _, ok := names[want]; !ok {
				t.Errorf("ListNames() missing %q", want)
			}
		}
	})

	t.Run("similarity search respects threshold and limit", func(t *testing.T) {
		// Query matches A exactly; B and C are orthogonal so their
		// similarity is 0 and below the threshold.
		results, err := store.SimilaritySearch(ctx, unitVector(0), 0.1, 5)
		if err != nil {
			t.Fatalf("SimilaritySearch() failed: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("got %d results, want 1: %+v", len(results), results)
		}
		if results[0].Name != "A" {
			t.Errorf("top result = %q, want A", results[0].Name)
		}
		if results[0].Similarity < 0.99 {
			t.Errorf("similarity = %v, want ~1", results[0].Similarity)
		}
		if results[0].Link == "" {
			t.Error("search result should carry the link")
		}
	})

	t.Run("higher threshold returns a subset", func(t *testing.T) {
		// D sits partway between dims 0 and 3 so its similarity to the
		// query lands strictly between the exact match and the orthogonal
		// records.
		mixed := make([]float32, catalog.VectorDimension)
		mixed[0] = 0.707
		mixed[3] = 0.707
		if _, err := store.Upsert(ctx, catalog.WorkflowRecord{
			Name:        "D",
			Description: "does D",
			Link:        "https://example.com/D",
			Embedding:   mixed,
		}); err != nil {
			t.Fatalf("Upsert(D) failed: %v", err)
		}

		loose, err := store.SimilaritySearch(ctx, unitVector(0), 0.1, 5)
		if err != nil {
			t.Fatalf("SimilaritySearch(0.1) failed: %v", err)
		}
		strict, err := store.SimilaritySearch(ctx, unitVector(0), 0.9, 5)
		if err != nil {
			t.Fatalf("SimilaritySearch(0.9) failed: %v", err)
		}

		if len(strict) >= len(loose) {
			t.Errorf("strict threshold returned %d results, loose %d", len(strict), len(loose))
		}
		looseNames := make(map[string]struct{}, len(loose))
		for _, r := range loose {
			looseNames[r.Name] = struct{}{}
		}
		for _, r := range strict {
			if _, ok := looseNames[r.Name]; !ok {
				t.Errorf("result %q at strict threshold missing from loose threshold", r.Name)
			}
		}
	})

	t.Run("similarity search caps at limit", func(t *testing.T) {
		results, err := store.SimilaritySearch(ctx, unitVector(0), -1, 2)
		if err != nil {
			t.Fatalf("SimilaritySearch() failed: %v", err)
		}
		if len(results) > 2 {
			t.Errorf("got %d results, want at most 2", len(results))
		}
	})

	t.Run("get", func(t *testing.T) {
		rec, err := store.Get(ctx, "B")
		if err != nil {
			t.Fatalf("Get(B) failed: %v", err)
		}
		if rec.Description != "does B" {
			t.Errorf("Description = %q", rec.Description)
		}

		if _, err := store.Get(ctx, "missing"); err == nil {
			t.Error("Get(missing) should fail")
		}
	})
}
