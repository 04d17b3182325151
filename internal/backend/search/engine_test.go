package search

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/jo-hoe/sialiccatalog/internal/backend/catalog"
)

type fakeImages map[string]string

func (f fakeImages) Resolve(_ context.Context, name string) (string, bool) {
	ref, ok := f[name]
	return ref, ok
}

func newTestCatalog(names ...string) *catalog.Catalog {
	compounds := make([]catalog.Compound, 0, len(names))
	for _, n := range names {
		compounds = append(compounds, catalog.Compound{
			Name: n,
			Fields: map[string]string{
				catalog.DefaultNameColumn: n,
				"Formula":                 "F-" + n,
			},
		})
	}
	return catalog.New(catalog.DefaultNameColumn, []string{catalog.DefaultNameColumn, "Formula"}, compounds)
}

func TestSuggest_EmptyQuery(t *testing.T) {
	engine := NewEngine(newTestCatalog("Neu5Ac"), nil)

	for _, q := range []string{"", "  ", "\t\n"} {
		got := engine.Suggest(q)
		if got == nil || len(got) != 0 {
			t.Errorf("Suggest(%q) = %#v, want empty non-nil slice", q, got)
		}
	}
}

func TestSuggest_SubstringContainment(t *testing.T) {
	names := []string{"Neu5Ac", "Neu5Gc", "KDN", "9-O-Ac-Neu5Ac", "", "neu"}
	engine := NewEngine(newTestCatalog(names...), nil)

	for _, q := range []string{"neu5", "AC", "  kdn ", "5", "o-ac", "xyz", "Neu"} {
		got := engine.Suggest(q)
		needle := strings.ToLower(strings.TrimSpace(q))

		var want []string
		for _, n := range names {
			if n != "" && strings.Contains(strings.ToLower(n), needle) {
				want = append(want, n)
			}
		}
		if want == nil {
			want = []string{}
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Suggest(%q) = %v, want %v", q, got, want)
		}
	}
}

func TestSuggest_Idempotent(t *testing.T) {
	engine := NewEngine(newTestCatalog("Neu5Ac", "Neu5Gc", "KDN"), nil)

	first := engine.Suggest("neu")
	second := engine.Suggest("neu")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Suggest not idempotent: %v vs %v", first, second)
	}
}

func TestSuggest_KeepsDuplicatesInCatalogOrder(t *testing.T) {
	engine := NewEngine(newTestCatalog("KDN", "Neu5Ac", "KDN"), nil)

	want := []string{"KDN", "KDN"}
	if got := engine.Suggest("kdn"); !reflect.DeepEqual(got, want) {
		t.Fatalf("Suggest(kdn) = %v, want %v", got, want)
	}
}

func TestSearch_Neu5Scenario(t *testing.T) {
	images := fakeImages{"Neu5Ac": "/static/compound_images/Neu5Ac.PNG"}
	engine := NewEngine(newTestCatalog("Neu5Ac", "Neu5Gc", "KDN"), images)

	results, suggestions, err := engine.Search(context.Background(), "neu5")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !reflect.DeepEqual(suggestions, []string{"Neu5Ac", "Neu5Gc"}) {
		t.Errorf("unexpected suggestions %v", suggestions)
	}
	for i, r := range results {
		if r.Compound.Name != suggestions[i] {
			t.Errorf("result %d name %q does not match suggestion %q", i, r.Compound.Name, suggestions[i])
		}
	}
	if !results[0].HasImage || results[0].Image != "/static/compound_images/Neu5Ac.PNG" {
		t.Errorf("expected Neu5Ac to carry its image, got %+v", results[0])
	}
	if results[1].HasImage {
		t.Errorf("expected Neu5Gc without image, got %q", results[1].Image)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	engine := NewEngine(newTestCatalog("Neu5Ac"), nil)

	results, suggestions, err := engine.Search(context.Background(), " ")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 0 || len(suggestions) != 0 {
		t.Fatalf("expected no results for blank query, got %v %v", results, suggestions)
	}
}

func TestSearch_NoCatalogReportsError(t *testing.T) {
	engine := NewEngine(nil, nil)

	results, suggestions, err := engine.Search(context.Background(), "neu")
	if err == nil {
		t.Fatal("expected error without a catalog, got nil")
	}
	if len(results) != 0 || len(suggestions) != 0 {
		t.Fatalf("expected no results alongside the error")
	}
	if got := engine.Suggest("neu"); len(got) != 0 {
		t.Fatalf("expected empty suggestions without a catalog, got %v", got)
	}
}

func TestResult_MarshalJSON(t *testing.T) {
	engine := NewEngine(newTestCatalog("KDN"), fakeImages{})

	results, _, err := engine.Search(context.Background(), "kdn")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	data, err := json.Marshal(results[0])
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if decoded[catalog.DefaultNameColumn] != "KDN" {
		t.Errorf("expected name column in JSON, got %v", decoded)
	}
	if decoded["Formula"] != "F-KDN" {
		t.Errorf("expected Formula in JSON, got %v", decoded)
	}
	if v, ok := decoded[ImageKey]; !ok || v != nil {
		t.Errorf("expected Image to be null, got %v (present=%v)", v, ok)
	}
}
