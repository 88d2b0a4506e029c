package engine

import (
	"testing"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/corpus"
)

func buildSampleEngine() *Engine {
	docs := []corpus.Document{
		{URL: "d1", Title: "D1", Text: "Роман и поэзия"},
		{URL: "d2", Title: "D2", Text: "Роман, роман"},
		{URL: "d3", Title: "D3", Text: "Поэзия современная"},
	}
	return Build(docs, nil)
}

func urlsOf(r *SearchResult) []string {
	out := make([]string, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.URL
	}
	return out
}

func containsAll(got []string, want ...string) bool {
	set := map[string]bool{}
	for _, u := range got {
		set[u] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return len(got) == len(want)
}

func TestEngineSearchSingleTerm(t *testing.T) {
	e := buildSampleEngine()
	r := e.Search("роман", 10)
	if !containsAll(urlsOf(r), "d1", "d2") {
		t.Fatalf("got %v, want [d1 d2] in some order", urlsOf(r))
	}
	// d2 has term frequency 2 for "роман" vs d1's 1, so it should rank first.
	if r.Results[0].URL != "d2" {
		t.Fatalf("got top result %s, want d2", r.Results[0].URL)
	}
}

func TestEngineSearchAnd(t *testing.T) {
	e := buildSampleEngine()
	r := e.Search("роман && поэзия", 10)
	if !containsAll(urlsOf(r), "d1") {
		t.Fatalf("got %v, want [d1]", urlsOf(r))
	}
}

func TestEngineSearchOr(t *testing.T) {
	e := buildSampleEngine()
	r := e.Search("роман || поэзия", 10)
	if !containsAll(urlsOf(r), "d1", "d2", "d3") {
		t.Fatalf("got %v, want [d1 d2 d3]", urlsOf(r))
	}
}

func TestEngineSearchAndNot(t *testing.T) {
	e := buildSampleEngine()
	r := e.Search("роман && !поэзия", 10)
	if !containsAll(urlsOf(r), "d2") {
		t.Fatalf("got %v, want [d2]", urlsOf(r))
	}
}

func TestEngineSearchParenthesized(t *testing.T) {
	e := buildSampleEngine()
	r := e.Search("(роман || современная) && !поэзия", 10)
	if !containsAll(urlsOf(r), "d2") {
		t.Fatalf("got %v, want [d2]", urlsOf(r))
	}
}

func TestEngineSearchEmptyQuery(t *testing.T) {
	e := buildSampleEngine()
	r := e.Search("", 10)
	if len(r.Results) != 0 {
		t.Fatalf("got %d results, want 0", len(r.Results))
	}
}

func TestEngineStats(t *testing.T) {
	e := buildSampleEngine()
	s := e.Stats()
	if s.Documents != 3 {
		t.Fatalf("got %d documents, want 3", s.Documents)
	}
	if s.Status != "ready" {
		t.Fatalf("got status %q, want ready", s.Status)
	}
}

func TestEngineDocumentLookup(t *testing.T) {
	e := buildSampleEngine()
	doc, ok := e.Document("d1")
	if !ok || doc.Title != "D1" {
		t.Fatalf("got (%+v, %v)", doc, ok)
	}
	if _, ok := e.Document("missing"); ok {
		t.Fatalf("expected miss")
	}
}

func TestEngineDumpAndLoadRoundTrip(t *testing.T) {
	e := buildSampleEngine()
	path := t.TempDir() + "/snapshot.bin"
	if err := e.Dump(path); err != nil {
		t.Fatalf("dump failed: %v", err)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	before, after := e.Stats(), loaded.Stats()
	if before.Documents != after.Documents || before.Vocabulary != after.Vocabulary ||
		before.TotalTerms != after.TotalTerms || before.UniqueTerms != after.UniqueTerms {
		t.Fatalf("stats mismatch: before=%+v after=%+v", before, after)
	}

	r1 := e.Search("роман && !поэзия", 10)
	r2 := loaded.Search("роман && !поэзия", 10)
	if !containsAll(urlsOf(r1), urlsOf(r2)...) {
		t.Fatalf("round-trip query mismatch: %v vs %v", urlsOf(r1), urlsOf(r2))
	}
}
