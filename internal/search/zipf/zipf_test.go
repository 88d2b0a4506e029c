package zipf

import "testing"

func TestGetSortedTermsDescendingByFrequency(t *testing.T) {
	a := New()
	for i := 0; i < 5; i++ {
		a.AddTerm("common")
	}
	for i := 0; i < 2; i++ {
		a.AddTerm("rare")
	}
	a.AddTerm("single")

	ranked := a.GetSortedTerms()
	if len(ranked) != 3 {
		t.Fatalf("got %d terms, want 3", len(ranked))
	}
	if ranked[0].Term != "common" || ranked[0].Rank != 1 {
		t.Fatalf("got %+v, want common at rank 1", ranked[0])
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Frequency > ranked[i-1].Frequency {
			t.Fatalf("not sorted descending: %+v", ranked)
		}
		if ranked[i].Rank != i+1 {
			t.Fatalf("got rank %d at position %d, want %d", ranked[i].Rank, i, i+1)
		}
	}
}

func TestTotalAndUniqueCounters(t *testing.T) {
	a := New()
	a.AddTerm("a")
	a.AddTerm("a")
	a.AddTerm("b")
	if a.TotalTerms() != 3 {
		t.Fatalf("got %d, want 3", a.TotalTerms())
	}
	if a.UniqueTerms() != 2 {
		t.Fatalf("got %d, want 2", a.UniqueTerms())
	}
}
