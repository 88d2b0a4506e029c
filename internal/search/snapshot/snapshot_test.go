package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/index"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/zipf"
)

func sampleState() *State {
	idx := index.New()
	idx.AddDocument("http://a", []string{"cat", "dog", "cat"})
	idx.AddDocument("http://b", []string{"dog"})

	za := zipf.New()
	za.AddTerm("cat")
	za.AddTerm("cat")
	za.AddTerm("dog")
	za.AddTerm("dog")

	return &State{
		Documents: []Document{
			{URL: "http://a", Title: "A", Text: "cat dog cat"},
			{URL: "http://b", Title: "B", Text: "dog"},
		},
		DocURLs:     idx.Documents(),
		Index:       idx,
		Zipf:        za,
		TotalTokens: 4,
		IndexTimeMs: 12,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.bin")
	st := sampleState()
	if err := Save(path, st); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if len(loaded.Documents) != 2 || loaded.Documents[0].URL != "http://a" {
		t.Fatalf("got %+v", loaded.Documents)
	}
	if loaded.Index.DocumentCount() != 2 || loaded.Index.VocabularySize() != 2 {
		t.Fatalf("got docs=%d vocab=%d", loaded.Index.DocumentCount(), loaded.Index.VocabularySize())
	}
	pl := loaded.Index.GetPostingList("cat")
	if len(pl) != 1 || pl[0].Frequency != 2 {
		t.Fatalf("got %+v, want [{0 2}]", pl)
	}
	if loaded.Zipf.TotalTerms() != 4 {
		t.Fatalf("got total terms %d, want 4", loaded.Zipf.TotalTerms())
	}
	if loaded.TotalTokens != 4 || loaded.IndexTimeMs != 12 {
		t.Fatalf("got metadata %+v", loaded)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bin")
	if err := os.WriteFile(path, []byte("NOTASNAP"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for bad magic")
	}
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trunc.bin")
	if err := Save(path, sampleState()); err != nil {
		t.Fatalf("setup save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	truncated := data[:len(data)-4]
	if err := os.WriteFile(path, truncated, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for truncated file")
	}
}
