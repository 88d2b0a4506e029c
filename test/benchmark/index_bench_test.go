// Package benchmark contains Go benchmarks for the inverted index and the
// end-to-end engine build/search pipeline, measuring throughput and
// allocation behaviour.
package benchmark

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/corpus"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/engine"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/index"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/textproc/stemmer"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/textproc/tokenizer"
)

// terms tokenizes and stems text the same way engine.Build does, for
// benchmarks that want to drive the inverted index directly.
func terms(text string) []string {
	tokens := tokenizer.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, stemmer.Stem(tok.Text))
	}
	return out
}

// BenchmarkInvertedIndexAddDocument measures per-document insert throughput.
func BenchmarkInvertedIndexAddDocument(b *testing.B) {
	idx := index.New()
	docTerms := terms("this is a benchmark document with several terms for testing indexing performance")
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		docID := fmt.Sprintf("doc-%d", i)
		idx.AddDocument(docID, docTerms)
	}
}

// BenchmarkInvertedIndexLookup measures single-term posting-list lookup
// latency over 10,000 documents.
func BenchmarkInvertedIndexLookup(b *testing.B) {
	idx := index.New()
	docTerms := terms("search engine with distributed indexing and query processing")
	for i := 0; i < 10000; i++ {
		docID := fmt.Sprintf("doc-%d", i)
		idx.AddDocument(docID, docTerms)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pl := idx.GetPostingList(stemmer.Stem("search"))
		_ = pl
	}
}

// BenchmarkInvertedIndexLookupParallel measures concurrent read throughput.
func BenchmarkInvertedIndexLookupParallel(b *testing.B) {
	idx := index.New()
	docTerms := terms("search engine with distributed indexing and query processing")
	for i := 0; i < 10000; i++ {
		docID := fmt.Sprintf("doc-%d", i)
		idx.AddDocument(docID, docTerms)
	}

	term := stemmer.Stem("search")
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			pl := idx.GetPostingList(term)
			_ = pl
		}
	})
}

// BenchmarkEngineBuild measures full corpus indexing throughput at various
// corpus sizes.
func BenchmarkEngineBuild(b *testing.B) {
	sizes := []int{100, 1000, 5000}
	for _, n := range sizes {
		b.Run(fmt.Sprintf("docs_%d", n), func(b *testing.B) {
			docs := make([]corpus.Document, n)
			for i := range docs {
				docs[i] = corpus.Document{
					URL:   fmt.Sprintf("http://bench/%d", i),
					Title: "benchmark title",
					Text:  "benchmark document body for measuring indexing throughput across the corpus",
				}
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				e := engine.Build(docs, nil)
				_ = e
			}
		})
	}
}

// BenchmarkEngineSearch measures end-to-end search latency across 10,000
// documents.
func BenchmarkEngineSearch(b *testing.B) {
	termWords := []string{"distributed", "search", "analytics", "platform", "indexing", "query", "engine", "ranking"}
	docs := make([]corpus.Document, 10000)
	for i := range docs {
		docs[i] = corpus.Document{
			URL:   fmt.Sprintf("http://bench/%d", i),
			Title: fmt.Sprintf("document about %s and %s", termWords[i%len(termWords)], termWords[(i+1)%len(termWords)]),
			Text: fmt.Sprintf("this document covers %s %s %s in production systems",
				termWords[i%len(termWords)], termWords[(i+2)%len(termWords)], termWords[(i+3)%len(termWords)]),
		}
	}
	e := engine.Build(docs, nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := e.Search(termWords[i%len(termWords)], 10)
		_ = result
	}
}
