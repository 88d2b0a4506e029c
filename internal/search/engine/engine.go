// Package engine assembles the tokenizer, stemmer, inverted index, Zipf
// analyzer, and query engine into the single read-only, dependency-
// injected Engine value that both the CLI and the HTTP surface query
// against. An Engine is built once (from a corpus or a snapshot) and never
// mutated in place; a rebuild constructs a fresh Engine and the caller
// swaps it in atomically.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/corpus"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/index"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/query"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/snapshot"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/zipf"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/textproc/stemmer"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/textproc/tokenizer"
)

// Metadata describes how an Engine's state was produced.
type Metadata struct {
	IndexTimeMs uint64
	TotalTokens uint64
}

// Engine is the immutable, fully-built state a query is evaluated against.
type Engine struct {
	documents []snapshot.Document // full text, by doc id, for snippets/document lookup
	index     *index.InvertedIndex
	zipf      *zipf.Analyzer
	metadata  Metadata
}

// Result is one ranked search hit.
type Result struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet"`
}

// SearchResult is the outcome of a Search call.
type SearchResult struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
}

// Stats reports engine-wide counters, the shape of GET /api/stats.
type Stats struct {
	Documents   int    `json:"documents"`
	Vocabulary  int    `json:"vocabulary"`
	TotalTerms  uint64 `json:"total_terms"`
	UniqueTerms int    `json:"unique_terms"`
	IndexTimeMs uint64 `json:"index_time"`
	Status      string `json:"status"`
}

// Build ingests docs into a fresh Engine: each document's text is
// tokenized, each token stemmed, and every stem posted into the inverted
// index and the Zipf analyzer. Progress is logged every 500 documents,
// mirroring how this codebase's own indexers report throughput and ETA
// during a long build.
func Build(docs []corpus.Document, log *slog.Logger) *Engine {
	start := time.Now()
	idx := index.New()
	za := zipf.New()
	stored := make([]snapshot.Document, 0, len(docs))

	var totalTokens uint64
	for i, d := range docs {
		tokens := tokenizer.Tokenize(d.Text)
		terms := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			stem := stemmer.Stem(tok.Text)
			terms = append(terms, stem)
			za.AddTerm(stem)
		}
		idx.AddDocument(d.URL, terms)
		stored = append(stored, snapshot.Document{URL: d.URL, Title: d.Title, Text: d.Text})
		totalTokens += uint64(len(terms))

		if log != nil && (i+1)%500 == 0 {
			elapsed := time.Since(start)
			rate := float64(i+1) / elapsed.Seconds()
			remaining := len(docs) - (i + 1)
			eta := time.Duration(0)
			if rate > 0 {
				eta = time.Duration(float64(remaining)/rate) * time.Second
			}
			log.Info("indexing progress",
				"documents", i+1,
				"total", len(docs),
				"docs_per_sec", fmt.Sprintf("%.1f", rate),
				"eta", eta.Round(time.Second).String(),
				"vocabulary", idx.VocabularySize(),
			)
		}
	}

	elapsed := time.Since(start)
	if log != nil {
		log.Info("indexing complete",
			"documents", len(docs),
			"vocabulary", idx.VocabularySize(),
			"total_terms", totalTokens,
			"elapsed", elapsed.String(),
		)
	}

	return &Engine{
		documents: stored,
		index:     idx,
		zipf:      za,
		metadata: Metadata{
			IndexTimeMs: uint64(elapsed.Milliseconds()),
			TotalTokens: totalTokens,
		},
	}
}

// postingSource adapts Engine to query.PostingSource.
type postingSource struct{ e *Engine }

func (s postingSource) DocIDsForTerm(term string) []int {
	return s.e.index.GetPostingList(term).DocIDs()
}

func (s postingSource) Frequency(term string, docID int) int {
	return s.e.index.GetPostingList(term).Frequency(docID)
}

func (s postingSource) DocumentCount() int {
	return s.e.index.DocumentCount()
}

// Search evaluates queryString and returns up to maxResults ranked hits.
func (e *Engine) Search(queryString string, maxResults int) *SearchResult {
	tokens := query.Lex(queryString)
	ast := query.ParseTokens(tokens)
	src := postingSource{e}

	candidates := query.Eval(ast, src)
	terms := query.PositiveTerms(tokens)
	scored := query.Rank(candidates, terms, src, maxResults)

	results := make([]Result, 0, len(scored))
	for _, s := range scored {
		doc := e.documentAt(s.DocID)
		results = append(results, Result{
			URL:     doc.URL,
			Title:   doc.Title,
			Score:   s.Score,
			Snippet: MakeSnippet(doc.Text, terms),
		})
	}

	return &SearchResult{Results: results, Total: len(candidates)}
}

func (e *Engine) documentAt(docID int) snapshot.Document {
	if docID < 0 || docID >= len(e.documents) {
		return snapshot.Document{}
	}
	return e.documents[docID]
}

// Document looks up a document by URL.
func (e *Engine) Document(url string) (snapshot.Document, bool) {
	id, ok := e.index.GetDocID(url)
	if !ok {
		return snapshot.Document{}, false
	}
	return e.documentAt(id), true
}

// Stats reports engine-wide counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Documents:   e.index.DocumentCount(),
		Vocabulary:  e.index.VocabularySize(),
		TotalTerms:  e.zipf.TotalTerms(),
		UniqueTerms: e.zipf.UniqueTerms(),
		IndexTimeMs: e.metadata.IndexTimeMs,
		Status:      "ready",
	}
}

// ZipfEntry is one row of a Zipf report, including the naive Zipfian
// prediction max_frequency / rank used to sanity-check the corpus's
// frequency distribution against the law it's named for.
type ZipfEntry struct {
	Rank           int     `json:"rank"`
	Term           string  `json:"term"`
	Frequency      int     `json:"frequency"`
	ZipfPrediction float64 `json:"zipf_prediction"`
}

// ZipfTop returns the top `limit` terms by descending frequency.
func (e *Engine) ZipfTop(limit int) (entries []ZipfEntry, totalUnique int, totalTerms uint64) {
	ranked := e.zipf.GetSortedTerms()
	totalUnique = len(ranked)
	totalTerms = e.zipf.TotalTerms()
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	var maxFreq float64
	if len(ranked) > 0 {
		maxFreq = float64(ranked[0].Frequency)
	}
	entries = make([]ZipfEntry, limit)
	for i := 0; i < limit; i++ {
		entries[i] = ZipfEntry{
			Rank:           ranked[i].Rank,
			Term:           ranked[i].Term,
			Frequency:      ranked[i].Frequency,
			ZipfPrediction: maxFreq / float64(ranked[i].Rank),
		}
	}
	return entries, totalUnique, totalTerms
}

// Dump persists the engine's full state to path as a binary snapshot.
func (e *Engine) Dump(path string) error {
	return snapshot.Save(path, &snapshot.State{
		Documents:   e.documents,
		DocURLs:     e.index.Documents(),
		Index:       e.index,
		Zipf:        e.zipf,
		TotalTokens: e.metadata.TotalTokens,
		IndexTimeMs: e.metadata.IndexTimeMs,
	})
}

// LoadSnapshot restores an Engine from a binary snapshot file.
func LoadSnapshot(path string) (*Engine, error) {
	st, err := snapshot.Load(path)
	if err != nil {
		return nil, err
	}
	return &Engine{
		documents: st.Documents,
		index:     st.Index,
		zipf:      st.Zipf,
		metadata: Metadata{
			IndexTimeMs: st.IndexTimeMs,
			TotalTokens: st.TotalTokens,
		},
	}, nil
}
