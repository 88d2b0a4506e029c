// Package index implements the inverted index: a mapping from stemmed term
// to an ascending posting list, plus the URL<->doc-id bookkeeping needed to
// build it incrementally in a single ingest pass.
package index

import "github.com/Adithya-Monish-Kumar-K/linguasearch/internal/textproc/stringmap"

// InvertedIndex maps terms to posting lists over a dense, zero-based set of
// document ids assigned in first-seen order. It is built once during
// ingest or snapshot load and is read-only for the remainder of its life.
type InvertedIndex struct {
	documents []string             // doc_id -> url, in first-seen order
	docLookup *stringmap.Map[int]  // url -> doc_id
	postings  *stringmap.Map[PostingList]
}

// New constructs an empty InvertedIndex.
func New() *InvertedIndex {
	return &InvertedIndex{
		docLookup: stringmap.New[int](),
		postings:  stringmap.New[PostingList](),
	}
}

// AddDocument resolves url to a doc id (assigning a new one if url has not
// been seen before) and posts every term in terms against that doc id.
// Terms is expected in the order in which they occur in the document; this
// is what makes PostingList.Add's monotonic-doc-id shortcut valid — a term
// repeated within one call still targets the single most-recent posting.
func (idx *InvertedIndex) AddDocument(url string, terms []string) int {
	docID := idx.resolveDocID(url)
	for _, term := range terms {
		pl := idx.postings.GetOrCreate([]byte(term))
		pl.Add(docID)
	}
	return docID
}

func (idx *InvertedIndex) resolveDocID(url string) int {
	if id, ok := idx.docLookup.Get([]byte(url)); ok {
		return id
	}
	id := len(idx.documents)
	idx.documents = append(idx.documents, url)
	idx.docLookup.Set([]byte(url), id)
	return id
}

// GetPostingList returns the posting list for term, or nil if the term is
// not present in the index.
func (idx *InvertedIndex) GetPostingList(term string) PostingList {
	pl, ok := idx.postings.Get([]byte(term))
	if !ok {
		return nil
	}
	return pl
}

// GetURL returns the URL stored at doc id, or "" if out of range.
func (idx *InvertedIndex) GetURL(docID int) string {
	if docID < 0 || docID >= len(idx.documents) {
		return ""
	}
	return idx.documents[docID]
}

// GetDocID returns the doc id assigned to url, if any.
func (idx *InvertedIndex) GetDocID(url string) (int, bool) {
	return idx.docLookup.Get([]byte(url))
}

// DocumentCount returns the number of distinct documents indexed.
func (idx *InvertedIndex) DocumentCount() int {
	return len(idx.documents)
}

// VocabularySize returns the number of distinct terms indexed.
func (idx *InvertedIndex) VocabularySize() int {
	return idx.postings.Len()
}

// Documents returns the doc-id -> url table, in order. Callers must treat
// the returned slice as read-only.
func (idx *InvertedIndex) Documents() []string {
	return idx.documents
}

// ForEachTerm calls fn once per (term, posting list) pair. Order is
// unspecified; used by the Zipf/snapshot writers that need a full sweep.
func (idx *InvertedIndex) ForEachTerm(fn func(term string, postings PostingList)) {
	idx.postings.ForEach(func(key []byte, pl PostingList) {
		fn(string(key), pl)
	})
}

// LoadDocuments replaces the doc-id -> url table wholesale, used when
// restoring from a snapshot. Callers must not call AddDocument afterwards
// with URLs that would collide with the loaded table under a different id.
func (idx *InvertedIndex) LoadDocuments(urls []string) {
	idx.documents = urls
	idx.docLookup = stringmap.New[int]()
	for i, u := range urls {
		idx.docLookup.Set([]byte(u), i)
	}
}

// LoadPostings installs a fully-formed posting list for term, used when
// restoring from a snapshot.
func (idx *InvertedIndex) LoadPostings(term string, pl PostingList) {
	*idx.postings.GetOrCreate([]byte(term)) = pl
}
