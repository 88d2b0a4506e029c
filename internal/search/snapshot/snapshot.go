// Package snapshot implements the binary save/restore format for a fully
// built search engine: documents, the inverted index, the Zipf term
// histogram, and build metadata, framed between a magic header and a
// trailer so a truncated or foreign file is rejected outright rather than
// partially loaded. Writes are atomic (temp file + rename), following the
// same durability pattern this codebase uses for its other binary
// artifacts.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/index"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/zipf"
)

const (
	magic   = "IRDUMP01"
	trailer = "IREND000"
)

// Document mirrors the minimal document record persisted in section 1.
type Document struct {
	URL   string
	Title string
	Text  string
}

// State is everything a snapshot captures.
type State struct {
	Documents     []Document
	DocURLs       []string // doc_id -> url, section 2
	Index         *index.InvertedIndex
	Zipf          *zipf.Analyzer
	TotalTokens   uint64
	IndexTimeMs   uint64
}

// Save writes state to path atomically: it writes to a temp file in the
// same directory and renames it into place, so a crash mid-write never
// leaves a corrupt file at path.
func Save(path string, st *State) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = writeState(w, st); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err = w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming snapshot into place: %w", err)
	}
	return nil
}

func writeU64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeLString(w io.Writer, s string) error {
	if err := writeU64(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func writeState(w io.Writer, st *State) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}

	// Section 1: documents.
	if err := writeU64(w, uint64(len(st.Documents))); err != nil {
		return err
	}
	for _, d := range st.Documents {
		if err := writeLString(w, d.URL); err != nil {
			return err
		}
		if err := writeLString(w, d.Title); err != nil {
			return err
		}
		if err := writeLString(w, d.Text); err != nil {
			return err
		}
	}

	// Section 2: doc-id -> url lookup table.
	if err := writeU64(w, uint64(len(st.DocURLs))); err != nil {
		return err
	}
	for _, u := range st.DocURLs {
		if err := writeLString(w, u); err != nil {
			return err
		}
	}

	// Section 3: postings.
	var termCount uint64
	st.Index.ForEachTerm(func(string, index.PostingList) { termCount++ })
	if err := writeU64(w, termCount); err != nil {
		return err
	}
	var werr error
	st.Index.ForEachTerm(func(term string, pl index.PostingList) {
		if werr != nil {
			return
		}
		if werr = writeLString(w, term); werr != nil {
			return
		}
		if werr = writeU64(w, uint64(len(pl))); werr != nil {
			return
		}
		for _, p := range pl {
			if werr = writeU64(w, uint64(p.DocID)); werr != nil {
				return
			}
			if werr = writeU64(w, uint64(p.Frequency)); werr != nil {
				return
			}
		}
	})
	if werr != nil {
		return werr
	}

	// Section 4: zipf histogram.
	terms := st.Zipf.GetSortedTerms()
	if err := writeU64(w, st.Zipf.TotalTerms()); err != nil {
		return err
	}
	if err := writeU64(w, uint64(len(terms))); err != nil {
		return err
	}
	for _, t := range terms {
		if err := writeLString(w, t.Term); err != nil {
			return err
		}
		if err := writeU64(w, uint64(t.Frequency)); err != nil {
			return err
		}
	}

	// Section 5: metadata.
	if err := writeU64(w, st.TotalTokens); err != nil {
		return err
	}
	if err := writeU64(w, st.IndexTimeMs); err != nil {
		return err
	}

	_, err := io.WriteString(w, trailer)
	return err
}

// Load reads and validates a snapshot from path. A bad magic, truncated
// read, or bad trailer all return an error identically — callers are
// expected to fall back to rebuilding from the source corpus.
func Load(path string) (*State, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	st, err := readState(r)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return st, nil
}

func readExact(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readU64(r io.Reader) (uint64, error) {
	buf, err := readExact(r, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

func readLString(r io.Reader) (string, error) {
	n, err := readU64(r)
	if err != nil {
		return "", err
	}
	buf, err := readExact(r, int(n))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func readState(r io.Reader) (*State, error) {
	magicBuf, err := readExact(r, len(magic))
	if err != nil {
		return nil, fmt.Errorf("reading magic: %w", err)
	}
	if string(magicBuf) != magic {
		return nil, fmt.Errorf("bad magic: %q", magicBuf)
	}

	st := &State{Index: index.New(), Zipf: zipf.New()}

	docCount, err := readU64(r)
	if err != nil {
		return nil, fmt.Errorf("reading document count: %w", err)
	}
	st.Documents = make([]Document, docCount)
	for i := range st.Documents {
		url, err := readLString(r)
		if err != nil {
			return nil, fmt.Errorf("reading document %d url: %w", i, err)
		}
		title, err := readLString(r)
		if err != nil {
			return nil, fmt.Errorf("reading document %d title: %w", i, err)
		}
		text, err := readLString(r)
		if err != nil {
			return nil, fmt.Errorf("reading document %d text: %w", i, err)
		}
		st.Documents[i] = Document{URL: url, Title: title, Text: text}
	}

	lookupCount, err := readU64(r)
	if err != nil {
		return nil, fmt.Errorf("reading doc lookup count: %w", err)
	}
	st.DocURLs = make([]string, lookupCount)
	for i := range st.DocURLs {
		u, err := readLString(r)
		if err != nil {
			return nil, fmt.Errorf("reading doc lookup entry %d: %w", i, err)
		}
		st.DocURLs[i] = u
	}
	st.Index.LoadDocuments(st.DocURLs)

	termCount, err := readU64(r)
	if err != nil {
		return nil, fmt.Errorf("reading term count: %w", err)
	}
	for i := uint64(0); i < termCount; i++ {
		term, err := readLString(r)
		if err != nil {
			return nil, fmt.Errorf("reading term %d: %w", i, err)
		}
		postingCount, err := readU64(r)
		if err != nil {
			return nil, fmt.Errorf("reading posting count for term %d: %w", i, err)
		}
		pl := make(index.PostingList, postingCount)
		for j := range pl {
			docID, err := readU64(r)
			if err != nil {
				return nil, fmt.Errorf("reading posting %d/%d doc id: %w", i, j, err)
			}
			freq, err := readU64(r)
			if err != nil {
				return nil, fmt.Errorf("reading posting %d/%d frequency: %w", i, j, err)
			}
			pl[j] = index.Posting{DocID: int(docID), Frequency: int(freq)}
		}
		st.Index.LoadPostings(term, pl)
	}

	totalTerms, err := readU64(r)
	if err != nil {
		return nil, fmt.Errorf("reading zipf total: %w", err)
	}
	uniqueTerms, err := readU64(r)
	if err != nil {
		return nil, fmt.Errorf("reading zipf unique count: %w", err)
	}
	for i := uint64(0); i < uniqueTerms; i++ {
		term, err := readLString(r)
		if err != nil {
			return nil, fmt.Errorf("reading zipf term %d: %w", i, err)
		}
		count, err := readU64(r)
		if err != nil {
			return nil, fmt.Errorf("reading zipf count %d: %w", i, err)
		}
		st.Zipf.LoadTerm(term, count)
	}
	st.Zipf.SetTotals(totalTerms)

	totalTokens, err := readU64(r)
	if err != nil {
		return nil, fmt.Errorf("reading total tokens: %w", err)
	}
	indexTimeMs, err := readU64(r)
	if err != nil {
		return nil, fmt.Errorf("reading index time: %w", err)
	}
	st.TotalTokens = totalTokens
	st.IndexTimeMs = indexTimeMs

	trailerBuf, err := readExact(r, len(trailer))
	if err != nil {
		return nil, fmt.Errorf("reading trailer: %w", err)
	}
	if string(trailerBuf) != trailer {
		return nil, fmt.Errorf("bad trailer: %q", trailerBuf)
	}

	return st, nil
}
