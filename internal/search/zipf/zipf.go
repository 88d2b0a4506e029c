// Package zipf tracks corpus-wide term frequencies and exposes them sorted
// by descending frequency, the shape needed to report and sanity-check a
// corpus's Zipfian distribution.
package zipf

import "github.com/Adithya-Monish-Kumar-K/linguasearch/internal/textproc/stringmap"

// RankedTerm is one row of a frequency-sorted term table.
type RankedTerm struct {
	Rank      int
	Term      string
	Frequency int
}

// Analyzer accumulates per-term occurrence counts across an entire corpus.
type Analyzer struct {
	counts     *stringmap.Map[uint64]
	uniqueSeen int
	totalTerms uint64
}

// New constructs an empty Analyzer.
func New() *Analyzer {
	return &Analyzer{counts: stringmap.New[uint64]()}
}

// AddTerm records one more occurrence of term.
func (a *Analyzer) AddTerm(term string) {
	before := a.counts.Len()
	ptr := a.counts.GetOrCreate([]byte(term))
	if a.counts.Len() != before {
		a.uniqueSeen++
	}
	*ptr++
	a.totalTerms++
}

// UniqueTerms returns the number of distinct terms observed.
func (a *Analyzer) UniqueTerms() int {
	return a.counts.Len()
}

// TotalTerms returns the total number of AddTerm calls made.
func (a *Analyzer) TotalTerms() uint64 {
	return a.totalTerms
}

// GetSortedTerms returns every observed term ranked by descending
// frequency, 1-based ranks assigned after sorting. The sort is stable over
// the hash table's slot order, so equal-frequency terms keep that slot
// order; the order in which terms were first seen is not tracked.
func (a *Analyzer) GetSortedTerms() []RankedTerm {
	terms := make([]RankedTerm, 0, a.counts.Len())
	a.counts.ForEach(func(key []byte, count uint64) {
		terms = append(terms, RankedTerm{Term: string(key), Frequency: int(count)})
	})
	stableSortByFrequencyDesc(terms)
	for i := range terms {
		terms[i].Rank = i + 1
	}
	return terms
}

// LoadTerm installs a term with a pre-computed count, used when restoring
// state from a snapshot.
func (a *Analyzer) LoadTerm(term string, count uint64) {
	*a.counts.GetOrCreate([]byte(term)) = count
}

// SetTotals overrides the running totals, used when restoring from a
// snapshot where the totals were serialized directly rather than
// recomputed from LoadTerm calls.
func (a *Analyzer) SetTotals(totalTerms uint64) {
	a.totalTerms = totalTerms
}

// stableSortByFrequencyDesc performs a bottom-up merge sort, matching the
// stability and complexity of the classic Zipf-table sort: O(N log N),
// ties preserve their relative order.
func stableSortByFrequencyDesc(terms []RankedTerm) {
	n := len(terms)
	if n < 2 {
		return
	}
	buf := make([]RankedTerm, n)
	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeByFrequencyDesc(terms[lo:hi], buf[lo:hi], mid-lo)
		}
	}
}

func mergeByFrequencyDesc(dst []RankedTerm, buf []RankedTerm, mid int) {
	copy(buf, dst)
	left, right := buf[:mid], buf[mid:]
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if left[i].Frequency >= right[j].Frequency {
			dst[k] = left[i]
			i++
		} else {
			dst[k] = right[j]
			j++
		}
		k++
	}
	for i < len(left) {
		dst[k] = left[i]
		i++
		k++
	}
	for j < len(right) {
		dst[k] = right[j]
		j++
		k++
	}
}
