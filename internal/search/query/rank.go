package query

import "math"

// ScoredDoc is one ranked result of a search.
type ScoredDoc struct {
	DocID int
	Score float64
}

// PositiveTerms returns the stems of every WORD token in the lexed query
// that is not directly preceded by a NOT_OP token — i.e. negated at the
// token-stream level, not merely nested somewhere beneath a NOT in the
// parsed tree. If every WORD is negated, all WORD stems are returned
// instead so a query like "!spam" still has something to rank against.
func PositiveTerms(tokens []Token) []string {
	var positive, all []string
	negatedPrev := false
	for _, t := range tokens {
		switch t.Kind {
		case TokenNot:
			negatedPrev = true
			continue
		case TokenWord:
			all = append(all, t.Stem)
			if !negatedPrev {
				positive = append(positive, t.Stem)
			}
		}
		negatedPrev = false
	}
	if len(positive) == 0 {
		return all
	}
	return positive
}

// Rank scores every candidate doc id by summed TF-IDF over terms and
// returns them sorted descending by score, ties broken by ascending doc
// id, truncated to maxResults.
func Rank(candidates []int, terms []string, src PostingSource, maxResults int) []ScoredDoc {
	n := src.DocumentCount()
	idf := make(map[string]float64, len(terms))
	for _, t := range terms {
		df := len(src.DocIDsForTerm(t))
		if df > 0 && n > 0 {
			idf[t] = math.Log10(float64(n) / float64(df))
		} else {
			idf[t] = 0
		}
	}

	scored := make([]ScoredDoc, len(candidates))
	for i, doc := range candidates {
		var score float64
		for _, t := range terms {
			tf := src.Frequency(t, doc)
			if tf == 0 {
				continue
			}
			score += float64(tf) * idf[t]
		}
		scored[i] = ScoredDoc{DocID: doc, Score: score}
	}

	stableSortByScoreDesc(scored)
	if maxResults > 0 && len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

// stableSortByScoreDesc is a bottom-up merge sort: descending by Score,
// ties broken by ascending DocID (which candidates already arrive in,
// since Eval's set algebra preserves ascending order).
func stableSortByScoreDesc(docs []ScoredDoc) {
	n := len(docs)
	if n < 2 {
		return
	}
	buf := make([]ScoredDoc, n)
	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeByScoreDesc(docs[lo:hi], buf[lo:hi], mid-lo)
		}
	}
}

func mergeByScoreDesc(dst, buf []ScoredDoc, mid int) {
	copy(buf, dst)
	left, right := buf[:mid], buf[mid:]
	i, j, k := 0, 0, 0
	for i < len(left) && j < len(right) {
		if left[i].Score >= right[j].Score {
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
