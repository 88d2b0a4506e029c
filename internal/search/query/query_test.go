package query

import (
	"reflect"
	"testing"
)

func TestIntersect(t *testing.T) {
	got := Intersect([]int{1, 2, 3, 5}, []int{2, 3, 4})
	want := []int{2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestUnite(t *testing.T) {
	got := Unite([]int{1, 3, 5}, []int{2, 3, 4})
	want := []int{1, 2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSubtract(t *testing.T) {
	got := Subtract([]int{1, 2, 3, 4}, []int{2, 4})
	want := []int{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

type fakeSource struct {
	postings map[string][]int
	freq     map[string]map[int]int
	docCount int
}

func (f fakeSource) DocIDsForTerm(term string) []int { return f.postings[term] }
func (f fakeSource) Frequency(term string, docID int) int {
	return f.freq[term][docID]
}
func (f fakeSource) DocumentCount() int { return f.docCount }

func TestLexRecognizesOperators(t *testing.T) {
	toks := Lex("cat && dog || !fish")
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	want := []TokenKind{TokenWord, TokenAnd, TokenWord, TokenOr, TokenNot, TokenWord, TokenEnd}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
}

func TestLexRecognizesCyrillicKeywords(t *testing.T) {
	toks := Lex("роман и поэзия")
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	want := []TokenKind{TokenWord, TokenAnd, TokenWord, TokenEnd}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("got %v, want %v", kinds, want)
	}
}

func TestParseImplicitAnd(t *testing.T) {
	ast := Parse("cat dog")
	and, ok := ast.(AndNode)
	if !ok {
		t.Fatalf("got %T, want AndNode", ast)
	}
	if _, ok := and.Left.(WordNode); !ok {
		t.Fatalf("left operand should be a word")
	}
}

func TestParseUnmatchedRParenTolerated(t *testing.T) {
	ast := Parse("cat)")
	if _, ok := ast.(WordNode); !ok {
		t.Fatalf("got %T, want WordNode (stray paren ignored)", ast)
	}
}

func TestParseLeadingStrayRParenYieldsEmpty(t *testing.T) {
	// A stray RPAREN in operand position must not be absorbed by the
	// implicit AND that follows it - "cat" alone would wrongly match every
	// document containing "cat" instead of the empty set an unresolved
	// left operand mandates.
	src := fakeSource{
		postings: map[string][]int{"cat": {0, 1, 2}},
		docCount: 3,
	}
	if got := Eval(Parse(") cat"), src); len(got) != 0 {
		t.Fatalf("got %v, want empty result", got)
	}
}

func TestParseEmptyQuery(t *testing.T) {
	if ast := Parse("   "); ast != nil {
		t.Fatalf("got %v, want nil", ast)
	}
}

func TestEvalAndOrNot(t *testing.T) {
	src := fakeSource{
		postings: map[string][]int{
			"cat": {0, 1},
			"dog": {1, 2},
		},
		docCount: 3,
	}
	if got := Eval(Parse("cat && dog"), src); !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("AND: got %v", got)
	}
	if got := Eval(Parse("cat || dog"), src); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("OR: got %v", got)
	}
	if got := Eval(Parse("cat && !dog"), src); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("AND NOT: got %v", got)
	}
}

func TestPositiveTermsExcludesNegated(t *testing.T) {
	toks := Lex("cat && !dog")
	got := PositiveTerms(toks)
	want := []string{"cat"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestPositiveTermsFallsBackWhenAllNegated(t *testing.T) {
	toks := Lex("!cat")
	got := PositiveTerms(toks)
	want := []string{"cat"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRankOrdersByTFIDFDescending(t *testing.T) {
	src := fakeSource{
		postings: map[string][]int{"cat": {0, 1}},
		freq: map[string]map[int]int{
			"cat": {0: 1, 1: 5},
		},
		docCount: 3,
	}
	scored := Rank([]int{0, 1}, []string{"cat"}, src, 10)
	if len(scored) != 2 || scored[0].DocID != 1 || scored[1].DocID != 0 {
		t.Fatalf("got %+v, want doc 1 ranked above doc 0", scored)
	}
}

func TestRankTruncatesToMaxResults(t *testing.T) {
	src := fakeSource{
		postings: map[string][]int{"cat": {0, 1, 2}},
		freq: map[string]map[int]int{
			"cat": {0: 1, 1: 1, 2: 1},
		},
		docCount: 3,
	}
	scored := Rank([]int{0, 1, 2}, []string{"cat"}, src, 2)
	if len(scored) != 2 {
		t.Fatalf("got %d results, want 2", len(scored))
	}
}
