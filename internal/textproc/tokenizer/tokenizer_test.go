package tokenizer

import (
	"reflect"
	"testing"
)

func words(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func TestTokenizeASCII(t *testing.T) {
	got := words(Tokenize("The quick brown fox"))
	want := []string{"the", "quick", "brown", "fox"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizeCyrillic(t *testing.T) {
	got := words(Tokenize("Роман и поэзия"))
	want := []string{"роман", "и", "поэзия"}
	// "и" is a single Cyrillic char - only one code point - dropped by the
	// >=2 code point validity rule.
	want = []string{"роман", "поэзия"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizeDigitsExtendButDontStart(t *testing.T) {
	got := words(Tokenize("abc123 456"))
	want := []string{"abc123"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizeSingleCharDropped(t *testing.T) {
	got := words(Tokenize("a bb"))
	want := []string{"bb"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizePositions(t *testing.T) {
	toks := Tokenize("hi there")
	if len(toks) != 2 {
		t.Fatalf("got %d tokens", len(toks))
	}
	if toks[0].Position != 0 || toks[1].Position != 3 {
		t.Fatalf("got positions %d, %d", toks[0].Position, toks[1].Position)
	}
}

func TestTokenizeUppercaseCyrillicFolds(t *testing.T) {
	got := words(Tokenize("РОМАН"))
	want := []string{"роман"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizeEmpty(t *testing.T) {
	if got := Tokenize(""); len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
