package textutil

import (
	"math"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
		want float64
	}{
		{"both nil", nil, nil, 0},
		{"a nil", nil, NewNGramFingerprint("anna", 2), 0},
		{"b nil", NewNGramFingerprint("anna", 2), nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	a := NewNGramFingerprint("anna muller", 2)
	b := NewNGramFingerprint("anna muller", 2)

	got := CosineSimilarity(a, b)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("CosineSimilarity(identical) = %v, want 1.0", got)
	}
}

func TestCosineSimilarityCompletelyDifferent(t *testing.T) {
	a := NewNGramFingerprint("abc", 2)
	b := NewNGramFingerprint("xyz", 2)

	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(different) = %v, want 0", got)
	}
}

func TestCosineSimilarityPartialOverlap(t *testing.T) {
	a := NewNGramFingerprint("an muler", 2)
	b := NewNGramFingerprint("anna muller", 2)

	got := CosineSimilarity(a, b)
	if got <= 0 || got >= 1 {
		t.Errorf("CosineSimilarity(partial) = %v, want between 0 and 1", got)
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := NewNGramFingerprint("hans weber", 2)
	b := NewNGramFingerprint("hans peter weber", 2)

	ab := CosineSimilarity(a, b)
	ba := CosineSimilarity(b, a)
	if ab != ba {
		t.Errorf("CosineSimilarity not symmetric: (%v, %v)", ab, ba)
	}
}

func TestCosineSimilarityZeroNorm(t *testing.T) {
	a := &Fingerprint{norm: 0}
	b := NewNGramFingerprint("hello", 2)

	if got := CosineSimilarity(a, b); got != 0 {
		t.Errorf("CosineSimilarity(zero norm) = %v, want 0", got)
	}
}

func TestNewNGramFingerprintTooShort(t *testing.T) {
	if fp := NewNGramFingerprint("", 2); fp != nil {
		t.Error("expected nil for empty text")
	}
	if fp := NewNGramFingerprint("a", 2); fp != nil {
		t.Error("expected nil for text shorter than n")
	}
}

func TestNewNGramFingerprintNormCalculation(t *testing.T) {
	// "abab" -> ab:2, ba:1
	// norm = sqrt(2^2 + 1^2) = sqrt(5)
	fp := NewNGramFingerprint("abab", 2)
	if fp == nil {
		t.Fatal("expected fingerprint")
	}
	if len(fp.terms) != 2 {
		t.Fatalf("len(terms) = %d, want 2", len(fp.terms))
	}
	if math.Abs(fp.norm-math.Sqrt(5)) > 0.0001 {
		t.Errorf("norm = %v, want %v", fp.norm, math.Sqrt(5))
	}
}

func TestNGrams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		n     int
		want  []string
	}{
		{"bigrams", "anna", 2, []string{"an", "nn", "na"}},
		{"keeps spaces", "a b", 2, []string{"a ", " b"}},
		{"multibyte runes", "öl", 2, []string{"öl"}},
		{"trigrams", "weber", 3, []string{"web", "ebe", "ber"}},
		{"too short", "a", 2, []string{}},
		{"empty", "", 2, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NGrams(tt.input, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("NGrams() = %v (len %d), want %v (len %d)", got, len(got), tt.want, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("gram[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestNGramsInvalidSize(t *testing.T) {
	if got := NGrams("anna", 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}

func TestCorpusIDFSmoothing(t *testing.T) {
	corpus := NewCorpus()
	corpus.Add(NewNGramFingerprint("ab", 2))
	corpus.Add(NewNGramFingerprint("abc", 2))
	corpus.Add(nil)

	if corpus.docCount != 2 {
		t.Fatalf("docCount = %d, want 2", corpus.docCount)
	}
	idf := corpus.IDF()
	if math.Abs(idf["ab"]-1) > 1e-12 {
		t.Fatalf("idf[ab] = %v, want 1", idf["ab"])
	}
	want := math.Log(3.0/2.0) + 1
	if math.Abs(idf["bc"]-want) > 1e-12 {
		t.Fatalf("idf[bc] = %v, want %v", idf["bc"], want)
	}
}

func TestWithIDFReweightsRareTerms(t *testing.T) {
	corpus := NewCorpus()
	names := []string{"anna muller", "anna weber", "hans weber"}
	for _, name := range names {
		corpus.Add(NewNGramFingerprint(name, 2))
	}
	idf := corpus.IDF()

	plainA := NewNGramFingerprint("anna muller", 2)
	plainB := NewNGramFingerprint("anna weber", 2)
	weightedA := plainA.WithIDF(idf)
	weightedB := plainB.WithIDF(idf)

	if len(weightedA.terms) != len(plainA.terms) {
		t.Fatalf("WithIDF changed term count: %d vs %d", len(weightedA.terms), len(plainA.terms))
	}
	// Shared first name grams are common across the corpus, so weighting lowers similarity.
	if CosineSimilarity(weightedA, weightedB) >= CosineSimilarity(plainA, plainB) {
		t.Fatalf("expected idf weighting to reduce similarity of names sharing only common grams")
	}
}

func TestWithIDFNilSafe(t *testing.T) {
	var fp *Fingerprint
	if fp.WithIDF(map[string]float64{"ab": 2}) != nil {
		t.Fatal("expected nil fingerprint to stay nil")
	}
	plain := NewNGramFingerprint("abc", 2)
	if plain.WithIDF(nil) != plain {
		t.Fatal("expected empty idf map to return the same fingerprint")
	}
}

func TestGramsSorted(t *testing.T) {
	fp := NewNGramFingerprint("banana", 2)
	got := fp.Grams()
	want := []string{"an", "ba", "na"}
	if len(got) != len(want) {
		t.Fatalf("Grams() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Grams() = %v, want %v", got, want)
		}
	}
	var empty *Fingerprint
	if empty.Grams() != nil {
		t.Fatal("expected nil grams for nil fingerprint")
	}
}
