package textutil

import (
	"math"
	"sort"
)

// Fingerprint represents a term-frequency vector for text similarity comparison.
// Terms are kept sorted so similarity sums run in a fixed order.
type Fingerprint struct {
	terms []weightedTerm
	norm  float64
}

type weightedTerm struct {
	gram   string
	weight float64
}

// NewNGramFingerprint creates a character n-gram fingerprint from the provided text.
// Returns nil if the text is shorter than n runes.
func NewNGramFingerprint(text string, n int) *Fingerprint {
	grams := NGrams(text, n)
	if len(grams) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(grams))
	for _, gram := range grams {
		counts[gram]++
	}
	return newFingerprint(counts)
}

func newFingerprint(weights map[string]float64) *Fingerprint {
	terms := make([]weightedTerm, 0, len(weights))
	for gram, weight := range weights {
		if weight == 0 {
			continue
		}
		terms = append(terms, weightedTerm{gram: gram, weight: weight})
	}
	if len(terms) == 0 {
		return nil
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].gram < terms[j].gram })
	var norm float64
	for _, t := range terms {
		norm += t.weight * t.weight
	}
	return &Fingerprint{terms: terms, norm: math.Sqrt(norm)}
}

// NGrams splits text into overlapping character sequences of length n.
// The text is used as given; callers canonicalize first.
func NGrams(text string, n int) []string {
	if n <= 0 {
		return nil
	}
	chars := []rune(text)
	if len(chars) < n {
		return []string{}
	}
	grams := make([]string, 0, len(chars)-n+1)
	for i := 0; i+n <= len(chars); i++ {
		grams = append(grams, string(chars[i:i+n]))
	}
	return grams
}

// Grams returns the distinct n-grams of the fingerprint in sorted order.
func (f *Fingerprint) Grams() []string {
	if f == nil {
		return nil
	}
	grams := make([]string, len(f.terms))
	for i, t := range f.terms {
		grams[i] = t.gram
	}
	return grams
}

// WithIDF returns a new Fingerprint with TF-IDF weights applied.
// Each term's count is multiplied by its IDF weight. The norm is recomputed.
// Terms absent from the IDF map retain their original weight.
func (f *Fingerprint) WithIDF(idf map[string]float64) *Fingerprint {
	if f == nil || len(idf) == 0 {
		return f
	}
	weighted := make(map[string]float64, len(f.terms))
	for _, t := range f.terms {
		w := t.weight
		if idfVal, ok := idf[t.gram]; ok {
			w *= idfVal
		}
		weighted[t.gram] = w
	}
	return newFingerprint(weighted)
}

// Corpus collects document frequency statistics for IDF computation.
type Corpus struct {
	docCount int
	docFreq  map[string]int
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{docFreq: make(map[string]int)}
}

// Add registers a fingerprint's unique terms in the corpus.
func (c *Corpus) Add(fp *Fingerprint) {
	if c == nil || fp == nil {
		return
	}
	c.docCount++
	for _, t := range fp.terms {
		c.docFreq[t.gram]++
	}
}

// IDF computes smoothed inverse document frequency weights:
// ln((N+1)/(1+df)) + 1 for each term. Terms present in every document keep
// a weight of 1 instead of vanishing.
func (c *Corpus) IDF() map[string]float64 {
	if c == nil || c.docCount == 0 {
		return nil
	}
	idf := make(map[string]float64, len(c.docFreq))
	n := float64(c.docCount)
	for term, df := range c.docFreq {
		idf[term] = math.Log((n+1)/(1+float64(df))) + 1
	}
	return idf
}
