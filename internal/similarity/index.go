package similarity

import (
	"slices"

	"paxmatch/internal/textutil"
)

// gramIndex maps each n-gram to the references containing it, so a
// candidate is only scored against references sharing at least one gram.
type gramIndex map[string][]int

func newGramIndex(docs []document) gramIndex {
	index := make(gramIndex)
	for i, doc := range docs {
		for _, gram := range doc.fingerprint.Grams() {
			index[gram] = append(index[gram], i)
		}
	}
	return index
}

func (g gramIndex) candidates(fp *textutil.Fingerprint) []int {
	grams := fp.Grams()
	if len(grams) == 0 {
		return nil
	}
	seen := make(map[int]struct{})
	var out []int
	for _, gram := range grams {
		for _, idx := range g[gram] {
			if _, ok := seen[idx]; ok {
				continue
			}
			seen[idx] = struct{}{}
			out = append(out, idx)
		}
	}
	slices.Sort(out)
	return out
}
