package textutil

import "math"

// CosineSimilarity computes the cosine similarity between two fingerprints.
// Returns 0 if either fingerprint is nil or has zero norm. The result is
// clamped to [0, 1].
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	var dot float64
	i, j := 0, 0
	for i < len(a.terms) && j < len(b.terms) {
		switch {
		case a.terms[i].gram == b.terms[j].gram:
			dot += a.terms[i].weight * b.terms[j].weight
			i++
			j++
		case a.terms[i].gram < b.terms[j].gram:
			i++
		default:
			j++
		}
	}
	if dot == 0 {
		return 0
	}
	return math.Min(1, dot/(a.norm*b.norm))
}
