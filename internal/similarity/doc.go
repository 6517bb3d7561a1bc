// Package similarity proposes, for every traveler name seen in bookings, the
// closest roster name by character n-gram cosine similarity.
//
// Names are canonicalized with textutil.Canonicalize before fingerprinting.
// Each candidate receives at most one proposal: the best-scoring reference at
// or above the configured cutoff. Proposals whose canonical forms are equal
// are trivial and need no human review. The engine holds no state between
// calls to Propose.
package similarity
