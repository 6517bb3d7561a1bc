// Package textutil provides text processing utilities for name canonicalization,
// n-gram fingerprinting, similarity, and filename sanitization.
//
// The primary use cases are:
//   - Canonicalizing person names so spelling variants (Mueller, Müller, Muller) compare equal
//   - Creating character n-gram fingerprints from canonical names
//   - Computing cosine similarity between fingerprints, optionally TF-IDF weighted
//   - Sanitizing filenames for review request files
//
// Fingerprints are term-frequency vectors over overlapping character n-grams.
// Separators are kept as single spaces so letters on either side of a word
// boundary never become n-gram neighbours.
package textutil
