package similarity

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"paxmatch/internal/logging"
	"paxmatch/internal/roster"
	"paxmatch/internal/textutil"
)

// Weighting modes.
const (
	WeightingTFIDF = "tfidf"
	WeightingTF    = "tf"
)

// Options controls fingerprinting and the match cutoff.
type Options struct {
	NGramSize     int
	MinSimilarity float64
	Weighting     string
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{NGramSize: 2, MinSimilarity: 0.1, Weighting: WeightingTFIDF}
}

// Engine scores candidates against reference names.
type Engine struct {
	opts   Options
	logger *slog.Logger
}

// NewEngine returns an engine; zero-valued options fall back to defaults.
func NewEngine(opts Options, logger *slog.Logger) *Engine {
	defaults := DefaultOptions()
	if opts.NGramSize < 1 {
		opts.NGramSize = defaults.NGramSize
	}
	if opts.Weighting == "" {
		opts.Weighting = defaults.Weighting
	}
	return &Engine{opts: opts, logger: logging.NewComponentLogger(logger, "similarity")}
}

type document struct {
	name        string
	canonical   string
	fingerprint *textutil.Fingerprint
}

// Propose returns one proposal per candidate that has a reference scoring at
// least the cutoff. Ties on score go to the reference name that sorts first.
func (e *Engine) Propose(references []roster.Entry, candidates []Candidate) Proposals {
	refs := uniqueReferences(references)
	cands := mergeCandidates(candidates)
	result := Proposals{NonTrivial: []Proposal{}, Trivial: []Proposal{}, Unmatched: []Candidate{}}
	if len(cands) == 0 {
		return result
	}

	refDocs := make([]document, len(refs))
	for i, ref := range refs {
		refDocs[i] = e.document(ref.Name)
	}
	candDocs := make([]document, len(cands))
	for i, cand := range cands {
		candDocs[i] = e.document(cand.Name)
	}
	if e.opts.Weighting == WeightingTFIDF {
		applyIDF(refDocs, candDocs)
	}

	index := newGramIndex(refDocs)
	byCanonical := make(map[string]int, len(refDocs))
	for i, doc := range refDocs {
		if doc.canonical == "" {
			continue
		}
		if prev, ok := byCanonical[doc.canonical]; !ok || refs[i].Name < refs[prev].Name {
			byCanonical[doc.canonical] = i
		}
	}

	for i, cand := range cands {
		doc := candDocs[i]
		best, score, ok := e.bestReference(doc, refDocs, refs, index, byCanonical)
		if !ok {
			result.Unmatched = append(result.Unmatched, cand)
			continue
		}
		proposal := Proposal{
			Candidate: cand,
			Reference: refs[best],
			Score:     roundScore(score),
			Trivial:   doc.canonical == refDocs[best].canonical,
		}
		if proposal.Trivial {
			result.Trivial = append(result.Trivial, proposal)
		} else {
			result.NonTrivial = append(result.NonTrivial, proposal)
		}
	}

	sortProposals(result.NonTrivial)
	sortProposals(result.Trivial)
	slices.SortFunc(result.Unmatched, func(a, b Candidate) int { return cmp.Compare(a.Name, b.Name) })

	e.logger.Info("similarity proposals computed",
		logging.Int("references", len(refs)),
		logging.Int("candidates", len(cands)),
		logging.Int("trivial", len(result.Trivial)),
		logging.Int("non_trivial", len(result.NonTrivial)),
		logging.Int("unmatched", len(result.Unmatched)),
		logging.String("weighting", e.opts.Weighting),
	)
	return result
}

func (e *Engine) bestReference(doc document, refDocs []document, refs []roster.Entry, index gramIndex, byCanonical map[string]int) (int, float64, bool) {
	if doc.canonical == "" {
		return 0, 0, false
	}
	// Equal canonical forms score exactly 1 even when the name is shorter than n.
	if idx, ok := byCanonical[doc.canonical]; ok {
		return idx, 1, true
	}

	best, bestScore := -1, 0.0
	for _, idx := range index.candidates(doc.fingerprint) {
		score := textutil.CosineSimilarity(doc.fingerprint, refDocs[idx].fingerprint)
		if score <= 0 || score < e.opts.MinSimilarity {
			continue
		}
		if best < 0 || score > bestScore || (score == bestScore && refs[idx].Name < refs[best].Name) {
			best, bestScore = idx, score
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, bestScore, true
}

func (e *Engine) document(name string) document {
	canonical := textutil.Canonicalize(name)
	return document{
		name:        name,
		canonical:   canonical,
		fingerprint: textutil.NewNGramFingerprint(canonical, e.opts.NGramSize),
	}
}

// applyIDF reweights every fingerprint with IDF fit on references and candidates together.
func applyIDF(groups ...[]document) {
	corpus := textutil.NewCorpus()
	for _, docs := range groups {
		for _, doc := range docs {
			corpus.Add(doc.fingerprint)
		}
	}
	idf := corpus.IDF()
	for _, docs := range groups {
		for i := range docs {
			docs[i].fingerprint = docs[i].fingerprint.WithIDF(idf)
		}
	}
}

func roundScore(score float64) float64 {
	return decimal.NewFromFloat(score).Round(2).InexactFloat64()
}

func sortProposals(proposals []Proposal) {
	slices.SortStableFunc(proposals, func(a, b Proposal) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Candidate.Name, b.Candidate.Name)
	})
}

func uniqueReferences(references []roster.Entry) []roster.Entry {
	seen := make(map[string]struct{}, len(references))
	out := make([]roster.Entry, 0, len(references))
	for _, ref := range references {
		ref.Name = roster.FullName(ref.Name)
		if ref.Name == "" {
			continue
		}
		if _, ok := seen[ref.Name]; ok {
			continue
		}
		seen[ref.Name] = struct{}{}
		out = append(out, ref)
	}
	return out
}

// mergeCandidates drops blank names and folds repeated names into one candidate.
func mergeCandidates(candidates []Candidate) []Candidate {
	positions := make(map[string]int, len(candidates))
	out := make([]Candidate, 0, len(candidates))
	for _, cand := range candidates {
		cand.Name = roster.FullName(cand.Name)
		if cand.Name == "" {
			continue
		}
		if pos, ok := positions[cand.Name]; ok {
			out[pos] = out[pos].merge(cand)
			continue
		}
		positions[cand.Name] = len(out)
		out = append(out, cand.merge(Candidate{}))
	}
	return out
}
