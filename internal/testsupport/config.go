package testsupport

import (
	"path/filepath"
	"testing"

	"paxmatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.DecisionsDir = filepath.Join(base, "decisions")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Roster.Files = []string{filepath.Join(base, "input", "roster.csv")}
	cfgVal.Roster.FullNameColumn = "Name"
	cfgVal.Bookings.File = filepath.Join(base, "input", "bookings.csv")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithMatching overrides the similarity settings on the test config.
func WithMatching(ngramSize int, minSimilarity float64, weighting string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.NGramSize = ngramSize
		b.cfg.Matching.MinSimilarity = minSimilarity
		b.cfg.Matching.Weighting = weighting
	}
}

// WithPseudonyms enables pseudonymized output.
func WithPseudonyms(prefix string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.Pseudonymize = true
		b.cfg.Output.PseudonymPrefix = prefix
	}
}

// WithSplitNameColumns switches the roster to last/first name columns.
func WithSplitNameColumns() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Roster.FullNameColumn = ""
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// RosterPath returns the first roster table configured by NewConfig.
func RosterPath(cfg *config.Config) string {
	return cfg.Roster.Files[0]
}
