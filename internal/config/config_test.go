package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"paxmatch/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "paxmatch")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.DecisionsDir != filepath.Join(tempHome, "paxmatch", "decisions") {
		t.Fatalf("unexpected decisions dir: %q", cfg.Paths.DecisionsDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "paxmatch", "output") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Matching.NGramSize != 2 {
		t.Fatalf("expected bigrams by default, got %d", cfg.Matching.NGramSize)
	}
	if cfg.Matching.MinSimilarity != 0.1 {
		t.Fatalf("expected min similarity 0.1, got %v", cfg.Matching.MinSimilarity)
	}
	if cfg.Matching.Weighting != config.WeightingTFIDF {
		t.Fatalf("expected tfidf weighting, got %q", cfg.Matching.Weighting)
	}
	if cfg.Output.Pseudonymize {
		t.Fatal("expected pseudonymization disabled by default")
	}
	if cfg.LedgerPath() != filepath.Join(wantState, "paxmatch.db") {
		t.Fatalf("unexpected ledger path: %q", cfg.LedgerPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.DecisionsDir, cfg.Paths.OutputDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "paxmatch.toml")

	type payload struct {
		Roster struct {
			Files          []string `toml:"files"`
			FullNameColumn string   `toml:"full_name_column"`
		} `toml:"roster"`
		Matching struct {
			NGramSize     int     `toml:"ngram_size"`
			MinSimilarity float64 `toml:"min_similarity"`
			Weighting     string  `toml:"weighting"`
		} `toml:"matching"`
	}
	custom := payload{}
	custom.Roster.Files = []string{filepath.Join(tempDir, "hr.xlsx") + "#Staff", filepath.Join(tempDir, "extra.csv")}
	custom.Roster.FullNameColumn = "Name"
	custom.Matching.NGramSize = 3
	custom.Matching.MinSimilarity = 0.4
	custom.Matching.Weighting = "TF"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if len(cfg.Roster.Files) != 2 {
		t.Fatalf("expected 2 roster files, got %v", cfg.Roster.Files)
	}
	if cfg.Roster.Files[0] != filepath.Join(tempDir, "hr.xlsx")+"#Staff" {
		t.Fatalf("expected sheet suffix to survive expansion, got %q", cfg.Roster.Files[0])
	}
	if cfg.Roster.FullNameColumn != "Name" {
		t.Fatalf("unexpected full name column %q", cfg.Roster.FullNameColumn)
	}
	if cfg.Matching.NGramSize != 3 || cfg.Matching.MinSimilarity != 0.4 {
		t.Fatalf("unexpected matching settings: %+v", cfg.Matching)
	}
	if cfg.Matching.Weighting != config.WeightingTF {
		t.Fatalf("expected weighting to normalize to tf, got %q", cfg.Matching.Weighting)
	}
}

func TestEnvFallbacksFillUnsetValues(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	decisions := filepath.Join(tempDir, "answers")
	output := filepath.Join(tempDir, "out")
	rosterA := filepath.Join(tempDir, "a.csv")
	rosterB := filepath.Join(tempDir, "b.csv")
	bookings := filepath.Join(tempDir, "bookings.csv")
	t.Setenv("PAXMATCH_DECISIONS_DIR", decisions)
	t.Setenv("PAXMATCH_OUTPUT_DIR", output)
	t.Setenv("PAXMATCH_ROSTER", rosterA+string(os.PathListSeparator)+rosterB)
	t.Setenv("PAXMATCH_BOOKINGS", bookings)

	cfg, _, _, err := config.Load(filepath.Join(tempDir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DecisionsDir != decisions {
		t.Fatalf("decisions dir = %q, want %q", cfg.Paths.DecisionsDir, decisions)
	}
	if cfg.Paths.OutputDir != output {
		t.Fatalf("output dir = %q, want %q", cfg.Paths.OutputDir, output)
	}
	if len(cfg.Roster.Files) != 2 || cfg.Roster.Files[0] != rosterA || cfg.Roster.Files[1] != rosterB {
		t.Fatalf("unexpected roster files %v", cfg.Roster.Files)
	}
	if cfg.Bookings.File != bookings {
		t.Fatalf("bookings file = %q, want %q", cfg.Bookings.File, bookings)
	}
	if err := cfg.RequireInputs(); err != nil {
		t.Fatalf("RequireInputs returned error: %v", err)
	}
}

func TestConfigFileWinsOverEnv(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "paxmatch.toml")
	fromFile := filepath.Join(tempDir, "file-decisions")
	content := "[paths]\ndecisions_dir = \"" + filepath.ToSlash(fromFile) + "\"\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PAXMATCH_DECISIONS_DIR", filepath.Join(tempDir, "env-decisions"))

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DecisionsDir != fromFile {
		t.Fatalf("expected config file value, got %q", cfg.Paths.DecisionsDir)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "paxmatch.toml")
	if err := os.WriteFile(configPath, []byte("[matching]\ncutoff = 0.5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected parse error for unknown key")
	}
}

func TestRequireInputsNamesMissingSettings(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAXMATCH_ROSTER", "")
	t.Setenv("PAXMATCH_BOOKINGS", "")
	cfg := config.Default()
	err := cfg.RequireInputs()
	if err == nil {
		t.Fatal("expected error for unset inputs")
	}
	for _, want := range []string{"roster.files", "bookings.file"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %s, got %v", want, err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:   "defaults",
			mutate: func(*config.Config) {},
		},
		{
			name:    "zero ngram size",
			mutate:  func(c *config.Config) { c.Matching.NGramSize = 0 },
			wantErr: "matching.ngram_size",
		},
		{
			name:    "similarity above one",
			mutate:  func(c *config.Config) { c.Matching.MinSimilarity = 1.5 },
			wantErr: "matching.min_similarity",
		},
		{
			name:    "unknown weighting",
			mutate:  func(c *config.Config) { c.Matching.Weighting = "bm25" },
			wantErr: "matching.weighting",
		},
		{
			name: "no name columns",
			mutate: func(c *config.Config) {
				c.Roster.FullNameColumn = ""
				c.Roster.LastNameColumn = ""
			},
			wantErr: "roster.full_name_column",
		},
		{
			name:    "unsupported roster format",
			mutate:  func(c *config.Config) { c.Roster.Files = []string{"/data/hr.ods"} },
			wantErr: "unsupported table format",
		},
		{
			name: "shared decisions and output dir",
			mutate: func(c *config.Config) {
				c.Paths.DecisionsDir = "/data/shared"
				c.Paths.OutputDir = "/data/shared"
			},
			wantErr: "must differ",
		},
		{
			name:    "bad log level",
			mutate:  func(c *config.Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.DecisionsDir = "/data/decisions"
			cfg.Paths.OutputDir = "/data/output"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate returned error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	path := filepath.Join(tempDir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Review.BaseName != "name_matches" {
		t.Fatalf("unexpected review base name %q", cfg.Review.BaseName)
	}
	if !strings.Contains(config.SampleConfig(), "[matching]") {
		t.Fatal("expected embedded sample to include matching section")
	}
}
