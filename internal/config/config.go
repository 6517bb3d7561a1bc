package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir     string `toml:"state_dir"`
	DecisionsDir string `toml:"decisions_dir"`
	OutputDir    string `toml:"output_dir"`
	LogDir       string `toml:"log_dir"`
}

// Roster describes the HR roster tables used as the reference name set.
// Either FullNameColumn or both LastNameColumn and FirstNameColumn must be set.
type Roster struct {
	Files            []string `toml:"files"`
	FullNameColumn   string   `toml:"full_name_column"`
	LastNameColumn   string   `toml:"last_name_column"`
	FirstNameColumn  string   `toml:"first_name_column"`
	EmployeeIDColumn string   `toml:"employee_id_column"`
}

// Bookings describes the travel booking occurrence table.
type Bookings struct {
	File             string `toml:"file"`
	NameColumn       string `toml:"name_column"`
	DateColumn       string `toml:"date_column"`
	DepartmentColumn string `toml:"department_column"`
	DateLayout       string `toml:"date_layout"`
}

// Matching contains similarity engine settings.
type Matching struct {
	NGramSize     int     `toml:"ngram_size"`
	MinSimilarity float64 `toml:"min_similarity"`
	// Weighting is "tfidf" (default) or "tf".
	Weighting string `toml:"weighting"`
}

// Review contains settings for review request files.
type Review struct {
	BaseName string `toml:"base_name"`
}

// Output contains settings for run artifacts.
type Output struct {
	WriteIdentities bool   `toml:"write_identities"`
	Pseudonymize    bool   `toml:"pseudonymize"`
	PseudonymPrefix string `toml:"pseudonym_prefix"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for paxmatch.
//
// Configuration sections by subsystem:
//   - Paths: state, decisions, output and log directories
//   - Roster: reference name tables and their columns
//   - Bookings: traveler occurrence table and its columns
//   - Matching: n-gram size, similarity cutoff and weighting
//   - Review: review request naming
//   - Output: identities and pseudonym artifacts
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Roster   Roster   `toml:"roster"`
	Bookings Bookings `toml:"bookings"`
	Matching Matching `toml:"matching"`
	Review   Review   `toml:"review"`
	Output   Output   `toml:"output"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir, c.Paths.DecisionsDir, c.Paths.OutputDir}
	if c.Paths.LogDir != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the SQLite run ledger location.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Paths.StateDir, "paxmatch.db")
}

// LockPath returns the advisory run lock location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "paxmatch.lock")
}

// IdentitiesPath returns where the resolved identity map is written.
func (c *Config) IdentitiesPath() string {
	return filepath.Join(c.Paths.OutputDir, "identities.json")
}

// PseudonymsPath returns where the pseudonym mapping workbook is written.
func (c *Config) PseudonymsPath() string {
	return filepath.Join(c.Paths.OutputDir, "pseudonyms.xlsx")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// expandTablePath expands a table reference that may carry a "#Sheet" suffix.
func expandTablePath(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	path, sheet := value, ""
	if idx := strings.LastIndex(value, "#"); idx > 0 {
		path, sheet = value[:idx], value[idx+1:]
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", err
	}
	if sheet != "" {
		return expanded + "#" + sheet, nil
	}
	return expanded, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration text.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
