package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRoster(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Paths.DecisionsDir == c.Paths.OutputDir {
		return errors.New("paths.decisions_dir and paths.output_dir must differ")
	}
	return nil
}

// RequireInputs reports whether the roster and booking tables a full run needs are configured.
func (c *Config) RequireInputs() error {
	var missing []string
	if len(c.Roster.Files) == 0 {
		missing = append(missing, fmt.Sprintf("roster.files (or %s)", envRoster))
	}
	if c.Bookings.File == "" {
		missing = append(missing, fmt.Sprintf("bookings.file (or %s)", envBookings))
	}
	if c.Bookings.NameColumn == "" {
		missing = append(missing, "bookings.name_column")
	}
	if len(missing) == 0 {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Errorf("%s must be set. Edit %s (create with 'paxmatch config init')", strings.Join(missing, ", "), defaultPath)
}

func (c *Config) validateRoster() error {
	if c.Roster.FullNameColumn == "" && (c.Roster.LastNameColumn == "" || c.Roster.FirstNameColumn == "") {
		return errors.New("roster.full_name_column or both roster.last_name_column and roster.first_name_column must be set")
	}
	for _, file := range c.Roster.Files {
		path := file
		if idx := strings.LastIndex(file, "#"); idx > 0 {
			path = file[:idx]
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv", ".xlsx", ".xlsm":
		default:
			return fmt.Errorf("roster.files: unsupported table format %q", file)
		}
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.NGramSize < 1 {
		return errors.New("matching.ngram_size must be at least 1")
	}
	if c.Matching.MinSimilarity < 0 || c.Matching.MinSimilarity > 1 {
		return errors.New("matching.min_similarity must be between 0 and 1")
	}
	switch c.Matching.Weighting {
	case WeightingTFIDF, WeightingTF:
	default:
		return fmt.Errorf("matching.weighting must be %q or %q, got %q", WeightingTFIDF, WeightingTF, c.Matching.Weighting)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
