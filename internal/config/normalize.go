package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRoster(); err != nil {
		return err
	}
	if err := c.normalizeBookings(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeReview()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.DecisionsDir) == "" {
		c.Paths.DecisionsDir = envOr(envDecisionsDir, defaultDecisionsDir)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = envOr(envOutputDir, defaultOutputDir)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}

	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.DecisionsDir, err = expandPath(c.Paths.DecisionsDir); err != nil {
		return fmt.Errorf("paths.decisions_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRoster() error {
	if len(c.Roster.Files) == 0 {
		if value, ok := os.LookupEnv(envRoster); ok {
			c.Roster.Files = filepath.SplitList(value)
		}
	}
	files := make([]string, 0, len(c.Roster.Files))
	for _, file := range c.Roster.Files {
		expanded, err := expandTablePath(file)
		if err != nil {
			return fmt.Errorf("roster.files: %w", err)
		}
		if expanded != "" {
			files = append(files, expanded)
		}
	}
	c.Roster.Files = files
	c.Roster.FullNameColumn = strings.TrimSpace(c.Roster.FullNameColumn)
	c.Roster.LastNameColumn = strings.TrimSpace(c.Roster.LastNameColumn)
	c.Roster.FirstNameColumn = strings.TrimSpace(c.Roster.FirstNameColumn)
	c.Roster.EmployeeIDColumn = strings.TrimSpace(c.Roster.EmployeeIDColumn)
	return nil
}

func (c *Config) normalizeBookings() error {
	if strings.TrimSpace(c.Bookings.File) == "" {
		if value, ok := os.LookupEnv(envBookings); ok {
			c.Bookings.File = value
		}
	}
	var err error
	if c.Bookings.File, err = expandTablePath(c.Bookings.File); err != nil {
		return fmt.Errorf("bookings.file: %w", err)
	}
	c.Bookings.NameColumn = strings.TrimSpace(c.Bookings.NameColumn)
	c.Bookings.DateColumn = strings.TrimSpace(c.Bookings.DateColumn)
	c.Bookings.DepartmentColumn = strings.TrimSpace(c.Bookings.DepartmentColumn)
	if strings.TrimSpace(c.Bookings.DateLayout) == "" {
		c.Bookings.DateLayout = defaultDateLayout
	}
	return nil
}

func (c *Config) normalizeMatching() {
	c.Matching.Weighting = strings.ToLower(strings.TrimSpace(c.Matching.Weighting))
	switch c.Matching.Weighting {
	case "":
		c.Matching.Weighting = defaultWeighting
	case "tf-idf":
		c.Matching.Weighting = WeightingTFIDF
	}
}

func (c *Config) normalizeReview() {
	c.Review.BaseName = strings.TrimSpace(c.Review.BaseName)
	if c.Review.BaseName == "" {
		c.Review.BaseName = defaultReviewBaseName
	}
	c.Output.PseudonymPrefix = strings.TrimSpace(c.Output.PseudonymPrefix)
	if c.Output.PseudonymPrefix == "" {
		c.Output.PseudonymPrefix = defaultPseudonymPrefix
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
