package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"paxmatch/internal/config"
	"paxmatch/internal/decisions"
	"paxmatch/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, travelers ...string) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	testsupport.WriteRoster(t, testsupport.RosterPath(cfg), "Anna Muller", "Hans Weber", "Jonas Schmitz")
	bookings := make([]testsupport.Booking, 0, len(travelers))
	for _, name := range travelers {
		bookings = append(bookings, testsupport.Booking{Traveler: name, Date: "2024-02-10", Department: "FIN"})
	}
	testsupport.WriteBookings(t, cfg.Bookings.File, bookings...)

	configPath := filepath.Join(base, "paxmatch.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	logDir := ""
	if cfg.Paths.LogDir != "" {
		logDir = fmt.Sprintf("log_dir = %q\n", cfg.Paths.LogDir)
	}
	content := fmt.Sprintf(`[paths]
state_dir = %q
decisions_dir = %q
output_dir = %q
%s
[roster]
files = [%q]
full_name_column = %q

[bookings]
file = %q

[logging]
level = "warn"
`,
		cfg.Paths.StateDir,
		cfg.Paths.DecisionsDir,
		cfg.Paths.OutputDir,
		logDir,
		cfg.Roster.Files[0],
		cfg.Roster.FullNameColumn,
		cfg.Bookings.File,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeDecision(t *testing.T, env *cliTestEnv, file, candidate, reference, verdict string) {
	t.Helper()
	testsupport.WriteCSV(t, filepath.Join(env.cfg.Paths.DecisionsDir, file),
		[]string{decisions.ColumnCandidate, decisions.ColumnReference, decisions.ColumnDisposition},
		[]string{candidate, reference, verdict},
	)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
