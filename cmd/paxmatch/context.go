package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"paxmatch/internal/config"
	"paxmatch/internal/ledger"
	"paxmatch/internal/logging"
	"paxmatch/internal/pipeline"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// logger builds a logger writing to the command's stderr. Callers defer the
// returned close function so the run log file is flushed.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	return logging.NewFromConfig(cfg, cmd.ErrOrStderr())
}

// withLedger opens the run ledger for the duration of fn.
func (c *commandContext) withLedger(fn func(*ledger.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// newRunner builds a pipeline runner; store may be nil. The close function
// releases the runner's log file.
func (c *commandContext) newRunner(cmd *cobra.Command, store *ledger.Store) (*pipeline.Runner, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, closeLog, err := c.logger(cmd)
	if err != nil {
		return nil, nil, err
	}
	return pipeline.NewRunner(cfg, store, logger), closeLog, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
