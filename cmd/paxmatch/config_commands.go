package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"paxmatch/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the paxmatch configuration",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				switch _, err := os.Stat(target); {
				case err == nil:
					return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("inspect %s: %w", target, err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Fill in roster.files and bookings.file, or export PAXMATCH_ROSTER and PAXMATCH_BOOKINGS.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the file (default ~/.config/paxmatch/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if value := strings.TrimSpace(flagValue); value != "" {
		return config.ExpandPath(value)
	}
	return config.DefaultConfigPath()
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and report missing inputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			source := ctx.configPath
			if _, statErr := os.Stat(ctx.configPath); statErr != nil {
				source += " (not found, defaults in use)"
			}
			fmt.Fprintf(out, "Config path: %s\n", source)
			fmt.Fprintln(out, renderStatusLine("Roster", statusInfo, strings.Join(cfg.Roster.Files, ", "), colorize))
			fmt.Fprintln(out, renderStatusLine("Bookings", statusInfo, cfg.Bookings.File, colorize))
			fmt.Fprintln(out, renderStatusLine("Decisions", statusInfo, cfg.Paths.DecisionsDir, colorize))
			fmt.Fprintln(out, renderStatusLine("Output", statusInfo, cfg.Paths.OutputDir, colorize))
			if err := cfg.RequireInputs(); err != nil {
				fmt.Fprintln(out, renderStatusLine("Inputs", statusWarn, err.Error(), colorize))
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
