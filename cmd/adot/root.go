// ABOUTME: Root Cobra command and global flags
// ABOUTME: Sets up CLI structure, logging, and the workflow dependencies

package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harper/adot/internal/config"
	"github.com/harper/adot/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	storeFlag    string
	logLevelFlag string

	logger *log.Logger
	deps   workflow.Deps
)

var rootCmd = &cobra.Command{
	Use:   "adot",
	Short: "Personal automation: microblog posts, location, and README footers",
	Long: `
 █████╗ ██████╗  ██████╗ ████████╗
██╔══██╗██╔══██╗██╔═══██╗╚══██╔══╝
███████║██║  ██║██║   ██║   ██║
██╔══██║██║  ██║██║   ██║   ██║
██║  ██║██████╔╝╚██████╔╝   ██║
╚═╝  ╚═╝╚═════╝  ╚═════╝    ╚═╝

    Post, locate, and stamp from the command line

Examples:
  adot microblog "shipping the new release today"
  adot location
  adot readme README.md
  adot config`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(cmd.ErrOrStderr(), resolveLogLevel())
		if err != nil {
			return err
		}
		deps = workflow.DefaultDeps(loadOptions(), logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&storeFlag, "store", "s", "", "document store backend (overrides "+config.EnvStore+")")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error (overrides "+config.EnvLogLevel+")")
}

func loadOptions() config.LoadOptions {
	return config.LoadOptions{Store: storeFlag}
}

// resolveLogLevel picks the flag, then the configured level. Configuration
// errors are left for the workflow to report.
func resolveLogLevel() string {
	if logLevelFlag != "" {
		return logLevelFlag
	}
	if cfg, err := config.Load(loadOptions()); err == nil && cfg.LogLevel != "" {
		return cfg.LogLevel
	}
	return "info"
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "adot",
		Level:  lvl,
	}), nil
}
