// ABOUTME: Config command
// ABOUTME: Prints the effective configuration as YAML with secrets masked

package main

import (
	"fmt"

	"github.com/harper/adot/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration adot resolves from the environment, a .env file in
the working directory, and the config file. Secrets are masked.

Config file: ` + config.GetConfigPath(),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(loadOptions())
		if err != nil {
			return err
		}

		out, err := cfg.View().YAML()
		if err != nil {
			return fmt.Errorf("render config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
