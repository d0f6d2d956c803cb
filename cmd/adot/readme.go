// ABOUTME: README footer command
// ABOUTME: Appends the attribution footer to a README once

package main

import (
	"fmt"

	"github.com/harper/adot/internal/readme"
	"github.com/harper/adot/internal/ui"
	"github.com/spf13/cobra"
)

var readmeFooter string

var readmeCmd = &cobra.Command{
	Use:   "readme [path]",
	Short: "Append the attribution footer to a README",
	Long: `Append the attribution footer to a README file (default README.md).
Running it again is a no-op once the footer is present.

Examples:
  adot readme
  adot readme docs/README.md
  adot readme --footer "Built with adot"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "README.md"
		if len(args) == 1 {
			path = args[0]
		}

		changed, err := readme.AppendFooter(path, readmeFooter)
		if err != nil {
			return err
		}
		if changed {
			logger.Debug("footer appended", "path", path)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.FormatReadme(path, changed))
		return nil
	},
}

func init() {
	readmeCmd.Flags().StringVarP(&readmeFooter, "footer", "f", "", "footer text (default: adot attribution)")
	rootCmd.AddCommand(readmeCmd)
}
