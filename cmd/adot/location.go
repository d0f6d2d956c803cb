// ABOUTME: Location refresh command
// ABOUTME: Replaces the "latest" location record with the current IP geolocation

package main

import (
	"fmt"

	"github.com/harper/adot/internal/ui"
	"github.com/harper/adot/internal/workflow"
	"github.com/spf13/cobra"
)

var locationCmd = &cobra.Command{
	Use:     "location",
	Aliases: []string{"loc", "l"},
	Short:   "Refresh the stored current location",
	Long: `Look up the current location from this machine's public IP and store it
as the "latest" record in the "location" collection.

The previous record is deleted before the lookup. If the lookup or the write
fails, no "latest" record exists until the next successful run.

Examples:
  adot location
  adot location --store sqlite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := workflow.RefreshLocation(cmd.Context(), deps)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.FormatLocation(res.Record))
		fmt.Fprintln(out, ui.FormatDocument(res.Stored))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locationCmd)
}
