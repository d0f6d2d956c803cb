// ABOUTME: Microblog post command
// ABOUTME: Stores one post with a fresh id and the current UTC time

package main

import (
	"fmt"

	"github.com/harper/adot/internal/ui"
	"github.com/harper/adot/internal/workflow"
	"github.com/spf13/cobra"
)

var microblogCmd = &cobra.Command{
	Use:     "microblog <content>",
	Aliases: []string{"post", "m"},
	Short:   "Publish a microblog post",
	Long: `Publish a microblog post. The content is stored verbatim in the
"microblog" collection with a new id and the current UTC time.

Examples:
  adot microblog "hello from the road"
  adot post "quote the whole message"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := workflow.PostMicroblog(cmd.Context(), deps, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, ui.FormatPost(res.Post))
		fmt.Fprintln(out, ui.FormatDocument(res.Stored))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(microblogCmd)
}
