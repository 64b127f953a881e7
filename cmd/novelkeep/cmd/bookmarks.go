package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Legacy profile-wide bookmarks, kept for data written before favorites
// became per-user.
var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List legacy profile-wide bookmarks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		for _, id := range a.bookmarks.List() {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookmarksCmd)
}
