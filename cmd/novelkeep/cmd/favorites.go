package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage the active user's favorite novels",
}

var favAddCmd = &cobra.Command{
	Use:   "add <novelID>",
	Short: "Add a novel to favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		userID, err := a.requireUser()
		if err != nil {
			return err
		}
		if err := a.favorites.Add(userID, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", args[0])
		return nil
	},
}

var favRmCmd = &cobra.Command{
	Use:   "rm <novelID>",
	Short: "Remove a novel from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		userID, err := a.requireUser()
		if err != nil {
			return err
		}
		if err := a.favorites.Remove(userID, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
		return nil
	},
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the active user's favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		userID, err := a.requireUser()
		if err != nil {
			return err
		}
		for _, id := range a.favorites.List(userID) {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	favCmd.AddCommand(favAddCmd, favRmCmd, favListCmd)
	rootCmd.AddCommand(favCmd)
}
