package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect and record reading progress",
}

var progressGetCmd = &cobra.Command{
	Use:   "get <novelID>",
	Short: "Show the saved position for a novel",
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
		entry, ok := a.progress.Get(userID, args[0])
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "no progress recorded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "episode %d, %d%% (updated %s)\n",
			entry.Episode, entry.Progress, entry.UpdatedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var progressSetCmd = &cobra.Command{
	Use:   "set <novelID> <episode> <percent>",
	Short: "Record the position for a novel",
	Args:  cobra.ExactArgs(3),
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
		episode, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("episode must be a number: %w", err)
		}
		percent, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("percent must be a number: %w", err)
		}
		if err := a.progress.Set(userID, args[0], episode, percent); err != nil {
			return err
		}
		return nil
	},
}

func init() {
	progressCmd.AddCommand(progressGetCmd, progressSetCmd)
	rootCmd.AddCommand(progressCmd)
}
