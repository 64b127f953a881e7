package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhkang/novelkeep/authclient"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the reading service",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		reader := bufio.NewReader(os.Stdin)
		username := loginUsername
		if username == "" {
			fmt.Fprint(cmd.OutOrStdout(), "username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("reading username: %w", err)
			}
			username = strings.TrimSpace(line)
		}
		fmt.Fprint(cmd.OutOrStdout(), "password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password := strings.TrimRight(line, "\r\n")

		s, err := a.flow.Run(cmd.Context(), username, password)
		if err != nil {
			var locked *authclient.LockedError
			var authErr *authclient.AuthError
			switch {
			case errors.Is(err, authclient.ErrValidation):
				return fmt.Errorf("username or password not acceptable")
			case errors.As(err, &locked):
				return fmt.Errorf("%s", locked.Error())
			case errors.As(err, &authErr):
				return fmt.Errorf("login failed: %s", authErr.Message)
			case errors.Is(err, authclient.ErrNetwork):
				return fmt.Errorf("network error; please try again")
			default:
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", s.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		a.sessions.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "logged out")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		s, ok := a.sessions.Current()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
			return nil
		}
		name := s.User.DisplayName
		if name == "" {
			name = s.User.Username
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (id %s)\n", name, s.User.ID)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "login username")
	rootCmd.AddCommand(loginCmd, logoutCmd, statusCmd)
}
