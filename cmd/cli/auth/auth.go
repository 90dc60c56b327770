package auth

import (
	"fmt"

	"github.com/sipbar/sip/cmd/cli/client"
	"github.com/sipbar/sip/cmd/cli/config"
	"github.com/spf13/cobra"
)

// InitAuth registers auth-related CLI commands on the root command.
func InitAuth(rootCmd *cobra.Command) {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in and out of the Sip API",
	}
	authCmd.AddCommand(signInCmd(), signOutCmd())
	rootCmd.AddCommand(authCmd)
}

func signInCmd() *cobra.Command {
	var username string
	var password string

	cmd := &cobra.Command{
		Use:   "sign-in",
		Short: "Sign in to the Sip API",
		Long:  "Authenticate with the Sip API and store the session token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			payload := map[string]string{"username": username, "password": password}
			// The response cookie is stored by the client wrapper.
			if err := client.Do("POST", "/auth/sign-in", payload, false, nil); err != nil {
				return fmt.Errorf("failed to sign in: %w", err)
			}

			if _, err := config.LoadSession(); err != nil {
				return fmt.Errorf("sign-in succeeded but no session was stored")
			}

			fmt.Println("Signed in. Session stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	cmd.Flags().StringVar(&password, "password", "", "Password")

	return cmd
}

func signOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign-out",
		Short: "Sign out and discard the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = client.Do("GET", "/auth/sign-out", nil, false, nil)
			if err := config.ClearSession(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}
