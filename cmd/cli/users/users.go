package users

import (
	"fmt"

	"github.com/sipbar/sip/cmd/cli/client"
	"github.com/sipbar/sip/cmd/cli/config"
	"github.com/sipbar/sip/cmd/cli/output"
	"github.com/spf13/cobra"
)

// InitUsers registers user-related CLI commands on the root command.
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Register and inspect users",
	}
	usersCmd.AddCommand(registerCmd(), showCmd())
	rootCmd.AddCommand(usersCmd)
}

func registerCmd() *cobra.Command {
	var username, password, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Long:  "Register a new user. Registration signs you in and stores the session locally.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			payload := map[string]string{"username": username, "password": password}
			if email != "" {
				payload["email"] = email
			}

			var user struct {
				Username string `json:"username"`
			}
			if err := client.Do("POST", "/user/create", payload, false, &user); err != nil {
				return fmt.Errorf("failed to register: %w", err)
			}

			if _, err := config.LoadSession(); err != nil {
				return fmt.Errorf("registration succeeded but no session was stored")
			}

			fmt.Printf("Registered %s and signed in.\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to register")
	cmd.Flags().StringVar(&password, "password", "", "Password (10-72 characters)")
	cmd.Flags().StringVar(&email, "email", "", "Optional email address")

	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Show a user's public profile and cocktails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var profile struct {
				Username  string `json:"username"`
				CreatedAt string `json:"created_at"`
				Cocktails []struct {
					ID   int    `json:"id"`
					Name string `json:"name"`
				} `json:"cocktails"`
			}
			if err := client.Do("GET", "/user/"+args[0], nil, false, &profile); err != nil {
				return err
			}

			fmt.Printf("%s (joined %s)\n", profile.Username, profile.CreatedAt)
			rows := make([][]interface{}, 0, len(profile.Cocktails))
			for _, c := range profile.Cocktails {
				rows = append(rows, []interface{}{c.ID, c.Name})
			}
			output.RenderTable([]string{"ID", "Name"}, rows)
			return nil
		},
	}
}
