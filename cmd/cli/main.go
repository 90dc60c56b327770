package main

import (
	"fmt"
	"os"

	"github.com/sipbar/sip/cmd/cli/auth"
	"github.com/sipbar/sip/cmd/cli/cocktails"
	"github.com/sipbar/sip/cmd/cli/root"
	"github.com/sipbar/sip/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	users.InitUsers(rootCmd)
	cocktails.InitCocktails(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
