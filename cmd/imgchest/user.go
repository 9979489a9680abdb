package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"imgchest/pkg/ui"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Fetch a user profile",
	Long:  `Fetch a user profile through the api and print it as JSON.`,
	Args:  cobra.ExactArgs(1),
	Run:   runUser,
}

func init() {
	rootCmd.AddCommand(userCmd)
}

func runUser(cmd *cobra.Command, args []string) {
	client, _ := newAPIClient()

	user, err := client.GetUser(context.Background(), args[0])
	if err != nil {
		ui.PrintError("Failed to fetch user", err.Error())
		os.Exit(1)
	}

	printJSON(user)
}
