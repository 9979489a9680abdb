package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"imgchest/pkg/imgchest"
	"imgchest/pkg/ui"
)

// fileCmd represents the file command
var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage individual files through the api",
	Long: `Manage individual post files through the authenticated api.

File ids are the short identifiers from file links, for example
nw7w6cmlvye for https://cdn.imgchest.com/files/nw7w6cmlvye.png.`,
}

// fileGetCmd represents the file get command
var fileGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a file",
	Long:  `Fetch a single file record and print it as JSON.`,
	Args:  cobra.ExactArgs(1),
	Run:   runFileGet,
}

// fileUpdateCmd represents the file update command
var fileUpdateCmd = &cobra.Command{
	Use:   "update <id> <description>",
	Short: "Update the description of a file",
	Long: `Update the description of a single file.

The api rejects empty descriptions.`,
	Args: cobra.ExactArgs(2),
	Run:  runFileUpdate,
}

// fileDeleteCmd represents the file delete command
var fileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a file",
	Long:  `Delete a single file from its post. This cannot be undone.`,
	Args:  cobra.ExactArgs(1),
	Run:   runFileDelete,
}

// fileUpdateBulkCmd represents the file update-bulk command
var fileUpdateBulkCmd = &cobra.Command{
	Use:   "update-bulk <id=description>...",
	Short: "Update several file descriptions at once",
	Long: `Update the descriptions of several files in one api request.

Each argument pairs a file id with its new description, separated by
the first '=' sign.`,
	Example: `  imgchest file update-bulk nw7w6cmlvye="first" kwye3cpag4b="second"`,
	Args:    cobra.MinimumNArgs(1),
	Run:     runFileUpdateBulk,
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileCmd.AddCommand(fileGetCmd)
	fileCmd.AddCommand(fileUpdateCmd)
	fileCmd.AddCommand(fileDeleteCmd)
	fileCmd.AddCommand(fileUpdateBulkCmd)
}

func runFileGet(cmd *cobra.Command, args []string) {
	client, _ := newAPIClient()

	file, err := client.GetFile(context.Background(), args[0])
	if err != nil {
		ui.PrintError("Failed to fetch file", err.Error())
		os.Exit(1)
	}

	printJSON(file)
}

func runFileUpdate(cmd *cobra.Command, args []string) {
	client, _ := newAPIClient()

	if err := client.UpdateFile(context.Background(), args[0], args[1]); err != nil {
		ui.PrintError("Failed to update file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("File updated: " + args[0])
}

func runFileDelete(cmd *cobra.Command, args []string) {
	client, _ := newAPIClient()

	if err := client.DeleteFile(context.Background(), args[0]); err != nil {
		ui.PrintError("Failed to delete file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("File deleted: " + args[0])
}

func runFileUpdateBulk(cmd *cobra.Command, args []string) {
	updates := make([]imgchest.FileUpdate, 0, len(args))
	for _, arg := range args {
		id, description, found := strings.Cut(arg, "=")
		if !found || id == "" {
			ui.PrintError("Invalid update", arg)
			fmt.Fprintln(os.Stderr, "Expected the form id=description")
			os.Exit(1)
		}
		updates = append(updates, imgchest.FileUpdate{ID: id, Description: description})
	}

	client, _ := newAPIClient()

	files, err := client.UpdateFiles(context.Background(), updates)
	if err != nil {
		ui.PrintError("Failed to update files", err.Error())
		os.Exit(1)
	}

	printJSON(files)
}
