package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"imgchest/pkg/imgchest"
	"imgchest/pkg/ui"
)

var (
	// Post command flags
	postTitle     string
	postPrivacy   string
	postNsfw      bool
	postAnonymous bool
)

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Manage posts through the api",
	Long: `Manage imgchest posts through the authenticated api.

All post commands accept either a bare post id or a post url
(https://imgchest.com/p/...). They need an api token, stored with
'imgchest auth login' or set via IMGCHEST_TOKEN.`,
}

// postGetCmd represents the post get command
var postGetCmd = &cobra.Command{
	Use:   "get <url-or-id>",
	Short: "Fetch a post",
	Long:  `Fetch a post and print it as JSON.`,
	Args:  cobra.ExactArgs(1),
	Run:   runPostGet,
}

// postCreateCmd represents the post create command
var postCreateCmd = &cobra.Command{
	Use:   "create <file>...",
	Short: "Create a new post from local files",
	Long: `Create a new post by uploading one or more local image files.

The title, when given, must be at least 3 characters. Anonymous posts
are not tied to your account; the response carries a deletion link,
which is the only way to remove them later.`,
	Example: `  # Create a public post with a title
  imgchest post create --title "My album" one.png two.png

  # Create a hidden post
  imgchest post create --privacy hidden one.png

  # Create an anonymous post
  imgchest post create --anonymous one.png`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPostCreate,
}

// postUpdateCmd represents the post update command
var postUpdateCmd = &cobra.Command{
	Use:   "update <url-or-id>",
	Short: "Update a post",
	Long:  `Update the title, privacy or nsfw flag of an existing post.`,
	Example: `  # Rename a post
  imgchest post update 3qe4gdvj4j2 --title "New title"

  # Hide a post and mark it nsfw
  imgchest post update 3qe4gdvj4j2 --privacy hidden --nsfw`,
	Args: cobra.ExactArgs(1),
	Run:  runPostUpdate,
}

// postDeleteCmd represents the post delete command
var postDeleteCmd = &cobra.Command{
	Use:   "delete <url-or-id>",
	Short: "Delete a post",
	Long:  `Delete a post and all of its files. This cannot be undone.`,
	Args:  cobra.ExactArgs(1),
	Run:   runPostDelete,
}

// postFavoriteCmd represents the post favorite command
var postFavoriteCmd = &cobra.Command{
	Use:   "favorite <url-or-id>",
	Short: "Toggle the favorite state of a post",
	Long:  `Toggle the favorite state of a post and report the new state.`,
	Args:  cobra.ExactArgs(1),
	Run:   runPostFavorite,
}

// postAddImagesCmd represents the post add-images command
var postAddImagesCmd = &cobra.Command{
	Use:   "add-images <url-or-id> <file>...",
	Short: "Add images to an existing post",
	Long:  `Upload one or more local image files and append them to an existing post.`,
	Args:  cobra.MinimumNArgs(2),
	Run:   runPostAddImages,
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.AddCommand(postGetCmd)
	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postUpdateCmd)
	postCmd.AddCommand(postDeleteCmd)
	postCmd.AddCommand(postFavoriteCmd)
	postCmd.AddCommand(postAddImagesCmd)

	postCreateCmd.Flags().StringVar(&postTitle, "title", "", "post title (at least 3 characters)")
	postCreateCmd.Flags().StringVar(&postPrivacy, "privacy", "", "post visibility (public, hidden, secret)")
	postCreateCmd.Flags().BoolVar(&postNsfw, "nsfw", false, "mark the post as nsfw")
	postCreateCmd.Flags().BoolVar(&postAnonymous, "anonymous", false, "create the post anonymously")

	postUpdateCmd.Flags().StringVar(&postTitle, "title", "", "new post title")
	postUpdateCmd.Flags().StringVar(&postPrivacy, "privacy", "", "new post visibility (public, hidden, secret)")
	postUpdateCmd.Flags().BoolVar(&postNsfw, "nsfw", false, "new nsfw flag")
}

// resolveTarget turns a post url or bare id argument into a post id.
func resolveTarget(arg string) string {
	id, err := imgchest.ResolvePostID(arg)
	if err != nil {
		ui.PrintError("Invalid post", err.Error())
		os.Exit(1)
	}
	return id
}

// parsePrivacy validates the --privacy flag value.
func parsePrivacy(value string) imgchest.Privacy {
	switch p := imgchest.Privacy(value); p {
	case "", imgchest.PrivacyPublic, imgchest.PrivacyHidden, imgchest.PrivacySecret:
		return p
	default:
		ui.PrintError("Invalid privacy value", value)
		fmt.Fprintln(os.Stderr, "Valid values: public, hidden, secret")
		os.Exit(1)
		return ""
	}
}

// openUploads opens the given paths for upload.
func openUploads(paths []string) []imgchest.UploadFile {
	files := make([]imgchest.UploadFile, 0, len(paths))
	for _, path := range paths {
		file, err := imgchest.UploadFileFromPath(path)
		if err != nil {
			ui.PrintError("Cannot open file", err.Error())
			os.Exit(1)
		}
		files = append(files, file)
	}
	return files
}

func runPostGet(cmd *cobra.Command, args []string) {
	id := resolveTarget(args[0])
	client, _ := newAPIClient()

	post, err := client.GetPost(context.Background(), id)
	if err != nil {
		ui.PrintError("Failed to fetch post", err.Error())
		os.Exit(1)
	}

	printJSON(post)
}

func runPostCreate(cmd *cobra.Command, args []string) {
	privacy := parsePrivacy(postPrivacy)
	client, _ := newAPIClient()

	req := &imgchest.CreatePostRequest{
		Title:   postTitle,
		Privacy: privacy,
		Images:  openUploads(args),
	}
	if cmd.Flags().Changed("nsfw") {
		req.Nsfw = &postNsfw
	}
	if cmd.Flags().Changed("anonymous") {
		req.Anonymous = &postAnonymous
	}

	post, err := client.CreatePost(context.Background(), req)
	if err != nil {
		ui.PrintError("Failed to create post", err.Error())
		os.Exit(1)
	}

	printJSON(post)

	ui.PrintSuccess(fmt.Sprintf("Post created: %s/p/%s", imgchest.SiteBaseURL, post.ID))
	if post.DeleteURL != nil {
		ui.PrintWarning("Keep the delete_url, it is the only way to remove an anonymous post")
	}
}

func runPostUpdate(cmd *cobra.Command, args []string) {
	id := resolveTarget(args[0])
	privacy := parsePrivacy(postPrivacy)

	if postTitle == "" && privacy == "" && !cmd.Flags().Changed("nsfw") {
		ui.PrintError("Nothing to update", "Pass at least one of --title, --privacy, --nsfw")
		os.Exit(1)
	}

	client, _ := newAPIClient()

	req := &imgchest.UpdatePostRequest{
		Title:   postTitle,
		Privacy: privacy,
	}
	if cmd.Flags().Changed("nsfw") {
		req.Nsfw = &postNsfw
	}

	post, err := client.UpdatePost(context.Background(), id, req)
	if err != nil {
		ui.PrintError("Failed to update post", err.Error())
		os.Exit(1)
	}

	printJSON(post)
}

func runPostDelete(cmd *cobra.Command, args []string) {
	id := resolveTarget(args[0])
	client, _ := newAPIClient()

	if err := client.DeletePost(context.Background(), id); err != nil {
		ui.PrintError("Failed to delete post", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Post deleted: " + id)
}

func runPostFavorite(cmd *cobra.Command, args []string) {
	id := resolveTarget(args[0])
	client, _ := newAPIClient()

	favorited, err := client.FavoritePost(context.Background(), id)
	if err != nil {
		ui.PrintError("Failed to toggle favorite", err.Error())
		os.Exit(1)
	}

	if favorited {
		ui.PrintSuccess("Post favorited: " + id)
	} else {
		ui.PrintSuccess("Post unfavorited: " + id)
	}
}

func runPostAddImages(cmd *cobra.Command, args []string) {
	id := resolveTarget(args[0])
	client, _ := newAPIClient()

	post, err := client.AddPostImages(context.Background(), id, openUploads(args[1:]))
	if err != nil {
		ui.PrintError("Failed to add images", err.Error())
		os.Exit(1)
	}

	printJSON(post)
}
