package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"imgchest/pkg/auth"
	"imgchest/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage api tokens",
	Long: `Manage stored imgchest api tokens securely.

Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variable (IMGCHEST_TOKEN)

Never share your token or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an api token securely",
	Long: `Store an imgchest api token in the system keychain or an encrypted file.

You will be prompted for:
  - An account name (press Enter for 'default')
  - The api token (input stays hidden)

To create a token, log into imgchest.com, open Settings > API and
click 'Create Token'.`,
	Example: `  # Interactive login
  imgchest auth login

  # Store a token under a specific account name
  imgchest auth login --account work`,
	Run: runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove a stored token",
	Long: `Remove a stored imgchest api token.

Without --account you will be shown a list of stored accounts to
choose from. You can also remove all accounts at once.`,
	Example: `  # Interactive logout
  imgchest auth logout

  # Logout a specific account
  imgchest auth logout --account work`,
	Run: runLogout,
}

// authListCmd represents the auth list command
var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with masked token values.`,
	Run:   runAuthList,
}

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show token storage status",
	Long: `Show which storage backends are active, how many accounts are
stored and which account authenticated commands would use.`,
	Run: runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authListCmd)
	authCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	// Interactive prompts
	reader := bufio.NewReader(os.Stdin)

	// Show the token guide first
	auth.ShowTokenGuide()

	// Ask if ready to continue
	fmt.Print("Ready to enter your token? (Y/n): ")
	ready, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(ready)) == "n" {
		fmt.Println("\nRun 'imgchest auth login' when you're ready.")
		return
	}

	fmt.Println()

	name := accountName
	if name == "" {
		fmt.Print("Account name [default]: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read account name", err.Error())
			os.Exit(1)
		}
		name = strings.TrimSpace(input)
		if name == "" {
			name = "default"
		}
	}

	// Check if the account already exists
	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\nAccount '%s' already exists. Update the token? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	// Get the token with validation
	var token string
	for {
		fmt.Print("\napi token (input is hidden): ")
		token, err = readPassword()
		if err != nil {
			ui.PrintError("Failed to read token", err.Error())
			os.Exit(1)
		}

		// Basic validation
		if len(token) < 20 {
			fmt.Println("\nThat looks too short for an api token.")
			fmt.Println("Copy the full value from Settings > API on imgchest.com.")
			fmt.Print("\nTry again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	account := &auth.Account{
		Name:         name,
		Token:        token,
		LastModified: time.Now(),
	}

	// Show what we're about to store
	masked := auth.SanitizeAccount(account)
	fmt.Println("\nSummary:")
	fmt.Printf("   Account: %s\n", name)
	fmt.Printf("   Token: %s\n", masked.Token)

	fmt.Println("\nStoring token securely...")
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store token", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Account saved: " + name)

	// Show where the token lives
	fmt.Println("\nYour token is stored in:")
	if auth.IsKeyringAvailable() {
		fmt.Println("   - System keychain (primary)")
	}
	fmt.Println("   - Encrypted file (backup)")

	fmt.Println("\nAuthenticated commands now work, for example:")
	fmt.Println("   $ imgchest post get 3qe4gdvj4j2")
	if name != "default" {
		fmt.Printf("   $ imgchest post get 3qe4gdvj4j2 --account %s\n", name)
	}
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	if accountName != "" {
		if err := manager.Delete(accountName); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + accountName)
		return
	}

	// List accounts and ask which to remove
	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		ui.PrintError("No stored accounts found")
		return
	}

	if len(accounts) == 1 {
		// Only one account, confirm deletion
		account := accounts[0]
		reader := bufio.NewReader(os.Stdin)
		fmt.Printf("Remove account '%s'? (y/N): ", account.Name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}

		if err := manager.Delete(account.Name); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + account.Name)
		return
	}

	// Multiple accounts, show a menu
	fmt.Println("Select account to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Name)
	}
	fmt.Printf("  %d. Remove all accounts\n", len(accounts)+1)
	fmt.Printf("  0. Cancel\n\n")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	switch {
	case choice == 0:
		return
	case choice == len(accounts)+1:
		fmt.Print("Remove ALL accounts? This cannot be undone! (yes/N): ")
		confirm, _ := reader.ReadString('\n')
		if strings.TrimSpace(confirm) != "yes" {
			return
		}

		if err := manager.DeleteAll(); err != nil {
			ui.PrintError("Failed to remove all accounts", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("All accounts removed")
	case choice > 0 && choice <= len(accounts):
		account := accounts[choice-1]
		if err := manager.Delete(account.Name); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + account.Name)
	default:
		ui.PrintError("Invalid choice")
		os.Exit(1)
	}
}

func runAuthList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'imgchest auth login' to add an account")
		return
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Account: %s\n", i+1, sanitized.Name)
		fmt.Printf("   Token: %s\n", sanitized.Token)
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

func runAuthStatus(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Token Storage Status")
	fmt.Println()

	if auth.IsKeyringAvailable() {
		ui.PrintInfo("System keychain", "available")
	} else {
		ui.PrintInfo("System keychain", "not available, using encrypted file")
	}

	if os.Getenv("IMGCHEST_TOKEN") != "" {
		ui.PrintInfo("IMGCHEST_TOKEN", "set, overrides the default account")
	} else {
		ui.PrintInfo("IMGCHEST_TOKEN", "not set")
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}
	ui.PrintInfo("Stored accounts", fmt.Sprintf("%d", len(accounts)))

	account, err := manager.RetrieveDefault()
	if err != nil {
		ui.PrintWarning("No usable token", "Run 'imgchest auth login' to add one")
		auth.ShowQuickTokenGuide()
		return
	}
	ui.PrintInfo("Active account", account.Name)
	ui.PrintInfo("Token", auth.SanitizeAccount(account).Token)
}

// readPassword reads a token from stdin without echoing
func readPassword() (string, error) {
	// Try to read without echo
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
