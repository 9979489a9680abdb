package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"imgchest/pkg/auth"
	"imgchest/pkg/config"
	"imgchest/pkg/imgchest"
	"imgchest/pkg/logger"
	"imgchest/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	noColor     bool
	quiet       bool
	verbose     bool
	accountName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "imgchest",
	Short: "An image chest client for downloading and managing posts",
	Long: `imgchest is a command-line client for imgchest.com.

Features:
  - Download whole posts with concurrent workers
  - Skip files that are already on disk
  - Scrape public posts without an api token
  - Full api access: create, update, delete and favorite posts
  - Secure token storage using the system keychain

Post downloads work without credentials. Api operations need a token,
stored with 'imgchest auth login' or set via IMGCHEST_TOKEN.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Progress lines own stdout during downloads, so everything
		// else is suppressed there unless verbose is requested
		if cmd.Name() == "download" && !verbose {
			quiet = true
			if logLevel == "info" {
				logLevel = "error"
			}
		}

		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		if noColor {
			ui.SetColorEnabled(false)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is .imgchest.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show all output including logs")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")

	// Version template
	rootCmd.SetVersionTemplate(`imgchest {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads configuration honoring the global flags.
func loadConfig(flags map[string]interface{}) *config.Config {
	if flags == nil {
		flags = make(map[string]interface{})
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}

	return cfg
}

// resolveToken fills the api token from stored accounts when the
// configuration carries none. With --account the named account is
// required; otherwise a missing token is left empty for the caller
// to judge.
func resolveToken(cfg *config.Config) {
	if accountName == "" && cfg.API.Token != "" {
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize token manager", err.Error())
		os.Exit(1)
	}

	if accountName != "" {
		account, err := manager.Retrieve(accountName)
		if err != nil {
			ui.PrintError("Account not found", accountName)
			ui.PrintInfo("Available accounts", "Use 'imgchest auth list' to see stored accounts")
			os.Exit(1)
		}
		cfg.API.Token = account.Token
		logger.WithField("account", account.Name).Info("Using stored token")
		return
	}

	account, err := manager.RetrieveDefault()
	if err != nil {
		return
	}
	cfg.API.Token = account.Token
	logger.WithField("account", account.Name).Info("Using stored token")
}

// newAPIClient builds a client for authenticated api operations. It
// exits with guidance when no token can be found.
func newAPIClient() (*imgchest.Client, *config.Config) {
	cfg := loadConfig(nil)
	resolveToken(cfg)

	if cfg.API.Token == "" {
		ui.PrintError("No api token found")
		fmt.Fprintln(os.Stderr, "\nTo store a token securely, run:")
		fmt.Fprintln(os.Stderr, "  imgchest auth login")
		fmt.Fprintln(os.Stderr, "\nFor CI or one-off runs, set an environment variable instead:")
		fmt.Fprintln(os.Stderr, "  export IMGCHEST_TOKEN=your_token")
		os.Exit(1)
	}

	client := imgchest.NewClient(cfg.API.Token, cfg.Download.DownloadTimeout, logger.GetLogger())
	if cfg.API.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.API.UserAgent)
	}
	if cfg.RateLimit.RequestsPerMinute > 0 {
		client.SetRateLimit(cfg.RateLimit.RequestsPerMinute)
	}

	return client, cfg
}

// printJSON renders an api response for terminal consumption.
func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		ui.PrintError("Failed to format response", err.Error())
		os.Exit(1)
	}
	fmt.Println(string(data))
}
