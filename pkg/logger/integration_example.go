package logger

// This file shows how to integrate the logger into the main application

/*
Example integration in a command:

func runDownload(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize the logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}

	// Now the logger is available throughout the application
	logger.WithField("target", args[0]).Info("Starting download")

	// Log configuration (be careful not to log the api token)
	logger.WithFields(map[string]interface{}{
		"output_dir": cfg.Output.BaseDirectory,
		"concurrent": cfg.Download.ConcurrentDownloads,
		"rate_limit": cfg.RateLimit.RequestsPerMinute,
		"log_level":  cfg.Logging.Level,
	}).Debug("Configuration loaded")
}
*/

// Example integration in the download orchestrator:
/*
func (d *Downloader) Run(ctx context.Context, target string) error {
	log := d.logger.
		WithField("component", "download").
		WithField("target", target)

	log.Info("Starting post download")

	// Fetch the post
	log.Debug("Fetching post metadata")
	post, err := d.client.GetScrapedPost(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to fetch post")
		return err
	}

	log.WithFields(map[string]interface{}{
		"post_id": post.ID,
		"files":   len(post.Images),
	}).Info("Post fetched")

	// ... rest of the implementation ...
}
*/

// Example per-file logging with the helper:
/*
for result := range pool.Results() {
	// One standardized line per file, pass or fail
	logger.LogDownload(post.ID, result.Job.Filename, result.Skipped, result.Error)
}
*/
