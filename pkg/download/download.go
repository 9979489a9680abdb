// Package download orchestrates fetching an imgchest post and saving its
// assets to disk.
package download

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"imgchest/internal/downloader"
	"imgchest/pkg/config"
	"imgchest/pkg/imgchest"
	"imgchest/pkg/logger"
	"imgchest/pkg/storage"
	"imgchest/pkg/ui"
)

// metadataFile is the sidecar written next to the downloaded assets
const metadataFile = "post.json"

// Options adjust how a download run fetches post metadata
type Options struct {
	// UseAPI fetches metadata through the authenticated api instead of
	// scraping the public page. Requires a token.
	UseAPI bool
}

// Downloader fetches post metadata and fans out per-asset downloads
type Downloader struct {
	client   *imgchest.Client
	config   *config.Config
	logger   logger.Logger
	notifier *ui.Notifier
	out      io.Writer
	errOut   io.Writer
	options  Options
}

// New creates a new Downloader instance
func New(cfg *config.Config, options Options) *Downloader {
	log := logger.GetLogger()

	client := imgchest.NewClient(cfg.API.Token, cfg.Download.DownloadTimeout, log)
	if cfg.API.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.API.UserAgent)
	}
	if cfg.RateLimit.RequestsPerMinute > 0 {
		client.SetRateLimit(cfg.RateLimit.RequestsPerMinute)
	}

	return &Downloader{
		client:   client,
		config:   cfg,
		logger:   log,
		notifier: ui.NewNotifier(cfg.Notifications.Enabled),
		out:      os.Stdout,
		errOut:   os.Stderr,
		options:  options,
	}
}

// Client returns the api client used for fetching
func (d *Downloader) Client() *imgchest.Client {
	return d.client
}

// SetClient replaces the api client
func (d *Downloader) SetClient(client *imgchest.Client) {
	d.client = client
}

// SetLogger replaces the logger
func (d *Downloader) SetLogger(log logger.Logger) {
	d.logger = log
}

// SetOutput redirects the progress and diagnostic streams
func (d *Downloader) SetOutput(out, errOut io.Writer) {
	d.out = out
	d.errOut = errOut
}

// Run downloads a single post identified by a url or raw id. It fetches
// the post metadata, writes the post.json sidecar and downloads every
// asset into <base>/<post-id>. All assets are attempted even when some
// fail; the returned error is the last failure observed.
func (d *Downloader) Run(ctx context.Context, target string) error {
	id, err := imgchest.ResolvePostID(target)
	if err != nil {
		return fmt.Errorf("failed to determine post id: %w", err)
	}

	d.logger.InfoWithFields("Starting post download", map[string]interface{}{
		"post_id": id,
		"use_api": d.options.UseAPI,
	})

	metadata, links, err := d.fetchPost(ctx, id)
	if err != nil {
		if d.config.Notifications.OnError {
			d.notifier.SendError("Download failed", err.Error())
		}
		return err
	}

	outputDir := filepath.Join(d.config.Output.BaseDirectory, id)
	storageManager, err := storage.NewManager(outputDir)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	if err := storageManager.WriteMetadata(metadataFile, metadata); err != nil {
		return fmt.Errorf("failed to write %s: %w", metadataFile, err)
	}

	// Build one job per asset, keeping malformed links as immediate
	// failures so the totals still add up
	jobs := make([]downloader.Job, 0, len(links))
	var malformed []error
	for _, link := range links {
		filename, err := assetFilename(link)
		if err != nil {
			malformed = append(malformed, err)
			continue
		}
		jobs = append(jobs, downloader.Job{URL: link, Filename: filename, PostID: id})
	}

	progress := ui.NewProgress(d.out, d.errOut, len(jobs)+len(malformed))

	var lastErr error
	var totalBytes int64
	for _, err := range malformed {
		logger.LogDownload(id, "", false, err)
		progress.Fail(err)
		lastErr = err
	}

	pool := downloader.NewWorkerPool(ctx, d.config.Download.ConcurrentDownloads, d.client, storageManager, d.logger)
	pool.Start()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			if result.Success {
				logger.LogDownload(id, result.Job.Filename, result.Skipped, nil)
				progress.Complete(result.Skipped)
				totalBytes += result.Size
			} else {
				logger.LogDownload(id, result.Job.Filename, false, result.Error)
				progress.Fail(result.Error)
				lastErr = result.Error
			}
		}
	}()

	var submitErr error
	for _, job := range jobs {
		if err := pool.Submit(job); err != nil {
			d.logger.WithError(err).WithField("filename", job.Filename).Error("Failed to submit download job")
			progress.Fail(fmt.Errorf("failed to submit %s: %w", job.Filename, err))
			submitErr = err
		}
	}

	pool.Stop()
	wg.Wait()

	if submitErr != nil {
		lastErr = submitErr
	}

	summaryFields := map[string]interface{}{
		"post_id":    id,
		"downloaded": progress.Completed() - progress.Skipped(),
		"skipped":    progress.Skipped(),
		"failed":     progress.Failed(),
		"bytes":      totalBytes,
		"duration":   progress.Elapsed(),
	}

	if lastErr != nil {
		d.logger.ErrorWithFields("Post download finished with errors", summaryFields)
		if d.config.Notifications.OnError {
			d.notifier.SendError("Download failed",
				fmt.Sprintf("%s: %d of %d assets failed", id, progress.Failed(), progress.Total()))
		}
		return lastErr
	}

	d.logger.InfoWithFields("Post download completed", summaryFields)
	if d.config.Notifications.OnComplete {
		d.notifier.SendSuccess("Download complete",
			fmt.Sprintf("%s: %d files (%s)", id, progress.Completed(), ui.FormatBytes(totalBytes)))
	}
	return nil
}

// fetchPost obtains the post metadata record and the list of asset links
func (d *Downloader) fetchPost(ctx context.Context, id string) (interface{}, []string, error) {
	if d.options.UseAPI {
		post, err := d.client.GetPost(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get post: %w", err)
		}

		links := make([]string, 0, len(post.Images))
		for _, file := range post.Images {
			links = append(links, file.Link)
		}
		return post, links, nil
	}

	post, err := d.client.GetScrapedPost(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get post: %w", err)
	}

	if post.ExtraImageCount != nil {
		extra, err := d.client.LoadExtraFiles(ctx, post)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load extra files: %w", err)
		}
		if uint32(len(extra)) != *post.ExtraImageCount {
			return nil, nil, fmt.Errorf("expected %d extra files, got %d", *post.ExtraImageCount, len(extra))
		}

		d.logger.DebugWithFields("Loaded extra files", map[string]interface{}{
			"post_id": post.ID,
			"count":   len(extra),
		})
		post.Images = append(post.Images, extra...)
	}

	links := make([]string, 0, len(post.Images))
	for _, file := range post.Images {
		links = append(links, file.Link)
		if file.VideoLink != nil && *file.VideoLink != file.Link {
			links = append(links, *file.VideoLink)
		}
	}
	return post, links, nil
}

// assetFilename derives the local filename from the final path segment
// of an asset link
func assetFilename(link string) (string, error) {
	segment := link
	if idx := strings.LastIndex(link, "/"); idx >= 0 {
		segment = link[idx+1:]
	}
	if segment == "" {
		return "", fmt.Errorf("missing file name in %q", link)
	}
	return segment, nil
}
