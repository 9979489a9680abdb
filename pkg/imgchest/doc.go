// Package imgchest provides a client for the imgchest.com image host.
//
// This package includes:
//   - A typed client for the REST API (posts, files, users)
//   - A scraper that assembles posts from the public post pages, for use
//     without an API token
//   - A client-side rate gate matching the API budget of 60 requests
//     per minute
//   - Streaming downloads for post assets
//
// Example usage:
//
//	client := imgchest.NewClient(os.Getenv("IMGCHEST_TOKEN"), 30*time.Second, nil)
//
//	// Fetch a post through the API
//	post, err := client.GetPost(ctx, "3qe4gdvj4j2")
//	if err != nil {
//	    var statusErr *imgchest.StatusError
//	    if errors.As(err, &statusErr) && statusErr.StatusCode == 404 {
//	        // Post does not exist
//	    }
//	}
//
//	// Or scrape it from the public page, no token needed
//	scraped, err := client.GetScrapedPost(ctx, "3qe4gdvj4j2")
//
//	// Download the files
//	for _, file := range scraped.Images {
//	    body, err := client.Download(ctx, file.Link)
//	    // Stream body to disk
//	}
package imgchest
