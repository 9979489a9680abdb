// Package storage provides file management for downloaded post assets.
//
// The storage package handles:
//   - Creating and managing output directories
//   - Saving assets with atomic write operations
//   - Detecting duplicate downloads
//   - Writing post metadata sidecars
//
// The Manager type is the primary interface for storage operations. It maintains
// an in-memory cache of downloaded files for fast duplicate detection and
// provides atomic file writing to prevent corruption.
//
// Features:
//   - Atomic file writes using temporary files and rename
//   - Thread-safe operations with read-write mutex
//   - Automatic scanning of existing files on initialization
//   - In-memory cache for fast duplicate detection
//
// Usage:
//
//	manager, err := storage.NewManager("downloads/3qe4gdvj4j2")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Check if file already exists
//	if !manager.IsDownloaded("nw7w6cmlvye.png") {
//	    // Save new asset
//	    _, err = manager.SaveFile(assetReader, "nw7w6cmlvye.png")
//	    if err != nil {
//	        log.Printf("Failed to save file: %v", err)
//	    }
//	}
package storage
