package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager handles file storage operations and duplicate detection
type Manager struct {
	outputDir       string
	downloadedFiles map[string]bool
	mu              sync.RWMutex
}

// NewManager creates a new storage manager
func NewManager(outputDir string) (*Manager, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manager := &Manager{
		outputDir:       outputDir,
		downloadedFiles: make(map[string]bool),
	}

	// Scan existing files for duplicate detection
	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

// scanExistingFiles scans the output directory for already downloaded files
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		// Leftover temp files and metadata sidecars are not assets
		if strings.HasSuffix(name, ".tmp") || strings.HasSuffix(name, ".json") {
			continue
		}
		m.downloadedFiles[name] = true
	}

	return nil
}

// IsDownloaded checks if a file with the given name has already been downloaded
func (m *Manager) IsDownloaded(filename string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Check in-memory map first
	if m.downloadedFiles[filename] {
		return true
	}

	// Double-check file existence
	if _, err := os.Stat(filepath.Join(m.outputDir, filename)); err == nil {
		// Update cache if file exists
		m.mu.RUnlock()
		m.mu.Lock()
		m.downloadedFiles[filename] = true
		m.mu.Unlock()
		m.mu.RLock()
		return true
	}

	return false
}

// SaveFile saves file contents from the given reader and reports the number
// of bytes written
func (m *Manager) SaveFile(r io.Reader, filename string) (int64, error) {
	target := filepath.Join(m.outputDir, filename)

	// Create temporary file first
	tempFile := target + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}

	// Copy data
	written, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile) // Clean up temp file
		return 0, fmt.Errorf("failed to save file data: %w", err)
	}

	if closeErr != nil {
		os.Remove(tempFile) // Clean up temp file
		return 0, fmt.Errorf("failed to close file: %w", closeErr)
	}

	// Atomic rename
	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile) // Clean up temp file
		return 0, fmt.Errorf("failed to rename temporary file: %w", err)
	}

	// Update downloaded map
	m.mu.Lock()
	m.downloadedFiles[filename] = true
	m.mu.Unlock()

	return written, nil
}

// WriteMetadata writes v as indented JSON to the named file in the output
// directory
func (m *Manager) WriteMetadata(filename string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	target := filepath.Join(m.outputDir, filename)
	tempFile := target + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile) // Clean up temp file
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetDownloadedCount returns the number of downloaded files
func (m *Manager) GetDownloadedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.downloadedFiles)
}
