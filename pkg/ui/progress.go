package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Progress tracks per-asset completion for a single post download.
// Every finished asset prints a running "completed/total" line so the
// output stays usable in a pipe.
type Progress struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	total     int
	completed int
	skipped   int
	failed    int
	startTime time.Time
}

// NewProgress creates a progress tracker writing to the given streams
func NewProgress(out, errOut io.Writer, total int) *Progress {
	return &Progress{
		out:       out,
		errOut:    errOut,
		total:     total,
		startTime: time.Now(),
	}
}

// Complete records one finished asset and prints the running count
func (p *Progress) Complete(skipped bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed++
	if skipped {
		p.skipped++
	}
	fmt.Fprintf(p.out, "%d/%d...\n", p.completed, p.total)
}

// Fail records a failed asset and prints its error to the error stream
func (p *Progress) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failed++
	fmt.Fprintln(p.errOut, err)
}

// Completed returns the number of successfully finished assets
func (p *Progress) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// Skipped returns how many finished assets were already on disk
func (p *Progress) Skipped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.skipped
}

// Failed returns the number of failed assets
func (p *Progress) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Total returns the number of assets being tracked
func (p *Progress) Total() int {
	return p.total
}

// Elapsed returns the time since tracking started
func (p *Progress) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// FormatBytes formats bytes in a human-readable way
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
