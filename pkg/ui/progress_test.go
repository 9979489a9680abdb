package ui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestProgress(t *testing.T) {
	var out, errOut bytes.Buffer
	progress := NewProgress(&out, &errOut, 3)

	progress.Complete(false)
	progress.Complete(true)
	progress.Fail(fmt.Errorf("download failed: timeout"))

	want := "1/3...\n2/3...\n"
	if out.String() != want {
		t.Errorf("Unexpected progress output: %q, want %q", out.String(), want)
	}

	if !strings.Contains(errOut.String(), "download failed: timeout") {
		t.Errorf("Expected failure on error stream, got %q", errOut.String())
	}

	if progress.Completed() != 2 {
		t.Errorf("Expected 2 completed, got %d", progress.Completed())
	}
	if progress.Skipped() != 1 {
		t.Errorf("Expected 1 skipped, got %d", progress.Skipped())
	}
	if progress.Failed() != 1 {
		t.Errorf("Expected 1 failed, got %d", progress.Failed())
	}
	if progress.Total() != 3 {
		t.Errorf("Expected total 3, got %d", progress.Total())
	}
}

func TestProgressFullCompletion(t *testing.T) {
	var out, errOut bytes.Buffer
	progress := NewProgress(&out, &errOut, 4)

	for i := 0; i < 4; i++ {
		progress.Complete(false)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 progress lines, got %d", len(lines))
	}
	if lines[3] != "4/4..." {
		t.Errorf("Expected final line 4/4..., got %q", lines[3])
	}
	if errOut.Len() != 0 {
		t.Errorf("Expected empty error stream, got %q", errOut.String())
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Hour, "2h0m"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
