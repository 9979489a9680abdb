// Package ui provides terminal output helpers for the imgchest CLI
// This file demonstrates example usage of the UI components
package ui

/*
Example usage of the UI components:

// Terminal colors and output
ui.PrintInfo("Post", "3qe4gdvj4j2")              // Cyan labeled line
ui.PrintSuccess("Download completed!")           // Green success message
ui.PrintError("Failed to download", err)         // Red error message on stderr
ui.PrintWarning("Rate limit approaching")        // Yellow warning message
ui.PrintHighlight("[PROCESSING]")                // Magenta highlight message

// Download progress tracking
progress := ui.NewProgress(os.Stdout, os.Stderr, 4)
progress.Complete(false)                         // Prints "1/4..."
progress.Complete(true)                          // Skipped files count too
progress.Fail(err)                               // Prints the error to stderr
fmt.Println(progress.Failed())                   // 1

// Notifications (cross-platform, disabled unless requested)
notifier := ui.NewNotifier(true)
notifier.SendNotification("Download Complete", "4 files saved")
notifier.SendError("Error", "Failed to download file")

// Direct color usage
fmt.Printf("%s: %s\n", ui.Cyan("Post"), ui.Yellow("3qe4gdvj4j2"))
fmt.Println(ui.Green("✓ Success"))
fmt.Println(ui.Red("✗ Failed"))
*/
