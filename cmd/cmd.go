// Package cmd provides the flowfind CLI commands.
//
// Commands:
//   - serve: HTTP API server with SSE streaming
//   - ingest: bulk-load workflow catalog entries from CSV
//
// Both commands handle SIGINT/SIGTERM via context cancellation.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
)

// Execute is the entry point for the flowfind CLI.
func Execute() error {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(os.Args) < 2 {
		runHelp()
		return nil
	}

	switch os.Args[1] {
	case "serve":
		return runServe()
	case "ingest":
		return runIngest()
	case "version", "--version", "-v":
		runVersion()
		return nil
	case "help", "--help", "-h":
		runHelp()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", os.Args[1])
	}
}

// runHelp displays the help message.
func runHelp() {
	fmt.Println("flowfind - workflow recommendation service")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  flowfind serve [addr]     Start HTTP API server (default: 127.0.0.1:3500)")
	fmt.Println("  flowfind ingest <file>    Ingest workflow catalog entries from CSV")
	fmt.Println("  flowfind version          Show version information")
	fmt.Println("  flowfind help             Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY     Required: Gemini API key")
	fmt.Println("  DATABASE_URL       Optional: PostgreSQL URL override")
	fmt.Println("  DEBUG              Optional: Enable debug logging")
}
