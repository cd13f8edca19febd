package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"video-player/internal/auth"
	"video-player/internal/database"

	"golang.org/x/term"
)

const (
	// Default timeout for database operations
	defaultTimeout = 30 * time.Second
	// Default database directory path
	defaultDatabaseDir = "/database"
	// minPasswordLength is enforced for new hashes only
	minPasswordLength = 6
)

// promptFunc prints prompt and reads one password without echo.
type promptFunc func(prompt string) ([]byte, error)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	command := os.Args[1]

	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	switch command {
	case "hash":
		if !hashPassword(os.Stdout, os.Stderr, readTerminalPassword) {
			os.Exit(1)
		}
	case "sessions", "logout-all":
		if !runDatabaseCommand(ctx, command) {
			os.Exit(1)
		}
	default:
		// Sanitize command input using allowlist to break taint chain
		sanitized := sanitizeCommand(command)
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitized) //nolint:gosec // G705 - input is sanitized via allowlist in sanitizeCommand
		printUsage(os.Stdout)
		os.Exit(1)
	}
}

// sanitizeCommand returns a safe representation of a command string for display.
// Any character that is not alphanumeric, a hyphen, or an underscore is
// replaced with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Video Player Credential Management")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: hashpw <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  hash        - Hash a password for UI_PASSWORD_HASH")
	fmt.Fprintln(w, "  sessions    - Show the number of active logins")
	fmt.Fprintln(w, "  logout-all  - Invalidate every login session")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  DATABASE_DIR - Path to database directory (default: %s)\n", defaultDatabaseDir)
}

func readTerminalPassword(prompt string) ([]byte, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	return password, err
}

// hashPassword asks for a password twice and prints its bcrypt hash.
func hashPassword(out, errOut io.Writer, prompt promptFunc) bool {
	password, err := prompt("New Password: ")
	if err != nil {
		fmt.Fprintf(errOut, "Error reading password: %v\n", err)
		return false
	}

	confirm, err := prompt("Confirm Password: ")
	if err != nil {
		fmt.Fprintf(errOut, "Error reading password: %v\n", err)
		return false
	}

	if !bytes.Equal(password, confirm) {
		fmt.Fprintln(errOut, "Error: Passwords do not match")
		return false
	}

	if len(password) < minPasswordLength {
		fmt.Fprintf(errOut, "Error: Password must be at least %d characters\n", minPasswordLength)
		return false
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return false
	}

	fmt.Fprintln(out, hash)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Set it in the environment, quoted so the shell keeps the '$' characters:")
	fmt.Fprintf(out, "  UI_PASSWORD_HASH='%s'\n", hash)
	return true
}

func databasePath() string {
	databaseDir := os.Getenv("DATABASE_DIR")
	if databaseDir == "" {
		databaseDir = defaultDatabaseDir
	}
	return filepath.Join(databaseDir, database.FileName)
}

func runDatabaseCommand(ctx context.Context, command string) bool {
	dbPath := databasePath()
	db, err := database.New(ctx, dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open database: %v\n", err)
		fmt.Fprintf(os.Stderr, "Make sure DATABASE_DIR is set correctly (current: %s)\n", filepath.Dir(dbPath))
		return false
	}
	defer func() {
		if err := db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}()

	if command == "logout-all" {
		return logoutAll(ctx, os.Stdout, os.Stderr, db)
	}
	return showSessions(ctx, os.Stdout, os.Stderr, db)
}

func showSessions(ctx context.Context, out, errOut io.Writer, db *database.Database) bool {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := db.CountActiveSessions(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "Error: Failed to count sessions: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "Active sessions: %d\n", n)
	return true
}

func logoutAll(ctx context.Context, out, errOut io.Writer, db *database.Database) bool {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := db.DeleteAllSessions(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "Error: Failed to delete sessions: %v\n", err)
		return false
	}
	fmt.Fprintf(out, "Removed %d sessions. Every browser must log in again.\n", n)
	return true
}
