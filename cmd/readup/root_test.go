package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// executeCommand is a helper to run a cobra command and capture its output
func executeCommand(args ...string) (string, string, error) {
	// Redirect log output for capture
	var out, errOut bytes.Buffer
	log.SetOutput(&errOut)
	defer log.SetOutput(os.Stderr) // Restore default logger

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// cobra only propagates the root context to a subcommand whose own
	// context is nil, so clear any context left over from a previous run.
	for _, c := range rootCmd.Commands() {
		c.SetContext(nil)
	}

	err := rootCmd.ExecuteContext(ctx)

	return out.String(), errOut.String(), err
}

func TestRootCmd_FolderArgument(t *testing.T) {
	t.Run("initializes config, database and blob directory and exits", func(t *testing.T) {
		tempDir := t.TempDir()
		configPath := filepath.Join(tempDir, "config.yaml")
		dbPath := filepath.Join(tempDir, "readup.db")
		blobsPath := filepath.Join(tempDir, "books")

		_, errOut, err := executeCommand(tempDir)
		if err != nil {
			t.Fatalf("command execution failed: %v, output: %s", err, errOut)
		}

		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			t.Errorf("expected config file to be created at %s, but it wasn't", configPath)
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Errorf("expected database file to be created at %s, but it wasn't", dbPath)
		}
		if stat, err := os.Stat(blobsPath); os.IsNotExist(err) || !stat.IsDir() {
			t.Errorf("expected blob directory to be created at %s, but it wasn't", blobsPath)
		}

		if !strings.Contains(errOut, "Creating default config") {
			t.Errorf("expected log output to contain 'Creating default config', but got: %s", errOut)
		}
		if !strings.Contains(errOut, "Creating empty database") {
			t.Errorf("expected log output to contain 'Creating empty database', but got: %s", errOut)
		}
		if !strings.Contains(errOut, "Creating blob directory") {
			t.Errorf("expected log output to contain 'Creating blob directory', but got: %s", errOut)
		}
	})

	t.Run("keeps an existing config and fills in the rest", func(t *testing.T) {
		tempDir := t.TempDir()
		configPath := filepath.Join(tempDir, "config.yaml")
		dbPath := filepath.Join(tempDir, "readup.db")
		blobsPath := filepath.Join(tempDir, "books")

		os.WriteFile(configPath, []byte(""), 0644) // Create dummy config

		_, errOut, err := executeCommand(tempDir)
		if err != nil {
			t.Fatalf("command execution failed: %v, output: %s", err, errOut)
		}

		if !strings.Contains(errOut, "Config file already exists") {
			t.Errorf("expected log output to contain 'Config file already exists', but got: %s", errOut)
		}
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Errorf("expected database file to be created at %s, but it wasn't", dbPath)
		}
		if stat, err := os.Stat(blobsPath); os.IsNotExist(err) || !stat.IsDir() {
			t.Errorf("expected blob directory to be created at %s, but it wasn't", blobsPath)
		}
	})

	t.Run("initialized config loads cleanly", func(t *testing.T) {
		tempDir := t.TempDir()

		_, errOut, err := executeCommand(tempDir)
		if err != nil {
			t.Fatalf("command execution failed: %v, output: %s", err, errOut)
		}

		_, _, err = executeCommand("query", filepath.Join(tempDir, "readup.db"))
		if err != nil {
			t.Errorf("querying the initialized database failed: %v", err)
		}
	})

	t.Run("invalid path is treated as a config file and fails to load", func(t *testing.T) {
		invalidPath := "/path/to/some/nonexistent/dir"
		_, _, err := executeCommand(invalidPath)

		if err == nil {
			t.Fatal("expected an error for invalid path, but got none")
		}
		if !strings.Contains(err.Error(), "failed to load config") {
			t.Errorf("expected error to be about loading config, but got: %v", err)
		}
	})
}

func TestQueryCmd_UnknownBook(t *testing.T) {
	tempDir := t.TempDir()
	if _, errOut, err := executeCommand(tempDir); err != nil {
		t.Fatalf("init failed: %v, output: %s", err, errOut)
	}

	_, _, err := executeCommand("query", filepath.Join(tempDir, "readup.db"), "nope")
	if err == nil {
		t.Fatal("expected an error for a book without annotations")
	}
	if !strings.Contains(err.Error(), "has no annotations") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestIngestCmd_RejectsNonDirectories(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "not-a-dir.pdf")
	os.WriteFile(filePath, []byte("%PDF-1.4"), 0644)

	_, _, err := executeCommand("ingest", filePath)
	if err == nil {
		t.Fatal("expected an error for a non-directory argument")
	}
	if !strings.Contains(err.Error(), "must be a directory") {
		t.Errorf("unexpected error: %v", err)
	}
}
