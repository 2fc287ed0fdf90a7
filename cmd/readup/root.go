package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v6/osfs"
	"github.com/spf13/cobra"

	"github.com/Gopikrish-30/ReadUp/internal/repository"
	"github.com/Gopikrish-30/ReadUp/reader"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "readup [folder|config.yaml]",
	Short: "Read PDFs in the browser and keep highlights, drawings and notes",
	Long: strings.TrimSpace(`
A personal reading tracker: serve a library of PDF books, read them in the
browser, and keep highlights, freehand drawings, notes and bookmarks per book.
    `),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *reader.Config
		var err error

		if len(args) == 1 {
			arg := args[0]
			if stat, err := os.Stat(arg); err == nil && stat.IsDir() {
				// A folder argument initializes a project in it and exits.
				log.Printf("Detected folder argument: %s", arg)
				log.Printf("Initializing project in folder...")
				return initProject(arg)
			}
			// Otherwise assume it is a config file.
			cfg, err = reader.LoadConfig(arg)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
		} else {
			configFile, _ := cmd.Flags().GetString("config")
			if _, statErr := os.Stat(configFile); statErr == nil {
				cfg, err = reader.LoadConfig(configFile)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
			} else {
				log.Printf("No config file at %s, using defaults", configFile)
				cfg = reader.DefaultConfig()
			}
		}

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		app, cleanup, err := buildApp(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		log.Printf("Database: %s", cfg.Database)
		log.Printf("Blobs: %s", cfg.Blobs)
		log.Printf("Starting server on: %s", cfg.Addr)
		return http.ListenAndServe(cfg.Addr, app.GetHTTPHandler())
	},
}

// buildApp opens the storage handles a running app needs. The returned
// cleanup closes the database.
func buildApp(cfg *reader.Config) (*reader.ReaderApp, func(), error) {
	if err := os.MkdirAll(cfg.Blobs, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	db, err := reader.GetDatabase(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	files := repository.NewFileRepository(osfs.New(cfg.Blobs))
	if !files.SelfTest() {
		db.Close()
		return nil, nil, fmt.Errorf("blob directory %s is not writable", cfg.Blobs)
	}
	app := &reader.ReaderApp{
		Database: db,
		Files:    files,
		Config:   cfg,
	}
	return app, func() { db.Close() }, nil
}

// initProject seeds a folder with a default config, an empty database and a
// blob directory, so `readup config.yaml` inside it just works.
func initProject(folder string) error {
	configFile := filepath.Join(folder, "config.yaml")
	databaseFile := filepath.Join(folder, "readup.db")
	blobsDir := filepath.Join(folder, "books")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Printf("Creating default config: %s", configFile)
		if err := createSampleConfig(configFile, databaseFile, blobsDir); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
	} else {
		log.Printf("Config file already exists: %s", configFile)
	}

	if _, err := os.Stat(databaseFile); os.IsNotExist(err) {
		log.Printf("Creating empty database: %s", databaseFile)
		db, err := reader.GetDatabase(databaseFile)
		if err != nil {
			return fmt.Errorf("failed to create database: %w", err)
		}
		db.Close()
	}

	if _, err := os.Stat(blobsDir); os.IsNotExist(err) {
		log.Printf("Creating blob directory: %s", blobsDir)
		if err := os.MkdirAll(blobsDir, 0755); err != nil {
			return fmt.Errorf("failed to create blob directory: %w", err)
		}
	}

	log.Printf("Project initialized. Start reading with: readup %s", configFile)
	return nil
}

func createSampleConfig(configFile, databaseFile, blobsDir string) error {
	content := fmt.Sprintf(`addr: ":8080"
database: %q
blobs: %q
viewer:
  default_color: "#ffff00"
  palette: ["#ffff00", "#90ee90", "#add8e6", "#ffb6c1"]
  line_width: 2
  fit_percentage: 90
modes:
  light: { background: "#ffffff", foreground: "#1a1a1a" }
  dark: { background: "#2b2b2b", foreground: "#e0e0e0" }
  night: { background: "#1a1a14", foreground: "#c8b988" }
`, databaseFile, blobsDir)
	return os.WriteFile(configFile, []byte(content), 0644)
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		log.Fatalf("Error executing command: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "config.yaml", "Config file for the reading tracker")
	rootCmd.Flags().StringP("addr", "a", "", "Address to bind the webserver (overrides the config)")
}
