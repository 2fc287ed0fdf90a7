package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Gopikrish-30/ReadUp/internal/domain"
	"github.com/Gopikrish-30/ReadUp/reader"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest folder...",
	Short: "Bulk-import PDF files from folders into the library",
	Long:  `Walk one or more folders, copy every PDF into the blob store and register it as a book in the library.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
			return err
		}
		for i, input := range args {
			fileInfo, err := os.Stat(input)
			if err != nil {
				return fmt.Errorf("on %dth argument: %w", i+1, err)
			}
			if !fileInfo.IsDir() {
				return fmt.Errorf("on %dth argument: must be a directory", i+1)
			}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		cfg := reader.DefaultConfig()
		if _, err := os.Stat(configFile); err == nil {
			cfg, err = reader.LoadConfig(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
		}

		app, cleanup, err := buildApp(cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		crawledFilepaths := make(chan string, 10) // pipeline

		var wg sync.WaitGroup
		ingestWorker := func(queue chan string) {
			defer wg.Done()
			for path := range queue {
				err := ingestBook(cmd.Context(), app, path)
				if err != nil {
					log.Printf("Ingesting book error: %s", err)
				}
			}
		}
		defer wg.Wait()
		for i := uint(0); i < jobs; i++ {
			wg.Add(1)
			go ingestWorker(crawledFilepaths)
		}
		defer close(crawledFilepaths)

		for _, input := range args {
			err := filepath.WalkDir(input, func(path string, info fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if info.IsDir() {
					return nil
				}
				if !strings.EqualFold(filepath.Ext(path), ".pdf") {
					return nil
				}
				log.Printf("found book '%s'", path)
				crawledFilepaths <- path
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	},
}

// ingestBook stores one PDF in the blob store and registers the book record.
func ingestBook(ctx context.Context, app *reader.ReaderApp, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("while opening '%s': %w", path, err)
	}
	defer f.Close()

	book := &domain.Book{
		ID:    uuid.NewString(),
		Title: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	if err := app.Files.Store(book.ID, f); err != nil {
		return fmt.Errorf("while storing '%s': %w", path, err)
	}
	if err := app.Books().Upsert(ctx, book); err != nil {
		app.Files.Delete(book.ID)
		return fmt.Errorf("while registering '%s': %w", path, err)
	}
	log.Printf("ingested '%s' as %s", path, book.ID)
	return nil
}

var (
	jobs uint
)

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.PersistentFlags().UintVarP(&jobs, "jobs", "j", 1, "Amount of concurrent ingestors")
}
