// Command import_books bulk-imports every supported document in a directory,
// one book per file.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"book-manager/config"
	"book-manager/importer"
	"book-manager/library"
)

func main() {
	var (
		configPath string
		dbPath     string
		reset      bool
		skipExist  bool
	)

	cmd := &cobra.Command{
		Use:   "import_books <dir>",
		Short: "Import every .txt, .md, .html, .docx and .pdf file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = cfg.Database.Path
			}
			if reset {
				resetDatabase(dbPath)
			}

			level, _ := config.ParseLevel(cfg.Log.Level)
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			manager, err := library.NewLibraryManager(dbPath, logger)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer manager.Close()

			return importDir(manager, args[0], importer.Options{PageSize: cfg.Import.PageSize}, skipExist)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path")
	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default: database.path from config)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Delete the database before importing")
	cmd.Flags().BoolVar(&skipExist, "skip-existing", true, "Skip files whose title is already in the library")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func resetDatabase(dbPath string) {
	fmt.Println("Cleaning up existing database files...")
	for _, file := range []string{dbPath, dbPath + "-shm", dbPath + "-wal"} {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}
}

func importDir(manager *library.LibraryManager, dir string, opts importer.Options, skipExisting bool) error {
	fmt.Printf("Importing books from %s...\n", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && importer.IsSupported(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	successCount := 0
	errorCount := 0
	skipped := 0

	for _, name := range files {
		doc, err := importer.File(filepath.Join(dir, name), opts)
		if err != nil {
			fmt.Printf("%s: ERROR - %v\n", name, err)
			errorCount++
			continue
		}

		if skipExisting {
			if _, err := manager.GetBookByTitle(doc.Title); err == nil || errors.Is(err, library.ErrAmbiguous) {
				fmt.Printf("%s: skipped, %q already exists\n", name, doc.Title)
				skipped++
				continue
			}
		}

		fmt.Printf("Importing: %s (%d pages)... ", doc.Title, len(doc.Sections))
		book, pages, err := manager.ImportBook(doc.Title, "", doc.Sections)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (ID: %d, %d pages)\n", book.ID, len(pages))
		successCount++
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", successCount)
	fmt.Printf("Skipped: %d\n", skipped)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Println("\nLibrary:")
		books, err := manager.ListBooks()
		if err != nil {
			return fmt.Errorf("listing books: %w", err)
		}
		fmt.Printf("%-4s %-50s %s\n", "ID", "Title", "Pages")
		fmt.Println(strings.Repeat("-", 62))
		for _, b := range books {
			fmt.Printf("%-4d %-50s %d\n", b.ID, truncateString(b.Title, 50), b.PageCount)
		}
	}
	if errorCount > 0 {
		return fmt.Errorf("%d file(s) failed to import", errorCount)
	}
	return nil
}

func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
