package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"book-manager/export"
	"book-manager/importer"
	"book-manager/library"
)

func newImportCmd() *cobra.Command {
	var title, cover, into string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a book from a document file",
		Long: `Create a book from a .txt, .md, .html, .docx or .pdf file.

Plain text is packed into pages of at most import.page_size characters.
Markdown, HTML and DOCX start a new page at every heading. PDF files get
one page per PDF page. Use --into to append the pages to an existing book.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			doc, err := importer.File(path, importer.Options{PageSize: cfg.Import.PageSize})
			if err != nil {
				return err
			}
			if len(doc.Sections) == 0 {
				return fmt.Errorf("%w: no text found in %s", library.ErrValidation, filepath.Base(path))
			}

			if into != "" {
				book, err := manager.ResolveBook(into)
				if err != nil {
					return err
				}
				pages, err := manager.AppendSections(book.ID, doc.Sections)
				if err != nil {
					return err
				}
				ok("Appended %d page(s) to %s", len(pages), book.Title)
				return nil
			}

			if title == "" {
				title = doc.Title
			}
			book, pages, err := manager.ImportBook(title, cover, doc.Sections)
			if err != nil {
				return err
			}
			if book.HasCover() && !library.CoverExists(book.CoverPath) {
				warn("Cover image %s does not exist; the path was saved anyway.", book.CoverPath)
			}
			ok("Imported %s as book %d with %d page(s)", book.Title, book.ID, len(pages))
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Book title (default: taken from the file)")
	cmd.Flags().StringVar(&cover, "cover", "", "Path to a cover image")
	cmd.Flags().StringVar(&into, "into", "", "Append to this existing book instead of creating one")
	return cmd
}

func newExportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export <book>",
		Short: "Write a book and its pages as YAML, JSON or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			book, err := manager.ResolveBook(args[0])
			if err != nil {
				return err
			}
			pages, err := manager.ListPages(book.ID)
			if err != nil {
				return err
			}

			if info, err := os.Stat(output); output != "" && err == nil && info.IsDir() {
				output = filepath.Join(output, exportFileName(book.Title, f))
			}

			var w io.Writer = os.Stdout
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}
			if err := export.Write(w, f, book, pages); err != nil {
				return err
			}
			if output != "" {
				ok("Exported %s (%d pages) to %s", book.Title, len(pages), output)
			}
			return nil
		},
	}
	names := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		names[i] = string(f)
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatYAML), "Output format: "+strings.Join(names, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout (a directory gets <title>.<format>)")
	return cmd
}

func newReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <book>",
		Short: "Read a book page by page",
		Long: `Read a book one page at a time.
Commands: n (next), p (previous), g (go to page), q (quit).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := manager.ResolveBook(args[0])
			if err != nil {
				return err
			}
			return manager.ReadBook(book.ID, library.Reader{
				In:          os.Stdin,
				Out:         os.Stdout,
				Width:       min(termWidth(), 100),
				ClearScreen: isTTY(),
			})
		},
	}
}

// exportFileName turns a book title into a file name for format f:
// "The Two Towers" -> "the_two_towers.yaml".
func exportFileName(title string, f export.Format) string {
	r := strings.NewReplacer(" ", "_", "/", "_", `\`, "_")
	name := r.Replace(strings.ToLower(strings.TrimSpace(title)))
	if name == "" {
		name = "book"
	}
	return name + f.Ext()
}
