package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"book-manager/library"
)

func newPagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List, add, show, edit, delete and search pages",
		Long: `Work with the pages of a book. <book> is an id or an exact title and
<number> is the page number shown by 'pages list'. Use --id to address a
page by its id instead.`,
	}
	cmd.AddCommand(
		newPagesListCmd(),
		newPagesAddCmd(),
		newPagesShowCmd(),
		newPagesEditCmd(),
		newPagesDeleteCmd(),
		newPagesSearchCmd(),
	)
	return cmd
}

func printPageTable(w io.Writer, pages []*library.Page) {
	fmt.Fprintf(w, "%-5s %-6s %-40s %s\n", "ID", "No.", "Title", "Chars")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, p := range pages {
		fmt.Fprintf(w, "%-5d %-6d %-40s %d\n", p.ID, p.Number, truncateString(p.DisplayTitle(), 40), utf8.RuneCountInString(p.Content))
	}
}

func newPagesListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list <book>",
		Short: "List the pages of a book in batches",
		Long: `List the pages of a book. In a terminal the pages are shown in batches
of 40; press Enter to load more. --all prints every page at once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := manager.ResolveBook(args[0])
			if err != nil {
				return err
			}
			if all || !isInteractive() {
				pages, err := manager.ListPages(book.ID)
				if err != nil {
					return err
				}
				if len(pages) == 0 {
					fmt.Printf("%q has no pages.\n", book.Title)
					return nil
				}
				printPageTable(os.Stdout, pages)
				return nil
			}
			return listInBatches(manager, book, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Print every page without pausing")
	return cmd
}

// listInBatches prints pages one cursor batch at a time, prompting between
// batches until the book is exhausted or the user stops.
func listInBatches(lm *library.LibraryManager, book *library.Book, in io.Reader, out io.Writer) error {
	cursor := library.NewPaginationCursor(book.ID)
	sc := bufio.NewScanner(in)
	for {
		batch, total, err := lm.LoadMorePages(cursor)
		if err != nil {
			return err
		}
		if total == 0 {
			fmt.Fprintf(out, "%q has no pages.\n", book.Title)
			return nil
		}
		if len(batch) > 0 {
			printPageTable(out, batch)
		}
		if cursor.Exhausted(total) {
			return nil
		}
		next := min(cursor.BatchSize(), total-cursor.Delivered())
		fmt.Fprint(out, color.CyanString("-- %d of %d shown. Enter: load more pages (next %d), q: stop -- ", cursor.Delivered(), total, next))
		if !sc.Scan() || strings.EqualFold(strings.TrimSpace(sc.Text()), "q") {
			return nil
		}
	}
}

// pageRef resolves "<book> <number>" or --id to a page.
type pageRef struct {
	id int64
}

func (r *pageRef) bind(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&r.id, "id", 0, "Address the page by id instead of <book> <number>")
}

func (r *pageRef) args() cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if r.id != 0 {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	}
}

func (r *pageRef) resolve(args []string) (*library.Page, error) {
	if r.id != 0 {
		return manager.GetPageByID(r.id)
	}
	book, err := manager.ResolveBook(args[0])
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		return nil, fmt.Errorf("%w: invalid page number %q", library.ErrValidation, args[1])
	}
	return manager.GetPage(book.ID, n)
}

// readContent takes page text from --content, --file, or stdin when piped
// reports that stdin is not a terminal.
func readContent(content, file string, in io.Reader, piped bool) (string, error) {
	switch {
	case content != "" && file != "":
		return "", errors.New("use either --content or --file, not both")
	case content != "":
		return content, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case piped:
		data, err := io.ReadAll(in)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return "", errors.New("page content required: pass --content, --file, or pipe text on stdin")
}

func newPagesAddCmd() *cobra.Command {
	var title, content, file string
	cmd := &cobra.Command{
		Use:   "add <book>",
		Short: "Append a page to a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := manager.ResolveBook(args[0])
			if err != nil {
				return err
			}
			text, err := readContent(content, file, os.Stdin, stdinPiped())
			if err != nil {
				return err
			}
			page, err := manager.AddPage(book.ID, title, text)
			if err != nil {
				return err
			}
			ok("Added %s (id %d) to %s", page.DisplayTitle(), page.ID, book.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Page title (default \"Page N\")")
	cmd.Flags().StringVarP(&content, "content", "c", "", "Page content")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read page content from a file")
	return cmd
}

func newPagesShowCmd() *cobra.Command {
	var ref pageRef
	cmd := &cobra.Command{
		Use:   "show <book> <number>",
		Short: "Print a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := ref.resolve(args)
			if err != nil {
				return err
			}
			header("%s (page %d, id %d)", page.DisplayTitle(), page.Number, page.ID)
			fmt.Println()
			fmt.Println(page.Content)
			return nil
		},
	}
	ref.bind(cmd)
	cmd.Args = ref.args()
	return cmd
}

func newPagesEditCmd() *cobra.Command {
	var (
		ref           pageRef
		content, file string
	)
	cmd := &cobra.Command{
		Use:   "edit <book> <number>",
		Short: "Replace the content of a page",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := ref.resolve(args)
			if err != nil {
				return err
			}
			text, err := readContent(content, file, os.Stdin, stdinPiped())
			if err != nil {
				return err
			}
			page, err = manager.UpdatePageContent(page.ID, text)
			if err != nil {
				return err
			}
			ok("Updated %s (id %d)", page.DisplayTitle(), page.ID)
			return nil
		},
	}
	ref.bind(cmd)
	cmd.Args = ref.args()
	cmd.Flags().StringVarP(&content, "content", "c", "", "New page content")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read new content from a file")
	return cmd
}

func newPagesDeleteCmd() *cobra.Command {
	var (
		ref pageRef
		yes bool
	)
	cmd := &cobra.Command{
		Use:     "delete <book> <number>",
		Aliases: []string{"rm"},
		Short:   "Delete a page",
		Long:    "Delete a page. The remaining pages keep their numbers.",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := ref.resolve(args)
			if err != nil {
				return err
			}
			if !yes && !confirm(fmt.Sprintf("Delete %q?", page.DisplayTitle())) {
				fmt.Println("Canceled.")
				return nil
			}
			if err := manager.DeletePage(page.ID); err != nil {
				return err
			}
			ok("Deleted %s (id %d)", page.DisplayTitle(), page.ID)
			return nil
		},
	}
	ref.bind(cmd)
	cmd.Args = ref.args()
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newPagesSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find pages whose title or content contains text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			pages, err := manager.SearchPages(query)
			if err != nil {
				return err
			}
			if len(pages) == 0 {
				fmt.Printf("No pages found matching '%s'.\n", query)
				return nil
			}

			titles := map[int64]string{}
			fmt.Printf("Found %d page(s) matching '%s':\n", len(pages), query)
			fmt.Printf("%-5s %-25s %-6s %s\n", "ID", "Book", "No.", "Page")
			fmt.Println(strings.Repeat("-", 70))
			for _, p := range pages {
				bookTitle, seen := titles[p.BookID]
				if !seen {
					if b, err := manager.GetBook(p.BookID); err == nil {
						bookTitle = b.Title
					}
					titles[p.BookID] = bookTitle
				}
				fmt.Printf("%-5d %-25s %-6d %s\n", p.ID, truncateString(bookTitle, 25), p.Number, truncateString(p.DisplayTitle(), 30))
			}
			return nil
		},
	}
}
