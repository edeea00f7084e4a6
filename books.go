package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"book-manager/library"
)

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List, add, show and delete books",
	}
	cmd.AddCommand(
		newBooksListCmd(),
		newBooksAddCmd(),
		newBooksShowCmd(),
		newBooksDeleteCmd(),
	)
	return cmd
}

func newBooksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all books",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := manager.ListBooks()
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Println("No books in library.")
				return nil
			}

			fmt.Printf("%-5s %-40s %-6s %s\n", "ID", "Title", "Pages", "Cover")
			fmt.Println(strings.Repeat("-", 80))
			for _, b := range books {
				fmt.Printf("%-5d %-40s %-6d %s\n", b.ID, truncateString(b.Title, 40), b.PageCount, coverStatus(&b.Book))
			}
			return nil
		},
	}
}

func coverStatus(b *library.Book) string {
	switch {
	case !b.HasCover():
		return "-"
	case !library.CoverExists(b.CoverPath):
		return color.YellowString("%s (missing)", b.CoverPath)
	default:
		return b.CoverPath
	}
}

func newBooksAddCmd() *cobra.Command {
	var cover string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a book",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := manager.AddBook(strings.Join(args, " "), cover)
			if err != nil {
				return err
			}
			if book.HasCover() && !library.CoverExists(book.CoverPath) {
				warn("Cover image %s does not exist; the path was saved anyway.", book.CoverPath)
			}
			ok("Added book %d: %s", book.ID, book.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&cover, "cover", "", "Path to a cover image")
	return cmd
}

func newBooksShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <book>",
		Short: "Show a book and its pages",
		Long:  "Show a book and its pages. <book> is an id or an exact title.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := manager.ResolveBook(args[0])
			if err != nil {
				return err
			}
			pages, err := manager.ListPages(book.ID)
			if err != nil {
				return err
			}

			header("%s", book.Title)
			fmt.Printf("ID:    %d\n", book.ID)
			fmt.Printf("Cover: %s\n", coverStatus(book))
			fmt.Printf("Pages: %d\n", len(pages))
			if len(pages) > 0 {
				fmt.Println()
				printPageTable(os.Stdout, pages)
			}
			return nil
		},
	}
}

func newBooksDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <book>",
		Aliases: []string{"rm"},
		Short:   "Delete a book and all of its pages",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := manager.ResolveBook(args[0])
			if err != nil {
				return err
			}
			count, err := manager.CountPages(book.ID)
			if err != nil {
				return err
			}
			if !yes && !confirm(fmt.Sprintf("Delete %q and its %d page(s)?", book.Title, count)) {
				fmt.Println("Canceled.")
				return nil
			}
			if err := manager.DeleteBook(book.ID); err != nil {
				return err
			}
			ok("Deleted book %d: %s", book.ID, book.Title)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// confirm asks a yes/no question. Without a terminal it refuses, so scripts
// must pass --yes.
func confirm(question string) bool {
	if !isInteractive() {
		warn("Not a terminal; pass --yes to confirm.")
		return false
	}
	fmt.Printf("%s %s ", question, color.New(color.Bold).Sprint("[y/N]"))
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}
