package library

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const clearScreen = "\033[2J\033[H"

// Reader pages through a book one stored page at a time from a line-oriented
// input. Commands: [n]ext, [p]revious, [g]oto, [q]uit.
type Reader struct {
	In  io.Reader
	Out io.Writer

	// Width of the header rule; 0 means 79.
	Width int
	// ClearScreen emits ANSI clear sequences between pages.
	ClearScreen bool
}

// ReadBook starts the reading loop for bookID. It returns when the input is
// exhausted or the user quits.
func (lm *LibraryManager) ReadBook(bookID int64, r Reader) error {
	book, err := lm.db.GetBook(bookID)
	if err != nil {
		return err
	}
	pages, err := lm.db.ListPages(bookID)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return invalid("book %q has no pages to read", book.Title)
	}
	return r.run(book, pages)
}

func (r Reader) clear() {
	if r.ClearScreen {
		fmt.Fprint(r.Out, clearScreen)
	}
}

func (r Reader) pause(scanner *bufio.Scanner) {
	fmt.Fprintln(r.Out, "Press Enter to continue...")
	scanner.Scan()
	r.clear()
}

func (r Reader) run(book *Book, pages []*Page) error {
	width := r.Width
	if width <= 0 {
		width = 79
	}
	rule := strings.Repeat("═", width)

	current := 0
	scanner := bufio.NewScanner(r.In)
	r.clear()

	for {
		page := pages[current]
		fmt.Fprintln(r.Out, rule)
		fmt.Fprintf(r.Out, "%s\n", book.Title)
		fmt.Fprintf(r.Out, "%s | %d of %d\n", page.DisplayTitle(), current+1, len(pages))
		fmt.Fprintln(r.Out, rule)
		fmt.Fprintln(r.Out)
		fmt.Fprintln(r.Out, page.Content)
		fmt.Fprintln(r.Out)
		fmt.Fprintln(r.Out, rule)
		fmt.Fprintln(r.Out, "Navigation: [n]ext | [p]revious | [g]oto page | [q]uit")
		fmt.Fprint(r.Out, "> ")

		if !scanner.Scan() {
			break
		}
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		r.clear()

		switch input {
		case "n", "next":
			if current < len(pages)-1 {
				current++
			} else {
				fmt.Fprintln(r.Out, "Already on the last page.")
				r.pause(scanner)
			}
		case "p", "prev", "previous":
			if current > 0 {
				current--
			} else {
				fmt.Fprintln(r.Out, "Already on the first page.")
				r.pause(scanner)
			}
		case "g", "goto":
			fmt.Fprintf(r.Out, "Enter position (1-%d): ", len(pages))
			if !scanner.Scan() {
				return scanner.Err()
			}
			n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
			if err != nil {
				fmt.Fprintln(r.Out, "Invalid position.")
				r.pause(scanner)
				continue
			}
			current = max(0, min(n-1, len(pages)-1))
			r.clear()
		case "q", "quit", "exit":
			fmt.Fprintf(r.Out, "Finished reading %q.\n", book.Title)
			return nil
		case "":
			continue
		default:
			fmt.Fprintf(r.Out, "Unknown command: %s\n", input)
			fmt.Fprintln(r.Out, "Use: [n]ext, [p]revious, [g]oto, or [q]uit")
			r.pause(scanner)
		}
	}
	return scanner.Err()
}
