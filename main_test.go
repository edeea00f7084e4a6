package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"book-manager/export"
	"book-manager/library"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer title here", 10, "a longe..."},
		{"ééééééééééé", 8, "ééééé..."},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestReadContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.txt")
	if err := os.WriteFile(path, []byte("from file"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readContent("inline", "", nil, false)
	if err != nil || got != "inline" {
		t.Errorf("inline: %q, %v", got, err)
	}
	got, err = readContent("", path, nil, false)
	if err != nil || got != "from file" {
		t.Errorf("file: %q, %v", got, err)
	}
	if _, err := readContent("a", path, nil, false); err == nil {
		t.Errorf("expected error when both --content and --file are set")
	}
	got, err = readContent("", "", strings.NewReader("piped"), true)
	if err != nil || got != "piped" {
		t.Errorf("stdin: %q, %v", got, err)
	}
	// A terminal on stdin is never read, whatever stdout is.
	if _, err := readContent("", "", strings.NewReader("typed"), false); err == nil {
		t.Errorf("expected error when stdin is a terminal and no content is given")
	}
}

func TestListInBatches(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	lm, err := library.NewLibraryManager(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("NewLibraryManager: %v", err)
	}
	defer lm.Close()

	seed := func(title string, n int) *library.Book {
		sections := make([]library.Section, n)
		for i := range sections {
			sections[i] = library.Section{Content: fmt.Sprintf("content %d", i+1)}
		}
		if n == 0 {
			b, err := lm.AddBook(title, "")
			if err != nil {
				t.Fatalf("AddBook: %v", err)
			}
			return b
		}
		b, _, err := lm.ImportBook(title, "", sections)
		if err != nil {
			t.Fatalf("ImportBook: %v", err)
		}
		return b
	}
	pageRows := func(out string) int {
		n := 0
		for _, line := range strings.Split(out, "\n") {
			if strings.Contains(line, " Page ") {
				n++
			}
		}
		return n
	}

	long := seed("Long", 100)

	tests := []struct {
		name    string
		input   string
		rows    int
		prompts int
	}{
		{"stop after second batch", "\nq\n", 80, 2},
		{"end of input", "", 40, 1},
		{"load everything", "\n\n\n", 100, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			if err := listInBatches(lm, long, strings.NewReader(tt.input), &out); err != nil {
				t.Fatalf("listInBatches: %v", err)
			}
			got := out.String()
			if n := pageRows(got); n != tt.rows {
				t.Errorf("printed %d page rows, want %d", n, tt.rows)
			}
			if n := strings.Count(got, "load more pages"); n != tt.prompts {
				t.Errorf("prompted %d times, want %d", n, tt.prompts)
			}
			if !strings.Contains(got, "40 of 100 shown") {
				t.Errorf("first prompt missing:\n%s", got)
			}
		})
	}

	var out strings.Builder
	if err := listInBatches(lm, seed("Empty", 0), strings.NewReader(""), &out); err != nil {
		t.Fatalf("listInBatches: %v", err)
	}
	if !strings.Contains(out.String(), "has no pages") {
		t.Errorf("empty book output = %q", out.String())
	}
}

func TestNeedsStore(t *testing.T) {
	var configInit, booksList bool
	for _, c := range rootCmd.Commands() {
		for _, sub := range c.Commands() {
			switch c.Name() + " " + sub.Name() {
			case "config init":
				configInit = needsStore(sub)
			case "books list":
				booksList = needsStore(sub)
			}
		}
	}
	if configInit {
		t.Errorf("config init should not open the database")
	}
	if !booksList {
		t.Errorf("books list should open the database")
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		title  string
		format export.Format
		want   string
	}{
		{"The Two Towers", export.FormatYAML, "the_two_towers.yaml"},
		{"  Notes/Drafts ", export.FormatJSON, "notes_drafts.json"},
		{"", export.FormatHTML, "book.html"},
	}
	for _, tt := range tests {
		if got := exportFileName(tt.title, tt.format); got != tt.want {
			t.Errorf("exportFileName(%q, %s) = %q, want %q", tt.title, tt.format, got, tt.want)
		}
	}
}
