package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"book-manager/config"
	"book-manager/library"
	"book-manager/tui"
)

var (
	cfg     *config.Config
	manager *library.LibraryManager
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile *os.File

	flagConfig        string
	flagNoColor       bool
	flagNoInteractive bool
)

var rootCmd = &cobra.Command{
	Use:   "bookmgr",
	Short: "Keep notes on the books you read, one page at a time",
	Long: `bookmgr manages a personal collection of books and their pages,
stored in a local SQLite database.

Run 'bookmgr' with no arguments in a terminal to open the interactive view.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !shouldUseTUI() {
			return cmd.Help()
		}
		return tui.Run(manager, logger)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/bookmgr/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Never start the interactive view or prompt")

	rootCmd.PersistentPreRunE = setup
	cobra.OnFinalize(teardown)

	rootCmd.AddCommand(
		newBooksCmd(),
		newPagesCmd(),
		newImportCmd(),
		newExportCmd(),
		newReadCmd(),
		newConfigCmd(),
	)
}

// setup loads config, configures output and logging, and opens the store
// for every command that needs it.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	initColor(flagNoColor || cfg.UI.NoColor)

	// The interactive view owns the terminal, so it never logs to stderr.
	tuiMode := cmd == rootCmd && shouldUseTUI()
	l, err := newLogger(cfg.Log, tuiMode)
	if err != nil {
		return err
	}
	logger = l

	if !needsStore(cmd) {
		return nil
	}
	manager, err = library.NewLibraryManager(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
	}
	return nil
}

func teardown() {
	if manager != nil {
		if err := manager.Close(); err != nil {
			logger.Warn("closing database", "error", err)
		}
		manager = nil
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func newLogger(lc config.LogConfig, tuiMode bool) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}

	var w io.Writer = os.Stderr
	switch {
	case lc.File != "":
		logFile, err = os.OpenFile(lc.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = logFile
	case tuiMode:
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// needsStore reports whether cmd works on the database. The config
// commands run without one so a broken database path can still be fixed.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" && c.Parent() == rootCmd {
			return false
		}
	}
	return true
}

// isTTY reports whether stdout is a terminal.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// stdinPiped reports whether stdin is redirected from a file or pipe.
func stdinPiped() bool {
	return !term.IsTerminal(int(os.Stdin.Fd()))
}

// isInteractive reports whether prompts can be shown.
func isInteractive() bool {
	return !flagNoInteractive && isTTY() && term.IsTerminal(int(os.Stdin.Fd()))
}

func shouldUseTUI() bool {
	return isInteractive()
}

func initColor(noColor bool) {
	if noColor || !isTTY() {
		color.NoColor = true
	}
}

// termWidth returns the terminal width, or 0 when it is unknown.
func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}

func truncateString(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	return string(r[:maxLength-3]) + "..."
}
