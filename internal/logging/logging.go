package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"golang.org/x/term"
)

// Setup initializes the global slog logger using charmbracelet/log as the backend.
// If the output is a terminal, uses colored text format. Otherwise, uses JSON format.
// When logFile is set, records are also appended to that file and the returned
// closer must be called before exit.
func Setup(verbose bool, logFile string) (io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)

	tty := isTerminal()
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
		closer = f
		// Escape codes would end up in the file.
		tty = false
	}

	slog.SetDefault(New(out, verbose, tty))
	return closer, nil
}

// New builds a logger writing to w. Components take a *slog.Logger so tests
// can capture output without touching the global default.
func New(w io.Writer, verbose, tty bool) *slog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
	})

	if verbose {
		handler.SetLevel(charmlog.DebugLevel)
	} else {
		handler.SetLevel(charmlog.InfoLevel)
	}

	// Use plain format for non-TTY output
	if !tty {
		handler.SetFormatter(charmlog.JSONFormatter)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
