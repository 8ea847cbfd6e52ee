// Package cli runs the numbered menu and the plain reading loop.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/metcalfc/moyu/internal/config"
	"github.com/metcalfc/moyu/internal/keys"
	"github.com/metcalfc/moyu/internal/reader"
	"github.com/metcalfc/moyu/internal/shelf"
	"github.com/metcalfc/moyu/internal/tui"
	"github.com/metcalfc/moyu/internal/view"
)

// ErrEscape is returned by Run when the reader pressed escape. The caller
// should exit at once without saving anything else.
var ErrEscape = errors.New("escape pressed")

const clearScreen = "\033[H\033[2J"

// App is one interactive run of the reader.
type App struct {
	cfg   *config.Config
	store *shelf.Store
	log   *zap.Logger

	stdin *os.File
	in    *bufio.Reader
	out   io.Writer
	mode  keys.Mode

	// clear is set when out is a terminal.
	clear bool
	// pause keeps an error visible before the page is redrawn.
	pause time.Duration
}

// New creates an App reading from stdin and writing to out.
func New(cfg *config.Config, store *shelf.Store, log *zap.Logger, stdin *os.File, out io.Writer) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		cfg:   cfg,
		store: store,
		log:   log,
		stdin: stdin,
		in:    bufio.NewReader(stdin),
		out:   out,
		mode:  keys.Effective(cfg.KeyMode, stdin),
	}
	if f, ok := out.(*os.File); ok && keys.IsTerminal(f) {
		a.clear = true
		a.pause = time.Second
	}
	return a
}

// Run shows the menu until the user quits, input ends, or escape is pressed.
func (a *App) Run() error {
	a.log.Info("menu started", zap.String("key_mode", string(a.mode)))
	for {
		fmt.Fprint(a.out, view.Menu())
		choice, err := a.prompt("Choose an option: ")
		if err != nil {
			return eofOK(err)
		}

		switch strings.TrimSpace(choice) {
		case "1":
			path, err := a.prompt("Path to a text file: ")
			if err != nil {
				return eofOK(err)
			}
			a.importBook(path)
		case "2":
			fmt.Fprint(a.out, view.Shelf(a.store.List()))
		case "3":
			fmt.Fprint(a.out, view.Shelf(a.store.List()))
			id, err := a.prompt("Book number or name: ")
			if err != nil {
				return eofOK(err)
			}
			if err := a.read(id); err != nil {
				return err
			}
		case "4":
			fmt.Fprintln(a.out, "Thanks for reading!")
			return nil
		default:
			fmt.Fprintln(a.out, view.Error("Invalid choice!"))
		}
	}
}

func (a *App) importBook(path string) {
	name, err := a.store.Import(path)
	switch {
	case errors.Is(err, shelf.ErrFileNotFound):
		fmt.Fprintln(a.out, view.Error("File not found: "+shelf.NormalizePath(path)))
	case errors.Is(err, reader.ErrUnknownEncoding):
		fmt.Fprintln(a.out, view.Error("Unable to detect the file's text encoding!"))
	case err != nil:
		fmt.Fprintln(a.out, view.Error("Import failed: "+err.Error()))
	default:
		fmt.Fprintln(a.out, view.OK(fmt.Sprintf("Imported %s", name)))
	}
}

// read resolves id and runs a reading session. Only ErrEscape and terminal
// failures are returned; user errors are printed.
func (a *App) read(id string) error {
	name, err := a.store.Resolve(id)
	switch {
	case errors.Is(err, shelf.ErrInvalidIndex):
		fmt.Fprintln(a.out, view.Error("Invalid book number!"))
		return nil
	case errors.Is(err, shelf.ErrNotFound):
		fmt.Fprintln(a.out, view.Error("That book is not on the shelf!"))
		return nil
	case err != nil:
		fmt.Fprintln(a.out, view.Error("Invalid input!"))
		return nil
	}

	session := a.open(name)
	a.log.Info("reading", zap.String("book", name), zap.Int("line", session.Cursor))

	if a.mode == keys.ModeTUI {
		outcome, err := tui.Run(session, tea.WithInput(a.stdin), tea.WithOutput(a.out))
		if err != nil {
			return fmt.Errorf("reading view: %w", err)
		}
		if outcome == tui.Escape {
			return ErrEscape
		}
		return nil
	}
	return a.readLoop(session, keys.New(a.mode, a.stdin, a.in))
}

func (a *App) open(name string) *reader.Session {
	book, _ := a.store.Book(name)
	nav := reader.NewNavigator(book.Content, book.Progress,
		reader.WithMarkers(a.cfg.ChapterMarkers),
		reader.WithPageSize(a.cfg.PageSize))
	save := func(line int) error {
		return a.store.SetProgress(name, line)
	}
	return reader.NewSession(name, nav, save, a.log)
}

func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (a *App) flash(msg string) {
	fmt.Fprintln(a.out, view.Error(msg))
	time.Sleep(a.pause)
}

func eofOK(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
