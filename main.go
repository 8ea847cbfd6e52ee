package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/metcalfc/moyu/internal/cli"
	"github.com/metcalfc/moyu/internal/config"
	"github.com/metcalfc/moyu/internal/keys"
	"github.com/metcalfc/moyu/internal/logging"
	"github.com/metcalfc/moyu/internal/reader"
	"github.com/metcalfc/moyu/internal/shelf"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("moyu", flag.ContinueOnError)
	fs.SetOutput(stderr)
	shelfPath := fs.String("shelf", "", "Shelf file (default: $MOYU_SHELF_PATH or the XDG state dir)")
	keyMode := fs.String("keys", "", "Key input: auto, tui, raw or line (default: $MOYU_KEY_MODE or auto)")
	showVersion := fs.Bool("v", false, "Show version information")
	showVersionLong := fs.Bool("version", false, "Show version information")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "moyu - Terminal Plain-Text Book Reader\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  moyu [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nReading keys:\n")
		fmt.Fprintf(stderr, "  n/p      Next/previous page\n")
		fmt.Fprintf(stderr, "  j/k      Next/previous chapter\n")
		fmt.Fprintf(stderr, "  c        Choose a chapter\n")
		fmt.Fprintf(stderr, "  q        Back to the menu\n")
		fmt.Fprintf(stderr, "  ESC      Exit immediately\n")
		fmt.Fprintf(stderr, "\nImport formats: plain text, %v\n", reader.SupportedFormats())
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion || *showVersionLong {
		fmt.Fprintf(stdout, "moyu %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *shelfPath != "" {
		cfg.ShelfPath = *shelfPath
	}
	if *keyMode != "" {
		mode, err := keys.ParseMode(*keyMode)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		cfg.KeyMode = mode
	}

	log, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer log.Sync()

	encodings, err := reader.LookupEncodings(cfg.Encodings)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	store, err := shelf.Open(cfg.ShelfPath,
		shelf.WithLogger(log),
		shelf.WithExtractor(&reader.Extractor{Encodings: encodings}))
	if err != nil {
		if errors.Is(err, shelf.ErrCorruptShelf) {
			fmt.Fprintf(stderr, "Error: %v\nFix or move the file aside to start with an empty shelf.\n", err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}

	app := cli.New(cfg, store, log, stdin, stdout)
	if err := app.Run(); err != nil {
		if errors.Is(err, cli.ErrEscape) {
			log.Info("escape pressed, exiting")
			if keys.IsTerminal(stdin) {
				fmt.Fprint(stdout, "\033[H\033[2J")
			}
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
