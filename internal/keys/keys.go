// Package keys reads single keypresses for the reading loop.
package keys

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/x/term"
)

const (
	escape    = 0x1b
	interrupt = 0x03
)

// Key is one keypress. Escape is set for the escape key and, in raw mode,
// for ctrl+c.
type Key struct {
	Rune   rune
	Escape bool
}

// Source yields keypresses.
type Source interface {
	ReadKey() (Key, error)
}

// Mode selects how keys are read.
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeTUI  Mode = "tui"
	ModeRaw  Mode = "raw"
	ModeLine Mode = "line"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeTUI, ModeRaw, ModeLine:
		return m, nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("unknown key mode %q (want auto, tui, raw or line)", s)
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(f.Fd())
}

// Effective resolves ModeAuto and downgrades terminal-only modes to
// ModeLine when in is not a terminal.
func Effective(mode Mode, in *os.File) Mode {
	tty := IsTerminal(in)
	switch {
	case mode == ModeAuto && tty:
		return ModeTUI
	case mode == ModeAuto, !tty:
		return ModeLine
	}
	return mode
}

// New returns the Source for mode. buf must wrap in and be shared with any
// other reader of in, so that buffered input is not lost between prompts
// and keypresses.
func New(mode Mode, in *os.File, buf *bufio.Reader) Source {
	if mode == ModeRaw {
		return &Raw{fd: in.Fd(), in: buf}
	}
	return &Line{in: buf}
}

// Raw reads one key with the terminal in raw mode. The terminal is restored
// after every key so line prompts keep working between keys.
type Raw struct {
	fd uintptr
	in *bufio.Reader
}

func (r *Raw) ReadKey() (Key, error) {
	state, err := term.MakeRaw(r.fd)
	if err != nil {
		return Key{}, fmt.Errorf("enter raw mode: %w", err)
	}
	defer term.Restore(r.fd, state)

	ch, _, err := r.in.ReadRune()
	if err != nil {
		return Key{}, err
	}
	if ch == escape || ch == interrupt {
		return Key{Escape: true}, nil
	}
	return Key{Rune: ch}, nil
}

// Line reads a whole line and uses its first character as the key. An
// empty line is a Key with no rune; a line reading "esc" is the escape key.
type Line struct {
	in *bufio.Reader
}

func (l *Line) ReadKey() (Key, error) {
	line, err := l.in.ReadString('\n')
	if err != nil && line == "" {
		return Key{}, err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Key{}, nil
	}
	if strings.EqualFold(line, "esc") {
		return Key{Escape: true}, nil
	}
	ch, _ := utf8.DecodeRuneInString(line)
	if ch == escape {
		return Key{Escape: true}, nil
	}
	return Key{Rune: ch}, nil
}
