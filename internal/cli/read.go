package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/metcalfc/moyu/internal/keys"
	"github.com/metcalfc/moyu/internal/reader"
	"github.com/metcalfc/moyu/internal/view"
)

// readLoop draws the page and applies one key at a time until q, escape or
// the end of input.
func (a *App) readLoop(s *reader.Session, src keys.Source) error {
	for {
		if a.clear {
			fmt.Fprint(a.out, clearScreen)
		}
		fmt.Fprint(a.out, view.Page(s))

		key, err := src.ReadKey()
		if err != nil {
			return eofOK(err)
		}
		if key.Escape {
			return ErrEscape
		}

		switch cmd := reader.CommandForKey(key.Rune); cmd {
		case reader.CmdQuit:
			return nil
		case reader.CmdChooseChapter:
			if err := a.chooseChapter(s); err != nil {
				return eofOK(err)
			}
		default:
			if err := s.Apply(cmd); err != nil {
				a.log.Error("save progress", zap.String("book", s.Name), zap.Error(err))
				a.flash("Could not save progress: " + err.Error())
			}
		}
	}
}

func (a *App) chooseChapter(s *reader.Session) error {
	fmt.Fprint(a.out, view.ChapterList(s))
	input, err := a.prompt("Chapter number: ")
	if err != nil {
		return err
	}

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		a.flash("Please enter a valid number!")
		return nil
	}
	if err := s.Jump(n); err != nil {
		if errors.Is(err, reader.ErrInvalidChapter) {
			a.flash("Invalid chapter number!")
			return nil
		}
		a.log.Error("save progress", zap.String("book", s.Name), zap.Error(err))
		a.flash("Could not save progress: " + err.Error())
	}
	return nil
}
