package reader

import (
	"unicode"

	"go.uber.org/zap"
)

// Command is a reading-session action bound to a key.
type Command int

const (
	CmdNone Command = iota
	CmdNextPage
	CmdPrevPage
	CmdNextChapter
	CmdPrevChapter
	CmdChooseChapter
	CmdQuit
)

// CommandForKey maps a pressed key, case-insensitively, to its command.
func CommandForKey(r rune) Command {
	switch unicode.ToLower(r) {
	case 'n':
		return CmdNextPage
	case 'p':
		return CmdPrevPage
	case 'j':
		return CmdNextChapter
	case 'k':
		return CmdPrevChapter
	case 'c':
		return CmdChooseChapter
	case 'q':
		return CmdQuit
	}
	return CmdNone
}

// SaveFunc persists the cursor of the open book.
type SaveFunc func(line int) error

// Session is an open book: a Navigator plus the callback that records
// progress after every move.
type Session struct {
	*Navigator
	Name string

	save SaveFunc
	log  *zap.Logger
}

// NewSession wraps nav for the book called name.
func NewSession(name string, nav *Navigator, save SaveFunc, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		Navigator: nav,
		Name:      name,
		save:      save,
		log:       log.With(zap.String("book", name)),
	}
}

// Apply runs a movement command. Page moves always save; chapter moves save
// only when the cursor changed. Other commands are left to the caller.
func (s *Session) Apply(cmd Command) error {
	switch cmd {
	case CmdNextPage:
		s.NextPage()
	case CmdPrevPage:
		s.PrevPage()
	case CmdNextChapter:
		if !s.NextChapter() {
			return nil
		}
	case CmdPrevChapter:
		if !s.PrevChapter() {
			return nil
		}
	default:
		return nil
	}
	return s.persist()
}

// Jump moves to the 1-based chapter number and saves.
func (s *Session) Jump(number int) error {
	if err := s.JumpToChapter(number); err != nil {
		return err
	}
	return s.persist()
}

func (s *Session) persist() error {
	s.log.Debug("progress", zap.Int("line", s.Cursor))
	if s.save == nil {
		return nil
	}
	return s.save(s.Cursor)
}
