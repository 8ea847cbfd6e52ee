// Package reader provides the line-oriented book model: chapter detection,
// the page window and the navigation commands of a reading session.
package reader

import (
	"errors"
	"strings"
)

// DefaultPageSize is the number of lines shown per page.
const DefaultPageSize = 10

// ErrInvalidChapter is returned when a chapter number is outside 1..len(Chapters).
var ErrInvalidChapter = errors.New("invalid chapter number")

// Navigator holds the state of one open book.
type Navigator struct {
	Lines    []string
	Chapters []Chapter
	Cursor   int
	PageSize int
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithMarkers sets the substrings a line must contain to count as a chapter heading.
func WithMarkers(markers []string) Option {
	return func(n *Navigator) {
		n.Chapters = DetectChapters(n.Lines, markers)
	}
}

// WithPageSize overrides DefaultPageSize. Non-positive sizes are ignored.
func WithPageSize(size int) Option {
	return func(n *Navigator) {
		if size > 0 {
			n.PageSize = size
		}
	}
}

// NewNavigator splits text into lines, detects chapters and places the
// cursor at progress, clamped to the book.
func NewNavigator(text string, progress int, opts ...Option) *Navigator {
	lines := SplitLines(text)
	n := &Navigator{
		Lines:    lines,
		Chapters: DetectChapters(lines, DefaultMarkers),
		PageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(n)
	}
	n.Cursor = n.clamp(progress)
	return n
}

// SplitLines splits text on newline. An empty text is a single empty line.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// CountLines returns the number of newline-separated segments in text.
func CountLines(text string) int {
	return strings.Count(text, "\n") + 1
}

func (n *Navigator) clamp(line int) int {
	if line < 0 {
		return 0
	}
	if line > len(n.Lines) {
		return len(n.Lines)
	}
	return line
}

// Page returns the lines of the window starting at the cursor.
func (n *Navigator) Page() []string {
	end := n.Cursor + n.PageSize
	if end > len(n.Lines) {
		end = len(n.Lines)
	}
	if n.Cursor >= end {
		return nil
	}
	return n.Lines[n.Cursor:end]
}

// NextPage advances the cursor by one page, stopping at the end of the book.
func (n *Navigator) NextPage() {
	n.Cursor = n.clamp(n.Cursor + n.PageSize)
}

// PrevPage moves the cursor back by one page, stopping at the first line.
func (n *Navigator) PrevPage() {
	n.Cursor = n.clamp(n.Cursor - n.PageSize)
}

// NextChapter jumps to the chapter after the one containing the cursor.
// The current chapter is the last one starting at or before the cursor.
// It reports whether the cursor moved.
func (n *Navigator) NextChapter() bool {
	current := -1
	for i, ch := range n.Chapters {
		if ch.Line > n.Cursor {
			break
		}
		current = i
	}
	if current >= len(n.Chapters)-1 {
		return false
	}
	n.Cursor = n.Chapters[current+1].Line
	return true
}

// PrevChapter jumps to the chapter before the current one. Unlike
// NextChapter, the current chapter is the last one starting strictly before
// the cursor, so a cursor sitting on a heading counts as inside the
// previous chapter. It reports whether the cursor moved.
func (n *Navigator) PrevChapter() bool {
	current := -1
	for i, ch := range n.Chapters {
		if ch.Line >= n.Cursor {
			break
		}
		current = i
	}
	if current <= 0 {
		return false
	}
	n.Cursor = n.Chapters[current-1].Line
	return true
}

// JumpToChapter moves the cursor to the heading of the 1-based chapter number.
func (n *Navigator) JumpToChapter(number int) error {
	if number < 1 || number > len(n.Chapters) {
		return ErrInvalidChapter
	}
	n.Cursor = n.Chapters[number-1].Line
	return nil
}

// CurrentChapter returns the index of the last chapter starting at or before
// the cursor, or -1 when the cursor is before the first heading.
func (n *Navigator) CurrentChapter() int {
	current := -1
	for i, ch := range n.Chapters {
		if ch.Line > n.Cursor {
			break
		}
		current = i
	}
	return current
}

// CurrentChapterTitle returns the title of the current chapter.
func (n *Navigator) CurrentChapterTitle() string {
	if i := n.CurrentChapter(); i >= 0 {
		return n.Chapters[i].Title
	}
	return ""
}

// Progress returns the cursor and the total line count.
func (n *Navigator) Progress() (current, total int) {
	return n.Cursor, len(n.Lines)
}

// AtEnd reports whether the cursor is past the last line.
func (n *Navigator) AtEnd() bool {
	return n.Cursor >= len(n.Lines)
}
