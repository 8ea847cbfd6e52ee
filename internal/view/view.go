// Package view renders the menu, the shelf listing and the reading page.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/metcalfc/moyu/internal/reader"
	"github.com/metcalfc/moyu/internal/shelf"
)

const ruleWidth = 50

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00FF00"))
)

// Rule returns a horizontal separator made of ch.
func Rule(ch string) string {
	return ruleStyle.Render(strings.Repeat(ch, ruleWidth))
}

// Error formats a user-facing error message.
func Error(msg string) string {
	return errorStyle.Render(msg)
}

// OK formats a success message.
func OK(msg string) string {
	return okStyle.Render(msg)
}

// Menu returns the main menu.
func Menu() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("=== moyu reader ==="))
	sb.WriteString("\n1. Import a book\n2. Show shelf\n3. Read a book\n4. Quit\n")
	return sb.String()
}

// Shelf lists the books with their progress and last-read time.
func Shelf(entries []shelf.Entry) string {
	if len(entries) == 0 {
		return "The shelf is empty.\n"
	}

	var sb strings.Builder
	sb.WriteString("\n" + Rule("=") + "\n")
	sb.WriteString(titleStyle.Render("My shelf") + "\n")
	sb.WriteString(Rule("=") + "\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, e.Name)
		sb.WriteString(statusStyle.Render(fmt.Sprintf("   Progress: %d/%d", e.Progress, e.TotalLines)) + "\n")
		sb.WriteString(statusStyle.Render(fmt.Sprintf("   Last read: %s", e.LastRead)) + "\n")
		sb.WriteString(Rule("-") + "\n")
	}
	return sb.String()
}

// Header returns the reading header: title, progress, chapter and key help.
func Header(s *reader.Session) string {
	current, total := s.Progress()

	var sb strings.Builder
	sb.WriteString(Rule("=") + "\n")
	sb.WriteString(titleStyle.Render("Reading: "+s.Name) + "\n")

	status := fmt.Sprintf("Progress: %d/%d (%s)", current, total, percent(current, total))
	if title := s.CurrentChapterTitle(); title != "" {
		status += " | " + title
	}
	sb.WriteString(statusStyle.Render(status) + "\n")

	sb.WriteString(Rule("=") + "\n")
	sb.WriteString(controlsStyle.Render("n: next page  p: prev page") + "\n")
	sb.WriteString(controlsStyle.Render("j: next chapter  k: prev chapter") + "\n")
	sb.WriteString(controlsStyle.Render("c: choose chapter  q: back to menu  esc: exit") + "\n")
	sb.WriteString(Rule("=") + "\n")
	return sb.String()
}

// Page returns the header followed by the lines of the current page.
func Page(s *reader.Session) string {
	var sb strings.Builder
	sb.WriteString(Header(s))
	sb.WriteString("\n")
	for _, line := range s.Page() {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if s.AtEnd() {
		sb.WriteString(statusStyle.Render("-- end of book --") + "\n")
	}
	return sb.String()
}

// Chapters lists the chapters numbered from 1, marking the current one.
func Chapters(chapters []reader.Chapter, current int) string {
	if len(chapters) == 0 {
		return "No chapters found.\n"
	}
	var sb strings.Builder
	for i, ch := range chapters {
		line := fmt.Sprintf("%d. %s", i+1, ch.Title)
		if i == current {
			line = titleStyle.Render(line)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// ChapterList is the framed chapter list printed before the chapter prompt.
func ChapterList(s *reader.Session) string {
	var sb strings.Builder
	sb.WriteString("\n" + Rule("=") + "\n")
	sb.WriteString(titleStyle.Render("Chapters") + "\n")
	sb.WriteString(Rule("=") + "\n")
	sb.WriteString(Chapters(s.Chapters, s.CurrentChapter()))
	sb.WriteString(Rule("-") + "\n")
	return sb.String()
}

func percent(current, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(current)*100/float64(total))
}
