package reader

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

const scenario = "intro\n第一章 开始\nbody1\nbody2\n第二章 继续\nbody3"

func numbered(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	return strings.Join(lines, "\n")
}

func TestDetectChapters(t *testing.T) {
	lines := SplitLines(scenario)
	got := DetectChapters(lines, DefaultMarkers)
	want := []Chapter{
		{Line: 1, Title: "第一章 开始"},
		{Line: 4, Title: "第二章 继续"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DetectChapters() = %v, want %v", got, want)
	}

	again := DetectChapters(lines, DefaultMarkers)
	if !reflect.DeepEqual(got, again) {
		t.Errorf("DetectChapters is not deterministic: %v != %v", got, again)
	}
}

func TestDetectChaptersTrimsAndIgnoresOrder(t *testing.T) {
	lines := []string{"　　第十章　归来　", "章节第", "第", "章"}
	got := DetectChapters(lines, DefaultMarkers)
	want := []Chapter{
		{Line: 0, Title: "第十章　归来"},
		{Line: 1, Title: "章节第"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectChapters() = %v, want %v", got, want)
	}
}

func TestDetectChaptersCustomMarkers(t *testing.T) {
	lines := []string{"Preface", "CHAPTER I.", "text", "CHAPTER II."}
	got := DetectChapters(lines, []string{"CHAPTER"})
	if len(got) != 2 || got[0].Line != 1 || got[1].Line != 3 {
		t.Errorf("DetectChapters() = %v", got)
	}
	if got := DetectChapters(lines, nil); got != nil {
		t.Errorf("empty marker set should detect nothing, got %v", got)
	}
}

func TestChapterScenario(t *testing.T) {
	n := NewNavigator(scenario, 0)
	if len(n.Lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(n.Lines))
	}

	steps := []struct {
		name   string
		move   func() bool
		moved  bool
		cursor int
	}{
		{"next from intro", n.NextChapter, true, 1},
		{"next to second", n.NextChapter, true, 4},
		{"next at last chapter", n.NextChapter, false, 4},
		{"prev from second heading", n.PrevChapter, false, 4},
	}
	for _, step := range steps {
		moved := step.move()
		if moved != step.moved || n.Cursor != step.cursor {
			t.Errorf("%s: moved=%v cursor=%d, want moved=%v cursor=%d",
				step.name, moved, n.Cursor, step.moved, step.cursor)
		}
	}
}

func TestPrevChapterFromInsideChapter(t *testing.T) {
	n := NewNavigator(scenario, 5)
	if !n.PrevChapter() {
		t.Fatal("expected PrevChapter to move")
	}
	if n.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", n.Cursor)
	}
	if n.PrevChapter() {
		t.Errorf("PrevChapter at first heading should be a no-op, cursor=%d", n.Cursor)
	}
}

func TestChapterMovesWithoutChapters(t *testing.T) {
	n := NewNavigator(numbered(30), 12)
	if n.NextChapter() || n.PrevChapter() {
		t.Error("chapter moves should be no-ops without chapters")
	}
	if n.Cursor != 12 {
		t.Errorf("cursor = %d, want 12", n.Cursor)
	}
}

func TestPage(t *testing.T) {
	n := NewNavigator(numbered(25), 0)
	for c := 0; c <= len(n.Lines); c++ {
		n.Cursor = c
		want := len(n.Lines) - c
		if want > 10 {
			want = 10
		}
		page := n.Page()
		if len(page) != want {
			t.Fatalf("Page() at %d has %d lines, want %d", c, len(page), want)
		}
		if want > 0 && page[0] != fmt.Sprintf("line %d", c) {
			t.Errorf("Page() at %d starts with %q", c, page[0])
		}
	}
}

func TestPaging(t *testing.T) {
	tests := []struct {
		name  string
		lines int
		start int
		next  bool
		want  int
	}{
		{"next page", 25, 0, true, 10},
		{"next page clamps at end", 25, 20, true, 25},
		{"next page at end", 25, 25, true, 25},
		{"prev page", 25, 15, false, 5},
		{"prev page clamps at start", 25, 4, false, 0},
		{"single line book", 1, 0, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNavigator(numbered(tt.lines), tt.start)
			if tt.next {
				n.NextPage()
			} else {
				n.PrevPage()
			}
			if n.Cursor != tt.want {
				t.Errorf("cursor = %d, want %d", n.Cursor, tt.want)
			}
		})
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	n := NewNavigator(scenario+"\n"+numbered(17), 0)
	moves := []func(){
		n.NextPage, n.NextPage, n.NextPage, n.NextPage,
		func() { n.NextChapter() }, n.PrevPage, n.PrevPage, n.PrevPage,
		func() { n.PrevChapter() }, n.PrevPage, n.NextPage,
	}
	for i, move := range moves {
		move()
		if n.Cursor < 0 || n.Cursor > len(n.Lines) {
			t.Fatalf("move %d left cursor at %d (lines %d)", i, n.Cursor, len(n.Lines))
		}
	}
}

func TestNewNavigatorClampsProgress(t *testing.T) {
	if n := NewNavigator(scenario, 99); n.Cursor != 6 {
		t.Errorf("cursor = %d, want 6", n.Cursor)
	}
	if n := NewNavigator(scenario, -3); n.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", n.Cursor)
	}
}

func TestJumpToChapter(t *testing.T) {
	n := NewNavigator(scenario, 2)
	if err := n.JumpToChapter(2); err != nil {
		t.Fatalf("JumpToChapter(2): %v", err)
	}
	if n.Cursor != 4 {
		t.Errorf("cursor = %d, want 4", n.Cursor)
	}

	for _, bad := range []int{0, -1, 3} {
		if err := n.JumpToChapter(bad); err != ErrInvalidChapter {
			t.Errorf("JumpToChapter(%d) error = %v, want ErrInvalidChapter", bad, err)
		}
		if n.Cursor != 4 {
			t.Errorf("JumpToChapter(%d) moved cursor to %d", bad, n.Cursor)
		}
	}
}

func TestCurrentChapterTitle(t *testing.T) {
	n := NewNavigator(scenario, 0)
	if got := n.CurrentChapterTitle(); got != "" {
		t.Errorf("title before first heading = %q", got)
	}
	n.Cursor = 3
	if got := n.CurrentChapterTitle(); got != "第一章 开始" {
		t.Errorf("title = %q", got)
	}
}

func TestWithOptions(t *testing.T) {
	n := NewNavigator("a\nCH 1\nb\nCH 2", 0, WithMarkers([]string{"CH"}), WithPageSize(3))
	if n.PageSize != 3 {
		t.Errorf("PageSize = %d, want 3", n.PageSize)
	}
	if len(n.Chapters) != 2 {
		t.Errorf("chapters = %v", n.Chapters)
	}
	n.NextPage()
	if n.Cursor != 3 {
		t.Errorf("cursor = %d, want 3", n.Cursor)
	}
}

func TestCountLines(t *testing.T) {
	tests := map[string]int{
		"":         1,
		"one":      1,
		"one\n":    2,
		scenario:   6,
		"a\n\nb\n": 4,
	}
	for text, want := range tests {
		if got := CountLines(text); got != want {
			t.Errorf("CountLines(%q) = %d, want %d", text, got, want)
		}
		if got := len(SplitLines(text)); got != want {
			t.Errorf("len(SplitLines(%q)) = %d, want %d", text, got, want)
		}
	}
}
