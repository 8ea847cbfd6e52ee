package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/moyu/internal/reader"
)

const scenario = "intro\n第一章 开始\nbody1\nbody2\n第二章 继续\nbody3"

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(saved *[]int) model {
	save := func(line int) error {
		*saved = append(*saved, line)
		return nil
	}
	return newModel(reader.NewSession("novel.txt", reader.NewNavigator(scenario, 0), save, nil))
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(model)
		require.True(t, ok)
	}
	return m
}

func TestNavigationKeys(t *testing.T) {
	var saved []int
	m := newTestModel(&saved)

	m = send(t, m, runes("j"), runes("J"), runes("j"), runes("x"), runes("N"), runes("p"))
	assert.Equal(t, 0, m.Cursor)
	assert.Equal(t, []int{1, 4, 6, 0}, saved)
	assert.False(t, m.quitting)
}

func TestQuitAndEscape(t *testing.T) {
	var saved []int

	next, cmd := newTestModel(&saved).Update(runes("q"))
	assert.NotNil(t, cmd)
	assert.Equal(t, Quit, next.(model).outcome)
	assert.True(t, next.(model).quitting)
	assert.Equal(t, "", next.(model).View())

	next, _ = newTestModel(&saved).Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, Escape, next.(model).outcome)

	next, _ = newTestModel(&saved).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, Escape, next.(model).outcome)
	assert.Empty(t, saved)
}

func TestChapterPicker(t *testing.T) {
	var saved []int
	m := newTestModel(&saved)

	m = send(t, m, runes("c"))
	require.True(t, m.picking)
	assert.Contains(t, m.View(), "第二章 继续")

	m = send(t, m, runes("2"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.picking)
	assert.Equal(t, 4, m.Cursor)
	assert.Equal(t, []int{4}, saved)
	assert.Empty(t, m.status)
}

func TestChapterPickerErrors(t *testing.T) {
	var saved []int
	m := newTestModel(&saved)

	m = send(t, m, runes("c"), runes("7"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Invalid chapter number.", m.status)
	assert.Equal(t, 0, m.Cursor)

	m = send(t, m, runes("c"), runes("x"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "Please enter a valid number.", m.status)
	assert.Contains(t, m.View(), "Please enter a valid number.")

	m = send(t, m, runes("c"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.picking)
	assert.False(t, m.quitting)
	assert.Empty(t, saved)
}

func TestWindowSize(t *testing.T) {
	var saved []int
	m := send(t, newTestModel(&saved), tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 34, m.chapters.Height)
}
