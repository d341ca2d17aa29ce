package listview

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderInt(item int, selected bool) string {
	if selected {
		return fmt.Sprintf("> %d", item)
	}
	return fmt.Sprintf("  %d", item)
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	case "pgdown":
		return tea.KeyMsg{Type: tea.KeyPgDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestNavigation(t *testing.T) {
	m := NewVirtualListModel(seq(30), 10, 80, renderInt)

	m.Update(key("down"))
	m.Update(key("j"))
	assert.Equal(t, 2, m.Selected())

	m.Update(key("k"))
	assert.Equal(t, 1, m.Selected())

	m.Update(key("pgdown"))
	assert.Equal(t, 11, m.Selected())

	m.Update(key("end"))
	assert.Equal(t, 29, m.Selected())
	assert.True(t, m.AtEnd())

	m.Update(key("down"))
	assert.Equal(t, 29, m.Selected(), "selection stays on the last item")

	m.Update(key("home"))
	assert.Equal(t, 0, m.Selected())
	m.Update(key("up"))
	assert.Equal(t, 0, m.Selected())
}

func TestSetItems_KeepsSelection(t *testing.T) {
	m := NewVirtualListModel(seq(10), 5, 80, renderInt)
	m.SetSelected(9)
	require.True(t, m.AtEnd())

	m.SetItems(seq(20))
	assert.Equal(t, 9, m.Selected())
	assert.False(t, m.AtEnd())

	m.SetItems(seq(3))
	assert.Equal(t, 2, m.Selected(), "selection is clamped when the list shrinks")
}

func TestEmptyList(t *testing.T) {
	m := NewVirtualListModel[int](nil, 5, 80, renderInt)

	assert.True(t, m.AtEnd())
	assert.Nil(t, m.GetSelectedItem())
	assert.Empty(t, m.View())
	m.Update(key("down"))
	assert.Equal(t, 0, m.Selected())
}

func TestView_RendersViewportWithBuffer(t *testing.T) {
	m := NewVirtualListModel(seq(100), 10, 80, renderInt)
	m.SetSelected(50)

	lines := strings.Split(m.View(), "\n")
	assert.Len(t, lines, 10+2*defaultBufferSize)
	assert.Contains(t, m.View(), "> 50")
	assert.LessOrEqual(t, m.VisibleFrom(), 50)
	assert.Greater(t, m.VisibleTo(), 50)
}

func TestSetSize(t *testing.T) {
	m := NewVirtualListModel(seq(100), 10, 80, renderInt)
	m.SetSize(120, 4)
	assert.Equal(t, 120, m.Width())
	assert.Equal(t, 4, m.Height())
	assert.Equal(t, 4, m.VisibleTo()-m.VisibleFrom())
}
