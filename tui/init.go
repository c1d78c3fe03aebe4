package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg time.Time

func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.events.wait(), b.tick(), b.spinnerC.Tick, b.loadCatalog(), b.waitForPlayer())
}

func (b *statefulBubble) tick() tea.Cmd {
	return tea.Tick(b.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
