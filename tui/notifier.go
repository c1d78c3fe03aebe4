package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wrap"
	"github.com/syncwatch-cli/syncwatch/style"
)

const notificationLifetime = 4 * time.Second

// notifier shows one transient message at a time.
type notifier struct {
	text string
	seq  int
}

// clearNotificationMsg clears the message it was scheduled for, unless a newer one replaced it.
type clearNotificationMsg struct {
	seq int
}

func (n *notifier) show(text string) tea.Cmd {
	n.seq++
	n.text = text

	seq := n.seq
	return tea.Tick(notificationLifetime, func(time.Time) tea.Msg {
		return clearNotificationMsg{seq: seq}
	})
}

func (n *notifier) update(msg tea.Msg) {
	if msg, ok := msg.(clearNotificationMsg); ok && msg.seq == n.seq {
		n.text = ""
	}
}

func (n *notifier) view(width int) string {
	if n.text == "" {
		return ""
	}
	return style.Notice(wrap.String(n.text, width))
}
