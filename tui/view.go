package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/syncwatch-cli/syncwatch/color"
	"github.com/syncwatch-cli/syncwatch/engine"
	"github.com/syncwatch-cli/syncwatch/icon"
	"github.com/syncwatch-cli/syncwatch/style"
	"github.com/syncwatch-cli/syncwatch/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

const footerHeight = 2

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case roomsState:
		output = listExtraPaddingStyle.Render(b.roomsC.View())
	case createState:
		output = b.viewCreate()
	case roomState:
		output = b.viewRoom()
	case catalogState:
		output = listExtraPaddingStyle.Render(b.catalogC.View())
	default:
		output = "Unknown state"
	}

	return lipgloss.JoinVertical(lipgloss.Left, output, b.footer())
}

func (b *statefulBubble) viewCreate() string {
	return b.renderLines(true, []string{
		style.Title("New Room"),
		"",
		b.inputC.View(),
		"",
		style.Faint("The room is joined as soon as the server creates it."),
	})
}

func (b *statefulBubble) viewRoom() string {
	lines := []string{
		style.Title(icon.Get(icon.Room) + " " + b.snap.RoomID),
		"",
		style.Truncate(b.width)(b.nowPlaying()),
		"",
		style.Bold(util.Quantify(len(b.snap.Members), "viewer", "viewers")),
	}

	for _, m := range b.snap.Members {
		line := fmt.Sprintf("%s %s  %s", icon.Get(icon.User), m.Nickname, style.Faint(util.FormatClock(m.Position)))
		if m.Nickname == b.snap.Nickname {
			line = style.Fg(color.Purple)(line)
		}
		lines = append(lines, style.Truncate(b.width)(line))
	}

	return b.renderLines(true, lines)
}

// nowPlaying is the status line: media label, playing or paused, and the position.
func (b *statefulBubble) nowPlaying() string {
	label := b.label(b.snap.MediaRef)
	if label == "" {
		return style.Faint("nothing selected, press c to pick from the catalog")
	}

	ic, tint, state := icon.Pause, color.Paused, "paused"
	if b.snap.Playing {
		ic, tint, state = icon.Play, color.Playing, "playing"
	}

	return fmt.Sprintf("%s %s  %s  %s",
		style.Fg(tint)(icon.Get(ic)),
		label,
		util.FormatClock(b.snap.Position),
		style.Faint(state),
	)
}

func (b *statefulBubble) connection() string {
	switch b.snap.Connection {
	case engine.Connected:
		name := b.snap.Nickname
		if name == "" {
			name = "connected"
		}
		return style.Fg(color.Playing)(icon.Get(icon.Success)) + " " + name
	case engine.Connecting:
		return b.spinnerC.View() + " connecting"
	default:
		return style.Fg(color.Offline)(icon.Get(icon.Fail) + " offline")
	}
}

func (b *statefulBubble) footer() string {
	var lines []string

	if b.snap.Alert != "" {
		lines = append(lines, style.Alert(wrap.String(b.snap.Alert+"  (x to dismiss)", b.width)))
	}

	status := b.connection()
	if n := b.notifier.view(b.width); n != "" {
		status += "  " + n
	}
	lines = append(lines, status)

	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(lines, "\n"))
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if free := b.height - footerHeight; free > h {
			l += strings.Repeat("\n", free-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
