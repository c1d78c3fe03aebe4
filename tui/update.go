package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/syncwatch-cli/syncwatch/catalog"
	"github.com/syncwatch-cli/syncwatch/engine"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	b.notifier.update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case tickMsg:
		b.sync()
		return b, b.tick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case noticeMsg:
		return b, tea.Batch(b.events.wait(), b.onNotice(engine.Notice(msg)))
	case roomsMsg:
		b.sync()
		return b, tea.Batch(b.events.wait(), b.roomsC.SetItems(roomItems(msg, b.snap.RoomID)))
	case membersMsg:
		b.sync()
		return b, b.events.wait()
	case catalogMsg:
		b.rememberLabels(msg)
		return b, b.catalogC.SetItems(catalogItems(msg, b.snap.MediaRef))
	case playerExitMsg:
		return b, tea.Quit
	case catalogErrMsg:
		return b, b.notifier.show("catalog unavailable: " + msg.err.Error())
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		if b.snap.Alert != "" && b.state != createState && !b.filtering() && bubblesKey.Matches(msg, b.keymap.dismiss) {
			b.engine.DismissAlert()
			b.snap.Alert = ""
			return b, nil
		}
	}

	switch b.state {
	case roomsState:
		return b.updateRooms(msg)
	case createState:
		return b.updateCreate(msg)
	case roomState:
		return b.updateRoom(msg)
	case catalogState:
		return b.updateCatalog(msg)
	}

	return b, nil
}

func (b *statefulBubble) filtering() bool {
	switch b.state {
	case roomsState:
		return b.roomsC.FilterState() == list.Filtering
	case catalogState:
		return b.catalogC.FilterState() == list.Filtering
	default:
		return false
	}
}

func (b *statefulBubble) updateRooms(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !b.filtering() {
		switch {
		case bubblesKey.Matches(msg, b.keymap.join):
			if item, ok := b.roomsC.SelectedItem().(*listItem); ok {
				room := item.internal.(protocol.RoomSummary)
				return b, b.report(b.engine.JoinRoom(room.ID))
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.create):
			b.inputC.SetValue("")
			b.setState(createState)
			return b, b.inputC.Focus()
		case bubblesKey.Matches(msg, b.keymap.refresh):
			return b, b.report(b.engine.RefreshRooms())
		}
	}

	b.roomsC, cmd = b.roomsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateCreate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if err := b.engine.CreateRoom(b.inputC.Value()); err != nil {
				return b, b.report(err)
			}
			b.inputC.Blur()
			b.setState(roomsState)
			return b, b.notifier.show("creating room " + b.inputC.Value())
		case bubblesKey.Matches(msg, b.keymap.back):
			b.inputC.Blur()
			b.setState(roomsState)
			return b, nil
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateRoom(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.browse):
		if b.catalog == nil {
			return b, b.notifier.show("no catalog configured")
		}
		b.setState(catalogState)
		if len(b.catalogC.Items()) == 0 {
			return b, b.loadCatalog()
		}
	case bubblesKey.Matches(keyMsg, b.keymap.leave):
		if err := b.engine.LeaveRoom(); err != nil {
			return b, b.report(err)
		}
		b.setState(roomsState)
	case bubblesKey.Matches(keyMsg, b.keymap.refresh):
		return b, b.report(b.engine.RefreshRooms())
	case bubblesKey.Matches(keyMsg, b.keymap.quit):
		return b, tea.Quit
	}

	return b, nil
}

func (b *statefulBubble) updateCatalog(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && !b.filtering() {
		switch {
		case bubblesKey.Matches(msg, b.keymap.choose):
			if item, ok := b.catalogC.SelectedItem().(*listItem); ok {
				entry := item.internal.(catalog.Item)
				if err := b.engine.SelectMedia(entry.ID); err != nil {
					return b, b.report(err)
				}
				b.setState(roomState)
				return b, b.notifier.show("switching to " + entry.Label())
			}
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.refresh):
			return b, b.loadCatalog()
		case bubblesKey.Matches(msg, b.keymap.back) && b.catalogC.FilterState() == list.Unfiltered:
			b.setState(roomState)
			return b, nil
		}
	}

	b.catalogC, cmd = b.catalogC.Update(msg)
	return b, cmd
}
