package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/syncwatch-cli/syncwatch/catalog"
	"github.com/syncwatch-cli/syncwatch/engine"
	"github.com/syncwatch-cli/syncwatch/log"
)

const catalogTimeout = 15 * time.Second

type (
	catalogMsg    []catalog.Item
	catalogErrMsg struct{ err error }
	playerExitMsg struct{}
)

func (b *statefulBubble) waitForPlayer() tea.Cmd {
	if b.exited == nil {
		return nil
	}

	exited := b.exited
	return func() tea.Msg {
		<-exited
		log.Info("tui: player closed, ending session")
		return playerExitMsg{}
	}
}

func (b *statefulBubble) loadCatalog() tea.Cmd {
	if b.catalog == nil {
		return nil
	}

	c := b.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		items, err := c.List(ctx)
		if err != nil {
			log.Warnf("tui: loading catalog: %v", err)
			return catalogErrMsg{err: err}
		}
		return catalogMsg(items)
	}
}

// report turns a failed engine call into a notification.
func (b *statefulBubble) report(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return b.notifier.show(describe(err))
}

func describe(err error) string {
	switch {
	case errors.Is(err, engine.ErrInvalidRoomName):
		return "room name must be 2 to 50 characters"
	case errors.Is(err, engine.ErrNotInRoom):
		return "join a room first"
	case errors.Is(err, engine.ErrClosed):
		return "session closed"
	default:
		return err.Error()
	}
}

// sync reads the engine snapshot and follows membership changes.
func (b *statefulBubble) sync() {
	b.snap = b.engine.Snapshot()

	switch {
	case b.snap.InRoom() && (b.state == roomsState || b.state == createState):
		b.inputC.Blur()
		b.setState(roomState)
	case !b.snap.InRoom() && (b.state == roomState || b.state == catalogState):
		b.setState(roomsState)
	}
}

func (b *statefulBubble) onNotice(n engine.Notice) tea.Cmd {
	b.sync()

	switch n.Level {
	case engine.Info, engine.Transient:
		return b.notifier.show(n.Text)
	default:
		// persistent notices are rendered from the snapshot until dismissed
		return nil
	}
}
