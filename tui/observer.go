package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/syncwatch-cli/syncwatch/engine"
	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

type (
	noticeMsg  engine.Notice
	roomsMsg   []protocol.RoomSummary
	membersMsg []protocol.Member
)

// Observer forwards engine notifications to the interface without ever blocking the engine.
// Anything dropped here is recovered from the next snapshot.
type Observer struct {
	events chan tea.Msg
}

// NewObserver returns an observer with room for a burst of notifications.
func NewObserver() *Observer {
	return &Observer{events: make(chan tea.Msg, 64)}
}

func (o *Observer) Notice(n engine.Notice)             { o.push(noticeMsg(n)) }
func (o *Observer) Rooms(rooms []protocol.RoomSummary) { o.push(roomsMsg(rooms)) }
func (o *Observer) Members(members []protocol.Member)  { o.push(membersMsg(members)) }

func (o *Observer) push(msg tea.Msg) {
	select {
	case o.events <- msg:
	default:
		log.Debugf("tui: dropping %T, interface is behind", msg)
	}
}

func (o *Observer) wait() tea.Cmd {
	return func() tea.Msg {
		return <-o.events
	}
}
