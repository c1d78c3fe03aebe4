package engine

import (
	"fmt"

	"github.com/syncwatch-cli/syncwatch/channel"
	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

func (e *Engine) onLifecycle(state channel.Lifecycle, err error) {
	log.With(log.Fields{"state": state.String(), "room": e.session.RoomID}).Info("engine: connection transition")

	switch state {
	case channel.Connected, channel.Reconnected:
		e.session.Connection = Connected
		e.attempts = 0
		e.maxNotified = false
		e.notice(Notice{Topic: TopicConnection, Level: Cleared})

		// membership never survives a drop; ask the server for the current state
		if e.session.Identified() {
			e.send(protocol.GetRooms, nil)
		}

	case channel.Disconnected:
		e.session.Connection = Disconnected
		e.clearRoom()
		text := "connection lost, reconnecting"
		if err != nil {
			text = fmt.Sprintf("connection lost (%v), reconnecting", err)
		}
		e.notice(Notice{Topic: TopicConnection, Level: Transient, Text: text})

	case channel.ConnectFailed:
		e.session.Connection = Connecting
		e.attempts++

		if e.attempts < e.opts.MaxAttempts {
			e.notice(Notice{
				Topic: TopicConnection,
				Level: Transient,
				Text:  fmt.Sprintf("reconnecting (%d/%d)", e.attempts, e.opts.MaxAttempts),
			})
			return
		}

		if !e.maxNotified {
			e.maxNotified = true
			e.notice(Notice{
				Topic: TopicConnection,
				Level: Persistent,
				Text:  fmt.Sprintf("cannot reach the server after %d attempts, still retrying in the background", e.attempts),
			})
		}
	}
}
