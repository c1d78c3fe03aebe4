package engine

import (
	"encoding/json"

	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

// discard logs a protocol fault. Faulty payloads never reach the element.
func discard(event string, err error) {
	log.With(log.Fields{"event": event}).Warnf("engine: discarding payload: %v", err)
}

func (e *Engine) command(kind CommandKind) func(json.RawMessage) {
	return func(data json.RawMessage) {
		pos, err := protocol.DecodePosition(data)
		if err != nil {
			discard(kind.String(), err)
			return
		}
		e.applier.Apply(SyncCommand{Kind: kind, Position: pos})
	}
}

func (e *Engine) onRoomsList(data json.RawMessage) {
	rooms, err := protocol.DecodeRooms(data)
	if err != nil {
		discard(protocol.RoomsList, err)
		return
	}

	e.snapMu.Lock()
	e.snap.Rooms = rooms
	e.snapMu.Unlock()
	e.observer.Rooms(rooms)
}

func (e *Engine) onUsersList(data json.RawMessage) {
	members, err := protocol.DecodeMembers(data)
	if err != nil {
		discard(protocol.UsersList, err)
		return
	}
	if !e.session.InRoom() {
		return
	}

	e.snapMu.Lock()
	e.snap.Members = members
	e.snapMu.Unlock()
	e.observer.Members(members)
}

func (e *Engine) onRoomCreated(data json.RawMessage) {
	roomID, err := protocol.DecodeString(data)
	if err != nil {
		discard(protocol.RoomCreated, err)
		return
	}
	if !e.session.Identified() {
		return
	}

	if e.joinTimer != nil {
		e.joinTimer.Stop()
	}
	e.joinTimer = e.sched.AfterFunc(e.opts.JoinDelay, func() {
		e.joinTimer = nil
		if e.isClosed() || e.session.Connection != Connected {
			return
		}
		e.join(roomID)
	})
}

func (e *Engine) onRoomJoined(data json.RawMessage) {
	var joined protocol.Joined
	if err := json.Unmarshal(data, &joined); err != nil {
		discard(protocol.RoomJoined, err)
		return
	}

	e.session.join(joined.RoomID, joined.MediaRef, joined.Playing)
	e.notice(Notice{Topic: TopicRoom, Level: Info, Text: "joined room " + joined.RoomID})

	// the server's state seeds the element like an inbound load with optional play
	if joined.MediaRef != "" {
		e.applier.Apply(SyncCommand{
			Kind:     CommandLoad,
			MediaRef: joined.MediaRef,
			Position: joined.Position,
			Autoplay: joined.Playing,
		})
	}

	if e.resyncTimer != nil {
		e.resyncTimer.Stop()
	}
	e.resyncTimer = e.sched.AfterFunc(e.opts.ResyncDelay, func() {
		e.resyncTimer = nil
		if e.isClosed() || e.session.Connection != Connected {
			return
		}
		e.send(protocol.GetRooms, nil)
	})
}

func (e *Engine) onLoadMedia(data json.RawMessage) {
	var load protocol.Load
	if err := json.Unmarshal(data, &load); err != nil {
		discard(protocol.LoadMedia, err)
		return
	}
	if !e.session.InRoom() {
		return
	}

	e.session.MediaRef = load.MediaRef
	e.session.Playing = false
	e.applier.Apply(SyncCommand{Kind: CommandLoad, MediaRef: load.MediaRef, Position: load.Position})
}

func (e *Engine) onServerError(data json.RawMessage) {
	text, err := protocol.DecodeString(data)
	if err != nil {
		discard(protocol.Error, err)
		return
	}
	e.notice(Notice{Topic: TopicServer, Level: Transient, Text: text})
}
