package engine

import (
	"math"

	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/media"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

// Emitter publishes local playback changes to the room.
type Emitter struct {
	session   *Session
	guard     *Guard
	sched     Scheduler
	send      func(event string, payload any)
	threshold float64
}

// Handle filters one media event and sends the resulting intent, if any.
func (e *Emitter) Handle(ev media.Event) {
	if !e.session.InRoom() {
		return
	}

	if !protocol.ValidPosition(ev.Position) {
		log.Debugf("emitter: dropping %s with invalid position", ev.Kind)
		return
	}

	var kind IntentKind
	switch ev.Kind {
	case media.Progressed:
		// membership heartbeat, never mirrored back as a command
		e.publish(PlaybackIntent{Kind: IntentProgress, Position: ev.Position, EmittedAt: e.sched.Now()})
		return
	case media.Started:
		kind = IntentPlay
	case media.Paused:
		kind = IntentPause
	case media.Seeked:
		kind = IntentSeek
	default:
		return
	}

	if e.guard.IsSuppressed() {
		log.Tracef("emitter: suppressed echo %s", ev)
		return
	}

	if kind == IntentSeek {
		if math.Abs(ev.Position-e.guard.LastAppliedSeek()) <= e.threshold {
			return
		}
		e.guard.NoteSeek(ev.Position)
	}

	if kind != IntentSeek {
		e.session.Playing = kind == IntentPlay
	}

	e.publish(PlaybackIntent{Kind: kind, Position: ev.Position, EmittedAt: e.sched.Now()})
}

func (e *Emitter) publish(intent PlaybackIntent) {
	var event string
	switch intent.Kind {
	case IntentPlay:
		event = protocol.Play
	case IntentPause:
		event = protocol.Pause
	case IntentSeek:
		event = protocol.Seek
	case IntentProgress:
		event = protocol.UpdateTime
	}
	e.send(event, intent.Position)
}
