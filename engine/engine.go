// Package engine keeps the local media element in step with a shared room.
//
// Local playback changes are published as intents, remote commands are applied to the
// element, and an echo guard keeps the two directions from re-triggering each other.
// All state lives on one scheduler thread: transport callbacks, media events, timers and
// public calls are posted to it and run to completion in order.
package engine

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/syncwatch-cli/syncwatch/channel"
	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/media"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

// Transport is what the engine needs from the real-time channel.
type Transport interface {
	Emit(event string, payload any) error
	On(event string, h channel.Handler)
	OnLifecycle(h channel.LifecycleHandler)
}

// Deps are the collaborators of an Engine. Observer and Resolve are optional.
type Deps struct {
	Scheduler Scheduler
	Transport Transport
	Element   media.Element
	Observer  Observer
	Resolve   Resolver
}

// Engine is the playback synchronization engine.
type Engine struct {
	opts      Options
	sched     Scheduler
	transport Transport
	element   media.Element
	observer  Observer

	session Session
	guard   *Guard
	emitter *Emitter
	applier *Applier

	attempts    int
	maxNotified bool
	joinTimer   Timer
	resyncTimer Timer

	closeOnce sync.Once
	closed    chan struct{}

	snapMu sync.RWMutex
	snap   Snapshot
}

// New builds an engine and registers its handlers on the transport.
func New(deps Deps, opts Options) *Engine {
	e := &Engine{
		opts:      opts,
		transport: deps.Transport,
		element:   deps.Element,
		observer:  deps.Observer,
		closed:    make(chan struct{}),
	}
	if e.observer == nil {
		e.observer = nopObserver{}
	}

	e.sched = hooked{Scheduler: deps.Scheduler, after: e.publish}
	e.session.Connection = Connecting
	e.guard = NewGuard(e.sched)
	e.emitter = &Emitter{
		session:   &e.session,
		guard:     e.guard,
		sched:     e.sched,
		send:      e.send,
		threshold: opts.SeekThreshold,
	}
	e.applier = &Applier{
		session:   &e.session,
		guard:     e.guard,
		element:   deps.Element,
		sched:     e.sched,
		resolve:   deps.Resolve,
		notify:    e.notice,
		timings:   opts.Timings,
		threshold: opts.SeekThreshold,
		closed:    e.closed,
	}

	e.bind()
	e.publish()
	return e
}

func (e *Engine) bind() {
	handlers := map[string]func(json.RawMessage){
		protocol.RoomsList:   e.onRoomsList,
		protocol.RoomCreated: e.onRoomCreated,
		protocol.RoomJoined:  e.onRoomJoined,
		protocol.LoadMedia:   e.onLoadMedia,
		protocol.UsersList:   e.onUsersList,
		protocol.Error:       e.onServerError,
		protocol.SyncPlay:    e.command(CommandPlay),
		protocol.SyncPause:   e.command(CommandPause),
		protocol.SyncSeek:    e.command(CommandSeek),
	}

	for event, h := range handlers {
		h := h
		e.transport.On(event, func(data json.RawMessage) {
			e.sched.Post(func() {
				if !e.isClosed() {
					h(data)
				}
			})
		})
	}

	e.transport.OnLifecycle(func(state channel.Lifecycle, err error) {
		e.sched.Post(func() {
			if !e.isClosed() {
				e.onLifecycle(state, err)
			}
		})
	})
}

// Watch feeds the events of src into the engine until src is exhausted or the engine is closed.
func (e *Engine) Watch(src media.Source) {
	go func() {
		for {
			select {
			case ev, ok := <-src.Events():
				if !ok {
					return
				}
				e.HandleMediaEvent(ev)
			case <-e.closed:
				return
			}
		}
	}()
}

// HandleMediaEvent posts one local media event.
func (e *Engine) HandleMediaEvent(ev media.Event) {
	e.sched.Post(func() { e.handleMediaEvent(ev) })
}

func (e *Engine) handleMediaEvent(ev media.Event) {
	if e.isClosed() {
		return
	}
	if ev.Kind == media.Loaded {
		e.applier.Loaded()
		return
	}
	e.applier.Unpin()
	e.emitter.Handle(ev)
}

// Identify validates and records the nickname, then requests the room list.
func (e *Engine) Identify(nickname string) error {
	nickname, err := ValidateNickname(nickname)
	if err != nil {
		return err
	}

	return e.do(func() error {
		e.session.Nickname = nickname
		e.send(protocol.GetRooms, nil)
		return nil
	})
}

// CreateRoom asks the server to create a room. The engine joins it once created.
func (e *Engine) CreateRoom(name string) error {
	name, err := ValidateRoomName(name)
	if err != nil {
		return err
	}

	return e.do(func() error {
		if !e.session.Identified() {
			return ErrNotIdentified
		}
		e.send(protocol.CreateRoom, name)
		return nil
	})
}

// JoinRoom asks the server to join an existing room.
func (e *Engine) JoinRoom(roomID string) error {
	if roomID == "" {
		return fmt.Errorf("join: %w", protocol.ErrMalformed)
	}

	return e.do(func() error {
		if !e.session.Identified() {
			return ErrNotIdentified
		}
		e.join(roomID)
		return nil
	})
}

// LeaveRoom leaves the current room and refreshes the room list.
func (e *Engine) LeaveRoom() error {
	return e.do(func() error {
		if !e.session.InRoom() {
			return ErrNotInRoom
		}
		e.send(protocol.LeaveRoom, nil)
		e.clearRoom()
		e.send(protocol.GetRooms, nil)
		return nil
	})
}

// SelectMedia asks the server to switch the room to ref.
func (e *Engine) SelectMedia(ref string) error {
	if ref == "" {
		return ErrNoMedia
	}

	return e.do(func() error {
		if !e.session.InRoom() {
			return ErrNotInRoom
		}
		e.send(protocol.SelectMedia, ref)
		return nil
	})
}

// RefreshRooms requests the room list.
func (e *Engine) RefreshRooms() error {
	return e.do(func() error {
		e.send(protocol.GetRooms, nil)
		return nil
	})
}

// DismissAlert clears the persistent connection notice.
func (e *Engine) DismissAlert() {
	e.sched.Post(func() {
		e.notice(Notice{Topic: TopicConnection, Level: Cleared})
	})
}

// Close cancels every pending timer and detaches the engine. It is safe to call more than once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.sched.Post(e.teardown)
		close(e.closed)
	})
}

func (e *Engine) teardown() {
	e.stopTimers()
	e.applier.Reset()
	e.guard.Disarm()
	e.session.leave()
}

// do runs fn on the scheduler thread and waits for its result.
func (e *Engine) do(fn func() error) error {
	if e.isClosed() {
		return ErrClosed
	}

	result := make(chan error, 1)
	e.sched.Post(func() {
		if e.isClosed() {
			result <- ErrClosed
			return
		}
		result <- fn()
	})

	select {
	case err := <-result:
		return err
	case <-e.closed:
		return ErrClosed
	}
}

func (e *Engine) isClosed() bool {
	select {
	case <-e.closed:
		return true
	default:
		return false
	}
}

func (e *Engine) join(roomID string) {
	e.send(protocol.JoinRoom, protocol.JoinRequest{RoomID: roomID, Nickname: e.session.Nickname})
}

// clearRoom drops membership and everything scheduled on its behalf.
func (e *Engine) clearRoom() {
	e.session.leave()
	e.stopTimers()
	e.applier.Reset()
	e.guard.Disarm()
	e.observer.Members(nil)
}

func (e *Engine) stopTimers() {
	for _, t := range []*Timer{&e.joinTimer, &e.resyncTimer} {
		if *t != nil {
			(*t).Stop()
			*t = nil
		}
	}
}

// send emits on the transport. Failures are logged; the lifecycle handler owns recovery.
func (e *Engine) send(event string, payload any) {
	if err := e.transport.Emit(event, payload); err != nil {
		log.With(log.Fields{"event": event}).Warnf("engine: emit failed: %v", err)
	}
}

func (e *Engine) notice(n Notice) {
	e.observer.Notice(n)

	e.snapMu.Lock()
	defer e.snapMu.Unlock()

	switch {
	case n.Topic == TopicConnection && n.Level == Persistent:
		e.snap.Alert = n.Text
	case n.Topic == TopicConnection && n.Level == Cleared:
		e.snap.Alert = ""
		e.snap.Status = ""
	case n.Level == Cleared:
	default:
		e.snap.Status = n.Text
	}
}
