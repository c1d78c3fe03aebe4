package engine

import (
	"fmt"
	"math"

	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/media"
)

// Resolver maps a media reference from the server to something the element can load.
type Resolver func(ref string) (string, error)

// pendingLoad is a load waiting for the element to report loaded.
type pendingLoad struct {
	position float64
	autoplay bool
}

// Applier applies remote commands to the local element under the echo guard.
type Applier struct {
	session *Session
	guard   *Guard
	element media.Element
	sched   Scheduler
	resolve Resolver
	notify  func(Notice)
	timings Timings
	// threshold is shared with the emitter so both directions agree on what is a seek.
	threshold float64
	closed    <-chan struct{}

	pending *pendingLoad
	// shown pins the displayed position to a commanded time the element was already close to.
	shown *float64
}

// Apply dispatches one remote command.
func (a *Applier) Apply(cmd SyncCommand) {
	log.With(log.Fields{"command": cmd.Kind.String(), "position": cmd.Position}).Debug("applier: received")

	if a.pending != nil && cmd.Kind != CommandLoad && a.session.InRoom() {
		a.merge(cmd)
		return
	}

	a.shown = nil
	switch cmd.Kind {
	case CommandPlay:
		a.play(cmd.Position)
	case CommandPause:
		a.pause(cmd.Position)
	case CommandSeek:
		a.seek(cmd.Position)
	case CommandLoad:
		a.load(cmd.MediaRef, cmd.Position, cmd.Autoplay)
	}
}

func (a *Applier) ready() bool {
	return a.session.InRoom() && a.element.HasSource()
}

func (a *Applier) play(pos float64) {
	if !a.ready() {
		return
	}

	op := a.guard.Arm(pos, a.timings.GuardTimeout)
	if err := a.element.SetPosition(pos); err != nil {
		a.fail(op, "seek", err)
		return
	}

	a.await(a.element.Play(), func(err error) {
		if err != nil {
			// user-gesture gated or refused; a retry would fail the same way
			a.fail(op, "play", err)
			return
		}
		a.session.Playing = true
		a.guard.Settle(op, a.timings.SettleGrace)
	})
}

func (a *Applier) pause(pos float64) {
	if !a.ready() {
		return
	}

	op := a.guard.Arm(pos, a.timings.GuardTimeout)
	if err := a.element.SetPosition(pos); err != nil {
		a.fail(op, "seek", err)
		return
	}
	if err := a.element.Pause(); err != nil {
		a.fail(op, "pause", err)
		return
	}

	a.session.Playing = false
	a.guard.Settle(op, a.timings.SettleGrace)
}

func (a *Applier) seek(pos float64) {
	if !a.ready() {
		return
	}

	if math.Abs(a.element.Position()-pos) <= a.threshold {
		a.shown = &pos
		return
	}

	op := a.guard.Arm(pos, a.timings.GuardTimeout)
	if err := a.element.SetPosition(pos); err != nil {
		a.fail(op, "seek", err)
		return
	}
	a.guard.Settle(op, a.timings.SeekSettle)
}

func (a *Applier) load(ref string, pos float64, autoplay bool) {
	target := ref
	if a.resolve != nil {
		resolved, err := a.resolve(ref)
		if err != nil {
			a.pending = nil
			a.report(fmt.Sprintf("cannot resolve media %q: %v", ref, err))
			return
		}
		target = resolved
	}

	// a new source starts paused; only an autoplay load resumes it once loaded
	if a.element.HasSource() {
		op := a.guard.Arm(pos, a.timings.GuardTimeout)
		if err := a.element.Pause(); err != nil {
			a.pending = nil
			a.fail(op, "pause", err)
			return
		}
		a.guard.Settle(op, a.timings.SettleGrace)
	}

	if err := a.element.Load(target); err != nil {
		a.pending = nil
		a.report(fmt.Sprintf("cannot load media: %v", err))
		return
	}

	a.guard.NoteSeek(pos)
	a.pending = &pendingLoad{position: pos, autoplay: autoplay}
}

// merge folds a command received while media is loading into the pending load, so the
// loaded element starts from the newest room state.
func (a *Applier) merge(cmd SyncCommand) {
	p := a.pending
	p.position = cmd.Position
	switch cmd.Kind {
	case CommandPlay:
		p.autoplay = true
	case CommandPause:
		p.autoplay = false
		a.session.Playing = false
	}
	a.guard.NoteSeek(cmd.Position)
}

// Loaded completes a pending load once the element reports loaded.
func (a *Applier) Loaded() {
	p := a.pending
	if p == nil {
		return
	}
	a.pending = nil

	if p.autoplay {
		a.play(p.position)
		return
	}

	if p.position > 0 && a.element.HasSource() {
		op := a.guard.Arm(p.position, a.timings.GuardTimeout)
		if err := a.element.SetPosition(p.position); err != nil {
			a.fail(op, "seek", err)
			return
		}
		a.guard.Settle(op, a.timings.SeekSettle)
	}
}

// Shown returns the commanded position to display instead of the element's, if one is pinned.
func (a *Applier) Shown() (float64, bool) {
	if a.shown == nil {
		return 0, false
	}
	return *a.shown, true
}

// Unpin lets the display follow the element again.
func (a *Applier) Unpin() {
	a.shown = nil
}

// Reset drops any pending load.
func (a *Applier) Reset() {
	a.pending = nil
	a.shown = nil
}

// await runs fn on the scheduler thread once the element operation completes. A result that is
// already available is handled in the current turn.
func (a *Applier) await(result <-chan error, fn func(error)) {
	select {
	case err := <-result:
		fn(err)
		return
	default:
	}

	go func() {
		select {
		case err := <-result:
			a.sched.Post(func() { fn(err) })
		case <-a.closed:
		}
	}()
}

func (a *Applier) fail(op uint64, what string, err error) {
	a.guard.Release(op)
	log.Warnf("applier: %s failed: %v", what, err)
	a.report(fmt.Sprintf("%s failed: %v", what, err))
}

func (a *Applier) report(text string) {
	a.notify(Notice{Topic: TopicMedia, Level: Transient, Text: text})
}
