package engine

import "github.com/syncwatch-cli/syncwatch/protocol"

// Snapshot is a read-only copy of the engine state, refreshed after every scheduler turn.
type Snapshot struct {
	Session
	Guard    GuardState
	Position float64
	Rooms    []protocol.RoomSummary
	Members  []protocol.Member
	// Status is the latest transient notice.
	Status string
	// Alert is the persistent notice awaiting dismissal.
	Alert string
}

// Snapshot returns the state published at the end of the last scheduler turn.
// It is safe to call from any goroutine.
func (e *Engine) Snapshot() Snapshot {
	e.snapMu.RLock()
	defer e.snapMu.RUnlock()
	return e.snap
}

// publish refreshes the snapshot. The displayed position is frozen while a remote command settles.
func (e *Engine) publish() {
	guard := e.guard.State()

	e.snapMu.Lock()
	defer e.snapMu.Unlock()

	e.snap.Session = e.session
	e.snap.Guard = guard
	if !e.session.InRoom() {
		e.snap.Members = nil
	}
	if !guard.Suppressed && e.element != nil && e.element.HasSource() {
		e.snap.Position = e.element.Position()
		if pos, ok := e.applier.Shown(); ok {
			e.snap.Position = pos
		}
	}
}
