package engine

import "time"

// GuardState is a read-only view of the echo guard.
type GuardState struct {
	Suppressed           bool
	LastAppliedSeek      float64
	SuppressionExpiresAt time.Time
}

// Guard suppresses outbound intents while a remote command is being applied to the element.
//
// Every Arm starts a new operation and returns its token. Exactly one timer is pending at a
// time; re-arming or settling replaces it. Settle and Release only act for the operation that
// currently owns the guard, so a late completion of a superseded command cannot disarm early.
// Guard is not safe for concurrent use; it lives on the scheduler thread.
type Guard struct {
	sched Scheduler

	suppressed      bool
	lastAppliedSeek float64
	expiresAt       time.Time

	op    uint64
	gen   uint64
	timer Timer
}

// NewGuard returns a disarmed guard.
func NewGuard(sched Scheduler) *Guard {
	return &Guard{sched: sched}
}

// Arm suppresses outbound intents, records the expected position and schedules a disarm after timeout.
func (g *Guard) Arm(expected float64, timeout time.Duration) uint64 {
	g.op++
	g.suppressed = true
	g.lastAppliedSeek = expected
	g.schedule(timeout)
	return g.op
}

// Settle replaces the pending disarm of operation op with one after grace.
func (g *Guard) Settle(op uint64, grace time.Duration) {
	if op != g.op || !g.suppressed {
		return
	}
	g.schedule(grace)
}

// Release disarms immediately if op still owns the guard.
func (g *Guard) Release(op uint64) {
	if op == g.op {
		g.Disarm()
	}
}

// Disarm clears suppression and cancels the pending timer. It is idempotent.
func (g *Guard) Disarm() {
	g.stop()
	g.suppressed = false
	g.expiresAt = time.Time{}
}

// IsSuppressed reports whether outbound play, pause and seek intents must be withheld.
func (g *Guard) IsSuppressed() bool {
	return g.suppressed
}

// LastAppliedSeek returns the last position applied remotely or reported locally.
func (g *Guard) LastAppliedSeek() float64 {
	return g.lastAppliedSeek
}

// NoteSeek records a seek position without arming.
func (g *Guard) NoteSeek(pos float64) {
	g.lastAppliedSeek = pos
}

// State returns a copy of the guard state.
func (g *Guard) State() GuardState {
	return GuardState{
		Suppressed:           g.suppressed,
		LastAppliedSeek:      g.lastAppliedSeek,
		SuppressionExpiresAt: g.expiresAt,
	}
}

func (g *Guard) schedule(d time.Duration) {
	g.stop()
	g.gen++
	gen := g.gen
	g.expiresAt = g.sched.Now().Add(d)
	g.timer = g.sched.AfterFunc(d, func() {
		// a stopped timer may already have been dispatched
		if g.gen == gen {
			g.Disarm()
		}
	})
}

func (g *Guard) stop() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}
