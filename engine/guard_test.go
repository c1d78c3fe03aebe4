package engine

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGuard(t *testing.T) {
	Convey("Given a disarmed guard", t, func() {
		sched := newManualScheduler()
		guard := NewGuard(sched)

		So(guard.IsSuppressed(), ShouldBeFalse)
		So(guard.State().SuppressionExpiresAt.IsZero(), ShouldBeTrue)

		Convey("Arming suppresses and records the expected position", func() {
			guard.Arm(12.5, 150*time.Millisecond)

			state := guard.State()
			So(state.Suppressed, ShouldBeTrue)
			So(state.LastAppliedSeek, ShouldEqual, 12.5)
			So(state.SuppressionExpiresAt, ShouldEqual, sched.Now().Add(150*time.Millisecond))

			Convey("and the timeout always disarms", func() {
				sched.Advance(150 * time.Millisecond)
				So(guard.IsSuppressed(), ShouldBeFalse)
				So(guard.LastAppliedSeek(), ShouldEqual, 12.5)
			})
		})

		Convey("Re-arming keeps a single pending timer", func() {
			guard.Arm(1, 150*time.Millisecond)
			sched.Advance(100 * time.Millisecond)
			guard.Arm(2, 150*time.Millisecond)
			So(sched.pending(), ShouldEqual, 1)

			sched.Advance(100 * time.Millisecond)
			So(guard.IsSuppressed(), ShouldBeTrue)
			sched.Advance(50 * time.Millisecond)
			So(guard.IsSuppressed(), ShouldBeFalse)
		})

		Convey("Settling replaces the timeout with the grace period", func() {
			op := guard.Arm(3, 150*time.Millisecond)
			guard.Settle(op, 20*time.Millisecond)
			So(sched.pending(), ShouldEqual, 1)

			sched.Advance(20 * time.Millisecond)
			So(guard.IsSuppressed(), ShouldBeFalse)
		})

		Convey("A superseded operation cannot settle or release the guard", func() {
			first := guard.Arm(3, 150*time.Millisecond)
			second := guard.Arm(9, 150*time.Millisecond)

			guard.Release(first)
			So(guard.IsSuppressed(), ShouldBeTrue)

			guard.Settle(first, time.Millisecond)
			sched.Advance(time.Millisecond)
			So(guard.IsSuppressed(), ShouldBeTrue)

			guard.Release(second)
			So(guard.IsSuppressed(), ShouldBeFalse)
		})

		Convey("Settling a disarmed guard schedules nothing", func() {
			op := guard.Arm(3, 150*time.Millisecond)
			guard.Disarm()
			guard.Settle(op, time.Second)
			So(sched.pending(), ShouldEqual, 0)
			So(guard.IsSuppressed(), ShouldBeFalse)
		})

		Convey("A dispatched stale timer does not disarm a newer operation", func() {
			var stale func()
			capture := &capturingScheduler{manualScheduler: sched, capture: func(fn func()) { stale = fn }}
			g := NewGuard(capture)

			g.Arm(1, 150*time.Millisecond)
			So(stale, ShouldNotBeNil)
			g.Arm(2, 150*time.Millisecond)

			stale()
			So(g.IsSuppressed(), ShouldBeTrue)
		})

		Convey("Disarm is idempotent and cancels the pending timer", func() {
			guard.Arm(4, 150*time.Millisecond)
			guard.Disarm()
			guard.Disarm()
			So(guard.IsSuppressed(), ShouldBeFalse)
			So(sched.pending(), ShouldEqual, 0)
		})

		Convey("Noting a seek does not arm", func() {
			guard.NoteSeek(33)
			So(guard.IsSuppressed(), ShouldBeFalse)
			So(guard.LastAppliedSeek(), ShouldEqual, 33)
		})
	})
}

// capturingScheduler hands the first timer callback to capture, as if it had fired and been
// queued before being stopped.
type capturingScheduler struct {
	*manualScheduler
	capture func(func())
	done    bool
}

func (c *capturingScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	if !c.done {
		c.done = true
		c.capture(fn)
	}
	return c.manualScheduler.AfterFunc(d, fn)
}
