package engine

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/syncwatch-cli/syncwatch/log"
)

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from running if it has not been dispatched yet.
	Stop() bool
}

// Scheduler runs work on a single logical thread of execution. Functions passed to Post and
// callbacks passed to AfterFunc never run concurrently with each other.
type Scheduler interface {
	Post(fn func())
	AfterFunc(d time.Duration, fn func()) Timer
	Now() time.Time
}

// Loop is a run-to-completion event loop. Every posted function runs to the end before the
// next one starts; timer callbacks are posted back to the loop when they fire.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop returns a loop with room for buffer pending functions.
func NewLoop(buffer int) *Loop {
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run executes posted functions until Close is called. A panicking function is logged and
// does not stop the loop.
func (l *Loop) Run() {
	for {
		select {
		case fn := <-l.queue:
			l.turn(fn)
		case <-l.done:
			return
		}
	}
}

func (l *Loop) turn(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.With(log.Fields{"panic": fmt.Sprint(r)}).Errorf("loop: recovered handler panic\n%s", debug.Stack())
		}
	}()
	fn()
}

// Post enqueues fn. It is dropped once the loop is closed.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// AfterFunc posts fn to the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() { l.Post(fn) })
}

// Now implements Scheduler.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Close stops the loop. Pending functions are discarded.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Done is closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// hooked runs after on the scheduler thread at the end of every posted function and timer callback.
type hooked struct {
	Scheduler
	after func()
}

func (h hooked) Post(fn func()) {
	h.Scheduler.Post(func() {
		defer h.after()
		fn()
	})
}

func (h hooked) AfterFunc(d time.Duration, fn func()) Timer {
	return h.Scheduler.AfterFunc(d, func() {
		defer h.after()
		fn()
	})
}
