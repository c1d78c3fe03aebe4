package engine

import (
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/syncwatch-cli/syncwatch/key"
)

func TestLoop(t *testing.T) {
	Convey("Given a running loop", t, func() {
		loop := NewLoop(8)
		go loop.Run()
		defer loop.Close()

		Convey("Posted functions run in order", func() {
			var order []int
			done := make(chan struct{})
			for i := 1; i <= 3; i++ {
				i := i
				loop.Post(func() { order = append(order, i) })
			}
			loop.Post(func() { close(done) })

			<-done
			So(order, ShouldResemble, []int{1, 2, 3})
		})

		Convey("A panicking function does not stop the loop", func() {
			done := make(chan struct{})
			loop.Post(func() { panic("boom") })
			loop.Post(func() { close(done) })

			select {
			case <-done:
			case <-time.After(time.Second):
				So("loop stopped after a panic", ShouldBeEmpty)
			}
		})

		Convey("The after hook runs even when the hooked function panics", func() {
			done := make(chan struct{})
			h := hooked{Scheduler: loop, after: func() { close(done) }}
			h.Post(func() { panic("boom") })

			select {
			case <-done:
			case <-time.After(time.Second):
				So("after hook skipped", ShouldBeEmpty)
			}
		})

		Convey("Timers post back to the loop and can be stopped", func() {
			var fired atomic.Int32
			done := make(chan struct{})

			stopped := loop.AfterFunc(time.Hour, func() { fired.Add(1) })
			So(stopped.Stop(), ShouldBeTrue)

			loop.AfterFunc(time.Millisecond, func() {
				fired.Add(1)
				close(done)
			})

			<-done
			So(fired.Load(), ShouldEqual, 1)
		})

		Convey("Posting after close does not block", func() {
			loop.Close()
			loop.Post(func() {})

			_, open := <-loop.Done()
			So(open, ShouldBeFalse)
		})
	})
}

func TestConfigured(t *testing.T) {
	Convey("Given the defaults", t, func() {
		opts := DefaultOptions()

		So(opts.SeekThreshold, ShouldEqual, 0.5)
		So(opts.MaxAttempts, ShouldEqual, 5)
		So(opts.GuardTimeout, ShouldEqual, 150*time.Millisecond)
		So(opts.ResyncDelay, ShouldEqual, 200*time.Millisecond)

		Convey("Configured values override them", func() {
			viper.Set(key.SyncSeekThreshold, 1.5)
			viper.Set(key.SyncJoinDelayMs, 250)
			viper.Set(key.ConnectionMaxAttempts, -1)
			defer viper.Reset()

			opts := Configured()
			So(opts.SeekThreshold, ShouldEqual, 1.5)
			So(opts.JoinDelay, ShouldEqual, 250*time.Millisecond)
			So(opts.MaxAttempts, ShouldEqual, 5)
		})
	})
}
