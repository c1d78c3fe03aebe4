package engine

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/syncwatch-cli/syncwatch/channel"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

// manualScheduler runs posted functions inline, one at a time, and fires timers only when
// the clock is advanced.
type manualScheduler struct {
	mu      sync.Mutex
	now     time.Time
	queue   []func()
	running bool
	timers  []*manualTimer
	seq     int
}

type manualTimer struct {
	s       *manualScheduler
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{now: time.Unix(1_700_000_000, 0)}
}

func (s *manualScheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *manualScheduler) Post(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		next()
		s.mu.Lock()
	}
	s.running = false
	s.mu.Unlock()
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now.Add(d), seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward, firing due timers in deadline order.
func (s *manualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	deadline := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due []*manualTimer
		for _, t := range s.timers {
			if !t.stopped && !t.fired && !t.at.After(deadline) {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.now = deadline
			s.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].at.Equal(due[j].at) {
				return due[i].seq < due[j].seq
			}
			return due[i].at.Before(due[j].at)
		})
		next := due[0]
		next.fired = true
		s.now = next.at
		s.mu.Unlock()

		s.Post(next.fn)
	}
}

// pending counts timers that have neither fired nor been stopped.
func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type sent struct {
	Event   string
	Payload any
}

// fakeTransport records emitted events and lets tests deliver inbound ones.
type fakeTransport struct {
	mu        sync.Mutex
	sent      []sent
	handlers  map[string]channel.Handler
	lifecycle channel.LifecycleHandler
	err       error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{handlers: make(map[string]channel.Handler)}
}

func (f *fakeTransport) Emit(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{Event: event, Payload: payload})
	return nil
}

func (f *fakeTransport) On(event string, h channel.Handler) {
	f.handlers[event] = h
}

func (f *fakeTransport) OnLifecycle(h channel.LifecycleHandler) {
	f.lifecycle = h
}

func (f *fakeTransport) deliver(event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	f.deliverRaw(event, data)
}

func (f *fakeTransport) deliverRaw(event string, data json.RawMessage) {
	f.handlers[event](data)
}

func (f *fakeTransport) transition(state channel.Lifecycle, err error) {
	f.lifecycle(state, err)
}

func (f *fakeTransport) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, s := range f.sent {
		out = append(out, s.Event)
	}
	return out
}

func (f *fakeTransport) count(event string) int {
	n := 0
	for _, e := range f.events() {
		if e == event {
			n++
		}
	}
	return n
}

func (f *fakeTransport) last() sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sent{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

// fakeElement is a media element whose play outcome is chosen by the test.
type fakeElement struct {
	position  float64
	source    string
	playing   bool
	setCalls  []float64
	playCalls int
	loads     []string

	// playResult is returned from Play; nil means resolve immediately with success.
	playResult chan error
	loadErr    error
}

func (f *fakeElement) Position() float64 { return f.position }
func (f *fakeElement) HasSource() bool   { return f.source != "" }

func (f *fakeElement) SetPosition(seconds float64) error {
	f.position = seconds
	f.setCalls = append(f.setCalls, seconds)
	return nil
}

func (f *fakeElement) Play() <-chan error {
	f.playCalls++
	if f.playResult != nil {
		return f.playResult
	}
	done := make(chan error, 1)
	f.playing = true
	done <- nil
	return done
}

func (f *fakeElement) Pause() error {
	f.playing = false
	return nil
}

func (f *fakeElement) Load(ref string) error {
	if f.loadErr != nil {
		return f.loadErr
	}
	f.source = ref
	f.position = 0
	f.loads = append(f.loads, ref)
	return nil
}

// recordingObserver collects everything the engine asks to show.
type recordingObserver struct {
	notices []Notice
	rooms   [][]protocol.RoomSummary
	members [][]protocol.Member
}

func (r *recordingObserver) Notice(n Notice)                    { r.notices = append(r.notices, n) }
func (r *recordingObserver) Rooms(rooms []protocol.RoomSummary) { r.rooms = append(r.rooms, rooms) }
func (r *recordingObserver) Members(members []protocol.Member)  { r.members = append(r.members, members) }

func (r *recordingObserver) level(level Level) []Notice {
	var out []Notice
	for _, n := range r.notices {
		if n.Level == level {
			out = append(out, n)
		}
	}
	return out
}

// harness wires an engine to fakes.
type harness struct {
	sched     *manualScheduler
	transport *fakeTransport
	element   *fakeElement
	observer  *recordingObserver
	engine    *Engine
}

func newHarness() *harness {
	h := &harness{
		sched:     newManualScheduler(),
		transport: newFakeTransport(),
		element:   &fakeElement{},
		observer:  &recordingObserver{},
	}
	h.engine = New(Deps{
		Scheduler: h.sched,
		Transport: h.transport,
		Element:   h.element,
		Observer:  h.observer,
	}, DefaultOptions())
	return h
}

// inRoom connects, identifies and joins r1 with media loaded, then clears the record.
func (h *harness) inRoom() {
	h.transport.transition(channel.Connected, nil)
	if err := h.engine.Identify("ann"); err != nil {
		panic(err)
	}
	h.transport.deliver(protocol.RoomJoined, map[string]any{"roomId": "r1", "video": "7", "time": 0, "playing": false})
	h.engine.HandleMediaEvent(mediaLoaded)
	h.sched.Advance(time.Second)
	h.transport.reset()
	h.observer.notices = nil
}
