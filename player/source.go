package player

import (
	"sync"
	"time"

	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/media"
)

// translator turns raw mpv notifications into semantic media events.
//
//   - pause false/true         -> started/paused, only on an actual change
//   - seek then playback-restart -> seeked
//   - time-pos                 -> progressed, at most once per interval while playing
//   - file-loaded              -> loaded
type translator struct {
	interval time.Duration
	now      func() time.Time
	probe    func() (float64, error)
	emit     func(media.Event)

	mu           sync.Mutex
	position     float64
	paused       *bool
	seeking      bool
	hasSource    bool
	lastProgress time.Time
}

func newTranslator(interval time.Duration, probe func() (float64, error), emit func(media.Event)) *translator {
	return &translator{
		interval: interval,
		now:      time.Now,
		probe:    probe,
		emit:     emit,
	}
}

// handle is an EventCallback.
func (t *translator) handle(name string, data interface{}) {
	var out []media.Event

	t.mu.Lock()
	switch name {
	case "time-pos":
		pos, ok := data.(float64)
		if !ok {
			break
		}
		t.position = pos
		if t.paused != nil && !*t.paused && t.now().Sub(t.lastProgress) >= t.interval {
			t.lastProgress = t.now()
			out = append(out, media.Event{Kind: media.Progressed, Position: pos})
		}
	case "pause":
		paused, ok := data.(bool)
		if !ok {
			break
		}
		initial := t.paused == nil
		changed := initial || *t.paused != paused
		t.paused = &paused
		if initial || !changed || !t.hasSource {
			break
		}
		kind := media.Started
		if paused {
			kind = media.Paused
		}
		out = append(out, media.Event{Kind: kind, Position: t.position})
	case "path":
		_, t.hasSource = data.(string)
	case "seek":
		t.seeking = true
	case "playback-restart":
		if !t.seeking {
			break
		}
		t.seeking = false
		pos := t.position
		if t.probe != nil {
			t.mu.Unlock()
			if live, err := t.probe(); err == nil {
				pos = live
			}
			t.mu.Lock()
			t.position = pos
		}
		out = append(out, media.Event{Kind: media.Seeked, Position: pos})
	case "file-loaded":
		t.hasSource = true
		t.seeking = false
		t.position = 0
		out = append(out, media.Event{Kind: media.Loaded})
	case "end-file":
		t.seeking = false
	}
	t.mu.Unlock()

	for _, e := range out {
		log.Tracef("mpv: %s", e)
		t.emit(e)
	}
}

// setPosition records a position written by a command, before mpv confirms it.
func (t *translator) setPosition(pos float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = pos
}

func (t *translator) current() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}
