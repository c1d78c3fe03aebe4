// Package media defines the contract between a playable element and the synchronization engine.
package media

import "fmt"

// Kind is the semantic type of a media event.
type Kind int

const (
	Started Kind = iota + 1
	Paused
	Seeked
	Progressed
	Loaded
)

func (k Kind) String() string {
	switch k {
	case Started:
		return "started"
	case Paused:
		return "paused"
	case Seeked:
		return "seeked"
	case Progressed:
		return "progressed"
	case Loaded:
		return "loaded"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is a semantic playback event carrying the element position in seconds.
type Event struct {
	Kind     Kind
	Position float64
	// Autoplay is only meaningful for Loaded.
	Autoplay bool
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%.3f)", e.Kind, e.Position)
}

// Element is the command surface of a playable element.
type Element interface {
	// Position returns the last known playback position in seconds.
	Position() float64
	// HasSource reports whether media has been loaded into the element.
	HasSource() bool
	// SetPosition moves playback to an absolute position in seconds.
	SetPosition(seconds float64) error
	// Play resumes playback. The returned channel yields exactly one value: nil on success,
	// or the reason playback was refused.
	Play() <-chan error
	// Pause suspends playback.
	Pause() error
	// Load replaces the current media with ref, leaving playback paused.
	Load(ref string) error
}

// Source produces the events of one element for its whole lifetime, across loads.
type Source interface {
	Events() <-chan Event
}

// Player is an element that also reports its own events.
type Player interface {
	Element
	Source
}
