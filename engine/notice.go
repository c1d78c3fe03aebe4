package engine

import "github.com/syncwatch-cli/syncwatch/protocol"

// Topic groups notices so a newer one can replace or clear an older one.
type Topic int

const (
	TopicConnection Topic = iota + 1
	TopicServer
	TopicMedia
	TopicRoom
)

// Level is how a notice should be presented.
type Level int

const (
	// Info is a short-lived confirmation.
	Info Level = iota + 1
	// Transient replaces the previous notice of its topic and fades.
	Transient
	// Persistent stays until the user dismisses it.
	Persistent
	// Cleared withdraws the current notice of its topic.
	Cleared
)

// Notice is a user-facing message produced by the engine.
type Notice struct {
	Topic Topic
	Level Level
	Text  string
}

// Observer receives what the engine wants shown. Methods are called on the scheduler thread
// and must not block.
type Observer interface {
	Notice(n Notice)
	Rooms(rooms []protocol.RoomSummary)
	Members(members []protocol.Member)
}

type nopObserver struct{}

func (nopObserver) Notice(Notice)                {}
func (nopObserver) Rooms([]protocol.RoomSummary) {}
func (nopObserver) Members([]protocol.Member)    {}
