package engine

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ConnState is the transport state as seen by the engine.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (c ConnState) String() string {
	switch c {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("conn(%d)", int(c))
	}
}

// Session is the membership state consulted by both the emitter and the applier.
// It is owned by the engine and only mutated on the scheduler thread.
type Session struct {
	Nickname   string
	RoomID     string
	Connection ConnState
	MediaRef   string
	Playing    bool
}

// InRoom reports whether the client is currently a room member.
func (s Session) InRoom() bool {
	return s.RoomID != ""
}

// Identified reports whether a nickname has been accepted.
func (s Session) Identified() bool {
	return s.Nickname != ""
}

// join records membership and the media the room is currently showing.
func (s *Session) join(roomID, mediaRef string, playing bool) {
	s.RoomID = roomID
	s.MediaRef = mediaRef
	s.Playing = playing
}

// leave clears membership. The nickname and connection state survive.
func (s *Session) leave() {
	s.RoomID = ""
	s.MediaRef = ""
	s.Playing = false
}

// IntentKind is the kind of a local playback intent.
type IntentKind int

const (
	IntentPlay IntentKind = iota + 1
	IntentPause
	IntentSeek
	IntentProgress
)

// PlaybackIntent is a local playback change to be published to the room.
type PlaybackIntent struct {
	Kind      IntentKind
	Position  float64
	EmittedAt time.Time
}

// CommandKind is the kind of a remote command.
type CommandKind int

const (
	CommandPlay CommandKind = iota + 1
	CommandPause
	CommandSeek
	CommandLoad
)

func (k CommandKind) String() string {
	switch k {
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandSeek:
		return "seek"
	case CommandLoad:
		return "load"
	default:
		return fmt.Sprintf("command(%d)", int(k))
	}
}

// SyncCommand is a command issued by the server, applied to the local element.
type SyncCommand struct {
	Kind     CommandKind
	Position float64
	MediaRef string
	Autoplay bool
}

const (
	minNameLength     = 2
	maxNicknameLength = 20
	maxRoomNameLength = 50
)

// ValidateNickname trims nickname and checks its length.
func ValidateNickname(nickname string) (string, error) {
	return validateName(nickname, maxNicknameLength, ErrInvalidNickname)
}

// ValidateRoomName trims name and checks its length.
func ValidateRoomName(name string) (string, error) {
	return validateName(name, maxRoomNameLength, ErrInvalidRoomName)
}

func validateName(name string, max int, invalid error) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < minNameLength || n > max {
		return "", invalid
	}
	return name, nil
}
