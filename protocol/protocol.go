// Package protocol defines the named events and payloads exchanged with the sync server.
//
// Every frame on the wire is an Envelope: a JSON object with the event name and an optional
// payload. Inbound payloads are decoded tolerantly; anything that cannot be understood is
// reported as an error for the caller to log and discard.
package protocol

import "encoding/json"

// Inbound events, sent by the server.
const (
	RoomsList   = "rooms-list"
	RoomCreated = "room-created"
	RoomJoined  = "room-joined"
	LoadMedia   = "load-media"
	UsersList   = "users-list"
	Error       = "error"
	SyncPlay    = "sync-play"
	SyncPause   = "sync-pause"
	SyncSeek    = "sync-seek"
)

// Outbound events, sent by the client.
const (
	GetRooms    = "get-rooms"
	CreateRoom  = "create-room"
	JoinRoom    = "join-room"
	LeaveRoom   = "leave-room"
	SelectMedia = "select-media"
	Play        = "play"
	Pause       = "pause"
	Seek        = "seek"
	UpdateTime  = "update-time"
)

// Envelope is a single framed message.
type Envelope struct {
	Event string          `json:"event" jsonschema:"required,description=Event name"`
	Data  json.RawMessage `json:"data,omitempty" jsonschema:"description=Event payload"`
}

// NewEnvelope marshals payload into an envelope for the named event. A nil payload produces
// an envelope without data.
func NewEnvelope(event string, payload any) (Envelope, error) {
	env := Envelope{Event: event}
	if payload == nil {
		return env, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return env, err
	}
	env.Data = data
	return env, nil
}

// Inbound reports whether the event name is one the server is expected to send.
func Inbound(event string) bool {
	switch event {
	case RoomsList, RoomCreated, RoomJoined, LoadMedia, UsersList, Error, SyncPlay, SyncPause, SyncSeek:
		return true
	default:
		return false
	}
}
