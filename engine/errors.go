package engine

import "errors"

var (
	// ErrInvalidNickname is returned for a nickname outside 2..20 characters.
	ErrInvalidNickname = errors.New("nickname must be between 2 and 20 characters")
	// ErrInvalidRoomName is returned for a room name outside 2..50 characters.
	ErrInvalidRoomName = errors.New("room name must be between 2 and 50 characters")
	// ErrNotIdentified is returned for room operations before a nickname was accepted.
	ErrNotIdentified = errors.New("choose a nickname first")
	// ErrNotInRoom is returned for operations that require room membership.
	ErrNotInRoom = errors.New("not in a room")
	// ErrNoMedia is returned when selecting an empty media reference.
	ErrNoMedia = errors.New("no media selected")
	// ErrClosed is returned once the engine has been closed.
	ErrClosed = errors.New("engine closed")
)
