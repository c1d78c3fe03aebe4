package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformed is returned when an inbound payload cannot be decoded.
var ErrMalformed = errors.New("malformed payload")

// RoomSummary describes one room in a rooms-list broadcast.
type RoomSummary struct {
	ID         string `json:"id" jsonschema:"required"`
	UserCount  int    `json:"userCount" jsonschema:"minimum=0"`
	MediaLabel string `json:"video,omitempty" jsonschema:"description=Title of the selected media"`
	Playing    bool   `json:"playing"`
}

// UnmarshalJSON accepts both "userCount" and the shorter "users" count key.
func (r *RoomSummary) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         json.RawMessage `json:"id"`
		UserCount  *int            `json:"userCount"`
		Users      *int            `json:"users"`
		MediaLabel string          `json:"video"`
		Media      string          `json:"media"`
		Playing    bool            `json:"playing"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeIdentifier(raw.ID)
	if err != nil {
		return err
	}

	*r = RoomSummary{ID: id, MediaLabel: raw.MediaLabel, Playing: raw.Playing}
	if r.MediaLabel == "" {
		r.MediaLabel = raw.Media
	}
	switch {
	case raw.UserCount != nil:
		r.UserCount = *raw.UserCount
	case raw.Users != nil:
		r.UserCount = *raw.Users
	}
	return nil
}

// Member is one entry of a users-list broadcast.
type Member struct {
	Nickname string  `json:"nickname" jsonschema:"required,minLength=2,maxLength=20"`
	Position float64 `json:"currentTime" jsonschema:"minimum=0"`
}

// JoinRequest is the payload of an outbound join-room.
type JoinRequest struct {
	RoomID   string `json:"roomId" jsonschema:"required"`
	Nickname string `json:"nickname" jsonschema:"required,minLength=2,maxLength=20"`
}

// Joined is the payload of an inbound room-joined.
type Joined struct {
	RoomID   string  `json:"roomId" jsonschema:"required"`
	MediaRef string  `json:"media,omitempty" jsonschema:"description=Media identifier or URL, empty when nothing is selected"`
	Position float64 `json:"time" jsonschema:"minimum=0"`
	Playing  bool    `json:"playing"`
}

// UnmarshalJSON accepts the media reference under "media" or "video".
func (j *Joined) UnmarshalJSON(data []byte) error {
	var raw struct {
		RoomID json.RawMessage `json:"roomId"`
		Media  json.RawMessage `json:"media"`
		Video  json.RawMessage `json:"video"`
		Time   json.RawMessage `json:"time"`
		Play   bool            `json:"playing"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeIdentifier(raw.RoomID)
	if err != nil {
		return fmt.Errorf("roomId: %w", err)
	}

	ref, err := decodeOptionalIdentifier(raw.Media, raw.Video)
	if err != nil {
		return fmt.Errorf("media: %w", err)
	}

	pos, err := decodeOptionalPosition(raw.Time)
	if err != nil {
		return fmt.Errorf("time: %w", err)
	}

	*j = Joined{RoomID: id, MediaRef: ref, Position: pos, Playing: raw.Play}
	return nil
}

// Load is the payload of an inbound load-media.
type Load struct {
	MediaRef string  `json:"mediaRef" jsonschema:"required"`
	Position float64 `json:"time" jsonschema:"minimum=0"`
}

// UnmarshalJSON accepts the media reference under "mediaRef", "media" or "video".
func (l *Load) UnmarshalJSON(data []byte) error {
	var raw struct {
		MediaRef json.RawMessage `json:"mediaRef"`
		Media    json.RawMessage `json:"media"`
		Video    json.RawMessage `json:"video"`
		Time     json.RawMessage `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ref, err := decodeOptionalIdentifier(raw.MediaRef, raw.Media, raw.Video)
	if err != nil {
		return err
	}
	if ref == "" {
		return fmt.Errorf("%w: missing media reference", ErrMalformed)
	}

	pos, err := decodeOptionalPosition(raw.Time)
	if err != nil {
		return fmt.Errorf("time: %w", err)
	}

	*l = Load{MediaRef: ref, Position: pos}
	return nil
}

// DecodePosition decodes a playback position in seconds. Numbers and numeric strings are
// accepted; negative and non-finite values are rejected.
func DecodePosition(data json.RawMessage) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, fmt.Errorf("%w: missing position", ErrMalformed)
	}

	var pos float64
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: position %q", ErrMalformed, s)
		}
		pos = parsed
	} else if err := json.Unmarshal(data, &pos); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if !ValidPosition(pos) {
		return 0, fmt.Errorf("%w: position %v out of range", ErrMalformed, pos)
	}
	return pos, nil
}

// ValidPosition reports whether pos is a finite, non-negative number of seconds.
func ValidPosition(pos float64) bool {
	return !math.IsNaN(pos) && !math.IsInf(pos, 0) && pos >= 0
}

// DecodeString decodes a JSON string payload such as a room id or an error message.
func DecodeString(data json.RawMessage) (string, error) {
	s, err := decodeIdentifier(data)
	if err != nil {
		return "", err
	}
	return s, nil
}

// DecodeRooms decodes a rooms-list payload. A null payload is an empty list.
func DecodeRooms(data json.RawMessage) ([]RoomSummary, error) {
	var rooms []RoomSummary
	if err := decodeList(data, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// DecodeMembers decodes a users-list payload. A null payload is an empty list.
func DecodeMembers(data json.RawMessage) ([]Member, error) {
	var members []Member
	if err := decodeList(data, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func decodeList(data json.RawMessage, v any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// decodeIdentifier accepts a non-empty string or an integral number.
func decodeIdentifier(data json.RawMessage) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", fmt.Errorf("%w: missing identifier", ErrMalformed)
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", fmt.Errorf("%w: empty identifier", ErrMalformed)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return n.String(), nil
}

// decodeOptionalIdentifier returns the first present identifier among candidates, or "".
func decodeOptionalIdentifier(candidates ...json.RawMessage) (string, error) {
	for _, c := range candidates {
		c = bytes.TrimSpace(c)
		if len(c) == 0 || bytes.Equal(c, []byte("null")) || bytes.Equal(c, []byte(`""`)) {
			continue
		}
		return decodeIdentifier(c)
	}
	return "", nil
}

func decodeOptionalPosition(data json.RawMessage) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, nil
	}
	return DecodePosition(data)
}
