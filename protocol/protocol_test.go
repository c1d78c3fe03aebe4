package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEnvelope(t *testing.T) {
	Convey("NewEnvelope", t, func() {
		Convey("Should marshal the payload under data", func() {
			env, err := NewEnvelope(JoinRoom, JoinRequest{RoomID: "r1", Nickname: "ann"})
			So(err, ShouldBeNil)

			out, err := json.Marshal(env)
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, `{"event":"join-room","data":{"roomId":"r1","nickname":"ann"}}`)
		})

		Convey("Should omit data for payload-less events", func() {
			env, err := NewEnvelope(GetRooms, nil)
			So(err, ShouldBeNil)

			out, err := json.Marshal(env)
			So(err, ShouldBeNil)
			So(string(out), ShouldEqual, `{"event":"get-rooms"}`)
		})
	})

	Convey("Inbound", t, func() {
		So(Inbound(SyncSeek), ShouldBeTrue)
		So(Inbound(RoomJoined), ShouldBeTrue)
		So(Inbound(Seek), ShouldBeFalse)
		So(Inbound("movies-list"), ShouldBeFalse)
	})
}

func TestDecodePosition(t *testing.T) {
	Convey("DecodePosition", t, func() {
		Convey("Should accept numbers and numeric strings", func() {
			pos, err := DecodePosition(json.RawMessage(`42.5`))
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 42.5)

			pos, err = DecodePosition(json.RawMessage(`" 10.3 "`))
			So(err, ShouldBeNil)
			So(pos, ShouldEqual, 10.3)
		})

		Convey("Should reject missing, negative and non-numeric values", func() {
			for _, raw := range []string{``, `null`, `-1`, `"abc"`, `{}`, `true`} {
				_, err := DecodePosition(json.RawMessage(raw))
				So(errors.Is(err, ErrMalformed), ShouldBeTrue)
			}
		})
	})
}

func TestJoined(t *testing.T) {
	Convey("Given a room-joined payload", t, func() {
		Convey("With media selected", func() {
			var j Joined
			err := json.Unmarshal([]byte(`{"roomId":"r1","video":"7","time":12.5,"playing":true}`), &j)
			So(err, ShouldBeNil)
			So(j, ShouldResemble, Joined{RoomID: "r1", MediaRef: "7", Position: 12.5, Playing: true})
		})

		Convey("With a numeric media identifier", func() {
			var j Joined
			err := json.Unmarshal([]byte(`{"roomId":"r1","media":7}`), &j)
			So(err, ShouldBeNil)
			So(j.MediaRef, ShouldEqual, "7")
			So(j.Position, ShouldEqual, 0)
		})

		Convey("Without media", func() {
			var j Joined
			err := json.Unmarshal([]byte(`{"roomId":"r1","video":null,"time":0,"playing":false}`), &j)
			So(err, ShouldBeNil)
			So(j.MediaRef, ShouldBeEmpty)
		})

		Convey("Without a room id", func() {
			var j Joined
			err := json.Unmarshal([]byte(`{"time":3}`), &j)
			So(errors.Is(err, ErrMalformed), ShouldBeTrue)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a load-media payload", t, func() {
		Convey("It decodes the reference and start position", func() {
			var l Load
			So(json.Unmarshal([]byte(`{"mediaRef":"movie.mp4","time":0}`), &l), ShouldBeNil)
			So(l, ShouldResemble, Load{MediaRef: "movie.mp4"})
		})

		Convey("It requires a media reference", func() {
			var l Load
			err := json.Unmarshal([]byte(`{"time":4}`), &l)
			So(errors.Is(err, ErrMalformed), ShouldBeTrue)
		})
	})
}

func TestLists(t *testing.T) {
	Convey("DecodeRooms", t, func() {
		rooms, err := DecodeRooms(json.RawMessage(`[{"id":"r1","users":2,"video":"Heat (1995)","playing":true},{"id":"r2","userCount":0}]`))
		So(err, ShouldBeNil)
		So(rooms, ShouldResemble, []RoomSummary{
			{ID: "r1", UserCount: 2, MediaLabel: "Heat (1995)", Playing: true},
			{ID: "r2"},
		})

		rooms, err = DecodeRooms(json.RawMessage(`null`))
		So(err, ShouldBeNil)
		So(rooms, ShouldBeEmpty)

		_, err = DecodeRooms(json.RawMessage(`{"id":"r1"}`))
		So(errors.Is(err, ErrMalformed), ShouldBeTrue)
	})

	Convey("DecodeMembers", t, func() {
		members, err := DecodeMembers(json.RawMessage(`[{"nickname":"ann","currentTime":61.2,"lastUpdate":"x"}]`))
		So(err, ShouldBeNil)
		So(members, ShouldResemble, []Member{{Nickname: "ann", Position: 61.2}})
	})

	Convey("DecodeString", t, func() {
		s, err := DecodeString(json.RawMessage(`"room is full"`))
		So(err, ShouldBeNil)
		So(s, ShouldEqual, "room is full")

		_, err = DecodeString(json.RawMessage(`""`))
		So(errors.Is(err, ErrMalformed), ShouldBeTrue)
	})
}
