package cmd

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/syncwatch-cli/syncwatch/key"
	"github.com/syncwatch-cli/syncwatch/protocol"
)

func TestParseValue(t *testing.T) {
	Convey("Values are converted to the type of the default", t, func() {
		v, err := parseValue(key.SyncSeekThreshold, []string{"0.8"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 0.8)

		v, err = parseValue(key.ConnectionMaxAttempts, []string{"7"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 7)

		v, err = parseValue(key.LogsWrite, []string{"true"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, true)

		v, err = parseValue(key.UserNickname, []string{"ann"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "ann")

		_, err = parseValue(key.ConnectionMaxAttempts, []string{"many"})
		So(err, ShouldNotBeNil)
	})
}

func TestClosestKey(t *testing.T) {
	Convey("Typos are matched to the nearest key", t, func() {
		So(closestKey("user.nicknam"), ShouldEqual, key.UserNickname)
		So(closestKey("server.ulr"), ShouldEqual, key.ServerURL)
	})
}

func TestEnvName(t *testing.T) {
	Convey("Keys map to prefixed upper case variables", t, func() {
		So(envName(key.SyncSeekThreshold), ShouldEqual, "SYNCWATCH_SYNC_SEEK_THRESHOLD")
		So(envName("SYNCWATCH_CONFIG_PATH"), ShouldEqual, "SYNCWATCH_CONFIG_PATH")
	})
}

func TestMask(t *testing.T) {
	Convey("Only the token tail is shown", t, func() {
		So(mask("abcdefgh"), ShouldEqual, "****efgh")
		So(mask("abc"), ShouldEqual, "***")
	})
}

func TestRoomDescription(t *testing.T) {
	Convey("Rooms describe their audience and media", t, func() {
		So(roomDescription(protocol.RoomSummary{ID: "r", UserCount: 1}), ShouldEqual, "1 viewer")

		desc := roomDescription(protocol.RoomSummary{ID: "r", UserCount: 3, MediaLabel: "Heat"})
		So(desc, ShouldStartWith, "3 viewers, ")
		So(desc, ShouldEndWith, "Heat")
	})
}

func TestSchemaTargets(t *testing.T) {
	Convey("Every wire payload has a schema", t, func() {
		for _, name := range []string{"envelope", protocol.RoomsList, protocol.RoomJoined, protocol.LoadMedia, protocol.UsersList, protocol.JoinRoom} {
			So(schemaTargets, ShouldContainKey, name)
		}
		So(schemaNames()[0], ShouldEqual, "catalog-item")
	})
}
