package auth

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zalando/go-keyring"
)

func TestToken(t *testing.T) {
	keyring.MockInit()

	Convey("Given an empty keyring", t, func() {
		So(DeleteToken(), ShouldBeNil)

		Convey("Token reports no token without an error", func() {
			token, err := Token()
			So(err, ShouldBeNil)
			So(token, ShouldBeEmpty)
		})

		Convey("A stored token can be read back and removed", func() {
			So(SetToken("s3cret"), ShouldBeNil)
			So(lookup(), ShouldEqual, "s3cret")

			So(DeleteToken(), ShouldBeNil)
			So(lookup(), ShouldBeEmpty)
		})
	})
}

func lookup() string {
	token, err := Token()
	So(err, ShouldBeNil)
	return token
}
