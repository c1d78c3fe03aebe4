package network

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/syncwatch-cli/syncwatch/constant"
)

func TestClient(t *testing.T) {
	Convey("Given a server that echoes the user agent", t, func() {
		var seen string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.UserAgent()
		}))
		defer srv.Close()

		Convey("Requests carry the application user agent by default", func() {
			resp, err := Client.Get(srv.URL)
			So(err, ShouldBeNil)
			_ = resp.Body.Close()
			So(seen, ShouldEqual, constant.UserAgent)
		})

		Convey("An explicit user agent is preserved", func() {
			req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
			req.Header.Set("User-Agent", "custom/1.0")
			resp, err := Client.Do(req)
			So(err, ShouldBeNil)
			_ = resp.Body.Close()
			So(seen, ShouldEqual, "custom/1.0")
		})
	})
}
