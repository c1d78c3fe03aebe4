package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func TestBackend(t *testing.T) {
	Convey("Given the backend switches", t, func() {
		defer SetOsFs()

		SetOsFs()
		So(API().Name(), ShouldEqual, "OsFs")

		SetMemMapFs()
		So(API().Name(), ShouldEqual, "MemMapFS")

		ro := afero.NewReadOnlyFs(afero.NewMemMapFs())
		Use(ro)
		So(API().Fs, ShouldEqual, ro)
	})
}

func TestRemove(t *testing.T) {
	Convey("Given an in-memory tree", t, func() {
		SetMemMapFs()
		defer SetOsFs()

		So(API().MkdirAll("/cache/nested", os.ModePerm), ShouldBeNil)
		So(API().WriteFile("/cache/nested/a.json", []byte("{}"), 0o644), ShouldBeNil)

		Convey("Remove deletes the whole subtree", func() {
			removed, err := Remove("/cache")
			So(err, ShouldBeNil)
			So(removed, ShouldBeTrue)
			So(Exists("/cache/nested/a.json"), ShouldBeFalse)
		})

		Convey("Removing a missing path is a no-op", func() {
			removed, err := Remove("/nowhere")
			So(err, ShouldBeNil)
			So(removed, ShouldBeFalse)
		})
	})
}

func TestGacheFs(t *testing.T) {
	Convey("Given the gache adapter on memory", t, func() {
		SetMemMapFs()
		defer SetOsFs()

		var g GacheFs
		So(g.MkdirAll("/c", os.ModePerm), ShouldBeNil)

		f, err := g.OpenFile("/c/x.json", os.O_CREATE|os.O_WRONLY, 0o644)
		So(err, ShouldBeNil)
		_, err = f.Write([]byte(`{"a":1}`))
		So(err, ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		data, err := API().ReadFile("/c/x.json")
		So(err, ShouldBeNil)
		So(string(data), ShouldEqual, `{"a":1}`)
	})
}
