package util

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "viewer", "viewers"), ShouldEqual, "1 viewer")
		So(Quantify(2, "viewer", "viewers"), ShouldEqual, "2 viewers")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestFormatClock(t *testing.T) {
	Convey("FormatClock", t, func() {
		Convey("Should render minutes and seconds", func() {
			So(FormatClock(0), ShouldEqual, "0:00")
			So(FormatClock(42.9), ShouldEqual, "0:42")
			So(FormatClock(605), ShouldEqual, "10:05")
		})
		Convey("Should render hours past the hour", func() {
			So(FormatClock(3725), ShouldEqual, "1:02:05")
		})
		Convey("Should clamp invalid positions", func() {
			So(FormatClock(-3), ShouldEqual, "0:00")
			So(FormatClock(math.NaN()), ShouldEqual, "0:00")
			So(FormatClock(math.Inf(1)), ShouldEqual, "0:00")
		})
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Clamp(7, 0, 5), ShouldEqual, 5)
		So(Clamp(-1, 0, 5), ShouldEqual, 0)
	})
}

func TestFuzzyFilter(t *testing.T) {
	Convey("Given room labels", t, func() {
		labels := []string{"Movie Night", "Anime club", "movies only", "Docs"}
		identity := func(s string) string { return s }

		Convey("An empty query keeps everything", func() {
			So(FuzzyFilter(labels, "  ", identity), ShouldResemble, labels)
		})

		Convey("Matches are case-insensitive and closest first", func() {
			So(FuzzyFilter(labels, "movie", identity), ShouldResemble, []string{"Movie Night", "movies only"})
		})

		Convey("Nothing matches an unrelated query", func() {
			So(FuzzyFilter(labels, "zzz", identity), ShouldBeEmpty)
		})
	})
}
