package log

import (
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/syncwatch-cli/syncwatch/filesystem"
	"github.com/syncwatch-cli/syncwatch/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("Nothing is persisted and structured entries are inert", func() {
			So(Enabled(), ShouldBeFalse)
			So(func() { With(Fields{"room": "r1"}).Info("joined") }, ShouldNotPanic)
			So(filesystem.Exists(Path(time.Now())), ShouldBeFalse)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		viper.Set(key.LogsJson, true)
		defer func() {
			viper.Set(key.LogsWrite, false)
			viper.Set(key.LogsJson, false)
			_ = Setup()
		}()

		So(Setup(), ShouldBeNil)

		Convey("Entries land in today's file with their fields", func() {
			So(Enabled(), ShouldBeTrue)

			With(Fields{"room": "r1"}).Debug("joined")

			data := string(lo.Must(filesystem.API().ReadFile(Path(time.Now()))))
			So(data, ShouldContainSubstring, `"room":"r1"`)
			So(data, ShouldContainSubstring, `"msg":"joined"`)
			So(data, ShouldContainSubstring, `"version"`)
		})

		Convey("Levels below the configured one are dropped", func() {
			viper.Set(key.LogsLevel, "warn")
			So(Setup(), ShouldBeNil)

			Debugf("hidden %d", 1)
			Warnf("shown %d", 2)

			data := string(lo.Must(filesystem.API().ReadFile(Path(time.Now()))))
			So(data, ShouldNotContainSubstring, "hidden 1")
			So(data, ShouldContainSubstring, "shown 2")
		})
	})
}
