package config

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/syncwatch-cli/syncwatch/filesystem"
	"github.com/syncwatch-cli/syncwatch/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.IsSet(name), ShouldBeTrue)
			}
			So(len(Default), ShouldEqual, key.DefinedFieldsCount)
		})

		Convey("Should keep the seek threshold a float", func() {
			_ = Setup()
			So(viper.GetFloat64(key.SyncSeekThreshold), ShouldEqual, 0.5)
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("sync.seek_threshold")
			So(result, ShouldEqual, "sync_seek_threshold")
		})
	})
}

func TestMillis(t *testing.T) {
	Convey("Given millisecond settings", t, func() {
		_ = Setup()

		Convey("It converts the configured value", func() {
			viper.Set(key.SyncGuardTimeoutMs, 180)
			So(Millis(key.SyncGuardTimeoutMs), ShouldEqual, 180*time.Millisecond)
		})

		Convey("It falls back to the default for non-positive values", func() {
			viper.Set(key.SyncSettleGraceMs, 0)
			So(Millis(key.SyncSettleGraceMs), ShouldEqual, 100*time.Millisecond)
		})
	})
}

func TestFieldEnv(t *testing.T) {
	Convey("Field.Env prefixes the application name", t, func() {
		f := Default[key.ServerURL]
		So(f.Env(), ShouldEqual, "SYNCWATCH_SERVER_URL")
	})
}
