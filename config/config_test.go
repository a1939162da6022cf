package config

import (
	"testing"

	"github.com/omxconductor/omxconductor/filesystem"
	"github.com/omxconductor/omxconductor/key"
	"github.com/omxconductor/omxconductor/player"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
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
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("player.audio_output")
			So(result, ShouldEqual, "player_audio_output")
		})

		Convey("Field env names carry the application prefix", func() {
			f := Default[key.PlayerLayer]
			So(f.Env(), ShouldEqual, "OMXCONDUCTOR_PLAYER_LAYER")
		})
	})
}

func TestPlayerSettings(t *testing.T) {
	Convey("PlayerSettings", t, func() {
		So(Setup(), ShouldBeNil)
		Reset(func() {
			viper.Set(key.PlayerLayer, 1)
			viper.Set(key.PlayerAudioOutput, "both")
			viper.Set(key.PlayerBackgroundColor, "0xff000000")
		})

		Convey("Should match the library defaults", func() {
			s, err := PlayerSettings()
			So(err, ShouldBeNil)
			So(s, ShouldResemble, player.DefaultSettings())
		})

		Convey("Should derive the control-channel name from the layer", func() {
			viper.Set(key.PlayerLayer, 3)
			s, err := PlayerSettings()
			So(err, ShouldBeNil)
			So(s.DBusName, ShouldEqual, player.DefaultDBusName+"3")
		})

		Convey("Should reject an unknown audio route", func() {
			viper.Set(key.PlayerAudioOutput, "spdif")
			_, err := PlayerSettings()
			So(err, ShouldNotBeNil)
		})

		Convey("Should reject a malformed color", func() {
			viper.Set(key.PlayerBackgroundColor, "black")
			_, err := PlayerSettings()
			So(err, ShouldNotBeNil)
		})
	})
}
