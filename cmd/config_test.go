package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/omxconductor/omxconductor/config"
	"github.com/omxconductor/omxconductor/filesystem"
	"github.com/omxconductor/omxconductor/key"
	"github.com/omxconductor/omxconductor/player"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func setupConfig() {
	filesystem.SetMemMapFs()
	So(config.Setup(), ShouldBeNil)
}

func TestSetConfigValue(t *testing.T) {
	Convey("setConfigValue", t, func() {
		setupConfig()
		Reset(func() {
			viper.Set(key.PlayerLayer, player.DefaultLayer)
			viper.Set(key.PlayerVolume, 1.0)
			filesystem.SetOsFs()
		})

		Convey("Applies a valid player value", func() {
			v, err := setConfigValue(key.PlayerLayer, []string{"2"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 2)
			So(viper.GetInt(key.PlayerLayer), ShouldEqual, 2)

			settings, err := config.PlayerSettings()
			So(err, ShouldBeNil)
			So(settings.DBusName, ShouldEqual, "org.mpris.MediaPlayer2.omxplayer2")
		})

		Convey("Rejects a player value that cannot start a session", func() {
			_, err := setConfigValue(key.PlayerLayer, []string{"0"})
			So(err, ShouldNotBeNil)
			So(errors.Is(err, player.ErrInvalidSettings), ShouldBeTrue)
			So(viper.GetInt(key.PlayerLayer), ShouldEqual, player.DefaultLayer)
		})

		Convey("Rejects a non-finite volume", func() {
			_, err := setConfigValue(key.PlayerVolume, []string{"NaN"})
			So(errors.Is(err, player.ErrInvalidSettings), ShouldBeTrue)
			So(viper.GetFloat64(key.PlayerVolume), ShouldEqual, 1.0)
		})

		Convey("Rejects values of the wrong type", func() {
			_, err := setConfigValue(key.PlayerLayer, []string{"two"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "invalid integer")
		})

		Convey("Suggests a known key", func() {
			_, err := setConfigValue("player.layr", []string{"2"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "did you mean player.layer?")
		})

		Convey("config validate reports the resolved session", func() {
			var buf bytes.Buffer
			configValidateCmd.SetOut(&buf)
			So(configValidateCmd.RunE(configValidateCmd, nil), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "layer 1 on")
			So(buf.String(), ShouldContainSubstring, "org.mpris.MediaPlayer2.omxplayer")
		})
	})
}

func TestPrintInvocation(t *testing.T) {
	Convey("play --test", t, func() {
		setupConfig()
		Reset(func() {
			viper.Set(key.PlayerPipeDir, "")
			filesystem.SetOsFs()
		})

		const media = "/media/tenseconds.mp4"
		So(filesystem.API().WriteFile(media, []byte("mp4"), 0644), ShouldBeNil)

		render := func() string {
			p, err := newSession(media)
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			c := &cobra.Command{}
			c.SetOut(&buf)
			So(printInvocation(c, p, false, false), ShouldBeNil)
			return strings.TrimSpace(buf.String())
		}

		Convey("Reads the pipe from the working directory by default", func() {
			So(render(), ShouldEqual,
				`omxplayer "/media/tenseconds.mp4" -o both -b0xff000000 --dbus_name org.mpris.MediaPlayer2.omxplayer --loop --layer 1 --vol 0 --orientation 0 < omxpipe1`)
		})

		Convey("Honours a configured pipe directory", func() {
			viper.Set(key.PlayerPipeDir, "/run/omx")
			So(render(), ShouldEndWith, "< /run/omx/omxpipe1")
		})
	})
}
