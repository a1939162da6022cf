package config

import (
	"fmt"
	"time"

	"github.com/omxconductor/omxconductor/key"
	"github.com/omxconductor/omxconductor/player"
	"github.com/spf13/viper"
)

// PlayerSettings assembles session settings from the merged configuration.
func PlayerSettings() (player.Settings, error) {
	color, err := player.ParseColor(viper.GetString(key.PlayerBackgroundColor))
	if err != nil {
		return player.Settings{}, fmt.Errorf("%s: %w", key.PlayerBackgroundColor, err)
	}

	s := player.Settings{
		Layer:                  viper.GetInt(key.PlayerLayer),
		DBusName:               viper.GetString(key.PlayerDBusName),
		AudioOutput:            player.AudioOutput(viper.GetString(key.PlayerAudioOutput)),
		BackgroundColor:        color,
		NoBackgroundColor:      viper.GetBool(key.PlayerNoBackgroundColor),
		Loop:                   viper.GetBool(key.PlayerLoop),
		ProgressInterval:       viper.GetInt(key.PlayerProgressInterval),
		Volume:                 viper.GetFloat64(key.PlayerVolume),
		DisableKeys:            viper.GetBool(key.PlayerDisableKeys),
		DisableOnScreenDisplay: viper.GetBool(key.PlayerDisableOnScreenDisplay),
		Orientation:            viper.GetInt(key.PlayerOrientation),
		Subtitles:              viper.GetString(key.PlayerSubtitles),
		ExtraArgs:              viper.GetStringSlice(key.PlayerExtraArgs),
	}

	s = s.Resolve()
	if err := s.Validate(); err != nil {
		return player.Settings{}, err
	}

	return s, nil
}

// PollInterval returns the configured delay between readiness checks.
func PollInterval() time.Duration {
	return time.Duration(viper.GetInt(key.ControlPollInterval)) * time.Millisecond
}
