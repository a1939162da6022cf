package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omxconductor/omxconductor/color"
	"github.com/omxconductor/omxconductor/config"
	"github.com/omxconductor/omxconductor/feed"
	"github.com/omxconductor/omxconductor/icon"
	"github.com/omxconductor/omxconductor/key"
	"github.com/omxconductor/omxconductor/log"
	"github.com/omxconductor/omxconductor/player"
	"github.com/omxconductor/omxconductor/style"
	"github.com/omxconductor/omxconductor/tui"
	"github.com/omxconductor/omxconductor/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// stopTimeout bounds the stop issued when the user interrupts a session.
const stopTimeout = 3 * time.Second

func init() {
	rootCmd.AddCommand(playCmd)

	defaults := player.DefaultSettings()
	flags := playCmd.Flags()

	bind := func(k, name string) {
		lo.Must0(viper.BindPFlag(k, flags.Lookup(name)))
	}

	flags.IntP("layer", "l", defaults.Layer, "Overlay layer of the video surface")
	bind(key.PlayerLayer, "layer")
	flags.String("dbus-name", defaults.DBusName, "Base session bus name of the player")
	bind(key.PlayerDBusName, "dbus-name")
	flags.StringP("audio", "o", string(defaults.AudioOutput), "Audio output route (hdmi, local, both)")
	bind(key.PlayerAudioOutput, "audio")
	lo.Must0(playCmd.RegisterFlagCompletionFunc("audio", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(player.AudioHDMI), string(player.AudioLocal), string(player.AudioBoth)}, cobra.ShellCompDirectiveNoFileComp
	}))
	flags.StringP("background", "b", player.FormatColor(defaults.BackgroundColor), "Background color as 0xAARRGGBB")
	bind(key.PlayerBackgroundColor, "background")
	flags.Bool("no-background", defaults.NoBackgroundColor, "Do not paint a background behind the video")
	bind(key.PlayerNoBackgroundColor, "no-background")
	flags.Bool("loop", defaults.Loop, "Loop playback")
	bind(key.PlayerLoop, "loop")
	flags.Int("interval", defaults.ProgressInterval, "Milliseconds between progress samples")
	bind(key.PlayerProgressInterval, "interval")
	flags.Float64("volume", defaults.Volume, "Initial linear volume (1.0 is unity gain)")
	bind(key.PlayerVolume, "volume")
	flags.Bool("no-keys", defaults.DisableKeys, "Ignore keyboard input in the player")
	bind(key.PlayerDisableKeys, "no-keys")
	flags.Bool("no-osd", defaults.DisableOnScreenDisplay, "Suppress the player's on-screen display")
	bind(key.PlayerDisableOnScreenDisplay, "no-osd")
	flags.Int("orientation", defaults.Orientation, "Display orientation in degrees (0, 90, 180, 270)")
	bind(key.PlayerOrientation, "orientation")
	flags.String("subtitles", "", "Subtitle file")
	bind(key.PlayerSubtitles, "subtitles")
	flags.StringSlice("extra", nil, "Additional raw player arguments")
	bind(key.PlayerExtraArgs, "extra")
	flags.String("pipe-dir", "", "Directory holding the session named pipe")
	bind(key.PlayerPipeDir, "pipe-dir")
	flags.Bool("tui", true, "Show the interactive progress view")
	bind(key.CliTUI, "tui")
	flags.String("listen", "", "Serve the websocket event feed on this address")
	bind(key.FeedListen, "listen")

	flags.BoolP("wait-on-black", "w", false, "Hold the first frame paused once the player is controllable")
	flags.StringArray("at", nil, "Run an action when playback reaches a position: <ms>=pause|resume|stop|log|seek:<ms>")
	flags.BoolP("test", "t", false, "Print the player invocation without running it")
	flags.BoolP("json", "j", false, "With --test, print the invocation as JSON")

	playCmd.SetOut(os.Stdout)
}

// playCmd runs a single playback session.
var playCmd = &cobra.Command{
	Use:   "play <file|url>",
	Short: "Play a local file or stream and follow the session",
	Example: "  " + "omxconductor play media/intro.mp4 --wait-on-black\n" +
		"  " + "omxconductor play loop.mp4 --layer 2 --at 9500=seek:0 --listen :8080",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(runPlay(cmd, args[0]))
	},
}

func newSession(target string) (*player.Player, error) {
	settings, err := config.PlayerSettings()
	if err != nil {
		return nil, err
	}

	interval := config.PollInterval()
	return player.New(target, settings,
		player.WithBridge(player.NewDBusBridge(player.DefaultBusAddressFile(), interval)),
		player.WithPollInterval(interval),
		player.WithPollAttempts(viper.GetInt(key.ControlPollAttempts)),
		player.WithPipeDir(viper.GetString(key.PlayerPipeDir)),
	), nil
}

func runPlay(cmd *cobra.Command, target string) error {
	flags := cmd.Flags()
	waitOnBlack := lo.Must(flags.GetBool("wait-on-black"))

	actions, err := parseActions(lo.Must(flags.GetStringArray("at")))
	if err != nil {
		return err
	}

	p, err := newSession(target)
	if err != nil {
		return err
	}

	if lo.Must(flags.GetBool("test")) {
		return printInvocation(cmd, p, waitOnBlack, lo.Must(flags.GetBool("json")))
	}

	if err := CheckDependencies(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	closed := make(chan player.ClosedEvent, 1)
	p.Subscribe(func(e player.Event) {
		if ev, ok := e.(player.ClosedEvent); ok {
			select {
			case closed <- ev:
			default:
			}
		}
	})

	if addr := viper.GetString(key.FeedListen); addr != "" {
		srv := feed.NewServer(viper.GetInt(key.FeedSendBuf))
		srv.Attach(p)
		go func() {
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				log.Errorf("feed: %v", err)
				cmd.PrintErrf("%s feed: %v\n", icon.Get(icon.Fail), err)
			}
		}()
	}

	for _, a := range actions {
		p.RegisterPositionTrigger(a.at, func(pos time.Duration) {
			if err := a.run(ctx, p, pos); err != nil {
				log.Warnf("action %s: %v", a, err)
			}
			if a.kind == actionLog {
				cmd.Printf("\n%s reached %s\n", style.Fg(color.Cyan)(a.String()), formatPosition(pos))
			}
		})
	}
	if len(actions) > 0 {
		log.Infof("scheduled %s", util.Quantify(len(actions), "action", "actions"))
	}

	result, err := p.Open(ctx, waitOnBlack)
	if err != nil {
		_ = p.Close()
		return err
	}

	if viper.GetBool(key.CliTUI) && util.IsTerminal() {
		err := tui.Run(ctx, p, &tui.Options{Resource: result.Resource})
		finish(p)
		return err
	}

	return follow(ctx, cmd, p, result, closed)
}

// follow prints progress until the session closes or the user interrupts it.
func follow(ctx context.Context, cmd *cobra.Command, p *player.Player, result *player.Result, closed <-chan player.ClosedEvent) error {
	cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Play)), result.Resource)

	erase := func() {}
	p.Subscribe(func(e player.Event) {
		switch ev := e.(type) {
		case player.ProgressEvent:
			erase()
			erase = util.PrintErasable(fmt.Sprintf("%s %s / %s", icon.Get(icon.Progress), formatPosition(ev.Position), formatPosition(ev.Duration)))
		case player.PausedEvent:
			cmd.Printf("\n%s paused\n", icon.Get(icon.Pause))
		case player.ResumedEvent:
			cmd.Printf("\n%s resumed\n", icon.Get(icon.Play))
		case player.StoppedEvent:
			cmd.Printf("\n%s stopped\n", icon.Get(icon.Stop))
		case player.ErrorEvent:
			cmd.PrintErrf("\n%s %v\n", icon.Get(icon.Fail), ev.Err)
		}
	})

	select {
	case <-ctx.Done():
		finish(p)
		ev := <-closed
		return exitErr(ev)
	case ev := <-closed:
		cmd.Println()
		return exitErr(ev)
	}
}

// finish stops a live session and makes sure the process is gone.
func finish(p *player.Player) {
	if p.State().Controllable() {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		if err := p.Stop(ctx); err != nil {
			log.Warnf("stop: %v", err)
		}
	}
	if err := p.Close(); err != nil {
		log.Warnf("close: %v", err)
	}
}

// exitErr reports an abnormal exit, ignoring the signal used to end the session.
func exitErr(ev player.ClosedEvent) error {
	if ev.Err == nil {
		return nil
	}

	var coder interface{ ExitCode() int }
	if errors.As(ev.Err, &coder) && coder.ExitCode() == -1 {
		return nil
	}

	if ev.Stderr != "" {
		return fmt.Errorf("%w: %s", ev.Err, ev.Stderr)
	}
	return ev.Err
}

func printInvocation(cmd *cobra.Command, p *player.Player, waitOnBlack, asJson bool) error {
	p.EnableTestMode()

	result, err := p.Open(context.Background(), waitOnBlack)
	if err != nil {
		return err
	}

	if asJson {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	cmd.Println(result.Invocation.Command)
	return nil
}

func formatPosition(d time.Duration) string {
	return d.Truncate(100 * time.Millisecond).String()
}
