package player

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/omxconductor/omxconductor/filesystem"
	"github.com/omxconductor/omxconductor/where"
)

const (
	mprisPath            = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	mprisPlayerInterface = "org.mpris.MediaPlayer2.Player"

	// omxplayer answers property reads as methods on the properties interface.
	propertiesInterface = "org.freedesktop.DBus.Properties"

	// unusedTrack satisfies the track-id argument of SetPosition, which omxplayer ignores.
	unusedTrack = dbus.ObjectPath("/not/used")
)

// DBusBridge talks MPRIS to omxplayer over its private session bus.
type DBusBridge struct {
	addressFile  string
	replyTimeout time.Duration
}

// NewDBusBridge creates a bridge that reads the bus address from addressFile
// (omxplayer writes it to /tmp/omxplayerdbus.<user>) and bounds every reply by
// replyTimeout.
func NewDBusBridge(addressFile string, replyTimeout time.Duration) *DBusBridge {
	return &DBusBridge{
		addressFile:  addressFile,
		replyTimeout: replyTimeout,
	}
}

// DefaultBusAddressFile is where omxplayer publishes its bus address for the current user.
func DefaultBusAddressFile() string {
	name := os.Getenv("USER")
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return where.BusAddress(name)
}

// address resolves the session bus address, falling back to the environment.
func (b *DBusBridge) address() (string, error) {
	if b.addressFile != "" {
		data, err := filesystem.API().ReadFile(b.addressFile)
		if err == nil {
			if addr := strings.TrimSpace(string(data)); addr != "" {
				return addr, nil
			}
		}
	}

	if addr := os.Getenv("DBUS_SESSION_BUS_ADDRESS"); addr != "" {
		return addr, nil
	}

	return "", fmt.Errorf("no session bus address in %s or environment", b.addressFile)
}

// call opens a fresh connection, invokes method on the player object and
// stores the reply into out (which may be nil).
func (b *DBusBridge) call(ctx context.Context, name, method string, out interface{}, args ...interface{}) error {
	if b.replyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.replyTimeout)
		defer cancel()
	}

	addr, err := b.address()
	if err != nil {
		return err
	}

	conn, err := dbus.Connect(addr, dbus.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	call := conn.Object(name, mprisPath).CallWithContext(ctx, method, 0, args...)
	if call.Err != nil {
		return fmt.Errorf("%s: %w", method, call.Err)
	}

	if out == nil {
		return nil
	}

	if err := call.Store(out); err != nil {
		return fmt.Errorf("%s reply: %w", method, err)
	}

	return nil
}

// Status reads PlaybackStatus.
func (b *DBusBridge) Status(ctx context.Context, name string) (PlayStatus, error) {
	var status string
	if err := b.call(ctx, name, propertiesInterface+".PlaybackStatus", &status); err != nil {
		return "", err
	}

	if strings.TrimSpace(status) == string(StatusPlaying) {
		return StatusPlaying, nil
	}
	return StatusPaused, nil
}

// Float reads a numeric property such as Position or Duration.
func (b *DBusBridge) Float(ctx context.Context, name, property string) (float64, error) {
	var v interface{}
	if err := b.call(ctx, name, propertiesInterface+"."+property, &v); err != nil {
		return 0, err
	}

	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("property %s: unexpected %T", property, v)
	}
}

// SetPosition seeks to an absolute position.
func (b *DBusBridge) SetPosition(ctx context.Context, name string, pos time.Duration) error {
	return b.call(ctx, name, mprisPlayerInterface+".SetPosition", nil, unusedTrack, busUnits(pos))
}

func (b *DBusBridge) Pause(ctx context.Context, name string) error {
	return b.call(ctx, name, mprisPlayerInterface+".Pause", nil)
}

func (b *DBusBridge) Stop(ctx context.Context, name string) error {
	return b.call(ctx, name, mprisPlayerInterface+".Stop", nil)
}

// Resume maps to Play, which omxplayer treats as unpause.
func (b *DBusBridge) Resume(ctx context.Context, name string) error {
	return b.call(ctx, name, mprisPlayerInterface+".Play", nil)
}
