package bridge

import (
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/lbonnet/mpvris/config"
)

// Player is the accessor surface of the host media player the bridge
// drives. *player.Client implements it.
type Player interface {
	GetBool(name string) (bool, error)
	GetBoolOr(name string, def bool) bool
	GetInt(name string) (int64, error)
	GetIntOr(name string, def int64) int64
	GetFloat(name string) (float64, error)
	GetFloatOr(name string, def float64) float64
	GetString(name string) (string, error)
	GetStringOr(name, def string) string

	SetBool(name string, v bool) error
	SetFloat(name string, v float64) error
	SetString(name, v string) error
	Command(args ...interface{}) error

	Observe(name string, fn func()) error
	OnEvent(name string, fn func())

	Running() bool
	Wakeup() <-chan struct{}
	NextTimeout() time.Duration
	Dispatch() error
}

// GainControl is the output-device gain component of the Volume property.
// The default implementation goes through mpv's ao-volume; audio.PulseGain
// drives the PulseAudio sink directly. Values are normalized to [0, 1]
// (may exceed 1 for amplification).
type GainControl interface {
	Get() (float64, error)
	Set(v float64) error
}

// emitter is the slice of the bus connection used for signal emission.
// *dbus.Conn implements it.
type emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// seekState is the two-state machine coordinating the seek-start and
// playback-restart events into a single Seeked emission.
type seekState int

const (
	seekIdle seekState = iota
	seekPending
)

// busCall is an inbound bus request queued for the event loop. Calls not
// served before their deadline are answered with a failure reply.
type busCall struct {
	run      func() *dbus.Error
	done     chan *dbus.Error
	deadline time.Time
}

// Bridge owns the MPRIS object model: descriptor tables, dispatch,
// change propagation and the event loop. All player access happens on the
// loop goroutine; exported bus handlers queue their work onto it.
type Bridge struct {
	cfg    *config.BridgeConfig
	player Player
	gain   GainControl

	conn *dbus.Conn
	emit emitter

	root  *interfaceTable
	ctrl  *interfaceTable
	props *interfaceTable

	calls       chan *busCall
	queued      []*busCall
	callTimeout time.Duration
	stopped     chan struct{}

	seek seekState
}
