package bridge

import (
	"github.com/godbus/dbus/v5"

	"github.com/lbonnet/mpvris/internal/dbusutil"
	"github.com/lbonnet/mpvris/logger"
)

// aoGain is the default device gain control, backed by mpv's ao-volume
// property (the output driver's own gain, 0-100).
type aoGain struct {
	player Player
}

func (g *aoGain) Get() (float64, error) {
	v, err := g.player.GetFloat(propAOVolume)
	if err != nil {
		return 0, err
	}
	return v / 100, nil
}

func (g *aoGain) Set(v float64) error {
	return g.player.SetFloat(propAOVolume, v*100)
}

// volume composes the logical player volume and the output-device gain
// into one normalized value. Either component defaults to full scale when
// unreadable.
func (b *Bridge) volume() (interface{}, error) {
	logical := b.player.GetFloatOr(propVolume, 100) / 100

	device := 1.0
	if v, err := b.gain.Get(); err == nil {
		device = v
	}

	return logical * device, nil
}

// setVolume inverts the composition: the logical volume is left alone and
// the device gain absorbs the change, clamped at zero. When the device
// write fails the logical volume is written at full scale instead, which
// changes the effective gain distribution; established behavior, kept.
func (b *Bridge) setVolume(v dbus.Variant) *dbus.Error {
	target, ok := dbusutil.Float64(v)
	if !ok {
		return &dbus.ErrMsgInvalidArg
	}

	logical := b.player.GetFloatOr(propVolume, 100) / 100

	device := 0.0
	if logical > 0 {
		device = target / logical
	}
	if device < 0 {
		device = 0
	}

	if err := b.gain.Set(device); err != nil {
		logger.Warn("[bridge] device gain write failed, falling back to player volume: %v", err)
		if err := b.player.SetFloat(propVolume, target*100); err != nil {
			return dbus.MakeFailedError(err)
		}
	}
	return nil
}
