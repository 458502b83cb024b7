// Package audio provides the PulseAudio-backed device gain control used by
// the Volume property when audio.backend is "pulse". The default device
// gain control goes through mpv itself (ao-volume) and lives in the bridge
// package.
package audio

import (
	"fmt"

	"github.com/the-jonsey/pulseaudio"

	"github.com/lbonnet/mpvris/config"
	"github.com/lbonnet/mpvris/logger"
)

// PulseGain drives the default sink volume directly through the PulseAudio
// native protocol.
type PulseGain struct {
	client *pulseaudio.Client
}

// NewPulseGain connects to the per-user PulseAudio (or PipeWire-pulse)
// daemon.
func NewPulseGain(cfg *config.AudioConfig) (*PulseGain, error) {
	address := fmt.Sprintf("%s/pulse/native", cfg.XDGRuntimeDir)

	client, err := pulseaudio.NewClient(address)
	if err != nil {
		return nil, err
	}

	logger.Info("[audio] pulseaudio gain control connected at %s", address)
	return &PulseGain{client: client}, nil
}

// Get returns the default sink volume, normalized to [0, 1].
func (g *PulseGain) Get() (float64, error) {
	volume, err := g.client.Volume()
	if err != nil {
		return 0, err
	}
	return float64(volume), nil
}

// Set writes the default sink volume from a normalized [0, 1] value.
func (g *PulseGain) Set(v float64) error {
	return g.client.SetVolume(float32(v))
}

// Close releases the PulseAudio connection.
func (g *PulseGain) Close() {
	if g.client != nil {
		g.client.Close()
	}
}
