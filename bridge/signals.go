package bridge

import (
	"github.com/godbus/dbus/v5"

	"github.com/lbonnet/mpvris/logger"
)

// bindObservers registers one observer per watched mpv property plus the
// two lifecycle callbacks driving the Seeked signal. Called once at
// startup; bindings live until the connection goes down.
func (b *Bridge) bindObservers() error {
	bindings := []struct {
		mpvProp string
		table   *interfaceTable
		prop    string
	}{
		{propPause, b.ctrl, "PlaybackStatus"},
		{propIdleActive, b.ctrl, "PlaybackStatus"},
		{propLoopFile, b.ctrl, "LoopStatus"},
		{propLoopPlaylist, b.ctrl, "LoopStatus"},
		{propSpeed, b.ctrl, "Rate"},
		{propShuffle, b.ctrl, "Shuffle"},
		{propMediaTitle, b.ctrl, "Metadata"},
		{propDuration, b.ctrl, "Metadata"},
		{propPlaylistPos, b.ctrl, "Metadata"},
		{propVolume, b.ctrl, "Volume"},
		{propAOVolume, b.ctrl, "Volume"},
		{propFullscreen, b.root, "Fullscreen"},
		{propVOConfigured, b.root, "CanSetFullscreen"},
	}

	for _, bind := range bindings {
		bind := bind
		if err := b.player.Observe(bind.mpvProp, func() {
			b.propertyChanged(bind.table, bind.prop)
		}); err != nil {
			return err
		}
	}

	b.player.OnEvent(eventSeek, b.seekStarted)
	b.player.OnEvent(eventPlaybackRestart, b.playbackRestarted)
	return nil
}

// propertyChanged emits PropertiesChanged for a single property, with the
// value recomputed at emission time. One signal per change notification,
// naming only that property; never batched.
func (b *Bridge) propertyChanged(t *interfaceTable, name string) {
	entry, ok := t.props[name]
	if !ok {
		return
	}
	v, err := entry.get()
	if err != nil {
		logger.Warn("[bridge] skip %s change signal, getter failed: %v", name, err)
		return
	}

	changed := map[string]dbus.Variant{name: dbus.MakeVariant(v)}
	if err := b.emit.Emit(pathMPRIS, sigPropertiesChanged, t.name, changed, []string{}); err != nil {
		logger.Warn("[bridge] emit PropertiesChanged %s: %v", name, err)
	}
}

// seekStarted arms the seek machine on mpv's seek event.
func (b *Bridge) seekStarted() {
	b.seek = seekPending
}

// playbackRestarted emits Seeked only when the restart completes a seek.
// Ordinary playback restarts (track change, unpause after cache refill)
// find the machine idle and emit nothing.
func (b *Bridge) playbackRestarted() {
	if b.seek != seekPending {
		return
	}
	b.seek = seekIdle

	pos, _ := b.position()
	if err := b.emit.Emit(pathMPRIS, sigSeeked, pos); err != nil {
		logger.Warn("[bridge] emit Seeked: %v", err)
	}
}
