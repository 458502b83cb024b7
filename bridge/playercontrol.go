package bridge

import (
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/lbonnet/mpvris/internal/dbusutil"
)

// playerEntries is the descriptor list for org.mpris.MediaPlayer2.Player:
// transport controls, playback status, metadata, volume, rate, loop and
// shuffle state, and seeking.
func (b *Bridge) playerEntries() []tableEntry {
	return []tableEntry{
		{kind: entryStart},

		{kind: entryMethod, name: "Next", handler: b.thunk(b.next)},
		{kind: entryMethod, name: "Previous", handler: b.thunk(b.previous)},
		{kind: entryMethod, name: "Pause", handler: b.thunk(b.pause)},
		{kind: entryMethod, name: "PlayPause", handler: b.thunk(b.playPause)},
		{kind: entryMethod, name: "Stop", handler: b.thunk(b.stop)},
		{kind: entryMethod, name: "Play", handler: b.thunk(b.play)},
		{kind: entryMethod, name: "Seek", inSig: "x", argNames: []string{"Offset"},
			handler: b.thunkInt(b.seekRelative)},
		{kind: entryMethod, name: "SetPosition", inSig: "ox", argNames: []string{"TrackId", "Position"},
			handler: b.thunkPos(b.setPosition)},
		{kind: entryMethod, name: "OpenUri", inSig: "s", argNames: []string{"Uri"},
			handler: b.thunkStr(b.openURI)},

		{kind: entrySignal, name: "Seeked", inSig: "x", argNames: []string{"Position"}},

		{kind: entryPropRead, name: "PlaybackStatus", propSig: "s", get: b.playbackStatus},
		{kind: entryPropReadWrite, name: "LoopStatus", propSig: "s", get: b.loopStatus, set: b.setLoopStatus},
		{kind: entryPropReadWrite, name: "Rate", propSig: "d", get: b.rate, set: b.setRate},
		{kind: entryPropReadWrite, name: "Shuffle", propSig: "b", get: b.shuffle, set: b.setShuffle},
		{kind: entryPropRead, name: "Metadata", propSig: "a{sv}", get: b.metadata},
		{kind: entryPropReadWrite, name: "Volume", propSig: "d", get: b.volume, set: b.setVolume},
		{kind: entryPropRead, name: "Position", propSig: "x", get: b.position},
		{kind: entryPropRead, name: "MinimumRate", propSig: "d", get: staticProp(minimumRate)},
		{kind: entryPropRead, name: "MaximumRate", propSig: "d", get: staticProp(maximumRate)},
		{kind: entryPropRead, name: "CanGoNext", propSig: "b", get: staticProp(true)},
		{kind: entryPropRead, name: "CanGoPrevious", propSig: "b", get: staticProp(true)},
		{kind: entryPropRead, name: "CanPlay", propSig: "b", get: staticProp(true)},
		{kind: entryPropRead, name: "CanPause", propSig: "b", get: staticProp(true)},
		{kind: entryPropRead, name: "CanSeek", propSig: "b", get: staticProp(true)},
		{kind: entryPropRead, name: "CanControl", propSig: "b", get: staticProp(true)},

		{kind: entryEnd},
	}
}

// --- methods ---

func (b *Bridge) next() *dbus.Error {
	if err := b.player.Command(cmdNext); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (b *Bridge) previous() *dbus.Error {
	if err := b.player.Command(cmdPrev); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (b *Bridge) stop() *dbus.Error {
	if err := b.player.Command(cmdStop); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (b *Bridge) play() *dbus.Error {
	if err := b.player.SetBool(propPause, false); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (b *Bridge) pause() *dbus.Error {
	if err := b.player.SetBool(propPause, true); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// playPause toggles the pause flag. An unreadable pause state fails
// distinctly from a failed write.
func (b *Bridge) playPause() *dbus.Error {
	paused, err := b.player.GetBool(propPause)
	if err != nil {
		return dbus.MakeFailedError(fmt.Errorf("pause state unreadable: %w", err))
	}
	if err := b.player.SetBool(propPause, !paused); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// seekRelative converts the microsecond offset to seconds and issues a
// relative seek.
func (b *Bridge) seekRelative(offset int64) *dbus.Error {
	if err := b.player.Command(cmdSeek, float64(offset)/1e6); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// setPosition writes the absolute time position. The track id is accepted
// but not validated against the current track, matching the established
// behavior of this service.
func (b *Bridge) setPosition(trackID dbus.ObjectPath, position int64) *dbus.Error {
	_ = trackID
	if err := b.player.SetFloat(propTimePos, float64(position)/1e6); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (b *Bridge) openURI(uri string) *dbus.Error {
	if err := b.player.Command(cmdLoadFile, uri); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// --- properties ---

// playbackStatus derives the tri-state by priority: idle wins over paused.
func (b *Bridge) playbackStatus() (interface{}, error) {
	if b.player.GetBoolOr(propIdleActive, false) {
		return statusStopped, nil
	}
	if b.player.GetBoolOr(propPause, false) {
		return statusPaused, nil
	}
	return statusPlaying, nil
}

// loopEnabled reads one of mpv's loop flags, which surface either as the
// string "inf" (or a count) or as the boolean false.
func (b *Bridge) loopEnabled(name string) bool {
	if s, err := b.player.GetString(name); err == nil {
		return s != "" && s != "no"
	}
	return b.player.GetBoolOr(name, false)
}

func (b *Bridge) loopStatus() (interface{}, error) {
	if b.loopEnabled(propLoopFile) {
		return loopTrack, nil
	}
	if b.loopEnabled(propLoopPlaylist) {
		return loopPlaylist, nil
	}
	return loopNone, nil
}

// setLoopStatus maps the MPRIS value onto mpv's two loop flags, always
// clearing the mutually exclusive one.
func (b *Bridge) setLoopStatus(v dbus.Variant) *dbus.Error {
	status, ok := dbusutil.String(v)
	if !ok {
		return &dbus.ErrMsgInvalidArg
	}

	file, playlist := "no", "no"
	switch status {
	case loopTrack:
		file = "inf"
	case loopPlaylist:
		playlist = "inf"
	}

	if err := b.player.SetString(propLoopFile, file); err != nil {
		return dbus.MakeFailedError(err)
	}
	if err := b.player.SetString(propLoopPlaylist, playlist); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (b *Bridge) rate() (interface{}, error) {
	return b.player.GetFloatOr(propSpeed, 1.0), nil
}

func (b *Bridge) setRate(v dbus.Variant) *dbus.Error {
	rate, ok := dbusutil.Float64(v)
	if !ok {
		return &dbus.ErrMsgInvalidArg
	}
	if err := b.player.SetFloat(propSpeed, rate); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (b *Bridge) shuffle() (interface{}, error) {
	return b.player.GetBoolOr(propShuffle, false), nil
}

// setShuffle writes the flag and issues the matching playlist command, so
// command-driven shuffle order stays consistent with the flag. Not
// transactional: the flag may stick even when the command fails.
func (b *Bridge) setShuffle(v dbus.Variant) *dbus.Error {
	on, ok := dbusutil.Bool(v)
	if !ok {
		return &dbus.ErrMsgInvalidArg
	}
	if err := b.player.SetBool(propShuffle, on); err != nil {
		return dbus.MakeFailedError(err)
	}
	cmd := cmdUnshuffle
	if on {
		cmd = cmdShuffle
	}
	if err := b.player.Command(cmd); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// position converts mpv's time position (seconds) to microseconds.
func (b *Bridge) position() (interface{}, error) {
	return int64(b.player.GetFloatOr(propTimePos, 0) * 1e6), nil
}
