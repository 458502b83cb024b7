package bridge

import (
	"github.com/godbus/dbus/v5"

	"github.com/lbonnet/mpvris/internal/dbusutil"
)

// rootEntries is the descriptor list for the org.mpris.MediaPlayer2
// interface: application identity, capability flags and URI/MIME support.
func (b *Bridge) rootEntries() []tableEntry {
	return []tableEntry{
		{kind: entryStart},

		{kind: entryMethod, name: "Raise", handler: b.thunk(b.raise)},
		{kind: entryMethod, name: "Quit", handler: b.thunk(b.quit)},

		{kind: entryPropRead, name: "CanQuit", propSig: "b", get: staticProp(true)},
		{kind: entryPropReadWrite, name: "Fullscreen", propSig: "b", get: b.fullscreen, set: b.setFullscreen},
		{kind: entryPropRead, name: "CanSetFullscreen", propSig: "b", get: b.canSetFullscreen},
		{kind: entryPropRead, name: "CanRaise", propSig: "b", get: staticProp(false)},
		{kind: entryPropRead, name: "HasTrackList", propSig: "b", get: staticProp(false)},
		{kind: entryPropRead, name: "Identity", propSig: "s", get: staticProp(b.cfg.Identity)},
		{kind: entryPropRead, name: "DesktopEntry", propSig: "s", get: staticProp(b.cfg.DesktopEntry)},
		{kind: entryPropRead, name: "SupportedUriSchemes", propSig: "as", get: staticProp(supportedURISchemes)},
		{kind: entryPropRead, name: "SupportedMimeTypes", propSig: "as", get: staticProp(supportedMimeTypes)},

		{kind: entryEnd},
	}
}

// staticProp builds a getter for a capability or identity value that never
// changes for the process lifetime.
func staticProp(v interface{}) propGetter {
	return func() (interface{}, error) { return v, nil }
}

// raise is a no-op: mpv has no way to raise its window from outside, and
// CanRaise advertises false.
func (b *Bridge) raise() *dbus.Error {
	return nil
}

func (b *Bridge) quit() *dbus.Error {
	if err := b.player.Command(cmdQuit); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

func (b *Bridge) fullscreen() (interface{}, error) {
	return b.player.GetBoolOr(propFullscreen, false), nil
}

func (b *Bridge) setFullscreen(v dbus.Variant) *dbus.Error {
	on, ok := dbusutil.Bool(v)
	if !ok {
		return &dbus.ErrMsgInvalidArg
	}
	if err := b.player.SetBool(propFullscreen, on); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// canSetFullscreen mirrors whether mpv has a configured video output.
func (b *Bridge) canSetFullscreen() (interface{}, error) {
	return b.player.GetBoolOr(propVOConfigured, false), nil
}
