package bridge

import (
	"strconv"

	"github.com/godbus/dbus/v5"
)

// metadata builds the track metadata map fresh per request. It always
// carries a synthetic track id and a title; the length entry appears only
// when mpv reports a duration. Map iteration order is unspecified.
func (b *Bridge) metadata() (interface{}, error) {
	meta := map[string]dbus.Variant{
		"mpris:trackid": dbus.MakeVariant(trackID(b.player.GetIntOr(propPlaylistPos, -1))),
		"xesam:title":   dbus.MakeVariant(b.player.GetStringOr(propMediaTitle, defaultTitle)),
	}

	if duration, err := b.player.GetFloat(propDuration); err == nil {
		meta["mpris:length"] = dbus.MakeVariant(int64(duration * 1e6))
	}

	return meta, nil
}

// trackID derives the synthetic track object path from the playlist
// position. A negative position means no current track.
func trackID(pos int64) dbus.ObjectPath {
	if pos < 0 {
		return dbus.ObjectPath(noTrackPath)
	}
	return dbus.ObjectPath(trackPathPrefix + strconv.FormatInt(pos, 10))
}
