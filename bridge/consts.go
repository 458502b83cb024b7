package bridge

import "github.com/godbus/dbus/v5"

// MPRIS2 object model constants. Member names and signatures are fixed by
// the MPRIS specification and must match it exactly.
const (
	pathMPRIS = dbus.ObjectPath("/org/mpris/MediaPlayer2")

	ifaceRoot           = "org.mpris.MediaPlayer2"
	ifacePlayer         = "org.mpris.MediaPlayer2.Player"
	ifaceProperties     = "org.freedesktop.DBus.Properties"
	ifaceIntrospectable = "org.freedesktop.DBus.Introspectable"

	sigPropertiesChanged = ifaceProperties + ".PropertiesChanged"
	sigSeeked            = ifacePlayer + ".Seeked"

	trackPathPrefix = "/org/mpris/MediaPlayer2/Track/"
	noTrackPath     = "/org/mpris/MediaPlayer2/TrackList/NoTrack"
)

const (
	statusPlaying = "Playing"
	statusPaused  = "Paused"
	statusStopped = "Stopped"

	loopNone     = "None"
	loopTrack    = "Track"
	loopPlaylist = "Playlist"

	defaultTitle = "Unknown title"

	// Advertised rate bounds. The Rate setter does not enforce them;
	// mpv clamps on its own.
	minimumRate = 0.01
	maximumRate = 100.0
)

// mpv property names consumed through the player accessor surface.
const (
	propPause        = "pause"
	propIdleActive   = "idle-active"
	propLoopFile     = "loop-file"
	propLoopPlaylist = "loop-playlist"
	propSpeed        = "speed"
	propShuffle      = "shuffle"
	propMediaTitle   = "media-title"
	propDuration     = "duration"
	propPlaylistPos  = "playlist-pos"
	propVolume       = "volume"
	propAOVolume     = "ao-volume"
	propTimePos      = "time-pos"
	propFullscreen   = "fullscreen"
	propVOConfigured = "vo-configured"
)

// mpv command and lifecycle event names.
const (
	cmdQuit      = "quit"
	cmdStop      = "stop"
	cmdNext      = "playlist-next"
	cmdPrev      = "playlist-prev"
	cmdSeek      = "seek"
	cmdLoadFile  = "loadfile"
	cmdShuffle   = "playlist-shuffle"
	cmdUnshuffle = "playlist-unshuffle"

	eventSeek            = "seek"
	eventPlaybackRestart = "playback-restart"
)

var supportedURISchemes = []string{"file", "http", "https", "ytdl", "rtmp", "rtsp", "ftp"}

var supportedMimeTypes = []string{
	"audio/mpeg", "audio/flac", "audio/ogg", "audio/x-wav",
	"video/mp4", "video/x-matroska", "video/webm", "video/avi",
}
