package player

const (
	// mpv IPC commands
	cmdGetProperty     = "get_property"
	cmdSetProperty     = "set_property"
	cmdObserveProperty = "observe_property"

	// mpv reply status for a successful call
	statusSuccess = "success"

	// Lifecycle event names delivered by mpv
	EventSeek            = "seek"
	EventPlaybackRestart = "playback-restart"
	EventShutdown        = "shutdown"
)
